package utils

import "hash/fnv"

func HashStringToUint64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Pick returns a deterministic element of items keyed on seed.
func Pick[T any](seed string, items []T) T {
	return items[int(HashStringToUint64(seed)%uint64(len(items)))]
}
