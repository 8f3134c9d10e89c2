package analysis

import (
	"bytes"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
)

// InferMimeType prefers the client-declared type, then sniffs the bytes.
func InferMimeType(declared string, data []byte) string {
	if strings.TrimSpace(declared) != "" {
		return declared
	}
	return mimetype.Detect(data).String()
}

// ExtractMetadata returns structural metadata for an attachment. For images it
// attempts EXIF and pixel dimensions; anything that fails to parse degrades to
// the size-only mapping. Total: never returns an error.
func ExtractMetadata(data []byte, mimeType string) map[string]any {
	meta := map[string]any{"sizeBytes": int64(len(data))}
	if !strings.HasPrefix(mimeType, "image/") {
		return meta
	}

	func() {
		// goexif panics on some malformed TIFF structures.
		defer func() { _ = recover() }()

		x, err := exif.Decode(bytes.NewReader(data))
		if err != nil {
			return
		}
		if v := tagString(x, exif.Make); v != "" {
			meta["cameraMake"] = v
		}
		if v := tagString(x, exif.Model); v != "" {
			meta["cameraModel"] = v
		}
		if t, err := x.DateTime(); err == nil {
			meta["capturedAt"] = t
		}
		if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
			if iso, err := tag.Int(0); err == nil {
				meta["iso"] = iso
			}
		}
		if tag, err := x.Get(exif.FNumber); err == nil {
			if num, den, err := tag.Rat2(0); err == nil && den != 0 {
				meta["fNumber"] = float64(num) / float64(den)
			}
		}
		if tag, err := x.Get(exif.ExposureTime); err == nil {
			if num, den, err := tag.Rat2(0); err == nil && den != 0 && num != 0 {
				meta["exposureTime"] = float64(num) / float64(den)
			}
		}
		if lat, lon, err := x.LatLong(); err == nil {
			meta["latitude"] = lat
			meta["longitude"] = lon
		}
	}()

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		meta["width"] = cfg.Width
		meta["height"] = cfg.Height
	}
	return meta
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}
