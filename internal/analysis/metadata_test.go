package analysis

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestExtractMetadataCorruptImageBytes(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x04, 0xDE, 0xAD}
	meta := ExtractMetadata(data, "image/jpeg")
	if meta["sizeBytes"] != int64(len(data)) {
		t.Fatalf("expected sizeBytes %d, got %v", len(data), meta["sizeBytes"])
	}
	if _, ok := meta["cameraMake"]; ok {
		t.Fatalf("expected no EXIF fields for corrupt bytes, got %v", meta)
	}
}

func TestExtractMetadataNonImage(t *testing.T) {
	meta := ExtractMetadata([]byte("plain text complaint"), "text/plain")
	if len(meta) != 1 {
		t.Fatalf("expected size-only metadata for non-image, got %v", meta)
	}
}

func TestExtractMetadataImageDimensions(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	meta := ExtractMetadata(buf.Bytes(), "image/png")
	if meta["width"] != 12 || meta["height"] != 8 {
		t.Fatalf("expected 12x8 dimensions, got %v", meta)
	}
}

func TestInferMimeTypeDeclaredWins(t *testing.T) {
	if got := InferMimeType("video/mp4", []byte("not a video")); got != "video/mp4" {
		t.Fatalf("expected declared type to win, got %q", got)
	}
}

func TestInferMimeTypeSniffsWhenMissing(t *testing.T) {
	got := InferMimeType("", []byte("%PDF-1.4 fake"))
	if got != "application/pdf" {
		t.Fatalf("expected sniffed application/pdf, got %q", got)
	}
}
