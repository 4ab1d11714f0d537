package imageio

import (
	"encoding/base64"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 100, 255})
		}
	}
	return img
}

func TestGetInfo(t *testing.T) {
	info := GetInfo(createTestImage(400, 300))

	if info.Width != 400 || info.Height != 300 {
		t.Errorf("Expected 400x300, got %dx%d", info.Width, info.Height)
	}

	expected := 400.0 / 300.0
	if info.AspectRatio != expected {
		t.Errorf("Expected aspect ratio %f, got %f", expected, info.AspectRatio)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	img := createTestImage(64, 48)

	for _, format := range []string{"jpg", "png", "webp"} {
		path := filepath.Join(dir, "test."+format)
		if err := Save(img, path, format, 90, false); err != nil {
			t.Fatalf("Save %s failed: %v", format, err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load %s failed: %v", format, err)
		}

		bounds := loaded.Bounds()
		if bounds.Dx() != 64 || bounds.Dy() != 48 {
			t.Errorf("%s: expected 64x48, got %dx%d", format, bounds.Dx(), bounds.Dy())
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadFromURLRejectsScheme(t *testing.T) {
	if _, err := LoadFromURL("ftp://example.com/img.jpg"); err == nil {
		t.Error("Expected error for unsupported scheme")
	}
}

func TestPrepare(t *testing.T) {
	img := createTestImage(2000, 1000)

	b64, err := Prepare(img, "jpg", 500, 85)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("Prepare returned invalid base64: %v", err)
	}

	decoded, err := decodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode prepared image: %v", err)
	}

	// Long side downscaled to the cap
	bounds := decoded.Bounds()
	if bounds.Dx() != 500 {
		t.Errorf("Expected long side 500, got %d", bounds.Dx())
	}
}

func TestPrepareNoResize(t *testing.T) {
	img := createTestImage(100, 50)

	b64, err := Prepare(img, "png", 0, 85)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	data, _ := base64.StdEncoding.DecodeString(b64)
	decoded, err := decodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode prepared image: %v", err)
	}

	if decoded.Bounds().Dx() != 100 {
		t.Errorf("Expected original width 100, got %d", decoded.Bounds().Dx())
	}
}
