package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsImageFile(t *testing.T) {
	cases := map[string]bool{
		"photo.jpg":  true,
		"photo.JPEG": true,
		"photo.webp": true,
		"scores.txt": false,
		"noext":      false,
	}

	for name, expected := range cases {
		if got := IsImageFile(name); got != expected {
			t.Errorf("IsImageFile(%q) = %v, expected %v", name, got, expected)
		}
	}
}

func TestGenerateOutputFilename(t *testing.T) {
	got := GenerateOutputFilename("photos/cat.webp", "out", "_annotated", "jpg")
	expected := filepath.Join("out", "cat_annotated.jpg")

	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	// Empty format falls back to the input extension
	got = GenerateOutputFilename("cat.png", "out", "_text", "")
	expected = filepath.Join("out", "cat_text.png")

	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()

	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.jpg", "b.txt", filepath.Join("nested", "c.png")} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatalf("ListImageFiles failed: %v", err)
	}

	if len(files) != 2 {
		t.Errorf("Expected 2 image files, got %d: %v", len(files), files)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("Expected directory to exist")
	}

	// Idempotent
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}
