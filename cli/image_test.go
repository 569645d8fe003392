package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSniffImageMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, "image/png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0}, "image/jpeg"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
	}
	for _, tt := range tests {
		got, err := sniffImageMIME(tt.data)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: sniffed %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSniffImageMIMEUnsupported(t *testing.T) {
	if _, err := sniffImageMIME([]byte("GIF89a")); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := sniffImageMIME(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

// TestLoadImageIgnoresExtension verifies detection comes from content, not
// the file name.
func TestLoadImageIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actually-a-png.jpg")
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	image, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if image.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", image.MIMEType)
	}
	if len(image.Data) != len(data) {
		t.Errorf("Data length = %d, want %d", len(image.Data), len(data))
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
