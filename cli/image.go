package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/richinex/snapgen/llm"
)

// LoadImage reads an image file and detects its MIME type from the content,
// not the file extension. PNG, JPEG, and WebP are accepted.
func LoadImage(path string) (*llm.ImageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	mimeType, err := sniffImageMIME(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &llm.ImageInput{Data: data, MIMEType: mimeType}, nil
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// sniffImageMIME identifies the image format from its magic bytes.
func sniffImageMIME(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "image/png", nil
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg", nil
	case len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic):
		return "image/webp", nil
	default:
		return "", fmt.Errorf("unsupported image format (want PNG, JPEG, or WebP)")
	}
}
