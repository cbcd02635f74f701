package imaging

import (
	"fmt"
	"strings"
)

type Format int

const (
	PNG Format = iota
	WebP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case WebP:
		return "webp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ContentType is the MIME type of images encoded in f.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case WebP:
		return "image/webp"
	case TIFF:
		return "image/tiff"
	}
	return "application/octet-stream"
}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return 0, &EncodingError{Reason: fmt.Sprintf("unsupported format: %q", name)}
}

// MarshalText lets settings files name the format as a string.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
