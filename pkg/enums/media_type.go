package enums

import "fmt"

// MediaType identifies the kind of catalog entry.
type MediaType string

const (
	MediaTypeBook  MediaType = "book"
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
)

var validMediaTypes = []MediaType{
	MediaTypeBook,
	MediaTypeAudio,
	MediaTypeVideo,
}

// AllMediaTypes returns every known type in display order.
func AllMediaTypes() []MediaType {
	out := make([]MediaType, len(validMediaTypes))
	copy(out, validMediaTypes)
	return out
}

// String returns the literal string for the type.
func (m MediaType) String() string {
	return string(m)
}

// Label returns the human-readable name used in page headings.
func (m MediaType) Label() string {
	switch m {
	case MediaTypeBook:
		return "Book"
	case MediaTypeAudio:
		return "Audio"
	case MediaTypeVideo:
		return "Video"
	default:
		return string(m)
	}
}

// IsValid reports whether the type is known.
func (m MediaType) IsValid() bool {
	for _, candidate := range validMediaTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaType converts raw input into a MediaType.
func ParseMediaType(value string) (MediaType, error) {
	for _, candidate := range validMediaTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media type %q", value)
}
