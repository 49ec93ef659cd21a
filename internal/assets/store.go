// Package assets stores and serves the binary artifacts attached to
// memories: the recorded audio clips and optional location images.
package assets

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// URL prefixes under which stored assets are served. A reference returned
// by the store is always one of these prefixes plus a plain filename.
const (
	AudioPrefix = "/recordings/"
	ImagePrefix = "/location-images/"
)

// Store is the interface for asset persistence.
type Store interface {
	// SaveAudio writes an audio clip and returns its serving reference.
	SaveAudio(data []byte, filename string) (string, error)
	// SaveImage writes a location image and returns its serving reference.
	SaveImage(data []byte, filename string) (string, error)
	// Remove deletes the asset behind ref. Removing a reference that does
	// not exist is not an error.
	Remove(ref string) error
	// Resolve maps a serving reference to an absolute file path.
	Resolve(ref string) (string, error)
}

var audioMimeToExt = map[string]string{
	"audio/webm": ".webm",
	"audio/ogg":  ".ogg",
	"audio/mpeg": ".mp3",
	"audio/mp4":  ".m4a",
	"audio/wav":  ".wav",
	"audio/wave": ".wav",
}

// DecodeAudioDataURI parses a data:[<mediatype>];base64,<data> URI holding
// a recorded clip and returns the raw bytes plus a file extension inferred
// from the MIME type (".webm" when the type is missing or unknown, since
// that is what browser recorders produce).
func DecodeAudioDataURI(uri string) ([]byte, string, error) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, "", fmt.Errorf("invalid data URI: missing comma separator")
	}

	meta := rest[:commaIdx]
	encoded := rest[commaIdx+1:]

	if !strings.Contains(meta, ";base64") {
		return nil, "", fmt.Errorf("only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty audio payload")
	}

	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	ext := audioMimeToExt[mime]
	if ext == "" {
		ext = ".webm"
	}
	return data, ext, nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// LocationSlug derives a safe filename stem from a free-text location name.
func LocationSlug(location string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(location), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "unspecified"
	}
	return slug
}
