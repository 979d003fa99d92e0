// Package icon loads the RSS icon shown next to the planet title and turns
// it into a data: URI, so the generated page has no external image reference.
package icon

import (
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	"github.com/samber/lo"
)

//go:embed feedicon.png
var defaultIcon []byte

// defaultMIME is used when the content type cannot be sniffed as an image.
const defaultMIME = "image/png"

// Icon is an image ready to be embedded in HTML.
type Icon struct {
	// Data is the raw image file.
	Data []byte

	// MIME is the sniffed image content type.
	MIME string

	// Source is the file the icon was read from, or "embedded".
	Source string
}

// Default returns the icon bundled with the binary.
func Default() *Icon {
	return newIcon(defaultIcon, "embedded")
}

// Load reads the icon at path. An empty path returns Default.
func Load(path string) (*Icon, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // icon path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("failed to read icon: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("icon %s is empty", path)
	}
	return newIcon(data, path), nil
}

func newIcon(data []byte, source string) *Icon {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = defaultMIME
	}
	return &Icon{Data: data, MIME: mime, Source: source}
}

// DataURI returns the icon as a base64 data: URI.
func (i *Icon) DataURI() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// MetadataTags returns the names of the EXIF tags embedded in the icon,
// without duplicates. The icon ends up in a public page, so callers warn
// when this is not empty.
func (i *Icon) MetadataTags() ([]string, error) {
	rawExif, err := exif.SearchAndExtractExif(i.Data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search EXIF data: %w", err)
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EXIF data: %w", err)
	}

	return lo.Uniq(lo.Map(entries, func(e exif.ExifTag, _ int) string {
		return e.TagName
	})), nil
}
