package model

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// Resource represents a fetched remote document (the planet feed or the
// landing page) before it is parsed.
type Resource struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`

	// Body contains the response body. For HTML resources the body has
	// already been decoded to UTF-8.
	Body []byte `json:"-"`

	// Hash is the SHA3-256 hash of Body, hex encoded.
	// Used by the build history to detect upstream changes.
	Hash string `json:"hash"`

	// FetchedAt is the time the response was received.
	FetchedAt time.Time `json:"fetched_at"`

	// Duration is how long the request took, including reading the body.
	Duration time.Duration `json:"duration"`
}

// ComputeHash computes and stores the SHA3-256 hash of the body.
// An empty body produces an empty hash.
func (r *Resource) ComputeHash() {
	r.Hash = HashBytes(r.Body)
}

// IsHTML reports whether the resource was served as HTML.
func (r *Resource) IsHTML() bool {
	ct := strings.ToLower(r.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// HashBytes returns the hex encoded SHA3-256 hash of data.
// It returns an empty string for empty input.
func HashBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
