package model

import (
	"time"
)

// BuildRecord is the persisted summary of one page build.
// It is written to the history database after every build, successful or not.
type BuildRecord struct {
	// ID is the database identifier. Zero until the record is saved.
	ID int64 `json:"id"`

	// StartedAt is when the build started.
	StartedAt time.Time `json:"started_at"`

	// FeedURL is the planet feed URL used for this build.
	FeedURL string `json:"feed_url"`

	// LandingURL is the landing page URL used for this build.
	LandingURL string `json:"landing_url"`

	// ItemCount is the number of feed items rendered into the page.
	ItemCount int `json:"item_count"`

	// OutputPath is the file the page was written to.
	// Empty when the page was written to standard output.
	OutputPath string `json:"output_path,omitempty"`

	// OutputHash is the SHA3-256 hash of the generated document.
	OutputHash string `json:"output_hash,omitempty"`

	// Bytes is the size of the generated document.
	Bytes int `json:"bytes"`

	// Duration is the wall time of the build.
	Duration time.Duration `json:"duration"`

	// Steps lists the pipeline steps that ran, in order.
	Steps []string `json:"steps,omitempty"`

	// Error is the error message of a failed build. Empty on success.
	Error string `json:"error,omitempty"`
}

// Succeeded reports whether the build completed without error.
func (b *BuildRecord) Succeeded() bool {
	return b.Error == ""
}

// Destination returns a human readable description of where the page went.
func (b *BuildRecord) Destination() string {
	if b.OutputPath == "" {
		return "stdout"
	}
	return b.OutputPath
}
