package pipeline

import (
	"time"

	"github.com/nao1215/planetpage/internal/model"
	"github.com/nao1215/planetpage/internal/page"
)

// Build is the state shared by the steps of one page build.
type Build struct {
	// FeedURL is the planet feed to render.
	FeedURL string

	// LandingURL is the page the planet is merged into.
	LandingURL string

	// Feed is the fetched feed document.
	Feed *model.Resource

	// Landing is the fetched landing page.
	Landing *model.Resource

	// Page is the parsed landing page, edited in place by later steps.
	Page *page.Document

	// Items are the parsed feed items, in feed order.
	Items []model.FeedItem

	// Fragment is the rendered planet markup.
	Fragment string

	// HTML is the final document.
	HTML []byte

	// StartedAt is when Execute was called.
	StartedAt time.Time

	// Duration is the wall time of Execute.
	Duration time.Duration

	// PerformedSteps lists the steps that ran, including a failed one.
	PerformedSteps []string

	// Error is the error that stopped the build, if any.
	Error error
}

// NewBuild creates a Build for the given feed and landing page.
func NewBuild(feedURL, landingURL string) *Build {
	return &Build{
		FeedURL:    feedURL,
		LandingURL: landingURL,
	}
}

// Resources returns the documents fetched so far, feed first.
func (b *Build) Resources() []*model.Resource {
	out := make([]*model.Resource, 0, 2)
	if b.Feed != nil {
		out = append(out, b.Feed)
	}
	if b.Landing != nil {
		out = append(out, b.Landing)
	}
	return out
}

// Record summarizes the build for the history database.
// outputPath is where the document was written; empty means stdout.
func (b *Build) Record(outputPath string) *model.BuildRecord {
	rec := &model.BuildRecord{
		StartedAt:  b.StartedAt,
		FeedURL:    b.FeedURL,
		LandingURL: b.LandingURL,
		ItemCount:  len(b.Items),
		OutputPath: outputPath,
		OutputHash: model.HashBytes(b.HTML),
		Bytes:      len(b.HTML),
		Duration:   b.Duration,
		Steps:      append([]string(nil), b.PerformedSteps...),
	}
	if b.Error != nil {
		rec.Error = b.Error.Error()
	}
	return rec
}
