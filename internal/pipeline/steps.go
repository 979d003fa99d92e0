package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/planetpage/internal/config"
	"github.com/nao1215/planetpage/internal/feed"
	"github.com/nao1215/planetpage/internal/htmlfix"
	"github.com/nao1215/planetpage/internal/model"
	"github.com/nao1215/planetpage/internal/page"
)

// ErrMissingInput is returned when a step runs before the step producing
// its input.
var ErrMissingInput = errors.New("missing step input")

// Fetcher retrieves a remote document. *fetch.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Resource, error)
}

// FetchStep downloads the feed and the landing page.
// Both requests run concurrently; the step returns once both are done.
type FetchStep struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher Fetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: fetcher, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches build.FeedURL and build.LandingURL.
func (s *FetchStep) Do(ctx context.Context, build *Build) error {
	g, gctx := errgroup.WithContext(ctx)

	var feedRes, landingRes *model.Resource
	g.Go(func() error {
		res, err := s.fetcher.Fetch(gctx, build.FeedURL)
		if err != nil {
			return fmt.Errorf("failed to fetch feed: %w", err)
		}
		feedRes = res
		return nil
	})
	g.Go(func() error {
		res, err := s.fetcher.Fetch(gctx, build.LandingURL)
		if err != nil {
			return fmt.Errorf("failed to fetch landing page: %w", err)
		}
		landingRes = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	build.Feed = feedRes
	build.Landing = landingRes

	s.logger.Debug("documents fetched",
		"feed_bytes", len(feedRes.Body),
		"landing_bytes", len(landingRes.Body),
	)
	return nil
}

// SanitizeStep parses the landing page and removes the session-only
// elements (search box, personal tools).
type SanitizeStep struct {
	selectors []string
	logger    *slog.Logger
}

// NewSanitizeStep creates a SanitizeStep removing the given selectors.
func NewSanitizeStep(selectors []string, logger *slog.Logger) *SanitizeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SanitizeStep{selectors: selectors, logger: logger}
}

// Name returns the step name.
func (s *SanitizeStep) Name() string {
	return "sanitize"
}

// Do sets build.Page to the cleaned landing page.
func (s *SanitizeStep) Do(_ context.Context, build *Build) error {
	if build.Landing == nil {
		return fmt.Errorf("%w: landing page not fetched", ErrMissingInput)
	}

	doc, err := page.ParseBytes(build.Landing.Body)
	if err != nil {
		return err
	}

	removed := doc.RemoveAll(s.selectors...)
	s.logger.Debug("session elements removed", "count", removed)

	build.Page = doc
	return nil
}

// RenderFeedStep parses the feed and renders the planet fragment.
type RenderFeedStep struct {
	title   string
	iconURI string
	logger  *slog.Logger
}

// NewRenderFeedStep creates a RenderFeedStep. iconURI is the src of the
// RSS icon, normally a data: URI.
func NewRenderFeedStep(title, iconURI string, logger *slog.Logger) *RenderFeedStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderFeedStep{title: title, iconURI: iconURI, logger: logger}
}

// Name returns the step name.
func (s *RenderFeedStep) Name() string {
	return "render_feed"
}

// Do sets build.Items and build.Fragment.
func (s *RenderFeedStep) Do(_ context.Context, build *Build) error {
	if build.Feed == nil {
		return fmt.Errorf("%w: feed not fetched", ErrMissingInput)
	}

	items, err := feed.ParseBytes(build.Feed.Body)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		s.logger.Warn("feed has no items", "feed", build.FeedURL)
	}

	fragment, err := feed.RenderPlanet(feed.Planet{
		Title:   s.title,
		FeedURL: build.FeedURL,
		IconURI: s.iconURI,
		Items:   items,
	})
	if err != nil {
		return err
	}

	build.Items = items
	build.Fragment = fragment
	return nil
}

// ComposeStep injects the planet fragment into the landing page and adds
// the RSS autodiscovery link.
type ComposeStep struct {
	container          string
	autodiscoveryTitle string
	logger             *slog.Logger
}

// NewComposeStep creates a ComposeStep.
func NewComposeStep(container, autodiscoveryTitle string, logger *slog.Logger) *ComposeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComposeStep{container: container, autodiscoveryTitle: autodiscoveryTitle, logger: logger}
}

// Name returns the step name.
func (s *ComposeStep) Name() string {
	return "compose"
}

// Do edits build.Page. A landing page without the container or without
// <head> is not an error; the output is then incomplete and a warning is
// logged.
func (s *ComposeStep) Do(_ context.Context, build *Build) error {
	if build.Page == nil {
		return fmt.Errorf("%w: landing page not parsed", ErrMissingInput)
	}

	if n := build.Page.ReplaceContent(s.container, build.Fragment); n == 0 {
		s.logger.Warn("planet container not found in landing page",
			"selector", s.container,
			"landing", build.LandingURL,
		)
	}

	if build.Page.Count("head") == 0 {
		s.logger.Warn("landing page has no head element", "landing", build.LandingURL)
	}
	return build.Page.AppendAutodiscovery(s.autodiscoveryTitle, build.FeedURL)
}

// SerializeStep turns the edited page into the final document.
type SerializeStep struct {
	noSelfClose []string
	language    string
}

// NewSerializeStep creates a SerializeStep. Tags in noSelfClose are
// expanded to an open/close pair when found self-closed.
func NewSerializeStep(noSelfClose []string, language string) *SerializeStep {
	return &SerializeStep{noSelfClose: noSelfClose, language: language}
}

// Name returns the step name.
func (s *SerializeStep) Name() string {
	return "serialize"
}

// Do sets build.HTML.
func (s *SerializeStep) Do(_ context.Context, build *Build) error {
	if build.Page == nil {
		return fmt.Errorf("%w: landing page not parsed", ErrMissingInput)
	}

	inner, err := build.Page.InnerHTML()
	if err != nil {
		return err
	}

	repaired := htmlfix.RepairSelfClosingTags(inner, s.noSelfClose)
	build.HTML = []byte(htmlfix.AddDoctype(repaired, htmlfix.WithLanguage(s.language)))
	return nil
}

// DefaultPipeline creates the standard build pipeline from cfg.
// iconURI is the src of the RSS icon next to the planet title.
func DefaultPipeline(cfg *config.Config, fetcher Fetcher, iconURI string, opts ...Option) *Pipeline {
	p := New(opts...)
	logger := p.logger

	p.AddSteps(
		NewFetchStep(fetcher, logger),
		NewSanitizeStep(cfg.SessionSelectors, logger),
		NewRenderFeedStep(cfg.PlanetTitle, iconURI, logger),
		NewComposeStep(cfg.ContainerSelector, cfg.AutodiscoveryTitle, logger),
		NewSerializeStep(cfg.NoSelfClose, cfg.Language),
	)
	return p
}
