package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/planetpage/internal/config"
	"github.com/nao1215/planetpage/internal/model"
)

// ErrUnexpectedStatus is returned when the server answers with a status code >= 400.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// ErrBodyTooLarge is returned when a response body exceeds the maximum body size.
var ErrBodyTooLarge = errors.New("response body too large")

// acceptHeader covers both documents a build fetches.
const acceptHeader = "text/html,application/xhtml+xml,application/rss+xml,application/xml;q=0.9,*/*;q=0.8"

// Fetcher retrieves remote documents over HTTP GET.
type Fetcher struct {
	// client performs the requests. Its Timeout bounds every request.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize is the largest response body accepted. Longer bodies
	// fail the fetch rather than being cut.
	maxBodySize int64

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
// Tests use it to point the fetcher at an httptest server.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size. A larger body makes
// Fetch fail with ErrBodyTooLarge. Zero keeps the default.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher with defaults from the config package.
// Options are applied in order, so WithTimeout after WithHTTPClient
// changes the timeout of the supplied client.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: config.DefaultTimeout},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewFromConfig creates a Fetcher configured from cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Fetcher {
	return New(
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithMaxBodySize(cfg.MaxBodySize),
		WithLogger(logger),
	)
}

// Fetch performs a GET request for rawURL and returns the response as a Resource.
// It returns an error for transport failures and for status codes >= 400.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Resource, error) {
	errb := oops.In("fetch").With("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errb.Wrapf(err, "failed to create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	f.logger.Debug("fetching document", "url", rawURL)
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errb.Wrapf(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errb.With("status", resp.StatusCode).
			Wrap(fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
	}

	// One extra byte tells a body of exactly maxBodySize from a longer one
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, errb.With("status", resp.StatusCode).Wrapf(err, "failed to read body")
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, errb.With("status", resp.StatusCode, "max_body_size", f.maxBodySize).
			Wrap(fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize))
	}

	res := &model.Resource{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}

	if res.IsHTML() {
		decoded, err := toUTF8(body, res.ContentType)
		if err != nil {
			// Undecodable bodies are kept as-is; the HTML parser copes with bad bytes
			f.logger.Warn("failed to decode document charset", "url", rawURL, "error", err)
		} else {
			res.Body = decoded
		}
	}

	res.ComputeHash()
	res.Duration = time.Since(start)

	f.logger.Debug("document fetched",
		"url", rawURL,
		"status", res.StatusCode,
		"bytes", len(res.Body),
		"duration", res.Duration,
	)

	return res, nil
}

// toUTF8 converts an HTML body to UTF-8 according to its Content-Type header,
// falling back to <meta charset> sniffing.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
