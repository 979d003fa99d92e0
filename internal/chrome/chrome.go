package chrome

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/planetpage/internal/config"
	"github.com/nao1215/planetpage/internal/model"
	"github.com/nao1215/planetpage/internal/page"
)

// FetchFunc retrieves a document. (*fetch.Fetcher).Fetch satisfies it.
type FetchFunc func(ctx context.Context, url string) (*model.Resource, error)

// Chrome holds the sanitized landing page.
type Chrome struct {
	doc                *page.Document
	headerSelector     string
	stylesheetSelector string
}

// Option configures a Chrome.
type Option func(*Chrome)

// WithHeaderSelector overrides the navigation header selector.
func WithHeaderSelector(selector string) Option {
	return func(c *Chrome) {
		if selector != "" {
			c.headerSelector = selector
		}
	}
}

// WithStylesheetSelector overrides the stylesheet selector.
func WithStylesheetSelector(selector string) Option {
	return func(c *Chrome) {
		if selector != "" {
			c.stylesheetSelector = selector
		}
	}
}

// New fetches url with fetch, parses it and removes the elements matched by
// sessionSelectors, the same way the landing page is cleaned before a build.
func New(ctx context.Context, url string, fetch FetchFunc, sessionSelectors []string, opts ...Option) (*Chrome, error) {
	if fetch == nil {
		return nil, fmt.Errorf("chrome: nil fetch function")
	}

	res, err := fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch site chrome: %w", err)
	}

	doc, err := page.ParseBytes(res.Body)
	if err != nil {
		return nil, err
	}
	doc.RemoveAll(sessionSelectors...)

	c := &Chrome{
		doc:                doc,
		headerSelector:     config.DefaultHeaderSelector,
		stylesheetSelector: config.DefaultStylesheetSelector,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Stylesheets returns the outer HTML of every <style> and stylesheet <link>
// of <head>, one per line, in document order.
func (c *Chrome) Stylesheets() (string, error) {
	blocks, err := c.doc.OuterHTML(c.stylesheetSelector)
	if err != nil {
		return "", err
	}
	return strings.Join(blocks, "\n"), nil
}

// Header returns the outer HTML of the navigation header, or an empty
// string when the page has none.
func (c *Chrome) Header() (string, error) {
	blocks, err := c.doc.OuterHTML(c.headerSelector)
	if err != nil {
		return "", err
	}
	return strings.Join(blocks, "\n"), nil
}
