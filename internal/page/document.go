package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// autodiscoveryTemplate is the RSS autodiscovery link appended to <head>.
var autodiscoveryTemplate = template.Must(template.New("autodiscovery").Parse(
	`<link rel="alternate" type="application/rss+xml" title="{{.Title}}" href="{{.Href}}" />`,
))

// Document is a parsed HTML page that can be edited in place.
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseBytes parses an HTML document held in memory.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Count returns the number of elements matching selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// RemoveAll removes every element matching any of the selectors and returns
// how many were removed. Selectors that match nothing are no-ops.
func (d *Document) RemoveAll(selectors ...string) int {
	removed := 0
	for _, selector := range selectors {
		if strings.TrimSpace(selector) == "" {
			continue
		}
		sel := d.doc.Find(selector)
		removed += sel.Length()
		sel.Remove()
	}
	return removed
}

// ReplaceContent replaces the children of every element matching selector
// with the given HTML fragment. Existing content is discarded.
// It returns the number of matched containers.
func (d *Document) ReplaceContent(selector, fragment string) int {
	sel := d.doc.Find(selector)
	sel.SetHtml(fragment)
	return sel.Length()
}

// AppendAutodiscovery appends an RSS autodiscovery <link> to <head>.
func (d *Document) AppendAutodiscovery(title, href string) error {
	var buf strings.Builder
	err := autodiscoveryTemplate.Execute(&buf, struct {
		Title string
		Href  string
	}{Title: title, Href: href})
	if err != nil {
		return fmt.Errorf("failed to render autodiscovery link: %w", err)
	}
	d.doc.Find("head").AppendHtml(buf.String())
	return nil
}

// InnerHTML serializes the children of the <html> element.
// The doctype and the <html> tag itself are not part of the output; the
// htmlfix package puts them back with the attributes the site expects.
func (d *Document) InnerHTML() (string, error) {
	html, err := d.doc.Find("html").First().Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return html, nil
}

// OuterHTML returns the outer HTML of every element matching selector,
// in document order.
func (d *Document) OuterHTML(selector string) ([]string, error) {
	sel := d.doc.Find(selector)
	out := make([]string, 0, sel.Length())
	var err error
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var html string
		html, err = goquery.OuterHtml(s)
		if err != nil {
			return false
		}
		out = append(out, html)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %q: %w", selector, err)
	}
	return out, nil
}
