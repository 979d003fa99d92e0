package feed

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/samber/lo"

	"github.com/nao1215/planetpage/internal/model"
)

// Parse reads a feed document and returns its items in feed order.
// Items missing a field produce an empty string for that field; nothing is
// validated or filtered.
func Parse(r io.Reader) ([]model.FeedItem, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return lo.Map(parsed.Items, func(item *gofeed.Item, _ int) model.FeedItem {
		return toFeedItem(item)
	}), nil
}

// ParseBytes parses a feed document held in memory.
func ParseBytes(data []byte) ([]model.FeedItem, error) {
	return Parse(bytes.NewReader(data))
}

// toFeedItem extracts the four template fields of an item.
func toFeedItem(item *gofeed.Item) model.FeedItem {
	return model.FeedItem{
		Link:      itemLink(item),
		Title:     item.Title,
		Published: PublishDate(item),
		Body:      lo.CoalesceOrEmpty(item.Description, item.Content),
	}
}

// itemLink returns the item link, or the first alternate link for feeds
// that only carry <link href=...> elements.
func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if len(item.Links) > 0 {
		return item.Links[0]
	}
	return ""
}

// PublishDate returns the raw publish date of an item.
//
// The parser's Published value comes from <pubDate> (RSS) or <published>
// (Atom). When it is empty the date is looked up in the item's extension
// elements: Dublin Core dc:date first, then any namespaced element named
// pubDate, and finally the Updated value.
func PublishDate(item *gofeed.Item) string {
	if item.Published != "" {
		return item.Published
	}
	if item.DublinCoreExt != nil {
		if date, ok := lo.Find(item.DublinCoreExt.Date, func(d string) bool { return d != "" }); ok {
			return date
		}
	}
	if date := extensionValue(item.Extensions, "pubDate"); date != "" {
		return date
	}
	return item.Updated
}

// extensionValue returns the first non-empty value of an extension element
// with the given local name, in any namespace. Namespaces are searched in
// prefix order so the result does not depend on map iteration.
func extensionValue(exts ext.Extensions, name string) string {
	prefixes := lo.Keys(exts)
	slices.Sort(prefixes)
	for _, prefix := range prefixes {
		for _, e := range exts[prefix][name] {
			if e.Value != "" {
				return e.Value
			}
		}
	}
	return ""
}
