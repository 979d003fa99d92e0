package feed

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/nao1215/planetpage/internal/model"
)

// itemTemplate renders one feed item. The body is trusted markup from the feed.
var itemTemplate = template.Must(template.New("item").Parse(`
<h2><a href="{{.Link}}">{{.Title}}</a></h2>
<div>
    <div class="documentByLine">
        <span class="documentModified">Publié le {{.Published}}</span>
    </div>
    <blockquote>
    {{.Body}}
    </blockquote>
</div>
`))

// planetTemplate wraps the rendered items with the planet heading and icon.
var planetTemplate = template.Must(template.New("planet").Parse(`
<div id="content">
    <h1>
        {{.Title}}
        <a href="{{.FeedURL}}">
            <img alt="RSS" src="{{.IconURI}}" />
        </a>
    </h1>
{{.Items}}
</div>
`))

// Planet is the input of RenderPlanet.
type Planet struct {
	// Title is the planet heading.
	Title string

	// FeedURL is the link behind the RSS icon.
	FeedURL string

	// IconURI is the icon image source, normally a base64 data: URI.
	IconURI string

	// Items are the feed items, in feed order.
	Items []model.FeedItem
}

// itemView is the template view of a FeedItem; Body is emitted verbatim.
type itemView struct {
	Link      string
	Title     string
	Published string
	Body      template.HTML //nolint:gosec // feed bodies are markup by definition
}

// planetView is the template view of a Planet.
type planetView struct {
	Title   string
	FeedURL string
	IconURI template.URL //nolint:gosec // data: URI built from a local file
	Items   template.HTML
}

// Render formats every item with the item template and joins the blocks
// with newlines. Order follows the input; nothing is filtered.
func Render(items []model.FeedItem) (string, error) {
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		var b strings.Builder
		err := itemTemplate.Execute(&b, itemView{
			Link:      item.Link,
			Title:     item.Title,
			Published: item.Published,
			Body:      template.HTML(item.Body), //nolint:gosec
		})
		if err != nil {
			return "", fmt.Errorf("failed to render item %d: %w", i, err)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n"), nil
}

// RenderPlanet renders the complete planet fragment: heading, icon link and
// the rendered items.
func RenderPlanet(p Planet) (string, error) {
	items, err := Render(p.Items)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = planetTemplate.Execute(&b, planetView{
		Title:   p.Title,
		FeedURL: p.FeedURL,
		IconURI: template.URL(p.IconURI), //nolint:gosec
		Items:   template.HTML(items),    //nolint:gosec
	})
	if err != nil {
		return "", fmt.Errorf("failed to render planet: %w", err)
	}
	return b.String(), nil
}
