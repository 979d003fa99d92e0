// Package feed turns the planet feed into the HTML fragment shown on the page.
//
// Parse extracts link, title, publish date and body from every item using
// gofeed, which accepts RSS 0.9x/1.0/2.0 and Atom. Render formats the items
// with a fixed template, one block per item, in feed order. RenderPlanet wraps
// those blocks in the planet container with its title and feed icon.
package feed
