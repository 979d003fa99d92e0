// Package main provides the entry point for the planetpage CLI.
//
// planetpage merges the planet RSS feed of a site into a copy of the site's
// landing page, so the planet is served with the same look as the rest of
// the site.
//
// Usage:
//
//	planetpage                   # write the page to stdout
//	planetpage planet.html       # write the page to a file
//	planetpage serve             # preview the page on a local HTTP server
//
// See --help for all available options.
package main

// main is the entry point for planetpage.
func main() {
	Execute()
}
