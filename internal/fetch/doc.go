// Package fetch retrieves the remote documents a build is made of.
//
// A Fetcher performs a single HTTP GET per call: no retry, no fallback, no
// cache. Any transport failure or error status is returned to the caller,
// which treats it as fatal for the build.
//
// HTML responses are decoded to UTF-8 using the charset announced by the
// server (or sniffed from the document). XML feeds are returned untouched so
// the feed parser can honour their XML declaration.
//
// # Usage
//
//	f := fetch.New(fetch.WithTimeout(30 * time.Second))
//	res, err := f.Fetch(ctx, "http://www.afpy.org/")
package fetch
