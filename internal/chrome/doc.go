// Package chrome extracts the site "chrome" (stylesheets and navigation
// header) from the landing site, so other pages of the site can reuse it.
//
// A Chrome is built once with New, which fetches and sanitizes the page
// through an injected FetchFunc. There is no package-level cache: callers
// keep the returned value as long as they need it.
package chrome
