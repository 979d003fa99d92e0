// Package page wraps the landing page DOM and the in-place edits a build
// makes to it: removing session-only elements, replacing the placeholder
// with the rendered planet, and advertising the feed in <head>.
//
// Design decision: Selection and mutation go through goquery, which sits on
// golang.org/x/net/html. CSS selectors keep the configuration readable
// ("#portal-column-content") and the tree stays a real x/net/html tree for
// serialization.
package page
