// Package htmlfix repairs serialized HTML after the landing page has been
// edited and rendered back to a string.
//
// Both transforms are pure string functions with no error conditions:
//   - RepairSelfClosingTags expands self-closed tags that browsers do not
//     accept as void (<div/>, <script/>) into an open/close pair.
//   - AddDoctype restores the doctype and <html> wrapper that the page
//     serializer leaves out.
//
// Design decision: The tag repair is a regular expression over simple
// single-line tags, not an HTML parser. The defect it corrects is that narrow.
// It is kept behind RepairSelfClosingTags(html, tags) so a tree-based
// serializer can replace it without touching callers.
package htmlfix
