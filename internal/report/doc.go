// Package report renders the build history.
//
// Writers implement the Writer interface:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: JSON for scripts and monitoring
//   - MarkdownWriter: Markdown (tables and a mermaid chart) for wikis and issues
package report
