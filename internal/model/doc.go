// Package model defines the data structures shared across planetpage.
//
// This package contains the following main types:
//   - Resource: A fetched HTTP response (feed or landing page)
//   - FeedItem: One entry extracted from the planet feed
//   - BuildRecord: The persisted summary of a single page build
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The fetcher, the feed renderer, the pipeline and the history
// database all use these types, so centralizing them prevents import cycles.
//
// The models are plain data. They carry no parsed DOM; the landing page tree
// lives in the page package and only for the duration of a build.
package model
