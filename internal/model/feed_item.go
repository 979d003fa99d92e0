package model

// FeedItem is one entry of the planet feed, reduced to the four fields the
// page template needs.
//
// No uniqueness or ordering invariant is enforced here: items keep the order
// in which they appear in the feed.
type FeedItem struct {
	// Link is the URL of the original post.
	Link string `json:"link"`

	// Title is the post title as plain text.
	Title string `json:"title"`

	// Published is the publish date exactly as it appears in the feed.
	// It is displayed verbatim and never parsed.
	Published string `json:"published"`

	// Body is the post summary as raw markup.
	Body string `json:"body"`
}
