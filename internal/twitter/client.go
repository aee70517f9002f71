package twitter

import (
	"context"
	"time"
)

// Tweet is the subset of a platform post the agent cares about. IDs are
// decimal strings that can exceed int64, so they are never parsed into
// machine integers.
type Tweet struct {
	ID             string
	AuthorID       string
	Username       string
	Name           string
	Text           string
	ConversationID string
	InReplyToID    string
	PhotoURLs      []string
	IsReply        bool
	IsRetweet      bool
	CreatedAt      time.Time
	Permalink      string
}

// Client is the platform surface the agent consumes. The HTTP
// implementation lives in this package; tests substitute their own.
type Client interface {
	// SearchRecent returns recent tweets matching the query, newest first.
	SearchRecent(ctx context.Context, query string, limit int) ([]Tweet, error)
	// GetTweet fetches one tweet by id.
	GetTweet(ctx context.Context, id string) (*Tweet, error)
	// UserTimeline returns the user's most recent tweets, newest first.
	UserTimeline(ctx context.Context, username string, limit int) ([]Tweet, error)
	// PostReply publishes text as a reply to the given tweet and returns
	// the created tweet.
	PostReply(ctx context.Context, text, inReplyToID string) (*Tweet, error)
}
