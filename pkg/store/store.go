package store

import (
	"context"
	"time"
)

// Post is a persisted timeline entry. ExternalID is the source-assigned
// tweet id and the identity key: the store keeps at most one row per id.
type Post struct {
	ExternalID int64
	ScreenName string
	Text       string
	CreatedAt  time.Time
}

// MediaRecord is one downloaded media asset joined with its owning post,
// as served by the read side. ID is assigned by the store at insert time
// and defines serving order.
type MediaRecord struct {
	ID         int64
	FileName   string
	PostID     int64
	ScreenName string
	Text       string
}

// NoMaxID disables the cursor filter in ListMedia.
const NoMaxID int64 = -1

// Store is the persistence boundary shared by the poller (single writer)
// and the serving handlers (many readers).
type Store interface {
	// HasPost reports whether a post with the given external id exists.
	HasPost(ctx context.Context, externalID int64) (bool, error)

	// SavePost inserts a post unless one with the same external id already
	// exists. Re-inserting an existing id is a no-op, not an error.
	SavePost(ctx context.Context, post *Post) error

	// SaveMediaItem appends a media record for an already-persisted post and
	// returns the assigned id. Ids are monotonically increasing in insertion
	// order.
	SaveMediaItem(ctx context.Context, postID int64, fileName string) (int64, error)

	// ListMedia returns media records ordered by id descending, at most
	// limit rows. A maxID >= 0 restricts the result to ids <= maxID; pass
	// NoMaxID for no restriction.
	ListMedia(ctx context.Context, maxID int64, limit int) ([]MediaRecord, error)

	// Close releases the underlying resources.
	Close() error
}
