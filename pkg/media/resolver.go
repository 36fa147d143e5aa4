package media

import (
	"context"
	"time"

	"github.com/skielred/twitter-images-collector/pkg/errors"
	"github.com/skielred/twitter-images-collector/pkg/logger"
	"github.com/skielred/twitter-images-collector/pkg/retry"
	"github.com/skielred/twitter-images-collector/pkg/twitter"
)

// Resolver downloads the media attached to a tweet and hands the bytes to
// the content library. Failures never escape: a 4xx drops the single item,
// anything else is retried until it succeeds or the context ends.
type Resolver struct {
	fetcher    twitter.Fetcher
	library    *Library
	retryDelay time.Duration
	logger     logger.Logger
}

// NewResolver creates a Resolver. retryDelay is the fixed wait between
// download attempts for transient failures.
func NewResolver(fetcher twitter.Fetcher, library *Library, retryDelay time.Duration, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		fetcher:    fetcher,
		library:    library,
		retryDelay: retryDelay,
		logger:     log,
	}
}

// Resolve downloads every media item of the tweet (of the original tweet for
// a retweet) and returns the stored file names in persistence order.
//
// The media list is walked in reverse: items are inserted oldest-id-first
// downstream, so reversing here makes ascending store ids match the source
// display order.
func (r *Resolver) Resolve(ctx context.Context, t *twitter.Tweet) []string {
	t = t.Original()
	media := t.MediaList()

	names := make([]string, 0, len(media))
	for i := len(media) - 1; i >= 0; i-- {
		m := media[i]
		fetchURL := twitter.OrigMediaURL(m.MediaURLHTTPS)

		content, err := retry.DoWithResult(func() ([]byte, error) {
			return r.fetcher.DownloadMedia(ctx, fetchURL)
		}, &retry.Config{
			MaxAttempts: 0, // transient failures retry until the context ends
			Backoff:     &retry.ConstantBackoff{Delay: r.retryDelay},
			RetryIf: func(err error) bool {
				return !errors.IsPermanent(err)
			},
			Context: ctx,
			Logger:  r.logger,
		})
		if err != nil {
			r.logger.WarnWithFields("dropping media item", map[string]interface{}{
				"tweet_id": t.ID,
				"url":      fetchURL,
				"error":    err.Error(),
			})
			continue
		}

		name, err := r.library.Add(t.CreatedAt.Time, content, m.MediaURLHTTPS)
		if err != nil {
			r.logger.ErrorWithFields("failed to store media", map[string]interface{}{
				"tweet_id": t.ID,
				"url":      fetchURL,
				"error":    err.Error(),
			})
			continue
		}

		names = append(names, name)
	}

	return names
}
