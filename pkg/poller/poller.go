package poller

import (
	"context"
	"time"

	"github.com/skielred/twitter-images-collector/pkg/config"
	"github.com/skielred/twitter-images-collector/pkg/logger"
	"github.com/skielred/twitter-images-collector/pkg/media"
	"github.com/skielred/twitter-images-collector/pkg/retry"
	"github.com/skielred/twitter-images-collector/pkg/store"
	"github.com/skielred/twitter-images-collector/pkg/twitter"
)

// Poller drives the ingestion loop: fetch a timeline batch, persist the
// posts and their media in the order the source returned them, sleep,
// repeat. It is the only writer of the store.
type Poller struct {
	source          twitter.Source
	resolver        *media.Resolver
	store           store.Store
	successInterval time.Duration
	failureInterval time.Duration
	logger          logger.Logger
}

// New creates a Poller wired to a timeline source, a media resolver and a
// store. Intervals come from the poller section of the config.
func New(source twitter.Source, resolver *media.Resolver, st store.Store, cfg *config.PollerConfig, log logger.Logger) *Poller {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Poller{
		source:          source,
		resolver:        resolver,
		store:           st,
		successInterval: cfg.SuccessInterval,
		failureInterval: cfg.FailureInterval,
		logger:          log,
	}
}

// Run loops until the context is cancelled. A cycle that fails to fetch the
// timeline schedules the next one sooner; persistence errors for individual
// posts are logged and do not shorten the interval.
func (p *Poller) Run(ctx context.Context) error {
	for {
		interval := p.successInterval
		if err := p.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.WithError(err).Error("timeline fetch failed")
			interval = p.failureInterval
		}

		if err := retry.Wait(ctx, interval); err != nil {
			return err
		}
	}
}

// cycle processes one timeline batch in the order the source returned it.
func (p *Poller) cycle(ctx context.Context) error {
	timeline, err := p.source.FetchTimeline(ctx)
	if err != nil {
		return err
	}

	saved := 0
	for i := range timeline {
		t := &timeline[i]
		if err := p.ingest(ctx, t); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.ErrorWithFields("failed to persist post", map[string]interface{}{
				"tweet_id": t.ID,
				"error":    err.Error(),
			})
			continue
		}
		saved++
	}

	p.logger.InfoWithFields("timeline cycle complete", map[string]interface{}{
		"fetched": len(timeline),
		"new":     saved,
	})
	return nil
}

// ingest persists one post and its media. The post keeps its own identity
// even for a retweet: only the text is synthesized from the original, and
// the media come from the original via the resolver.
func (p *Poller) ingest(ctx context.Context, t *twitter.Tweet) error {
	seen, err := p.store.HasPost(ctx, t.ID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	names := p.resolver.Resolve(ctx, t)

	post := &store.Post{
		ExternalID: t.ID,
		ScreenName: t.User.ScreenName,
		Text:       t.DisplayText(),
		CreatedAt:  t.CreatedAt.Time,
	}
	if err := p.store.SavePost(ctx, post); err != nil {
		return err
	}

	for _, name := range names {
		if _, err := p.store.SaveMediaItem(ctx, t.ID, name); err != nil {
			return err
		}
	}

	if len(names) > 0 {
		p.logger.DebugWithFields("stored post media", map[string]interface{}{
			"tweet_id": t.ID,
			"media":    len(names),
		})
	}
	return nil
}
