package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skielred/twitter-images-collector/pkg/config"
	"github.com/skielred/twitter-images-collector/pkg/errors"
	"github.com/skielred/twitter-images-collector/pkg/logger"
)

// Source is the timeline adapter consumed by the poller.
type Source interface {
	FetchTimeline(ctx context.Context) ([]Tweet, error)
}

// Fetcher downloads media content bytes.
type Fetcher interface {
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

// Client talks to the Twitter REST API and to the media CDN.
type Client struct {
	httpClient  *http.Client
	timelineURL string
	bearerToken string
	logger      logger.Logger
}

// NewClient builds a client for the timeline selected in the configuration.
func NewClient(cfg *config.TwitterConfig, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	timelineURL, err := TimelineURL(cfg.APIBaseURL, cfg.Timeline.Type, cfg.Timeline.Params)
	if err != nil {
		return nil, err
	}

	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		timelineURL: timelineURL,
		bearerToken: cfg.BearerToken,
		logger:      log,
	}, nil
}

// FetchTimeline fetches one batch of tweets from the configured timeline.
// Failures come back as classified *errors.Error values.
func (c *Client) FetchTimeline(ctx context.Context) ([]Tweet, error) {
	c.logger.DebugWithFields("fetching timeline", map[string]interface{}{
		"url": c.timelineURL,
	})

	body, err := c.get(ctx, c.timelineURL, true)
	if err != nil {
		return nil, err
	}

	var tweets []Tweet
	if err := json.Unmarshal(body, &tweets); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse timeline response", map[string]interface{}{
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse timeline: %v", err),
		}
	}

	c.logger.DebugWithFields("timeline fetched", map[string]interface{}{
		"tweet_count": len(tweets),
	})

	return tweets, nil
}

// DownloadMedia fetches the raw content bytes at the given URL. The media CDN
// does not require authentication.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	c.logger.DebugWithFields("downloading media", map[string]interface{}{
		"url": url,
	})

	data, err := c.get(ctx, url, false)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("media downloaded", map[string]interface{}{
		"url":  url,
		"size": len(data),
	})

	return data, nil
}

func (c *Client) get(ctx context.Context, url string, authenticated bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errors.Network(err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode != http.StatusOK {
		return nil, errors.FromStatusCode(resp.StatusCode, fmt.Sprintf("GET %s returned status %d", url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(fmt.Errorf("failed to read response body: %w", err))
	}

	return body, nil
}
