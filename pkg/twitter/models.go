package twitter

import (
	"fmt"
	"strings"
	"time"
)

// createdAtLayout is the timestamp format used by the v1.1 REST API.
const createdAtLayout = time.RubyDate

// Time wraps time.Time to decode the API's created_at format.
type Time struct {
	time.Time
}

// UnmarshalJSON parses a v1.1 created_at timestamp.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse(createdAtLayout, s)
	if err != nil {
		return fmt.Errorf("invalid created_at %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON renders the timestamp back in the API format.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(createdAtLayout) + `"`), nil
}

// User is the tweet author.
type User struct {
	ScreenName string `json:"screen_name"`
}

// Media is a single attached media entity.
type Media struct {
	MediaURLHTTPS string `json:"media_url_https"`
	Type          string `json:"type"`
}

// Entities holds the media attachments of a tweet. The extended_entities
// field carries the full set when a tweet has more than one photo.
type Entities struct {
	Media []Media `json:"media"`
}

// Tweet is a single timeline entry as returned by the v1.1 REST API.
type Tweet struct {
	ID               int64     `json:"id"`
	Text             string    `json:"text"`
	CreatedAt        Time      `json:"created_at"`
	User             User      `json:"user"`
	RetweetedStatus  *Tweet    `json:"retweeted_status,omitempty"`
	Entities         Entities  `json:"entities"`
	ExtendedEntities *Entities `json:"extended_entities,omitempty"`
}

// IsRetweet reports whether the tweet is a reshare of another tweet.
func (t *Tweet) IsRetweet() bool {
	return t.RetweetedStatus != nil
}

// Original resolves the reshare indirection once: it returns the retweeted
// tweet for a retweet and the tweet itself otherwise. Retweets never attach
// their own distinct media, so media extraction always works on the result.
func (t *Tweet) Original() *Tweet {
	if t.RetweetedStatus != nil {
		return t.RetweetedStatus
	}
	return t
}

// DisplayText returns the canonical text for persistence: the tweet's own
// text, or the "RT @handle: text" synthesis for a retweet.
func (t *Tweet) DisplayText() string {
	if t.RetweetedStatus != nil {
		return fmt.Sprintf("RT @%s: %s", t.RetweetedStatus.User.ScreenName, t.RetweetedStatus.Text)
	}
	return t.Text
}

// MediaList returns the attached media, preferring the extended entities
// over the basic ones.
func (t *Tweet) MediaList() []Media {
	if t.ExtendedEntities != nil {
		return t.ExtendedEntities.Media
	}
	return t.Entities.Media
}
