package twitter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetUnmarshal(t *testing.T) {
	payload := `{
		"id": 1234567890,
		"text": "hello world",
		"created_at": "Wed Jan 01 00:00:00 +0000 2020",
		"user": {"screen_name": "someone"},
		"entities": {"media": [{"media_url_https": "https://pbs.twimg.com/media/abc.jpg", "type": "photo"}]}
	}`

	var tweet Tweet
	require.NoError(t, json.Unmarshal([]byte(payload), &tweet))

	assert.Equal(t, int64(1234567890), tweet.ID)
	assert.Equal(t, "hello world", tweet.Text)
	assert.Equal(t, "someone", tweet.User.ScreenName)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), tweet.CreatedAt.Time)
	require.Len(t, tweet.Entities.Media, 1)
	assert.Equal(t, "https://pbs.twimg.com/media/abc.jpg", tweet.Entities.Media[0].MediaURLHTTPS)
}

func TestTimeMarshal(t *testing.T) {
	ts := Time{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"Wed Jan 01 00:00:00 +0000 2020"`, string(data))

	var back Time
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(ts.Time))
}

func TestDisplayText(t *testing.T) {
	plain := &Tweet{Text: "just a tweet", User: User{ScreenName: "alice"}}
	assert.Equal(t, "just a tweet", plain.DisplayText())

	retweet := &Tweet{
		Text: "RT @bob: truncated...",
		User: User{ScreenName: "alice"},
		RetweetedStatus: &Tweet{
			Text: "the original words",
			User: User{ScreenName: "bob"},
		},
	}
	assert.Equal(t, "RT @bob: the original words", retweet.DisplayText())
}

func TestOriginal(t *testing.T) {
	orig := &Tweet{ID: 1, User: User{ScreenName: "bob"}}
	retweet := &Tweet{ID: 2, RetweetedStatus: orig}

	assert.Same(t, orig, retweet.Original())
	assert.True(t, retweet.IsRetweet())

	plain := &Tweet{ID: 3}
	assert.Same(t, plain, plain.Original())
	assert.False(t, plain.IsRetweet())
}

func TestMediaList(t *testing.T) {
	basic := []Media{{MediaURLHTTPS: "https://pbs.twimg.com/media/one.jpg"}}
	extended := []Media{
		{MediaURLHTTPS: "https://pbs.twimg.com/media/one.jpg"},
		{MediaURLHTTPS: "https://pbs.twimg.com/media/two.jpg"},
	}

	// Extended entities win when present.
	tweet := &Tweet{
		Entities:         Entities{Media: basic},
		ExtendedEntities: &Entities{Media: extended},
	}
	assert.Len(t, tweet.MediaList(), 2)

	// Fall back to the basic entities otherwise.
	tweet = &Tweet{Entities: Entities{Media: basic}}
	assert.Len(t, tweet.MediaList(), 1)

	// No media at all.
	tweet = &Tweet{}
	assert.Empty(t, tweet.MediaList())
}
