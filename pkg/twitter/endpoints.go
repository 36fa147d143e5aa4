package twitter

import (
	"fmt"
	"net/url"
)

// timelineEndpoints maps a configured timeline name to its v1.1 REST path.
// Selecting a timeline by config string goes through this table; there is no
// dynamic dispatch.
var timelineEndpoints = map[string]string{
	"home_timeline":     "/1.1/statuses/home_timeline.json",
	"user_timeline":     "/1.1/statuses/user_timeline.json",
	"mentions_timeline": "/1.1/statuses/mentions_timeline.json",
	"list_timeline":     "/1.1/lists/statuses.json",
	"favorites":         "/1.1/favorites/list.json",
}

// TimelineURL builds the request URL for a named timeline with the given
// query parameters. Unknown names are a configuration error.
func TimelineURL(baseURL, name string, params map[string]string) (string, error) {
	path, ok := timelineEndpoints[name]
	if !ok {
		return "", fmt.Errorf("unknown timeline type %q", name)
	}

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	u := baseURL + path
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u, nil
}

// TimelineTypes returns the supported timeline names.
func TimelineTypes() []string {
	names := make([]string, 0, len(timelineEndpoints))
	for name := range timelineEndpoints {
		names = append(names, name)
	}
	return names
}

// OrigMediaURL returns the URL of the original-resolution variant of a media
// entity.
func OrigMediaURL(mediaURL string) string {
	return mediaURL + ":orig"
}

// PermalinkURL returns the public status URL for a tweet id and author handle.
func PermalinkURL(id int64, screenName string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%d", screenName, id)
}
