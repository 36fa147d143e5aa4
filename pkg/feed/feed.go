package feed

import (
	"context"
	"strconv"

	"github.com/skielred/twitter-images-collector/pkg/store"
	"github.com/skielred/twitter-images-collector/pkg/twitter"
)

// PageSize is the fixed number of images per page.
const PageSize = 100

// Image is one gallery entry as served to the frontend.
type Image struct {
	ID   int64  `json:"id"`
	Src  string `json:"src"`
	Href string `json:"href"`
	Alt  string `json:"alt"`
}

// Page is the payload of the listing endpoint. The frontend requests the
// next page by passing the smallest id it has seen, minus one, as maxid.
type Page struct {
	Images []Image `json:"imgs"`
}

// Reader assembles gallery pages from the store. contPath is the URL prefix
// under which stored files are served.
type Reader struct {
	store    store.Store
	contPath string
}

// NewReader creates a Reader serving files under contPath.
func NewReader(st store.Store, contPath string) *Reader {
	return &Reader{store: st, contPath: contPath}
}

// ParseCursor interprets a maxid query value. Anything that is not a plain
// decimal number means no cursor; a malformed value is not an error.
func ParseCursor(raw string) int64 {
	if raw == "" {
		return store.NoMaxID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return store.NoMaxID
	}
	return id
}

// List returns the newest page of images at or below maxID. Pass
// store.NoMaxID for the first page.
func (r *Reader) List(ctx context.Context, maxID int64) (*Page, error) {
	records, err := r.store.ListMedia(ctx, maxID, PageSize)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(records))
	for _, rec := range records {
		images = append(images, Image{
			ID:   rec.ID,
			Src:  r.contPath + "/" + rec.FileName,
			Href: twitter.PermalinkURL(rec.PostID, rec.ScreenName),
			Alt:  rec.Text,
		})
	}

	return &Page{Images: images}, nil
}
