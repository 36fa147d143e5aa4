package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skielred/twitter-images-collector/pkg/config"
	"github.com/skielred/twitter-images-collector/pkg/feed"
	"github.com/skielred/twitter-images-collector/pkg/logger"
	"github.com/skielred/twitter-images-collector/pkg/media"
	"github.com/skielred/twitter-images-collector/pkg/store"
)

type stubStore struct {
	store.Store

	records  []store.MediaRecord
	gotMaxID int64
}

func (s *stubStore) ListMedia(_ context.Context, maxID int64, _ int) ([]store.MediaRecord, error) {
	s.gotMaxID = maxID
	return s.records, nil
}

func newTestServer(t *testing.T, st *stubStore, auth config.AuthConfig) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	lib, err := media.NewLibrary(dir, logger.NewTestLogger())
	require.NoError(t, err)

	cfg := &config.Config{
		AppName: "test gallery",
		Server: config.ServerConfig{
			Addr:     ":0",
			ContPath: "/cont",
			Auth:     auth,
		},
	}
	reader := feed.NewReader(st, cfg.Server.ContPath)
	return New(cfg, reader, lib, logger.NewTestLogger()), dir
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t, &stubStore{}, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="imgs"`)
	assert.Contains(t, rec.Body.String(), "<title>test gallery</title>")
	assert.Contains(t, rec.Body.String(), "<h1>test gallery</h1>")
}

func TestIndexPageRendersFirstPage(t *testing.T) {
	st := &stubStore{records: []store.MediaRecord{
		{ID: 3, FileName: "20200101000000.cc.jpg", PostID: 42, ScreenName: "alice", Text: "a cat"},
	}}
	srv, _ := newTestServer(t, st, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `src="/cont/20200101000000.cc.jpg"`)
	assert.Contains(t, body, `href="https://twitter.com/alice/status/42"`)
	assert.Contains(t, body, `data-id="3"`)
	assert.Contains(t, body, `alt="a cat"`)
	assert.Equal(t, store.NoMaxID, st.gotMaxID)
}

func TestListEndpoint(t *testing.T) {
	st := &stubStore{records: []store.MediaRecord{
		{ID: 5, FileName: "20200101000000.ff.jpg", PostID: 42, ScreenName: "alice", Text: "hello"},
	}}
	srv, _ := newTestServer(t, st, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/list.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page feed.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Images, 1)
	assert.Equal(t, "/cont/20200101000000.ff.jpg", page.Images[0].Src)
	assert.Equal(t, "https://twitter.com/alice/status/42", page.Images[0].Href)
	assert.Equal(t, store.NoMaxID, st.gotMaxID)
}

func TestListEndpointCursor(t *testing.T) {
	st := &stubStore{}
	srv, _ := newTestServer(t, st, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/list.json?maxid=99", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(99), st.gotMaxID)
}

func TestListEndpointIgnoresMalformedCursor(t *testing.T) {
	st := &stubStore{}
	srv, _ := newTestServer(t, st, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/list.json?maxid=bogus", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.NoMaxID, st.gotMaxID)
}

func TestContentServesStoredFile(t *testing.T) {
	srv, dir := newTestServer(t, &stubStore{}, config.AuthConfig{})

	name := "20200101000000.ab.jpg"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("image bytes"), 0644))

	rec := doRequest(srv, httptest.NewRequest("GET", "/cont/"+name, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image bytes", rec.Body.String())
}

func TestContentMissingFile(t *testing.T) {
	srv, _ := newTestServer(t, &stubStore{}, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/cont/nope.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentRejectsDotFiles(t *testing.T) {
	srv, dir := newTestServer(t, &stubStore{}, config.AuthConfig{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("secret"), 0644))

	rec := doRequest(srv, httptest.NewRequest("GET", "/cont/.hidden", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBasicAuth(t *testing.T) {
	auth := config.AuthConfig{User: "viewer", Pass: "hunter2"}
	srv, _ := newTestServer(t, &stubStore{}, auth)

	rec := doRequest(srv, httptest.NewRequest("GET", "/list.json", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest("GET", "/list.json", nil)
	req.SetBasicAuth("viewer", "wrong")
	assert.Equal(t, http.StatusUnauthorized, doRequest(srv, req).Code)

	req = httptest.NewRequest("GET", "/list.json", nil)
	req.SetBasicAuth("viewer", "hunter2")
	assert.Equal(t, http.StatusOK, doRequest(srv, req).Code)
}

func TestAuthDisabledWithoutUser(t *testing.T) {
	srv, _ := newTestServer(t, &stubStore{}, config.AuthConfig{})

	rec := doRequest(srv, httptest.NewRequest("GET", "/list.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
