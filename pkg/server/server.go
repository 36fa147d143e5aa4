package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skielred/twitter-images-collector/pkg/config"
	"github.com/skielred/twitter-images-collector/pkg/feed"
	"github.com/skielred/twitter-images-collector/pkg/logger"
	"github.com/skielred/twitter-images-collector/pkg/media"
	"github.com/skielred/twitter-images-collector/pkg/store"
)

// Server serves the gallery page, the listing endpoint and the stored
// media files.
type Server struct {
	cfg        *config.ServerConfig
	appName    string
	reader     *feed.Reader
	library    *media.Library
	logger     logger.Logger
	httpServer *http.Server
}

// New creates a Server for the given reader and media library.
func New(cfg *config.Config, reader *feed.Reader, library *media.Library, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	s := &Server{
		cfg:     &cfg.Server,
		appName: cfg.AppName,
		reader:  reader,
		library: library,
		logger:  log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /list.json", s.handleList)
	mux.HandleFunc("GET "+s.cfg.ContPath+"/{file}", s.handleContent)
	if s.cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.withLogging(s.basicAuth(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("starting HTTP server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.reader.List(r.Context(), store.NoMaxID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list media for index page")
		writeError(w, http.StatusInternalServerError, "InternalError", "failed to list media")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{AppName: s.appName, Images: page.Images}
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("failed to render index page")
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	maxID := feed.ParseCursor(r.URL.Query().Get("maxid"))

	page, err := s.reader.List(r.Context(), maxID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list media")
		writeError(w, http.StatusInternalServerError, "InternalError", "failed to list media")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusNotFound, "NotFound", "no such file")
		return
	}

	path := filepath.Join(s.library.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "NotFound", "no such file")
		return
	}

	http.ServeFile(w, r, path)
}

// basicAuth gates every route behind the configured credentials. With no
// user configured the check is disabled.
func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Auth.User == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.Auth.User)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.Auth.Pass)) == 1
		if !ok || !userOK || !passOK {
			w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized", "credentials required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.logger.InfoWithFields("http request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.status,
			"duration": time.Since(start).String(),
		})
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]string{
		"error":   errType,
		"message": message,
	})
}
