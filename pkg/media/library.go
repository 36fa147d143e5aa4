package media

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/skielred/twitter-images-collector/pkg/logger"
)

// Library is the on-disk content store for downloaded media. File names are
// content-addressed, so a name that already exists never needs rewriting.
type Library struct {
	dir    string
	known  map[string]bool
	mu     sync.RWMutex
	logger logger.Logger
}

// NewLibrary opens the content store at dir, creating it if needed, and
// indexes the files already present.
func NewLibrary(dir string, log logger.Logger) (*Library, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	lib := &Library{
		dir:    dir,
		known:  make(map[string]bool),
		logger: log,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read media directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			lib.known[entry.Name()] = true
		}
	}

	return lib, nil
}

// FileName computes the deterministic name for a piece of content:
// the post timestamp, the content hash and the original URL's extension.
// Identical bytes, timestamp and extension always yield the same name.
func FileName(createdAt time.Time, content []byte, sourceURL string) string {
	return fmt.Sprintf("%s.%x.%s",
		createdAt.Format("20060102150405"),
		md5.Sum(content),
		extensionFromURL(sourceURL),
	)
}

// extensionFromURL returns the final dot-segment of the URL with any query
// suffix stripped.
func extensionFromURL(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawURL = rawURL[:i]
	}
	if i := strings.LastIndexByte(rawURL, '.'); i >= 0 {
		return rawURL[i+1:]
	}
	return rawURL
}

// Add stores content under its computed name, skipping the disk write when
// the name already exists. It always returns the name, written or not.
func (l *Library) Add(createdAt time.Time, content []byte, sourceURL string) (string, error) {
	name := FileName(createdAt, content, sourceURL)

	if l.Exists(name) {
		l.logger.DebugWithFields("media already stored", map[string]interface{}{
			"filename": name,
		})
		return name, nil
	}

	if err := l.write(name, content); err != nil {
		return "", err
	}

	return name, nil
}

// Exists reports whether a file with the given name is already materialized.
func (l *Library) Exists(name string) bool {
	l.mu.RLock()
	cached := l.known[name]
	l.mu.RUnlock()
	if cached {
		return true
	}

	if _, err := os.Stat(filepath.Join(l.dir, name)); err == nil {
		l.mu.Lock()
		l.known[name] = true
		l.mu.Unlock()
		return true
	}

	return false
}

// write persists content under name with a temp-file rename so readers never
// observe a partial file.
func (l *Library) write(name string, content []byte) error {
	dest := filepath.Join(l.dir, name)
	tmp := dest + ".tmp"

	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename media file: %w", err)
	}

	l.mu.Lock()
	l.known[name] = true
	l.mu.Unlock()

	return nil
}

// Dir returns the content store directory.
func (l *Library) Dir() string {
	return l.dir
}

// Count returns the number of stored files.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.known)
}
