package media

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skielred/twitter-images-collector/pkg/logger"
)

var testTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFileNameDeterministic(t *testing.T) {
	content := []byte("image data")
	url := "https://pbs.twimg.com/media/abc.jpg"

	first := FileName(testTime, content, url)
	second := FileName(testTime, content, url)
	if first != second {
		t.Errorf("Expected identical names for identical input, got %s and %s", first, second)
	}

	expected := fmt.Sprintf("20200101000000.%x.jpg", md5.Sum(content))
	if first != expected {
		t.Errorf("Expected %s, got %s", expected, first)
	}
}

func TestFileNameDifferentContent(t *testing.T) {
	url := "https://pbs.twimg.com/media/abc.jpg"

	a := FileName(testTime, []byte("content a"), url)
	b := FileName(testTime, []byte("content b"), url)
	if a == b {
		t.Error("Expected different names for different content with the same timestamp")
	}
}

func TestFileNameZeroPadding(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	name := FileName(ts, []byte("x"), "https://example.com/a.png")
	if name[:14] != "20210304050607" {
		t.Errorf("Expected zero-padded timestamp prefix 20210304050607, got %s", name[:14])
	}
}

func TestExtensionFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://pbs.twimg.com/media/abc.jpg", "jpg"},
		{"https://pbs.twimg.com/media/abc.png?name=large", "png"},
		{"https://example.com/dir.with.dots/file.jpeg", "jpeg"},
	}

	for _, tt := range tests {
		if got := extensionFromURL(tt.url); got != tt.expected {
			t.Errorf("extensionFromURL(%s): expected %s, got %s", tt.url, tt.expected, got)
		}
	}
}

func TestLibraryAdd(t *testing.T) {
	tempDir := t.TempDir()

	lib, err := NewLibrary(tempDir, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create library: %v", err)
	}

	if lib.Count() != 0 {
		t.Error("Expected empty library initially")
	}

	content := []byte("photo bytes")
	name, err := lib.Add(testTime, content, "https://pbs.twimg.com/media/abc.jpg")
	if err != nil {
		t.Fatalf("Failed to add media: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tempDir, name))
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("Stored content does not match input")
	}

	if !lib.Exists(name) {
		t.Error("Expected Exists to report the stored file")
	}
}

func TestLibraryAddSkipsExisting(t *testing.T) {
	tempDir := t.TempDir()

	lib, err := NewLibrary(tempDir, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create library: %v", err)
	}

	content := []byte("photo bytes")
	url := "https://pbs.twimg.com/media/abc.jpg"

	name, err := lib.Add(testTime, content, url)
	if err != nil {
		t.Fatalf("First add failed: %v", err)
	}

	// Remove the file behind the library's back; the second Add must still
	// skip the write because the name is known, and still return the name.
	if err := os.Remove(filepath.Join(tempDir, name)); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	again, err := lib.Add(testTime, content, url)
	if err != nil {
		t.Fatalf("Second add failed: %v", err)
	}
	if again != name {
		t.Errorf("Expected same name %s, got %s", name, again)
	}
	if _, err := os.Stat(filepath.Join(tempDir, name)); !os.IsNotExist(err) {
		t.Error("Expected no re-write for an already known name")
	}
}

func TestLibraryScansExistingFiles(t *testing.T) {
	tempDir := t.TempDir()

	existing := "20200101000000.abc123.jpg"
	if err := os.WriteFile(filepath.Join(tempDir, existing), []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	lib, err := NewLibrary(tempDir, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create library: %v", err)
	}

	if !lib.Exists(existing) {
		t.Error("Expected pre-existing file to be indexed")
	}
	if lib.Count() != 1 {
		t.Errorf("Expected count 1 after scan, got %d", lib.Count())
	}
}
