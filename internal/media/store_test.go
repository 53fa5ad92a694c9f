package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(afero.NewMemMapFs(), "uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestWriteAndList(t *testing.T) {
	s := memStore(t)

	ts := time.Date(2024, 8, 1, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return ts }

	url, err := s.Write("party.jpg", strings.NewReader("jpegdata"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(url, URLPrefix) || !strings.HasSuffix(url, "party.jpg") {
		t.Errorf("unexpected url %q", url)
	}

	files, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0] != url {
		t.Errorf("expected [%q], got %v", url, files)
	}
}

func TestListFiltersExtensions(t *testing.T) {
	s := memStore(t)

	s.Write("clip.mp4", strings.NewReader("x"))
	s.Write("photo.PNG", strings.NewReader("x"))
	s.Write("notes.txt", strings.NewReader("x"))
	s.Write("script.sh", strings.NewReader("x"))

	files, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 media files, got %v", files)
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".txt") || strings.HasSuffix(f, ".sh") {
			t.Errorf("non-media file listed: %q", f)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	s := memStore(t)

	ts := time.Date(2024, 8, 1, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { ts = ts.Add(time.Second); return ts }

	s.Write("first.jpg", strings.NewReader("x"))
	s.Write("second.jpg", strings.NewReader("x"))

	files, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if !strings.HasSuffix(files[0], "second.jpg") {
		t.Errorf("newest file should be first, got %v", files)
	}
}

func TestWriteSanitizesFilename(t *testing.T) {
	s := memStore(t)

	url, err := s.Write("../../etc/passwd ha.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(url, "..") || strings.Contains(url, " ") {
		t.Errorf("unsanitized url %q", url)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := memStore(t)
	s.Write("pic.jpg", strings.NewReader("x"))

	if _, err := s.Open("../uploads"); err == nil {
		t.Error("expected traversal open to fail")
	}
}

func TestCheck(t *testing.T) {
	s := memStore(t)
	if err := s.Check(context.Background()); err != nil {
		t.Errorf("check: %v", err)
	}
}
