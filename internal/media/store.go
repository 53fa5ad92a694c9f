// Package media is the object-store collaborator for uploaded photos and
// clips. The game server only ever writes blobs and lists reference paths;
// everything else about storage stays behind this boundary.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// URLPrefix is where stored files are exposed over HTTP.
const URLPrefix = "/media/"

// galleryExtensions are the file types the gallery lists. Anything else in
// the directory is ignored rather than rejected.
var galleryExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".mp4":  true,
	".webm": true,
	".mov":  true,
}

// Store writes and lists media files on an afero filesystem. Tests use a
// memory-backed fs, the server an OS fs rooted at the upload directory.
type Store struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir %q: %w", dir, err)
	}
	return &Store{fs: fs, dir: dir, now: time.Now}, nil
}

// Write stores the blob under a timestamped, sanitized name derived from the
// uploaded filename and returns its reference path.
func (s *Store) Write(name string, r io.Reader) (string, error) {
	base := sanitize(name)
	stored := fmt.Sprintf("%d-%s", s.now().UnixMilli(), base)

	f, err := s.fs.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return "", fmt.Errorf("creating media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing media file: %w", err)
	}
	return URLPrefix + stored, nil
}

// List enumerates stored files with known media extensions, newest first.
// The timestamped name prefix makes lexical order chronological.
func (s *Store) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading media dir: %w", err)
	}

	files := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if galleryExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, URLPrefix+e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// Open returns a stored file by its bare name, for serving under /media/.
func (s *Store) Open(name string) (afero.File, error) {
	name = path.Base(path.Clean("/" + name))
	return s.fs.Open(filepath.Join(s.dir, name))
}

// Check reports whether the backing directory is reachable. Health hook.
func (s *Store) Check(_ context.Context) error {
	if _, err := s.fs.Stat(s.dir); err != nil {
		return fmt.Errorf("media dir: %w", err)
	}
	return nil
}

// sanitize strips any path components and whitespace from an uploaded
// filename, falling back to a generic name for hostile or empty input.
func sanitize(name string) string {
	base := path.Base(path.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '-'
	}, base)
	if base == "" || base == "." || base == "/" {
		return "upload"
	}
	return base
}
