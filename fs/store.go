// Package fs provides file-based storage for the mirror tree.
package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcmirror/arcmirror"
)

// PrettyJSON re-indents a JSON document for stable, human-diffable files.
// Key order and number formatting are preserved as received. Returns
// EINVALID if data is not valid JSON.
func PrettyJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, arcmirror.Errorf(arcmirror.EINVALID, "not valid JSON: %s", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Ensure Store implements arcmirror.DocumentStore at compile time.
var _ arcmirror.DocumentStore = (*Store)(nil)

// Store keeps documents as pretty-printed JSON files under a root
// directory, mirroring the remote folder hierarchy.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory does not need to
// exist yet; it is created on first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the root directory of the store.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Has reports whether a document exists at the relative path.
func (s *Store) Has(rel string) bool {
	info, err := os.Stat(s.abs(rel))
	return err == nil && info.Mode().IsRegular()
}

// ReadDocument returns the stored bytes of a document.
// Returns ENOTFOUND if no document exists at the path.
func (s *Store) ReadDocument(rel string) ([]byte, error) {
	data, err := os.ReadFile(s.abs(rel))
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, arcmirror.Errorf(arcmirror.ENOTFOUND, "document %q not found", rel)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteDocument stores a document pretty-printed, creating parent
// directories as needed. The data goes through a temporary file in the
// target directory followed by a rename, so an interrupted write never
// leaves a partial document behind.
func (s *Store) WriteDocument(rel string, data []byte) error {
	pretty, err := PrettyJSON(data)
	if err != nil {
		return err
	}

	fullPath := s.abs(rel)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".arcmirror-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(pretty); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// EnsureDir creates the directory at the relative path if it does not
// exist yet.
func (s *Store) EnsureDir(rel string) error {
	return os.MkdirAll(s.abs(rel), 0755)
}

// Walk calls fn with the relative path of every JSON document below the
// store root in lexical order, stopping at the first error.
// Returns ENOTFOUND if the root directory does not exist.
func (s *Store) Walk(fn func(rel string) error) error {
	return filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == s.root && errors.Is(err, iofs.ErrNotExist) {
				return arcmirror.Errorf(arcmirror.ENOTFOUND, "mirror directory %q not found", s.root)
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}
