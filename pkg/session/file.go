package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Record is an autosaved copy of a session's document.
type Record struct {
	ID       string          `json:"id"`
	Path     string          `json:"path,omitempty"`
	Revision uint64          `json:"revision"`
	SavedAt  time.Time       `json:"saved_at"`
	Document json.RawMessage `json:"document"`
}

// Decode parses the recorded document.
func (r *Record) Decode(opts ...graph.Option) (pedigree.Document, error) {
	return graph.Decode(r.Document, opts...)
}

// FileStore keeps autosave records as JSON files in a directory, one per
// session.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based autosave store.
// If baseDir is empty, defaults to <user cache dir>/pedigree/autosave.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultAutosaveDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "create autosave dir")
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

// DefaultAutosaveDir returns the directory [NewFileStore] uses by default.
func DefaultAutosaveDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(dir, "pedigree", "autosave"), nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get returns the record with the given id, or nil if there is none.
func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := perrors.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read autosave %s", id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "parse autosave %s", id)
	}
	return &rec, nil
}

// Set writes rec, stamping SavedAt.
func (s *FileStore) Set(ctx context.Context, rec *Record) error {
	if err := perrors.ValidateID(rec.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.SavedAt = s.now().UTC()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "encode autosave")
	}
	return writeAtomic(s.recordPath(rec.ID), buf.Bytes())
}

// Delete removes the record with the given id. A missing record is not an
// error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := perrors.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.recordPath(id)); err != nil && !os.IsNotExist(err) {
		return perrors.Wrap(perrors.ErrCodeIO, err, "remove autosave %s", id)
	}
	return nil
}

// List returns every readable record, newest first.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read autosave dir")
	}
	var out []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b Record) int { return b.SavedAt.Compare(a.SavedAt) })
	return out, nil
}

// Cleanup removes records older than maxAge and reports how many were
// removed.
func (s *FileStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return removed, perrors.Wrap(perrors.ErrCodeCanceled, err, "cleanup canceled")
		}
		if rec.SavedAt.Before(cutoff) {
			if err := s.Delete(ctx, rec.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// Path returns the directory holding the records.
func (s *FileStore) Path() string {
	return s.baseDir
}
