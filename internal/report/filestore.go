package report

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"medrep-bot/internal/sheet"
	"medrep-bot/pkg"
)

// FileStore keeps one xlsx file per key under a reports directory.  A store
// mutex serializes every operation: appends are whole-file read-modify-write
// cycles, and without the lock two commits could both find the same empty
// slot and the later save would overwrite the earlier one.
type FileStore struct {
	dir  string
	mode CreateMode
	log  *zap.Logger

	mu sync.Mutex
}

// NewFileStore constructs a FileStore rooted at dir, creating the directory
// if needed.
func NewFileStore(dir string, mode CreateMode, log *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, mode: mode, log: log}, nil
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.dir, key.Filename())
}

// Create renders the blank layout and saves it at the key's path.  Under
// CreateIdempotent an existing file is left untouched and returned with
// created=false.
func (s *FileStore) Create(ctx context.Context, key Key, author string, date time.Time) (*Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{Key: key, Name: key.Filename()}
	path := s.path(key)
	if s.mode == CreateIdempotent {
		if _, err := os.Stat(path); err == nil {
			return doc, false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
	}
	f, err := sheet.New(author, date)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return nil, false, err
	}
	s.log.Info("report created",
		zap.String("file", doc.Name),
		zap.String("author", author))
	return doc, true, nil
}

// AppendVisit loads the workbook, fills the first free slot of the kind's
// zone and saves the file back.  A full zone leaves the file untouched and
// is reported only in the log.
func (s *FileStore) AppendVisit(ctx context.Context, key Key, kind pkg.VisitKind, fields map[string]string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	doc := &Document{Key: key, Name: key.Filename()}
	filled, err := sheet.AppendVisit(f, kind, fields)
	if err != nil {
		return nil, err
	}
	if !filled {
		s.log.Warn("zone full, visit dropped",
			zap.String("file", doc.Name),
			zap.String("kind", string(kind)))
		return doc, nil
	}
	if err := f.Save(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Locate checks for a document at the key without opening it.
func (s *FileStore) Locate(ctx context.Context, key Key) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Document{Key: key, Name: key.Filename()}, nil
}

// Read returns the workbook bytes for delivery.
func (s *FileStore) Read(ctx context.Context, key Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
