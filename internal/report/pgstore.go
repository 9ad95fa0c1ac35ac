package report

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"medrep-bot/internal/sheet"
	"medrep-bot/pkg"
)

// PGStore keeps workbook blobs in a Postgres table, one row per key.  Each
// mutation runs in a transaction that locks the row with SELECT ... FOR
// UPDATE, so concurrent appends to the same key cannot both claim the first
// empty slot.
type PGStore struct {
	DB   *sql.DB
	mode CreateMode
	log  *zap.Logger
}

// NewPGStore constructs a PGStore from an existing sql.DB.  The caller is
// responsible for managing the DB connection lifecycle and for running
// Migrate first.
func NewPGStore(db *sql.DB, mode CreateMode, log *zap.Logger) *PGStore {
	return &PGStore{DB: db, mode: mode, log: log}
}

// Create renders the blank layout and inserts it at the key.  Under
// CreateIdempotent an existing row is returned untouched with created=false.
func (s *PGStore) Create(ctx context.Context, key Key, author string, date time.Time) (*Document, bool, error) {
	name := key.Filename()
	doc := &Document{Key: key, Name: name}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM reports WHERE key = $1 FOR UPDATE`, name).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	if err == nil && s.mode == CreateIdempotent {
		return doc, false, tx.Commit()
	}

	f, err := sheet.New(author, date)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, false, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (key, author, workbook)
         VALUES ($1, $2, $3)
         ON CONFLICT (key) DO UPDATE
         SET author = EXCLUDED.author, workbook = EXCLUDED.workbook, updated_at = NOW()`,
		name, author, buf.Bytes(),
	)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	s.log.Info("report created",
		zap.String("key", name),
		zap.String("author", author))
	return doc, true, nil
}

// AppendVisit locks the row, fills the first free slot of the kind's zone
// and writes the workbook back.  A full zone leaves the row untouched and is
// reported only in the log.
func (s *PGStore) AppendVisit(ctx context.Context, key Key, kind pkg.VisitKind, fields map[string]string) (*Document, error) {
	name := key.Filename()
	doc := &Document{Key: key, Name: name}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var blob []byte
	err = tx.QueryRowContext(ctx,
		`SELECT workbook FROM reports WHERE key = $1 FOR UPDATE`, name).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	filled, err := sheet.AppendVisit(f, kind, fields)
	if err != nil {
		return nil, err
	}
	if !filled {
		s.log.Warn("zone full, visit dropped",
			zap.String("key", name),
			zap.String("kind", string(kind)))
		return doc, tx.Commit()
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE reports SET workbook = $2, updated_at = NOW() WHERE key = $1`,
		name, buf.Bytes(),
	)
	if err != nil {
		return nil, err
	}
	return doc, tx.Commit()
}

// Locate checks for a row at the key.
func (s *PGStore) Locate(ctx context.Context, key Key) (*Document, error) {
	name := key.Filename()
	var one int
	err := s.DB.QueryRowContext(ctx,
		`SELECT 1 FROM reports WHERE key = $1`, name).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Document{Key: key, Name: name}, nil
}

// Read returns the workbook bytes for delivery.
func (s *PGStore) Read(ctx context.Context, key Key) ([]byte, error) {
	var blob []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT workbook FROM reports WHERE key = $1`, key.Filename()).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return blob, nil
}
