// Package report persists daily visit reports as fixed-layout workbooks,
// keyed by day (and optionally by representative identity).  Two backends
// implement the same Store contract: a flat-file directory and a Postgres
// table, so the backing medium can change without touching the dialogue
// flow.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medrep-bot/pkg"
)

// ErrNotFound is returned when an operation targets a key with no document
// behind it.  Callers surface it as a "create a report first" condition.
var ErrNotFound = errors.New("report: not found")

// CreateMode controls what Create does when a document already exists at the
// key.
type CreateMode string

const (
	// CreateIdempotent returns the existing document with created=false.
	CreateIdempotent CreateMode = "idempotent"
	// CreateOverwrite rebuilds the document from a blank layout.
	CreateOverwrite CreateMode = "overwrite"
)

// ParseCreateMode maps a configuration string onto a CreateMode.  An empty
// string selects the idempotent default.
func ParseCreateMode(s string) (CreateMode, error) {
	switch CreateMode(s) {
	case "":
		return CreateIdempotent, nil
	case CreateIdempotent, CreateOverwrite:
		return CreateMode(s), nil
	}
	return "", fmt.Errorf("report: unknown create mode %q", s)
}

// Store is the report document store.  Every mutation is a whole-document
// read-modify-write; implementations serialize appends per store so two
// commits cannot claim the same slot.
type Store interface {
	// Create builds the blank three-zone layout with the author and date in
	// the title block.  The boolean reports whether a new document was
	// written; under CreateIdempotent an existing key returns the existing
	// handle and false.
	Create(ctx context.Context, key Key, author string, date time.Time) (*Document, bool, error)

	// AppendVisit writes the record into the first free slot of the zone for
	// kind.  It returns ErrNotFound when no document exists at the key.  A
	// full zone is not an error: the document is returned unchanged.
	AppendVisit(ctx context.Context, key Key, kind pkg.VisitKind, fields map[string]string) (*Document, error)

	// Locate reports whether a document exists at the key.
	Locate(ctx context.Context, key Key) (*Document, error)

	// Read returns the document's workbook bytes for delivery.
	Read(ctx context.Context, key Key) ([]byte, error)
}
