package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Fields is the schemaless field set of a single document.
type Fields map[string]any

// Document pairs a store-assigned id with its fields.
type Document struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// serverTimestamp is a sentinel; stores replace it with the write time.
type serverTimestamp struct{}

// ServerTimestamp marks a field to be filled with the server-side write time.
var ServerTimestamp = serverTimestamp{}

// DocumentStore is the document database contract used by editors and
// viewers. Implementations must provide per-document atomic writes; nothing
// here spans documents.
//
// Merge uses merge semantics: only the supplied fields are overwritten and
// the write upserts when the target document does not exist yet (singleton
// documents are created this way on first save).
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Fields, error)
	List(ctx context.Context, collection string) ([]Document, error)
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Merge(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
}

func nowUTC() time.Time { return time.Now().UTC() }

// Clone returns a shallow copy so callers can't alias stored state.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
