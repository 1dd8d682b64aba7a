package content

import (
	"context"

	"github.com/byteedoc/portfolio-api/internal/store"
	"github.com/byteedoc/portfolio-api/pkg/logger"
)

// Viewer is the read-only path for one content type: one read per load,
// no caching, no write responsibility. Read failures degrade to an empty
// result and a log line; they never take the page down.
type Viewer struct {
	schema Schema
	docs   store.DocumentStore
}

func NewViewer(schema Schema, docs store.DocumentStore) *Viewer {
	return &Viewer{schema: schema, docs: docs}
}

// Load returns all documents of a collection schema. Display order is the
// order the store returned; no sort is imposed.
func (v *Viewer) Load(ctx context.Context) []store.Document {
	docs, err := v.docs.List(ctx, v.schema.Collection)
	if err != nil {
		logger.Warnf("%s viewer: list %s: %v", v.schema.Name, v.schema.Collection, err)
		return []store.Document{}
	}
	return docs
}

// LoadOne returns the singleton document's fields, or empty defaults when
// it does not exist yet or the read fails.
func (v *Viewer) LoadOne(ctx context.Context) store.Fields {
	fields, err := v.docs.Get(ctx, v.schema.Collection, v.schema.SingletonID)
	if err != nil {
		if err != store.ErrNotFound {
			logger.Warnf("%s viewer: get %s/%s: %v", v.schema.Name, v.schema.Collection, v.schema.SingletonID, err)
		}
		return store.Fields{}
	}
	return fields
}
