package content

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/byteedoc/portfolio-api/internal/storage"
	"github.com/byteedoc/portfolio-api/internal/store"
	"github.com/byteedoc/portfolio-api/pkg/logger"
)

// State is the editor lifecycle. Terminal states are StateIdle (success,
// transient state reset) and StateError (form and staged files preserved
// for a user-initiated retry).
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateWriting
	StateError
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateWriting:
		return "writing"
	case StateError:
		return "error"
	}
	return "idle"
}

// StagedAsset is a file selected for upload but not yet uploaded.
type StagedAsset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Editor maintains local form state mirroring one record and persists it
// through the two-phase upload-then-write sequence. Collaborators are
// injected so tests can substitute fakes; an editor never reaches for a
// hidden global client.
type Editor struct {
	schema Schema
	docs   store.DocumentStore
	blobs  storage.BlobStore

	mu       sync.Mutex
	inFlight bool

	state    State
	fields   store.Fields
	docID    string
	staged   map[string]*StagedAsset
	progress int
	lastErr  error
}

func NewEditor(schema Schema, docs store.DocumentStore, blobs storage.BlobStore) *Editor {
	return &Editor{
		schema: schema,
		docs:   docs,
		blobs:  blobs,
		fields: store.Fields{},
		staged: make(map[string]*StagedAsset),
	}
}

// Load reads the schema's singleton document into the form. A missing
// document is not an error: the form keeps its defaults.
func (e *Editor) Load(ctx context.Context) error {
	if !e.schema.Singleton() {
		return fmt.Errorf("%s: Load requires a singleton schema", e.schema.Name)
	}
	return e.load(ctx, e.schema.SingletonID)
}

// LoadRecord reads one record of a collection schema into the form.
func (e *Editor) LoadRecord(ctx context.Context, id string) error {
	return e.load(ctx, id)
}

func (e *Editor) load(ctx context.Context, id string) error {
	// the editor targets this id from now on, whatever the read yields;
	// a later submit must merge into it, never create a second record
	e.docID = id
	fields, err := e.docs.Get(ctx, e.schema.Collection, id)
	if err != nil {
		if err != store.ErrNotFound {
			// read failures fall back to defaults; the page never crashes
			logger.Warnf("%s editor: load %s/%s: %v", e.schema.Name, e.schema.Collection, id, err)
		}
		return nil
	}
	e.fields = fields
	return nil
}

// SetField stages a field value in the local form.
func (e *Editor) SetField(name string, value any) {
	e.fields[name] = value
}

// Fields returns the current form state.
func (e *Editor) Fields() store.Fields { return e.fields }

// StageAsset selects a file for upload without any network I/O.
func (e *Editor) StageAsset(field, filename string, data []byte, contentType string) error {
	if _, ok := e.schema.AssetFields[field]; !ok {
		return fmt.Errorf("%s: %q is not an asset field", e.schema.Name, field)
	}
	e.staged[field] = &StagedAsset{Filename: filename, ContentType: contentType, Data: data}
	return nil
}

// Preview returns a local data URL for a staged image so the form can show
// it before anything is uploaded. Empty for non-images and unstaged fields.
func (e *Editor) Preview(field string) string {
	a, ok := e.staged[field]
	if !ok || !strings.HasPrefix(a.ContentType, "image/") {
		return ""
	}
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// State reports the current lifecycle state.
func (e *Editor) State() State { return e.state }

// Progress reports the upload percentage (0-100) of the current submit.
func (e *Editor) Progress() int { return e.progress }

// Err returns the error that moved the editor into StateError.
func (e *Editor) Err() error { return e.lastErr }

// Submit persists the form: validate, upload staged assets, then
// merge-write the record. Returns the document id. Upload failure aborts
// before the write; a write failure after a successful upload leaves the
// asset orphaned (accepted, cleaned up manually).
func (e *Editor) Submit(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	e.inFlight = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	e.state = StateValidating
	if err := e.schema.Validate(e.fields); err != nil {
		return e.fail(err)
	}

	if err := e.uploadStaged(ctx); err != nil {
		return e.fail(err)
	}

	e.state = StateWriting
	id, err := e.write(ctx)
	if err != nil {
		return e.fail(err)
	}

	// success: transient state reset
	e.docID = id
	e.staged = make(map[string]*StagedAsset)
	e.progress = 0
	e.lastErr = nil
	e.state = StateIdle
	return id, nil
}

func (e *Editor) fail(err error) (string, error) {
	e.state = StateError
	e.lastErr = err
	return "", err
}

// uploadStaged pushes every staged asset and substitutes the resolved URLs
// into the form fields. Paths are deterministic: content-type folder plus
// the original file name.
func (e *Editor) uploadStaged(ctx context.Context) error {
	for field, asset := range e.staged {
		folder := e.schema.AssetFields[field]
		key := folder + "/" + asset.Filename

		e.state = StateUploading
		e.progress = 0
		err := e.blobs.Upload(ctx, key, bytes.NewReader(asset.Data), int64(len(asset.Data)), asset.ContentType, func(transferred, total int64) {
			if total > 0 {
				e.progress = int(transferred * 100 / total)
			}
		})
		if err != nil {
			return &UploadError{Key: key, Err: err}
		}

		url, err := e.blobs.ResolveURL(ctx, key)
		if err != nil {
			return &UploadError{Key: key, Err: err}
		}
		e.fields[field] = url
	}
	return nil
}

func (e *Editor) write(ctx context.Context) (string, error) {
	fields := e.fields.Clone()
	if e.schema.TimestampField != "" && e.docID == "" {
		fields[e.schema.TimestampField] = store.ServerTimestamp
	}

	id := e.docID
	if e.schema.Singleton() {
		id = e.schema.SingletonID
	}
	if id != "" {
		if e.schema.WriteOnce {
			return "", &WriteError{Op: "merge", Collection: e.schema.Collection, Err: ErrWriteOnce}
		}
		if err := e.docs.Merge(ctx, e.schema.Collection, id, fields); err != nil {
			return "", &WriteError{Op: "merge", Collection: e.schema.Collection, Err: err}
		}
		return id, nil
	}
	created, err := e.docs.Create(ctx, e.schema.Collection, fields)
	if err != nil {
		return "", &WriteError{Op: "create", Collection: e.schema.Collection, Err: err}
	}
	return created, nil
}

// Remove deletes a record and, when the record holds asset URLs, the
// corresponding blobs. Blob deletion runs first and a missing object is
// non-fatal, so the document delete always gets its chance.
func (e *Editor) Remove(ctx context.Context, id string) error {
	fields, err := e.docs.Get(ctx, e.schema.Collection, id)
	if err != nil && err != store.ErrNotFound {
		return &WriteError{Op: "get", Collection: e.schema.Collection, Err: err}
	}

	for field := range e.schema.AssetFields {
		url, _ := fields[field].(string)
		if url == "" {
			continue
		}
		if err := e.blobs.Delete(ctx, url); err != nil {
			logger.Warnf("%s editor: delete asset %s: %v", e.schema.Name, url, err)
		}
	}

	if err := e.docs.Delete(ctx, e.schema.Collection, id); err != nil {
		return &WriteError{Op: "delete", Collection: e.schema.Collection, Err: err}
	}
	return nil
}

// Row is one entry of a multi-row submit (the services screen commits
// several rows at once).
type Row struct {
	Fields store.Fields
	Staged map[string]*StagedAsset
}

// SubmitAll validates every row before any upload begins; if one row fails
// validation, none are uploaded or written.
func SubmitAll(ctx context.Context, schema Schema, docs store.DocumentStore, blobs storage.BlobStore, rows []Row) ([]string, error) {
	for _, r := range rows {
		if err := schema.Validate(r.Fields); err != nil {
			return nil, err
		}
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ed := NewEditor(schema, docs, blobs)
		ed.fields = r.Fields.Clone()
		for f, a := range r.Staged {
			ed.staged[f] = a
		}
		id, err := ed.Submit(ctx)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
