package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byteedoc/portfolio-api/internal/store"
)

type failingDocs struct {
	*store.MemoryStore
}

func (f *failingDocs) Get(ctx context.Context, col, id string) (store.Fields, error) {
	return nil, errors.New("connection reset")
}

func (f *failingDocs) List(ctx context.Context, col string) ([]store.Document, error) {
	return nil, errors.New("connection reset")
}

func TestViewerLoadEmptyCollection(t *testing.T) {
	v := NewViewer(Schemas()["projects"], store.NewMemoryStore())
	docs := v.Load(context.Background())
	require.NotNil(t, docs)
	require.Empty(t, docs)
}

func TestViewerLoadReturnsStoreOrder(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	first, _ := mem.Create(ctx, "projects", store.Fields{"name": "one", "description": "a"})
	second, _ := mem.Create(ctx, "projects", store.Fields{"name": "two", "description": "b"})

	v := NewViewer(Schemas()["projects"], mem)
	docs := v.Load(ctx)
	require.Len(t, docs, 2)
	require.Equal(t, first, docs[0].ID)
	require.Equal(t, second, docs[1].ID)
}

func TestViewerLoadDegradesOnReadError(t *testing.T) {
	v := NewViewer(Schemas()["projects"], &failingDocs{MemoryStore: store.NewMemoryStore()})
	docs := v.Load(context.Background())
	require.NotNil(t, docs)
	require.Empty(t, docs)
}

func TestViewerLoadOneMissingSingleton(t *testing.T) {
	v := NewViewer(Schemas()["hero"], store.NewMemoryStore())
	fields := v.LoadOne(context.Background())
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestViewerLoadOneDegradesOnReadError(t *testing.T) {
	v := NewViewer(Schemas()["about"], &failingDocs{MemoryStore: store.NewMemoryStore()})
	fields := v.LoadOne(context.Background())
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestViewerDecodeTypedModels(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	_, err := mem.Create(ctx, "projects", store.Fields{
		"name":        "portfolio",
		"description": "personal site",
		"tags":        []any{"go", "mongo"},
		"image":       "mem://assets/project-screenshots/shot.png",
	})
	require.NoError(t, err)

	v := NewViewer(Schemas()["projects"], mem)
	docs := v.Load(ctx)
	require.Len(t, docs, 1)

	var p Project
	require.NoError(t, Decode(docs[0].Fields, &p))
	require.Equal(t, "portfolio", p.Name)
	require.Equal(t, []string{"go", "mongo"}, p.Tags)
}
