package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressReaderEmitsEvents(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 1000)
	var last, total int64
	events := 0

	s := NewMemoryStorage()
	err := s.Upload(context.Background(), "hero-images/me.png", bytes.NewReader(data), int64(len(data)), "image/png", func(tr, to int64) {
		last, total = tr, to
		events++
	})
	require.NoError(t, err)
	require.Greater(t, events, 0)
	require.Equal(t, int64(len(data)), last)
	require.Equal(t, int64(len(data)), total)

	got, ok := s.Object("hero-images/me.png")
	require.True(t, ok)
	require.Equal(t, data, got)
}

func TestMemoryStorageDeleteIsIdempotent(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "testimonials/a.png", bytes.NewReader([]byte("img")), 3, "image/png", nil))
	url, err := s.ResolveURL(ctx, "testimonials/a.png")
	require.NoError(t, err)

	// delete by URL, then again by key: both succeed
	require.NoError(t, s.Delete(ctx, url))
	require.NoError(t, s.Delete(ctx, "testimonials/a.png"))
	require.Equal(t, 0, s.Len())
}

func TestMemoryStorageHealth(t *testing.T) {
	var probe interface{ Health(context.Context) error } = NewMemoryStorage()
	require.NoError(t, probe.Health(context.Background()))
}

func TestKeyFromURL(t *testing.T) {
	cases := []struct {
		in, bucket, want string
	}{
		{"hero-images/me.png", "byteedoc-assets", "hero-images/me.png"},
		{"https://minio.local:9000/byteedoc-assets/hero-images/me.png", "byteedoc-assets", "hero-images/me.png"},
		{"http://cdn.example.com/byteedoc-assets/technologies/go.svg", "byteedoc-assets", "technologies/go.svg"},
		{"https://other.host/somewhere/else.png", "byteedoc-assets", "somewhere/else.png"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, KeyFromURL(c.in, c.bucket), c.in)
	}
}
