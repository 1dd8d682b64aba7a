package storage

import (
	"context"
	"io"
)

// ProgressFunc receives upload progress events. total is the full object
// size in bytes; transferred grows monotonically up to total.
type ProgressFunc func(transferred, total int64)

// BlobStore is the object storage contract for binary assets (images,
// icons, CV PDFs). Delete is idempotent: removing a missing object is not
// an error.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, progress ProgressFunc) error
	ResolveURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keyOrURL string) error
}

// progressReader wraps an upload body and emits progress events as the
// client consumes it.
type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	fn          ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.transferred += int64(n)
		p.fn(p.transferred, p.total)
	}
	return n, err
}
