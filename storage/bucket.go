package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the URL path under which bucket objects are served.
const PublicPrefix = "/storage"

// Bucket stores uploaded objects as files under dir/name and resolves
// them to public URLs under baseURL.
type Bucket struct {
	dir     string
	name    string
	baseURL string
}

func NewBucket(dir, name, baseURL string) (*Bucket, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid bucket name %q", name)
	}
	b := &Bucket{dir: dir, name: name, baseURL: strings.TrimRight(baseURL, "/")}
	if err := os.MkdirAll(b.Root(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket directory: %w", err)
	}
	return b, nil
}

func (b *Bucket) Name() string {
	return b.name
}

// Root is the directory holding the bucket's objects.
func (b *Bucket) Root() string {
	return filepath.Join(b.dir, b.name)
}

// Route is the URL path the bucket is served from.
func (b *Bucket) Route() string {
	return path.Join(PublicPrefix, b.name)
}

// PublicURL resolves an object name to its public URL.
func (b *Bucket) PublicURL(object string) string {
	return b.baseURL + path.Join(b.Route(), object)
}

// Put stores r under a freshly generated name that keeps the extension of
// filename, and returns the object's public URL.
func (b *Bucket) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	object := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	target := filepath.Join(b.Root(), object)

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to close object: %w", err)
	}

	return b.PublicURL(object), nil
}
