package assets

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"time"
)

// SecondaryLoader reads a referenced sub-document by path. It may await
// asynchronous I/O internally; the resolver blocks on it.
type SecondaryLoader func(path string) ([]byte, error)

// Resolver supplies the parser with referenced sub-documents. Paths ending
// in .tsx delegate to the injected secondary loader; every other path gets
// a cursor over the primary document's own bytes, which lets the parser
// re-enter the top-level buffer as a fallback resource.
//
// Resolver implements fs.FS so it can be handed to go-tiled through
// tiled.WithFileSystem.
type Resolver struct {
	primary   []byte
	secondary SecondaryLoader

	// one secondary read per distinct external tileset reference
	cache map[string][]byte
}

// NewResolver builds a resolver over the primary document bytes.
func NewResolver(primary []byte, secondary SecondaryLoader) *Resolver {
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		cache:     make(map[string][]byte),
	}
}

// Resolve returns a byte stream for the given path per the resolver
// contract. External tileset load failures surface as not-found I/O errors.
func (r *Resolver) Resolve(name string) (io.Reader, error) {
	data, err := r.resolveBytes(name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func (r *Resolver) resolveBytes(name string) ([]byte, error) {
	if path.Ext(name) != ".tsx" {
		return r.primary, nil
	}
	if data, ok := r.cache[name]; ok {
		return data, nil
	}
	if r.secondary == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	data, err := r.secondary(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fmt.Errorf("%w: %v", fs.ErrNotExist, err)}
	}
	r.cache[name] = data
	return data, nil
}

// Open implements fs.FS.
func (r *Resolver) Open(name string) (fs.File, error) {
	data, err := r.resolveBytes(name)
	if err != nil {
		return nil, err
	}
	return &memFile{name: path.Base(name), r: bytes.NewReader(data), size: int64(len(data))}, nil
}

type memFile struct {
	name string
	r    *bytes.Reader
	size int64
}

func (f *memFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *memFile) Close() error               { return nil }
func (f *memFile) Stat() (fs.FileInfo, error) {
	return memFileInfo{name: f.name, size: f.size}, nil
}

type memFileInfo struct {
	name string
	size int64
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() fs.FileMode  { return 0 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return false }
func (i memFileInfo) Sys() any           { return nil }
