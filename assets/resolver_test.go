package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"testing"
)

func TestResolverPrimaryFallback(t *testing.T) {
	primary := []byte("<map/>")
	r := NewResolver(primary, nil)

	reader, err := r.Resolve("anything.png")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	data, _ := io.ReadAll(reader)
	if string(data) != string(primary) {
		t.Fatalf("expected the primary bytes back, got %q", data)
	}
}

func TestResolverSecondaryDelegation(t *testing.T) {
	calls := 0
	r := NewResolver([]byte("<map/>"), func(p string) ([]byte, error) {
		calls++
		return []byte("<tileset/>"), nil
	})

	for i := 0; i < 3; i++ {
		reader, err := r.Resolve("ts/ground.tsx")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		data, _ := io.ReadAll(reader)
		if string(data) != "<tileset/>" {
			t.Fatalf("expected secondary bytes, got %q", data)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one secondary load per distinct reference, got %d", calls)
	}
}

func TestResolverSecondaryFailureIsNotFound(t *testing.T) {
	r := NewResolver([]byte("<map/>"), func(p string) ([]byte, error) {
		return nil, fmt.Errorf("disk on fire")
	})
	_, err := r.Resolve("ground.tsx")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a not-found I/O error, got %v", err)
	}
}

func TestResolverNoSecondaryLoader(t *testing.T) {
	r := NewResolver([]byte("<map/>"), nil)
	if _, err := r.Resolve("ground.tsx"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-found without a secondary loader, got %v", err)
	}
}

func TestResolverAsFS(t *testing.T) {
	r := NewResolver([]byte("abc"), nil)
	f, err := r.Open("whatever.tmx")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() != 3 || info.IsDir() {
		t.Fatalf("unexpected file info: size=%d dir=%v", info.Size(), info.IsDir())
	}
	data, _ := io.ReadAll(f)
	if string(data) != "abc" {
		t.Fatalf("expected primary bytes, got %q", data)
	}
}
