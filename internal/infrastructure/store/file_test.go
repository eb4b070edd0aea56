package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newFileStore(t *testing.T) *FileTokenStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	return NewFileTokenStore(path, zerolog.Nop())
}

func TestFileTokenStore_RoundTrip(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	if _, ok := s.Get(ctx); ok {
		t.Fatalf("fresh store should be absent")
	}

	s.Set(ctx, "tok-1")
	tok, ok := s.Get(ctx)
	if !ok || tok != "tok-1" {
		t.Fatalf("Get = (%q, %v), want (tok-1, true)", tok, ok)
	}

	// Only one credential at a time: a second Set replaces the first.
	s.Set(ctx, "tok-2")
	if tok, _ := s.Get(ctx); tok != "tok-2" {
		t.Fatalf("expected replacement, got %q", tok)
	}
}

func TestFileTokenStore_BlankSetIsANoOp(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	s.Set(ctx, "tok-1")
	s.Set(ctx, "")
	s.Set(ctx, "   \t\n")

	tok, ok := s.Get(ctx)
	if !ok || tok != "tok-1" {
		t.Fatalf("blank Set must never change a stored value, got (%q, %v)", tok, ok)
	}
}

func TestFileTokenStore_ClearIsIdempotent(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	s.Set(ctx, "tok-1")
	s.Clear(ctx)
	if _, ok := s.Get(ctx); ok {
		t.Fatalf("store should be absent after clear")
	}

	// Clearing an already-empty slot must not fail or resurrect anything.
	s.Clear(ctx)
	if _, ok := s.Get(ctx); ok {
		t.Fatalf("store should stay absent after double clear")
	}
}
