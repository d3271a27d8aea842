package ristretto

import (
	"bytes"
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{NumCounters: 1 << 12, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("zero config accepted")
	}
}

func TestPutGetDel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	blob := []byte("payload")
	ok, err := s.Put(ctx, "k", blob)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !ok {
		t.Skip("write not admitted; admission is probabilistic")
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, blob) {
		t.Fatalf("Get: %q ok=%v err=%v", got, ok, err)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("hit after delete")
	}
}

func TestKeysTrackAdmittedWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Put(ctx, "k", []byte("v"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Skip("write not admitted; admission is probabilistic")
	}
	keys, err := s.Keys(ctx)
	if err != nil || len(keys) != 1 || keys[0] != "k" {
		t.Fatalf("Keys = %v err=%v, want [k]", keys, err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if keys, _ = s.Keys(ctx); len(keys) != 0 {
		t.Fatalf("Keys after delete = %v, want none", keys)
	}
}

func TestManifestOutsideAdmission(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, _ := s.LoadManifest(ctx); ok {
		t.Fatal("manifest present on fresh store")
	}
	if err := s.SaveManifest(ctx, []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.LoadManifest(ctx)
	if err != nil || !ok || string(got) != `{"a":1}` {
		t.Fatalf("LoadManifest: %q ok=%v err=%v", got, ok, err)
	}
	if err := s.Wipe(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.LoadManifest(ctx); ok {
		t.Fatal("manifest survived wipe")
	}
}
