package store_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"ptr89/internal/domain"
	"ptr89/internal/search"
	"ptr89/internal/store"
)

func openTestCache(t *testing.T) *store.Cache {
	t.Helper()
	c, err := store.OpenCache(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_PutGet_OK(t *testing.T) {
	ctx := context.Background()
	var c domain.ResultCache = openTestCache(t)

	key := domain.CacheKey{Digest: "abc", Base: 0xA0000000, Align: 1, Pattern: "AB CD", Limit: 100}
	want := []search.Result{{Address: 0xA0000010, Offset: 0x10, Value: 0xA0000010}}

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("get before put: ok=%v err=%v", ok, err)
	}
	if err := c.Put(ctx, key, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCache_KeySeparation(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	key := domain.CacheKey{Digest: "abc", Base: 0xA0000000, Align: 1, Pattern: "AB CD", Limit: 100}
	if err := c.Put(ctx, key, []search.Result{{Value: 1}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	others := []domain.CacheKey{
		{Digest: "abd", Base: key.Base, Align: key.Align, Pattern: key.Pattern, Limit: key.Limit},
		{Digest: key.Digest, Base: 0x08000000, Align: key.Align, Pattern: key.Pattern, Limit: key.Limit},
		{Digest: key.Digest, Base: key.Base, Align: 2, Pattern: key.Pattern, Limit: key.Limit},
		{Digest: key.Digest, Base: key.Base, Align: key.Align, Pattern: "AB CE", Limit: key.Limit},
		{Digest: key.Digest, Base: key.Base, Align: key.Align, Pattern: key.Pattern, Limit: 1},
	}
	for _, k := range others {
		if _, ok, err := c.Get(ctx, k); err != nil || ok {
			t.Errorf("%+v: ok=%v err=%v", k, ok, err)
		}
	}
}

func TestCache_EmptyResultsAreCached(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	key := domain.CacheKey{Digest: "abc", Pattern: "FF"}
	if err := c.Put(ctx, key, nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok || len(got) != 0 {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestCache_Reopen_OK(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	key := domain.CacheKey{Digest: "abc", Pattern: "01"}

	c, err := store.OpenCache(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Put(ctx, key, []search.Result{{Value: 7}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	c.Close()

	c, err = store.OpenCache(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok || got[0].Value != 7 {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
}
