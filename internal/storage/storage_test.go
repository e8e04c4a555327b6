package storage_test

import (
	"context"
	"errors"
	"testing"

	"sneakstore/internal/storage"
)

// backend contract shared by every Store implementation.
func runStoreContract(t *testing.T, st storage.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing key: want ErrNotFound, got %v", err)
	}

	if err := st.Set(ctx, "cart:abc", []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatal(err)
	}
	v, err := st.Get(ctx, "cart:abc")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != `[{"id":"x"}]` {
		t.Fatalf("round trip mangled the value: %q", v)
	}

	// Overwrite wins.
	if err := st.Set(ctx, "cart:abc", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	v, _ = st.Get(ctx, "cart:abc")
	if string(v) != `[]` {
		t.Fatalf("want overwritten value, got %q", v)
	}

	// Delete is idempotent.
	if err := st.Del(ctx, "cart:abc"); err != nil {
		t.Fatal(err)
	}
	if err := st.Del(ctx, "cart:abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, "cart:abc"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("deleted key: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, storage.NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	st, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	runStoreContract(t, st)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	st := storage.NewMemory()
	ctx := context.Background()

	buf := []byte("original")
	if err := st.Set(ctx, "k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	v, err := st.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "original" {
		t.Fatalf("stored value must not alias the caller's buffer: %q", v)
	}
}
