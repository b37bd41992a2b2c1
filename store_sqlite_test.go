package modelsync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "metadata.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	info := ModelInfo{
		Name:        "langid",
		DownloadURL: "https://x/y",
		Size:        42,
		ModelHash:   "abc123",
		LocalPath:   "/data/langid.bin",
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := store.Save(ctx, "app1", info); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(ctx, "app1", "langid")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("record not found after save")
	}
	if got.DownloadURL != info.DownloadURL || got.Size != info.Size ||
		got.ModelHash != info.ModelHash || got.LocalPath != info.LocalPath {
		t.Errorf("got = %+v, want %+v", got, info)
	}
	if !got.UpdatedAt.Equal(info.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, info.UpdatedAt)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	store.Save(ctx, "app1", ModelInfo{Name: "langid", ModelHash: "v1"})
	store.Save(ctx, "app1", ModelInfo{Name: "langid", ModelHash: "v2", Size: 7})

	got, ok, err := store.Load(ctx, "app1", "langid")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if got.ModelHash != "v2" || got.Size != 7 {
		t.Errorf("got = %+v, want updated record", got)
	}

	infos, _ := store.List(ctx, "app1")
	if len(infos) != 1 {
		t.Errorf("len = %d, want 1 (upsert duplicated the row)", len(infos))
	}
}

func TestSQLiteStoreLoadMissing(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, ok, err := store.Load(context.Background(), "app1", "nope")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("expected no record")
	}
}

func TestSQLiteStoreAppIsolation(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	store.Save(ctx, "app1", ModelInfo{Name: "langid", ModelHash: "h1"})
	store.Save(ctx, "app2", ModelInfo{Name: "langid", ModelHash: "h2"})

	got1, _, _ := store.Load(ctx, "app1", "langid")
	got2, _, _ := store.Load(ctx, "app2", "langid")

	if got1.ModelHash != "h1" || got2.ModelHash != "h2" {
		t.Errorf("records collided across apps: %q / %q", got1.ModelHash, got2.ModelHash)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	store.Save(ctx, "app1", ModelInfo{Name: "langid", ModelHash: "h1"})

	if err := store.Delete(ctx, "app1", "langid"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Load(ctx, "app1", "langid"); ok {
		t.Error("record still present after delete")
	}
	if err := store.Delete(ctx, "app1", "langid"); err != nil {
		t.Errorf("Delete() of missing record error = %v", err)
	}
}

func TestSQLiteStoreList(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.Save(ctx, "app1", ModelInfo{Name: name, ModelHash: "h"}); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	infos, err := store.List(ctx, "app1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(infos) != len(want) {
		t.Fatalf("len = %d, want %d", len(infos), len(want))
	}
	for i, name := range want {
		if infos[i].Name != name {
			t.Errorf("infos[%d].Name = %q, want %q", i, infos[i].Name, name)
		}
	}
}

func TestSQLiteStoreSaveEmptyName(t *testing.T) {
	store := newTestSQLiteStore(t)

	err := store.Save(context.Background(), "app1", ModelInfo{})
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}
