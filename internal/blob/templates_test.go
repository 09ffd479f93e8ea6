package blob

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
)

func templateZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTemplateLibraryCachesArchive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	archive := templateZip(t, map[string][]byte{
		"pass.json": []byte(`{}`),
		"icon.png":  []byte("v1"),
	})
	if err := store.Put(ctx, "template.zip", archive, "application/zip"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	lib := NewTemplateLibrary(store, "template/", "template.zip")

	set, err := lib.TemplateSet(ctx)
	if err != nil {
		t.Fatalf("TemplateSet() error = %v", err)
	}
	if got := string(set["icon.png"]); got != "v1" {
		t.Fatalf("icon.png = %q, want v1", got)
	}

	// Replacing the archive behind the cache must not change served
	// content until the cache is invalidated.
	updated := templateZip(t, map[string][]byte{
		"pass.json": []byte(`{}`),
		"icon.png":  []byte("v2"),
	})
	if err := store.Put(ctx, "template.zip", updated, "application/zip"); err != nil {
		t.Fatalf("failed to replace archive: %v", err)
	}

	set, err = lib.TemplateSet(ctx)
	if err != nil {
		t.Fatalf("TemplateSet() error = %v", err)
	}
	if got := string(set["icon.png"]); got != "v1" {
		t.Errorf("icon.png = %q after silent replace, want cached v1", got)
	}

	lib.Invalidate()
	set, err = lib.TemplateSet(ctx)
	if err != nil {
		t.Fatalf("TemplateSet() error after invalidate = %v", err)
	}
	if got := string(set["icon.png"]); got != "v2" {
		t.Errorf("icon.png = %q after invalidate, want v2", got)
	}
}

func TestTemplateLibraryWritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	archive := templateZip(t, map[string][]byte{"pass.json": []byte(`{}`)})
	if err := store.Put(ctx, "template.zip", archive, "application/zip"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	lib := NewTemplateLibrary(store, "template/", "template.zip")
	if _, err := lib.TemplateSet(ctx); err != nil {
		t.Fatalf("TemplateSet() error = %v", err)
	}

	updated := templateZip(t, map[string][]byte{
		"pass.json": []byte(`{"changed":true}`),
	})
	if err := store.Put(ctx, "template.zip", updated, "application/zip"); err != nil {
		t.Fatalf("failed to replace archive: %v", err)
	}

	// Any write through the library drops the cached set.
	if err := lib.PutAsset(ctx, "logo.png", []byte("logo"), "image/png"); err != nil {
		t.Fatalf("PutAsset() error = %v", err)
	}

	set, err := lib.TemplateSet(ctx)
	if err != nil {
		t.Fatalf("TemplateSet() error = %v", err)
	}
	if got := string(set["pass.json"]); got != `{"changed":true}` {
		t.Errorf("pass.json = %q, want reloaded content", got)
	}
}

func TestTemplateLibraryAssets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	lib := NewTemplateLibrary(store, "template/", "template.zip")

	if err := lib.PutAsset(ctx, "icon.png", []byte("icon"), "image/png"); err != nil {
		t.Fatalf("PutAsset() error = %v", err)
	}
	if err := lib.PutAsset(ctx, "logo.png", []byte("logo"), "image/png"); err != nil {
		t.Fatalf("PutAsset() error = %v", err)
	}

	names, err := lib.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(names) != 2 || names[0] != "icon.png" || names[1] != "logo.png" {
		t.Errorf("ListAssets() = %v, want [icon.png logo.png]", names)
	}

	data, err := lib.GetAsset(ctx, "icon.png")
	if err != nil {
		t.Fatalf("GetAsset() error = %v", err)
	}
	if string(data) != "icon" {
		t.Errorf("GetAsset() = %q, want icon", data)
	}

	if err := lib.DeleteAsset(ctx, "icon.png"); err != nil {
		t.Fatalf("DeleteAsset() error = %v", err)
	}
	names, err = lib.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(names) != 1 || names[0] != "logo.png" {
		t.Errorf("ListAssets() after delete = %v, want [logo.png]", names)
	}
}

func TestBundleArchiveKeying(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	archive := NewBundleArchive(store)

	if err := archive.PutBundle(ctx, "serial-1", []byte("bundle")); err != nil {
		t.Fatalf("PutBundle() error = %v", err)
	}

	// Bundles live under "<serial>.pkpass" in the backing store.
	if _, err := store.Get(ctx, "serial-1.pkpass"); err != nil {
		t.Errorf("bundle not stored under serial key: %v", err)
	}

	data, err := archive.GetBundle(ctx, "serial-1")
	if err != nil {
		t.Fatalf("GetBundle() error = %v", err)
	}
	if string(data) != "bundle" {
		t.Errorf("GetBundle() = %q, want bundle", data)
	}

	if _, err := archive.GetBundle(ctx, "serial-404"); err == nil {
		t.Error("expected error for missing bundle")
	}
}
