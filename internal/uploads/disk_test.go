package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsImageName(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp", "e.svg"} {
		if !IsImageName(name) {
			t.Errorf("%q should be an image", name)
		}
	}
	for _, name := range []string{"a.txt", "b.zip", "c", "d.xlsx"} {
		if IsImageName(name) {
			t.Errorf("%q should not be an image", name)
		}
	}
}

func TestDiskStoreSaveKeepsExtension(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	p, err := store.Save(context.Background(), "Photo.JPG", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(p, PathPrefix+"/") || !strings.HasSuffix(p, ".jpg") {
		t.Fatalf("unexpected path %q", p)
	}

	// two saves of the same filename never collide
	q, err := store.Save(context.Background(), "Photo.JPG", strings.NewReader("other"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p == q {
		t.Fatalf("expected unique names, both %q", p)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), strings.TrimPrefix(p, PathPrefix+"/")))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestDiskStoreListFiltersImages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	if _, err := store.Save(context.Background(), "a.png", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || !strings.HasSuffix(items[0], ".png") {
		t.Fatalf("unexpected list %v", items)
	}
}
