package wallpaperlib

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListWallpapers(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "nature")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	a := writeFile(t, root, "a.PNG", "")
	b := writeFile(t, nested, "b.jpg", "")
	writeFile(t, root, "notes.txt", "")
	writeFile(t, nested, "c.jpg.bak", "")

	files, err := ListWallpapers(
		[]string{root, nested, filepath.Join(root, "missing")},
		[]string{".png", ".jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{a, b}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("expected %v, got %v", want, files)
	}
}
