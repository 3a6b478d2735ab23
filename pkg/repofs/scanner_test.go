package repofs

import (
	"os"
	"path/filepath"
	"testing"
)

func testOptions() Options {
	return Options{
		MaxFileSize:     1000,
		MaxFilesPerRepo: 100,
		AllowedExts:     []string{".go", ".py", ".md"},
		ExcludedDirs:    []string{"node_modules", ".git", "vendor"},
	}
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main"))
	writeFile(t, root, "b/util.py", []byte("x = 1"))
	writeFile(t, root, "a/readme.md", []byte("# hi"))
	writeFile(t, root, "image.png", []byte("not allowed ext"))
	writeFile(t, root, "node_modules/dep/index.go", []byte("excluded dir"))
	writeFile(t, root, ".git/config.md", []byte("excluded dir"))

	result, err := NewScanner(testOptions()).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a/readme.md", "b/util.py", "main.go"}
	if len(result.Files) != len(want) {
		t.Fatalf("file count = %d, want %d (%v)", len(result.Files), len(want), result.Files)
	}
	for i, f := range result.Files {
		if f.Path != want[i] {
			t.Errorf("file[%d] = %s, want %s (path-sorted)", i, f.Path, want[i])
		}
	}
	if result.Files[1].Language != "python" {
		t.Errorf("language = %q, want python", result.Files[1].Language)
	}
}

func TestScanSkipsBinaryAndOversized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.go", []byte("package ok"))
	writeFile(t, root, "blob.go", []byte{'p', 0x00, 'k'})
	writeFile(t, root, "huge.go", make([]byte, 2000))

	result, err := NewScanner(testOptions()).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Files) != 1 || result.Files[0].Path != "ok.go" {
		t.Fatalf("files = %v, want only ok.go", result.Files)
	}
	if result.SkippedFiles < 2 {
		t.Errorf("skipped = %d, want at least 2", result.SkippedFiles)
	}
}

func TestScanCapsFileCountDeterministically(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "c.go", []byte("3"))
	writeFile(t, root, "a.go", []byte("1"))
	writeFile(t, root, "b.go", []byte("2"))
	writeFile(t, root, "d.go", []byte("4"))

	opts := testOptions()
	opts.MaxFilesPerRepo = 2

	result, err := NewScanner(opts).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("file count = %d, want 2", len(result.Files))
	}
	// Cap keeps the first files in path order; the drop is reported.
	if result.Files[0].Path != "a.go" || result.Files[1].Path != "b.go" {
		t.Errorf("capped files = %s,%s, want a.go,b.go", result.Files[0].Path, result.Files[1].Path)
	}
	if result.DroppedFiles != 2 {
		t.Errorf("dropped = %d, want 2", result.DroppedFiles)
	}
}

func TestDirFetcherRejectsMissingPath(t *testing.T) {
	f := NewDirFetcher()

	if _, _, err := f.Fetch(t.Context(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}

	root := t.TempDir()
	path, cleanup, err := f.Fetch(t.Context(), root)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	if path != root {
		t.Errorf("path = %s, want %s", path, root)
	}
}
