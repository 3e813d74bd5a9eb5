package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanFlat(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"jan.xlsx":        "january",
		"feb.csv":         "february",
		"notes.txt":       "not a spreadsheet",
		"~$jan.xlsx":      "lock file",
		"nested/mar.xlsx": "march",
	})

	res, err := Scan(root, ScanOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Files) != 2 {
		t.Fatalf("files = %v", res.Files)
	}
	// Sorted by path: feb.csv before jan.xlsx.
	if res.Files[0].Name != "feb.csv" || res.Files[1].Name != "jan.xlsx" {
		t.Errorf("order = %q, %q", res.Files[0].Name, res.Files[1].Name)
	}
	if res.ByFormat["CSV"] != 1 || res.ByFormat["Excel"] != 1 {
		t.Errorf("ByFormat = %v", res.ByFormat)
	}
	if res.TotalSize != int64(len("january")+len("february")) {
		t.Errorf("TotalSize = %d", res.TotalSize)
	}
}

func TestScanRecursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"jan.xlsx":             "january",
		"archive/old/mar.xlsx": "march",
	})

	res, err := Scan(root, ScanOptions{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 {
		t.Errorf("recursive scan found %d files", len(res.Files))
	}
}

func TestScanExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"jan.xlsx": "january",
		"feb.csv":  "february",
	})

	// Bare "csv" normalizes to ".csv".
	res, err := Scan(root, ScanOptions{Extensions: []string{"csv"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || res.Files[0].Extension != ".csv" {
		t.Errorf("files = %v", res.Files)
	}
}

func TestScanModAfter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"jan.xlsx": "january"})

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "jan.xlsx"), old, old); err != nil {
		t.Fatal(err)
	}

	res, err := Scan(root, ScanOptions{ModAfter: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 0 {
		t.Errorf("stale file should be filtered, got %v", res.Files)
	}
}

func TestScanWithHash(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.xlsx": "same content",
		"b.xlsx": "same content",
	})

	res, err := Scan(root, ScanOptions{WithHash: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 {
		t.Fatal(res.Files)
	}
	if res.Files[0].SHA256 == "" {
		t.Error("hash should be populated")
	}
	if res.Files[0].SHA256 != res.Files[1].SHA256 {
		t.Error("identical content should hash identically")
	}
}

func TestScanNotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"jan.xlsx": "january"})

	if _, err := Scan(filepath.Join(root, "jan.xlsx"), ScanOptions{}); err == nil {
		t.Error("scanning a file should fail")
	}
	if _, err := Scan(filepath.Join(root, "missing"), ScanOptions{}); err == nil {
		t.Error("scanning a missing path should fail")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
