// Package fs finds inquiry spreadsheet exports on disk, so stale or
// duplicated weekly exports can be spotted before import.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SpreadsheetExtensions is the set of recognized spreadsheet extensions.
var SpreadsheetExtensions = map[string]string{
	".xlsx": "Excel",
	".xlsm": "Excel (Macro)",
	".xls":  "Excel (Legacy)",
	".csv":  "CSV",
	".ods":  "OpenDocument Sheet",
}

// FileInfo represents a scanned spreadsheet file.
type FileInfo struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Extension  string    `json:"extension"`
	Format     string    `json:"format"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
	SHA256     string    `json:"sha256,omitempty"`
}

// ScanResult holds the results of a directory scan.
type ScanResult struct {
	RootDir   string         `json:"rootDir"`
	Files     []FileInfo     `json:"files"`
	ByFormat  map[string]int `json:"byFormat"`
	TotalSize int64          `json:"totalSize"`
	ScannedAt time.Time      `json:"scannedAt"`
}

// ScanOptions configures the directory scan.
type ScanOptions struct {
	Recursive  bool
	Extensions []string // filter to these extensions; empty = all spreadsheets
	ModAfter   time.Time
	WithHash   bool
}

// Scan walks a directory and finds spreadsheet files.
func Scan(root string, opts ScanOptions) (*ScanResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("could not resolve path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("could not access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	extFilter := make(map[string]bool)
	for _, e := range opts.Extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		extFilter[e] = true
	}

	result := &ScanResult{
		RootDir:   root,
		ByFormat:  make(map[string]int),
		ScannedAt: time.Now(),
	}

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible
		}
		if d.IsDir() {
			if !opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		// Excel lock files while a workbook is open.
		if strings.HasPrefix(d.Name(), "~$") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, isSpreadsheet := SpreadsheetExtensions[ext]
		if !isSpreadsheet {
			return nil
		}

		if len(extFilter) > 0 && !extFilter[ext] {
			return nil
		}

		finfo, err := d.Info()
		if err != nil {
			return nil
		}

		if !opts.ModAfter.IsZero() && finfo.ModTime().Before(opts.ModAfter) {
			return nil
		}

		fi := FileInfo{
			Path:       path,
			Name:       d.Name(),
			Extension:  ext,
			Format:     format,
			Size:       finfo.Size(),
			ModifiedAt: finfo.ModTime(),
		}

		if opts.WithHash {
			hash, err := hashFile(path)
			if err == nil {
				fi.SHA256 = hash
			}
		}

		result.Files = append(result.Files, fi)
		result.ByFormat[format]++
		result.TotalSize += finfo.Size()

		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	// Sort by path for deterministic output
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	return result, nil
}

// FormatSize renders a byte count for humans.
func FormatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// hashFile computes SHA-256 of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
