package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher(t *testing.T) {
	w, err := New(Config{
		Directories: []string{t.TempDir()},
		Debounce:    100,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w == nil {
		t.Fatal("expected non-nil watcher")
	}
	w.watcher.Close()
}

func TestWatcherEvents(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{
		Directories: []string{dir},
		Debounce:    50,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	handlerCalled := make(chan string, 1)
	w.Handler = func(path string) error {
		handlerCalled <- path
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		w.Start(ctx)
	}()

	// Give the watcher time to start
	time.Sleep(100 * time.Millisecond)

	// Create a matching file
	testFile := filepath.Join(dir, "inquiries.xlsx")
	os.WriteFile(testFile, []byte("test"), 0644)

	// Wait for handler
	select {
	case path := <-handlerCalled:
		if path != testFile {
			t.Errorf("expected %q, got %q", testFile, path)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for handler call")
	}

	cancel()
}

func TestWatcherSkipsNonSpreadsheet(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{
		Directories: []string{dir},
		Debounce:    50,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	handlerCalled := false
	w.Handler = func(path string) error {
		handlerCalled = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	// Create a non-spreadsheet file
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("test"), 0644)
	time.Sleep(200 * time.Millisecond)

	if handlerCalled {
		t.Error("handler should not be called for .txt files")
	}

	cancel()
}

func TestWatcherSkipsExcelLockFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{
		Directories: []string{dir},
		Debounce:    50,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	handlerCalled := false
	w.Handler = func(path string) error {
		handlerCalled = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(filepath.Join(dir, "~$inquiries.xlsx"), []byte("lock"), 0644)
	time.Sleep(200 * time.Millisecond)

	if handlerCalled {
		t.Error("handler should not be called for Excel lock files")
	}

	cancel()
}

func TestPIDFile(t *testing.T) {
	dir := t.TempDir()

	if err := WritePIDFile(dir); err != nil {
		t.Fatal(err)
	}

	pid, err := ReadPIDFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected PID %d, got %d", os.Getpid(), pid)
	}

	if err := RemovePIDFile(dir); err != nil {
		t.Fatal(err)
	}

	_, err = ReadPIDFile(dir)
	if err == nil {
		t.Error("expected error after removing PID file")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	config := Config{
		Directories: []string{"/tmp/exports"},
		Recursive:   true,
		Debounce:    500,
	}

	if err := SaveConfig(dir, config); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded.Directories) != 1 || loaded.Directories[0] != "/tmp/exports" {
		t.Errorf("directories mismatch: %v", loaded.Directories)
	}
	if !loaded.Recursive {
		t.Error("expected recursive=true")
	}
	if loaded.Debounce != 500 {
		t.Errorf("expected debounce 500, got %d", loaded.Debounce)
	}
}

func TestGetStatus(t *testing.T) {
	w, _ := New(Config{
		Directories: []string{"/tmp/a", "/tmp/b"},
	}, nil)
	defer w.watcher.Close()

	status := w.GetStatus()
	if !status.Running {
		t.Error("expected running=true")
	}
	if len(status.Directories) != 2 {
		t.Errorf("expected 2 directories, got %d", len(status.Directories))
	}
}

func TestEventJSON(t *testing.T) {
	evt := Event{
		Time:      time.Now(),
		Path:      "/tmp/inquiries.xlsx",
		Operation: "create",
		Status:    "processed",
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Path != "/tmp/inquiries.xlsx" {
		t.Errorf("Path = %q", decoded.Path)
	}
	if decoded.Status != "processed" {
		t.Errorf("Status = %q", decoded.Status)
	}
}

func TestDefaultDebounce(t *testing.T) {
	w, _ := New(Config{Debounce: 0}, nil)
	defer w.watcher.Close()

	if w.Config.Debounce != 500 {
		t.Errorf("expected default debounce 500, got %d", w.Config.Debounce)
	}
}
