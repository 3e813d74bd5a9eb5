package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("DASHSCOPE_API_KEY", "env-key")

	key, err := GetAPIKey("qwen")
	if err != nil {
		t.Fatal(err)
	}
	if key != "env-key" {
		t.Errorf("key = %q", key)
	}
}

func TestGetAPIKeyFromConfigFile(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("DASHSCOPE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	dir := filepath.Join(os.Getenv("HOME"), ".inq")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "api_keys:\n  dashscope: file-key\n  anthropic: file-key-2\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	key, err := GetAPIKey("qwen")
	if err != nil {
		t.Fatal(err)
	}
	if key != "file-key" {
		t.Errorf("qwen key = %q", key)
	}

	key, err = GetAPIKey("anthropic")
	if err != nil {
		t.Fatal(err)
	}
	if key != "file-key-2" {
		t.Errorf("anthropic key = %q", key)
	}
}

func TestGetAPIKeyEnvBeatsFile(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("DASHSCOPE_API_KEY", "env-key")

	dir := filepath.Join(os.Getenv("HOME"), ".inq")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_keys:\n  dashscope: file-key\n"), 0644); err != nil {
		t.Fatal(err)
	}

	key, err := GetAPIKey("dashscope")
	if err != nil {
		t.Fatal(err)
	}
	if key != "env-key" {
		t.Errorf("environment should win, got %q", key)
	}
}

func TestGetAPIKeyMissing(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("DASHSCOPE_API_KEY", "")

	if _, err := GetAPIKey("qwen"); err == nil || !strings.Contains(err.Error(), "DASHSCOPE_API_KEY") {
		t.Errorf("err = %v", err)
	}
}

func TestGetAPIKeyUnknownProvider(t *testing.T) {
	setupTestConfig(t)

	if _, err := GetAPIKey("ollama"); err == nil {
		t.Error("ollama has no key management")
	}
}
