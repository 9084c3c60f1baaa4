package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile_ReturnsDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path == "" {
		t.Fatalf("expected config path")
	}
	if got := cfg.Host(); got != DefaultHost {
		t.Fatalf("cfg.Host() = %q, want %q", got, DefaultHost)
	}
	if got := cfg.Port(); got != DefaultPort {
		t.Fatalf("cfg.Port() = %d, want %d", got, DefaultPort)
	}
	if got := cfg.Provider(); got != DefaultProvider {
		t.Fatalf("cfg.Provider() = %q, want %q", got, DefaultProvider)
	}
}

func TestEnsureDefaultConfig_CreatesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := EnsureDefaultConfig()
	if err != nil {
		t.Fatalf("EnsureDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist at %s: %v", path, err)
	}

	cfg, gotPath, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if filepath.Clean(gotPath) != filepath.Clean(path) {
		t.Fatalf("Load() path = %s, want %s", gotPath, path)
	}
	if got := cfg.Host(); got != DefaultHost {
		t.Fatalf("cfg.Host() = %q, want %q", got, DefaultHost)
	}
}

func TestLoad_ParsesAllSections(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".boardroom")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	content := "server:\n  host: 0.0.0.0\n  port: 9090\ndatabase:\n  path: /tmp/board.db\ngenerator:\n  provider: ollama\n  model: llama3\n  base_url: http://localhost:11434\n  max_tokens: 2048\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Host(); got != "0.0.0.0" {
		t.Fatalf("cfg.Host() = %q, want %q", got, "0.0.0.0")
	}
	if got := cfg.Port(); got != 9090 {
		t.Fatalf("cfg.Port() = %d, want %d", got, 9090)
	}
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("cfg.DatabasePath() error = %v", err)
	}
	if dbPath != "/tmp/board.db" {
		t.Fatalf("cfg.DatabasePath() = %q, want %q", dbPath, "/tmp/board.db")
	}
	if got := cfg.Provider(); got != "ollama" {
		t.Fatalf("cfg.Provider() = %q, want %q", got, "ollama")
	}
	if got := cfg.Model(); got != "llama3" {
		t.Fatalf("cfg.Model() = %q, want %q", got, "llama3")
	}
	if got := cfg.BaseURL(); got != "http://localhost:11434" {
		t.Fatalf("cfg.BaseURL() = %q, want %q", got, "http://localhost:11434")
	}
	if got := cfg.MaxTokens(); got != 2048 {
		t.Fatalf("cfg.MaxTokens() = %d, want %d", got, 2048)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".boardroom")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("generator:\n  provider: mainframe\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for unknown provider")
	}
}

func TestDatabasePath_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &AppConfig{}
	got, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("cfg.DatabasePath() error = %v", err)
	}
	want := filepath.Join(home, ".boardroom", "boardroom.db")
	if got != want {
		t.Fatalf("cfg.DatabasePath() = %q, want %q", got, want)
	}
}
