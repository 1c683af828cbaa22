package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Port)
	}
	if cfg.PoolSize != 64 {
		t.Errorf("Expected pool size 64, got %d", cfg.PoolSize)
	}
	if cfg.PublicDir != "public" {
		t.Errorf("Expected public dir 'public', got %q", cfg.PublicDir)
	}
	if cfg.Production() {
		t.Error("Expected development environment by default")
	}
	if cfg.Addr() != ":9999" {
		t.Errorf("Expected addr :9999, got %q", cfg.Addr())
	}
}

func TestLoadPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "server.json")
	content := `{"port": 7000, "pool": {"size": 8}, "public": "www", "log": {"level": "debug"}}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	args := []string{"-config", file, "-port", "8080"}
	environ := []string{"MINI_POOL_SIZE=16", "OTHER_PORT=1", "PATH=/bin"}

	cfg, err := Load(args, environ)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected explicit flag port 8080, got %d", cfg.Port)
	}
	if cfg.PoolSize != 16 {
		t.Errorf("Expected env pool size 16, got %d", cfg.PoolSize)
	}
	if cfg.PublicDir != "www" {
		t.Errorf("Expected file public dir 'www', got %q", cfg.PublicDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected file log level 'debug', got %q", cfg.LogLevel)
	}
	if cfg.ConfigFile != file {
		t.Errorf("Expected config file %q, got %q", file, cfg.ConfigFile)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		environ []string
	}{
		{"unknown flag", []string{"-nope"}, nil},
		{"missing file", []string{"-config", filepath.Join(t.TempDir(), "absent.json")}, nil},
		{"bad env number", nil, []string{"MINI_PORT=abc"}},
		{"zero pool", []string{"-pool-size", "0"}, nil},
		{"port range", nil, []string{"MINI_PORT=70000"}},
	}

	for _, tt := range tests {
		if _, err := Load(tt.args, tt.environ); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestManagerJSONRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "saved.json")

	m := NewManager()
	m.Set("port", 9000)
	m.Set("public", "static")
	if err := m.SaveToJSON(file); err != nil {
		t.Fatalf("SaveToJSON error: %v", err)
	}

	loaded := NewManager()
	if err := loaded.LoadFromJSON(file); err != nil {
		t.Fatalf("LoadFromJSON error: %v", err)
	}

	if got := loaded.GetInt("port"); got != 9000 {
		t.Errorf("Expected port 9000, got %d", got)
	}
	if got := loaded.GetString("public"); got != "static" {
		t.Errorf("Expected 'static', got %q", got)
	}
	if got := loaded.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("Expected default value, got %q", got)
	}
	if len(loaded.GetAll()) != 2 {
		t.Errorf("Expected 2 values, got %d", len(loaded.GetAll()))
	}
}

func TestManagerUnmarshalTarget(t *testing.T) {
	m := NewManager()
	var cfg Config

	if err := m.Unmarshal("", cfg); err == nil {
		t.Error("Expected error for non-pointer target")
	}
	if err := m.Unmarshal("", new(int)); err == nil {
		t.Error("Expected error for pointer to non-struct")
	}
}
