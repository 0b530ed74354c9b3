package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Endpoint string `yaml:"endpoint"`
	Port     int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("TEST_ENDPOINT", "https://store.example")
	path := writeFile(t, "endpoint: ${TEST_ENDPOINT}\n")

	cfg := testConfig{Port: 8080} // default survives an absent field
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "https://store.example" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Port)
	}
}

func TestLoad_RunsValidation(t *testing.T) {
	path := writeFile(t, "endpoint: x\nport: 0\n")

	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "port is required") {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWithFallback(t *testing.T) {
	fallback := writeFile(t, "endpoint: bundled\nport: 1\n")

	var cfg testConfig
	err := LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"), fallback, &cfg)
	if err != nil {
		t.Fatalf("LoadWithFallback: %v", err)
	}
	if cfg.Endpoint != "bundled" {
		t.Errorf("endpoint = %q, want bundled", cfg.Endpoint)
	}

	err = LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"), "", &cfg)
	if err == nil {
		t.Fatal("expected error when no fallback is given")
	}
}
