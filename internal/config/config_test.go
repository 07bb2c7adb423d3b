package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
http: ":8080"
log_level: debug
notion:
  token: secret
  root_page_id: abc123
cache:
  ttl: 30s
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.HTTP != ":8080" || cfg.LogLevel != "debug" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Notion.Token != "secret" || cfg.Notion.RootPageID != "abc123" {
			t.Errorf("notion = %+v", cfg.Notion)
		}
		if cfg.Cache.TTL != 30*time.Second {
			t.Errorf("ttl = %v, want 30s", cfg.Cache.TTL)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		want := Default()
		if cfg.HTTP != want.HTTP || cfg.LogLevel != want.LogLevel || cfg.Cache.TTL != want.Cache.TTL {
			t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
		}
	})

	t.Run("env fills credentials", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "env-token")
		t.Setenv("NOTION_ROOT_PAGE_ID", "env-root")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Notion.Token != "env-token" || cfg.Notion.RootPageID != "env-root" {
			t.Errorf("notion = %+v", cfg.Notion)
		}
	})

	t.Run("file wins over env", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "env-token")
		path := writeConfig(t, "notion:\n  token: file-token\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Notion.Token != "file-token" {
			t.Errorf("token = %q, want file value", cfg.Notion.Token)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "http: [broken\n")
		if _, err := Load(path); err == nil {
			t.Fatal("Load() succeeded on invalid yaml")
		}
	})

	t.Run("non-positive ttl resets", func(t *testing.T) {
		path := writeConfig(t, "cache:\n  ttl: 0s\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Cache.TTL != 5*time.Second {
			t.Errorf("ttl = %v, want default", cfg.Cache.TTL)
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() passed without a token")
	}
	cfg.Notion.Token = "t"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() passed without a root page")
	}
	cfg.Notion.RootPageID = "r"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notionfeed.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
