package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lxcsetup/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "lxcsetup", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Selector.Timeout != 5 {
		t.Fatalf("unexpected selector timeout: %d", cfg.Selector.Timeout)
	}
	if cfg.Selector.DefaultVariant != "autoscale" {
		t.Fatalf("unexpected default variant: %q", cfg.Selector.DefaultVariant)
	}
	if !strings.HasPrefix(cfg.Artifacts.BaseURL, "https://") {
		t.Fatalf("unexpected artifact base url: %q", cfg.Artifacts.BaseURL)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if cfg.JournalPath() != filepath.Join(wantLogDir, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if cfg.LockPath() != filepath.Join(wantLogDir, "lxcsetup.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lxcsetup.toml")

	content := strings.Join([]string{
		"[paths]",
		`log_dir = "` + filepath.Join(tempDir, "logs") + `"`,
		"[artifacts]",
		`base_url = "https://example.com/artifacts/"`,
		"fetch_timeout = 5",
		"[selector]",
		"timeout = 1",
		`default_variant = "autoscale-ml"`,
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Artifacts.BaseURL != "https://example.com/artifacts" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Artifacts.BaseURL)
	}
	if cfg.Selector.DefaultVariant != "autoscale-ml" {
		t.Fatalf("unexpected default variant: %q", cfg.Selector.DefaultVariant)
	}
	if cfg.Selector.Timeout != 1 {
		t.Fatalf("unexpected selector timeout: %d", cfg.Selector.Timeout)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tempDir := t.TempDir()

	cases := []struct {
		name    string
		content string
	}{
		{"bad variant", "[selector]\ndefault_variant = \"turbo\"\n"},
		{"bad url", "[artifacts]\nbase_url = \"ftp://example.com\"\n"},
		{"bad level", "[logging]\nlevel = \"chatty\"\n"},
		{"bad format", "[logging]\nformat = \"xml\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tempDir, strings.ReplaceAll(tc.name, " ", "_")+".toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestArtifactBaseURLEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LXCSETUP_ARTIFACT_BASE_URL", "https://mirror.example.net/autoscale")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Artifacts.BaseURL != "https://mirror.example.net/autoscale" {
		t.Fatalf("expected env override, got %q", cfg.Artifacts.BaseURL)
	}
}

func TestCreateSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[selector]") {
		t.Fatal("sample config missing selector section")
	}
}
