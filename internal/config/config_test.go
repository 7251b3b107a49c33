package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"CHAT2MD_OUTPUT_DIR",
	"CHAT2MD_PROXY",
	"CHAT2MD_TIMEOUT_SECONDS",
	"CHAT2MD_INDENT_WIDTH",
}

// isolate points HOME at a temp dir, clears XDG_CONFIG_HOME and the
// CHAT2MD_* variables, and returns the home dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(configPathEnvName, "")
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	return home
}

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, configFolderName, configFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "." || cfg.Timeout != 30*time.Second || !cfg.FrontMatter {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.IndentWidth != 0 || cfg.ShowUI || cfg.ListTrailingNewline || cfg.Path != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := isolate(t)
	path := writeConfigFile(t, filepath.Join(home, ".config"), `
output_dir = "/tmp/chats"
proxy = "http://127.0.0.1:7890"
timeout_seconds = 10
show_ui = true
indent_width = 3
list_trailing_newline = true
front_matter = false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.OutputDir != "/tmp/chats" || cfg.Proxy != "http://127.0.0.1:7890" || cfg.Timeout != 10*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.ShowUI || cfg.IndentWidth != 3 || !cfg.ListTrailingNewline || cfg.FrontMatter {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	t.Setenv("CHAT2MD_OUTPUT_DIR", "/srv/out")
	t.Setenv("CHAT2MD_TIMEOUT_SECONDS", "45")
	t.Setenv("CHAT2MD_INDENT_WIDTH", "nope")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "/srv/out" || cfg.Timeout != 45*time.Second {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.IndentWidth != 3 {
		t.Fatalf("invalid env value should be ignored, got %d", cfg.IndentWidth)
	}
}

func TestLoad_XDGTakesPrecedence(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, filepath.Join(home, ".config"), `proxy = "home"`)
	xdg := t.TempDir()
	t.Setenv(configPathEnvName, xdg)
	writeConfigFile(t, xdg, `proxy = "xdg"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Proxy != "xdg" {
		t.Fatalf("Proxy = %q, want xdg", cfg.Proxy)
	}
}

func TestLoad_InvalidFiles(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown key", body: "outdir = \"x\"\nzzz = 1", want: "unknown key(s): outdir, zzz"},
		{name: "bad timeout", body: "timeout_seconds = 0", want: "timeout_seconds must be > 0"},
		{name: "bad indent", body: "indent_width = 0", want: "indent_width must be >= 1"},
		{name: "empty dir", body: `output_dir = "  "`, want: "output_dir must be non-empty"},
		{name: "syntax", body: "output_dir = ", want: "invalid config file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			home := isolate(t)
			writeConfigFile(t, filepath.Join(home, ".config"), tc.body)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoad_ConfigPathIsDirectory(t *testing.T) {
	home := isolate(t)
	if err := os.MkdirAll(filepath.Join(home, ".config", configFolderName, configFileName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("Load error = %v", err)
	}
}
