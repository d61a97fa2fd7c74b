package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TimeFormat != DefaultConfig().TimeFormat {
		t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, DefaultConfig().TimeFormat)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !cfg.RetainRemovable() {
		t.Error("RetainRemovable() = false, want true by default")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"time_format": "15:04", "drop_missing_removable": true, "log_level": "debug"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TimeFormat != "15:04" {
		t.Errorf("TimeFormat = %q, want 15:04", cfg.TimeFormat)
	}
	if cfg.RetainRemovable() {
		t.Error("RetainRemovable() = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogMaxSizeMB != 10 {
		t.Errorf("LogMaxSizeMB = %d, want default 10", cfg.LogMaxSizeMB)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["bookmark_import", "bookmark_remove"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "bookmark_import" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "bookmark_import")
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"time_format": "2006", "disabled_tools": ["bookmark_import"]}`)
	writeConfig(t, filepath.Join(repoRoot, ".hexmark"), `{"time_format": "15:04", "disabled_tools": ["bookmark_remove"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.TimeFormat != "15:04" {
		t.Errorf("TimeFormat = %q, want 15:04 (repo override)", cfg.TimeFormat)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.TimeFormat != DefaultConfig().TimeFormat {
		t.Errorf("TimeFormat = %q, want default", cfg.TimeFormat)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".hexmark"), `{"drop_missing_removable": true}`)

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(t.TempDir(), subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if !cfg.DropMissingRemovable {
		t.Error("DropMissingRemovable = false, want true from parent repo config")
	}
}

func TestFindRepoConfig(t *testing.T) {
	tmpDir := t.TempDir()
	if found := FindRepoConfig(tmpDir); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}

	configPath := writeConfig(t, filepath.Join(tmpDir, ".hexmark"), `{}`)
	if found := FindRepoConfig(tmpDir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
	if found := FindRepoConfig(""); found != "" {
		t.Errorf("FindRepoConfig(\"\") = %q, want empty string", found)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{TimeFormat: "a", DBMaxOpenConns: 5}
	overlay := &Config{TimeFormat: "b"}

	result := Merge(base, overlay)

	if result.TimeFormat != "b" {
		t.Errorf("TimeFormat = %q, want b (overlay)", result.TimeFormat)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	result := Merge(&Config{AllowUnsafePaths: true}, &Config{DropMissingRemovable: true})

	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true (base OR overlay)")
	}
	if !result.DropMissingRemovable {
		t.Error("DropMissingRemovable should be true (base OR overlay)")
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"bookmark_import", " bookmark_remove "}}
	overlay := &Config{DisabledTools: []string{"bookmark_remove", "bookmark_export", ""}}

	result := Merge(base, overlay)

	want := []string{"bookmark_import", "bookmark_remove", "bookmark_export"}
	if len(result.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", result.DisabledTools, want)
	}
	for i := range want {
		if result.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, result.DisabledTools[i], want[i])
		}
	}
}

func TestBaseDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	got, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("BaseDir() = %q, want %q", got, dir)
	}

	t.Setenv(HomeEnv, "")
	got, err = BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if filepath.Base(got) != ".hexmark" {
		t.Errorf("BaseDir() = %q, want ~/.hexmark", got)
	}
}
