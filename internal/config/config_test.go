package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadSave tests the config round trip
func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	want := &Config{
		Workshop: `C:\Steam\steamapps\workshop\content\3024040`,
		Dest:     `C:\Users\test\Maps`,
		Language: "de",
	}
	if err := Save(dir, want); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

// TestLoad_Missing verifies first-run behavior: no file, no error
func TestLoad_Missing(t *testing.T) {
	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if *got != (Config{}) {
		t.Errorf("Load() = %+v, want empty config", got)
	}
}

// TestLoad_Corrupt verifies a broken file is reported, not silently dropped
func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load() expected error for corrupt config")
	}
}

// TestSave_CreatesDirectory verifies the config directory is created on demand
func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	if err := Save(dir, &Config{Language: "en"}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("config file missing after Save(): %v", err)
	}
}
