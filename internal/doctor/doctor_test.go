package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"parasite/internal/config"
)

func find(results []Result, name string) Result {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	return Result{Name: name, Detail: "missing"}
}

func TestRunReportsEachCheck(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.toml")
	if err := config.Save(cfg, cfgPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg.Paths.ConfigPath = cfgPath
	cfg.Paths.InputDir = filepath.Join(dir, "in")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.CatalogPath = filepath.Join(dir, "state", "catalog.sqlite")
	cfg.Preview.Enabled = false
	for _, name := range []string{"a.vtt", "a.wav"} {
		if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(cfg.Paths.InputDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	results := Run(cfg)
	for _, name := range []string{"config path", "input dir", "output dir", "preview", "hook.command", "catalog dir"} {
		if r := find(results, name); !r.Pass {
			t.Fatalf("%s failed: %s", name, r.Detail)
		}
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestCheckExecutable(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hook.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if r := checkExecutable("hook", script); r.Pass {
		t.Fatalf("non-executable file passed")
	}
	if err := os.Chmod(script, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if r := checkExecutable("hook", script); !r.Pass {
		t.Fatalf("executable failed: %s", r.Detail)
	}
	if r := checkExecutable("hook", dir); r.Pass {
		t.Fatalf("directory passed")
	}
	if r := checkExecutable("hook", "definitely-not-a-command-xyz"); r.Pass {
		t.Fatalf("missing command passed")
	}
}

func TestInputDirWithoutPairs(t *testing.T) {
	if r := checkInputDir(t.TempDir()); r.Pass {
		t.Fatalf("empty input dir passed")
	}
}
