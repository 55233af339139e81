package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"parasite/internal/config"
	"parasite/internal/discovery"
	"parasite/internal/preview"
)

// Result represents a diagnostic check.
type Result struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Detail string `json:"detail"`
}

// Run executes doctor checks.
func Run(cfg *config.Config) []Result {
	results := []Result{
		checkFile("config path", cfg.Paths.ConfigPath),
		checkInputDir(cfg.Paths.InputDir),
		checkOutputDir(cfg.Paths.OutputDir),
		checkPreview(cfg),
		checkHookExecutable(cfg.Hook.Command),
	}
	if cfg.Catalog.Enabled {
		results = append(results, checkWritableDir("catalog dir", filepath.Dir(cfg.Paths.CatalogPath)))
	}
	return results
}

func checkFile(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if _, err := os.Stat(os.ExpandEnv(path)); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkInputDir(dir string) Result {
	label := "input dir"
	pairs, err := discovery.Discover(dir)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	if len(pairs) == 0 {
		return Result{Name: label, Pass: false, Detail: fmt.Sprintf("%s: %v", dir, discovery.ErrNoPairs)}
	}
	return Result{Name: label, Pass: true, Detail: fmt.Sprintf("%s (%d pairs)", dir, len(pairs))}
}

func checkOutputDir(dir string) Result {
	return checkWritableDir("output dir", dir)
}

// checkWritableDir creates dir if needed and probes it with a temp file.
func checkWritableDir(label, dir string) Result {
	if dir == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Result{Name: label, Pass: false, Detail: "not writable: " + err.Error()}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return Result{Name: label, Pass: true, Detail: dir}
}

func checkPreview(cfg *config.Config) Result {
	label := "preview"
	if !cfg.Preview.Enabled || strings.TrimSpace(cfg.Preview.Command) == "" {
		return Result{Name: label, Pass: true, Detail: "disabled"}
	}
	if cfg.Preview.Command == preview.DeviceCommand {
		if err := preview.DeviceAvailable(); err != nil {
			return Result{Name: label, Pass: false, Detail: err.Error()}
		}
		return Result{Name: label, Pass: true, Detail: "portaudio output"}
	}
	if _, err := preview.ParseArgs(cfg.Preview.Args); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	r := checkExecutable(label, cfg.Preview.Command)
	if !r.Pass && cfg.Preview.Command == "ffplay" {
		r.Detail += " (install ffmpeg, or set preview.command = \"portaudio\")"
	}
	return r
}

func checkHookExecutable(cmd string) Result {
	label := "hook.command"
	if cmd == "" {
		return Result{Name: label, Pass: true, Detail: "not set"}
	}
	return checkExecutable(label, cmd)
}

func checkExecutable(label, cmd string) Result {
	path := os.ExpandEnv(cmd)
	// If contains a path separator, treat as explicit path.
	if strings.Contains(path, "/") || strings.Contains(path, "\\") {
		info, err := os.Stat(path)
		if err != nil {
			return Result{Name: label, Pass: false, Detail: err.Error()}
		}
		if info.IsDir() {
			return Result{Name: label, Pass: false, Detail: "is a directory; point it at an executable file"}
		}
		if info.Mode().Perm()&0o111 == 0 {
			return Result{Name: label, Pass: false, Detail: "not executable; chmod +x or choose another command"}
		}
		return Result{Name: label, Pass: true, Detail: path}
	}
	// Else search PATH.
	resolved, err := exec.LookPath(path)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: resolved}
}
