package main

import (
	"fmt"

	"parasite/internal/config"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	fmt.Printf("config=%s\n", cfg.Paths.ConfigPath)
	fmt.Printf("input=%s output=%s catalog=%s (enabled=%v)\n", cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Paths.CatalogPath, cfg.Catalog.Enabled)
	fmt.Printf("steps coarse=%v fine=%v min_gap=%v tolerance=%v\n", cfg.CoarseStep(), cfg.FineStep(), cfg.MinGap(), cfg.Tolerance())
	fmt.Printf("preview enabled=%v command=%q args=%q\n", cfg.Preview.Enabled, cfg.Preview.Command, cfg.Preview.Args)
	fmt.Printf("hook command=%q args=%v timeout=%.1fs\n", cfg.Hook.Command, cfg.Hook.Args, cfg.Hook.TimeoutSec)
}
