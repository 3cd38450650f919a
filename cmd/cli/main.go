package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/bucketlib/bucketlib-go/cmd/cli/tui"
	"github.com/bucketlib/bucketlib-go/internal/config"
	"github.com/bucketlib/bucketlib-go/internal/selector"
	"github.com/bucketlib/bucketlib-go/internal/utils"
	"github.com/bucketlib/bucketlib-go/internal/weightstore"
)

func main() {
	logger := utils.NewLogger(slog.LevelInfo, os.Stderr)

	cfgPath := "./samples/scenario.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	c := &config.ConfigImpl{}
	cfg, err := c.LoadYAML(cfgPath)
	if err != nil {
		fmt.Println("Error loading scenario:", err)
		os.Exit(1)
	}
	catalog := cfg.Pool.Catalog
	if len(catalog) == 0 {
		fmt.Println("Scenario has an empty catalog")
		os.Exit(1)
	}

	sel := selector.NewBucketSelector()

	var store *weightstore.Store
	if cfg.WeightFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.WeightFile), 0755); err != nil {
			fmt.Println("Error preparing weight file dir:", err)
			os.Exit(1)
		}
		store, err = weightstore.Open(cfg.WeightFile, len(catalog))
		if err != nil {
			fmt.Println("Error opening weight store:", err)
			os.Exit(1)
		}
		defer store.Close()

		weights := store.Values()
		if store.Fresh() {
			for i, item := range catalog {
				weights[i] = item.Weight
			}
			if err := store.Flush(); err != nil {
				fmt.Println("Error flushing weight store:", err)
				os.Exit(1)
			}
			logger.Info("seeded weight store", "path", cfg.WeightFile, "items", len(catalog))
		} else {
			logger.Info("resumed weight store", "path", cfg.WeightFile, "items", len(catalog))
		}
		sel.ResetWithView(catalog, weights)
	} else {
		sel.Reset(catalog)
	}

	p := bubbletea.NewProgram(tui.NewModel(sel, store))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
