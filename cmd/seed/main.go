package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meur/modcatalog/internal/config"
	"github.com/meur/modcatalog/internal/models"
	"github.com/meur/modcatalog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seedsPath  string
	force      bool
)

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Write the initial catalog to the database",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "modcatalog.yaml", "Config file path")
	rootCmd.Flags().StringVar(&seedsPath, "seeds", "", "JSON file with a full mod list (defaults to the built-in list)")
	rootCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing catalog")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	existing, err := store.Get(cfg.Storage.StateKey)
	if err != nil {
		return err
	}
	if existing != nil && !force {
		fmt.Println("Catalog already present, use --force to overwrite")
		return nil
	}

	mods, err := loadSeeds(seedsPath)
	if err != nil {
		return err
	}

	data, err := json.Marshal(mods)
	if err != nil {
		return err
	}
	if err := store.Put(cfg.Storage.StateKey, data); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	fmt.Printf("🌱 Seeded %d mods into %s\n", len(mods), cfg.Storage.DatabasePath)
	return nil
}

func loadSeeds(path string) ([]models.Mod, error) {
	if path == "" {
		return models.DefaultMods(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mods []models.Mod
	if err := json.Unmarshal(data, &mods); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return mods, nil
}
