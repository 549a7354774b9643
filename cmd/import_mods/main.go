package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/meur/modcatalog/internal/app"
	"github.com/meur/modcatalog/internal/catalog"
	"github.com/meur/modcatalog/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	modsPath   string
)

var rootCmd = &cobra.Command{
	Use:   "import_mods",
	Short: "Add mods to the catalog from a JSON file",
	Long: `Reads a JSON array of mods ({name, description, category, author, version})
and adds each one to the catalog. Categories may be given by value ("tech")
or by label ("Технологии"). Entries that fail validation are skipped.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "modcatalog.yaml", "Config file path")
	rootCmd.Flags().StringVar(&modsPath, "mods", "data/mods.json", "Mods JSON path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	data, err := os.ReadFile(modsPath)
	if err != nil {
		return fmt.Errorf("failed to read mods: %w", err)
	}

	var drafts []models.ModDraft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return fmt.Errorf("failed to parse mods: %w", err)
	}

	a, err := app.Open(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	// Append in reverse so the file's first entry ends up first in the catalog.
	imported, skipped := 0, 0
	for i := len(drafts) - 1; i >= 0; i-- {
		d := drafts[i]
		d.Category = resolveCategory(d.Category)

		if _, err := a.Store.Add(d); err != nil {
			if errors.Is(err, catalog.ErrValidation) {
				a.Logger.Warn("Skipping mod", zap.String("name", d.Name), zap.Error(err))
				skipped++
				continue
			}
			return fmt.Errorf("failed to add %q: %w", d.Name, err)
		}
		imported++
	}

	fmt.Printf("✓ Imported %d mods", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d", skipped)
	}
	fmt.Println()
	return nil
}

// resolveCategory maps a category label to its value; values pass through
func resolveCategory(c string) string {
	c = strings.TrimSpace(c)
	for _, cat := range models.Categories() {
		if strings.EqualFold(cat.Value, c) || strings.EqualFold(cat.Label, c) {
			return cat.Value
		}
	}
	return c
}
