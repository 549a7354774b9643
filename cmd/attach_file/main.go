package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meur/modcatalog/internal/app"
	"github.com/spf13/cobra"
)

var (
	configPath string
	modID      int
	filePath   string
)

var rootCmd = &cobra.Command{
	Use:          "attach_file",
	Short:        "Upload a file and attach it to the admin mod",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Open(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if !cmd.Flags().Changed("mod-id") {
			modID = a.Config.Upload.AdminModID
		}

		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		mod, err := a.Attacher().Attach(cmd.Context(), modID, filepath.Base(filePath), f)
		if err != nil {
			return err
		}

		fmt.Printf("✓ File %q attached to %s %q\n", filepath.Base(filePath), mod.Icon, mod.Name)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "modcatalog.yaml", "Config file path")
	rootCmd.Flags().IntVar(&modID, "mod-id", 0, "Target mod (defaults to the configured admin mod)")
	rootCmd.Flags().StringVar(&filePath, "file", "", "File to upload (.jar, .zip, .exe)")
	rootCmd.MarkFlagRequired("file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
