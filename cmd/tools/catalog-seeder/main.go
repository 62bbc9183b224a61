// cmd/tools/catalog-seeder/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"factory-matching/internal/common/config"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/matching"
	"factory-matching/internal/models"
	"factory-matching/internal/repository"
)

var (
	configPath string
	importFile string
	overwrite  bool
	exportOut  string
)

var rootCmd = &cobra.Command{
	Use:   "catalog-seeder",
	Short: "Manage the partner factory catalogue",
	Long: `catalog-seeder loads, exports and validates factory catalogue files.

Catalogue files are yaml (.yaml, .yml) or json with a top-level "factories" list.
Storage is taken from the service configuration (configs/config.yaml).`,
	SilenceUsage: true,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a catalogue file (or the built-in one) into the configured storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := importCatalog(cmd.Context(), configPath, importFile, overwrite)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d factories.\n", added)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in catalogue as yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := exportCatalog(exportOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote built-in catalogue to %s\n", exportOut)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalogue file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateCatalog(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (defaults to the service config lookup)")

	importCmd.Flags().StringVar(&importFile, "file", "", "Catalogue file; empty imports the built-in catalogue")
	importCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace factories that already exist")

	exportCmd.Flags().StringVar(&exportOut, "out", "configs/catalog.yaml", "Output path")

	rootCmd.AddCommand(importCmd, exportCmd, validateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func importCatalog(ctx context.Context, cfgPath, file string, overwrite bool) (int, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Storage.Backend == config.BackendMemory && !cfg.Storage.Elasticsearch.Enabled {
		return 0, fmt.Errorf("storage backend is %q; nothing would persist", cfg.Storage.Backend)
	}

	factories := matching.DefaultCatalog()
	if file != "" {
		if factories, err = matching.LoadCatalog(file); err != nil {
			return 0, err
		}
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return 0, fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	if !overwrite {
		return store.Seed(ctx, factories)
	}
	return saveAll(ctx, store.Factories, factories)
}

func saveAll(ctx context.Context, repo repository.FactoryRepository, factories []models.Factory) (int, error) {
	for i, f := range factories {
		if err := repo.Save(ctx, f); err != nil {
			return i, fmt.Errorf("save factory %s: %w", f.ID, err)
		}
	}
	return len(factories), nil
}

func exportCatalog(path string) error {
	data, err := matching.MarshalCatalog(matching.DefaultCatalog())
	if err != nil {
		return fmt.Errorf("failed to marshal catalogue: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func validateCatalog(w io.Writer, path string) error {
	factories, err := matching.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("catalogue validation failed: %w", err)
	}
	fmt.Fprintf(w, "Catalogue validation passed. Found %d factories.\n", len(factories))
	return nil
}
