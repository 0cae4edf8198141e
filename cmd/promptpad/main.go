package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"promptpad/internal/composer"
	"promptpad/internal/config"
	"promptpad/internal/generate"
	"promptpad/internal/logging"
	"promptpad/internal/storage"
	"promptpad/internal/workspace"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "promptpad",
		Short:         "Compose multi-block prompts and keep per-tab response history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if dbPath != "" {
				cfg.Storage.Path = dbPath
			}
			appCfg = cfg
			logging.Setup(cfg.Log.Level, os.Stderr)
			return nil
		},
	}
	configPath string
	dbPath     string
	appCfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgHiRed).Sprint("🛑 ")+describe(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "promptpad.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the workspace database (SQLite), overrides config")

	rootCmd.AddCommand(tabCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
}

// describe turns known errors into the hints the user needs.
func describe(err error) string {
	switch {
	case errors.Is(err, generate.ErrMissingAPIKey):
		return "Please set your Gemini API key first: promptpad settings set --api-key <key> (or PROMPTPAD_API_KEY)"
	case errors.Is(err, workspace.ErrLastTab):
		return "Cannot delete the last tab. At least one tab must remain."
	case errors.Is(err, workspace.ErrLastBlock):
		return "Cannot delete the last block. Each tab must have at least one block."
	case errors.Is(err, workspace.ErrEmptyPrompt):
		return "Please add some content to generate a response."
	}
	return err.Error()
}

// openService opens the store and builds the service. The caller closes the
// returned store.
func openService() (*composer.Service, *storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(appCfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workspace database: %w", err)
	}
	renderer, err := composer.NewRenderer(appCfg.Render.Engine)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	log.Debug().Str("db", appCfg.Storage.Path).Str("engine", appCfg.Render.Engine).Msg("workspace opened")

	svc := composer.NewService(store, generate.New, renderer, composer.Settings{
		Provider: appCfg.AI.Provider,
		BaseURL:  appCfg.AI.BaseURL,
		Timeout:  appCfg.AI.Timeout,
		APIKey:   appCfg.AI.APIKey,
		Model:    appCfg.AI.Model,
	})
	return svc, store, nil
}

// withService runs fn with an open service.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *composer.Service) error) error {
	svc, store, err := openService()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cmd.Context(), svc)
}

func success(format string, a ...any) {
	fmt.Println(color.New(color.FgHiGreen).Sprintf("✅ "+format, a...))
}
