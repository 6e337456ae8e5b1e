package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/abhisek/mathmood/internal/config"
	"github.com/abhisek/mathmood/internal/logger"
	"github.com/abhisek/mathmood/internal/store"
	"github.com/spf13/cobra"
)

// cfg is loaded once per invocation in PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mathmood",
	Short: "Adaptive math practice that listens to how you feel",
	Long: `Mathmood is a terminal math quiz for children in grades 1-5.

After every answer the learner says how it felt. The reflection, together with
recent results, decides how hard the next question is.

An LLM provider is picked up from MATHMOOD_LLM_PROVIDER or from a standard API
key (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY).
Use --provider mock to practice offline with built-in questions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadDotEnv(); err != nil {
			return err
		}
		c, err := config.Load()
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			if !store.IsPostgresDSN(p) {
				if err := store.EnsureDir(p); err != nil {
					return fmt.Errorf("create database dir: %w", err)
				}
			}
			c.DBPath = p
		}
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			c.LLM.Provider = p
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite file or postgres:// URL (overrides MATHMOOD_DB)")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: openai, openai-responses, anthropic, gemini, openrouter or mock")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the command logger. Interactive commands must pass
// toFile since the TUI owns the terminal.
func newLogger(toFile bool) (*logger.Logger, error) {
	opts := logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, File: cfg.Log.File}
	if toFile && opts.File == "" {
		path, err := defaultLogPath()
		if err != nil {
			return nil, err
		}
		opts.File = path
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// defaultLogPath places the log next to the SQLite database, or in the user
// cache dir when the store is PostgreSQL.
func defaultLogPath() (string, error) {
	if !store.IsPostgresDSN(cfg.DBPath) {
		return filepath.Join(filepath.Dir(cfg.DBPath), "mathmood.log"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "mathmood", "mathmood.log"), nil
}

// openStore connects to the configured database.
func openStore(cmd *cobra.Command) (store.Repository, error) {
	s, err := store.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
