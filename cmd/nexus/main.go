package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/teamnexus/nexus/internal/api"
	"github.com/teamnexus/nexus/internal/config"
	"github.com/teamnexus/nexus/internal/db"
	"github.com/teamnexus/nexus/internal/ui"
	"github.com/teamnexus/nexus/internal/workspace"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDB     string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:     "nexus",
	Short:   "Terminal client for the NEXUS team workspace",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		client := api.NewLocalClient(store)
		ws := workspace.New(client,
			workspace.WithRefreshDelay(cfg.RefreshDelay()),
			workspace.WithFetchTimeout(cfg.FetchTimeout()),
		)

		app := ui.NewApp(ws, client)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo workspace into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		data, err := db.LoadFixture()
		if err != nil {
			return err
		}

		if err := store.Import(context.Background(), data, seedPassword); err != nil {
			return err
		}

		log.Info("demo workspace loaded",
			"members", len(data.Members),
			"tasks", len(data.Tasks),
			"posts", len(data.Posts),
			"schedules", len(data.Schedules),
		)
		log.Info("log in with any member email", "password", seedPassword)
		return nil
	},
}

func openStore(cfg *config.Config) (*db.DB, error) {
	path := flagDB
	if path == "" {
		path = cfg.Database.Path
	}
	return db.New(path)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the workspace store")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the config file")
	seedCmd.Flags().StringVar(&seedPassword, "password", "nexus123", "password assigned to demo members")
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
