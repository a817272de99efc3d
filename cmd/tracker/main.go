package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/catalog"
	"github.com/blockedby/application-tracker/internal/client"
	"github.com/blockedby/application-tracker/internal/config"
	"github.com/blockedby/application-tracker/internal/logger"
)

// cli carries the state shared by every subcommand.
type cli struct {
	cfg     *config.Config
	apiURL  string
	catFile string
	log     *logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{log: logger.Get()}

	cmd := &cobra.Command{
		Use:          "tracker",
		Short:        "Record and browse job applications",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			if c.apiURL == "" {
				c.apiURL = cfg.APIBaseURL
			}
			if c.catFile == "" {
				c.catFile = cfg.CatalogFile
			}
			if cfg.LogFile != "" || cfg.LogLevel == "debug" {
				if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
					return err
				}
				c.log = logger.Get()
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&c.apiURL, "api", "", "Base URL of the tracker API (default $API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&c.catFile, "catalog", "", "Catalog YAML file (default $CATALOG_FILE)")

	cmd.AddCommand(
		newAddCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newStatusCmd(c),
		newDeleteCmd(c),
		newStatsCmd(c),
		newCountriesCmd(c),
		newCatalogCmd(c),
		newWatchCmd(c),
	)
	return cmd
}

func (c *cli) client() *client.Client {
	opts := []client.Option{client.WithLogger(c.log.Component("client"))}
	if c.cfg != nil && c.cfg.APITimeout > 0 {
		opts = append(opts, client.WithTimeout(c.cfg.APITimeout))
	}
	return client.New(c.apiURL, opts...)
}

func (c *cli) catalog() (*catalog.Catalog, error) {
	return catalog.Load(c.catFile)
}
