package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/fernvale/murmur/internal"
	"github.com/fernvale/murmur/internal/assets"
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/mcpserver"
	"github.com/fernvale/murmur/internal/persist"
	pkgconfig "github.com/fernvale/murmur/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP starts the stdio MCP server against the same archive as the HTTP
// service, for LLM clients that record and explore memories via tools.
func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	assetStore, err := assets.NewFS(cfg.Archive.Path)
	if err != nil {
		return fmt.Errorf("init assets: %w", err)
	}
	col, err := persist.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer col.Close()

	store := memorystore.New(col, assetStore)
	return mcpserver.New(store).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "murmur",
		Usage:  "Audio memory map with location-graph soundwalks",
		Action: run,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Run the MCP stdio server exposing memory and soundwalk tools",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
