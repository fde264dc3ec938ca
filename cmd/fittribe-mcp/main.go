package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/config"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/mcp"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	remote := flag.String("remote", "", "base URL of a running API server; when set, data is fetched over HTTP instead of the database")
	flag.Parse()

	// Stdout carries the stdio protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	rules := gamify.DefaultRules()

	var ds mcp.DataSource
	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote)
		log.Info("using remote data source", "base_url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		rules = cfg.Rules.GamifyRules()
		log.Info("using local database")
	}

	engine := gamify.New(rules)
	srv := mcp.New(ds, engine, Version, log)

	log.Info("MCP server starting on stdio", "version", Version)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
