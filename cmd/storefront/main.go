/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	storefront "github.com/suparena/storefront"
	"github.com/suparena/storefront/gateway/graphql"
	"github.com/suparena/storefront/models"
	"github.com/suparena/storefront/registry"
	"github.com/suparena/storefront/repository"
	"github.com/suparena/storefront/repository/ddb"
	"github.com/suparena/storefront/repository/memory"
)

var (
	versionFlag     = flag.Bool("version", false, "Show version information")
	vFlag           = flag.Bool("v", false, "Show version information (short)")
	configFlag      = flag.String("config", "", "Path to YAML gateway config")
	backendFlag     = flag.String("backend", "memory", "Storage backend: memory or dynamodb")
	descriptorsFlag = flag.String("descriptors", "", "Path to YAML descriptor overrides")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := storefront.GetVersionInfo()
		fmt.Printf("Storefront version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(logger); err != nil {
		logger.Error("storefront exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	if err := registerDescriptors(); err != nil {
		return err
	}

	cfg := graphql.DefaultConfig()
	if *configFlag != "" {
		loaded, err := graphql.LoadConfig(*configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	customers, orders, err := buildRepositories(*backendFlag)
	if err != nil {
		return err
	}

	set := storefront.NewRepositorySet()
	if err := storefront.RegisterRepository[models.Customer](set, *backendFlag, customers); err != nil {
		return err
	}
	if err := storefront.RegisterRepository[models.Order](set, *backendFlag, orders); err != nil {
		return err
	}

	schema, err := graphql.NewSchema(graphql.NewResolver(cfg, customers, orders))
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}

	var validator graphql.CredentialValidator
	if cfg.RequireAuth {
		token := os.Getenv("STOREFRONT_API_TOKEN")
		if token == "" {
			return fmt.Errorf("auth required but STOREFRONT_API_TOKEN is not set")
		}
		validator = &graphql.StaticTokenValidator{
			Tokens: map[string]string{token: "api"},
		}
	}

	server := graphql.NewServer(cfg, schema, validator, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("received signal", "signal", sig.String())
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errCh
	}
}

// registerDescriptors installs the default entity descriptors, replaced by
// any overrides from the descriptor file.
func registerDescriptors() error {
	if *descriptorsFlag == "" {
		models.Register()
		return nil
	}
	overrides, err := registry.LoadDescriptorFile(*descriptorsFlag)
	if err != nil {
		return err
	}
	models.RegisterWithOverrides(overrides)
	return nil
}

func buildRepositories(backend string) (repository.Repository[models.Customer], repository.Repository[models.Order], error) {
	switch backend {
	case "memory":
		store := memory.NewStore()
		customers, err := memory.NewRepository[models.Customer](store)
		if err != nil {
			return nil, nil, err
		}
		orders, err := memory.NewRepository[models.Order](store)
		if err != nil {
			return nil, nil, err
		}
		return customers, orders, nil

	case "dynamodb":
		client, err := ddb.NewClient(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			os.Getenv("AWS_REGION"),
		)
		if err != nil {
			return nil, nil, err
		}
		tableName := os.Getenv("STOREFRONT_TABLE")
		if tableName == "" {
			return nil, nil, fmt.Errorf("STOREFRONT_TABLE is not set")
		}
		customers, err := ddb.NewRepository[models.Customer](client, tableName)
		if err != nil {
			return nil, nil, err
		}
		orders, err := ddb.NewRepository[models.Order](client, tableName)
		if err != nil {
			return nil, nil, err
		}
		return customers, orders, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q (want memory or dynamodb)", backend)
}
