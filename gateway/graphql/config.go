/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graphql

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls the gateway HTTP server and resolver defaults.
type Config struct {
	// Addr is the listen address, for example ":8080".
	Addr string `yaml:"addr"`

	// GraphQLPath is the POST endpoint path for queries.
	GraphQLPath string `yaml:"graphqlPath"`

	// EnablePlayground serves the GraphQL playground at the root path.
	EnablePlayground bool `yaml:"enablePlayground"`

	// RequireAuth makes credential validation a precondition for every
	// request. A CredentialValidator must be configured when set.
	RequireAuth bool `yaml:"requireAuth"`

	// FailRequestFields lists root fields where a StoreUnavailable error
	// escalates to failing the whole request instead of staying
	// field-scoped.
	FailRequestFields []string `yaml:"failRequestFields"`

	// DefaultPageSize applies when a paging or limit argument is omitted
	// or non-positive.
	DefaultPageSize int `yaml:"defaultPageSize"`

	// MaxPageSize clamps caller-supplied page sizes and limits.
	MaxPageSize int `yaml:"maxPageSize"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `yaml:"shutdownTimeoutSeconds"`
}

// ShutdownTimeout returns the graceful-shutdown bound as a duration.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DefaultConfig returns the gateway defaults.
func DefaultConfig() Config {
	return Config{
		Addr:                   ":8080",
		GraphQLPath:            "/graphql",
		EnablePlayground:       true,
		DefaultPageSize:        10,
		MaxPageSize:            100,
		ShutdownTimeoutSeconds: 10,
	}
}

// LoadConfig reads a YAML config file over the defaults. Zero-valued
// numeric fields fall back to their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.GraphQLPath == "" {
		cfg.GraphQLPath = defaults.GraphQLPath
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaults.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = defaults.MaxPageSize
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		cfg.ShutdownTimeoutSeconds = defaults.ShutdownTimeoutSeconds
	}
	return cfg, nil
}

// failsRequest reports whether a StoreUnavailable error on the named root
// field should fail the whole request.
func (c Config) failsRequest(rootField string) bool {
	for _, f := range c.FailRequestFields {
		if f == rootField {
			return true
		}
	}
	return false
}
