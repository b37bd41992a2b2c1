// Command modelsync is a CLI harness for the modelsync package.
// It demonstrates the CLI integration and provides a working example.
//
// Configuration is loaded from a YAML config file (default:
// <user config dir>/modelsync/config.yaml, override with MODELSYNC_CONFIG)
// plus environment overrides; see LoadConfig. The auth token is read from
// MODELSYNC_AUTH_TOKEN on every attempt.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	modelsync "github.com/smirkiiiv8535/modelsync"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments or config.
	ExitInvalidArgs = 2

	// ExitModelNotFound indicates the model does not exist on the server.
	ExitModelNotFound = 3

	// ExitNotSynced indicates no metadata is persisted for the model.
	ExitNotSynced = 4

	// ExitNetworkError indicates a transport-level failure.
	ExitNetworkError = 5

	// ExitAuthError indicates the auth token could not be retrieved.
	ExitAuthError = 6

	// ExitStorageError indicates the metadata store failed.
	ExitStorageError = 7
)

func main() {
	configPath := os.Getenv("MODELSYNC_CONFIG")
	if configPath == "" {
		var err error
		configPath, err = modelsync.DefaultConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot determine config path: %v\n", err)
			os.Exit(ExitInvalidArgs)
		}
	}

	cfg, err := modelsync.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInvalidArgs)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	tokens := modelsync.EnvTokenProvider("MODELSYNC_AUTH_TOKEN")

	cmd := modelsync.NewCommand(cfg, tokens, modelsync.WithLogger(logger))
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, modelsync.ErrModelNotFound):
		return ExitModelNotFound
	case errors.Is(err, modelsync.ErrNotSynced):
		return ExitNotSynced
	case errors.Is(err, modelsync.ErrNoLocalModel):
		return ExitNotSynced
	case errors.Is(err, modelsync.ErrNetworkError):
		return ExitNetworkError
	case errors.Is(err, modelsync.ErrAuthToken):
		return ExitAuthError
	case errors.Is(err, modelsync.ErrStorageError):
		return ExitStorageError
	case errors.Is(err, modelsync.ErrInvalidName):
		return ExitInvalidArgs
	default:
		return ExitGeneralError
	}
}
