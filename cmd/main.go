package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"mylar2kapowarr/internal/services"
	"mylar2kapowarr/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	source := services.NewMylarService(config.Mylar.URL, config.Mylar.APIKey)
	target := services.NewKapowarrService(config.Kapowarr.URL, config.Kapowarr.APIKey)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Source:     source,
		Target:     target,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "mylar2kapowarr",
		Usage:    "Migrate a comic library from Mylar3 to Kapowarr",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
