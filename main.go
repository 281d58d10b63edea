package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Icerzack/keyrace/cmd"
	"github.com/Icerzack/keyrace/internal/rest"
	"github.com/Icerzack/keyrace/internal/utils"
)

func main() {
	app := &cli.Command{
		Name:  "keyrace",
		Usage: "multiplayer typing race server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("KEYRACE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "optional file with environment overrides",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	bootstrap, _ := zap.NewDevelopment()
	defer bootstrap.Sync()

	if err := godotenv.Load(command.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	config, err := cmd.ParseConfig(command.String("config"), bootstrap)
	if err != nil {
		return err
	}

	logger, err := utils.NewCustomLogger(config.Apps.LogLevel, config.Apps.LogToFiles)
	if err != nil {
		return err
	}
	defer logger.Sync()

	restApp := rest.NewRest(config.RestConfig(logger))

	appsManager := cmd.NewAppsManager(logger)
	appsManager.Register(cmd.RestApp, restApp)
	appsManager.RunAll()
	appsManager.WaitForShutdown(ctx)
	return nil
}
