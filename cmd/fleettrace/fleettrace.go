package main

import (
	"os"
	"time"

	"github.com/fleettrace/fleettrace/pkg/generate"
	"github.com/fleettrace/fleettrace/pkg/reconstruct/batch"
	"github.com/fleettrace/fleettrace/pkg/stats"
	"github.com/fleettrace/fleettrace/pkg/systems/manager"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("FLEETTRACE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("FLEETTRACE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "fleettrace",
		Description: "Reconstructs carshare fleet activity from periodic availability snapshots",

		Commands: []*cli.Command{
			batch.RegisterCLI(),
			batch.RegisterMergeCLI(),
			generate.RegisterCLI(),
			generate.RegisterVerifyCLI(),
			stats.RegisterCLI(),
			manager.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
