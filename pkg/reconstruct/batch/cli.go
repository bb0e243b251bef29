package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/snapshots"
	"github.com/fleettrace/fleettrace/pkg/systems/manager"
	"github.com/urfave/cli/v2"
)

const cliTimeLayout = "2006-01-02T15:04"

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "Reconstruct trips and parkings from archived fleet snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "system",
				Usage:    "Carshare system identifier (car2go, drivenow, ...)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "city",
				Usage:    "City name as used in the snapshot file names",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Snapshot directory, tar or zip archive",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Usage:    "First cycle to process, e.g. 2015-06-19T09:00",
				Layout:   cliTimeLayout,
				Required: true,
			},
			&cli.TimestampFlag{
				Name:   "end",
				Usage:  "Last cycle to process; defaults to the last available snapshot",
				Layout: cliTimeLayout,
			},
			&cli.DurationFlag{
				Name:  "step",
				Usage: "Sampling interval between cycles",
				Value: time.Minute,
			},
			&cli.IntFlag{
				Name:  "max-skip",
				Usage: "Consecutive missing cycles to tolerate before stopping; -1 for unlimited",
				Value: 3,
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "File to write the dataset to; - for stdout",
				Value: "-",
			},
		},
		Action: func(c *cli.Context) error {
			system, err := manager.Lookup(c.String("system"))
			if err != nil {
				return err
			}

			source, err := snapshots.Open(c.String("city"), c.String("source"))
			if err != nil {
				return err
			}
			defer source.Close()

			opts := Options{
				City:    c.String("city"),
				Start:   *c.Timestamp("start"),
				Step:    c.Duration("step"),
				MaxSkip: c.Int("max-skip"),
			}
			if end := c.Timestamp("end"); end != nil {
				opts.End = *end
			}

			result, err := Run(system, source, opts)
			if err != nil {
				return err
			}

			return writeDataset(result, c.String("output"))
		},
	}
}

func RegisterMergeCLI() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge datasets over adjacent time ranges into one",
		ArgsUsage: "<dataset.json> <dataset.json> [more...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "File to write the merged dataset to; - for stdout",
				Value: "-",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("merge needs at least two datasets, got %d", c.NArg())
			}

			merged, err := fleet.LoadDatasetResult(c.Args().Get(0))
			if err != nil {
				return err
			}

			for _, path := range c.Args().Slice()[1:] {
				next, err := fleet.LoadDatasetResult(path)
				if err != nil {
					return err
				}

				merged, err = Merge(merged, next)
				if err != nil {
					return err
				}
			}

			return writeDataset(merged, c.String("output"))
		},
	}
}

func writeDataset(result *fleet.DatasetResult, destination string) error {
	if destination == "-" {
		return result.WriteJSON(os.Stdout)
	}

	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	return result.WriteJSON(file)
}
