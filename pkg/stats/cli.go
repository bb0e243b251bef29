package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/reconstruct"
	"github.com/fleettrace/fleettrace/pkg/systems/manager"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Statistics over a reconstructed dataset",
		Subcommands: []*cli.Command{
			{
				Name:  "summary",
				Usage: "Fleet-level counts and distributions as json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dataset",
						Usage:    "Dataset json produced by process",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					result, err := fleet.LoadDatasetResult(c.String("dataset"))
					if err != nil {
						return err
					}

					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")

					return encoder.Encode(Summarise(result))
				},
			},
			{
				Name:  "trips",
				Usage: "Export every finished trip as csv",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dataset",
						Usage:    "Dataset json produced by process",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "File to write the csv to; - for stdout",
						Value: "-",
					},
				},
				Action: func(c *cli.Context) error {
					result, err := fleet.LoadDatasetResult(c.String("dataset"))
					if err != nil {
						return err
					}

					if c.String("output") == "-" {
						return WriteTripsCSV(result, os.Stdout)
					}

					file, err := os.Create(c.String("output"))
					if err != nil {
						return err
					}
					defer file.Close()

					return WriteTripsCSV(result, file)
				},
			},
			{
				Name:      "nearest",
				Usage:     "Closest vehicles to a point in one snapshot file",
				ArgsUsage: "<snapshot file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "system",
						Usage:    "Carshare system identifier",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lat",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lng",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of vehicles to list",
						Value: 5,
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one snapshot file, got %d", c.NArg())
					}

					system, err := manager.Lookup(c.String("system"))
					if err != nil {
						return err
					}

					payload, err := os.ReadFile(c.Args().First())
					if err != nil {
						return err
					}

					snapshot, err := reconstruct.ParseSnapshot(system, time.Now(), payload)
					if err != nil {
						return err
					}

					point := fleet.Coordinate{Lat: c.Float64("lat"), Lng: c.Float64("lng")}

					for _, entry := range NearestVehicles(snapshot, point, c.Int("limit")) {
						fmt.Printf("%s  %.3f km  (%f, %f)\n",
							entry.Vehicle.VIN, entry.Distance, entry.Vehicle.Position.Lat, entry.Vehicle.Position.Lng)
					}

					return nil
				},
			},
		},
	}
}
