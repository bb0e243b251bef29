package generate

import (
	"errors"
	"fmt"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems/manager"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Regenerate snapshot files from a reconstructed dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dataset",
				Usage:    "Dataset json produced by process",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Destination directory, tar or zip archive",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			result, err := fleet.LoadDatasetResult(c.String("dataset"))
			if err != nil {
				return err
			}

			system, err := manager.Lookup(result.Metadata.System)
			if err != nil {
				return err
			}

			frames, err := BuildFrames(system, result)
			if err != nil {
				return err
			}

			return WriteFrames(frames, result.Metadata.City, c.String("output"))
		},
	}
}

func RegisterVerifyCLI() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check that a dataset survives a regenerate and reconstruct round trip",
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

			system, err := manager.Lookup(result.Metadata.System)
			if err != nil {
				return err
			}

			differences, err := Verify(system, result)
			if err != nil {
				return err
			}

			if len(differences) > 0 {
				for _, difference := range differences {
					fmt.Println(difference)
				}

				return errors.New("dataset did not survive the round trip")
			}

			fmt.Println("round trip OK")

			return nil
		},
	}
}
