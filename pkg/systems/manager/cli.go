package manager

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "systems",
		Usage: "Supported carshare systems",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List registered systems and their cities",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "registry",
						Usage: "Directory containing the city registry yaml files",
						Value: "data/systems/",
					},
				},
				Action: func(c *cli.Context) error {
					cities := GetRegisteredCities(c.String("registry"))

					for _, system := range RegisteredSystems() {
						fmt.Println(system.Name())

						for _, systemCities := range cities {
							if systemCities.Identifier != system.Name() {
								continue
							}

							for _, city := range systemCities.Cities {
								display := city.Display
								if display == "" {
									display = city.Name
								}
								fmt.Printf("  %s (%s)\n", city.Name, display)
							}
						}
					}

					return nil
				},
			},
		},
	}
}
