package manager

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// SystemCities describes one system's supported cities, loaded from the
// yaml registry files under data/systems/.
type SystemCities struct {
	Identifier string `yaml:"identifier"`
	Provider   struct {
		Name    string `yaml:"name"`
		Website string `yaml:"website"`
	} `yaml:"provider"`
	Cities []City `yaml:"cities"`
}

type City struct {
	Name    string `yaml:"name"`
	Display string `yaml:"display"`

	// Electric is "all", "some" or empty.
	Electric string `yaml:"electric"`

	NumberFirstAddress bool `yaml:"number_first_address"`

	// IntervalMinutes is the system's sampling cadence in this city.
	IntervalMinutes int `yaml:"interval_minutes"`
}

func GetRegisteredCities(directory string) []SystemCities {
	var registered []SystemCities

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading city registry file")

			cityYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(cityYaml))

			for {
				var systemCities SystemCities
				if decoder.Decode(&systemCities) != nil {
					break
				}

				registered = append(registered, systemCities)
			}

			return nil
		})
	if err != nil {
		log.Error().Err(err).Msg("Failed to load city registry directory")
	}

	return registered
}
