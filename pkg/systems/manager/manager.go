package manager

import (
	"fmt"

	"github.com/fleettrace/fleettrace/pkg/systems"
	"github.com/fleettrace/fleettrace/pkg/systems/car2go"
	"github.com/fleettrace/fleettrace/pkg/systems/communauto"
	"github.com/fleettrace/fleettrace/pkg/systems/drivenow"
	"github.com/fleettrace/fleettrace/pkg/systems/enjoy"
	"github.com/fleettrace/fleettrace/pkg/systems/evo"
	"github.com/fleettrace/fleettrace/pkg/systems/multicity"
	"github.com/fleettrace/fleettrace/pkg/systems/sharengo"
	"github.com/fleettrace/fleettrace/pkg/systems/translink"
)

// Lookup resolves a system identifier to its adapter. An unknown identifier
// is a configuration error and has to stop a run before any processing.
func Lookup(identifier string) (systems.System, error) {
	for _, system := range RegisteredSystems() {
		if system.Name() == identifier {
			return system, nil
		}
	}

	return nil, fmt.Errorf("unsupported system %s", identifier)
}

func RegisteredSystems() []systems.System {
	return []systems.System{
		car2go.System{},
		communauto.System{},
		drivenow.System{},
		enjoy.System{},
		evo.System{},
		multicity.System{},
		sharengo.System{},
		translink.System{},
	}
}
