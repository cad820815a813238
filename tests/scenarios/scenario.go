// Package scenarios holds ring-churn scenarios for the load harness: each
// one mutates a running Ring's membership or aliveness on a timer and
// reports what it did, the way the sibling client harness's scenarios
// drive toxiproxy proxies up and down. Here there is no network to
// disrupt, so a scenario acts directly on the Ring instead.
package scenarios

import (
	"context"
	"fmt"

	"github.com/pior/ringhash"
	"github.com/pior/ringhash/tests/metrics"
)

// Scenario is a named ring-churn sequence that runs until ctx is done or
// it decides it's finished.
type Scenario interface {
	Name() string
	Description() string
	Run(ctx context.Context, ring *ringhash.Ring, collector *metrics.Collector) error
}

var registry = make(map[string]Scenario)

// Register adds a scenario to the registry. Call from an init() in the
// file defining the scenario.
func Register(s Scenario) {
	registry[s.Name()] = s
}

// Get retrieves a scenario by name.
func Get(name string) (Scenario, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("scenario not found: %s", name)
	}
	return s, nil
}

// List returns all registered scenario names.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	Register(&SingleServerDownScenario{})
	Register(&MajorityDownScenario{})
	Register(&FlappingServerScenario{})
	Register(&MembershipChurnScenario{})
}
