package scenarios

import (
	"context"
	"fmt"
	"time"

	"github.com/pior/ringhash"
	"github.com/pior/ringhash/tests/metrics"
)

// SingleServerDownScenario marks one server Down for a while, then clears
// it, mirroring the sibling client harness's single-node-failure scenario
// but acting on Ring aliveness instead of a proxy.
type SingleServerDownScenario struct{}

func (s *SingleServerDownScenario) Name() string { return "single-server-down" }
func (s *SingleServerDownScenario) Description() string {
	return "one server marked Down for 15s, then restored"
}

func (s *SingleServerDownScenario) Run(ctx context.Context, ring *ringhash.Ring, collector *metrics.Collector) error {
	items := ring.Stats()
	if items.TotalServers == 0 {
		return fmt.Errorf("ring has no servers")
	}

	target := firstServerName(ring)
	fmt.Printf("[Scenario] marking %s Down\n", target)
	setAlive(ring, collector, target, ringhash.Down)

	if err := sleep(ctx, 15*time.Second); err != nil {
		return err
	}

	fmt.Printf("[Scenario] restoring %s\n", target)
	setAlive(ring, collector, target, ringhash.Default)

	return sleep(ctx, 5*time.Second)
}

// MajorityDownScenario marks most servers Down at once to simulate a
// correlated outage, then restores them.
type MajorityDownScenario struct{}

func (s *MajorityDownScenario) Name() string { return "majority-down" }
func (s *MajorityDownScenario) Description() string {
	return "more than half the servers marked Down for 10s"
}

func (s *MajorityDownScenario) Run(ctx context.Context, ring *ringhash.Ring, collector *metrics.Collector) error {
	names := serverNames(ring)
	if len(names) == 0 {
		return fmt.Errorf("ring has no servers")
	}

	majority := names[:len(names)/2+1]
	fmt.Printf("[Scenario] marking %d/%d servers Down\n", len(majority), len(names))
	for _, name := range majority {
		setAlive(ring, collector, name, ringhash.Down)
	}

	if err := sleep(ctx, 10*time.Second); err != nil {
		return err
	}

	fmt.Println("[Scenario] restoring all servers")
	for _, name := range majority {
		setAlive(ring, collector, name, ringhash.Default)
	}

	return sleep(ctx, 10*time.Second)
}

// FlappingServerScenario toggles one server Down/Alive repeatedly.
type FlappingServerScenario struct{}

func (s *FlappingServerScenario) Name() string { return "flapping-server" }
func (s *FlappingServerScenario) Description() string {
	return "one server flaps Down/Alive every 10s, 5 cycles"
}

func (s *FlappingServerScenario) Run(ctx context.Context, ring *ringhash.Ring, collector *metrics.Collector) error {
	target := firstServerName(ring)
	if target == "" {
		return fmt.Errorf("ring has no servers")
	}

	for i := 0; i < 5; i++ {
		fmt.Printf("[Scenario] %s down (cycle %d/5)\n", target, i+1)
		setAlive(ring, collector, target, ringhash.Down)
		if err := sleep(ctx, 10*time.Second); err != nil {
			return err
		}

		fmt.Printf("[Scenario] %s up\n", target)
		setAlive(ring, collector, target, ringhash.Default)
		if err := sleep(ctx, 10*time.Second); err != nil {
			return err
		}
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func firstServerName(ring *ringhash.Ring) string {
	names := serverNames(ring)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func serverNames(ring *ringhash.Ring) []string {
	items := ring.Servers()
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name()
	}
	return names
}

func setAlive(ring *ringhash.Ring, collector *metrics.Collector, name string, to ringhash.Aliveness) {
	effective := func() ringhash.Aliveness {
		for _, item := range ring.Servers() {
			if item.Name() == name {
				return item.Alive()
			}
		}
		return ringhash.Dead
	}
	from := effective()
	batch := ringhash.NewAliveByName()
	batch.Add(name, to)
	ring.RefreshAliveByName(batch)
	if collector != nil {
		collector.RecordAlivenessChange(name, from, effective())
	}
}
