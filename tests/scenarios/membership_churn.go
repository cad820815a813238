package scenarios

import (
	"context"
	"fmt"
	"time"

	"github.com/pior/ringhash"
	"github.com/pior/ringhash/tests/metrics"
)

// MembershipChurnScenario repeatedly adds a throwaway server to the ring
// and removes it a few seconds later, exercising
// Ring.ExchangeServerList's steal path under concurrent lookups.
type MembershipChurnScenario struct{}

func (s *MembershipChurnScenario) Name() string { return "membership-churn" }
func (s *MembershipChurnScenario) Description() string {
	return "adds a transient server for 8s, removes it for 2s, 6 cycles"
}

func (s *MembershipChurnScenario) Run(ctx context.Context, ring *ringhash.Ring, collector *metrics.Collector) error {
	for i := 0; i < 6; i++ {
		transient := fmt.Sprintf("churn-%d", i)

		fmt.Printf("[Scenario] adding %s\n", transient)
		list := ring.NewServerList()
		for _, item := range ring.Servers() {
			list.AddWithoutHandle(item.Name(), item.Weight(), item.AliveAsConfigured())
		}
		list.AddWithoutHandle(transient, 1, ringhash.Alive)
		ring.ExchangeServerList(list)

		if err := sleep(ctx, 8*time.Second); err != nil {
			return err
		}

		fmt.Printf("[Scenario] removing %s\n", transient)
		list = ring.NewServerList()
		for _, item := range ring.Servers() {
			if item.Name() == transient {
				continue
			}
			list.AddWithoutHandle(item.Name(), item.Weight(), item.AliveAsConfigured())
		}
		ring.ExchangeServerList(list)

		if err := sleep(ctx, 2*time.Second); err != nil {
			return err
		}
	}
	return nil
}
