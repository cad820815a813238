// Command tests runs ring-churn scenarios against an in-process Ring while
// sampling its composition, the same role the sibling client's test
// runner plays against a live memcache deployment behind toxiproxy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pior/ringhash"
	"github.com/pior/ringhash/tests/metrics"
	"github.com/pior/ringhash/tests/scenarios"
	"github.com/pior/ringhash/tests/tui"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	scenarioName := flag.String("scenario", "", "scenario to run (default: none, just idle sampling)")
	serverCount := flag.Int("servers", 8, "number of servers to seed the ring with")
	metricsInterval := flag.Duration("metrics-interval", 2*time.Second, "ring sampling interval")
	noTUI := flag.Bool("no-tui", false, "disable the termui dashboard")
	listScenarios := flag.Bool("list", false, "list available scenarios and exit")
	flag.Parse()

	if *listScenarios {
		for _, name := range scenarios.List() {
			fmt.Println(name)
		}
		return
	}

	ring, err := ringhash.New(ringhash.Config{PointsPerServer: 160})
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating ring: %v\n", err)
		os.Exit(1)
	}

	list := ring.NewServerList()
	for i := 0; i < *serverCount; i++ {
		list.AddWithoutHandle(fmt.Sprintf("server-%d", i), 1, ringhash.Alive)
	}
	ring.ExchangeServerList(list)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(ring, *metricsInterval)
	for _, c := range collector.Collectors() {
		registry.MustRegister(c)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go collector.Start(ctx)

	var scenarioErrCh chan error
	if *scenarioName != "" {
		s, err := scenarios.Get(*scenarioName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		scenarioErrCh = make(chan error, 1)
		go func() {
			scenarioErrCh <- s.Run(ctx, ring, collector)
		}()
	}

	if *noTUI {
		runHeadless(ctx, collector, *metricsInterval)
		return
	}

	dashboard := tui.NewDashboard(ring, collector)
	if err := dashboard.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "initializing dashboard: %v\n", err)
		os.Exit(1)
	}
	if *scenarioName != "" {
		s, _ := scenarios.Get(*scenarioName)
		dashboard.SetScenario(s.Name(), s.Description())
	}
	dashboard.Run(ctx.Done())

	if scenarioErrCh != nil {
		if err := <-scenarioErrCh; err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "scenario error: %v\n", err)
		}
	}
}

func runHeadless(ctx context.Context, collector *metrics.Collector, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, ok := collector.Latest()
			if !ok {
				continue
			}
			fmt.Printf("[%s] servers=%d alive=%d down=%d dead=%d points=%d\n",
				snap.Timestamp.Format("15:04:05"),
				snap.Stats.TotalServers, snap.Stats.AliveServers,
				snap.Stats.DownServers, snap.Stats.DeadServers, snap.Stats.TotalPoints)
		}
	}
}
