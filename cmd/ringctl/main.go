// Command ringctl builds a ring from a comma-separated server list and
// answers interactive routing queries against it, the CLI counterpart of
// the sibling client's memcache-cli.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pior/ringhash"
)

func main() {
	serversFlag := flag.String("servers", "", "comma-separated server[:weight] list, e.g. 10.0.0.1:11211:1,10.0.0.2:11211:2,c")
	pointsPerServer := flag.Uint("points-per-server", 160, "ring points for a server of median weight")
	defaultPort := flag.Uint("default-port", 11211, "port assumed for a bare IPv4 address with no :port")
	replicas := flag.Int("replicas", 1, "number of candidate servers to print per key")
	flag.Parse()

	if *serversFlag == "" {
		fmt.Println("ringctl: build a consistent-hash ring and query routes")
		fmt.Println("Usage: ringctl -servers 10.0.0.1:11211:1,10.0.0.2:11211:2,c")
		fmt.Println("Commands once started: get <key>, down <name>, up <name>, list, quit")
		os.Exit(1)
	}

	ring, err := ringhash.New(ringhash.Config{PointsPerServer: uint32(*pointsPerServer)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating ring: %v\n", err)
		os.Exit(1)
	}

	list := ring.NewServerList()
	for _, spec := range strings.Split(*serversFlag, ",") {
		addr, weight := parseServerSpec(spec)

		var result ringhash.AddResult
		if handle, ok := ringhash.ParseIPv4WithPort(addr, uint32(*defaultPort)); ok {
			result = list.Add(addr, weight, ringhash.Alive, handle)
		} else {
			result = list.AddWithoutHandle(addr, weight, ringhash.Alive)
		}
		if result != ringhash.AddOK {
			fmt.Fprintf(os.Stderr, "duplicate server: %s\n", addr)
			os.Exit(1)
		}
	}
	ring.ExchangeServerList(list)

	fmt.Printf("ring built: %d servers, %d total points\n", ring.Stats().TotalServers, ring.Stats().TotalPoints)
	fmt.Println("commands: get <key>, down <name>, up <name>, list, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "get":
			if len(fields) != 2 {
				fmt.Println("usage: get <key>")
				continue
			}
			handleGet(ring, fields[1], *replicas)
		case "down":
			if len(fields) != 2 {
				fmt.Println("usage: down <name>")
				continue
			}
			handleAlive(ring, fields[1], ringhash.Down)
		case "up":
			if len(fields) != 2 {
				fmt.Println("usage: up <name>")
				continue
			}
			handleAlive(ring, fields[1], ringhash.Default)
		case "list":
			handleList(ring)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

// parseServerSpec splits "addr:weight" on the last colon, since addr itself
// may be an "ip:port" pair. If the text after the last colon doesn't parse
// as a positive weight, the whole string is treated as addr with weight 1.
func parseServerSpec(spec string) (addr string, weight uint32) {
	i := strings.LastIndex(spec, ":")
	if i < 0 {
		return spec, 1
	}
	w, err := strconv.ParseUint(spec[i+1:], 10, 32)
	if err != nil || w == 0 {
		return spec, 1
	}
	return spec[:i], uint32(w)
}

func handleGet(ring *ringhash.Ring, key string, n int) {
	servers := ring.Get(key, n)
	if len(servers) == 0 {
		fmt.Println("no alive servers")
		return
	}
	names := make([]string, len(servers))
	for i, s := range servers {
		names[i] = s.Name()
	}
	fmt.Println(strings.Join(names, " -> "))
}

func handleAlive(ring *ringhash.Ring, name string, alive ringhash.Aliveness) {
	batch := ringhash.NewAliveByName()
	batch.Add(name, alive)
	ring.RefreshAliveByName(batch)
	fmt.Printf("%s updated\n", name)
}

func handleList(ring *ringhash.Ring) {
	for _, item := range ring.Servers() {
		fmt.Printf("%-20s weight=%-4d configured=%-8s effective=%-8s points=%d\n",
			item.Name(), item.Weight(), item.AliveAsConfigured(), item.Alive(), item.UsedPoints())
	}
}
