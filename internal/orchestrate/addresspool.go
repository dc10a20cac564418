package orchestrate

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/quorumstor/replictl/internal/api"
)

// NetworkAPI is the slice of the cluster control API the address pool needs.
type NetworkAPI interface {
	ListNetworkStatuses(ctx context.Context) ([]api.NodeNetworkStatus, error)
}

// AddressPool owns the destination addresses eligible to receive new
// relationships and a per-address load counter. Selection is greedy
// least-loaded: under equal starting loads it degenerates to round-robin,
// after skewed starting loads it drains the least-loaded addresses until the
// loads re-converge. Load counters live only for the duration of one run.
type AddressPool struct {
	addrs []string
	load  map[string]int
}

// NewAddressPool builds a pool for the named network on the destination
// cluster. With explicit addresses, each one is validated by membership in
// the network's full address set; any address not found is a ConfigError
// enumerating all offenders. Without explicit addresses, every address
// reported for the network across all nodes is used. An empty result is a
// ConfigError. A single-address pool is legal but gets a WARN advisory
// since no balancing is possible.
func NewAddressPool(ctx context.Context, client NetworkAPI, networkName string, explicit []string) (*AddressPool, error) {
	available, err := discoverAddresses(ctx, client, networkName)
	if err != nil {
		return nil, err
	}

	addrs := available
	if len(explicit) > 0 {
		if err := validateAddresses(explicit, available); err != nil {
			return nil, err
		}
		slog.Info("validated destination addresses", "count", len(explicit), "addresses", explicit)
		addrs = explicit
	}

	if len(addrs) == 1 {
		slog.Warn("only one destination address configured; replications may be unbalanced",
			"address", addrs[0])
	}

	pool := &AddressPool{
		addrs: addrs,
		load:  make(map[string]int, len(addrs)),
	}
	for _, a := range addrs {
		pool.load[a] = 0
	}
	return pool, nil
}

// discoverAddresses aggregates the network's addresses across every
// reporting node. Nodes reporting zero addresses for the network contribute
// nothing; that is not an error. An unknown network name is a ConfigError
// listing the names that do exist.
func discoverAddresses(ctx context.Context, client NetworkAPI, networkName string) ([]string, error) {
	nodes, err := client.ListNetworkStatuses(ctx)
	if err != nil {
		return nil, err
	}

	var addrs []string
	known := make(map[string]bool)
	found := false
	for _, node := range nodes {
		for _, net := range node.Networks {
			known[net.Name] = true
			if net.Name == networkName {
				found = true
				addrs = append(addrs, net.Addresses...)
			}
		}
	}

	if !found {
		names := make([]string, 0, len(known))
		for name := range known {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, configErrorf("network %q not found on destination cluster (available: %s)",
			networkName, strings.Join(names, ", "))
	}
	if len(addrs) == 0 {
		return nil, configErrorf("network %q has no addresses available", networkName)
	}
	return addrs, nil
}

// validateAddresses checks user-supplied addresses against the cluster's
// set, reporting every invalid address at once.
func validateAddresses(explicit, available []string) error {
	member := make(map[string]bool, len(available))
	for _, a := range available {
		member[a] = true
	}
	var invalid []string
	for _, a := range explicit {
		if !member[a] {
			invalid = append(invalid, a)
		}
	}
	if len(invalid) > 0 {
		return configErrorf("invalid destination addresses not found on cluster: %s",
			strings.Join(invalid, ", "))
	}
	return nil
}

// Next returns the address with the smallest current load, breaking ties by
// pool order, and increments its counter. After any sequence of selections
// the max-minus-min load spread never exceeds len(pool)-1.
func (p *AddressPool) Next() (string, error) {
	if len(p.addrs) == 0 {
		return "", configErrorf("no destination addresses available for load balancing")
	}
	min := p.addrs[0]
	for _, a := range p.addrs[1:] {
		if p.load[a] < p.load[min] {
			min = a
		}
	}
	p.load[min]++
	return min, nil
}

// Addresses returns the pool's addresses in stored order.
func (p *AddressPool) Addresses() []string {
	out := make([]string, len(p.addrs))
	copy(out, p.addrs)
	return out
}

// Loads returns a snapshot of the per-address counters for display.
func (p *AddressPool) Loads() map[string]int {
	out := make(map[string]int, len(p.load))
	for a, n := range p.load {
		out[a] = n
	}
	return out
}

// Size returns the number of addresses in the pool.
func (p *AddressPool) Size() int {
	return len(p.addrs)
}
