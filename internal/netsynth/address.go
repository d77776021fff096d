package netsynth

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/slotid"
)

// DefaultBasePort is the first port handed out by AllocateAddresses.
const DefaultBasePort = 12345

// Options configures address allocation.
type Options struct {
	BasePort int
}

// DefaultOptions returns the allocation defaults.
func DefaultOptions() Options {
	return Options{BasePort: DefaultBasePort}
}

// Address formats a transport address for a host placeholder and port.
func Address(hostAlias string, port int) string {
	return fmt.Sprintf("tcp://{%s}:%d", hostAlias, port)
}

// portOf extracts the trailing port of an address, if there is one.
func portOf(address string) (int, bool) {
	i := strings.LastIndexByte(address, ':')
	if i < 0 || i == len(address)-1 {
		return 0, false
	}
	port, err := strconv.Atoi(address[i+1:])
	if err != nil {
		return 0, false
	}
	return port, true
}

// AllocateAddresses assigns exactly one address to every system connection
// that leaves its upstream application, keyed by upstream endpoint
// reference. Connections whose ends all live in one application get none. Explicit addresses from
// System.NetworkEndpoints are kept; the rest get
// `tcp://{host_<upstreamApp>}:<port>` from a counter starting at
// opts.BasePort that skips every port an explicit address already uses.
func AllocateAddresses(ctx context.Context, sys *model.System, opts Options) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.BasePort <= 0 {
		opts.BasePort = DefaultBasePort
	}

	conns := sys.Connections()
	upstreams := make([]string, 0, len(conns))
	for _, nc := range conns {
		up, err := slotid.Parse(nc.Upstream)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrUnknownEndpoint, err)
		}
		crosses, err := crossesApps(up, nc.Connection)
		if err != nil {
			return nil, err
		}
		if crosses {
			upstreams = append(upstreams, nc.Upstream)
		}
	}
	slices.Sort(upstreams)

	used := make(map[int]bool)
	for _, up := range upstreams {
		if addr, ok := sys.NetworkEndpoints[up]; ok {
			if port, ok := portOf(addr); ok {
				used[port] = true
			}
		}
	}

	out := make(map[string]string, len(upstreams))
	next := opts.BasePort
	explicit := 0
	for _, up := range upstreams {
		if addr, ok := sys.NetworkEndpoints[up]; ok && addr != "" {
			out[up] = addr
			explicit++
			continue
		}
		ref, err := slotid.Parse(up)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrUnknownEndpoint, err)
		}
		app, ok := sys.App(ref.Owner)
		if !ok {
			return nil, fmt.Errorf("%w: connection %s comes from unknown app %q", model.ErrUnknownEndpoint, up, ref.Owner)
		}
		for used[next] {
			next++
		}
		if next > 65535 {
			return nil, fmt.Errorf("port range exhausted while allocating address for %s", up)
		}
		out[up] = Address(app.HostAlias(), next)
		used[next] = true
		next++
	}

	logger.Debug("Network addresses allocated.", "connections", len(out), "explicit", explicit)
	return out, nil
}
