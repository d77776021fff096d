package fragments

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
)

// Message descriptions carried by the generated system connections.
const (
	DataRequestMsgType    = "dfmessages::DataRequest"
	DataRequestMsgModule  = "DataRequestNQ"
	FragmentMsgType       = "std::unique_ptr<dfmessages::Fragment>"
	FragmentMsgModule     = "FragmentNQ"
	aggregatorFragmentsEP = "fragments"
)

// Aggregator names the application that requests and collects fragments.
type Aggregator struct {
	// App is the aggregating application.
	App string `mapstructure:"app"`
	// RequestModule is the module whose data_request_<queue> slots send the
	// data requests.
	RequestModule string `mapstructure:"request_module"`
	// FragmentInput is the `module.slot` that receives every fragment.
	FragmentInput string `mapstructure:"fragment_input"`
}

// DefaultAggregator returns the conventional dataflow aggregator.
func DefaultAggregator() Aggregator {
	return Aggregator{
		App:           "dataflow",
		RequestModule: "trb",
		FragmentInput: "trb.data_fragment_input",
	}
}

// Route tells the aggregator which queue serves a GeoID.
type Route struct {
	GeoID     model.GeoID `json:"geoid"`
	App       string      `json:"app"`
	QueueName string      `json:"queue"`
}

// RequestEndpoint is the endpoint name that carries data requests for queue.
func RequestEndpoint(queue string) string { return "requests_" + queue }

// FragmentEndpoint is the producer endpoint name that emits fragments for queue.
func FragmentEndpoint(queue string) string { return "fragments_" + queue }

type pending struct {
	app string
	fp  *model.FragmentProducer
}

// Allocate assigns a queue name to every producer outside the aggregator
// that has none yet. Producers are visited sorted by GeoID and then app name.
// Two producers ending up with the same queue name fail with
// model.ErrDuplicateKey.
func Allocate(ctx context.Context, sys *model.System, agg Aggregator) ([]Route, error) {
	logger := ctxlog.FromContext(ctx)

	var all []pending
	for _, app := range sys.Apps() {
		if app.Name == agg.App {
			continue
		}
		for _, fp := range app.Graph.FragmentProducers() {
			all = append(all, pending{app: app.Name, fp: fp})
		}
	}
	slices.SortFunc(all, func(a, b pending) int {
		if c := model.CompareGeoID(a.fp.GeoID, b.fp.GeoID); c != 0 {
			return c
		}
		return cmp.Compare(a.app, b.app)
	})

	routes := make([]Route, 0, len(all))
	owners := make(map[string]model.GeoID, len(all))
	assigned := 0
	for _, p := range all {
		if p.fp.QueueName == "" {
			p.fp.QueueName = fmt.Sprintf("%s_%s", p.app, p.fp.GeoID)
			assigned++
		}
		if other, dup := owners[p.fp.QueueName]; dup {
			return nil, fmt.Errorf("%w: fragment queue %q used by GeoIDs %s and %s",
				model.ErrDuplicateKey, p.fp.QueueName, other, p.fp.GeoID)
		}
		owners[p.fp.QueueName] = p.fp.GeoID
		routes = append(routes, Route{GeoID: p.fp.GeoID, App: p.app, QueueName: p.fp.QueueName})
	}

	logger.Debug("Fragment queues allocated.", "producers", len(routes), "assigned", assigned)
	return routes, nil
}

// Connect allocates queue names and wires every producer to the aggregator.
// It returns the producer routes sorted by GeoID. With no producers nothing
// is required of the aggregator; otherwise a missing aggregator app fails
// with model.ErrRequiredConnectionMissing.
func Connect(ctx context.Context, sys *model.System, agg Aggregator) ([]Route, error) {
	logger := ctxlog.FromContext(ctx)

	routes, err := Allocate(ctx, sys, agg)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		logger.Debug("No fragment producers to connect.")
		return routes, nil
	}

	aggApp, ok := sys.App(agg.App)
	if !ok {
		return nil, fmt.Errorf("%w: aggregator app %q is absent but %d fragment producer(s) need it",
			model.ErrRequiredConnectionMissing, agg.App, len(routes))
	}

	if err := aggApp.Graph.DeclareEndpoint(model.Endpoint{
		ExternalName: aggregatorFragmentsEP,
		Internal:     agg.FragmentInput,
		Direction:    model.In,
	}); err != nil {
		return nil, fmt.Errorf("aggregator %q: %w", agg.App, err)
	}

	added := 0
	for _, r := range routes {
		n, err := connectOne(sys, aggApp, agg, r)
		if err != nil {
			return nil, fmt.Errorf("fragment producer %s in app %q: %w", r.GeoID, r.App, err)
		}
		added += n
	}

	logger.Info("Fragment producers connected.", "aggregator", agg.App, "producers", len(routes), "new_connections", added)
	return routes, nil
}

func connectOne(sys *model.System, aggApp *model.App, agg Aggregator, r Route) (int, error) {
	app, _ := sys.App(r.App)
	fp, _ := app.Graph.FragmentProducer(r.GeoID)

	reqEP := RequestEndpoint(r.QueueName)
	fragEP := FragmentEndpoint(r.QueueName)

	endpoints := []struct {
		graph *model.ModuleGraph
		ep    model.Endpoint
	}{
		{app.Graph, model.Endpoint{ExternalName: reqEP, Internal: fp.RequestsIn, Direction: model.In}},
		{app.Graph, model.Endpoint{ExternalName: fragEP, Internal: fp.FragmentsOut, Direction: model.Out}},
		{aggApp.Graph, model.Endpoint{
			ExternalName: reqEP,
			Internal:     fmt.Sprintf("%s.data_request_%s", agg.RequestModule, r.QueueName),
			Direction:    model.Out,
		}},
	}
	for _, e := range endpoints {
		if err := e.graph.DeclareEndpoint(e.ep); err != nil {
			return 0, err
		}
	}

	conns := []struct {
		upstream string
		nc       model.NetworkConnection
	}{
		{
			upstream: agg.App + "." + reqEP,
			nc: model.Sender{
				MessageInfo:   model.MessageInfo{MsgType: DataRequestMsgType, MsgModuleName: DataRequestMsgModule},
				Receiver:      r.App + "." + reqEP,
				NonDependency: true,
			},
		},
		{
			upstream: r.App + "." + fragEP,
			nc: model.Sender{
				MessageInfo: model.MessageInfo{MsgType: FragmentMsgType, MsgModuleName: FragmentMsgModule},
				Receiver:    agg.App + "." + aggregatorFragmentsEP,
			},
		},
	}
	added := 0
	for _, c := range conns {
		if _, exists := sys.Connection(c.upstream); exists {
			continue
		}
		if err := sys.Connect(c.upstream, c.nc); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
