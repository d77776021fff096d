package resolver

import (
	"context"
	"testing"

	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newGraph(t *testing.T, modules ...string) *model.ModuleGraph {
	t.Helper()
	g := model.NewModuleGraph()
	for _, name := range modules {
		g.AddModule(model.NewModule(name, "Plugin", cty.NilVal))
	}
	return g
}

func connect(t *testing.T, g *model.ModuleGraph, from, to string, toposort bool) {
	t.Helper()
	c := model.NewConnection(to)
	c.Toposort = toposort
	require.NoError(t, g.AddConnection(from, c))
}

func TestStartOrder_CycleAndBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("cycle through dependency edges fails", func(t *testing.T) {
		g := newGraph(t, "X", "Y")
		connect(t, g, "X.out", "Y.in", true)
		connect(t, g, "Y.out", "X.in", true)

		_, err := StartOrder(ctx, g)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrCyclicDependency)
	})

	t.Run("non-dependency edge breaks the cycle", func(t *testing.T) {
		g := newGraph(t, "X", "Y")
		connect(t, g, "X.out", "Y.in", true)
		connect(t, g, "Y.out", "X.in", false)

		order, err := StartOrder(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, []string{"X", "Y"}, order)
		assert.Equal(t, []string{"Y", "X"}, StopOrder(order))
	})
}

func TestStartOrder_Chains(t *testing.T) {
	testCases := []struct {
		name     string
		modules  []string
		edges    [][2]string
		expected []string
	}{
		{
			name:     "no connections keeps insertion order",
			modules:  []string{"c", "a", "b"},
			expected: []string{"c", "a", "b"},
		},
		{
			name:     "chain inserted backwards",
			modules:  []string{"sink", "mid", "src"},
			edges:    [][2]string{{"src.out", "mid.in"}, {"mid.out", "sink.in"}},
			expected: []string{"src", "mid", "sink"},
		},
		{
			name:     "fan out ties broken by insertion order",
			modules:  []string{"src", "b", "a"},
			edges:    [][2]string{{"src.o1", "a.in"}, {"src.o2", "b.in"}},
			expected: []string{"src", "b", "a"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGraph(t, tc.modules...)
			for _, e := range tc.edges {
				connect(t, g, e[0], e[1], true)
			}

			order, err := StartOrder(context.Background(), g)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, order)
		})
	}
}

func TestStartOrder_EveryEdgeRespected(t *testing.T) {
	g := newGraph(t, "agg", "tpc0", "tpc1", "trigger", "writer")
	connect(t, g, "tpc0.out", "agg.in0", true)
	connect(t, g, "tpc1.out", "agg.in1", true)
	connect(t, g, "trigger.decisions", "agg.requests", true)
	connect(t, g, "agg.out", "writer.in", true)
	connect(t, g, "writer.tokens", "trigger.tokens", false)

	order, err := StartOrder(context.Background(), g)
	require.NoError(t, err)
	require.Len(t, order, 5)

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	for _, m := range g.Modules() {
		for _, sc := range m.Connections() {
			if !sc.Connection.Toposort {
				continue
			}
			target, err := sc.Connection.Target()
			require.NoError(t, err)
			assert.Less(t, pos[m.Name], pos[target.Owner], "%s must start before %s", m.Name, target.Owner)
		}
	}

	stop := StopOrder(order)
	for i := range order {
		assert.Equal(t, order[i], stop[len(stop)-1-i])
	}
}

func TestModuleDependencies_Errors(t *testing.T) {
	t.Run("target module missing", func(t *testing.T) {
		g := newGraph(t, "a")
		connect(t, g, "a.out", "ghost.in", true)

		_, err := ModuleDependencies(context.Background(), g)
		assert.ErrorIs(t, err, model.ErrUnknownEndpoint)
	})

	t.Run("self loop", func(t *testing.T) {
		g := newGraph(t, "a")
		connect(t, g, "a.out", "a.in", true)

		_, err := ModuleDependencies(context.Background(), g)
		assert.ErrorIs(t, err, model.ErrCyclicDependency)
	})

	t.Run("self loop without toposort is fine", func(t *testing.T) {
		g := newGraph(t, "a")
		connect(t, g, "a.out", "a.in", false)

		d, err := ModuleDependencies(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, 1, d.Len())
	})
}

func TestStopOrder_DoesNotAlias(t *testing.T) {
	start := []string{"a", "b", "c"}
	stop := StopOrder(start)
	stop[0] = "changed"
	assert.Equal(t, []string{"a", "b", "c"}, start)
}
