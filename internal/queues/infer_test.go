package queues

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func graphWith(t *testing.T, modules ...string) *model.ModuleGraph {
	t.Helper()
	g := model.NewModuleGraph()
	for _, name := range modules {
		g.AddModule(model.NewModule(name, "Plugin", cty.NilVal))
	}
	return g
}

func TestInfer_SameConnectionTwiceYieldsOneQueue(t *testing.T) {
	g := graphWith(t, "X", "Y")
	require.NoError(t, g.AddConnection("X.out", model.NewConnection("Y.in")))
	require.NoError(t, g.AddConnection("X.out", model.NewConnection("Y.in")))

	res, err := Infer(context.Background(), g)
	require.NoError(t, err)

	require.Len(t, res.Queues, 1)
	assert.Equal(t, QueueSpec{Name: "X_out_to_Y_in", Kind: model.DefaultQueueKind, Capacity: 1000}, res.Queues[0])
	assert.Equal(t, []Attachment{{Slot: "out", Queue: "X_out_to_Y_in", Dir: DirOutput}}, res.Attachments("X"))
	assert.Equal(t, []Attachment{{Slot: "in", Queue: "X_out_to_Y_in", Dir: DirInput}}, res.Attachments("Y"))
}

func TestInfer_Idempotent(t *testing.T) {
	g := graphWith(t, "tpc0", "tpc1", "agg", "writer", "idle")
	require.NoError(t, g.AddConnection("tpc0.out", model.NewConnection("agg.in")))
	require.NoError(t, g.AddConnection("tpc1.out", model.NewConnection("agg.in")))
	require.NoError(t, g.AddConnection("agg.out", model.NewConnection("writer.in")))

	first, err := Infer(context.Background(), g)
	require.NoError(t, err)
	second, err := Infer(context.Background(), g)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second inference differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, []Attachment{}, first.Attachments("idle"))
	assert.Len(t, first.Modules, 5)
}

func TestInfer_SharedQueue(t *testing.T) {
	testCases := []struct {
		name     string
		conns    map[string]model.Connection
		order    []string
		expected []QueueSpec
	}{
		{
			name:  "fan-in promotes SPSC to MPMC and keeps max capacity",
			order: []string{"a.out", "b.out"},
			conns: map[string]model.Connection{
				"a.out": {To: "sink.in", Kind: model.DefaultQueueKind, Capacity: 10, Toposort: true},
				"b.out": {To: "sink.in", Kind: model.DefaultQueueKind, Capacity: 50, Toposort: true},
			},
			expected: []QueueSpec{{Name: "a_out_to_sink_in", Kind: model.MPMCQueueKind, Capacity: 50}},
		},
		{
			name:  "explicit shared name merges queues",
			order: []string{"a.out", "b.out"},
			conns: map[string]model.Connection{
				"a.out": {To: "sink.in1", QueueName: "shared", Toposort: true},
				"b.out": {To: "sink.in2", QueueName: "shared", Toposort: true},
			},
			expected: []QueueSpec{{Name: "shared", Kind: model.MPMCQueueKind, Capacity: 1000}},
		},
		{
			name:  "non-SPSC kind is kept",
			order: []string{"a.out", "b.out"},
			conns: map[string]model.Connection{
				"a.out": {To: "sink.in", Kind: "StdDeQueue", Capacity: 5, Toposort: true},
				"b.out": {To: "sink.in", Kind: "StdDeQueue", Capacity: 5, Toposort: true},
			},
			expected: []QueueSpec{{Name: "a_out_to_sink_in", Kind: "StdDeQueue", Capacity: 5}},
		},
		{
			name:  "distinct endpoints get distinct queues",
			order: []string{"a.out", "b.out"},
			conns: map[string]model.Connection{
				"a.out": model.NewConnection("sink.in1"),
				"b.out": model.NewConnection("sink.in2"),
			},
			expected: []QueueSpec{
				{Name: "a_out_to_sink_in1", Kind: model.DefaultQueueKind, Capacity: 1000},
				{Name: "b_out_to_sink_in2", Kind: model.DefaultQueueKind, Capacity: 1000},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := graphWith(t, "a", "b", "sink")
			for _, from := range tc.order {
				require.NoError(t, g.AddConnection(from, tc.conns[from]))
			}

			res, err := Infer(context.Background(), g)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, res.Queues)

			seen := make(map[string]bool)
			for _, att := range res.Attachments("sink") {
				key := att.Slot + "/" + att.Dir
				assert.False(t, seen[key], "duplicate attachment %s", key)
				seen[key] = true
			}
		})
	}
}

func TestInfer_CanonicalNameCollision(t *testing.T) {
	g := graphWith(t, "a_b", "a", "d", "d_e")
	require.NoError(t, g.AddConnection("a_b.c", model.NewConnection("d.e_f")))
	require.NoError(t, g.AddConnection("a.b_c", model.NewConnection("d_e.f")))

	res, err := Infer(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, []QueueSpec{
		{Name: "a_b_c_to_d_e_f", Kind: model.DefaultQueueKind, Capacity: 1000},
		{Name: "a_b_c_to_d_e_f_1", Kind: model.DefaultQueueKind, Capacity: 1000},
	}, res.Queues)
	assert.Equal(t, []Attachment{{Slot: "e_f", Queue: "a_b_c_to_d_e_f", Dir: DirInput}}, res.Attachments("d"))
	assert.Equal(t, []Attachment{{Slot: "f", Queue: "a_b_c_to_d_e_f_1", Dir: DirInput}}, res.Attachments("d_e"))

	again, err := Infer(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestInfer_Errors(t *testing.T) {
	t.Run("override disagrees with the queue already on the input slot", func(t *testing.T) {
		g := graphWith(t, "a", "b", "sink")
		require.NoError(t, g.AddConnection("a.out", model.NewConnection("sink.in")))
		c := model.NewConnection("sink.in")
		c.QueueName = "custom"
		require.NoError(t, g.AddConnection("b.out", c))

		_, err := Infer(context.Background(), g)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflictingQueueAssignment)
		assert.Contains(t, err.Error(), "a_out_to_sink_in")
	})

	t.Run("override matching the existing queue is accepted", func(t *testing.T) {
		g := graphWith(t, "a", "b", "sink")
		require.NoError(t, g.AddConnection("a.out", model.NewConnection("sink.in")))
		c := model.NewConnection("sink.in")
		c.QueueName = "a_out_to_sink_in"
		require.NoError(t, g.AddConnection("b.out", c))

		res, err := Infer(context.Background(), g)
		require.NoError(t, err)
		require.Len(t, res.Queues, 1)
		assert.Equal(t, model.MPMCQueueKind, res.Queues[0].Kind)
	})

	t.Run("unknown target module", func(t *testing.T) {
		g := graphWith(t, "a")
		require.NoError(t, g.AddConnection("a.out", model.NewConnection("ghost.in")))

		_, err := Infer(context.Background(), g)
		assert.ErrorIs(t, err, model.ErrUnknownEndpoint)
	})
}

func TestPickName_BothEndsBound(t *testing.T) {
	e := newEngine()
	from := slotKey{module: "a", slot: "out", dir: DirOutput}
	to := slotKey{module: "b", slot: "in", dir: DirInput}
	e.bind(from, "q1")
	e.bind(to, "q2")

	_, err := e.pickName(from, to, model.NewConnection("b.in"))
	assert.ErrorIs(t, err, model.ErrConflictingQueueAssignment)
}
