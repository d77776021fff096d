package testutil

import (
	"fmt"
	"testing"

	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// ScenarioA builds two applications: app1 runs X -> Y and exposes Y.out as
// y_output, app2 runs Z and exposes Z.in as z_input, and one sender connects
// the two endpoints.
func ScenarioA(t *testing.T) *model.System {
	t.Helper()
	sys := model.NewSystem()

	app1 := model.NewApp("app1", "host-a")
	app1.Graph.AddModule(model.NewModule("X", "Source", cty.NilVal))
	app1.Graph.AddModule(model.NewModule("Y", "Filter", cty.NilVal))
	require.NoError(t, app1.Graph.AddConnection("X.out", model.NewConnection("Y.in")))
	require.NoError(t, app1.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "y_output", Internal: "Y.out", Direction: model.Out}))
	require.NoError(t, sys.AddApp(app1))

	app2 := model.NewApp("app2", "host-b")
	app2.Graph.AddModule(model.NewModule("Z", "Sink", cty.NilVal))
	require.NoError(t, app2.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "z_input", Internal: "Z.in", Direction: model.In}))
	require.NoError(t, sys.AddApp(app2))

	require.NoError(t, sys.Connect("app1.y_output", model.Sender{
		MessageInfo: model.MessageInfo{MsgType: "Payload", MsgModuleName: "PayloadNQ"},
		Receiver:    "app2.z_input",
	}))
	return sys
}

// Deployment builds a small but complete DAQ system: a dataflow aggregator,
// a pausable trigger, and the given number of readout applications, each
// with one TPC fragment producer and a timesync publisher.
func Deployment(t *testing.T, readouts int) *model.System {
	t.Helper()
	sys := model.NewSystem()

	df := model.NewApp("dataflow", "df01")
	df.Graph.AddModule(model.NewModule("trb", "TriggerRecordBuilder", cty.ObjectVal(map[string]cty.Value{
		"general_queue_timeout": cty.NumberIntVal(100),
	})))
	df.Graph.AddModule(model.NewModule("dw", "DataWriter", cty.ObjectVal(map[string]cty.Value{
		"directory_path": cty.StringVal("/tmp"),
	})))
	require.NoError(t, df.Graph.AddConnection("trb.trigger_record_output", model.NewConnection("dw.trigger_record_input")))
	require.NoError(t, df.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "trigger_decisions", Internal: "trb.trigger_decision_input", Direction: model.In}))
	require.NoError(t, df.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "tokens", Internal: "dw.token_output", Direction: model.Out}))
	require.NoError(t, sys.AddApp(df))

	trg := model.NewApp("trigger", "trg01")
	trg.Pausable = true
	mlt := model.NewModule("mlt", "ModuleLevelTrigger", cty.NilVal)
	mlt.ResumeParams = cty.ObjectVal(map[string]cty.Value{"trigger_interval_ticks": cty.NumberIntVal(62500000)})
	trg.Graph.AddModule(mlt)
	require.NoError(t, trg.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "decisions", Internal: "mlt.trigger_decision_output", Direction: model.Out}))
	require.NoError(t, trg.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "tokens", Internal: "mlt.token_input", Direction: model.In}))
	require.NoError(t, trg.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "timesync", Internal: "mlt.timesync_input", Direction: model.In}))
	require.NoError(t, sys.AddApp(trg))

	for i := range readouts {
		name := fmt.Sprintf("ru%d", i)
		ru := model.NewApp(name, fmt.Sprintf("ru%02d", i))
		ru.Graph.AddModule(model.NewModule("card", "FakeCardReader", cty.NilVal))
		ru.Graph.AddModule(model.NewModule("dlh", "DataLinkHandler", cty.NilVal))
		require.NoError(t, ru.Graph.AddConnection("card.output", model.NewConnection("dlh.raw_input")))
		require.NoError(t, ru.Graph.DeclareEndpoint(model.Endpoint{ExternalName: "timesync", Internal: "dlh.timesync_output", Direction: model.Out}))
		require.NoError(t, sys.AddApp(ru))
		require.NoError(t, sys.AddFragmentProducer(name, &model.FragmentProducer{
			GeoID:        model.GeoID{SystemType: "TPC", Region: 0, Element: uint32(i)},
			RequestsIn:   "dlh.data_requests_0",
			FragmentsOut: "dlh.fragments",
		}))
		require.NoError(t, sys.Connect(name+".timesync", model.Publisher{
			MessageInfo: model.MessageInfo{MsgType: "dfmessages::TimeSync", MsgModuleName: "TimeSyncNQ"},
			Subscribers: []string{"trigger.timesync"},
			Topics:      []string{"Timesync"},
		}))
	}

	require.NoError(t, sys.Connect("trigger.decisions", model.Sender{
		MessageInfo: model.MessageInfo{MsgType: "dfmessages::TriggerDecision", MsgModuleName: "TriggerDecisionNQ"},
		Receiver:    "dataflow.trigger_decisions",
	}))
	require.NoError(t, sys.Connect("dataflow.tokens", model.Sender{
		MessageInfo:   model.MessageInfo{MsgType: "dfmessages::TriggerDecisionToken", MsgModuleName: "TriggerDecisionTokenNQ"},
		Receiver:      "trigger.tokens",
		NonDependency: true,
	}))
	sys.RequiredConnections = []string{"trigger.decisions"}
	return sys
}
