package integration_tests

import (
	"encoding/json"
	"testing"

	"github.com/specialistvlad/daqconf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type systemFile struct {
	Apps  map[string]string `json:"apps"`
	Order []string          `json:"order"`
}

type initFile struct {
	Data struct {
		Queues []struct {
			Name string `json:"inst"`
			Kind string `json:"kind"`
		} `json:"queues"`
		Modules []struct {
			Inst   string `json:"inst"`
			Plugin string `json:"plugin"`
		} `json:"modules"`
	} `json:"data"`
}

// Test for: a multi-file HCL deployment compiles into a complete output tree.
func TestCompile_HCLDeployment(t *testing.T) {
	// --- Act ---
	result := testutil.RunIntegrationTest(t, deploymentFiles(2))

	// --- Assert ---
	require.NoError(t, result.Err)
	require.NotNil(t, result.Plan)
	assert.Empty(t, result.Plan.Warnings)

	var start systemFile
	require.NoError(t, json.Unmarshal(result.ReadOutput(t, "start.json"), &start))
	assert.Equal(t, []string{"ru0", "ru1", "trigger", "dataflow"}, start.Order)
	assert.Len(t, start.Apps, 4)

	var stop systemFile
	require.NoError(t, json.Unmarshal(result.ReadOutput(t, "stop.json"), &stop))
	assert.Equal(t, []string{"dataflow", "trigger", "ru1", "ru0"}, stop.Order)

	var pause systemFile
	require.NoError(t, json.Unmarshal(result.ReadOutput(t, "pause.json"), &pause))
	assert.Equal(t, []string{"trigger"}, pause.Order)
	assert.Len(t, pause.Apps, 4)

	var dfInit initFile
	require.NoError(t, json.Unmarshal(result.ReadOutput(t, "data/dataflow_init.json"), &dfInit))
	plugins := make(map[string]string)
	for _, m := range dfInit.Data.Modules {
		plugins[m.Inst] = m.Plugin
	}
	assert.Equal(t, "TriggerRecordBuilder", plugins["trb"])
	assert.Equal(t, "NetworkToQueue", plugins["ntoq_ru0_fragments_ru0_TPC_0_0"])
	assert.Equal(t, "QueueToNetwork", plugins["qton_dataflow_requests_ru1_TPC_0_1"])

	kinds := make(map[string]string)
	for _, q := range dfInit.Data.Queues {
		kinds[q.Name] = q.Kind
	}
	assert.Equal(t, "FollyMPMCQueue", kinds["ntoq_ru0_fragments_ru0_TPC_0_0_output_to_trb_data_fragment_input"])

	var boot struct {
		Env   map[string]string `json:"env"`
		Hosts map[string]string `json:"hosts"`
	}
	require.NoError(t, json.Unmarshal(result.ReadOutput(t, "boot.json"), &boot))
	assert.Equal(t, "global", boot.Env["DAQ_PARTITION"])
	assert.Equal(t, "ru01", boot.Hosts["host_ru1"])

	assert.Contains(t, result.LogOutput, "Configuration written.")
}

// Test for: the YAML format produces the same plan as HCL.
func TestCompile_YAMLMatchesHCL(t *testing.T) {
	yamlDesc := `
apps:
  - name: app1
    host: host-a
    modules:
      - name: X
        plugin: Source
        connections:
          - slot: out
            to: Y.in
      - name: Y
        plugin: Filter
    endpoints:
      - name: y_output
        internal: Y.out
        direction: out
  - name: app2
    host: host-b
    modules:
      - name: Z
        plugin: Sink
    endpoints:
      - name: z_input
        internal: Z.in
        direction: in
connections:
  - from: app1.y_output
    to: [app2.z_input]
    msg_type: Payload
    msg_module_name: PayloadNQ
`
	hclDesc := `
app "app1" {
  host = "host-a"
  module "X" {
    plugin = "Source"
    connection "out" {
      to = "Y.in"
    }
  }
  module "Y" {
    plugin = "Filter"
  }
  endpoint "y_output" {
    internal  = "Y.out"
    direction = "out"
  }
}

app "app2" {
  host = "host-b"
  module "Z" {
    plugin = "Sink"
  }
  endpoint "z_input" {
    internal  = "Z.in"
    direction = "in"
  }
}

connection "app1.y_output" {
  to              = ["app2.z_input"]
  msg_type        = "Payload"
  msg_module_name = "PayloadNQ"
}
`
	fromYAML := testutil.RunIntegrationTest(t, map[string]string{"system.yaml": yamlDesc})
	require.NoError(t, fromYAML.Err)
	fromHCL := testutil.RunIntegrationTest(t, map[string]string{"system.hcl": hclDesc})
	require.NoError(t, fromHCL.Err)

	for _, rel := range []string{"boot.json", "start.json", "data/app1_init.json", "data/app1_conf.json", "data/app2_init.json"} {
		assert.JSONEq(t, string(fromHCL.ReadOutput(t, rel)), string(fromYAML.ReadOutput(t, rel)), rel)
	}
	assert.Equal(t, []string{"X", "Y", "qton_app1_y_output"}, fromYAML.Plan.Apps[0].StartOrder)
}
