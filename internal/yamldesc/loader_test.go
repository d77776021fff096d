package yamldesc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/daqconf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const deploymentYAML = `
system:
  required_connections: [ru0.timesync]
apps:
  - name: ru0
    host: localhost
    modules:
      - name: card
        plugin: FakeCardReader
        conf:
          link_count: 2
          label: card-0
        connections:
          - slot: output
            to: dlh.raw_input
            capacity: 100
      - name: dlh
        plugin: DataLinkHandler
        connections:
          - slot: tokens
            to: card.tokens
            toposort: false
    endpoints:
      - name: timesync
        internal: dlh.timesync_output
        direction: out
    fragment_producers:
      - system_type: TPC
        element: 4
        requests_in: dlh.data_requests
        fragments_out: dlh.fragments
  - name: trigger
    host: trg01
    pausable: true
    modules:
      - name: mlt
        plugin: ModuleLevelTrigger
        resume:
          trigger_interval_ticks: 62500000
    endpoints:
      - name: timesync
        internal: mlt.timesync_input
        direction: in
connections:
  - from: ru0.timesync
    type: publisher
    to: [trigger.timesync]
    topics: [Timesync]
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deployment.yaml", deploymentYAML)
	writeFile(t, dir, "README.md", "ignored")

	desc, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, desc.Apps, 2)
	assert.Equal(t, []string{"ru0.timesync"}, desc.System.RequiredConnections)

	ru0 := desc.Apps[0]
	assert.Equal(t, "ru0", ru0.Name)
	require.Len(t, ru0.Modules, 2)
	assert.Equal(t, cty.StringVal("card-0"), ru0.Modules[0].Conf.GetAttr("label"))
	assert.True(t, ru0.Modules[0].Conf.GetAttr("link_count").Equals(cty.NumberIntVal(2)).True())
	assert.Equal(t, cty.NilVal, ru0.Modules[1].Conf)
	assert.Equal(t, config.ModuleConnSpec{Slot: "tokens", To: "card.tokens", NonDependency: true}, ru0.Modules[1].Connections[0])
	assert.Equal(t, []config.ProducerSpec{{
		SystemType: "TPC", Element: 4, RequestsIn: "dlh.data_requests", FragmentsOut: "dlh.fragments",
	}}, ru0.Producers)

	trigger := desc.Apps[1]
	assert.True(t, trigger.Pausable)
	assert.False(t, trigger.Modules[0].ResumeParams.IsNull())

	require.Len(t, desc.Connections, 1)
	assert.Equal(t, config.PublisherType, desc.Connections[0].Type)
	assert.Equal(t, []string{"Timesync"}, desc.Connections[0].Topics)

	sys, err := config.Build(context.Background(), desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"ru0", "trigger"}, sys.AppNames())
}

func TestLoad_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "apps:\n  - name: a\n    host: localhost\n")
	writeFile(t, dir, "b.yaml", "apps:\n  - name: b\n    host: localhost\nconnections:\n  - from: a.out\n    to: [b.in]\n")

	desc, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, desc.Apps, 2)
	assert.Equal(t, "a", desc.Apps[0].Name)
	assert.Equal(t, "b", desc.Apps[1].Name)
	assert.Equal(t, config.SenderType, desc.Connections[0].Type)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "apps:\n  - name: a\n    hostname: localhost\n"},
		{name: "malformed", content: "apps: [\n"},
		{name: "wrong type", content: "apps:\n  - name: a\n    pausable: maybe\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.yaml", tc.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bad.yaml")
		})
	}

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
	})
}
