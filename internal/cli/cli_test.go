package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_Defaults(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"desc.hcl", "out"}, out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "desc.hcl", cfg.DescriptionPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Force)
	assert.Equal(t, "global", cfg.Compile.Commands.Partition)
	assert.Equal(t, 12345, cfg.Compile.Network.BasePort)
	assert.Equal(t, 3333, cfg.Compile.Commands.BootBasePort)
	assert.Equal(t, 56789, cfg.Compile.Commands.ResponseListenerPort)
	assert.Equal(t, "dataflow", cfg.Compile.Aggregator.App)
	assert.Equal(t, "trb.data_fragment_input", cfg.Compile.Aggregator.FragmentInput)
}

func TestParse_Flags(t *testing.T) {
	cfg, _, err := Parse([]string{
		"--log-level", "DEBUG", "--log-format", "text", "--partition", "np04",
		"--base-port", "20000", "--boot-port", "4000", "--force", "desc", "out",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "np04", cfg.Compile.Commands.Partition)
	assert.Equal(t, 20000, cfg.Compile.Network.BasePort)
	assert.Equal(t, 4000, cfg.Compile.Commands.BootBasePort)
	assert.True(t, cfg.Force)
}

func TestParse_Environment(t *testing.T) {
	t.Setenv("DAQCONF_PARTITION", "from-env")
	t.Setenv("DAQCONF_BASE_PORT", "30000")

	cfg, _, err := Parse([]string{"desc", "out"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Compile.Commands.Partition)
	assert.Equal(t, 30000, cfg.Compile.Network.BasePort)

	cfg, _, err = Parse([]string{"--partition", "from-flag", "desc", "out"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Compile.Commands.Partition, "flags win over the environment")
}

func TestParse_OptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
partition: file-partition
response_listener_port: 40000
env:
  - DUNEDAQ_SHARE_PATH=/opt/share
start_params:
  run: 42
aggregator:
  app: df
  request_module: builder
  fragment_input: builder.fragments_in
`), 0o644))

	cfg, _, err := Parse([]string{"--options", path, "--boot-port", "5000", "desc", "out"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "file-partition", cfg.Compile.Commands.Partition)
	assert.Equal(t, 40000, cfg.Compile.Commands.ResponseListenerPort)
	assert.Equal(t, 5000, cfg.Compile.Commands.BootBasePort)
	assert.Equal(t, map[string]string{"DUNEDAQ_SHARE_PATH": "/opt/share"}, cfg.Compile.Commands.Env)
	assert.True(t, cfg.Compile.Commands.StartParams.GetAttr("run").Equals(cty.NumberIntVal(42)).True())
	assert.Equal(t, "df", cfg.Compile.Aggregator.App)
	assert.Equal(t, "builder", cfg.Compile.Aggregator.RequestModule)
}

func TestParse_ShouldExit(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "help flag", args: []string{"-h"}},
		{name: "no arguments", args: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := Parse(tc.args, out)
			require.NoError(t, err)
			assert.True(t, exit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{name: "unknown flag", args: []string{"--this-is-not-a-valid-flag", "a", "b"}, errSubstr: "unknown flag"},
		{name: "missing output", args: []string{"desc"}, errSubstr: "expected DESCRIPTION_PATH and OUTPUT_DIR"},
		{name: "invalid log format", args: []string{"--log-format", "xml", "a", "b"}, errSubstr: "invalid log format"},
		{name: "invalid log level", args: []string{"--log-level", "loud", "a", "b"}, errSubstr: "invalid log level"},
		{name: "invalid port", args: []string{"--base-port", "70000", "a", "b"}, errSubstr: "invalid base port"},
		{name: "missing options file", args: []string{"--options", "/nonexistent/options.yaml", "a", "b"}, errSubstr: "failed to read options file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errSubstr)
		})
	}
}
