package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/daqconf/internal/app"
	"github.com/specialistvlad/daqconf/internal/compiler"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Plan      *compiler.Plan
	// OutputDir is where the configuration was written.
	OutputDir string
}

// ReadOutput returns the content of a generated file, relative to OutputDir.
func (r *HarnessResult) ReadOutput(t *testing.T, rel string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(r.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return raw
}

// RunIntegrationTest writes files under a fresh description directory and
// runs the full application over it with default compile options.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithOptions(context.Background(), t, files, compiler.DefaultOptions())
}

// RunIntegrationTestWithOptions is RunIntegrationTest with caller-provided
// context and compile options.
func RunIntegrationTestWithOptions(ctx context.Context, t *testing.T, files map[string]string, opts compiler.Options) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	descDir := filepath.Join(tmpDir, "description")
	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(descDir, 0o755))

	for name, content := range files {
		filePath := filepath.Join(descDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		DescriptionPath: descDir,
		OutputDir:       outDir,
		LogLevel:        "debug",
		LogFormat:       "text",
		Compile:         opts,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{OutputDir: outDir}

	testApp, err := app.NewApp(logBuffer, cfg, nil)
	if err == nil {
		result.Plan, err = testApp.Run(ctx)
	}
	result.Err = err
	result.LogOutput = logBuffer.String()

	if os.Getenv("DAQCONF_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
