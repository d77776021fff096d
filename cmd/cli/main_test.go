package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/daqconf/internal/cli"
	"github.com/stretchr/testify/require"
)

const descriptionHCL = `
app "solo" {
  host = "localhost"
  module "src" {
    plugin = "Source"
    connection "out" {
      to = "sink.in"
    }
  }
  module "sink" {
    plugin = "Sink"
  }
}
`

func TestRun_Compiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	descPath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(descPath, []byte(descriptionHCL), 0o600))
	outDir := filepath.Join(tempDir, "out")
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"--log-format", "text", descPath, outDir})

	// --- Assert ---
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "boot.json"))
	require.FileExists(t, filepath.Join(outDir, "data", "solo_init.json"))
	require.Contains(t, out.String(), "Configuration written.")

	// A second run without --force must refuse to overwrite.
	err = run(context.Background(), out, []string{descPath, outDir})
	require.Error(t, err)
	require.Contains(t, err.Error(), "output directory already exists")

	require.NoError(t, run(context.Background(), out, []string{"--force", descPath, outDir}))
}

func TestRun_InvalidDescription(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		app "broken" {
			host = "localhost"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	// --- Act ---
	runErr := run(context.Background(), &bytes.Buffer{}, []string{filePath, filepath.Join(tempDir, "out")})

	// --- Assert ---
	require.Error(t, runErr)
	var exitErr *cli.ExitError
	require.False(t, errors.As(runErr, &exitErr), "compile failures are not usage errors")
	require.Contains(t, runErr.Error(), "failed to parse")
	require.NoDirExists(t, filepath.Join(tempDir, "out"))
}

func TestRun_UnsupportedDescription(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("app"), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, []string{filePath, filepath.Join(tempDir, "out")})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
