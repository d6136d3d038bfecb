package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPrintsLogicalLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nnonsense\nFROM alpine\nRUN apk add \\\n    curl\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(path, "leading", &out))

	text := out.String()
	require.Contains(t, text, "Command: FROM\nArgs: alpine\nLines: 3-3\n")
	require.Contains(t, text, "Command: RUN\n")
	require.Contains(t, text, "Lines: 4-5\n")
	require.Contains(t, text, "Command: (unrecognized)\n")
}

func TestRunRejectsUnknownMode(t *testing.T) {
	require.Error(t, run("Dockerfile", "sideways", &bytes.Buffer{}))
}
