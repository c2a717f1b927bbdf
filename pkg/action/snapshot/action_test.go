package snapshot

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/typecompose/pkg/composer"
)

const v1 = `path: Sources/A.swift
types:
  - kind: protocol
    name: P
  - kind: class
    name: A
    inherits: [P]
`

const v2 = v1 + `  - kind: class
    name: B
    inherits: [A]
`

func TestGenerateAndDiff(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "snapshots", "manifest.yaml")
	input := filepath.Join(dir, "decls.yaml")
	opts := composer.NewOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, os.WriteFile(input, []byte(v1), 0o644))
	first, err := Generate(opts, manifestPath, "graph", "1.0.0", input)
	require.NoError(t, err)
	require.FileExists(t, first)

	_, err = DiffCurrentWithPrevious(manifestPath)
	require.Error(t, err, "a single snapshot has nothing to diff against")

	require.NoError(t, os.WriteFile(input, []byte(v2), 0o644))
	second, err := Generate(opts, manifestPath, "graph", "1.1.0", input)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	m, err := List(manifestPath)
	require.NoError(t, err)
	require.Equal(t, "v1.1.0", m.CurrentVersion)
	require.Equal(t, "v1.0.0", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)
	require.NotEmpty(t, m.Snapshots[1].RunID)

	diff, err := DiffCurrentWithPrevious(manifestPath)
	require.NoError(t, err)
	require.Contains(t, diff, `"B"`)
}

func TestGenerateRejectsInvalidVersion(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(composer.NewOptions(), filepath.Join(dir, "manifest.yaml"), "graph", "next", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
