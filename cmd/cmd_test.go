package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const declarations = `path: Sources/Shapes.swift
module: Shapes
types:
  - kind: protocol
    name: Drawable
  - kind: class
    name: Shape
    inherits: [Drawable]
  - kind: class
    name: Circle
    inherits: [Shape]
  - kind: struct
    name: Point
    access: private
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--level", "error"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeDeclarations(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(declarations), 0o644))
	return path
}

func TestComposeCommand(t *testing.T) {
	input := writeDeclarations(t)
	out := execute(t, "compose", "-i", input, "--exclude-access-levels", "private", "--serial")

	assert.Contains(t, out, "name: Shapes.Circle")
	assert.NotContains(t, out, "name: Shapes.Point")
}

func TestQueryCommands(t *testing.T) {
	input := writeDeclarations(t)
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "implementing",
			args: []string{"query", "implementing", "Drawable", "-i", input},
			want: []string{"Shapes.Circle", "Shapes.Shape"},
		},
		{
			name: "inheriting",
			args: []string{"query", "inheriting", "Shape", "-i", input},
			want: []string{"Shapes.Circle"},
		},
		{
			name: "based",
			args: []string{"query", "based", "Drawable", "-i", input},
			want: []string{"Shapes.Circle", "Shapes.Shape"},
		},
		{
			name: "collection",
			args: []string{"query", "collection", "classes", "-i", input},
			want: []string{"Shapes.Circle", "Shapes.Shape"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := strings.Fields(execute(t, tt.args...))
			assert.Equal(t, tt.want, out)
		})
	}
}
