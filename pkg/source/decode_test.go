package source

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/typecompose/pkg/composer"
	"github.com/cmmoran/typecompose/pkg/index"
	"github.com/cmmoran/typecompose/pkg/model"
)

func TestLoadFile(t *testing.T) {
	files, err := LoadFile("testdata/shapes.yaml")
	require.NoError(t, err)
	require.Len(t, files, 2)

	shape := files[0]
	require.Equal(t, "Sources/Shapes/Shape.swift", shape.Path)
	require.Equal(t, "Shapes", shape.Module)
	require.Len(t, shape.Types, 2)

	polygon := shape.Types[1]
	require.Equal(t, model.KindClass, polygon.Kind)
	require.Equal(t, model.AccessOpen, polygon.AccessLevel)
	require.Equal(t, "[Point]", polygon.Variable("points").TypeName.Name)
	require.Equal(t, model.TypeNameArray, polygon.Variable("points").TypeName.Kind)
	require.Nil(t, polygon.Method("init(points:)").ReturnTypeName)
	require.Equal(t, "Polygon.Winding", polygon.Contained("Winding").Name())

	require.Len(t, shape.Typealiases, 2)
	require.Equal(t, "Polygon.Vertex", shape.Typealiases[0].ScopedName())
	require.Equal(t, model.TypeNameTuple, shape.Typealiases[1].TypeName.Kind)
}

func TestDecodedFilesCompose(t *testing.T) {
	files, err := LoadFile("testdata/shapes.yaml")
	require.NoError(t, err)

	res, err := composer.New(composer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))).
		Compose(&composer.Input{Files: files})
	require.NoError(t, err)
	types := index.New(res)

	polygon := types.Type("Shapes.Polygon")
	require.NotNil(t, polygon)
	require.NotNil(t, polygon.Variable("description"))
	require.Equal(t, []string{"Shape", "CustomStringConvertible"}, polygon.InheritedTypes)
	require.Same(t, polygon, polygon.Method("init(points:)").ReturnType)
	require.Same(t, polygon, polygon.Method("scaled(by:)").ReturnType)

	impl, err := types.Implementing("Shape")
	require.NoError(t, err)
	require.Len(t, impl, 1)
	require.Same(t, polygon, impl[0])

	winding := polygon.Contained("Winding")
	require.Equal(t, "Int", winding.Enum.RawTypeName.Name)

	point := types.Type("Point")
	require.Equal(t, "(x: Double, y: Double)", point.Variable("value").ActualTypeName.Name)
	require.Same(t, polygon, types.Functions()[0].Parameters[0].Type)
	require.Same(t, point, types.Typealias("Polygon.Vertex").Type)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown kind", doc: "path: a\ntypes:\n  - kind: union\n    name: U\n"},
		{name: "malformed reference", doc: "path: a\ntypes:\n  - kind: struct\n    name: S\n    variables:\n      - name: x\n        type: \"[Int\"\n"},
		{name: "cases on struct", doc: "path: a\ntypes:\n  - kind: struct\n    name: S\n    cases:\n      - name: a\n"},
		{name: "not yaml", doc: "path: [a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), tt.name)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"path": "B.swift", "types": [{"kind": "struct", "name": "B"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("path: A.swift\ntypes:\n  - kind: class\n    name: A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	files, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "A.swift", files[0].Path)
	require.Equal(t, "B.swift", files[1].Path)
}
