package index

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/typecompose/internal/typename"
	"github.com/cmmoran/typecompose/pkg/composer"
	"github.com/cmmoran/typecompose/pkg/model"
)

func decl(kind model.Kind, name string, inherits ...string) *model.Type {
	t := model.NewType(kind, name)
	t.InheritedTypes = inherits
	return t
}

func composeFiles(t *testing.T, files ...*model.FileResult) *Types {
	t.Helper()
	c := composer.New(composer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	res, err := c.Compose(&composer.Input{Files: files})
	require.NoError(t, err)
	return New(res)
}

func names(types []*model.Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.GlobalName())
	}
	return out
}

func scenario(t *testing.T) *Types {
	return composeFiles(t,
		&model.FileResult{Path: "P.swift", Types: []*model.Type{decl(model.KindProtocol, "P")}},
		&model.FileResult{Path: "B.swift", Types: []*model.Type{decl(model.KindClass, "B", "A")}},
		&model.FileResult{Path: "A.swift", Types: []*model.Type{decl(model.KindClass, "A", "P")}},
	)
}

func TestQueries(t *testing.T) {
	based := func(types *Types, k string) ([]*model.Type, error) { return types.Based(k), nil }
	tests := []struct {
		name    string
		query   func(*Types, string) ([]*model.Type, error)
		key     string
		want    []string
		wantErr bool
	}{
		{name: "based P", query: based, key: "P", want: []string{"A", "B"}},
		{name: "based A", query: based, key: "A", want: []string{"B"}},
		{name: "based unknown", query: based, key: "NSObject", want: []string{}},
		{name: "implementing P", query: (*Types).Implementing, key: "P", want: []string{"A", "B"}},
		{name: "inheriting A", query: (*Types).Inheriting, key: "A", want: []string{"B"}},
		{name: "inheriting B", query: (*Types).Inheriting, key: "B", want: []string{}},
		{name: "inheriting protocol", query: (*Types).Inheriting, key: "P", wantErr: true},
		{name: "implementing class", query: (*Types).Implementing, key: "A", wantErr: true},
		{name: "implementing unknown", query: (*Types).Implementing, key: "Missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// every case runs first on a fresh index
			got, err := tt.query(scenario(t), tt.key)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidQuery))
				var qe *QueryError
				require.True(t, errors.As(err, &qe))
				require.Equal(t, tt.key, qe.Name)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, names(got))
		})
	}
}

func TestBasedContainsInheritsAndImplements(t *testing.T) {
	types := composeFiles(t,
		&model.FileResult{Path: "Kit/P.swift", Module: "Kit", Types: []*model.Type{decl(model.KindProtocol, "P"), decl(model.KindClass, "Base")}},
		&model.FileResult{
			Path:    "App/Types.swift",
			Module:  "App",
			Imports: []string{"Kit"},
			Types: []*model.Type{
				decl(model.KindClass, "A", "PAlias"),
				decl(model.KindClass, "B", "Kit.P"),
				decl(model.KindClass, "C", "Kit.Base", "P"),
				decl(model.KindClass, "D", "C"),
			},
			Typealiases: []*model.Typealias{{Name: "PAlias", TypeName: typename.MustParse("P")}},
		},
	)

	for _, typ := range types.All() {
		for k := range typ.Implements {
			require.Containsf(t, typ.Based, k, "%s implements %s", typ.GlobalName(), k)
			require.Containsf(t, typ.BasedTypes, k, "%s implements %s", typ.GlobalName(), k)
		}
		for k := range typ.Inherits {
			require.Containsf(t, typ.Based, k, "%s inherits %s", typ.GlobalName(), k)
		}
	}

	want := []string{"App.A", "App.B", "App.C", "App.D"}
	for _, key := range []string{"P", "Kit.P"} {
		impl, err := New(types.result).Implementing(key)
		require.NoError(t, err)
		require.Equal(t, want, names(impl), key)
		require.Equal(t, want, names(New(types.result).Based(key)), key)
	}
	inh, err := New(types.result).Inheriting("Base")
	require.NoError(t, err)
	require.Equal(t, []string{"App.C", "App.D"}, names(inh))
	require.Equal(t, names(inh), names(types.Based("Kit.Base")))
}

func TestSnapshotParameters(t *testing.T) {
	s := decl(model.KindStruct, "Store")
	s.Methods = []*model.Method{{
		Name:           "load(_:)",
		Parameters:     []*model.MethodParameter{{Name: "id", TypeName: typename.MustParse("ID")}},
		ReturnTypeName: typename.MustParse("Item?"),
	}}
	s.Subscripts = []*model.Subscript{{
		Parameters:     []*model.MethodParameter{{Name: "index", TypeName: typename.MustParse("Int")}},
		ReturnTypeName: typename.MustParse("Item"),
	}}
	snap := composeFiles(t, &model.FileResult{
		Path:        "Store.swift",
		Types:       []*model.Type{s, decl(model.KindStruct, "Item"), decl(model.KindStruct, "Key")},
		Typealiases: []*model.Typealias{{Name: "ID", TypeName: typename.MustParse("Key")}},
	}).Snapshot()

	store := snap.Types[2]
	require.Equal(t, "Store", store.Name)
	require.Len(t, store.Members, 2)
	require.Equal(t, []ParameterSnapshot{{Name: "id", TypeName: "ID", Actual: "Key", Resolved: "Key"}}, store.Members[0].Parameters)
	require.Equal(t, "Item", store.Members[0].Resolved)
	require.Equal(t, []ParameterSnapshot{{Name: "index", TypeName: "Int"}}, store.Members[1].Parameters)
}

func TestCollections(t *testing.T) {
	comp := decl(model.KindProtocolComposition, "PQ")
	comp.Composition.ComposedTypeNames = []*model.TypeName{typename.MustParse("P"), typename.MustParse("Q")}
	enum := decl(model.KindEnum, "E", "Int")
	enum.Enum.Cases = []*model.EnumCase{{Name: "a"}}
	types := composeFiles(t, &model.FileResult{
		Path: "all.swift",
		Types: []*model.Type{
			decl(model.KindClass, "C"),
			decl(model.KindStruct, "S", "P"),
			enum,
			decl(model.KindProtocol, "P"),
			decl(model.KindProtocol, "Q"),
			comp,
		},
		Typealiases: []*model.Typealias{{Name: "Alias", TypeName: typename.MustParse("S")}},
	})

	require.Equal(t, []string{"C", "E", "P", "PQ", "Q", "S"}, names(types.All()))
	require.Equal(t, []string{"C"}, names(types.Classes()))
	require.Equal(t, []string{"S"}, names(types.Structs()))
	require.Equal(t, []string{"E"}, names(types.Enums()))
	require.Equal(t, []string{"P", "Q"}, names(types.Protocols()))
	require.Equal(t, []string{"PQ"}, names(types.ProtocolCompositions()))
	require.Empty(t, types.Extensions())
	require.Same(t, types.Type("S"), types.Typealias("Alias").Type)

	for name, want := range map[string][]string{
		"classes":              {"C"},
		"structs":              {"S"},
		"enums":                {"E"},
		"protocols":            {"P", "Q"},
		"protocolCompositions": {"PQ"},
		"types":                {"C", "E", "P", "PQ", "Q", "S"},
		"extensions":           {},
	} {
		got, err := types.Collection(name)
		require.NoError(t, err, name)
		require.Equal(t, want, names(got), name)
	}
	_, err := types.Collection("widgets")
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestModuleQualifiedLookup(t *testing.T) {
	types := composeFiles(t,
		&model.FileResult{Path: "Kit/P.swift", Module: "Kit", Types: []*model.Type{decl(model.KindProtocol, "P"), decl(model.KindClass, "Base")}},
		&model.FileResult{Path: "App/A.swift", Module: "App", Imports: []string{"Kit"}, Types: []*model.Type{decl(model.KindClass, "A", "Base", "P")}},
	)

	impl, err := types.Implementing("P")
	require.NoError(t, err)
	require.Equal(t, []string{"App.A"}, names(impl))

	impl, err = types.Implementing("Kit.P")
	require.NoError(t, err)
	require.Equal(t, []string{"App.A"}, names(impl))

	inh, err := types.Inheriting("Base")
	require.NoError(t, err)
	require.Equal(t, []string{"App.A"}, names(inh))

	require.Equal(t, []string{"App.A"}, names(types.Based("P")))
	require.Equal(t, []string{"App.A"}, names(types.Based("Kit.P")))
	require.Same(t, types.Type("Kit.Base"), types.Type("A").Supertype)
}

func TestExtensionAppearsOnce(t *testing.T) {
	x := decl(model.KindStruct, "Point", "P")
	x.Variables = []*model.Variable{{Name: "x", TypeName: typename.MustParse("Double")}}
	y := decl(model.KindStruct, "Point", "P")
	y.IsExtension = true
	y.Variables = []*model.Variable{{Name: "y", TypeName: typename.MustParse("Double")}}

	types := composeFiles(t,
		&model.FileResult{Path: "Point.swift", Types: []*model.Type{x, decl(model.KindProtocol, "P")}},
		&model.FileResult{Path: "Point+Y.swift", Types: []*model.Type{y}},
	)
	based := types.Based("P")
	require.Equal(t, []string{"Point"}, names(based))
	require.NotNil(t, based[0].Variable("x"))
	require.NotNil(t, based[0].Variable("y"))
}

func TestSnapshot(t *testing.T) {
	first := scenario(t).Snapshot()
	second := scenario(t).Snapshot()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("snapshots differ: %s", diff)
	}
	require.Len(t, first.Types, 3)
	require.Equal(t, TypeSnapshot{
		Name:       "B",
		Kind:       "class",
		Inherited:  []string{"A"},
		Supertype:  "A",
		Based:      []string{"A", "P"},
		Inherits:   []string{"A"},
		Implements: []string{"P"},
	}, first.Types[1])

	out, err := first.YAML()
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Equal(t, first.Types[1].Based, decoded.Types[1].Based)
}
