package typename

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/typecompose/pkg/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantKind   model.TypeNameKind
		wantName   string
		wantLookup string
		wantErr    bool
	}{
		{name: "simple", text: "Foo", wantKind: model.TypeNameSimple, wantName: "Foo", wantLookup: "Foo"},
		{name: "qualified", text: "Outer.Inner", wantKind: model.TypeNameSimple, wantName: "Outer.Inner", wantLookup: "Outer.Inner"},
		{name: "optional", text: "Foo?", wantKind: model.TypeNameOptional, wantName: "Foo?", wantLookup: "Foo"},
		{name: "double optional", text: "Foo??", wantKind: model.TypeNameOptional, wantName: "Foo??", wantLookup: "Foo"},
		{name: "implicitly unwrapped", text: "Foo!", wantKind: model.TypeNameImplicitlyUnwrapped, wantName: "Foo!", wantLookup: "Foo"},
		{name: "array", text: "[ Foo ]", wantKind: model.TypeNameArray, wantName: "[Foo]", wantLookup: "[Foo]"},
		{name: "dictionary", text: "[String:Int]", wantKind: model.TypeNameDictionary, wantName: "[String: Int]", wantLookup: "[String: Int]"},
		{name: "tuple", text: "(a: Int, String)", wantKind: model.TypeNameTuple, wantName: "(a: Int, String)", wantLookup: "(a: Int, String)"},
		{name: "empty tuple", text: "()", wantKind: model.TypeNameTuple, wantName: "()", wantLookup: "()"},
		{name: "grouping", text: "(Foo)", wantKind: model.TypeNameSimple, wantName: "Foo", wantLookup: "Foo"},
		{name: "closure", text: "(Int, String) -> Bool", wantKind: model.TypeNameClosure, wantName: "(Int, String) -> Bool", wantLookup: "(Int, String) -> Bool"},
		{name: "closure effects", text: "() async throws -> Void", wantKind: model.TypeNameClosure, wantName: "() async throws -> Void", wantLookup: "() async throws -> Void"},
		{name: "closure labels dropped", text: "(_ value: Int) -> Void", wantKind: model.TypeNameClosure, wantName: "(Int) -> Void", wantLookup: "(Int) -> Void"},
		{name: "escaping attribute", text: "@escaping (inout Int) -> Void", wantKind: model.TypeNameClosure, wantName: "(Int) -> Void", wantLookup: "(Int) -> Void"},
		{name: "optional closure", text: "((Int) -> Void)?", wantKind: model.TypeNameOptional, wantName: "((Int) -> Void)?", wantLookup: "(Int) -> Void"},
		{name: "generic", text: "Box<Int, [String]>", wantKind: model.TypeNameGeneric, wantName: "Box<Int, [String]>", wantLookup: "Box"},
		{name: "generic closure argument", text: "Box<(Int) -> Void>", wantKind: model.TypeNameGeneric, wantName: "Box<(Int) -> Void>", wantLookup: "Box"},
		{name: "composition", text: "A & B.C", wantKind: model.TypeNameComposition, wantName: "A & B.C", wantLookup: "A & B.C"},
		{name: "existential", text: "any Encodable", wantKind: model.TypeNameSimple, wantName: "Encodable", wantLookup: "Encodable"},
		{name: "empty", text: "  ", wantErr: true},
		{name: "unclosed array", text: "[Foo", wantErr: true},
		{name: "trailing garbage", text: "Foo Bar", wantErr: true},
		{name: "effects without arrow", text: "() throws", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equalf(t, tt.wantKind, got.Kind, "kind of %q: %s", tt.text, got.Kind)
			require.Equal(t, tt.wantName, got.Name)
			require.Equal(t, tt.wantLookup, got.LookupName())
			require.NoError(t, got.Validate())
		})
	}
}

func TestParseCanonicalIsStable(t *testing.T) {
	inputs := []string{
		"[String: [Int?]]",
		"(name: String, (Int) throws -> Foo?)",
		"Result<Foo, Error>?",
		"(A & B)?",
		"(Int) -> (String) -> Bool",
	}
	for _, in := range inputs {
		first, err := Parse(in)
		require.NoError(t, err)
		second, err := Parse(first.Name)
		require.NoError(t, err)
		require.Equal(t, first.Name, second.Name)
		require.Equal(t, first, second)
	}
}

func TestLookupName(t *testing.T) {
	require.Equal(t, "Base", LookupName("Base<Int>"))
	require.Equal(t, "Foo", LookupName(" Foo? "))
	require.Equal(t, "Base", LookupName("Base<Int"))
	require.Equal(t, "Module.Foo", LookupName("Module.Foo"))
}
