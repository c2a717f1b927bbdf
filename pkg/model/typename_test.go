package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeNameRender(t *testing.T) {
	foo := NewTypeName("Foo")
	intT := NewTypeName("Int")
	tests := []struct {
		name string
		got  *TypeName
		want string
	}{
		{name: "optional", got: OptionalOf(foo), want: "Foo?"},
		{name: "iuo", got: ImplicitlyUnwrappedOf(foo), want: "Foo!"},
		{name: "array", got: ArrayOf(OptionalOf(foo)), want: "[Foo?]"},
		{name: "dictionary", got: DictionaryOf(NewTypeName("String"), ArrayOf(intT)), want: "[String: [Int]]"},
		{name: "tuple", got: TupleOf(TupleElement{Name: "a", TypeName: intT}, TupleElement{TypeName: foo}), want: "(a: Int, Foo)"},
		{name: "closure", got: ClosureOf([]*TypeName{intT}, nil, true, true), want: "(Int) async throws -> Void"},
		{name: "optional closure", got: OptionalOf(ClosureOf(nil, foo, false, false)), want: "(() -> Foo)?"},
		{name: "generic", got: GenericOf("Box", intT, foo), want: "Box<Int, Foo>"},
		{name: "composition", got: CompositionOf(foo, NewTypeName("Bar")), want: "Foo & Bar"},
		{name: "optional composition", got: OptionalOf(CompositionOf(foo, NewTypeName("Bar"))), want: "(Foo & Bar)?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got.Name)
			require.Equal(t, tt.want, tt.got.String())
		})
	}
}

func TestTypeNameValidate(t *testing.T) {
	require.NoError(t, GenericOf("Box", NewTypeName("Int")).Validate())
	require.ErrorIs(t, NewTypeName(" ").Validate(), ErrEmptyTypeName)
	require.ErrorIs(t, ArrayOf(NewTypeName("")).Validate(), ErrEmptyTypeName)
	require.ErrorIs(t, CompositionOf().Validate(), ErrEmptyTypeName)
	var nilName *TypeName
	require.ErrorIs(t, nilName.Validate(), ErrEmptyTypeName)
}

func TestTypeNames(t *testing.T) {
	outer := NewType(KindStruct, "Outer")
	outer.Module = "App"
	inner := NewType(KindEnum, "Inner")
	inner.Parent = outer
	outer.Types = append(outer.Types, inner)
	inner.Module = "App"

	require.Equal(t, "Outer.Inner", inner.Name())
	require.Equal(t, "App.Outer.Inner", inner.GlobalName())
	require.Same(t, inner, outer.Contained("Inner"))
	require.NotNil(t, inner.Enum)

	clone := outer.Clone()
	require.Len(t, clone.Types, 1)
	require.Same(t, clone, clone.Types[0].Parent)
	require.NotSame(t, inner, clone.Types[0])
	require.NotNil(t, clone.Based)
}
