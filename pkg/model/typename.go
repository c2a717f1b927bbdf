package model

import (
	"strings"
)

// TypeNameKind tags the reference form carried by a TypeName.
type TypeNameKind uint8

const (
	TypeNameSimple              TypeNameKind = iota // Foo, Module.Foo, Outer.Inner
	TypeNameOptional                                // Foo?
	TypeNameImplicitlyUnwrapped                     // Foo!
	TypeNameArray                                   // [Foo]
	TypeNameDictionary                              // [Key: Value]
	TypeNameTuple                                   // (a: Int, String)
	TypeNameClosure                                 // (Int) throws -> Bool
	TypeNameGeneric                                 // Base<A, B>
	TypeNameComposition                             // A & B
)

func (k TypeNameKind) String() string {
	switch k {
	case TypeNameSimple:
		return "simple"
	case TypeNameOptional:
		return "optional"
	case TypeNameImplicitlyUnwrapped:
		return "implicitlyUnwrapped"
	case TypeNameArray:
		return "array"
	case TypeNameDictionary:
		return "dictionary"
	case TypeNameTuple:
		return "tuple"
	case TypeNameClosure:
		return "closure"
	case TypeNameGeneric:
		return "generic"
	case TypeNameComposition:
		return "composition"
	}
	return "unknown"
}

// TupleElement is a single, optionally named, tuple member.
type TupleElement struct {
	Name     string
	TypeName *TypeName
}

// TypeName is an immutable descriptor of a textual type reference. Name always
// holds the canonical text, which is regenerated from the parts by every
// constructor; it doubles as the display form and the resolution key.
//
// Only the fields relevant to Kind are populated.
type TypeName struct {
	Kind TypeNameKind
	Name string

	// Optional / ImplicitlyUnwrapped
	Wrapped *TypeName
	// Array
	Element *TypeName
	// Dictionary
	Key   *TypeName
	Value *TypeName
	// Tuple
	Elements []TupleElement
	// Closure parameters or Generic arguments
	Parameters []*TypeName
	Return     *TypeName
	Async      bool
	Throws     bool
	// Generic
	Base string
	// Composition
	Members []*TypeName
}

// NewTypeName returns a simple, named reference.
func NewTypeName(name string) *TypeName {
	return &TypeName{Kind: TypeNameSimple, Name: strings.TrimSpace(name)}
}

func OptionalOf(inner *TypeName) *TypeName {
	t := &TypeName{Kind: TypeNameOptional, Wrapped: inner}
	t.Name = t.render()
	return t
}

func ImplicitlyUnwrappedOf(inner *TypeName) *TypeName {
	t := &TypeName{Kind: TypeNameImplicitlyUnwrapped, Wrapped: inner}
	t.Name = t.render()
	return t
}

func ArrayOf(element *TypeName) *TypeName {
	t := &TypeName{Kind: TypeNameArray, Element: element}
	t.Name = t.render()
	return t
}

func DictionaryOf(key, value *TypeName) *TypeName {
	t := &TypeName{Kind: TypeNameDictionary, Key: key, Value: value}
	t.Name = t.render()
	return t
}

func TupleOf(elements ...TupleElement) *TypeName {
	t := &TypeName{Kind: TypeNameTuple, Elements: elements}
	t.Name = t.render()
	return t
}

// ClosureOf builds a closure reference; a nil ret is rendered as Void.
func ClosureOf(params []*TypeName, ret *TypeName, async, throws bool) *TypeName {
	if ret == nil {
		ret = NewTypeName("Void")
	}
	t := &TypeName{Kind: TypeNameClosure, Parameters: params, Return: ret, Async: async, Throws: throws}
	t.Name = t.render()
	return t
}

func GenericOf(base string, params ...*TypeName) *TypeName {
	t := &TypeName{Kind: TypeNameGeneric, Base: strings.TrimSpace(base), Parameters: params}
	t.Name = t.render()
	return t
}

func CompositionOf(members ...*TypeName) *TypeName {
	t := &TypeName{Kind: TypeNameComposition, Members: members}
	t.Name = t.render()
	return t
}

func (t *TypeName) String() string {
	if t == nil {
		return ""
	}
	return t.Name
}

// LookupName is the identifier used to find the declaration a reference names:
// the name itself for simple references, the wrapped name for optionals and the
// base name for generics. Other composite forms answer their canonical text,
// which never matches a declared type.
func (t *TypeName) LookupName() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeNameOptional, TypeNameImplicitlyUnwrapped:
		return t.Wrapped.LookupName()
	case TypeNameGeneric:
		return t.Base
	}
	return t.Name
}

// Unwrapped strips every optional layer.
func (t *TypeName) Unwrapped() *TypeName {
	for t != nil && (t.Kind == TypeNameOptional || t.Kind == TypeNameImplicitlyUnwrapped) {
		t = t.Wrapped
	}
	return t
}

func (t *TypeName) IsOptional() bool {
	return t != nil && (t.Kind == TypeNameOptional || t.Kind == TypeNameImplicitlyUnwrapped)
}

func (t *TypeName) IsVoid() bool {
	if t == nil {
		return true
	}
	return t.Name == "Void" || t.Name == "()"
}

// IsComposite reports whether the reference nests other references.
func (t *TypeName) IsComposite() bool {
	return t != nil && t.Kind != TypeNameSimple
}

// Validate reports the first nested reference with no name at all.
func (t *TypeName) Validate() error {
	if t == nil {
		return ErrEmptyTypeName
	}
	switch t.Kind {
	case TypeNameSimple:
		if t.Name == "" {
			return ErrEmptyTypeName
		}
	case TypeNameOptional, TypeNameImplicitlyUnwrapped:
		return t.Wrapped.Validate()
	case TypeNameArray:
		return t.Element.Validate()
	case TypeNameDictionary:
		if err := t.Key.Validate(); err != nil {
			return err
		}
		return t.Value.Validate()
	case TypeNameTuple:
		for _, e := range t.Elements {
			if err := e.TypeName.Validate(); err != nil {
				return err
			}
		}
	case TypeNameClosure:
		for _, p := range t.Parameters {
			if err := p.Validate(); err != nil {
				return err
			}
		}
		return t.Return.Validate()
	case TypeNameGeneric:
		if t.Base == "" {
			return ErrEmptyTypeName
		}
		for _, p := range t.Parameters {
			if err := p.Validate(); err != nil {
				return err
			}
		}
	case TypeNameComposition:
		if len(t.Members) == 0 {
			return ErrEmptyTypeName
		}
		for _, m := range t.Members {
			if err := m.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// MarshalYAML emits the canonical text.
func (t *TypeName) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *TypeName) render() string {
	switch t.Kind {
	case TypeNameOptional:
		return wrapIfNeeded(t.Wrapped) + "?"
	case TypeNameImplicitlyUnwrapped:
		return wrapIfNeeded(t.Wrapped) + "!"
	case TypeNameArray:
		return "[" + t.Element.String() + "]"
	case TypeNameDictionary:
		return "[" + t.Key.String() + ": " + t.Value.String() + "]"
	case TypeNameTuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			if e.Name != "" {
				parts[i] = e.Name + ": " + e.TypeName.String()
			} else {
				parts[i] = e.TypeName.String()
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case TypeNameClosure:
		var b strings.Builder
		b.WriteString("(")
		b.WriteString(joinNames(t.Parameters, ", "))
		b.WriteString(")")
		if t.Async {
			b.WriteString(" async")
		}
		if t.Throws {
			b.WriteString(" throws")
		}
		b.WriteString(" -> ")
		b.WriteString(t.Return.String())
		return b.String()
	case TypeNameGeneric:
		return t.Base + "<" + joinNames(t.Parameters, ", ") + ">"
	case TypeNameComposition:
		return joinNames(t.Members, " & ")
	}
	return t.Name
}

// wrapIfNeeded parenthesizes forms whose suffix would otherwise bind to a part.
func wrapIfNeeded(t *TypeName) string {
	if t != nil && (t.Kind == TypeNameClosure || t.Kind == TypeNameComposition) {
		return "(" + t.String() + ")"
	}
	return t.String()
}

func joinNames(names []*TypeName, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
