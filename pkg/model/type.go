package model

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTypeName = errors.New("type reference has no name")
	ErrEmptyTypeDecl = errors.New("type declaration has no name")
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindClass
	KindStruct
	KindEnum
	KindProtocol
	KindProtocolComposition
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindProtocol:
		return "protocol"
	case KindProtocolComposition:
		return "protocolComposition"
	}
	return "invalid"
}

// ParseKind accepts the names produced by Kind.String (case-insensitive).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class":
		return KindClass, true
	case "struct":
		return KindStruct, true
	case "enum":
		return KindEnum, true
	case "protocol":
		return KindProtocol, true
	case "protocolcomposition", "protocol_composition", "composition":
		return KindProtocolComposition, true
	}
	return KindInvalid, false
}

func (k Kind) IsClassLike() bool    { return k == KindClass }
func (k Kind) IsProtocolLike() bool { return k == KindProtocol || k == KindProtocolComposition }

type AccessLevel string

const (
	AccessNone        AccessLevel = ""
	AccessOpen        AccessLevel = "open"
	AccessPublic      AccessLevel = "public"
	AccessInternal    AccessLevel = "internal"
	AccessFilePrivate AccessLevel = "fileprivate"
	AccessPrivate     AccessLevel = "private"
)

// Type is the canonical record of a declared type. The shared base record is
// common to every kind; Enum, Protocol and Composition carry the kind-specific
// payload and are nil for the other kinds.
type Type struct {
	// Identity ------------------------------------------------------------
	Kind        Kind
	LocalName   string   // "Inner" for Outer.Inner
	Module      string   // declaring module, "" when unknown
	Imports     []string // modules imported by the declaring file
	AccessLevel AccessLevel
	File        string // declaring file path

	// Structure ------------------------------------------------------------
	IsExtension        bool
	IsUnknownExtension bool // stub synthesized for an extension with no primary declaration
	InheritedTypes     []string
	Variables          []*Variable
	Methods            []*Method
	Subscripts         []*Subscript
	Types              []*Type // contained (nested) types
	Parent             *Type

	Enum        *EnumDetail
	Protocol    *ProtocolDetail
	Composition *CompositionDetail

	// Resolution outputs ---------------------------------------------------
	Supertype  *Type
	Based      map[string]string
	BasedTypes map[string]*Type
	Inherits   map[string]*Type
	Implements map[string]*Type
}

// NewType returns a declaration shell with the kind payload allocated.
func NewType(kind Kind, localName string) *Type {
	t := &Type{Kind: kind, LocalName: localName}
	switch kind {
	case KindEnum:
		t.Enum = &EnumDetail{}
	case KindProtocol:
		t.Protocol = &ProtocolDetail{AssociatedTypes: map[string]*AssociatedType{}}
	case KindProtocolComposition:
		t.Composition = &CompositionDetail{}
	}
	return t
}

// Name is the type's name qualified by its enclosing types.
func (t *Type) Name() string {
	if t.Parent != nil {
		return t.Parent.Name() + "." + t.LocalName
	}
	return t.LocalName
}

// GlobalName is the module-qualified name; it keys the canonical declaration.
func (t *Type) GlobalName() string {
	if t.Module != "" {
		return t.Module + "." + t.Name()
	}
	return t.Name()
}

func (t *Type) IsClassLike() bool    { return t != nil && t.Kind.IsClassLike() }
func (t *Type) IsProtocolLike() bool { return t != nil && t.Kind.IsProtocolLike() }

// Contained returns the nested type declared under localName.
func (t *Type) Contained(localName string) *Type {
	for _, c := range t.Types {
		if c.LocalName == localName {
			return c
		}
	}
	return nil
}

func (t *Type) Variable(name string) *Variable {
	for _, v := range t.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (t *Type) Method(name string) *Method {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// InstanceVariables excludes static members.
func (t *Type) InstanceVariables() []*Variable {
	out := make([]*Variable, 0, len(t.Variables))
	for _, v := range t.Variables {
		if !v.IsStatic {
			out = append(out, v)
		}
	}
	return out
}

// IsBasedOn reports whether name is anywhere in the based-on closure.
func (t *Type) IsBasedOn(name string) bool {
	_, ok := t.Based[name]
	return ok
}

// Cases is empty for non-enum kinds.
func (t *Type) Cases() []*EnumCase {
	if t.Enum == nil {
		return nil
	}
	return t.Enum.Cases
}

// ResetRelations clears every relationship output.
func (t *Type) ResetRelations() {
	t.Supertype = nil
	t.Based = map[string]string{}
	t.BasedTypes = map[string]*Type{}
	t.Inherits = map[string]*Type{}
	t.Implements = map[string]*Type{}
}

// EnumCase is a single case; RawValue holds the raw literal text when present.
type EnumCase struct {
	Name             string
	RawValue         string
	AssociatedValues []*AssociatedValue
}

func (c *EnumCase) HasAssociatedValue() bool { return len(c.AssociatedValues) > 0 }

type AssociatedValue struct {
	Name           string // "" for positional values
	TypeName       *TypeName
	ActualTypeName *TypeName
	Type           *Type
}

type EnumDetail struct {
	Cases       []*EnumCase
	RawTypeName *TypeName
	RawType     *Type
}

func (e *EnumDetail) HasAssociatedValues() bool {
	for _, c := range e.Cases {
		if c.HasAssociatedValue() {
			return true
		}
	}
	return false
}

func (e *EnumDetail) HasRawType() bool { return e != nil && e.RawTypeName != nil }

// AssociatedType is a protocol requirement; TypeName is the optional constraint.
type AssociatedType struct {
	Name     string
	TypeName *TypeName
	Type     *Type
}

type ProtocolDetail struct {
	AssociatedTypes map[string]*AssociatedType
}

type CompositionDetail struct {
	ComposedTypeNames []*TypeName
	ComposedTypes     []*Type
}
