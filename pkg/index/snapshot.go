package index

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/typecompose/pkg/composer"
	"github.com/cmmoran/typecompose/pkg/model"
)

// Snapshot is a deterministic, serializable view of a composed graph. Two runs
// over the same input produce equal snapshots.
type Snapshot struct {
	Types       []TypeSnapshot        `json:"types" yaml:"types"`
	Functions   []MemberSnapshot      `json:"functions,omitempty" yaml:"functions,omitempty"`
	Typealiases []AliasSnapshot       `json:"typealiases,omitempty" yaml:"typealiases,omitempty"`
	Diagnostics []composer.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type TypeSnapshot struct {
	Name       string           `json:"name" yaml:"name"`
	Kind       string           `json:"kind" yaml:"kind"`
	Access     string           `json:"access,omitempty" yaml:"access,omitempty"`
	Extension  bool             `json:"extension,omitempty" yaml:"extension,omitempty"`
	Inherited  []string         `json:"inherited,omitempty" yaml:"inherited,omitempty"`
	Supertype  string           `json:"supertype,omitempty" yaml:"supertype,omitempty"`
	Based      []string         `json:"based,omitempty" yaml:"based,omitempty"`
	Inherits   []string         `json:"inherits,omitempty" yaml:"inherits,omitempty"`
	Implements []string         `json:"implements,omitempty" yaml:"implements,omitempty"`
	RawType    string           `json:"raw_type,omitempty" yaml:"raw_type,omitempty"`
	Contained  []string         `json:"contained,omitempty" yaml:"contained,omitempty"`
	Members    []MemberSnapshot `json:"members,omitempty" yaml:"members,omitempty"`
}

// MemberSnapshot records a member's declared and resolved reference. Resolved
// is the global name of the resolved declaration, empty when unknown.
type MemberSnapshot struct {
	Kind      string `json:"kind" yaml:"kind"`
	Name      string `json:"name" yaml:"name"`
	TypeName  string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	Actual    string `json:"actual,omitempty" yaml:"actual,omitempty"`
	Resolved  string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	DefinedIn string `json:"defined_in,omitempty" yaml:"defined_in,omitempty"`

	Parameters []ParameterSnapshot `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type ParameterSnapshot struct {
	Name     string `json:"name" yaml:"name"`
	TypeName string `json:"type_name" yaml:"type_name"`
	Actual   string `json:"actual,omitempty" yaml:"actual,omitempty"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

type AliasSnapshot struct {
	Name     string `json:"name" yaml:"name"`
	Target   string `json:"target" yaml:"target"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

func (t *Types) Snapshot() *Snapshot {
	s := &Snapshot{Diagnostics: t.Diagnostics()}
	for _, typ := range t.All() {
		s.Types = append(s.Types, snapshotType(typ))
	}
	for _, fn := range t.Functions() {
		s.Functions = append(s.Functions, snapshotMethod(fn))
	}
	for _, a := range t.Typealiases() {
		s.Typealiases = append(s.Typealiases, AliasSnapshot{
			Name:     a.ScopedName(),
			Target:   a.TypeName.String(),
			Resolved: globalName(a.Type),
		})
	}
	return s
}

// YAML renders the snapshot.
func (s *Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

func snapshotType(t *model.Type) TypeSnapshot {
	ts := TypeSnapshot{
		Name:       t.GlobalName(),
		Kind:       t.Kind.String(),
		Access:     string(t.AccessLevel),
		Extension:  t.IsExtension,
		Inherited:  t.InheritedTypes,
		Supertype:  globalName(t.Supertype),
		Based:      sortedKeys(t.Based),
		Inherits:   sortedKeys(t.Inherits),
		Implements: sortedKeys(t.Implements),
	}
	if t.Enum.HasRawType() {
		ts.RawType = t.Enum.RawTypeName.String()
	}
	for _, c := range t.Types {
		ts.Contained = append(ts.Contained, c.LocalName)
	}
	for _, v := range t.Variables {
		ts.Members = append(ts.Members, MemberSnapshot{
			Kind:      "variable",
			Name:      v.Name,
			TypeName:  v.TypeName.String(),
			Actual:    v.ActualTypeName.String(),
			Resolved:  globalName(v.Type),
			DefinedIn: v.DefinedInTypeName.String(),
		})
	}
	for _, m := range t.Methods {
		ts.Members = append(ts.Members, snapshotMethod(m))
	}
	for i, sub := range t.Subscripts {
		ts.Members = append(ts.Members, MemberSnapshot{
			Kind:       "subscript",
			Name:       "subscript#" + strconv.Itoa(i),
			TypeName:   sub.ReturnTypeName.String(),
			Actual:     sub.ActualReturnTypeName.String(),
			Resolved:   globalName(sub.ReturnType),
			DefinedIn:  sub.DefinedInTypeName.String(),
			Parameters: snapshotParameters(sub.Parameters),
		})
	}
	for _, c := range t.Cases() {
		for i, av := range c.AssociatedValues {
			name := av.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			ts.Members = append(ts.Members, MemberSnapshot{
				Kind:     "case",
				Name:     c.Name + "." + name,
				TypeName: av.TypeName.String(),
				Actual:   av.ActualTypeName.String(),
				Resolved: globalName(av.Type),
			})
		}
	}
	return ts
}

func snapshotMethod(m *model.Method) MemberSnapshot {
	return MemberSnapshot{
		Kind:       "method",
		Name:       m.Name,
		TypeName:   m.ReturnTypeName.String(),
		Actual:     m.ActualReturnTypeName.String(),
		Resolved:   globalName(m.ReturnType),
		DefinedIn:  m.DefinedInTypeName.String(),
		Parameters: snapshotParameters(m.Parameters),
	}
}

func snapshotParameters(params []*model.MethodParameter) []ParameterSnapshot {
	var out []ParameterSnapshot
	for _, p := range params {
		out = append(out, ParameterSnapshot{
			Name:     p.Name,
			TypeName: p.TypeName.String(),
			Actual:   p.ActualTypeName.String(),
			Resolved: globalName(p.Type),
		})
	}
	return out
}

func globalName(t *model.Type) string {
	if t == nil {
		return ""
	}
	return t.GlobalName()
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
