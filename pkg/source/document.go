// Package source decodes the per-file declaration documents written by the
// parsing collaborator. Documents are YAML (JSON is accepted as a subset); one
// stream may hold several documents separated by "---".
package source

// FileDoc is the serialized form of one parsed source file.
type FileDoc struct {
	Path        string         `yaml:"path" json:"path"`
	Module      string         `yaml:"module,omitempty" json:"module,omitempty"`
	Imports     []string       `yaml:"imports,omitempty" json:"imports,omitempty"`
	Types       []TypeDoc      `yaml:"types,omitempty" json:"types,omitempty"`
	Functions   []MethodDoc    `yaml:"functions,omitempty" json:"functions,omitempty"`
	Typealiases []TypealiasDoc `yaml:"typealiases,omitempty" json:"typealiases,omitempty"`
}

type TypeDoc struct {
	Kind            string              `yaml:"kind" json:"kind"`
	Name            string              `yaml:"name" json:"name"`
	Module          string              `yaml:"module,omitempty" json:"module,omitempty"`
	Access          string              `yaml:"access,omitempty" json:"access,omitempty"`
	Extension       bool                `yaml:"extension,omitempty" json:"extension,omitempty"`
	Inherits        []string            `yaml:"inherits,omitempty" json:"inherits,omitempty"`
	Variables       []VariableDoc       `yaml:"variables,omitempty" json:"variables,omitempty"`
	Methods         []MethodDoc         `yaml:"methods,omitempty" json:"methods,omitempty"`
	Subscripts      []SubscriptDoc      `yaml:"subscripts,omitempty" json:"subscripts,omitempty"`
	Cases           []CaseDoc           `yaml:"cases,omitempty" json:"cases,omitempty"`
	AssociatedTypes []AssociatedTypeDoc `yaml:"associated_types,omitempty" json:"associated_types,omitempty"`
	Composed        []string            `yaml:"composed,omitempty" json:"composed,omitempty"`
	Typealiases     []TypealiasDoc      `yaml:"typealiases,omitempty" json:"typealiases,omitempty"`
	Types           []TypeDoc           `yaml:"types,omitempty" json:"types,omitempty"`
}

type VariableDoc struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Static   bool   `yaml:"static,omitempty" json:"static,omitempty"`
	Computed bool   `yaml:"computed,omitempty" json:"computed,omitempty"`
	Read     string `yaml:"read,omitempty" json:"read,omitempty"`
	Write    string `yaml:"write,omitempty" json:"write,omitempty"`
}

type ParameterDoc struct {
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
	Inout bool   `yaml:"inout,omitempty" json:"inout,omitempty"`
}

type MethodDoc struct {
	Name        string         `yaml:"name" json:"name"`
	Parameters  []ParameterDoc `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Returns     string         `yaml:"returns,omitempty" json:"returns,omitempty"`
	Static      bool           `yaml:"static,omitempty" json:"static,omitempty"`
	Class       bool           `yaml:"class,omitempty" json:"class,omitempty"`
	Initializer bool           `yaml:"initializer,omitempty" json:"initializer,omitempty"`
	Failable    bool           `yaml:"failable,omitempty" json:"failable,omitempty"`
	Async       bool           `yaml:"async,omitempty" json:"async,omitempty"`
	Throws      bool           `yaml:"throws,omitempty" json:"throws,omitempty"`
	Access      string         `yaml:"access,omitempty" json:"access,omitempty"`
}

type SubscriptDoc struct {
	Parameters []ParameterDoc `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Returns    string         `yaml:"returns" json:"returns"`
	Read       string         `yaml:"read,omitempty" json:"read,omitempty"`
	Write      string         `yaml:"write,omitempty" json:"write,omitempty"`
}

type CaseDoc struct {
	Name     string            `yaml:"name" json:"name"`
	RawValue string            `yaml:"raw_value,omitempty" json:"raw_value,omitempty"`
	Values   []AssociatedValue `yaml:"values,omitempty" json:"values,omitempty"`
}

type AssociatedValue struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`
}

type AssociatedTypeDoc struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

type TypealiasDoc struct {
	Name   string `yaml:"name" json:"name"`
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"`
	Access string `yaml:"access,omitempty" json:"access,omitempty"`
	Type   string `yaml:"type" json:"type"`
}
