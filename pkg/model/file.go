package model

// Typealias maps a scoped name to its target reference. ParentName is the
// name of the enclosing type for aliases declared inside a type, "" otherwise.
type Typealias struct {
	Name        string
	ParentName  string
	AccessLevel AccessLevel
	TypeName    *TypeName // target
	Type        *Type     // resolved target, nil when unknown
}

// ScopedName is the alias table key: "Name" or "Parent.Name".
func (a *Typealias) ScopedName() string {
	if a.ParentName != "" {
		return a.ParentName + "." + a.Name
	}
	return a.Name
}

// FileResult is the independently parsed view of a single source file, as
// produced by the parsing collaborator.
type FileResult struct {
	Path        string
	Module      string
	Imports     []string
	Types       []*Type
	Functions   []*Method
	Typealiases []*Typealias
}
