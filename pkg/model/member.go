package model

// Variable is a stored or computed property.
type Variable struct {
	Name           string
	TypeName       *TypeName // as declared
	ActualTypeName *TypeName // after alias substitution, nil when identical
	Type           *Type     // resolved declaration, nil for unknown/external types
	IsStatic       bool
	IsComputed     bool
	ReadAccess     AccessLevel
	WriteAccess    AccessLevel // AccessNone for read-only

	DefinedInTypeName *TypeName
	DefinedInType     *Type
}

func (v *Variable) IsMutable() bool { return v.WriteAccess != AccessNone }

// ResolvedTypeName prefers the alias-substituted form.
func (v *Variable) ResolvedTypeName() *TypeName {
	if v.ActualTypeName != nil {
		return v.ActualTypeName
	}
	return v.TypeName
}

type MethodParameter struct {
	ArgumentLabel  string
	Name           string
	TypeName       *TypeName
	ActualTypeName *TypeName
	Type           *Type
	IsInout        bool
}

// Method covers methods, initializers and free functions.
type Method struct {
	Name                  string // selector form, e.g. "load(from:)"
	Parameters            []*MethodParameter
	ReturnTypeName        *TypeName
	ActualReturnTypeName  *TypeName
	ReturnType            *Type
	IsStatic              bool
	IsClass               bool
	IsInitializer         bool
	IsFailableInitializer bool
	IsAsync               bool
	Throws                bool
	AccessLevel           AccessLevel

	DefinedInTypeName *TypeName
	DefinedInType     *Type
}

// ShortName is the selector name without its argument list.
func (m *Method) ShortName() string {
	for i := 0; i < len(m.Name); i++ {
		if m.Name[i] == '(' {
			return m.Name[:i]
		}
	}
	return m.Name
}

// IsFreeFunction reports whether the method was declared outside any type.
func (m *Method) IsFreeFunction() bool { return m.DefinedInTypeName == nil }

type Subscript struct {
	Parameters           []*MethodParameter
	ReturnTypeName       *TypeName
	ActualReturnTypeName *TypeName
	ReturnType           *Type
	ReadAccess           AccessLevel
	WriteAccess          AccessLevel

	DefinedInTypeName *TypeName
	DefinedInType     *Type
}
