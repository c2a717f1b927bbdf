package model

// Clone deep-copies the structural shape of a declaration and its nested
// types. TypeNames are immutable and shared; resolution outputs are dropped so
// a clone is always a fresh, unresolved record.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	c := &Type{
		Kind:               t.Kind,
		LocalName:          t.LocalName,
		Module:             t.Module,
		Imports:            append([]string(nil), t.Imports...),
		AccessLevel:        t.AccessLevel,
		File:               t.File,
		IsExtension:        t.IsExtension,
		IsUnknownExtension: t.IsUnknownExtension,
		InheritedTypes:     append([]string(nil), t.InheritedTypes...),
	}
	for _, v := range t.Variables {
		c.Variables = append(c.Variables, v.Clone())
	}
	for _, m := range t.Methods {
		c.Methods = append(c.Methods, m.Clone())
	}
	for _, s := range t.Subscripts {
		c.Subscripts = append(c.Subscripts, s.Clone())
	}
	for _, nested := range t.Types {
		n := nested.Clone()
		n.Parent = c
		c.Types = append(c.Types, n)
	}
	if t.Enum != nil {
		c.Enum = &EnumDetail{}
		for _, ec := range t.Enum.Cases {
			cc := &EnumCase{Name: ec.Name, RawValue: ec.RawValue}
			for _, av := range ec.AssociatedValues {
				cc.AssociatedValues = append(cc.AssociatedValues, &AssociatedValue{Name: av.Name, TypeName: av.TypeName})
			}
			c.Enum.Cases = append(c.Enum.Cases, cc)
		}
	}
	if t.Protocol != nil {
		c.Protocol = &ProtocolDetail{AssociatedTypes: make(map[string]*AssociatedType, len(t.Protocol.AssociatedTypes))}
		for k, at := range t.Protocol.AssociatedTypes {
			c.Protocol.AssociatedTypes[k] = &AssociatedType{Name: at.Name, TypeName: at.TypeName}
		}
	}
	if t.Composition != nil {
		c.Composition = &CompositionDetail{
			ComposedTypeNames: append([]*TypeName(nil), t.Composition.ComposedTypeNames...),
		}
	}
	c.ResetRelations()
	return c
}

func (v *Variable) Clone() *Variable {
	return &Variable{
		Name:              v.Name,
		TypeName:          v.TypeName,
		IsStatic:          v.IsStatic,
		IsComputed:        v.IsComputed,
		ReadAccess:        v.ReadAccess,
		WriteAccess:       v.WriteAccess,
		DefinedInTypeName: v.DefinedInTypeName,
	}
}

func (m *Method) Clone() *Method {
	return &Method{
		Name:                  m.Name,
		Parameters:            cloneParameters(m.Parameters),
		ReturnTypeName:        m.ReturnTypeName,
		IsStatic:              m.IsStatic,
		IsClass:               m.IsClass,
		IsInitializer:         m.IsInitializer,
		IsFailableInitializer: m.IsFailableInitializer,
		IsAsync:               m.IsAsync,
		Throws:                m.Throws,
		AccessLevel:           m.AccessLevel,
		DefinedInTypeName:     m.DefinedInTypeName,
	}
}

func (s *Subscript) Clone() *Subscript {
	return &Subscript{
		Parameters:        cloneParameters(s.Parameters),
		ReturnTypeName:    s.ReturnTypeName,
		ReadAccess:        s.ReadAccess,
		WriteAccess:       s.WriteAccess,
		DefinedInTypeName: s.DefinedInTypeName,
	}
}

func (a *Typealias) Clone() *Typealias {
	return &Typealias{
		Name:        a.Name,
		ParentName:  a.ParentName,
		AccessLevel: a.AccessLevel,
		TypeName:    a.TypeName,
	}
}

func cloneParameters(params []*MethodParameter) []*MethodParameter {
	if params == nil {
		return nil
	}
	out := make([]*MethodParameter, len(params))
	for i, p := range params {
		out[i] = &MethodParameter{
			ArgumentLabel: p.ArgumentLabel,
			Name:          p.Name,
			TypeName:      p.TypeName,
			IsInout:       p.IsInout,
		}
	}
	return out
}
