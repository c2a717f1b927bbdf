package composer

import (
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/typecompose/internal/typename"
	"github.com/cmmoran/typecompose/pkg/model"
)

// resolver attaches resolved types to every reference. Each unit (a type, a
// free function or an alias) writes only its own records, so units run
// concurrently against the read-only type and alias tables.
type resolver struct {
	types   *typeTable
	aliases *aliasTable
	diags   *collector
}

func newResolver(types *typeTable, aliases *aliasTable, diags *collector) *resolver {
	return &resolver{types: types, aliases: aliases, diags: diags}
}

func (r *resolver) run(m *merged, opts *Options) {
	units := make([]func(), 0, len(m.types)+len(m.functions)+len(m.aliases))
	for _, t := range m.types {
		t := t
		units = append(units, func() { r.resolveType(t) })
	}
	for _, fn := range m.functions {
		fn := fn
		units = append(units, func() { r.resolveMethod(fn, nil) })
	}
	for _, a := range m.aliases {
		a := a
		units = append(units, func() { r.resolveAlias(a) })
	}

	if opts.Serial || opts.Workers == 1 {
		for _, u := range units {
			u()
		}
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(opts.Workers)
	for _, u := range units {
		u := u
		g.Go(func() error {
			u()
			return nil
		})
	}
	_ = g.Wait()
}

// resolve substitutes aliases and looks up the named declaration. actual is
// nil when substitution left the reference unchanged.
func (r *resolver) resolve(tn *model.TypeName, scope *model.Type) (actual *model.TypeName, resolved *model.Type) {
	if tn == nil {
		return nil, nil
	}
	substituted := r.aliases.substitute(tn, scope)
	if substituted.Name != tn.Name {
		actual = substituted
	}
	name, from := r.aliases.target(tn.LookupName(), scope)
	return actual, r.types.find(name, from)
}

func (r *resolver) resolveType(t *model.Type) {
	for _, v := range t.Variables {
		v.ActualTypeName, v.Type = r.resolve(v.TypeName, t)
	}
	for _, m := range t.Methods {
		r.resolveMethod(m, t)
	}
	for _, s := range t.Subscripts {
		r.resolveParameters(s.Parameters, t)
		s.ActualReturnTypeName, s.ReturnType = r.resolve(s.ReturnTypeName, t)
	}
	for _, c := range t.Cases() {
		for _, av := range c.AssociatedValues {
			av.ActualTypeName, av.Type = r.resolve(av.TypeName, t)
		}
	}
	if t.Protocol != nil {
		for _, at := range t.Protocol.AssociatedTypes {
			_, at.Type = r.resolve(at.TypeName, t)
		}
	}
	if t.Composition != nil {
		t.Composition.ComposedTypes = t.Composition.ComposedTypes[:0]
		for _, n := range t.Composition.ComposedTypeNames {
			if _, composed := r.resolve(n, t); composed != nil {
				t.Composition.ComposedTypes = append(t.Composition.ComposedTypes, composed)
			}
		}
	}
	if t.Kind == model.KindEnum {
		r.resolveRawType(t)
	}
}

// resolveMethod handles methods, initializers and free functions (scope nil).
func (r *resolver) resolveMethod(m *model.Method, scope *model.Type) {
	r.resolveParameters(m.Parameters, scope)
	if m.IsInitializer && scope != nil {
		ret := model.NewTypeName(scope.Name())
		if m.IsFailableInitializer {
			ret = model.OptionalOf(ret)
		}
		m.ReturnTypeName, m.ActualReturnTypeName, m.ReturnType = ret, nil, scope
		return
	}
	m.ActualReturnTypeName, m.ReturnType = r.resolve(m.ReturnTypeName, scope)
}

func (r *resolver) resolveParameters(params []*model.MethodParameter, scope *model.Type) {
	for _, p := range params {
		p.ActualTypeName, p.Type = r.resolve(p.TypeName, scope)
	}
}

func (r *resolver) resolveAlias(a *model.Typealias) {
	_, a.Type = r.resolve(a.TypeName, r.aliases.scopeOf(a))
}

// resolveRawType: an instance rawValue member decides directly; otherwise an
// enum with cases, none carrying associated values, takes its first inherited
// name unless that names a protocol.
func (r *resolver) resolveRawType(t *model.Type) {
	e := t.Enum
	e.RawTypeName, e.RawType = nil, nil

	for _, v := range t.Variables {
		if v.Name == "rawValue" && !v.IsStatic {
			e.RawTypeName, e.RawType = v.ResolvedTypeName(), v.Type
			return
		}
	}

	if len(e.Cases) == 0 || e.HasAssociatedValues() || len(t.InheritedTypes) == 0 {
		return
	}
	candidate, err := typename.Parse(t.InheritedTypes[0])
	if err != nil {
		candidate = model.NewTypeName(t.InheritedTypes[0])
	}
	actual, resolved := r.resolve(candidate, t)
	if resolved != nil && resolved.IsProtocolLike() {
		return
	}
	if actual != nil {
		candidate = actual
	}
	e.RawTypeName, e.RawType = candidate, resolved
}
