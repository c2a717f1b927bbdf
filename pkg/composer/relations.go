package composer

import (
	"github.com/cmmoran/typecompose/internal/typename"
	"github.com/cmmoran/typecompose/pkg/model"
)

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// relationBuilder computes supertype, based, inherits and implements. The
// memo is shared across types, so it runs as one coordinated pass.
type relationBuilder struct {
	types   *typeTable
	aliases *aliasTable
	diags   *collector
	state   map[*model.Type]visitState
	cyclic  bool
}

func newRelationBuilder(types *typeTable, aliases *aliasTable, diags *collector) *relationBuilder {
	return &relationBuilder{types: types, aliases: aliases, diags: diags, state: map[*model.Type]visitState{}}
}

func (b *relationBuilder) build(types []*model.Type) {
	for _, t := range types {
		t.ResetRelations()
	}
	for _, t := range types {
		if t.IsClassLike() {
			b.setSupertype(t)
		}
	}
	for _, t := range types {
		b.visit(t)
	}
	if b.cyclic {
		b.closeCycles(types)
	}
}

// setSupertype takes the first inherited name naming a known class.
func (b *relationBuilder) setSupertype(t *model.Type) {
	for _, name := range t.InheritedTypes {
		if _, base := b.findBaseType(name, t); base != nil && base.IsClassLike() {
			t.Supertype = base
			return
		}
	}
}

func (b *relationBuilder) visit(t *model.Type) {
	if b.state[t] != unvisited {
		return
	}
	b.state[t] = inProgress

	for _, name := range t.InheritedTypes {
		key, base := b.findBaseType(name, t)
		t.Based[key] = key
		if base == nil {
			continue
		}

		if b.state[base] == inProgress {
			b.cyclic = true
			b.diags.warn(InheritanceCycle, t.GlobalName(), "%s and %s inherit from each other", t.GlobalName(), base.GlobalName())
		} else {
			b.visit(base)
		}

		t.BasedTypes[key] = base
		union(t.Based, base.Based)
		union(t.BasedTypes, base.BasedTypes)
		union(t.Inherits, base.Inherits)
		union(t.Implements, base.Implements)

		switch {
		case base.IsClassLike():
			t.Inherits[base.GlobalName()] = base
		case base.IsProtocolLike():
			t.Implements[base.GlobalName()] = base
		}

		if t.Protocol != nil && base.Protocol != nil {
			for k, at := range base.Protocol.AssociatedTypes {
				if _, ok := t.Protocol.AssociatedTypes[k]; !ok {
					t.Protocol.AssociatedTypes[k] = at
				}
			}
		}
	}

	b.state[t] = done
}

// findBaseType strips generic arguments and aliases from an inherited name and
// looks the remainder up from the declaring type's scope. key is the name the
// ancestor is recorded under in Based: the global name of a known ancestor,
// the written name otherwise.
func (b *relationBuilder) findBaseType(name string, t *model.Type) (key string, base *model.Type) {
	key = typename.LookupName(name)
	if key == "" {
		return name, nil
	}
	lookup, from := b.aliases.target(key, t.Parent)
	if from != nil {
		base = b.types.find(lookup, from)
	} else if base = b.types.byGlobal[lookup]; base == nil {
		base = b.types.findInModules(lookup, t)
	}
	if base != nil {
		key = base.GlobalName()
	}
	return key, base
}

// closeCycles re-unions ancestor closures until nothing changes. Only cycle
// members can be incomplete after the first pass, since a type reached while
// still in progress contributes a partial closure.
func (b *relationBuilder) closeCycles(types []*model.Type) {
	for changed := true; changed; {
		changed = false
		for _, t := range types {
			for _, base := range t.BasedTypes {
				changed = union(t.Based, base.Based) || changed
				changed = union(t.BasedTypes, base.BasedTypes) || changed
				changed = union(t.Inherits, base.Inherits) || changed
				changed = union(t.Implements, base.Implements) || changed
			}
		}
	}
}

func union[V any](dst, src map[string]V) bool {
	added := false
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
			added = true
		}
	}
	return added
}
