package composer

import (
	"sort"
	"strings"

	"github.com/cmmoran/typecompose/pkg/model"
)

// aliasTable maps scoped alias names ("Alias" or "Enclosing.Alias") to their
// declarations. It is complete before the reference resolver starts and is
// never written afterwards.
type aliasTable struct {
	entries map[string]*model.Typealias
	types   *typeTable
}

func newAliasTable(aliases []*model.Typealias, types *typeTable, diags *collector) *aliasTable {
	at := &aliasTable{entries: make(map[string]*model.Typealias, len(aliases)), types: types}
	for _, a := range aliases {
		key := a.ScopedName()
		if _, dup := at.entries[key]; dup {
			diags.warn(DuplicateDeclaration, key, "typealias %s is declared more than once; keeping the first", key)
			continue
		}
		at.entries[key] = a
	}

	keys := make([]string, 0, len(at.entries))
	for k := range at.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if cycle := at.cycleFrom(at.entries[k]); cycle != nil {
			diags.warn(AliasCycle, cycle[0], "typealias cycle %s", strings.Join(append(cycle, cycle[0]), " -> "))
		}
	}
	return at
}

// cycleFrom follows the simple-name chain starting at a and returns the
// cycle it ends in, rotated to start at its smallest member.
func (at *aliasTable) cycleFrom(a *model.Typealias) []string {
	var path []string
	index := map[string]int{}
	for a != nil {
		key := a.ScopedName()
		if i, ok := index[key]; ok {
			cycle := append([]string(nil), path[i:]...)
			smallest := 0
			for j, k := range cycle {
				if k < cycle[smallest] {
					smallest = j
				}
			}
			return append(cycle[smallest:], cycle[:smallest]...)
		}
		index[key] = len(path)
		path = append(path, key)
		target := a.TypeName
		if target.Kind != model.TypeNameSimple && target.Kind != model.TypeNameGeneric {
			return nil
		}
		a = at.lookup(target.LookupName(), at.scopeOf(a))
	}
	return nil
}

// lookup checks aliases visible from scope, innermost first, then the global scope.
func (at *aliasTable) lookup(name string, scope *model.Type) *model.Typealias {
	for s := scope; s != nil; s = s.Parent {
		if a, ok := at.entries[s.Name()+"."+name]; ok {
			return a
		}
	}
	return at.entries[name]
}

// scopeOf answers the enclosing type of a nested alias.
func (at *aliasTable) scopeOf(a *model.Typealias) *model.Type {
	if a.ParentName == "" || at.types == nil {
		return nil
	}
	if t, ok := at.types.byGlobal[a.ParentName]; ok {
		return t
	}
	if candidates := at.types.named(a.ParentName); len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// substitute replaces every alias reference in tn. It answers tn itself when
// nothing changes.
func (at *aliasTable) substitute(tn *model.TypeName, scope *model.Type) *model.TypeName {
	if tn == nil || len(at.entries) == 0 {
		return tn
	}
	return at.substituteIn(tn, scope, nil)
}

func (at *aliasTable) substituteIn(tn *model.TypeName, scope *model.Type, visited map[string]bool) *model.TypeName {
	switch tn.Kind {
	case model.TypeNameSimple:
		return at.follow(tn, scope, visited)
	case model.TypeNameOptional:
		if inner := at.substituteIn(tn.Wrapped, scope, visited); inner != tn.Wrapped {
			return model.OptionalOf(inner)
		}
	case model.TypeNameImplicitlyUnwrapped:
		if inner := at.substituteIn(tn.Wrapped, scope, visited); inner != tn.Wrapped {
			return model.ImplicitlyUnwrappedOf(inner)
		}
	case model.TypeNameArray:
		if elem := at.substituteIn(tn.Element, scope, visited); elem != tn.Element {
			return model.ArrayOf(elem)
		}
	case model.TypeNameDictionary:
		key := at.substituteIn(tn.Key, scope, visited)
		value := at.substituteIn(tn.Value, scope, visited)
		if key != tn.Key || value != tn.Value {
			return model.DictionaryOf(key, value)
		}
	case model.TypeNameTuple:
		changed := false
		elements := make([]model.TupleElement, len(tn.Elements))
		for i, e := range tn.Elements {
			elements[i] = model.TupleElement{Name: e.Name, TypeName: at.substituteIn(e.TypeName, scope, visited)}
			changed = changed || elements[i].TypeName != e.TypeName
		}
		if changed {
			return model.TupleOf(elements...)
		}
	case model.TypeNameClosure:
		params, changed := at.substituteAll(tn.Parameters, scope, visited)
		ret := at.substituteIn(tn.Return, scope, visited)
		if changed || ret != tn.Return {
			return model.ClosureOf(params, ret, tn.Async, tn.Throws)
		}
	case model.TypeNameGeneric:
		params, changed := at.substituteAll(tn.Parameters, scope, visited)
		base := tn.Base
		switch target := at.follow(model.NewTypeName(tn.Base), scope, visited); target.Kind {
		case model.TypeNameSimple:
			base = target.Name
		case model.TypeNameGeneric:
			base = target.Base
		}
		if changed || base != tn.Base {
			return model.GenericOf(base, params...)
		}
	case model.TypeNameComposition:
		members, changed := at.substituteAll(tn.Members, scope, visited)
		if changed {
			return model.CompositionOf(members...)
		}
	}
	return tn
}

func (at *aliasTable) substituteAll(names []*model.TypeName, scope *model.Type, visited map[string]bool) ([]*model.TypeName, bool) {
	out := make([]*model.TypeName, len(names))
	changed := false
	for i, n := range names {
		out[i] = at.substituteIn(n, scope, visited)
		changed = changed || out[i] != n
	}
	return out, changed
}

// follow substitutes a simple name until it no longer names an alias. A name
// already visited on this path stops the walk at the last distinct target.
func (at *aliasTable) follow(tn *model.TypeName, scope *model.Type, visited map[string]bool) *model.TypeName {
	seen := make(map[string]bool, len(visited)+1)
	for k := range visited {
		seen[k] = true
	}
	cur := tn
	for {
		a := at.lookup(cur.Name, scope)
		if a == nil {
			return cur
		}
		key := a.ScopedName()
		if seen[key] {
			return cur
		}
		seen[key] = true
		scope = at.scopeOf(a)
		if a.TypeName.Kind != model.TypeNameSimple {
			return at.substituteIn(a.TypeName, scope, seen)
		}
		cur = a.TypeName
	}
}

// target follows the alias chain of a lookup name and answers the name of the
// declaration it denotes together with the scope that name must be looked up
// from: the enclosing type of the last nested alias, else the given scope.
func (at *aliasTable) target(name string, scope *model.Type) (string, *model.Type) {
	seen := map[string]bool{}
	for {
		a := at.lookup(name, scope)
		if a == nil {
			return name, scope
		}
		key := a.ScopedName()
		if seen[key] {
			return name, scope
		}
		seen[key] = true
		name = a.TypeName.LookupName()
		if s := at.scopeOf(a); s != nil {
			scope = s
		}
	}
}
