package composer

import (
	"sort"
	"strings"

	"github.com/cmmoran/typecompose/pkg/model"
)

// typeTable is the merged-type table. It is built once after merging and only
// read afterwards, so resolver goroutines share it without locking.
type typeTable struct {
	byGlobal map[string]*model.Type
	byName   map[string][]*model.Type // module-less name, declaration order
	modules  []string                 // sorted, distinct
	diags    *collector
}

func newTypeTable(order []*model.Type, diags *collector) *typeTable {
	tt := &typeTable{
		byGlobal: make(map[string]*model.Type, len(order)),
		byName:   make(map[string][]*model.Type, len(order)),
		diags:    diags,
	}
	modules := map[string]bool{}
	for _, t := range order {
		tt.byGlobal[t.GlobalName()] = t
		tt.byName[t.Name()] = append(tt.byName[t.Name()], t)
		if t.Module != "" && !modules[t.Module] {
			modules[t.Module] = true
			tt.modules = append(tt.modules, t.Module)
		}
	}
	sort.Strings(tt.modules)
	return tt
}

// find resolves a lookup name as seen from scope (the enclosing type, nil for
// free functions): exact global name, Self, containment walk, then the
// module-qualified forms.
func (tt *typeTable) find(name string, scope *model.Type) *model.Type {
	if name == "" {
		return nil
	}
	if t, ok := tt.byGlobal[name]; ok {
		return t
	}
	if scope != nil && name == "Self" {
		return scope
	}
	if scope != nil && strings.HasPrefix(name, "Self.") {
		return tt.find(strings.TrimPrefix(name, "Self."), scope)
	}
	for s := scope; s != nil; s = s.Parent {
		if t, ok := tt.byGlobal[s.GlobalName()+"."+name]; ok {
			return t
		}
	}
	return tt.findInModules(name, scope)
}

// findInModules tries the declaring module, then its imports in declaration
// order, then every other module by name. The first match wins.
func (tt *typeTable) findInModules(name string, scope *model.Type) *model.Type {
	if len(tt.modules) == 0 {
		return nil
	}
	var preferred []string
	if scope != nil {
		if scope.Module != "" {
			if t, ok := tt.byGlobal[scope.Module+"."+name]; ok {
				return t
			}
		}
		preferred = scope.Imports
	}

	tried := map[string]bool{}
	if scope != nil {
		tried[scope.Module] = true
	}
	var matches []*model.Type
	try := func(module string) {
		if tried[module] {
			return
		}
		tried[module] = true
		if t, ok := tt.byGlobal[module+"."+name]; ok {
			matches = append(matches, t)
		}
	}
	for _, module := range preferred {
		try(module)
	}
	for _, module := range tt.modules {
		try(module)
	}
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.GlobalName()
		}
		tt.diags.warn(AmbiguousReference, name, "%s matches %s; using %s", name, strings.Join(names, ", "), names[0])
	}
	return matches[0]
}

// named answers the declarations whose module-less name is name.
func (tt *typeTable) named(name string) []*model.Type {
	return tt.byName[name]
}
