package composer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/cmmoran/typecompose/pkg/model"
)

// ErrContractViolation marks malformed input that aborts the whole composition.
var ErrContractViolation = errors.New("input contract violation")

func violation(format string, args ...any) error {
	return errors.Wrapf(ErrContractViolation, format, args...)
}

// merged is the output of the declaration merger: one canonical type per
// global name, plus the free functions and aliases of every file.
type merged struct {
	types     []*model.Type // sorted by global name
	order     []*model.Type // first-appearance order
	functions []*model.Method
	aliases   []*model.Typealias
}

type group struct {
	primaries  []*model.Type
	extensions []*model.Type
}

type merger struct {
	opts  *Options
	diags *collector
}

func newMerger(opts *Options, diags *collector) *merger {
	return &merger{opts: opts, diags: diags}
}

func (m *merger) merge(files []*model.FileResult) (*merged, error) {
	groups := map[string]*group{}
	var names []string
	out := &merged{}

	for _, f := range files {
		if f == nil {
			continue
		}
		for _, decl := range f.Types {
			if err := validateType(decl, f.Path); err != nil {
				return nil, err
			}
			root := decl.Clone()
			stampOrigin(root, f)
			for _, t := range flatten(root) {
				if omit, reason := shouldOmitType(t, m.opts); omit || omittedAncestor(t, m.opts) {
					if omit {
						m.diags.info(Excluded, t.GlobalName(), "skipped %s (%s)", t.GlobalName(), reason)
					}
					continue
				}
				gn := t.GlobalName()
				g, ok := groups[gn]
				if !ok {
					g = &group{}
					groups[gn] = g
					names = append(names, gn)
				}
				if t.IsExtension {
					g.extensions = append(g.extensions, t)
				} else {
					g.primaries = append(g.primaries, t)
				}
			}
		}
		for _, fn := range f.Functions {
			if err := validateMethod(fn, f.Path); err != nil {
				return nil, err
			}
			out.functions = append(out.functions, fn.Clone())
		}
		for _, a := range f.Typealiases {
			if err := validateAlias(a, f.Path); err != nil {
				return nil, err
			}
			out.aliases = append(out.aliases, a.Clone())
		}
	}

	canonical := map[string]*model.Type{}
	dropped := map[string]bool{}
	for _, gn := range names {
		g := groups[gn]
		if t := m.fold(gn, g, dropped); t != nil {
			canonical[gn] = t
			out.order = append(out.order, t)
		} else {
			dropped[gn] = true
		}
	}

	// re-parent contained types onto canonical declarations
	for _, t := range out.order {
		t.Types = nil
	}
	kept := out.order[:0]
	for _, t := range out.order {
		if t.Parent == nil {
			kept = append(kept, t)
			continue
		}
		parent, ok := canonical[t.Parent.GlobalName()]
		if !ok {
			m.diags.warn(MergeAmbiguity, t.GlobalName(), "dropped %s: enclosing type %s was dropped", t.GlobalName(), t.Parent.GlobalName())
			delete(canonical, t.GlobalName())
			continue
		}
		t.Parent = parent
		parent.Types = append(parent.Types, t)
		kept = append(kept, t)
	}
	out.order = kept

	out.types = append([]*model.Type(nil), out.order...)
	sort.SliceStable(out.types, func(i, j int) bool {
		return out.types[i].GlobalName() < out.types[j].GlobalName()
	})
	sort.SliceStable(out.functions, func(i, j int) bool {
		return out.functions[i].Name < out.functions[j].Name
	})
	return out, nil
}

// fold builds the canonical type of one group; nil means the group is dropped.
func (m *merger) fold(gn string, g *group, dropped map[string]bool) *model.Type {
	if g.primaries == nil && g.extensions != nil && g.extensions[0].Parent != nil && dropped[g.extensions[0].Parent.GlobalName()] {
		return nil
	}

	var canonical *model.Type
	rest := g.extensions
	switch {
	case len(g.primaries) > 0:
		canonical = g.primaries[0]
		for _, dup := range g.primaries[1:] {
			m.diags.warn(DuplicateDeclaration, gn, "%s is declared in %s and %s; folding the later declaration as an extension", gn, canonical.File, dup.File)
		}
		rest = append(append([]*model.Type(nil), g.primaries[1:]...), g.extensions...)
	case m.opts.OrphanPolicy == OrphanStub:
		canonical = g.extensions[0]
		canonical.IsUnknownExtension = true
		rest = g.extensions[1:]
		m.diags.warn(MergeAmbiguity, gn, "extension of unknown type %s kept as a stub", gn)
	default:
		m.diags.warn(MergeAmbiguity, gn, "dropped extension of unknown type %s", gn)
		return nil
	}

	definedIn := model.NewTypeName(canonical.Name())
	adopt := func(t *model.Type) {
		for _, v := range t.Variables {
			if v.DefinedInTypeName == nil {
				v.DefinedInTypeName = definedIn
			}
			v.DefinedInType = canonical
		}
		for _, mt := range t.Methods {
			if mt.DefinedInTypeName == nil {
				mt.DefinedInTypeName = definedIn
			}
			mt.DefinedInType = canonical
		}
		for _, s := range t.Subscripts {
			if s.DefinedInTypeName == nil {
				s.DefinedInTypeName = definedIn
			}
			s.DefinedInType = canonical
		}
	}
	adopt(canonical)

	seen := map[string]bool{}
	inherited := make([]string, 0, len(canonical.InheritedTypes))
	addInherited := func(names []string) {
		for _, n := range names {
			n = strings.TrimSpace(n)
			if !seen[n] {
				seen[n] = true
				inherited = append(inherited, n)
			}
		}
	}
	addInherited(canonical.InheritedTypes)

	for _, ext := range rest {
		adopt(ext)
		canonical.Variables = append(canonical.Variables, ext.Variables...)
		canonical.Methods = append(canonical.Methods, ext.Methods...)
		canonical.Subscripts = append(canonical.Subscripts, ext.Subscripts...)
		addInherited(ext.InheritedTypes)
		if canonical.Protocol != nil && ext.Protocol != nil {
			for k, at := range ext.Protocol.AssociatedTypes {
				if _, ok := canonical.Protocol.AssociatedTypes[k]; !ok {
					canonical.Protocol.AssociatedTypes[k] = at
				}
			}
		}
		if canonical.Enum != nil && ext.Enum != nil {
			canonical.Enum.Cases = append(canonical.Enum.Cases, ext.Enum.Cases...)
		}
	}

	if canonical.Composition != nil && len(inherited) == 0 {
		for _, n := range canonical.Composition.ComposedTypeNames {
			addInherited([]string{n.Name})
		}
	}
	canonical.InheritedTypes = inherited
	return canonical
}

// flatten lists a declaration followed by all of its nested declarations.
func flatten(t *model.Type) []*model.Type {
	out := []*model.Type{t}
	for _, nested := range t.Types {
		out = append(out, flatten(nested)...)
	}
	return out
}

// stampOrigin fills module, imports and file from the declaring file where the
// collaborator left them empty.
func stampOrigin(t *model.Type, f *model.FileResult) {
	if t.Module == "" {
		if t.Parent != nil {
			t.Module = t.Parent.Module
		} else {
			t.Module = f.Module
		}
	}
	if len(t.Imports) == 0 {
		t.Imports = append([]string(nil), f.Imports...)
	}
	if t.File == "" {
		t.File = f.Path
	}
	for _, nested := range t.Types {
		stampOrigin(nested, f)
	}
}

func omittedAncestor(t *model.Type, opts *Options) bool {
	for p := t.Parent; p != nil; p = p.Parent {
		if omit, _ := shouldOmitType(p, opts); omit {
			return true
		}
	}
	return false
}

func validateType(t *model.Type, file string) error {
	if t == nil {
		return violation("%s: nil type declaration", file)
	}
	if strings.TrimSpace(t.LocalName) == "" {
		return violation("%s: %v", file, model.ErrEmptyTypeDecl)
	}
	if t.Kind == model.KindInvalid {
		return violation("%s: %s has no kind", file, t.Name())
	}
	where := file + ": " + t.Name()
	for _, n := range t.InheritedTypes {
		if strings.TrimSpace(n) == "" {
			return violation("%s: empty inherited type name", where)
		}
	}
	for _, v := range t.Variables {
		if err := validateTypeName(v.TypeName, where+"."+v.Name); err != nil {
			return err
		}
	}
	for _, mt := range t.Methods {
		if err := validateMethod(mt, where); err != nil {
			return err
		}
	}
	for _, s := range t.Subscripts {
		for _, p := range s.Parameters {
			if err := validateTypeName(p.TypeName, where+".subscript("+p.Name+")"); err != nil {
				return err
			}
		}
		if err := validateTypeName(s.ReturnTypeName, where+".subscript"); err != nil {
			return err
		}
	}
	for _, c := range t.Cases() {
		for _, av := range c.AssociatedValues {
			if err := validateTypeName(av.TypeName, where+"."+c.Name); err != nil {
				return err
			}
		}
	}
	if t.Composition != nil {
		for _, n := range t.Composition.ComposedTypeNames {
			if err := validateTypeName(n, where); err != nil {
				return err
			}
		}
	}
	for _, nested := range t.Types {
		if err := validateType(nested, file); err != nil {
			return err
		}
	}
	return nil
}

// validateMethod accepts a nil return type (Void) but no nameless reference.
func validateMethod(mt *model.Method, where string) error {
	if mt == nil || mt.Name == "" {
		return violation("%s: method without a name", where)
	}
	where = where + "." + mt.Name
	for _, p := range mt.Parameters {
		if err := validateTypeName(p.TypeName, where+"("+p.Name+")"); err != nil {
			return err
		}
	}
	if mt.ReturnTypeName != nil {
		return validateTypeName(mt.ReturnTypeName, where)
	}
	return nil
}

func validateAlias(a *model.Typealias, file string) error {
	if a == nil || a.Name == "" {
		return violation("%s: typealias without a name", file)
	}
	return validateTypeName(a.TypeName, file+": typealias "+a.ScopedName())
}

func validateTypeName(t *model.TypeName, where string) error {
	if err := t.Validate(); err != nil {
		return errors.Wrapf(ErrContractViolation, "%s: %v", where, err)
	}
	return nil
}
