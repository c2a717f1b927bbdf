package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/typecompose/internal/typename"
	"github.com/cmmoran/typecompose/pkg/model"
)

// Extensions lists the document file extensions LoadDir picks up.
var Extensions = []string{".yaml", ".yml", ".json"}

// Decode reads every document of a stream. origin names the stream in errors.
func Decode(r io.Reader, origin string) ([]*model.FileResult, error) {
	dec := yaml.NewDecoder(r)
	var out []*model.FileResult
	for i := 0; ; i++ {
		var doc FileDoc
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: document %d", origin, i)
		}
		if doc.Path == "" {
			doc.Path = origin
		}
		f, err := doc.FileResult()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: document %d", origin, i)
		}
		out = append(out, f)
	}
	return out, nil
}

func LoadFile(path string) ([]*model.FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read declarations")
	}
	return Decode(bytes.NewReader(data), path)
}

// LoadDir loads every document below dir in lexical path order.
func LoadDir(dir string) ([]*model.FileResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range Extensions {
			if ext == e {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}
	sort.Strings(paths)

	var out []*model.FileResult
	for _, p := range paths {
		files, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// FileResult converts the document into model records, parsing every type
// reference. An empty reference stays nil; the composer decides whether that
// is acceptable.
func (d *FileDoc) FileResult() (*model.FileResult, error) {
	f := &model.FileResult{
		Path:    d.Path,
		Module:  d.Module,
		Imports: d.Imports,
	}
	for _, td := range d.Types {
		t, aliases, err := td.convert(nil)
		if err != nil {
			return nil, err
		}
		f.Types = append(f.Types, t)
		f.Typealiases = append(f.Typealiases, aliases...)
	}
	for _, md := range d.Functions {
		m, err := md.convert()
		if err != nil {
			return nil, err
		}
		f.Functions = append(f.Functions, m)
	}
	for _, ad := range d.Typealiases {
		a, err := ad.convert("")
		if err != nil {
			return nil, err
		}
		f.Typealiases = append(f.Typealiases, a)
	}
	return f, nil
}

func (td *TypeDoc) convert(parent *model.Type) (*model.Type, []*model.Typealias, error) {
	kind, ok := model.ParseKind(td.Kind)
	if !ok {
		return nil, nil, errors.Errorf("type %q: unknown kind %q", td.Name, td.Kind)
	}
	t := model.NewType(kind, td.Name)
	t.Parent = parent
	t.Module = td.Module
	t.AccessLevel = model.AccessLevel(strings.ToLower(td.Access))
	t.IsExtension = td.Extension
	t.InheritedTypes = append([]string(nil), td.Inherits...)

	var err error
	for _, vd := range td.Variables {
		v := &model.Variable{
			Name:        vd.Name,
			IsStatic:    vd.Static,
			IsComputed:  vd.Computed,
			ReadAccess:  model.AccessLevel(strings.ToLower(vd.Read)),
			WriteAccess: model.AccessLevel(strings.ToLower(vd.Write)),
		}
		if v.TypeName, err = parseRef(vd.Type, td.Name+"."+vd.Name); err != nil {
			return nil, nil, err
		}
		t.Variables = append(t.Variables, v)
	}
	for _, md := range td.Methods {
		m, err := md.convert()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "type %q", td.Name)
		}
		t.Methods = append(t.Methods, m)
	}
	for i, sd := range td.Subscripts {
		s := &model.Subscript{
			ReadAccess:  model.AccessLevel(strings.ToLower(sd.Read)),
			WriteAccess: model.AccessLevel(strings.ToLower(sd.Write)),
		}
		where := td.Name + ".subscript"
		if s.Parameters, err = convertParameters(sd.Parameters, where); err != nil {
			return nil, nil, err
		}
		if s.ReturnTypeName, err = parseRef(sd.Returns, where); err != nil {
			return nil, nil, errors.Wrapf(err, "subscript %d", i)
		}
		t.Subscripts = append(t.Subscripts, s)
	}
	if len(td.Cases) > 0 {
		if t.Enum == nil {
			return nil, nil, errors.Errorf("type %q: cases on a %s", td.Name, kind)
		}
		for _, cd := range td.Cases {
			c := &model.EnumCase{Name: cd.Name, RawValue: cd.RawValue}
			for _, av := range cd.Values {
				tn, err := parseRef(av.Type, td.Name+"."+cd.Name)
				if err != nil {
					return nil, nil, err
				}
				c.AssociatedValues = append(c.AssociatedValues, &model.AssociatedValue{Name: av.Name, TypeName: tn})
			}
			t.Enum.Cases = append(t.Enum.Cases, c)
		}
	}
	if len(td.AssociatedTypes) > 0 {
		if t.Protocol == nil {
			return nil, nil, errors.Errorf("type %q: associated types on a %s", td.Name, kind)
		}
		for _, ad := range td.AssociatedTypes {
			at := &model.AssociatedType{Name: ad.Name}
			if ad.Type != "" {
				if at.TypeName, err = parseRef(ad.Type, td.Name+"."+ad.Name); err != nil {
					return nil, nil, err
				}
			}
			t.Protocol.AssociatedTypes[ad.Name] = at
		}
	}
	if len(td.Composed) > 0 {
		if t.Composition == nil {
			return nil, nil, errors.Errorf("type %q: composed types on a %s", td.Name, kind)
		}
		for _, name := range td.Composed {
			tn, err := parseRef(name, td.Name)
			if err != nil {
				return nil, nil, err
			}
			t.Composition.ComposedTypeNames = append(t.Composition.ComposedTypeNames, tn)
		}
	}

	var aliases []*model.Typealias
	for _, ad := range td.Typealiases {
		a, err := ad.convert(t.Name())
		if err != nil {
			return nil, nil, err
		}
		aliases = append(aliases, a)
	}
	for _, nd := range td.Types {
		nested, nestedAliases, err := nd.convert(t)
		if err != nil {
			return nil, nil, err
		}
		t.Types = append(t.Types, nested)
		aliases = append(aliases, nestedAliases...)
	}
	return t, aliases, nil
}

func (md *MethodDoc) convert() (*model.Method, error) {
	m := &model.Method{
		Name:                  md.Name,
		IsStatic:              md.Static,
		IsClass:               md.Class,
		IsInitializer:         md.Initializer,
		IsFailableInitializer: md.Failable,
		IsAsync:               md.Async,
		Throws:                md.Throws,
		AccessLevel:           model.AccessLevel(strings.ToLower(md.Access)),
	}
	var err error
	if m.Parameters, err = convertParameters(md.Parameters, md.Name); err != nil {
		return nil, err
	}
	if m.ReturnTypeName, err = parseRef(md.Returns, md.Name); err != nil {
		return nil, err
	}
	return m, nil
}

func (ad *TypealiasDoc) convert(parent string) (*model.Typealias, error) {
	a := &model.Typealias{Name: ad.Name, ParentName: ad.Parent, AccessLevel: model.AccessLevel(strings.ToLower(ad.Access))}
	if a.ParentName == "" {
		a.ParentName = parent
	}
	var err error
	if a.TypeName, err = parseRef(ad.Type, "typealias "+a.ScopedName()); err != nil {
		return nil, err
	}
	return a, nil
}

func convertParameters(docs []ParameterDoc, where string) ([]*model.MethodParameter, error) {
	var out []*model.MethodParameter
	for _, pd := range docs {
		tn, err := parseRef(pd.Type, where+"("+pd.Name+")")
		if err != nil {
			return nil, err
		}
		out = append(out, &model.MethodParameter{ArgumentLabel: pd.Label, Name: pd.Name, TypeName: tn, IsInout: pd.Inout})
	}
	return out, nil
}

func parseRef(text, where string) (*model.TypeName, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	tn, err := typename.Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, where)
	}
	return tn, nil
}
