// Package index answers the rendering layer's questions about a composed
// graph: sorted collections, keyed relationship lookups and navigation.
package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"github.com/pkg/errors"

	"github.com/cmmoran/typecompose/pkg/composer"
	"github.com/cmmoran/typecompose/pkg/model"
)

var ErrInvalidQuery = errors.New("invalid query")

// QueryError is returned to callers that ask inheriting/implementing about an
// unknown name or a name of the wrong kind.
type QueryError struct {
	Op     string
	Name   string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s(%q): %s", e.Op, e.Name, e.Reason)
}

func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }

// Types is built lazily on first use and is read-only afterwards.
type Types struct {
	result *composer.Result

	once         sync.Once
	all          []*model.Type
	classes      []*model.Type
	structs      []*model.Type
	enums        []*model.Type
	protocols    []*model.Type
	compositions []*model.Type
	extensions   []*model.Type
	byName       map[string]*model.Type
	aliases      map[string]*model.Typealias
	based        map[string][]*model.Type
	inheriting   map[string][]*model.Type
	implementing map[string][]*model.Type
}

func New(result *composer.Result) *Types {
	if result == nil {
		result = &composer.Result{}
	}
	return &Types{result: result}
}

func (t *Types) build() {
	t.once.Do(func() {
		t.all = append([]*model.Type(nil), t.result.Types...)
		sortByGlobalName(t.all)

		t.byName = make(map[string]*model.Type, 2*len(t.all))
		t.based = map[string][]*model.Type{}
		t.inheriting = map[string][]*model.Type{}
		t.implementing = map[string][]*model.Type{}
		for _, typ := range t.all {
			switch typ.Kind {
			case model.KindClass:
				t.classes = append(t.classes, typ)
			case model.KindStruct:
				t.structs = append(t.structs, typ)
			case model.KindEnum:
				t.enums = append(t.enums, typ)
			case model.KindProtocol:
				t.protocols = append(t.protocols, typ)
			case model.KindProtocolComposition:
				t.compositions = append(t.compositions, typ)
			}
			if typ.IsExtension {
				t.extensions = append(t.extensions, typ)
			}
			if _, ok := t.byName[typ.Name()]; !ok {
				t.byName[typ.Name()] = typ
			}
			t.byName[typ.GlobalName()] = typ

			for k := range typ.Based {
				t.based[k] = append(t.based[k], typ)
			}
			for k := range typ.Inherits {
				t.inheriting[k] = append(t.inheriting[k], typ)
			}
			for k := range typ.Implements {
				t.implementing[k] = append(t.implementing[k], typ)
			}
		}

		t.aliases = make(map[string]*model.Typealias, len(t.result.Typealiases))
		for _, a := range t.result.Typealiases {
			if _, ok := t.aliases[a.ScopedName()]; !ok {
				t.aliases[a.ScopedName()] = a
			}
		}
	})
}

func (t *Types) All() []*model.Type                  { t.build(); return t.all }
func (t *Types) Classes() []*model.Type              { t.build(); return t.classes }
func (t *Types) Structs() []*model.Type              { t.build(); return t.structs }
func (t *Types) Enums() []*model.Type                { t.build(); return t.enums }
func (t *Types) Protocols() []*model.Type            { t.build(); return t.protocols }
func (t *Types) ProtocolCompositions() []*model.Type { t.build(); return t.compositions }

// Extensions lists stubs kept for extensions of unknown types.
func (t *Types) Extensions() []*model.Type { t.build(); return t.extensions }

func (t *Types) RunID() string                      { return t.result.RunID }
func (t *Types) Functions() []*model.Method         { return t.result.Functions }
func (t *Types) Typealiases() []*model.Typealias    { return t.result.Typealiases }
func (t *Types) Diagnostics() composer.Diagnostics { return t.result.Diagnostics }

// Type finds a declaration by name or global name.
func (t *Types) Type(name string) *model.Type {
	t.build()
	return t.byName[name]
}

// Typealias finds an alias by scoped name.
func (t *Types) Typealias(name string) *model.Typealias {
	t.build()
	return t.aliases[name]
}

// Collection answers a collection by its template name, singular or plural
// ("classes", "protocolCompositions", "extension", "types").
func (t *Types) Collection(name string) ([]*model.Type, error) {
	singular := strings.ToLower(inflection.Singular(strings.TrimSpace(name)))
	switch singular {
	case "all", "type":
		return t.All(), nil
	case "extension":
		return t.Extensions(), nil
	}
	kind, ok := model.ParseKind(singular)
	if !ok {
		return nil, &QueryError{Op: "collection", Name: name, Reason: "unknown collection"}
	}
	switch kind {
	case model.KindClass:
		return t.Classes(), nil
	case model.KindStruct:
		return t.Structs(), nil
	case model.KindEnum:
		return t.Enums(), nil
	case model.KindProtocol:
		return t.Protocols(), nil
	}
	return t.ProtocolCompositions(), nil
}

// Based answers every type whose based-on closure contains name. Names with no
// known declaration are valid keys.
func (t *Types) Based(name string) []*model.Type {
	t.build()
	if list, ok := t.based[name]; ok {
		return list
	}
	if typ := t.byName[name]; typ != nil {
		for _, key := range []string{typ.Name(), typ.GlobalName()} {
			if list, ok := t.based[key]; ok {
				return list
			}
		}
	}
	return []*model.Type{}
}

// Inheriting answers every type inheriting from the class-like type name.
func (t *Types) Inheriting(name string) ([]*model.Type, error) {
	return t.lookup("inheriting", func() map[string][]*model.Type { return t.inheriting }, name, (*model.Type).IsClassLike, "class")
}

// Implementing answers every type conforming to the protocol-like type name.
func (t *Types) Implementing(name string) ([]*model.Type, error) {
	return t.lookup("implementing", func() map[string][]*model.Type { return t.implementing }, name, (*model.Type).IsProtocolLike, "protocol")
}

// lookup picks the table only after build has populated it.
func (t *Types) lookup(op string, tableOf func() map[string][]*model.Type, name string, valid func(*model.Type) bool, want string) ([]*model.Type, error) {
	t.build()
	table := tableOf()
	typ := t.byName[name]
	if typ == nil {
		return nil, &QueryError{Op: op, Name: name, Reason: "unknown type, should be used with based"}
	}
	if !valid(typ) {
		return nil, &QueryError{Op: op, Name: name, Reason: fmt.Sprintf("%s is a %s, not a %s", typ.GlobalName(), typ.Kind, want)}
	}
	if list, ok := table[name]; ok {
		return list, nil
	}
	if list, ok := table[typ.GlobalName()]; ok {
		return list, nil
	}
	return []*model.Type{}, nil
}

func sortByGlobalName(types []*model.Type) {
	sort.SliceStable(types, func(i, j int) bool {
		return types[i].GlobalName() < types[j].GlobalName()
	})
}
