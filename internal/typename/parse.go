// Package typename parses textual type references into model.TypeName values.
package typename

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/parsly"

	"github.com/cmmoran/typecompose/pkg/model"
)

// modifiers that prefix a reference without changing what it names
var modifiers = map[string]bool{
	"inout":     true,
	"some":      true,
	"any":       true,
	"borrowing": true,
	"consuming": true,
	"sending":   true,
	"__owned":   true,
	"__shared":  true,
}

type parser struct {
	cursor *parsly.Cursor
}

// Parse reads a complete type reference, e.g. "[String: (Int) throws -> Foo?]".
func Parse(text string) (*model.TypeName, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.WithStack(model.ErrEmptyTypeName)
	}
	p := &parser{cursor: parsly.NewCursor("", []byte(text), 0)}
	t, err := p.parseType()
	if err != nil {
		return nil, errors.Wrapf(err, "parse type reference %q", text)
	}
	_ = p.cursor.MatchOne(whitespaceMatcher)
	if p.cursor.Pos < p.cursor.InputSize {
		return nil, errors.Errorf("parse type reference %q: unexpected %q at %d", text, text[p.cursor.Pos:], p.cursor.Pos)
	}
	return t, nil
}

// MustParse panics on malformed input; intended for fixtures.
func MustParse(text string) *model.TypeName {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// LookupName parses text and answers its lookup identifier. Malformed text
// falls back to the prefix before any generic argument list.
func LookupName(text string) string {
	if t, err := Parse(text); err == nil {
		return t.LookupName()
	}
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '<'); idx > 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

func (p *parser) parseType() (*model.TypeName, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	members := []*model.TypeName{first}
	for p.accept(ampersandMatcher, ampersandToken) {
		next, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	return model.CompositionOf(members...), nil
}

func (p *parser) parsePostfix() (*model.TypeName, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(questionMatcher, questionToken):
			t = model.OptionalOf(t)
		case p.accept(bangMatcher, bangToken):
			t = model.ImplicitlyUnwrappedOf(t)
		default:
			return t, nil
		}
	}
}

func (p *parser) parsePrimary() (*model.TypeName, error) {
	if err := p.skipModifiers(); err != nil {
		return nil, err
	}
	matched := p.cursor.MatchAfterOptional(whitespaceMatcher, lbracketMatcher, lparenMatcher, identifierMatcher)
	switch matched.Code {
	case lbracketToken:
		return p.parseCollection()
	case lparenToken:
		return p.parseParenthesized()
	case identifierToken:
		return p.parseNominal(matched.Text(p.cursor))
	}
	return nil, p.cursor.NewError(lbracketMatcher, lparenMatcher, identifierMatcher)
}

func (p *parser) skipModifiers() error {
	for {
		pos := p.cursor.Pos
		matched := p.cursor.MatchAfterOptional(whitespaceMatcher, atMatcher, identifierMatcher)
		switch matched.Code {
		case atToken:
			if attr := p.cursor.MatchOne(identifierMatcher); attr.Code != identifierToken {
				return p.cursor.NewError(identifierMatcher)
			}
			// @convention(c)
			_ = p.cursor.MatchOne(parenthesesBlockMatcher)
			continue
		case identifierToken:
			if modifiers[matched.Text(p.cursor)] {
				continue
			}
		}
		p.cursor.Pos = pos
		return nil
	}
}

func (p *parser) parseNominal(name string) (*model.TypeName, error) {
	for p.accept(dotMatcher, dotToken) {
		matched := p.cursor.MatchOne(identifierMatcher)
		if matched.Code != identifierToken {
			return nil, p.cursor.NewError(identifierMatcher)
		}
		name += "." + matched.Text(p.cursor)
	}
	if !p.accept(langleMatcher, langleToken) {
		return model.NewTypeName(name), nil
	}
	var params []*model.TypeName
	for {
		param, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.accept(commaMatcher, commaToken) {
			continue
		}
		if !p.accept(rangleMatcher, rangleToken) {
			return nil, p.cursor.NewError(commaMatcher, rangleMatcher)
		}
		return model.GenericOf(name, params...), nil
	}
}

func (p *parser) parseCollection() (*model.TypeName, error) {
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept(colonMatcher, colonToken) {
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if !p.accept(rbracketMatcher, rbracketToken) {
			return nil, p.cursor.NewError(rbracketMatcher)
		}
		return model.DictionaryOf(key, value), nil
	}
	if !p.accept(rbracketMatcher, rbracketToken) {
		return nil, p.cursor.NewError(colonMatcher, rbracketMatcher)
	}
	return model.ArrayOf(key), nil
}

// parseParenthesized covers tuples, closures and plain grouping.
func (p *parser) parseParenthesized() (*model.TypeName, error) {
	var elements []model.TupleElement
	if !p.accept(rparenMatcher, rparenToken) {
		for {
			label := p.tryLabel()
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elements = append(elements, model.TupleElement{Name: label, TypeName: t})
			if p.accept(commaMatcher, commaToken) {
				continue
			}
			if !p.accept(rparenMatcher, rparenToken) {
				return nil, p.cursor.NewError(commaMatcher, rparenMatcher)
			}
			break
		}
	}

	async := p.acceptKeyword("async")
	throws := p.acceptKeyword("throws") || p.acceptKeyword("rethrows")
	if p.accept(arrowMatcher, arrowToken) {
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params := make([]*model.TypeName, len(elements))
		for i, e := range elements {
			params[i] = e.TypeName
		}
		return model.ClosureOf(params, ret, async, throws), nil
	}
	if async || throws {
		return nil, p.cursor.NewError(arrowMatcher)
	}
	if len(elements) == 1 && elements[0].Name == "" {
		return elements[0].TypeName, nil
	}
	return model.TupleOf(elements...), nil
}

// tryLabel consumes "name:" or "_ name:" and answers the element name.
func (p *parser) tryLabel() string {
	pos := p.cursor.Pos
	first := p.cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
	if first.Code != identifierToken {
		p.cursor.Pos = pos
		return ""
	}
	label := first.Text(p.cursor)
	next := p.cursor.MatchAfterOptional(whitespaceMatcher, colonMatcher, identifierMatcher)
	switch next.Code {
	case colonToken:
		return label
	case identifierToken:
		label = next.Text(p.cursor)
		if p.accept(colonMatcher, colonToken) {
			return label
		}
	}
	p.cursor.Pos = pos
	return ""
}

func (p *parser) accept(token *parsly.Token, code int) bool {
	pos := p.cursor.Pos
	if matched := p.cursor.MatchAfterOptional(whitespaceMatcher, token); matched.Code == code {
		return true
	}
	p.cursor.Pos = pos
	return false
}

func (p *parser) acceptKeyword(word string) bool {
	pos := p.cursor.Pos
	matched := p.cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
	if matched.Code == identifierToken && matched.Text(p.cursor) == word {
		return true
	}
	p.cursor.Pos = pos
	return false
}
