package typename

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	identifierToken
	lbracketToken
	rbracketToken
	lparenToken
	rparenToken
	langleToken
	rangleToken
	commaToken
	colonToken
	questionToken
	bangToken
	ampersandToken
	dotToken
	atToken
	arrowToken
	parenthesesBlockToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})
var lbracketMatcher = parsly.NewToken(lbracketToken, "[", matcher.NewByte('['))
var rbracketMatcher = parsly.NewToken(rbracketToken, "]", matcher.NewByte(']'))
var lparenMatcher = parsly.NewToken(lparenToken, "(", matcher.NewByte('('))
var rparenMatcher = parsly.NewToken(rparenToken, ")", matcher.NewByte(')'))
var langleMatcher = parsly.NewToken(langleToken, "<", matcher.NewByte('<'))
var rangleMatcher = parsly.NewToken(rangleToken, ">", matcher.NewByte('>'))
var commaMatcher = parsly.NewToken(commaToken, ",", matcher.NewByte(','))
var colonMatcher = parsly.NewToken(colonToken, ":", matcher.NewByte(':'))
var questionMatcher = parsly.NewToken(questionToken, "?", matcher.NewByte('?'))
var bangMatcher = parsly.NewToken(bangToken, "!", matcher.NewByte('!'))
var ampersandMatcher = parsly.NewToken(ampersandToken, "&", matcher.NewByte('&'))
var dotMatcher = parsly.NewToken(dotToken, ".", matcher.NewByte('.'))
var atMatcher = parsly.NewToken(atToken, "@", matcher.NewByte('@'))
var arrowMatcher = parsly.NewToken(arrowToken, "->", matcher.NewFragment("->"))
var parenthesesBlockMatcher = parsly.NewToken(parenthesesBlockToken, "( ... )", matcher.NewBlock('(', ')', '\\'))

type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	if !isIdentifierStart(cursor.Input[cursor.Pos]) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		pos++
	}
	return pos - cursor.Pos
}

// bytes >= 0x80 belong to multi-byte identifier runes
func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b >= 0x80
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9') || b == '$'
}
