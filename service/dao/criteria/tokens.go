package criteria

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	identifierCode
	operatorCode
	openParenCode
	closeParenCode
	andCode
	orCode
	stringCode
	numberCode
	keywordLiteralCode
)

// Token definitions
var (
	whitespaceToken     = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	identifierToken     = parsly.NewToken(identifierCode, "Identifier", &identifierMatcher{})
	operatorToken       = parsly.NewToken(operatorCode, "Operator", &operatorMatcher{})
	openParenToken      = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken     = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	andToken            = parsly.NewToken(andCode, "AND", &keywordMatcher{keyword: "and"})
	orToken             = parsly.NewToken(orCode, "OR", &keywordMatcher{keyword: "or"})
	stringToken         = parsly.NewToken(stringCode, "String", &quotedMatcher{})
	numberToken         = parsly.NewToken(numberCode, "Number", &numberMatcher{})
	keywordLiteralToken = parsly.NewToken(keywordLiteralCode, "Literal", &keywordMatcher{keyword: "null", alternatives: []string{"true", "false"}})
)

// identifierMatcher matches field names, optionally qualified (table.field)
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' || input[i] == '.' {
			matched++
			continue
		}
		break
	}
	return matched
}

// operatorMatcher matches comparison operators
type operatorMatcher struct{}

func (m *operatorMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	switch input[pos] {
	case '=':
		return 1
	case '!':
		if pos+1 < size && input[pos+1] == '=' {
			return 2
		}
	case '<':
		if pos+1 < size && (input[pos+1] == '=' || input[pos+1] == '>') {
			return 2
		}
		return 1
	case '>':
		if pos+1 < size && input[pos+1] == '=' {
			return 2
		}
		return 1
	}
	return 0
}

// keywordMatcher matches case-insensitive keywords on a word boundary
type keywordMatcher struct {
	keyword      string
	alternatives []string
}

func (m *keywordMatcher) Match(cursor *parsly.Cursor) int {
	if matched := matchKeyword(cursor, m.keyword); matched > 0 {
		return matched
	}
	for _, keyword := range m.alternatives {
		if matched := matchKeyword(cursor, keyword); matched > 0 {
			return matched
		}
	}
	return 0
}

func matchKeyword(cursor *parsly.Cursor, keyword string) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	end := pos + len(keyword)
	if end > size {
		return 0
	}
	for i := 0; i < len(keyword); i++ {
		if lower(input[pos+i]) != keyword[i] {
			return 0
		}
	}
	if end < size && (isLetter(input[end]) || isDigit(input[end]) || input[end] == '_') {
		return 0
	}
	return len(keyword)
}

// quotedMatcher matches single or double quoted strings, backslash escapes the quote
type quotedMatcher struct{}

func (m *quotedMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	quote := input[pos]
	if quote != '\'' && quote != '"' {
		return 0
	}
	for i := pos + 1; i < size; i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i - pos + 1
		}
	}
	return 0
}

// numberMatcher matches signed integers and decimals
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	i := pos
	if i < size && (input[i] == '-' || input[i] == '+') {
		i++
	}
	digits := 0
	dot := false
	for ; i < size; i++ {
		if isDigit(input[i]) {
			digits++
			continue
		}
		if input[i] == '.' && !dot {
			dot = true
			continue
		}
		break
	}
	if digits == 0 {
		return 0
	}
	return i - pos
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
