package criteria

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/hashid/model"
	"github.com/viant/parsly"
)

// Parse parses a filter expression such as
//
//	city = 'Foo' AND (id >= 2 OR postal_code != null)
//
// into a predicate tree. AND binds tighter than OR; keywords are case-insensitive.
func Parse(expr string) (model.Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	cursor := parsly.NewCursor("", []byte(expr), 0)
	predicate, err := parseOr(cursor)
	if err != nil {
		return nil, err
	}
	cursor.MatchOne(whitespaceToken)
	if cursor.Pos < cursor.InputSize {
		return nil, fmt.Errorf("criteria: unexpected input %q at position %d", expr[cursor.Pos:], cursor.Pos)
	}
	return predicate, nil
}

func parseOr(cursor *parsly.Cursor) (model.Predicate, error) {
	var predicates []model.Predicate
	for {
		predicate, err := parseAnd(cursor)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate)
		matched := cursor.MatchAfterOptional(whitespaceToken, orToken)
		if matched.Code != orToken.Code {
			return model.Or(predicates...), nil
		}
	}
}

func parseAnd(cursor *parsly.Cursor) (model.Predicate, error) {
	var predicates []model.Predicate
	for {
		predicate, err := parseTerm(cursor)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate)
		matched := cursor.MatchAfterOptional(whitespaceToken, andToken)
		if matched.Code != andToken.Code {
			return model.And(predicates...), nil
		}
	}
}

func parseTerm(cursor *parsly.Cursor) (model.Predicate, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, openParenToken, identifierToken)
	switch matched.Code {
	case openParenToken.Code:
		predicate, err := parseOr(cursor)
		if err != nil {
			return nil, err
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, closeParenToken)
		if matched.Code != closeParenToken.Code {
			return nil, cursor.NewError(closeParenToken)
		}
		return predicate, nil
	case identifierToken.Code:
	default:
		return nil, cursor.NewError(openParenToken, identifierToken)
	}
	field := matched.Text(cursor)

	matched = cursor.MatchAfterOptional(whitespaceToken, operatorToken)
	if matched.Code != operatorToken.Code {
		return nil, cursor.NewError(operatorToken)
	}
	operator := matched.Text(cursor)

	matched = cursor.MatchAfterOptional(whitespaceToken, stringToken, numberToken, keywordLiteralToken)
	var value interface{}
	switch matched.Code {
	case stringToken.Code:
		value = unquote(matched.Text(cursor))
	case numberToken.Code:
		number, err := parseNumber(matched.Text(cursor))
		if err != nil {
			return nil, err
		}
		value = number
	case keywordLiteralToken.Code:
		switch strings.ToLower(matched.Text(cursor)) {
		case "true":
			value = true
		case "false":
			value = false
		}
	default:
		return nil, cursor.NewError(stringToken, numberToken, keywordLiteralToken)
	}
	return newPredicate(field, operator, value), nil
}

func newPredicate(field, operator string, value interface{}) model.Predicate {
	switch operator {
	case "=":
		return model.Eq(field, value)
	case "!=", "<>":
		return model.Cmp(field, model.NotEqual, value)
	}
	return model.Cmp(field, model.Operator(operator), value)
}

func parseNumber(text string) (interface{}, error) {
	if !strings.Contains(text, ".") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("criteria: invalid number %q: %w", text, err)
	}
	return f, nil
}

func unquote(text string) string {
	quote := text[:1]
	body := text[1 : len(text)-1]
	body = strings.ReplaceAll(body, `\`+quote, quote)
	return strings.ReplaceAll(body, `\\`, `\`)
}
