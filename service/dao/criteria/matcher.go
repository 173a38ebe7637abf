package criteria

import (
	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao"
)

// Match reports whether record satisfies predicate; a nil predicate matches
// every record.
func Match(predicate model.Predicate, record *model.Record) bool {
	switch actual := predicate.(type) {
	case nil:
		return true
	case *model.Equality:
		if actual.Value == nil {
			return record.Get(actual.Field) == nil
		}
		return model.Equal(record.Get(actual.Field), actual.Value)
	case *model.Range:
		return matchRange(actual, record.Get(actual.Field))
	case *model.Compound:
		if actual.Conjunction == model.OR {
			for _, child := range actual.Predicates {
				if Match(child, record) {
					return true
				}
			}
			return false
		}
		for _, child := range actual.Predicates {
			if !Match(child, record) {
				return false
			}
		}
		return true
	}
	return false
}

func matchRange(predicate *model.Range, value interface{}) bool {
	if predicate.Operator == model.NotEqual {
		if predicate.Value == model.NoMatch {
			return false
		}
		if predicate.Value == nil {
			return value != nil
		}
		return value != nil && !model.Equal(value, predicate.Value)
	}
	cmp, ok := model.Compare(value, predicate.Value)
	if !ok {
		return false
	}
	switch predicate.Operator {
	case model.Less:
		return cmp < 0
	case model.LessEqual:
		return cmp <= 0
	case model.Greater:
		return cmp > 0
	case model.GreaterEqual:
		return cmp >= 0
	}
	return false
}

// FromParameters converts DAO list parameters into a predicate: parameters
// are joined with AND, multi value parameters with OR.
func FromParameters(parameters []*dao.Parameter) model.Predicate {
	var predicates []model.Predicate
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		var alternatives []model.Predicate
		for _, value := range parameter.Values {
			alternatives = append(alternatives, model.Eq(parameter.Name, value))
		}
		if len(alternatives) == 0 {
			alternatives = append(alternatives, model.Eq(parameter.Name, model.NoMatch))
		}
		predicates = append(predicates, model.Or(alternatives...))
	}
	return model.And(predicates...)
}
