package model

import "fmt"

// Operator is a range comparison operator.
type Operator string

const (
	Less         Operator = "<"
	LessEqual    Operator = "<="
	Greater      Operator = ">"
	GreaterEqual Operator = ">="
	NotEqual     Operator = "!="
)

// Conjunction joins compound predicates.
type Conjunction string

const (
	AND Conjunction = "AND"
	OR  Conjunction = "OR"
)

type noMatch struct{}

func (noMatch) String() string { return "<no match>" }

// NoMatch is a literal that never matches any value, including nil.
var NoMatch interface{} = noMatch{}

// Predicate is a node of the filter tree.
type Predicate interface {
	// Accept lets the visitor rewrite the node; the returned predicate replaces it.
	Accept(v Visitor) Predicate
	String() string
}

// Equality matches field == value. A nil value matches absent or nil fields.
type Equality struct {
	Field string
	Value interface{}
}

func (p *Equality) Accept(v Visitor) Predicate { return v.VisitEquality(p) }

func (p *Equality) String() string { return fmt.Sprintf("%s = %v", p.Field, p.Value) }

// Range matches field <op> value.
type Range struct {
	Field    string
	Operator Operator
	Value    interface{}
}

func (p *Range) Accept(v Visitor) Predicate { return v.VisitRange(p) }

func (p *Range) String() string { return fmt.Sprintf("%s %s %v", p.Field, p.Operator, p.Value) }

// Compound joins child predicates.
type Compound struct {
	Conjunction Conjunction
	Predicates  []Predicate
}

// Accept visits children first, then the compound holding the rewritten children.
func (p *Compound) Accept(v Visitor) Predicate {
	children := make([]Predicate, 0, len(p.Predicates))
	for _, child := range p.Predicates {
		if child == nil {
			continue
		}
		if rewritten := child.Accept(v); rewritten != nil {
			children = append(children, rewritten)
		}
	}
	return v.VisitCompound(&Compound{Conjunction: p.Conjunction, Predicates: children})
}

func (p *Compound) String() string {
	ret := "("
	for i, child := range p.Predicates {
		if i > 0 {
			ret += " " + string(p.Conjunction) + " "
		}
		ret += child.String()
	}
	return ret + ")"
}

// Eq creates an equality predicate.
func Eq(field string, value interface{}) *Equality {
	return &Equality{Field: field, Value: value}
}

// Cmp creates a range predicate.
func Cmp(field string, op Operator, value interface{}) *Range {
	return &Range{Field: field, Operator: op, Value: value}
}

// And joins predicates with AND, skipping nils. A single predicate is returned as is.
func And(predicates ...Predicate) Predicate {
	return join(AND, predicates)
}

// Or joins predicates with OR, skipping nils.
func Or(predicates ...Predicate) Predicate {
	return join(OR, predicates)
}

func join(conjunction Conjunction, predicates []Predicate) Predicate {
	var children []Predicate
	for _, p := range predicates {
		if p != nil {
			children = append(children, p)
		}
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &Compound{Conjunction: conjunction, Predicates: children}
}
