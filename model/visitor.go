package model

// Visitor rewrites predicate nodes. Returning nil drops the node.
type Visitor interface {
	VisitEquality(p *Equality) Predicate
	VisitRange(p *Range) Predicate
	VisitCompound(p *Compound) Predicate
}

// Identity is a pass-through visitor meant for embedding.
type Identity struct{}

func (Identity) VisitEquality(p *Equality) Predicate { return p }

func (Identity) VisitRange(p *Range) Predicate { return p }

func (Identity) VisitCompound(p *Compound) Predicate { return p }

// Walk applies v to p and returns the rewritten tree.
func Walk(p Predicate, v Visitor) Predicate {
	if p == nil {
		return nil
	}
	return p.Accept(v)
}

// FieldRewriter replaces literal values of predicates that target Field.
type FieldRewriter struct {
	Identity
	Field   string
	Rewrite func(value interface{}) interface{}
}

func (f *FieldRewriter) VisitEquality(p *Equality) Predicate {
	if p.Field != f.Field {
		return p
	}
	return &Equality{Field: p.Field, Value: f.Rewrite(p.Value)}
}

func (f *FieldRewriter) VisitRange(p *Range) Predicate {
	if p.Field != f.Field {
		return p
	}
	return &Range{Field: p.Field, Operator: p.Operator, Value: f.Rewrite(p.Value)}
}

// Fields collects field names referenced by a predicate tree.
func Fields(p Predicate) []string {
	collector := &fieldCollector{seen: map[string]bool{}}
	Walk(p, collector)
	return collector.fields
}

type fieldCollector struct {
	Identity
	seen   map[string]bool
	fields []string
}

func (c *fieldCollector) add(field string) {
	if c.seen[field] {
		return
	}
	c.seen[field] = true
	c.fields = append(c.fields, field)
}

func (c *fieldCollector) VisitEquality(p *Equality) Predicate {
	c.add(p.Field)
	return p
}

func (c *fieldCollector) VisitRange(p *Range) Predicate {
	c.add(p.Field)
	return p
}
