package dao

// Parameter filters List results: a row matches when field Name equals any of
// Values. A parameter without values matches nothing.
type Parameter struct {
	Name   string
	Values []interface{}
}

// NewParameter creates a filter on name.
func NewParameter(name string, values ...interface{}) *Parameter {
	return &Parameter{Name: name, Values: values}
}
