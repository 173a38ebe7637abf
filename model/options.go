package model

import "github.com/viant/toolbox"

// Options is a finder option bag.
type Options map[string]interface{}

// Has reports whether the key is present with a non nil value.
func (o Options) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// String returns the option as string, empty when absent.
func (o Options) String(key string) string {
	if !o.Has(key) {
		return ""
	}
	return toolbox.AsString(o[key])
}

// Bool returns the option as bool; non bool values count as set when non empty.
func (o Options) Bool(key string) bool {
	if !o.Has(key) {
		return false
	}
	switch actual := o[key].(type) {
	case bool:
		return actual
	case string:
		return actual != "" && actual != "false" && actual != "0"
	}
	return true
}
