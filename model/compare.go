package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Compare orders a against b. Numbers of any kind compare numerically,
// numeric strings compare as numbers against numbers, everything else
// compares by its string form. The second result is false when the values
// cannot be ordered (nil, NoMatch).
func Compare(a, b interface{}) (int, bool) {
	if a == nil || b == nil || a == NoMatch || b == NoMatch {
		return 0, false
	}
	x, xNumeric := asNumber(a)
	y, yNumeric := asNumber(b)
	if xNumeric && yNumeric {
		return x.compare(y), true
	}
	if xNumeric != yNumeric {
		if s, ok := b.(string); ok && xNumeric {
			if y, ok := parseNumber(s); ok {
				return x.compare(y), true
			}
		}
		if s, ok := a.(string); ok && yNumeric {
			if x, ok := parseNumber(s); ok {
				return x.compare(y), true
			}
		}
	}
	xs, ys := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case xs < ys:
		return -1, true
	case xs > ys:
		return 1, true
	}
	return 0, true
}

// Equal reports whether a and b hold the same value under Compare rules.
// Two nils are equal; NoMatch equals nothing.
func Equal(a, b interface{}) bool {
	if a == NoMatch || b == NoMatch {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	cmp, ok := Compare(a, b)
	return ok && cmp == 0
}

type numberKind int

const (
	signedKind numberKind = iota
	unsignedKind
	floatKind
)

// number keeps integers exact; only floats go through float64.
type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func signed(v int64) number    { return number{kind: signedKind, i: v} }
func unsigned(v uint64) number { return number{kind: unsignedKind, u: v} }
func float(v float64) number   { return number{kind: floatKind, f: v} }

func (n number) float64() float64 {
	switch n.kind {
	case signedKind:
		return float64(n.i)
	case unsignedKind:
		return float64(n.u)
	}
	return n.f
}

func (n number) compare(o number) int {
	if n.kind == floatKind || o.kind == floatKind {
		return compareOrdered(n.float64(), o.float64())
	}
	if n.kind == signedKind && o.kind == signedKind {
		return compareOrdered(n.i, o.i)
	}
	if n.kind == unsignedKind && o.kind == unsignedKind {
		return compareOrdered(n.u, o.u)
	}
	if n.kind == signedKind {
		if n.i < 0 {
			return -1
		}
		return compareOrdered(uint64(n.i), o.u)
	}
	if o.i < 0 {
		return 1
	}
	return compareOrdered(n.u, uint64(o.i))
}

func compareOrdered[T int64 | uint64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func parseNumber(text string) (number, bool) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return signed(i), true
	}
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return unsigned(u), true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return float(f), true
	}
	return number{}, false
}

func asNumber(v interface{}) (number, bool) {
	switch actual := v.(type) {
	case int:
		return signed(int64(actual)), true
	case int8:
		return signed(int64(actual)), true
	case int16:
		return signed(int64(actual)), true
	case int32:
		return signed(int64(actual)), true
	case int64:
		return signed(actual), true
	case uint:
		return unsigned(uint64(actual)), true
	case uint8:
		return unsigned(uint64(actual)), true
	case uint16:
		return unsigned(uint64(actual)), true
	case uint32:
		return unsigned(uint64(actual)), true
	case uint64:
		return unsigned(actual), true
	case float32:
		return float(float64(actual)), true
	case float64:
		return float(actual), true
	case json.Number:
		return parseNumber(actual.String())
	case string, bool:
		return number{}, false
	}
	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signed(value.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsigned(value.Uint()), true
	case reflect.Float32, reflect.Float64:
		return float(value.Float()), true
	}
	return number{}, false
}
