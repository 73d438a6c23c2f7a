// Package num provides an optional numeric value with explicit missing-data
// propagation. Financial source data is full of absent, null and "None"
// fields; a Value keeps that state out of float semantics so a missing input
// can never silently leak into a final figure as zero or NaN.
package num

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is an optional float64. The zero value is missing.
type Value struct {
	v  float64
	ok bool
}

// Of returns a valid Value, or missing if f is NaN or infinite.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{v: f, ok: true}
}

// Missing returns the missing sentinel.
func Missing() Value {
	return Value{}
}

// FromAny normalizes a raw data-provider field into a Value.
// nil, empty strings and the literal string "None" are missing; numeric
// strings are parsed; non-finite floats are missing.
func FromAny(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case float64:
		return Of(t)
	case float32:
		return Of(float64(t))
	case int:
		return Of(float64(t))
	case int64:
		return Of(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}
		}
		return Of(f)
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == "None" {
			return Value{}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}
		}
		return Of(f)
	default:
		return Value{}
	}
}

// Valid reports whether the value is present.
func (a Value) Valid() bool { return a.ok }

// Float returns the underlying float and whether it is present.
func (a Value) Float() (float64, bool) { return a.v, a.ok }

// OrZero returns the value, or 0 when missing. Use only where zero
// substitution is explicitly part of the model (EV components).
func (a Value) OrZero() float64 {
	if !a.ok {
		return 0
	}
	return a.v
}

// Or returns the value, or def when missing.
func (a Value) Or(def float64) float64 {
	if !a.ok {
		return def
	}
	return a.v
}

// Add returns a+b, missing if either side is missing.
func (a Value) Add(b Value) Value {
	if !a.ok || !b.ok {
		return Value{}
	}
	return Of(a.v + b.v)
}

// Sub returns a-b, missing if either side is missing.
func (a Value) Sub(b Value) Value {
	if !a.ok || !b.ok {
		return Value{}
	}
	return Of(a.v - b.v)
}

// Mul returns a*b, missing if either side is missing.
func (a Value) Mul(b Value) Value {
	if !a.ok || !b.ok {
		return Value{}
	}
	return Of(a.v * b.v)
}

// Div returns a/b. Missing if either side is missing or b is zero.
func (a Value) Div(b Value) Value {
	if !a.ok || !b.ok || b.v == 0 {
		return Value{}
	}
	return Of(a.v / b.v)
}

// Abs returns the absolute value, missing stays missing.
func (a Value) Abs() Value {
	if !a.ok {
		return Value{}
	}
	return Of(math.Abs(a.v))
}

// Positive reports whether the value is present and strictly greater than zero.
func (a Value) Positive() bool {
	return a.ok && a.v > 0
}

// Clip bounds the value into [lo, hi]. Missing stays missing.
func (a Value) Clip(lo, hi float64) Value {
	if !a.ok {
		return Value{}
	}
	return Of(math.Min(hi, math.Max(lo, a.v)))
}

// String renders the value for logs; missing renders as "n/a".
func (a Value) String() string {
	if !a.ok {
		return "n/a"
	}
	return strconv.FormatFloat(a.v, 'f', -1, 64)
}

// MarshalJSON encodes the value as a number, or null when missing.
func (a Value) MarshalJSON() ([]byte, error) {
	if !a.ok {
		return []byte("null"), nil
	}
	return json.Marshal(a.v)
}

// UnmarshalJSON decodes a number or null.
func (a *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Of(f)
	return nil
}
