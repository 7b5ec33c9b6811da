// Package form validates user input against declarative schemas and runs the
// submit/reset/notify cycle shared by every create form.
package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the value type a field coerces its input to.
type Kind int

const (
	String Kind = iota
	Integer
	Number
)

// Rule checks one constraint on a coerced, present value.
type Rule struct {
	name     string
	required bool
	check    func(v any) bool
	message  string
}

// Required fails when the value is missing or an empty string.
func Required(msg string) Rule {
	return Rule{name: "required", required: true, message: msg}
}

// MinLength fails when a string is shorter than n characters.
func MinLength(n int, msg string) Rule {
	return Rule{name: "min", message: msg, check: func(v any) bool {
		s, ok := v.(string)
		return ok && len([]rune(s)) >= n
	}}
}

// Positive fails unless a number is greater than zero.
func Positive(msg string) Rule {
	return Rule{name: "positive", message: msg, check: func(v any) bool {
		switch n := v.(type) {
		case int64:
			return n > 0
		case float64:
			return n > 0
		}
		return false
	}}
}

// OneOf fails unless a string equals one of values.
func OneOf(msg string, values ...string) Rule {
	return Rule{name: "oneOf", message: msg, check: func(v any) bool {
		s, _ := v.(string)
		for _, allowed := range values {
			if s == allowed {
				return true
			}
		}
		return false
	}}
}

// Field declares one input.
type Field struct {
	Name      string
	Kind      Kind
	Default   any
	TypeError string
	Rules     []Rule
}

// Schema is an ordered set of fields.
type Schema struct {
	Fields []Field
}

// NewSchema builds a schema from fields in display order.
func NewSchema(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// Defaults returns a fresh copy of every field's default value.
func (s *Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = f.Default
	}
	return out
}

// Errors maps a field name to its first failing message.
type Errors map[string]string

// Validate coerces values to each field's kind and applies its rules in order.
// Only the first failure per field is reported. Fields not in the schema are dropped.
func (s *Schema) Validate(values map[string]any) (map[string]any, Errors) {
	out := make(map[string]any, len(s.Fields))
	errs := Errors{}
	for _, f := range s.Fields {
		v, present, err := coerce(f.Kind, values[f.Name])
		if err != nil {
			msg := f.TypeError
			if msg == "" {
				msg = fmt.Sprintf("%s must be %s", f.Name, kindName(f.Kind))
			}
			errs[f.Name] = msg
			continue
		}
		if msg, ok := f.apply(v, present); !ok {
			errs[f.Name] = msg
			continue
		}
		if present {
			out[f.Name] = v
		}
	}
	if len(errs) == 0 {
		return out, nil
	}
	return out, errs
}

func (f Field) apply(v any, present bool) (string, bool) {
	for _, r := range f.Rules {
		if r.required {
			if !present {
				return r.message, false
			}
			continue
		}
		if !present {
			continue
		}
		if !r.check(v) {
			return r.message, false
		}
	}
	return "", true
}

func kindName(k Kind) string {
	switch k {
	case Integer:
		return "an integer"
	case Number:
		return "a number"
	default:
		return "a string"
	}
}

// coerce converts raw input (JSON-decoded or form-encoded) to the field kind.
// nil and blank strings count as absent.
func coerce(k Kind, raw any) (any, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if s, ok := raw.(string); ok && k != String && strings.TrimSpace(s) == "" {
		return nil, false, nil
	}

	switch k {
	case String:
		s, ok := raw.(string)
		if !ok {
			s = fmt.Sprint(raw)
		}
		return s, s != "", nil
	case Integer:
		n, err := toFloat(raw)
		if err != nil || n != math.Trunc(n) || n >= 1<<63 || n < -1<<63 {
			return nil, false, fmt.Errorf("not an integer: %v", raw)
		}
		return int64(n), true, nil
	case Number:
		n, err := toFloat(raw)
		if err != nil {
			return nil, false, err
		}
		return n, true, nil
	}
	return nil, false, fmt.Errorf("unknown kind %d", k)
}

func toFloat(raw any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", raw)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", raw)
	}
	return f, nil
}
