/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindBool ValueKind = iota
	KindI64
	KindU64
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindString:
		return "string"
	default:
		return "?"
	}
}

// Value is a typed option value.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	u    uint64
	s    string
}

func BoolValue(v bool) Value     { return Value{kind: KindBool, b: v} }
func I64Value(v int64) Value     { return Value{kind: KindI64, i: v} }
func U64Value(v uint64) Value    { return Value{kind: KindU64, u: v} }
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Bool() (bool, bool)  { return v.b, v.kind == KindBool }
func (v Value) I64() (int64, bool)  { return v.i, v.kind == KindI64 }
func (v Value) U64() (uint64, bool) { return v.u, v.kind == KindU64 }
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindI64:
		return strconv.FormatInt(v.i, 10)
	case KindU64:
		return strconv.FormatUint(v.u, 10)
	case KindString:
		return v.s
	default:
		return "?"
	}
}

// ParseValue converts the textual form of a value of the given kind.
func ParseValue(kind ValueKind, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("bracket: %q is not a bool: %w", raw,
				ErrInvalidOption)
		}
		return BoolValue(b), nil
	case KindI64:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bracket: %q is not an i64: %w", raw,
				ErrInvalidOption)
		}
		return I64Value(i), nil
	case KindU64:
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bracket: %q is not a u64: %w", raw,
				ErrInvalidOption)
		}
		return U64Value(u), nil
	case KindString:
		return StringValue(raw), nil
	}

	panic(fmt.Sprintf("BUG: invariant: unknown value kind %v", int(kind)))
}

// Option declares a configurable knob of a format. Value holds the default
// and determines the accepted kind.
type Option struct {
	Key   string
	Name  string
	Value Value
	// Choices restricts string options to a fixed set when non-empty.
	Choices []string
}

// Schema is the ordered set of options a format declares.
type Schema struct {
	options []Option
}

func NewSchema(options ...Option) Schema {
	s := Schema{options: make([]Option, len(options))}
	copy(s.options, options)

	return s
}

func (s Schema) Options() []Option {
	ret := make([]Option, len(s.options))
	copy(ret, s.options)

	return ret
}

func (s Schema) Lookup(key string) (Option, bool) {
	for _, opt := range s.options {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

// Defaults returns the default value of every declared option.
func (s Schema) Defaults() Values {
	ret := make(Values, len(s.options))
	for _, opt := range s.options {
		ret[opt.Key] = opt.Value
	}

	return ret
}

// Parse type checks textual option values (e.g. from a command line or a
// stored record) against the schema.
func (s Schema) Parse(raw map[string]string) (Values, error) {
	ret := make(Values, len(raw))
	for key, text := range raw {
		opt, ok := s.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("bracket: unknown option %q: %w", key,
				ErrInvalidOption)
		}
		v, err := ParseValue(opt.Value.Kind(), text)
		if err != nil {
			return nil, fmt.Errorf("bracket: option %q: %w", key, err)
		}
		ret[key] = v
	}

	return ret, nil
}

// Values maps option keys to values.
type Values map[string]Value

// Merge validates v against the schema and returns a complete set of values
// with defaults filled in for any key v does not set.
func (v Values) Merge(s Schema) (Values, error) {
	ret := s.Defaults()
	for key, val := range v {
		opt, ok := s.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("bracket: unknown option %q: %w", key,
				ErrInvalidOption)
		}
		if val.Kind() != opt.Value.Kind() {
			return nil, fmt.Errorf("bracket: option %q wants %v, got %v: %w",
				key, opt.Value.Kind(), val.Kind(), ErrInvalidOption)
		}
		if len(opt.Choices) > 0 && !containsString(opt.Choices, val.s) {
			return nil, fmt.Errorf("bracket: option %q: %q is not one of %v: %w",
				key, val.s, opt.Choices, ErrInvalidOption)
		}
		ret[key] = val
	}

	return ret, nil
}

// Raw returns the textual form of every value.
func (v Values) Raw() map[string]string {
	ret := make(map[string]string, len(v))
	for key, val := range v {
		ret[key] = val.String()
	}

	return ret
}

func (v Values) getBool(key string) bool {
	b, ok := v[key].Bool()
	if !ok {
		panic(fmt.Sprintf("BUG: invariant: option %v is not a bool", key))
	}
	return b
}

func (v Values) getString(key string) string {
	s, ok := v[key].Str()
	if !ok {
		panic(fmt.Sprintf("BUG: invariant: option %v is not a string", key))
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
