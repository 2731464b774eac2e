// Package entity holds the result placeholders returned by the client.
//
// A placeholder is handed to the caller as soon as a call is queued and is
// filled in when the batch it belongs to is reconciled. Until then every
// accessor fails with ErrNotPopulated. Population is one-way: a populated
// placeholder never goes back to pending.
package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"strconv"
)

// Entity is implemented by every placeholder the dispatcher can fill in
type Entity interface {
	// Populate copies data into the placeholder and marks it populated
	Populate(data any) error
	// Pending reports whether the placeholder is still waiting for data
	Pending() bool
}

// Preparer is implemented by placeholders that can check data without
// changing state. The returned commit cannot fail and applies exactly what
// Populate would have.
type Preparer interface {
	Prepare(data any) (commit func(), err error)
}

// Prepare checks data against e and returns the step that populates it.
// For an Entity that is not a Preparer every check is deferred to commit.
func Prepare(e Entity, data any) (commit func() error, err error) {
	p, ok := e.(Preparer)
	if !ok {
		return func() error { return e.Populate(data) }, nil
	}
	apply, err := p.Prepare(data)
	if err != nil {
		return nil, err
	}
	return func() error {
		apply()
		return nil
	}, nil
}

// Base is a schema-free placeholder. The zero value is pending.
type Base struct {
	populated bool
	fields    map[string]any
}

// NewBase creates an empty pending placeholder
func NewBase() *Base {
	return &Base{}
}

// Pending reports whether the placeholder has not been populated yet
func (b *Base) Pending() bool {
	return !b.populated
}

// Populate copies every entry of data onto the placeholder. data must be a
// map with string keys, a JSON object or array, a slice (indices become
// keys) or an iter.Seq2[string, any].
func (b *Base) Populate(data any) error {
	commit, err := b.Prepare(data)
	if err != nil {
		return err
	}
	commit()
	return nil
}

// Prepare implements Preparer
func (b *Base) Prepare(data any) (func(), error) {
	merged, err := b.merge(data)
	if err != nil {
		return nil, err
	}
	return func() { b.set(merged) }, nil
}

// merge returns the current fields overlaid with data, leaving b untouched
func (b *Base) merge(data any) (map[string]any, error) {
	fields, err := toFields(data)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(b.fields)+len(fields))
	for k, v := range b.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged, nil
}

func (b *Base) set(fields map[string]any) {
	b.fields = fields
	b.populated = true
}

// Get returns a field value
func (b *Base) Get(name string) (any, error) {
	if !b.populated {
		return nil, ErrNotPopulated
	}
	v, ok := b.fields[name]
	if !ok {
		return nil, &ArgumentError{Msg: fmt.Sprintf("property %q", name), Err: ErrNoSuchField}
	}
	return v, nil
}

// Has reports whether a field is set to a non-null value
func (b *Base) Has(name string) (bool, error) {
	if !b.populated {
		return false, ErrNotPopulated
	}
	v, ok := b.fields[name]
	return ok && v != nil, nil
}

// Fields returns a copy of all populated fields
func (b *Base) Fields() (map[string]any, error) {
	if !b.populated {
		return nil, ErrNotPopulated
	}
	out := make(map[string]any, len(b.fields))
	for k, v := range b.fields {
		out[k] = v
	}
	return out, nil
}

// GetString returns a field as a string. Numbers are formatted.
func (b *Base) GetString(name string) (string, error) {
	v, err := b.Get(name)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(s), nil
	}
}

// GetBool returns a field as a boolean
func (b *Base) GetBool(name string) (bool, error) {
	v, err := b.Get(name)
	if err != nil {
		return false, err
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case nil:
		return false, nil
	default:
		return false, &ArgumentError{Msg: fmt.Sprintf("property %q is %T, not bool", name, v)}
	}
}

// GetInt returns a field as an integer
func (b *Base) GetInt(name string) (int64, error) {
	v, err := b.Get(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, &ArgumentError{Msg: fmt.Sprintf("property %q", name), Err: err}
		}
		return int64(f), nil
	case float64:
		return int64(x), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, &ArgumentError{Msg: fmt.Sprintf("property %q", name), Err: err}
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, &ArgumentError{Msg: fmt.Sprintf("property %q is %T, not a number", name, v)}
	}
}

// Decode re-encodes the populated fields as JSON into v
func (b *Base) Decode(v any) error {
	if !b.populated {
		return ErrNotPopulated
	}
	return decodeInto(b.fields, v)
}

func decodeInto(fields map[string]any, v any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// MarshalJSON renders the fields; a pending placeholder renders as null
func (b *Base) MarshalJSON() ([]byte, error) {
	if !b.populated {
		return []byte("null"), nil
	}
	return json.Marshal(b.fields)
}

func toFields(data any) (map[string]any, error) {
	switch d := data.(type) {
	case nil:
		return nil, &ArgumentError{Msg: "data must be a map or a sequence of key/value pairs, got nil"}
	case map[string]any:
		return d, nil
	case []any:
		out := make(map[string]any, len(d))
		for i, v := range d {
			out[strconv.Itoa(i)] = v
		}
		return out, nil
	case iter.Seq2[string, any]:
		return collect(d), nil
	case func(yield func(string, any) bool):
		return collect(d), nil
	case json.RawMessage:
		return decodeFields(d)
	case []byte:
		return decodeFields(d)
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out[it.Key().String()] = it.Value().Interface()
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make(map[string]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[strconv.Itoa(i)] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, &ArgumentError{Msg: fmt.Sprintf("data must be a map or a sequence of key/value pairs, got %T", data)}
}

func collect(seq iter.Seq2[string, any]) map[string]any {
	out := make(map[string]any)
	for k, v := range seq {
		out[k] = v
	}
	return out
}

func decodeFields(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ArgumentError{Msg: "data is not valid JSON", Err: err}
	}
	switch v.(type) {
	case map[string]any, []any:
		return toFields(v)
	}
	return nil, &ArgumentError{Msg: fmt.Sprintf("data must be a JSON object or array, got %T", v)}
}
