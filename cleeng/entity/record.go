package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strconv"
)

// Record is a placeholder with a typed view over its fields. Keys the
// typed view does not know about remain reachable through Base.
type Record[T any] struct {
	Base
	data T
}

// Populate fills the raw fields and decodes the typed view. Fields whose
// JSON type does not match the typed view are left at their zero value in
// Data but stay available through Get.
func (r *Record[T]) Populate(data any) error {
	commit, err := r.Prepare(data)
	if err != nil {
		return err
	}
	commit()
	return nil
}

// Prepare implements Preparer
func (r *Record[T]) Prepare(data any) (func(), error) {
	merged, err := r.Base.merge(data)
	if err != nil {
		return nil, err
	}
	var v T
	if err := decodeInto(merged, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, &ArgumentError{Msg: "cannot decode fields", Err: err}
		}
	}
	return func() {
		r.Base.set(merged)
		r.data = v
	}, nil
}

// Data returns the typed view
func (r *Record[T]) Data() (T, error) {
	if r.Pending() {
		var zero T
		return zero, ErrNotPopulated
	}
	return r.data, nil
}

// Collection is a placeholder for list results: an items array of entities
// of one kind plus the server-side total count.
type Collection[E Entity] struct {
	newItem   func() E
	populated bool
	items     []E
	total     int64
}

// NewCollection creates a pending collection whose items are built with
// newItem.
func NewCollection[E Entity](newItem func() E) *Collection[E] {
	return &Collection[E]{newItem: newItem}
}

// Pending reports whether the collection has not been populated yet
func (c *Collection[E]) Pending() bool {
	return !c.populated
}

// Populate requires an items sequence and a totalItemCount. Each item is
// populated into a freshly built entity, in order.
func (c *Collection[E]) Populate(data any) error {
	commit, err := c.Prepare(data)
	if err != nil {
		return err
	}
	commit()
	return nil
}

// Prepare implements Preparer. Items are built and populated up front; the
// collection itself is only changed by commit.
func (c *Collection[E]) Prepare(data any) (func(), error) {
	fields, err := toFields(data)
	if err != nil {
		return nil, err
	}
	rawItems, ok := fields["items"]
	if !ok || rawItems == nil {
		return nil, &StateError{Msg: "cannot create collection - items are not available"}
	}
	rawTotal, ok := fields["totalItemCount"]
	if !ok || rawTotal == nil {
		return nil, &StateError{Msg: "cannot create collection - total item count is not available"}
	}

	seq, err := toSlice(rawItems)
	if err != nil {
		return nil, err
	}
	total, err := toInt(rawTotal)
	if err != nil {
		return nil, &ArgumentError{Msg: "totalItemCount", Err: err}
	}

	items := make([]E, 0, len(seq))
	for i, raw := range seq {
		item := c.newItem()
		if err := item.Populate(raw); err != nil {
			return nil, fmt.Errorf("collection item %d: %w", i, err)
		}
		items = append(items, item)
	}

	return func() {
		c.items = items
		c.total = total
		c.populated = true
	}, nil
}

// Items returns the populated items in server order
func (c *Collection[E]) Items() ([]E, error) {
	if !c.populated {
		return nil, ErrNotPopulated
	}
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out, nil
}

// All iterates over the populated items
func (c *Collection[E]) All() (iter.Seq2[int, E], error) {
	if !c.populated {
		return nil, ErrNotPopulated
	}
	items := c.items
	return func(yield func(int, E) bool) {
		for i, item := range items {
			if !yield(i, item) {
				return
			}
		}
	}, nil
}

// TotalItemCount returns the total number of items on the server, which
// may exceed the length of the current page.
func (c *Collection[E]) TotalItemCount() (int64, error) {
	if !c.populated {
		return 0, ErrNotPopulated
	}
	return c.total, nil
}

// MarshalJSON renders the page; a pending collection renders as null
func (c *Collection[E]) MarshalJSON() ([]byte, error) {
	if !c.populated {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Items          []E   `json:"items"`
		TotalItemCount int64 `json:"totalItemCount"`
	}{c.items, c.total})
}

func toSlice(v any) ([]any, error) {
	if s, ok := v.([]any); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &ArgumentError{Msg: fmt.Sprintf("collection items must be a sequence, got %T", v)}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		return int64(f), err
	case float64:
		return int64(x), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
