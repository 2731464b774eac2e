package entity

import (
	"encoding/json"
	"errors"
	"iter"
	"reflect"
	"testing"
)

func TestBase_PendingUntilPopulated(t *testing.T) {
	b := NewBase()
	if !b.Pending() {
		t.Fatal("new placeholder should be pending")
	}

	if _, err := b.Get("id"); !errors.Is(err, ErrNotPopulated) {
		t.Errorf("Get before populate: err = %v, want ErrNotPopulated", err)
	}
	if _, err := b.Has("id"); !errors.Is(err, ErrNotPopulated) {
		t.Errorf("Has before populate: err = %v, want ErrNotPopulated", err)
	}
	if _, err := b.Fields(); !errors.Is(err, ErrNotPopulated) {
		t.Errorf("Fields before populate: err = %v, want ErrNotPopulated", err)
	}

	var stateErr *StateError
	if _, err := b.Get("id"); !errors.As(err, &stateErr) {
		t.Errorf("Get before populate: err = %T, want *StateError", err)
	}
}

func TestBase_ZeroValueIsPending(t *testing.T) {
	var b Base
	if !b.Pending() {
		t.Fatal("zero Base should be pending")
	}
}

func TestBase_PopulateEmpty(t *testing.T) {
	b := NewBase()
	if err := b.Populate(map[string]any{}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if b.Pending() {
		t.Fatal("placeholder should not be pending after Populate")
	}

	_, err := b.Get("displayName")
	if errors.Is(err, ErrNotPopulated) {
		t.Fatal("unset field on populated placeholder must not be a state error")
	}
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("err = %T, want *ArgumentError", err)
	}
	if !errors.Is(err, ErrNoSuchField) {
		t.Errorf("err = %v, want ErrNoSuchField", err)
	}
}

func TestBase_RoundTrip(t *testing.T) {
	data := map[string]any{
		"name":    "Jane",
		"count":   42,
		"enabled": true,
		"nested":  map[string]any{"a": "b", "n": 1},
		"nothing": nil,
	}

	b := NewBase()
	if err := b.Populate(data); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	for k, want := range data {
		got, err := b.Get(k)
		if err != nil {
			t.Fatalf("Get(%q): %v", k, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Get(%q) = %v, want %v", k, got, want)
		}
	}

	has, err := b.Has("nothing")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Error("Has should be false for a null field")
	}
}

func TestBase_PopulateRejectsNonMapping(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"nil", nil},
		{"string", "hello"},
		{"int", 7},
		{"int keyed map", map[int]string{1: "a"}},
		{"json scalar", json.RawMessage(`"x"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBase()
			err := b.Populate(tt.data)
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("err = %v, want *ArgumentError", err)
			}
			if !b.Pending() {
				t.Error("failed Populate must leave the placeholder pending")
			}
		})
	}
}

func TestBase_PopulateAcceptedShapes(t *testing.T) {
	var seq iter.Seq2[string, any] = func(yield func(string, any) bool) {
		yield("id", "s1")
	}

	tests := []struct {
		name string
		data any
		key  string
		want any
	}{
		{"string map", map[string]string{"id": "m1"}, "id", "m1"},
		{"slice", []any{"zero", "one"}, "1", "one"},
		{"json object", json.RawMessage(`{"id":"j1"}`), "id", "j1"},
		{"json array", []byte(`["a"]`), "0", "a"},
		{"seq2", seq, "id", "s1"},
		{"func literal", func(yield func(string, any) bool) { yield("id", "f1") }, "id", "f1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBase()
			if err := b.Populate(tt.data); err != nil {
				t.Fatalf("Populate: %v", err)
			}
			got, err := b.Get(tt.key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestBase_TypedGetters(t *testing.T) {
	b := NewBase()
	if err := b.Populate(json.RawMessage(`{"id":12345678901234,"name":"x","ok":true,"price":"9"}`)); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	n, err := b.GetInt("id")
	if err != nil || n != 12345678901234 {
		t.Errorf("GetInt(id) = %d, %v", n, err)
	}
	s, err := b.GetString("name")
	if err != nil || s != "x" {
		t.Errorf("GetString(name) = %q, %v", s, err)
	}
	ok, err := b.GetBool("ok")
	if err != nil || !ok {
		t.Errorf("GetBool(ok) = %v, %v", ok, err)
	}
	p, err := b.GetInt("price")
	if err != nil || p != 9 {
		t.Errorf("GetInt(price) = %d, %v", p, err)
	}
	if _, err := b.GetBool("name"); err == nil {
		t.Error("GetBool on a string field should fail")
	}
}

func TestBase_MarshalJSON(t *testing.T) {
	b := NewBase()
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("pending placeholder = %s, want null", raw)
	}

	_ = b.Populate(map[string]any{"a": 1})
	raw, _ = json.Marshal(b)
	if string(raw) != `{"a":1}` {
		t.Errorf("populated placeholder = %s", raw)
	}
}
