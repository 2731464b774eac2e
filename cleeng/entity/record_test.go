package entity

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRecord_TypedView(t *testing.T) {
	c := NewCustomer()
	if _, err := c.Data(); !errors.Is(err, ErrNotPopulated) {
		t.Fatalf("Data before populate: err = %v, want ErrNotPopulated", err)
	}

	err := c.Populate(json.RawMessage(`{"id":"c1","displayName":"Jane","loyaltyTier":"gold"}`))
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}

	d, err := c.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if d.ID != "c1" || d.DisplayName != "Jane" {
		t.Errorf("Data = %+v", d)
	}

	tier, err := c.GetString("loyaltyTier")
	if err != nil {
		t.Fatalf("unknown key should stay reachable: %v", err)
	}
	if tier != "gold" {
		t.Errorf("loyaltyTier = %q, want gold", tier)
	}
}

func TestRecord_TypeMismatchKeepsRawField(t *testing.T) {
	c := NewCustomer()
	if err := c.Populate(map[string]any{"id": 17, "displayName": "Jane"}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	d, _ := c.Data()
	if d.ID != "" {
		t.Errorf("ID = %q, want zero value for mismatched type", d.ID)
	}
	if d.DisplayName != "Jane" {
		t.Errorf("DisplayName = %q, want Jane", d.DisplayName)
	}
	raw, err := c.Get("id")
	if err != nil || raw != 17 {
		t.Errorf("Get(id) = %v, %v", raw, err)
	}
}

func TestAccessStatus_Granted(t *testing.T) {
	a := NewAccessStatus()
	if _, err := a.Granted(); !errors.Is(err, ErrNotPopulated) {
		t.Fatalf("Granted before populate: err = %v", err)
	}
	_ = a.Populate(json.RawMessage(`{"accessGranted":true,"expiresAt":1700000000}`))
	ok, err := a.Granted()
	if err != nil || !ok {
		t.Errorf("Granted = %v, %v", ok, err)
	}
	d, _ := a.Data()
	if d.ExpiresAt != 1700000000 {
		t.Errorf("ExpiresAt = %d", d.ExpiresAt)
	}
}

func TestOffer_EmbeddedFields(t *testing.T) {
	o := NewRentalOffer()
	err := o.Populate(json.RawMessage(`{"id":"R123","title":"Film","price":2.99,"period":48,"tags":["a","b"]}`))
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	d, _ := o.Data()
	if d.ID != "R123" || d.Title != "Film" || d.Price != 2.99 || d.Period != 48 || len(d.Tags) != 2 {
		t.Errorf("Data = %+v", d)
	}
}

func TestCollection_Populate(t *testing.T) {
	c := NewCollection(NewSingleOffer)
	if !c.Pending() {
		t.Fatal("new collection should be pending")
	}
	if _, err := c.Items(); !errors.Is(err, ErrNotPopulated) {
		t.Errorf("Items before populate: err = %v", err)
	}
	if _, err := c.All(); !errors.Is(err, ErrNotPopulated) {
		t.Errorf("All before populate: err = %v", err)
	}

	raw := json.RawMessage(`{"items":[{"id":"A1","title":"one"},{"id":"A2","title":"two"}],"totalItemCount":7}`)
	if err := c.Populate(raw); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	total, err := c.TotalItemCount()
	if err != nil || total != 7 {
		t.Errorf("TotalItemCount = %d, %v", total, err)
	}

	seq, err := c.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	var ids []string
	for _, offer := range seq {
		if offer.Pending() {
			t.Error("child entity should be populated")
		}
		d, _ := offer.Data()
		ids = append(ids, d.ID)
	}
	if len(ids) != 2 || ids[0] != "A1" || ids[1] != "A2" {
		t.Errorf("ids = %v, want [A1 A2]", ids)
	}
}

func TestCollection_MissingParts(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no items", `{"totalItemCount":1}`},
		{"null items", `{"items":null,"totalItemCount":1}`},
		{"no total", `{"items":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollection(NewBase)
			err := c.Populate(json.RawMessage(tt.data))
			var stateErr *StateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("err = %v, want *StateError", err)
			}
			if errors.Is(err, ErrNotPopulated) {
				t.Error("shape error should be distinct from ErrNotPopulated")
			}
			if !c.Pending() {
				t.Error("collection should stay pending")
			}
		})
	}
}

func TestCollection_BadItem(t *testing.T) {
	c := NewCollection(NewBase)
	err := c.Populate(json.RawMessage(`{"items":["scalar"],"totalItemCount":1}`))
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("err = %v, want *ArgumentError", err)
	}
}

func TestCollection_MarshalJSON(t *testing.T) {
	c := NewCollection(NewBase)
	_ = c.Populate(map[string]any{"items": []any{map[string]any{"id": "x"}}, "totalItemCount": 1})
	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"items":[{"id":"x"}],"totalItemCount":1}` {
		t.Errorf("Marshal = %s", raw)
	}
}

// plainEntity implements Entity without Preparer
type plainEntity struct{ got any }

func (p *plainEntity) Populate(data any) error { p.got = data; return nil }
func (p *plainEntity) Pending() bool           { return p.got == nil }

func TestPrepare_StateUnchangedUntilCommit(t *testing.T) {
	c := NewCustomer()
	commit, err := Prepare(c, json.RawMessage(`{"id":"c1","displayName":"Jane"}`))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !c.Pending() {
		t.Fatal("Prepare must not populate")
	}
	if err := commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	d, err := c.Data()
	if err != nil || d.ID != "c1" {
		t.Errorf("Data = %+v, %v", d, err)
	}
}

func TestPrepare_CollectionErrorLeavesPending(t *testing.T) {
	coll := NewCollection(NewSingleOffer)
	if _, err := Prepare(coll, map[string]any{"items": []any{}}); err == nil {
		t.Fatal("expected an error for a missing totalItemCount")
	}
	if !coll.Pending() {
		t.Error("collection should stay pending")
	}
}

func TestPrepare_MergesExistingFields(t *testing.T) {
	b := NewBase()
	if err := b.Populate(map[string]any{"a": 1}); err != nil {
		t.Fatal(err)
	}
	commit, err := b.Prepare(map[string]any{"b": 2})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if has, _ := b.Has("b"); has {
		t.Error("field visible before commit")
	}
	commit()
	hasA, _ := b.Has("a")
	hasB, _ := b.Has("b")
	if !hasA || !hasB {
		t.Error("commit should keep earlier fields and add new ones")
	}
}

func TestPrepare_FallsBackToPopulate(t *testing.T) {
	p := &plainEntity{}
	commit, err := Prepare(p, "x")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !p.Pending() {
		t.Fatal("Populate ran before commit")
	}
	if err := commit(); err != nil || p.got != "x" {
		t.Errorf("commit: got %v, %v", p.got, err)
	}
}
