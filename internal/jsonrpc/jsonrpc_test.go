package jsonrpc

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestID_Int64(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{`1`, 1, true},
		{`"3"`, 3, true},
		{`1.5`, 0, false},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{`{}`, 0, false},
	}

	for _, tt := range tests {
		var id ID
		if err := json.Unmarshal([]byte(tt.raw), &id); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.raw, err)
		}
		got, ok := id.Int64()
		if got != tt.want || ok != tt.ok {
			t.Errorf("Int64(%s) = %d, %v, want %d, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestID_NullAndAbsent(t *testing.T) {
	var resp Response
	if err := json.Unmarshal([]byte(`{"result":{}}`), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !resp.ID.IsNull() {
		t.Error("absent id should be null")
	}
	if err := json.Unmarshal([]byte(`{"result":{},"id":null}`), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !resp.ID.IsNull() || resp.ID.String() != "null" {
		t.Errorf("id = %s, want null", resp.ID)
	}
}

func TestNewRequest_FieldOrder(t *testing.T) {
	req, err := NewRequest("getCustomer", map[string]string{"customerToken": "t"}, NewIDInt(1))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	raw, _ := req.Bytes()
	want := `{"method":"getCustomer","params":{"customerToken":"t"},"jsonrpc":"2.0","id":1}`
	if string(raw) != want {
		t.Errorf("Bytes = %s, want %s", raw, want)
	}

	req, _ = NewRequest("getCustomer", nil, NewIDInt(2))
	if string(req.Params) != "{}" {
		t.Errorf("nil params = %s, want {}", req.Params)
	}
}

func TestMarshalBatchRequest(t *testing.T) {
	if got := string(MarshalBatchRequest(nil)); got != "[]" {
		t.Errorf("empty batch = %s", got)
	}
	got := string(MarshalBatchRequest([][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`)}))
	if got != `[{"a":1},{"b":2}]` {
		t.Errorf("batch = %s", got)
	}
}

func TestResponse_HasError(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`null`, false},
		{`false`, false},
		{`0`, false},
		{`""`, false},
		{`"0"`, false},
		{`[]`, false},
		{`{}`, false},
		{`{ }`, false},
		{`"boom"`, true},
		{`{"code":1,"message":"x"}`, true},
		{`1`, true},
		{`true`, true},
		{`[0]`, true},
	}

	for _, tt := range tests {
		r := &Response{Error: json.RawMessage(tt.raw)}
		if got := r.HasError(); got != tt.want {
			t.Errorf("HasError(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
	if (&Response{}).HasError() {
		t.Error("absent error should be falsy")
	}
}

func TestResponse_ErrorObject(t *testing.T) {
	r := &Response{Error: json.RawMessage(`{"code":-1,"message":"bad","data":{"k":1}}`)}
	e := r.ErrorObject()
	if e.Code != -1 || e.Message != "bad" || string(e.Data) != `{"k":1}` {
		t.Errorf("ErrorObject = %+v", e)
	}

	r = &Response{Error: json.RawMessage(`"plain"`)}
	if e := r.ErrorObject(); e.Message != "plain" || e.Code != 0 {
		t.Errorf("string error = %+v", e)
	}

	r = &Response{Error: json.RawMessage(`42`)}
	if e := r.ErrorObject(); e.Message != "42" {
		t.Errorf("number error = %+v", e)
	}

	if (&Response{Error: json.RawMessage(`false`)}).ErrorObject() != nil {
		t.Error("falsy error should give nil")
	}
}

func TestResponse_ResultType(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`: "object",
		`[1]`:     "array",
		`"s"`:     "string",
		`true`:    "boolean",
		`null`:    "null",
		`12`:      "number",
		``:        "missing",
	}
	for raw, want := range tests {
		r := &Response{Result: json.RawMessage(raw)}
		if got := r.ResultType(); got != want {
			t.Errorf("ResultType(%q) = %s, want %s", raw, got, want)
		}
		structured := want == "object" || want == "array"
		if r.ResultIsStructured() != structured {
			t.Errorf("ResultIsStructured(%q) = %v", raw, !structured)
		}
	}
}

func TestSplitBatch(t *testing.T) {
	elems, err := SplitBatch([]byte(` [{"id":1}, 5, "x"]`))
	if err != nil || len(elems) != 3 {
		t.Fatalf("SplitBatch = %v, %v", elems, err)
	}

	for _, raw := range []string{``, `{}`, `[1,`, `"[]"`} {
		if _, err := SplitBatch([]byte(raw)); !errors.Is(err, ErrNotArray) {
			t.Errorf("SplitBatch(%q) err = %v, want ErrNotArray", raw, err)
		}
	}
}

func TestParseBatchRequest(t *testing.T) {
	reqs, isBatch, err := ParseBatchRequest([]byte(`[{"method":"a","params":{},"jsonrpc":"2.0","id":1}]`))
	if err != nil || !isBatch || len(reqs) != 1 || reqs[0].Method != "a" {
		t.Fatalf("batch = %v, %v, %v", reqs, isBatch, err)
	}

	reqs, isBatch, err = ParseBatchRequest([]byte(`{"method":"b","jsonrpc":"2.0"}`))
	if err != nil || isBatch || !reqs[0].IsNotification() {
		t.Fatalf("single = %v, %v, %v", reqs, isBatch, err)
	}

	if _, _, err := ParseBatchRequest([]byte(`[{`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestRequest_Validate(t *testing.T) {
	if err := (&Request{Method: "a", JSONRPC: "1.0"}).Validate(); err == nil {
		t.Error("expected version error")
	}
	if err := (&Request{JSONRPC: Version}).Validate(); err == nil {
		t.Error("expected method error")
	}
	if err := (&Request{Method: "a", JSONRPC: Version}).Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		err  *Error
		code int
	}{
		{ErrParse, CodeParseError},
		{ErrInvalidRequest, CodeInvalidRequest},
	}
	for _, tt := range tests {
		body, err := NewErrorResponse(NewIDNull(), tt.err).Bytes()
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		resp, err := ParseResponse(body)
		if err != nil {
			t.Fatalf("ParseResponse: %v", err)
		}
		if !resp.HasError() || resp.ErrorObject().Code != tt.code {
			t.Errorf("%s: error = %+v", tt.err.Message, resp.ErrorObject())
		}
		if !resp.ID.IsNull() {
			t.Errorf("%s: id = %s, want null", tt.err.Message, resp.ID)
		}
	}
}
