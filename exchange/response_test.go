package exchange

import (
	"encoding/json"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestResponseUnmarshalOK(t *testing.T) {
	body := `{"status":"ok","response":{"type":"default"}}`

	var resp response[json.RawMessage]
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	td.Cmp(t, resp.Status, "ok")
	td.CmpTrue(t, resp.IsOK())
	td.Cmp(t, string(*resp.Data), `{"type":"default"}`)
	td.Cmp(t, string(resp.Raw), body)
}

func TestResponseUnmarshalErr(t *testing.T) {
	body := `{"status":"err","response":"token name already registered"}`

	var resp response[json.RawMessage]
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	td.CmpTrue(t, resp.IsErr())
	td.Cmp(t, resp.ErrorMessage, "token name already registered")
	td.CmpNil(t, resp.Data)
}

func TestResponseUnmarshalErrStructuredDetail(t *testing.T) {
	// Rejections occasionally arrive as objects; keep them verbatim.
	body := `{"status":"err","response":{"code":42,"reason":"auction closed"}}`

	var resp response[json.RawMessage]
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	td.CmpTrue(t, resp.IsErr())
	td.Cmp(t, resp.ErrorMessage, `{"code":42,"reason":"auction closed"}`)
}

func TestResponseUnmarshalUnknownStatus(t *testing.T) {
	body := `{"status":"pending","response":null}`

	var resp response[json.RawMessage]
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	td.Cmp(t, resp.Status, "pending")
	td.CmpFalse(t, resp.IsOK())
	td.CmpFalse(t, resp.IsErr())
	td.Cmp(t, string(resp.Raw), body)
}

func TestResponseUnmarshalNotAnEnvelope(t *testing.T) {
	var resp response[json.RawMessage]
	if err := json.Unmarshal([]byte(`"just a string"`), &resp); err == nil {
		t.Fatal("expected decode failure for a non-envelope body")
	}
}
