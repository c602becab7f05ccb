package exchange

import (
	"encoding/json"
	"fmt"
)

// response is the top-level /exchange envelope.
//
// wire-level shape:
//
//	{
//	  "status": "ok" | "err",
//	  "response": <object or string>
//	}
type response[T any] struct {
	Status       string
	Data         *T     // present when Status == "ok"
	ErrorMessage string // present when Status == "err"
	Raw          json.RawMessage
}

type rawResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

// UnmarshalJSON lets response[T] handle both "ok" (object) and "err" (string)
// using the generic type parameter T for the "ok" payload.
func (r *response[T]) UnmarshalJSON(data []byte) error {
	r.Raw = append(r.Raw[:0], data...)

	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal raw response: %w", err)
	}

	r.Status = raw.Status
	r.Data = nil
	r.ErrorMessage = ""

	switch raw.Status {
	case "ok":
		var payload T
		if err := json.Unmarshal(raw.Response, &payload); err != nil {
			return fmt.Errorf("unmarshal ok response body: %w", err)
		}
		r.Data = &payload

	case "err":
		var msg string
		if err := json.Unmarshal(raw.Response, &msg); err != nil {
			// The remote occasionally returns structured error detail;
			// keep it verbatim rather than failing the decode.
			msg = string(raw.Response)
		}
		r.ErrorMessage = msg
	}

	// Any other status is left for the caller to classify against Raw.
	return nil
}

func (r response[T]) IsOK() bool {
	return r.Status == "ok" && r.Data != nil
}

func (r response[T]) IsErr() bool {
	return r.Status == "err"
}
