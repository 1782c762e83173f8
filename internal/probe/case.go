package probe

import (
	"encoding/json"
	"fmt"
	"time"
)

// Body produces the request bytes for a case. The two variants let malformed
// raw bodies live alongside structured payloads without the run loop
// special-casing either.
type Body interface {
	Bytes() ([]byte, error)
}

// JSONBody marshals its payload to JSON at send time.
type JSONBody struct {
	Payload any
}

// Bytes encodes the payload as UTF-8 JSON text.
func (b JSONBody) Bytes() ([]byte, error) {
	data, err := json.Marshal(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("probe: encode payload: %w", err)
	}
	return data, nil
}

// RawBody is sent verbatim with no JSON encoding applied. Used to probe the
// worker's malformed-body handling.
type RawBody []byte

// Bytes returns the raw bytes unchanged.
func (b RawBody) Bytes() ([]byte, error) {
	return []byte(b), nil
}

// ExchangePayload is the worker's exchange request shape. Pixels is
// deliberately loose so malformed variants (a scalar instead of an array)
// remain expressible.
type ExchangePayload struct {
	Title  string `json:"title"`
	Pixels any    `json:"pixels"`
}

// Case is one named request scenario. Immutable once defined.
type Case struct {
	Name string
	Body Body
}

// Result captures the observed outcome of one case. Status 0 denotes a
// transport-level failure distinct from any HTTP status; Body then carries
// the error text instead of a response body.
type Result struct {
	Case     string
	Status   int
	Body     string
	Duration time.Duration
}
