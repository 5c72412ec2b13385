package client

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// Field names an envelope field of a list response.
type Field string

const (
	FieldTotal  Field = "total"
	FieldOffset Field = "offset"
	FieldCount  Field = "count"
	FieldData   Field = "data"
)

// envelope mirrors the wire format. Pointers distinguish absent fields
// from zero values.
type envelope struct {
	Total  *int               `json:"total"`
	Offset *int               `json:"offset"`
	Count  *int               `json:"count"`
	Data   *[]json.RawMessage `json:"data"`
}

// Page is one decoded list response.
type Page struct {
	Total  int
	Offset int
	Count  int
	// Data holds the raw entity objects in server order.
	Data []json.RawMessage

	present map[Field]bool
}

// Has reports whether the server sent field.
func (p *Page) Has(field Field) bool {
	return p.present[field]
}

// Require returns a *MissingFieldError for the first absent field.
func (p *Page) Require(fields ...Field) error {
	for _, f := range fields {
		if !p.Has(f) {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

// DecodePage parses a list response body.
func DecodePage(body []byte) (*Page, error) {
	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	p := &Page{present: make(map[Field]bool, 4)}
	if env.Total != nil {
		p.Total = *env.Total
		p.present[FieldTotal] = true
	}
	if env.Offset != nil {
		p.Offset = *env.Offset
		p.present[FieldOffset] = true
	}
	if env.Count != nil {
		p.Count = *env.Count
		p.present[FieldCount] = true
	}
	if env.Data != nil {
		p.Data = *env.Data
		p.present[FieldData] = true
	}

	return p, nil
}
