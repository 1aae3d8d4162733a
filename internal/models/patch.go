package models

import "encoding/json"

// Patch is a tri-state optional field for partial updates. It distinguishes
// "key absent from the payload" (leave unchanged), "key present with null"
// (clear the field) and "key present with a value" (set it). A plain pointer
// cannot express the first two separately, and conflating them corrupts
// expense data on update.
//
// The zero value means unchanged; json only invokes UnmarshalJSON for keys
// that are present in the payload.
type Patch[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Present = true
	if string(data) == "null" {
		p.Null = true
		return nil
	}
	return json.Unmarshal(data, &p.Value)
}

// MarshalJSON implements json.Marshaler so Patch round-trips in test fixtures.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Present || p.Null {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// Apply resolves the patch against the current pointer-valued field:
// unchanged returns cur, cleared returns nil, set returns the new value.
func (p Patch[T]) Apply(cur *T) *T {
	if !p.Present {
		return cur
	}
	if p.Null {
		return nil
	}
	v := p.Value
	return &v
}
