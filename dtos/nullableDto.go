package dtos

import (
	"encoding/json"
)

// NullableID is an optional reference that distinguishes an absent field
// from an explicit JSON null.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Ptr returns the referenced id or nil.
func (n NullableID) Ptr() *uint {
	return n.Value
}
