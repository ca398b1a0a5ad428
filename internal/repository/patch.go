package repository

import (
	"encoding/json"
	"fmt"
)

// Patch is a partial record: top-level JSON fields to overwrite.
type Patch map[string]json.RawMessage

// NewPatch converts v (a struct with omitempty fields, or a map) into a
// Patch holding only the fields v carries.
func NewPatch(v interface{}) (Patch, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch: %w", err)
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("patch must be a JSON object: %w", err)
	}
	if p == nil {
		p = Patch{}
	}
	return p, nil
}

// Has reports whether the patch sets field.
func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// ID returns the "id" field when it is a non-empty string.
func (p Patch) ID() string {
	raw, ok := p["id"]
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}

// Set stores value under field.
func (p Patch) Set(field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", field, err)
	}
	p[field] = data
	return nil
}

// merge overlays patch onto base and decodes the result into a fresh T.
// Fields present in the patch win, including explicit nulls.
func merge[T any](base *T, patch Patch) (T, error) {
	var out T

	fields := map[string]json.RawMessage{}
	if base != nil {
		data, err := json.Marshal(base)
		if err != nil {
			return out, fmt.Errorf("failed to encode record: %w", err)
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return out, fmt.Errorf("failed to decode record: %w", err)
		}
	}
	for k, v := range patch {
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("failed to encode merged record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}
