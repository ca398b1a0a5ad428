package services

import (
	"encoding/json"
	"strings"

	"github.com/stwalsh4118/estatedesk/internal/repository"
)

func clonePatch(p repository.Patch) repository.Patch {
	out := make(repository.Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// patchValue decodes field from p. ok is false when the field is absent
// or null.
func patchValue[T any](p repository.Patch, field string) (value T, ok bool, err error) {
	raw, present := p[field]
	if !present || string(raw) == "null" {
		return value, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fieldError(field, "has the wrong type")
	}
	return value, true, nil
}

// requireText checks a string field: present and non-blank when
// required, and never blank when present.
func requireText(p repository.Patch, field string, required bool, message string) error {
	v, ok, err := patchValue[string](p, field)
	if err != nil {
		return err
	}
	if (!ok && required) || (ok && strings.TrimSpace(v) == "") {
		return fieldError(field, message)
	}
	return nil
}

// requireOneOf checks an enum field against allowed values.
func requireOneOf(p repository.Patch, field string, required bool, allowed ...string) error {
	v, ok, err := patchValue[string](p, field)
	if err != nil {
		return err
	}
	if !ok {
		if required {
			return fieldError(field, "must be one of: "+strings.Join(allowed, ", "))
		}
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fieldError(field, "must be one of: "+strings.Join(allowed, ", "))
}

// requireRange checks an optional number field against [lo, hi].
func requireRange(p repository.Patch, field string, lo, hi float64) error {
	v, ok, err := patchValue[float64](p, field)
	if err != nil || !ok {
		return err
	}
	if v < lo || v > hi {
		return fieldError(field, "is out of range")
	}
	return nil
}
