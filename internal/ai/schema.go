package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

// ListingsSchema describes the assistant search answer: fictional listings.
var ListingsSchema = Schema{
	"type": "array",
	"items": Schema{
		"type": "object",
		"properties": Schema{
			"id":       Schema{"type": "string"},
			"title":    Schema{"type": "string"},
			"price":    Schema{"type": "string"},
			"location": Schema{"type": "string"},
			"features": Schema{"type": "array", "items": Schema{"type": "string"}},
		},
		"required": []string{"id", "title", "price", "location", "features"},
	},
}

// ScheduleSchema describes a suggested task slot.
var ScheduleSchema = Schema{
	"type": "object",
	"properties": Schema{
		"date":   Schema{"type": "string"},
		"time":   Schema{"type": "string"},
		"reason": Schema{"type": "string"},
	},
	"required": []string{"date", "time", "reason"},
}

// ValidateJSON checks that text is JSON matching schema.
func ValidateJSON(schema Schema, text string) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewStringLoader(text),
	)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// toGenaiSchema converts the JSON Schema subset used here into the
// service's schema type.
func toGenaiSchema(s Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{}
	if t, ok := s["type"].(string); ok {
		out.Type = genai.Type(strings.ToUpper(t))
	}
	if d, ok := s["description"].(string); ok {
		out.Description = d
	}
	if items, ok := asSchema(s["items"]); ok {
		out.Items = toGenaiSchema(items)
	}
	if props, ok := asSchema(s["properties"]); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := asSchema(raw); ok {
				out.Properties[name] = toGenaiSchema(child)
			}
		}
	}
	switch req := s["required"].(type) {
	case []string:
		out.Required = append([]string(nil), req...)
	case []interface{}:
		for _, r := range req {
			if name, ok := r.(string); ok {
				out.Required = append(out.Required, name)
			}
		}
	}
	switch enum := s["enum"].(type) {
	case []string:
		out.Enum = append([]string(nil), enum...)
	case []interface{}:
		for _, e := range enum {
			if v, ok := e.(string); ok {
				out.Enum = append(out.Enum, v)
			}
		}
	}
	return out
}

func asSchema(v interface{}) (Schema, bool) {
	switch m := v.(type) {
	case Schema:
		return m, true
	case map[string]interface{}:
		return Schema(m), true
	default:
		return nil, false
	}
}
