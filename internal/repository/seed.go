package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/stwalsh4118/estatedesk/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Properties []map[string]interface{} `yaml:"properties"`
	Users      []map[string]interface{} `yaml:"users"`
}

// SeedProperties returns the example listings.
func SeedProperties() ([]models.Property, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return decodeSeed[models.Property](f.Properties)
}

// SeedUsers returns the example operators.
func SeedUsers() ([]models.User, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return decodeSeed[models.User](f.Users)
}

// decodeSeed routes YAML records through JSON so the models' json tags
// are the single field mapping.
func decodeSeed[T any](records []map[string]interface{}) ([]T, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode seed: %w", err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	return out, nil
}
