package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/aistocks/internal/contracts"
)

// Load reads a YAML catalog file and validates it.
// Unknown fields fail the load so typos surface at startup.
func Load(path string) (*contracts.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*contracts.Catalog, error) {
	var cat contracts.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := Validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadOrDefault loads path, or returns the built-in catalog when path is empty
func LoadOrDefault(path string) (*contracts.Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Hash returns the SHA-256 of the catalog's canonical JSON.
// Struct field order keeps the encoding deterministic.
func Hash(cat *contracts.Catalog) (string, error) {
	jsonBytes, err := json.Marshal(cat)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Marshal encodes a catalog as YAML
func Marshal(cat *contracts.Catalog) ([]byte, error) {
	return yaml.Marshal(cat)
}
