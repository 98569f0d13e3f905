package instance

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// document is the JSON wire format for an instance.
type document struct {
	Types     []Type     `json:"types"`
	Relations []Relation `json:"relations"`
}

// Marshal encodes the instance as pretty-printed JSON.
func Marshal(inst DataInstance) ([]byte, error) {
	doc := document{Types: inst.Types(), Relations: inst.Relations()}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes an instance from JSON bytes and validates it.
func Unmarshal(data []byte) (*Store, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal instance: %w", err)
	}
	return NewStore(doc.Types, doc.Relations)
}

// Read decodes an instance from r.
func Read(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ReadFile decodes an instance from a JSON file.
func ReadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// WriteFile encodes the instance to a JSON file.
func WriteFile(inst DataInstance, path string) error {
	data, err := Marshal(inst)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
