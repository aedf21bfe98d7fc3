package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeYAML(b, out)
}

func decodeYAML(b []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadBalance overlays the YAML file at path on Default and validates the
// result. Fields absent from the file keep their default values.
func LoadBalance(path string) (Balance, error) {
	bal := Default()
	if err := loadYAML(path, &bal); err != nil {
		return Balance{}, fmt.Errorf("load balance %s: %w", path, err)
	}
	if err := bal.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance %s: %w", path, err)
	}
	return bal, nil
}

// ParseBalance is LoadBalance for in-memory documents.
func ParseBalance(doc []byte) (Balance, error) {
	bal := Default()
	if err := decodeYAML(doc, &bal); err != nil {
		return Balance{}, fmt.Errorf("parse balance: %w", err)
	}
	if err := bal.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance: %w", err)
	}
	return bal, nil
}

// LoadOrDefault returns Default when path is empty.
func LoadOrDefault(path string) (Balance, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadBalance(path)
}

// MarshalBalance renders a balance back to YAML, e.g. to seed a new file.
func MarshalBalance(b Balance) ([]byte, error) {
	return yaml.Marshal(b)
}
