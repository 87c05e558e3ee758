package plan

import (
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
)

// libraryDocument is the wire shape of a master library file.
type libraryDocument struct {
	Masters []*Master `yaml:"masters"`
}

// ParseLibrary decodes a YAML master library, rejecting duplicate names.
func ParseLibrary(data []byte) (*Library, error) {
	var doc libraryDocument

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, NewError(KindStructure, "invalid library document").
			Wrap(err)
	}

	return NewLibrary(doc.Masters...)
}

// LoadLibrary reads and decodes a YAML master library file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err).
			With(slog.String("path", path))
	}

	return ParseLibrary(data)
}

// ParsePlan decodes a YAML plan document. Generate modes and dates are
// validated as they decode; structural validation against a library
// happens in [Plan.Validate].
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan

	err := yaml.Unmarshal(data, &p)
	if err != nil {
		return nil, NewError(KindStructure, "invalid plan document").
			Wrap(err)
	}

	return &p, nil
}

// LoadPlan reads and decodes a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err).
			With(slog.String("path", path))
	}

	return ParsePlan(data)
}
