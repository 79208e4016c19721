package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for output formats other than json and yaml.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ValidFormat reports whether format can be written.
func ValidFormat(format string) bool {
	return format == "json" || format == "yaml"
}

// Encode serializes spec as indented JSON or YAML.
func Encode(w io.Writer, spec *OpenAPISpec, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(spec); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(spec); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s (supported: json, yaml)", ErrUnsupportedFormat, format)
	}
	return nil
}

// WriteFile writes spec to openapi.<format> inside dir and returns the path.
func WriteFile(dir string, spec *OpenAPISpec, format string) (string, error) {
	if !ValidFormat(format) {
		return "", fmt.Errorf("%w: %s (supported: json, yaml)", ErrUnsupportedFormat, format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, "openapi."+format)
	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(file, spec, format); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return outputPath, nil
}
