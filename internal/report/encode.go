package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteJSON writes r as indented JSON. Japanese text is written as-is.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes r as a YAML document
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML report: %w", err)
	}
	return nil
}
