package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a chart dataset file.
type ImportSchema struct {
	Chart ChartImport `json:"chart" yaml:"chart"`
	Rows  []RowImport `json:"rows" yaml:"rows" validate:"dive"`
}

// ChartImport names the chart and carries segment defaults.
type ChartImport struct {
	Name     string          `json:"name" yaml:"name" validate:"required,max=120"`
	Defaults *DefaultsImport `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// DefaultsImport cascades to every segment that leaves the field unset.
type DefaultsImport struct {
	Color          string `json:"color,omitempty" yaml:"color,omitempty"`
	DisableMove    *bool  `json:"disable_move,omitempty" yaml:"disable_move,omitempty"`
	DisableStretch *bool  `json:"disable_stretch,omitempty" yaml:"disable_stretch,omitempty"`
}

// RowImport is one row, nested through Children.
type RowImport struct {
	ID        string           `json:"id" yaml:"id" validate:"required"`
	Title     string           `json:"title" yaml:"title"`
	TimeLines []TimeLineImport `json:"timelines,omitempty" yaml:"timelines,omitempty" validate:"dive"`
	Children  []RowImport      `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}

// TimeLineImport is one segment. Dates are RFC3339 or YYYY-MM-DD (UTC
// midnight).
type TimeLineImport struct {
	ID             string        `json:"id,omitempty" yaml:"id,omitempty"`
	Start          string        `json:"start" yaml:"start" validate:"required,instant"`
	End            string        `json:"end" yaml:"end" validate:"required,instant"`
	Label          string        `json:"label,omitempty" yaml:"label,omitempty"`
	Icon           string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color          string        `json:"color,omitempty" yaml:"color,omitempty"`
	DisableMove    *bool         `json:"disable_move,omitempty" yaml:"disable_move,omitempty"`
	DisableStretch *bool         `json:"disable_stretch,omitempty" yaml:"disable_stretch,omitempty"`
	Points         []PointImport `json:"points,omitempty" yaml:"points,omitempty" validate:"dive"`
}

// PointImport is a time point bound to its enclosing segment.
type PointImport struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	At   string `json:"at" yaml:"at" validate:"required,instant"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// LoadImportSchema reads a dataset file. The format follows the extension:
// .yaml/.yml or .json.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, filepath.Ext(path))
}

// ParseImportSchema decodes data in the format named by ext.
func ParseImportSchema(data []byte, ext string) (*ImportSchema, error) {
	var schema ImportSchema
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q (want .yaml, .yml or .json)", ext)
	}
	return &schema, nil
}
