// Package config reads ganttline settings from GANTTLINE_* environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/ganttline/internal/gantt"
)

// DefaultCellWidth maps six hours onto one terminal column at the default
// density.
const DefaultCellWidth = 12

// Config holds the store location and the chart geometry.
type Config struct {
	DBPath          string
	RowHeight       float64
	RowBuffer       int
	PerHourSpacing  float64
	EdgeSpacing     float64
	MinStretchWidth float64
	AutoScrollStep  float64
	PointSize       float64
	CellWidth       float64 // chart pixels per terminal column
	DisableMove     bool
	DisableStretch  bool
	LogEvents       bool
}

// DefaultConfig returns the engine defaults and a store under the user's
// home directory.
func DefaultConfig() Config {
	opts := gantt.DefaultOptions()
	return Config{
		DBPath:          defaultDBPath(),
		RowHeight:       opts.RowHeight,
		RowBuffer:       opts.RowBuffer,
		PerHourSpacing:  opts.PerHourSpacing,
		EdgeSpacing:     opts.EdgeSpacing,
		MinStretchWidth: opts.MinStretchWidth,
		AutoScrollStep:  opts.AutoScrollStep,
		PointSize:       opts.PointSize,
		CellWidth:       DefaultCellWidth,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ganttline.db"
	}
	return filepath.Join(home, ".ganttline", "ganttline.db")
}

// LoadConfig reads configuration from the environment, falling back to
// defaults for unset or malformed values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("GANTTLINE_DB"); v != "" {
		cfg.DBPath = v
	}
	positiveFloat(&cfg.RowHeight, "GANTTLINE_ROW_HEIGHT")
	positiveFloat(&cfg.PerHourSpacing, "GANTTLINE_PER_HOUR_SPACING")
	positiveFloat(&cfg.MinStretchWidth, "GANTTLINE_MIN_STRETCH_WIDTH")
	positiveFloat(&cfg.AutoScrollStep, "GANTTLINE_AUTO_SCROLL_STEP")
	positiveFloat(&cfg.PointSize, "GANTTLINE_POINT_SIZE")
	positiveFloat(&cfg.CellWidth, "GANTTLINE_CELL_WIDTH")
	if v := os.Getenv("GANTTLINE_EDGE_SPACING"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.EdgeSpacing = f
		}
	}
	if v := os.Getenv("GANTTLINE_ROW_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RowBuffer = n
		}
	}
	if v := os.Getenv("GANTTLINE_DISABLE_MOVE"); v != "" {
		cfg.DisableMove, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GANTTLINE_DISABLE_STRETCH"); v != "" {
		cfg.DisableStretch, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GANTTLINE_LOG_EVENTS"); v != "" {
		cfg.LogEvents, _ = strconv.ParseBool(v)
	}

	return cfg
}

func positiveFloat(dst *float64, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
		*dst = f
	}
}

// EngineOptions maps the configuration onto engine options. Listener,
// observer and padding are left for the caller.
func (c Config) EngineOptions() gantt.Options {
	edge := c.EdgeSpacing
	if edge == 0 {
		edge = -1
	}
	return gantt.Options{
		RowHeight:       c.RowHeight,
		RowBuffer:       c.RowBuffer,
		PerHourSpacing:  c.PerHourSpacing,
		EdgeSpacing:     edge,
		MinStretchWidth: c.MinStretchWidth,
		AutoScrollStep:  c.AutoScrollStep,
		PointSize:       c.PointSize,
		DisableMove:     c.DisableMove,
		DisableStretch:  c.DisableStretch,
	}
}
