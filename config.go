package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/boxstl/pkg/geom"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the parameters of a single box export.
type Config struct {
	Name   string     `toml:"name"`
	Width  float64    `toml:"width"`
	Height float64    `toml:"height"`
	Depth  float64    `toml:"depth"`
	Offset [3]float64 `toml:"offset"`
	Output string     `toml:"output"`

	// Precision is the number of decimals for coordinates; negative means
	// shortest round-trip form.
	Precision int `toml:"precision"`
}

// DefaultConfig returns the angle bracket configuration.
func DefaultConfig() Config {
	return Config{
		Name:      "AngleBracket",
		Width:     50,
		Height:    10,
		Depth:     50,
		Offset:    [3]float64{10, 0, 10},
		Output:    "output_part.stl",
		Precision: -1,
	}
}

// OffsetPoint returns the configured offset as a point.
func (c Config) OffsetPoint() geom.Point3 {
	return geom.New(c.Offset[0], c.Offset[1], c.Offset[2])
}

// LoadConfig overlays the TOML file at path onto cfg. Keys missing from the
// file keep their current values; unknown keys are an error, and so is an
// offset that does not have exactly three elements.
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Offset is a fixed-size array; decoding into it never fails on length.
	var raw struct {
		Offset []float64 `toml:"offset"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if raw.Offset != nil && len(raw.Offset) != 3 {
		return fmt.Errorf("config: %s: offset has %d elements, want 3", path, len(raw.Offset))
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// parseOffset parses "x,y,z".
func parseOffset(s string) ([3]float64, error) {
	var off [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return off, fmt.Errorf("offset %q: want x,y,z", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return off, fmt.Errorf("offset %q: %w", s, err)
		}
		off[i] = f
	}
	return off, nil
}
