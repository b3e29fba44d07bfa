// Package config loads solver configuration files and applies overrides.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file (YAML or JSON) over the defaults.
// An empty path returns the defaults.
func Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return Apply(cfg, raw)
}

// Apply decodes overrides onto cfg. Keys are the mapstructure names of
// domain.Config; unknown keys are rejected and values are weakly typed, so
// "200" is accepted for an integer field. Fractional numbers for integer
// fields are rejected rather than truncated.
func Apply(cfg domain.Config, overrides map[string]any) (domain.Config, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       wholeNumberHook,
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(overrides); err != nil {
		return cfg, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// wholeNumberHook stops mapstructure from truncating 4.5 into an int field.
// JSON numbers arrive as float64, so whole floats still decode.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is not a whole number", data)
	}
	return data, nil
}
