// Package config loads the YAML file that carries both the runtime settings
// and the resource declarations. Values are expanded against the environment
// before decoding, so a declaration file can reference secrets and endpoints
// as ${VAR} without a second templating step.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator lets a target check itself after decoding. The loader calls it
// when present, so a successfully loaded config is always a validated one.
type Validator interface {
	Validate() error
}

// Load reads filename, expands ${VAR} references, decodes the YAML into
// target, and runs the target's validation if it implements Validator.
// Fields absent from the file keep whatever defaults target already holds.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read declarations file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("parse declarations file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate %s: %w", filename, err)
		}
	}

	return nil
}

// LoadWithFallback loads filename, or fallback when filename does not exist.
// Deployments override the shipped declarations by pointing at their own file
// and fall back to the bundled one otherwise.
func LoadWithFallback[T any](filename, fallback string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if fallback != "" {
			return Load(fallback, target)
		}
		return fmt.Errorf("declarations file not found: %s", filename)
	}
	return Load(filename, target)
}
