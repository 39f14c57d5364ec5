// Package config holds the transformer configuration shared by the root
// package and the internal build machinery.
package config

import "github.com/talav/irgen/ir"

// Config collects the recognized transformer options. The zero value is a
// usable default; prefer Default for clarity.
type Config struct {
	// DateTimeFormat selects the primitive emitted for format: date-time
	// schemas. Default: RFC 3339 strings.
	DateTimeFormat ir.DateTimeFormat

	// ResourceDeps declares the feature dependency relation: enabling a
	// resource also enables every resource it maps to. Used to simplify
	// feature-gate expressions.
	ResourceDeps map[string][]string

	// ValidateInput enables a JSON Schema sanity check of the input
	// document before transformation. This catches malformed documents
	// early but adds overhead.
	// Default: false
	ValidateInput bool
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DateTimeFormat: ir.DateTimeRFC3339,
	}
}

// AddResourceDep records that enabling resource also enables each of the
// implied resources.
func (c *Config) AddResourceDep(resource string, implies ...string) {
	if c.ResourceDeps == nil {
		c.ResourceDeps = make(map[string][]string)
	}
	c.ResourceDeps[resource] = append(c.ResourceDeps[resource], implies...)
}
