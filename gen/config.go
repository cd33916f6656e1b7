// Package gen holds the generator base: the configuration describing
// protocol-specific allow-lists, the derived facts shared by every emitter
// (enum value encodings and the shape-assertion type set), and the traversal
// and naming helpers the per-backend packages build on.
package gen

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/openinspect/protogen/errors"
)

// Config carries the protocol-specific generation data that used to live as
// hard-coded constants: which types are built dynamically enough to need
// runtime casts and shape assertions, which object types permit extra untyped
// keys, and which domains each Objective-C artifact covers. Keeping these as
// data keeps the generator logic protocol-version-agnostic.
type Config struct {
	Assertions AssertionConfig `toml:"assertions"`
	ObjC       ObjCConfig      `toml:"objc"`
}

// AssertionConfig lists qualified type names driving debug-only validation.
type AssertionConfig struct {
	// RuntimeCasts are types constructed by hand from untyped protocol
	// values. They seed the shape-assertion closure and additionally get a
	// checked downcast from the generic value type.
	RuntimeCasts []string `toml:"runtime-casts"`

	// OpenFields are object types explicitly permitted to carry additional
	// untyped members beyond their declared schema. Their validators skip
	// the exact key-count check.
	OpenFields []string `toml:"open-fields"`
}

// ObjCConfig controls the Objective-C backend's naming and domain coverage.
type ObjCConfig struct {
	// ClassPrefix prepends every generated Objective-C class and enum name.
	ClassPrefix string `toml:"class-prefix"`

	// TypeDomains, CommandDomains and EventDomains whitelist the domains
	// covered by the type, command-handler and event-dispatcher artifacts.
	// The test framework bypasses all three.
	TypeDomains    []string `toml:"type-domains"`
	CommandDomains []string `toml:"command-domains"`
	EventDomains   []string `toml:"event-domains"`

	// Renames maps protocol identifiers that collide with Objective-C
	// keywords to safe spellings.
	Renames map[string]string `toml:"renames"`
}

// DefaultConfig returns the stock configuration for the inspection protocol.
func DefaultConfig() *Config {
	domains := []string{"CSS", "DOM", "DOMStorage", "Network", "Page", "GenericTypes"}
	return &Config{
		Assertions: AssertionConfig{
			RuntimeCasts: []string{
				"Runtime.RemoteObject",
				"Runtime.PropertyDescriptor",
				"Runtime.InternalPropertyDescriptor",
				"Runtime.CollectionEntry",
				"Debugger.FunctionDetails",
				"Debugger.CallFrame",
				"Canvas.TraceLog",
				"Canvas.ResourceInfo",
				"Canvas.ResourceState",
				"Timeline.TimelineEvent",
			},
			OpenFields: []string{
				"Timeline.TimelineEvent",
				"CSS.CSSProperty",
				"Network.Response",
			},
		},
		ObjC: ObjCConfig{
			ClassPrefix:    "RIProtocol",
			TypeDomains:    append(append([]string{}, domains...), "Console", "Debugger", "Runtime"),
			CommandDomains: append([]string{}, domains...),
			EventDomains:   append(append([]string{}, domains...), "Console"),
			Renames: map[string]string{
				"this":        "thisObject",
				"description": "stringRepresentation",
				"id":          "identifier",
			},
		},
	}
}

// LoadConfig reads a TOML configuration file. Fields absent from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// TypeNeedsRuntimeCasts reports whether the qualified name is in the
// runtime-cast allow-list.
func (c *Config) TypeNeedsRuntimeCasts(qualifiedName string) bool {
	return contains(c.Assertions.RuntimeCasts, qualifiedName)
}

// TypeHasOpenFields reports whether the qualified name is in the open-fields
// allow-list.
func (c *Config) TypeHasOpenFields(qualifiedName string) bool {
	return contains(c.Assertions.OpenFields, qualifiedName)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
