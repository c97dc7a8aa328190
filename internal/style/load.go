// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// overrideFile is the on-disk form of a style override file:
//
//	styles:
//	  itemName: {font: Georgia, size: 40}
//	borders:
//	  outerBorder: {color: "C0C0C0", width: 16}
//
// Only the fields present in the file replace the defaults.
type overrideFile struct {
	Styles  map[Role]yaml.Node `yaml:"styles"`
	Borders map[Role]yaml.Node `yaml:"borders"`
}

// Load reads a YAML override file and returns the default registry with the
// overrides applied. An empty path returns Default().
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style file: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("style file %s: %w", path, err)
	}
	return reg, nil
}

// Parse applies YAML overrides in data to the default registry and validates
// the result.
func Parse(data []byte) (*Registry, error) {
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing overrides: %w", err)
	}

	reg := Default()
	for role, node := range f.Styles {
		base, ok := reg.styles[role]
		if !ok {
			return nil, fmt.Errorf("unknown style role %q", role)
		}
		base = base.clone()
		if err := node.Decode(&base); err != nil {
			return nil, fmt.Errorf("style %q: %w", role, err)
		}
		reg.styles[role] = base
	}
	for role, node := range f.Borders {
		base, ok := reg.borders[role]
		if !ok {
			return nil, fmt.Errorf("unknown border role %q", role)
		}
		if err := node.Decode(&base); err != nil {
			return nil, fmt.Errorf("border %q: %w", role, err)
		}
		reg.borders[role] = base
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
