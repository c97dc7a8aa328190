// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"encoding/hex"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// RGB is a 24-bit color.
type RGB [3]uint8

// Hex returns the color as six upper-case hex digits without a leading '#',
// the form WordprocessingML color attributes use.
func (c RGB) Hex() string {
	return strings.ToUpper(hex.EncodeToString(c[:]))
}

func (c RGB) String() string {
	return "#" + c.Hex()
}

// ParseRGB parses "RRGGBB" or "#RRGGBB".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{b[0], b[1], b[2]}, nil
}

// MarshalYAML writes the color as a hex string.
func (c RGB) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads a hex string.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: color must be a string: %w", value.Line, err)
	}
	parsed, err := ParseRGB(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}
