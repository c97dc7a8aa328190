// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package style holds the visual parameters used by every card renderer:
// fonts, sizes, colors, alignment, spacing and border settings, keyed by
// visual role. A Registry is built once at process start and never mutated.
package style

import (
	"fmt"
	"sort"
	"strings"
)

// Role names a visual element that a renderer styles.
type Role string

// Text roles.
const (
	RoleLogo          Role = "logo"
	RoleBrandName     Role = "brandName"
	RoleBrandSubtitle Role = "brandSubtitle"
	RoleRating        Role = "rating"
	RoleURL           Role = "url"
	RoleItemName      Role = "itemName"
	RoleItemNameWord  Role = "itemNameWord"
	RoleTitle         Role = "title"
	RoleTitleSubtitle Role = "titleSubtitle"
	RoleSeparator     Role = "separator"
)

// Border roles.
const (
	RoleOuterBorder   Role = "outerBorder"
	RoleDividerBorder Role = "dividerBorder"
)

// textRoles and borderRoles list the roles every Registry must define.
var (
	textRoles = []Role{
		RoleLogo, RoleBrandName, RoleBrandSubtitle, RoleRating, RoleURL,
		RoleItemName, RoleItemNameWord, RoleTitle, RoleTitleSubtitle, RoleSeparator,
	}
	borderRoles = []Role{RoleOuterBorder, RoleDividerBorder}
)

// Align is a paragraph alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Style describes how a run of text and its paragraph are formatted.
// Size, SpaceBefore and SpaceAfter are in points. A nil Color leaves the
// run color to the document default.
type Style struct {
	Font        string  `json:"font,omitempty" yaml:"font,omitempty"`
	Size        float64 `json:"size" yaml:"size"`
	Color       *RGB    `json:"color,omitempty" yaml:"color,omitempty"`
	Bold        bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
	Align       Align   `json:"align,omitempty" yaml:"align,omitempty"`
	SpaceBefore float64 `json:"space_before,omitempty" yaml:"space_before,omitempty"`
	SpaceAfter  float64 `json:"space_after,omitempty" yaml:"space_after,omitempty"`
}

func (s Style) clone() Style {
	if s.Color != nil {
		c := *s.Color
		s.Color = &c
	}
	return s
}

// Border is a single-line border. Width is in eighths of a point, the unit
// WordprocessingML uses for border sizes.
type Border struct {
	Color RGB `json:"color" yaml:"color"`
	Width int `json:"width" yaml:"width"`
}

// maxBorderWidth is the largest border size WordprocessingML accepts (12pt).
const maxBorderWidth = 96

// Registry maps roles to styles. The zero value is empty; use Default or Load.
type Registry struct {
	styles  map[Role]Style
	borders map[Role]Border
}

// Default returns the built-in registry.
func Default() *Registry {
	green := RGB{0x8B, 0xC3, 0x4A}
	gold := RGB{0xFF, 0xD7, 0x00}
	black := RGB{0x00, 0x00, 0x00}

	return &Registry{
		styles: map[Role]Style{
			RoleLogo:          {Size: 24, Color: &green, Align: AlignCenter},
			RoleBrandName:     {Font: "Arial", Size: 18, Bold: true, Align: AlignCenter},
			RoleBrandSubtitle: {Font: "Arial", Size: 10, Align: AlignCenter},
			RoleRating:        {Size: 10, Color: &gold, Align: AlignCenter},
			RoleURL:           {Font: "Arial", Size: 9, Bold: true, Align: AlignCenter},
			RoleItemName: {
				Font: "Arial", Size: 36, Bold: true, Align: AlignCenter,
				SpaceBefore: 80, SpaceAfter: 80,
			},
			RoleItemNameWord: {
				Font: "Playfair Display", Size: 48, Bold: true, Color: &black, Align: AlignCenter,
				SpaceBefore: 60, SpaceAfter: 60,
			},
			RoleTitle:         {Size: 16, Bold: true, Align: AlignCenter},
			RoleTitleSubtitle: {Size: 14, Italic: true, Align: AlignCenter},
			RoleSeparator:     {Size: 10, Align: AlignLeft},
		},
		borders: map[Role]Border{
			RoleOuterBorder:   {Color: RGB{0xD4, 0xAF, 0x37}, Width: 24},
			RoleDividerBorder: {Color: black, Width: 12},
		},
	}
}

// Style returns a copy of the text style for role.
func (r *Registry) Style(role Role) (Style, error) {
	s, ok := r.styles[role]
	if !ok {
		return Style{}, fmt.Errorf("no style defined for role %q", role)
	}
	return s.clone(), nil
}

// MustStyle is Style for roles the registry is known to define; it panics
// on a missing role. Renderers call it only after Validate has passed.
func (r *Registry) MustStyle(role Role) Style {
	s, err := r.Style(role)
	if err != nil {
		panic(err)
	}
	return s
}

// Border returns the border settings for role.
func (r *Registry) Border(role Role) (Border, error) {
	b, ok := r.borders[role]
	if !ok {
		return Border{}, fmt.Errorf("no border defined for role %q", role)
	}
	return b, nil
}

// MustBorder is the Border counterpart of MustStyle.
func (r *Registry) MustBorder(role Role) Border {
	b, err := r.Border(role)
	if err != nil {
		panic(err)
	}
	return b
}

// Roles returns every defined role, sorted.
func (r *Registry) Roles() []Role {
	roles := make([]Role, 0, len(r.styles)+len(r.borders))
	for role := range r.styles {
		roles = append(roles, role)
	}
	for role := range r.borders {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Validate checks that every required role is defined with usable values.
func (r *Registry) Validate() error {
	var problems []string
	for _, role := range textRoles {
		s, ok := r.styles[role]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing style %q", role))
			continue
		}
		if s.Size <= 0 {
			problems = append(problems, fmt.Sprintf("style %q: size must be positive, got %g", role, s.Size))
		}
		if s.SpaceBefore < 0 || s.SpaceAfter < 0 {
			problems = append(problems, fmt.Sprintf("style %q: spacing must not be negative", role))
		}
		switch s.Align {
		case "", AlignLeft, AlignCenter, AlignRight:
		default:
			problems = append(problems, fmt.Sprintf("style %q: unknown alignment %q", role, s.Align))
		}
	}
	for _, role := range borderRoles {
		b, ok := r.borders[role]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing border %q", role))
			continue
		}
		if b.Width <= 0 || b.Width > maxBorderWidth {
			problems = append(problems, fmt.Sprintf("border %q: width %d outside 1..%d", role, b.Width, maxBorderWidth))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid style registry: %s", strings.Join(problems, "; "))
	}
	return nil
}
