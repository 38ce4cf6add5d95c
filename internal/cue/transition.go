package cue

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// TransitionStyle selects how a cue replaces the current program output.
type TransitionStyle int

// Supported transition styles.
const (
	Cut TransitionStyle = iota
	Fade
	DipToBlack
	WipeLeft
	DipToWhite
)

// MaxTransitionMs is the upper bound applied by ClampDuration.
const MaxTransitionMs = 10000

var transitionNames = map[TransitionStyle]string{
	Cut:        "cut",
	Fade:       "fade",
	DipToBlack: "dip_to_black",
	WipeLeft:   "wipe_left",
	DipToWhite: "dip_to_white",
}

// String returns the wire/config name of the style.
func (s TransitionStyle) String() string {
	if name, ok := transitionNames[s]; ok {
		return name
	}
	return transitionNames[Cut]
}

// IsDip reports whether the style fades through a solid colour.
func (s TransitionStyle) IsDip() bool {
	return s == DipToBlack || s == DipToWhite
}

// ParseTransitionStyle maps a name to a style. Unknown names map to Cut.
func ParseTransitionStyle(name string) TransitionStyle {
	style, _ := LookupTransitionStyle(name)
	return style
}

// LookupTransitionStyle is like ParseTransitionStyle but also reports
// whether the name was recognised.
func LookupTransitionStyle(name string) (TransitionStyle, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for style, styleName := range transitionNames {
		if styleName == n {
			return style, true
		}
	}
	return Cut, false
}

// ClampDuration bounds a caller-supplied transition duration in milliseconds.
func ClampDuration(ms int) int {
	if ms < 0 {
		return 0
	}
	if ms > MaxTransitionMs {
		return MaxTransitionMs
	}
	return ms
}

// MarshalYAML encodes the style by name.
func (s TransitionStyle) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes the style from its name.
func (s *TransitionStyle) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	*s = ParseTransitionStyle(name)
	return nil
}

// MarshalText encodes the style by name (used by encoding/json).
func (s TransitionStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes the style from its name.
func (s *TransitionStyle) UnmarshalText(text []byte) error {
	*s = ParseTransitionStyle(string(text))
	return nil
}
