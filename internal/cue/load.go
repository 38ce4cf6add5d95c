package cue

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// listFile is the on-disk shape of a cue list.
type listFile struct {
	Cues []Cue `yaml:"cues"`
}

// LoadList reads a YAML cue list from path.
//
// Cues without an id get a generated one. Duplicate ids are rejected so that
// failover peers and hotkeys can address cues unambiguously.
func LoadList(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cue list: %w", err)
	}
	cues, err := ParseList(data)
	if err != nil {
		return nil, err
	}
	return NewList(cues), nil
}

// ParseList decodes and validates YAML cue list data.
func ParseList(data []byte) ([]Cue, error) {
	var f listFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing cue list: %w", err)
	}

	seen := make(map[string]int, len(f.Cues))
	for i := range f.Cues {
		c := &f.Cues[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			c.ID = GenerateID()
		}
		if prev, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicateID, c.ID, prev, i)
		}
		seen[c.ID] = i
		if err := validate(*c); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return f.Cues, nil
}

func validate(c Cue) error {
	if c.Layer < 0 {
		return fmt.Errorf("%w: layer must be >= 0", ErrInvalidCue)
	}
	if c.MidiNote < Unbound || c.MidiNote > 127 {
		return fmt.Errorf("%w: midi_note must be -1..127", ErrInvalidCue)
	}
	if c.DMXChannel < Unbound || c.DMXChannel > 512 {
		return fmt.Errorf("%w: dmx_channel must be -1..512", ErrInvalidCue)
	}
	if c.DMXValue < 0 || c.DMXValue > 255 {
		return fmt.Errorf("%w: dmx_value must be 0..255", ErrInvalidCue)
	}
	return nil
}
