package cue

import (
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Target set identifiers.
const (
	// TargetAllScreens routes a cue to every known display.
	TargetAllScreens = "all-screens"

	// TargetScreenPrefix prefixes a single-screen target set ("screen-2").
	TargetScreenPrefix = "screen-"
)

// Defaults applied to new and loaded cues.
const (
	DefaultTransitionMs = 600
	DefaultDMXValue     = 255
	Unbound             = -1
)

// Cue is a schedulable playback unit bound to media, a display target and
// zero or more external triggers.
type Cue struct {
	// Identity
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// Media
	FilePath     string `yaml:"file_path" json:"file_path,omitempty"`
	IsLiveInput  bool   `yaml:"live_input" json:"live_input"`
	LiveInputURL string `yaml:"live_input_url" json:"live_input_url,omitempty"`
	VideoFilter  string `yaml:"video_filter" json:"video_filter,omitempty"` // filter preset name
	Preload      bool   `yaml:"preload" json:"preload"`

	// Target
	TargetScreen int    `yaml:"target_screen" json:"target_screen"`
	TargetSetID  string `yaml:"target_set" json:"target_set,omitempty"`
	Layer        int    `yaml:"layer" json:"layer"`
	Loop         bool   `yaml:"loop" json:"loop"`

	// Transition override
	UseTransitionOverride bool            `yaml:"use_transition_override" json:"use_transition_override"`
	TransitionStyle       TransitionStyle `yaml:"transition_style" json:"transition_style"`
	TransitionDurationMs  int             `yaml:"transition_duration_ms" json:"transition_duration_ms"`

	// Trigger bindings
	Hotkey          string `yaml:"hotkey" json:"hotkey,omitempty"`
	TimecodeTrigger string `yaml:"timecode" json:"timecode,omitempty"`
	MidiNote        int    `yaml:"midi_note" json:"midi_note"`
	DMXChannel      int    `yaml:"dmx_channel" json:"dmx_channel"`
	DMXValue        int    `yaml:"dmx_value" json:"dmx_value"` // minimum level, not an exact match

	// Sequencing
	AutoFollow             bool   `yaml:"auto_follow" json:"auto_follow"`
	FollowCueRow           int    `yaml:"follow_cue_row" json:"follow_cue_row"`
	FollowDelayMs          int    `yaml:"follow_delay_ms" json:"follow_delay_ms"`
	PlaylistID             string `yaml:"playlist_id" json:"playlist_id,omitempty"`
	PlaylistAutoAdvance    bool   `yaml:"playlist_auto_advance" json:"playlist_auto_advance"`
	PlaylistLoop           bool   `yaml:"playlist_loop" json:"playlist_loop"`
	PlaylistAdvanceDelayMs int    `yaml:"playlist_advance_delay_ms" json:"playlist_advance_delay_ms"`
	AutoStopMs             int    `yaml:"auto_stop_ms" json:"auto_stop_ms"`
}

// New returns a cue with default settings and a fresh id.
func New(name string) Cue {
	c := defaults()
	c.ID = GenerateID()
	c.Name = name
	return c
}

func defaults() Cue {
	return Cue{
		TransitionStyle:      Fade,
		TransitionDurationMs: DefaultTransitionMs,
		MidiNote:             Unbound,
		DMXChannel:           Unbound,
		DMXValue:             DefaultDMXValue,
		FollowCueRow:         Unbound,
	}
}

// GenerateID creates a new unique cue identifier.
func GenerateID() string {
	return uuid.New().String()
}

// IsLive reports whether the cue plays a live input rather than a file.
func (c Cue) IsLive() bool {
	return c.IsLiveInput && strings.TrimSpace(c.LiveInputURL) != ""
}

// HasPlayableMedia reports whether the cue has a file path or a live URL.
func (c Cue) HasPlayableMedia() bool {
	return c.IsLive() || strings.TrimSpace(c.FilePath) != ""
}

// MediaSource returns the URL for live cues and the file path otherwise.
func (c Cue) MediaSource() string {
	if c.IsLive() {
		return strings.TrimSpace(c.LiveInputURL)
	}
	return c.FilePath
}

// HasTimecodeTrigger reports whether the cue is bound to a timecode.
func (c Cue) HasTimecodeTrigger() bool {
	return strings.TrimSpace(c.TimecodeTrigger) != ""
}

// Transition returns the cue's own transition when it overrides the
// caller's default, otherwise the given fallback.
func (c Cue) Transition(style TransitionStyle, durationMs int) (TransitionStyle, int) {
	if c.UseTransitionOverride {
		return c.TransitionStyle, ClampDuration(c.TransitionDurationMs)
	}
	return style, durationMs
}

// UnmarshalYAML decodes a cue, filling unset fields with defaults.
func (c *Cue) UnmarshalYAML(node *yaml.Node) error {
	type plain Cue
	p := plain(defaults())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Cue(p)
	return nil
}
