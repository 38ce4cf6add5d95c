package cue

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseTransitionStyle(t *testing.T) {
	tests := []struct {
		name string
		want TransitionStyle
	}{
		{"cut", Cut},
		{"fade", Fade},
		{"Dip_To_Black", DipToBlack},
		{" wipe_left ", WipeLeft},
		{"dip_to_white", DipToWhite},
		{"sparkle", Cut},
		{"", Cut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTransitionStyle(tt.name); got != tt.want {
				t.Errorf("ParseTransitionStyle(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestTransitionStyle_String(t *testing.T) {
	for style, name := range transitionNames {
		if style.String() != name {
			t.Errorf("%d.String() = %q, want %q", style, style.String(), name)
		}
	}
	if TransitionStyle(42).String() != "cut" {
		t.Errorf("unknown style should stringify as cut")
	}
}

func TestClampDuration(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0},
		{0, 0},
		{600, 600},
		{MaxTransitionMs + 1, MaxTransitionMs},
	}
	for _, tt := range tests {
		if got := ClampDuration(tt.in); got != tt.want {
			t.Errorf("ClampDuration(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCue_HasPlayableMedia(t *testing.T) {
	tests := []struct {
		name string
		cue  Cue
		want bool
	}{
		{"file", Cue{FilePath: "/media/a.mp4"}, true},
		{"live with url", Cue{IsLiveInput: true, LiveInputURL: "srt://cam1"}, true},
		{"live without url", Cue{IsLiveInput: true}, false},
		{"live without url falls back to file", Cue{IsLiveInput: true, FilePath: "a.mov"}, true},
		{"nothing", Cue{}, false},
		{"blank path", Cue{FilePath: "   "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cue.HasPlayableMedia(); got != tt.want {
				t.Errorf("HasPlayableMedia() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCue_MediaSource(t *testing.T) {
	live := Cue{IsLiveInput: true, LiveInputURL: " srt://cam1 ", FilePath: "a.mov"}
	if got := live.MediaSource(); got != "srt://cam1" {
		t.Errorf("MediaSource() = %q, want live url", got)
	}
	file := Cue{FilePath: "a.mov"}
	if got := file.MediaSource(); got != "a.mov" {
		t.Errorf("MediaSource() = %q, want a.mov", got)
	}
}

func TestCue_Transition(t *testing.T) {
	c := Cue{TransitionStyle: WipeLeft, TransitionDurationMs: 900}
	style, ms := c.Transition(Fade, 300)
	if style != Fade || ms != 300 {
		t.Errorf("without override got %v/%d, want fade/300", style, ms)
	}

	c.UseTransitionOverride = true
	style, ms = c.Transition(Fade, 300)
	if style != WipeLeft || ms != 900 {
		t.Errorf("with override got %v/%d, want wipe_left/900", style, ms)
	}
}

func TestNew(t *testing.T) {
	c := New("Opener")
	if c.ID == "" {
		t.Fatal("New() should generate an id")
	}
	if c.MidiNote != Unbound || c.DMXChannel != Unbound || c.FollowCueRow != Unbound {
		t.Errorf("trigger bindings should default to unbound: %+v", c)
	}
	if c.DMXValue != DefaultDMXValue {
		t.Errorf("DMXValue = %d, want %d", c.DMXValue, DefaultDMXValue)
	}
}

func TestParseList(t *testing.T) {
	data := []byte(`
cues:
  - id: intro
    name: Intro
    file_path: /media/intro.mp4
    transition_style: dip_to_white
    use_transition_override: true
  - name: Camera
    live_input: true
    live_input_url: srt://cam1
    target_set: all-screens
    dmx_channel: 5
    dmx_value: 128
`)
	cues, err := ParseList(data)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("len = %d, want 2", len(cues))
	}

	intro := cues[0]
	if intro.TransitionStyle != DipToWhite {
		t.Errorf("TransitionStyle = %v, want dip_to_white", intro.TransitionStyle)
	}
	if intro.TransitionDurationMs != DefaultTransitionMs {
		t.Errorf("TransitionDurationMs = %d, want default", intro.TransitionDurationMs)
	}
	if intro.MidiNote != Unbound {
		t.Errorf("MidiNote = %d, want unbound default", intro.MidiNote)
	}

	camera := cues[1]
	if camera.ID == "" {
		t.Error("missing id should be generated")
	}
	if camera.DMXChannel != 5 || camera.DMXValue != 128 {
		t.Errorf("dmx binding = %d/%d, want 5/128", camera.DMXChannel, camera.DMXValue)
	}
	if !camera.IsLive() {
		t.Error("camera cue should be live")
	}
}

func TestParseList_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "duplicate id",
			data: "cues:\n  - id: a\n  - id: a\n",
			want: ErrDuplicateID,
		},
		{
			name: "negative layer",
			data: "cues:\n  - id: a\n    layer: -1\n",
			want: ErrInvalidCue,
		},
		{
			name: "dmx value out of range",
			data: "cues:\n  - id: a\n    dmx_value: 300\n",
			want: ErrInvalidCue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseList() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cues.yaml")
	if err := os.WriteFile(path, []byte("cues:\n  - id: a\n    file_path: a.mp4\n"), 0600); err != nil {
		t.Fatalf("writing cue list: %v", err)
	}

	list, err := LoadList(path)
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if list.Len() != 1 || list.RowForID("a") != 0 {
		t.Errorf("unexpected list contents: %+v", list.All())
	}

	if _, err := LoadList(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadList should fail for a missing file")
	}
}

func TestList(t *testing.T) {
	list := NewList([]Cue{{ID: "a"}, {ID: "b"}, {ID: "a"}})

	if !list.IsValidRow(2) || list.IsValidRow(3) || list.IsValidRow(-1) {
		t.Error("IsValidRow bounds are wrong")
	}
	if row := list.RowForID("a"); row != 0 {
		t.Errorf("RowForID(a) = %d, want first occurrence 0", row)
	}
	if row := list.RowForID("zzz"); row != Unbound {
		t.Errorf("RowForID(zzz) = %d, want -1", row)
	}
	if _, ok := list.CueAt(5); ok {
		t.Error("CueAt out of range should report false")
	}

	all := list.All()
	all[0].ID = "mutated"
	if c, _ := list.CueAt(0); c.ID != "a" {
		t.Error("All() must return a copy")
	}

	list.Replace([]Cue{{ID: "c"}})
	if list.Len() != 1 || list.RowForID("a") != Unbound {
		t.Error("Replace should swap the whole list")
	}
}

func TestHotkeys(t *testing.T) {
	table := Hotkeys([]Cue{
		{ID: "a", Hotkey: "Ctrl + F1"},
		{ID: "b", Hotkey: "ctrl+f1"},
		{ID: "c", Hotkey: "  "},
		{ID: "", Hotkey: "F2"},
		{ID: "d", Hotkey: "F3"},
	})
	if len(table) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(table), table)
	}
	if table["ctrl+f1"] != "a" {
		t.Errorf("ctrl+f1 -> %q, want first binding a", table["ctrl+f1"])
	}
	if table[NormalizeHotkey("f3")] != "d" {
		t.Errorf("f3 -> %q, want d", table["f3"])
	}
}
