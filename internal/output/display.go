package output

import (
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
)

// OverlayColor is the solid colour of the transition overlay.
type OverlayColor int

// Overlay colours.
const (
	Black OverlayColor = iota
	White
)

func (c OverlayColor) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Media describes what a renderer layer should load.
type Media struct {
	Source string // file path or live input URL
	Loop   bool
	Filter string // resolved filter graph, may be empty
}

// Renderer is the per-screen player and overlay. Implementations must
// return quickly; decoding happens elsewhere.
type Renderer interface {
	// Load prepares media on a layer without starting it.
	Load(layer int, media Media) error
	// Play starts the media loaded on a layer.
	Play(layer int) error
	StopLayer(layer int) error
	StopAll() error

	SetOverlayColor(c OverlayColor) error
	// SetOverlayOpacity sets the overlay opacity in [0, 1].
	SetOverlayOpacity(opacity float64) error
	// SetOverlayOffset slides the overlay horizontally; 0 covers the
	// screen, 1 is fully off the left edge.
	SetOverlayOffset(offset float64) error

	SetOverlayText(text string) error
	SetFallbackSlate(path string) error
	SetCalibration(c cue.Calibration) error
}

// DisplayDirectory enumerates screens and opens their renderers.
type DisplayDirectory interface {
	// Screens returns the known screen indices.
	Screens() []int
	// Open returns the renderer for a screen, or ErrScreenNotFound.
	Open(screen int) (Renderer, error)
	// OpenPreview returns the renderer of the preview monitor.
	OpenPreview() (Renderer, error)
}

// Scheduler runs fn once after d. Callbacks must run on the goroutine that
// drives the Router.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// DisplaySurface is one routed output.
type DisplaySurface interface {
	PlayWithTransition(c cue.Cue, style cue.TransitionStyle, d time.Duration) error
	Preload(c cue.Cue) error
	StopLayer(layer int)
	StopAll()
	SetCalibration(c cue.Calibration)
	SetOverlayText(text string)
	SetFallbackSlate(path string)
	SetFilterPresets(presets map[string]string)
	State() State
	Layers() map[int]cue.Cue
}
