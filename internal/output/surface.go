package output

import (
	"fmt"
	"maps"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
)

// Transition timing.
const (
	tickInterval = 16 * time.Millisecond

	// MinTransition is the floor for non-Cut transitions.
	MinTransition = 60 * time.Millisecond

	// DipHold is how long a dip rests on the solid colour.
	DipHold = 100 * time.Millisecond
)

// State is the transition state of a Surface.
type State int

// Surface states.
const (
	Idle State = iota
	FadingIn
	Playing
	FadingOut
)

var stateNames = map[State]string{
	Idle:      "idle",
	FadingIn:  "fading_in",
	Playing:   "playing",
	FadingOut: "fading_out",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Surface drives one Renderer through cue transitions.
type Surface struct {
	screen   int
	renderer Renderer
	sched    Scheduler
	logger   Logger
	onError  func(screen int, err error)

	state      State
	gen        uint64   // bumped by every transition and stop
	transLayer int      // layer of the transition in flight
	pending    *cue.Cue // accepted cue still waiting for its midpoint swap
	live       map[int]cue.Cue
	presets    map[string]string
}

var _ DisplaySurface = (*Surface)(nil)

// NewSurface creates an idle surface for screen.
func NewSurface(screen int, renderer Renderer, sched Scheduler, logger Logger) *Surface {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Surface{
		screen:   screen,
		renderer: renderer,
		sched:    sched,
		logger:   logger,
		live:     make(map[int]cue.Cue),
	}
}

// SetErrorHandler registers a callback for failures that happen after
// PlayWithTransition has returned, such as a failed swap mid-fade.
func (s *Surface) SetErrorHandler(fn func(screen int, err error)) {
	s.onError = fn
}

// Screen returns the surface's screen index.
func (s *Surface) Screen() int { return s.screen }

// State returns the current transition state.
func (s *Surface) State() State { return s.state }

// Layers returns a copy of the cues currently playing, keyed by layer.
func (s *Surface) Layers() map[int]cue.Cue {
	return maps.Clone(s.live)
}

// SetFilterPresets replaces the name → filter graph table used on load.
func (s *Surface) SetFilterPresets(presets map[string]string) {
	s.presets = maps.Clone(presets)
}

func (s *Surface) media(c cue.Cue) Media {
	return Media{
		Source: c.MediaSource(),
		Loop:   c.Loop,
		Filter: s.presets[c.VideoFilter],
	}
}

// Preload loads the cue's media on its layer without playing it.
func (s *Surface) Preload(c cue.Cue) error {
	if !c.HasPlayableMedia() {
		return ErrNoMedia
	}
	if err := s.renderer.Load(c.Layer, s.media(c)); err != nil {
		return fmt.Errorf("preload %q on screen %d layer %d: %w", c.Name, s.screen, c.Layer, err)
	}
	return nil
}

// PlayWithTransition loads the cue and starts the transition. Media is
// loaded before returning so load errors are reported synchronously; the
// swap to the new media happens at the midpoint of the transition.
//
// A newer transition or stop supersedes one still in flight. The overlay is
// shared by all layers, so a transition on another layer takes it over, but
// a cue that was still waiting for its swap is cut in first rather than
// dropped.
func (s *Surface) PlayWithTransition(c cue.Cue, style cue.TransitionStyle, d time.Duration) error {
	if err := s.Preload(c); err != nil {
		return err
	}
	s.completePending(c.Layer)

	s.gen++
	gen := s.gen
	s.transLayer = c.Layer

	if style == cue.Cut {
		s.resetOverlay()
		if err := s.swap(c); err != nil {
			return err
		}
		s.state = Playing
		return nil
	}

	if d < MinTransition {
		d = MinTransition
	}

	if style == cue.WipeLeft {
		s.wipe(gen, c, d)
		return nil
	}

	color := Black
	if style == cue.DipToWhite {
		color = White
	}
	var hold time.Duration
	if style.IsDip() {
		hold = DipHold
	}
	s.dip(gen, c, color, d/2, hold)
	return nil
}

// dip ramps the overlay up, swaps media, optionally holds, then ramps down.
func (s *Surface) dip(gen uint64, c cue.Cue, color OverlayColor, half, hold time.Duration) {
	if len(s.live) > 0 {
		s.state = FadingOut
	} else {
		s.state = FadingIn
	}
	s.call("overlay color", s.renderer.SetOverlayColor(color))
	s.call("overlay offset", s.renderer.SetOverlayOffset(0))

	s.pending = &c
	s.ramp(gen, half, s.renderer.SetOverlayOpacity, 0, 1, func() {
		s.pending = nil
		if err := s.swap(c); err != nil {
			s.fail(err)
		}
		s.state = FadingIn
		fadeBack := func() {
			s.ramp(gen, half, s.renderer.SetOverlayOpacity, 1, 0, func() {
				s.state = s.settled()
			})
		}
		if hold > 0 {
			s.after(gen, hold, fadeBack)
			return
		}
		fadeBack()
	})
}

// wipe covers the screen, swaps media underneath and slides the overlay
// off to the left over the full duration.
func (s *Surface) wipe(gen uint64, c cue.Cue, d time.Duration) {
	s.state = FadingIn
	s.call("overlay color", s.renderer.SetOverlayColor(Black))
	s.call("overlay offset", s.renderer.SetOverlayOffset(0))
	s.call("overlay opacity", s.renderer.SetOverlayOpacity(1))

	if err := s.swap(c); err != nil {
		s.fail(err)
	}

	s.ramp(gen, d, s.renderer.SetOverlayOffset, 0, 1, func() {
		s.resetOverlay()
		s.state = s.settled()
	})
}

// ramp animates set from → to over d, then calls done. Ticks from a
// superseded generation stop silently.
func (s *Surface) ramp(gen uint64, d time.Duration, set func(float64) error, from, to float64, done func()) {
	steps := int(d / tickInterval)
	if steps < 1 {
		steps = 1
	}
	var step func(i int)
	step = func(i int) {
		if s.gen != gen {
			return
		}
		s.call("overlay", set(from+(to-from)*float64(i)/float64(steps)))
		if i >= steps {
			done()
			return
		}
		s.sched.AfterFunc(tickInterval, func() { step(i + 1) })
	}
	step(0)
}

func (s *Surface) transitioning() bool {
	return s.state == FadingIn || s.state == FadingOut
}

// settled is the resting state once no transition is in flight.
func (s *Surface) settled() State {
	if len(s.live) > 0 {
		return Playing
	}
	return Idle
}

func (s *Surface) after(gen uint64, d time.Duration, fn func()) {
	s.sched.AfterFunc(d, func() {
		if s.gen == gen {
			fn()
		}
	})
}

// completePending plays the cue waiting for a midpoint swap unless it sits
// on layer, which the caller is about to replace anyway.
func (s *Surface) completePending(layer int) {
	p := s.pending
	s.pending = nil
	if p == nil || p.Layer == layer {
		return
	}
	if err := s.swap(*p); err != nil {
		s.fail(err)
	}
}

func (s *Surface) swap(c cue.Cue) error {
	if err := s.renderer.Play(c.Layer); err != nil {
		delete(s.live, c.Layer)
		return fmt.Errorf("play %q on screen %d layer %d: %w", c.Name, s.screen, c.Layer, err)
	}
	s.live[c.Layer] = c
	return nil
}

// StopLayer stops one layer; other layers keep playing. A transition in
// flight on that layer is abandoned.
func (s *Surface) StopLayer(layer int) {
	s.call("stop layer", s.renderer.StopLayer(layer))
	delete(s.live, layer)
	if s.transitioning() {
		if s.transLayer != layer {
			return
		}
		s.gen++
		s.pending = nil
		s.resetOverlay()
	}
	s.state = s.settled()
}

// StopAll stops every layer and abandons any transition.
func (s *Surface) StopAll() {
	s.gen++
	s.pending = nil
	s.call("stop all", s.renderer.StopAll())
	s.resetOverlay()
	clear(s.live)
	s.state = Idle
}

// SetCalibration applies output calibration.
func (s *Surface) SetCalibration(c cue.Calibration) {
	s.call("calibration", s.renderer.SetCalibration(c))
}

// SetOverlayText sets the text shown over program output.
func (s *Surface) SetOverlayText(text string) {
	s.call("overlay text", s.renderer.SetOverlayText(text))
}

// SetFallbackSlate sets the image shown when nothing plays.
func (s *Surface) SetFallbackSlate(path string) {
	s.call("fallback slate", s.renderer.SetFallbackSlate(path))
}

func (s *Surface) resetOverlay() {
	s.call("overlay opacity", s.renderer.SetOverlayOpacity(0))
	s.call("overlay offset", s.renderer.SetOverlayOffset(0))
}

func (s *Surface) fail(err error) {
	s.logger.Warn("output transition failed", "screen", s.screen, "error", err)
	if s.onError != nil {
		s.onError(s.screen, err)
	}
}

// call logs renderer errors on best-effort operations.
func (s *Surface) call(op string, err error) {
	if err != nil {
		s.logger.Warn("renderer call failed", "screen", s.screen, "op", op, "error", err)
	}
}
