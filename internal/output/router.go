package output

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
)

// Logger is the logging contract used by the output package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Options configures a Router.
type Options struct {
	// Directory enumerates screens and opens renderers. Required.
	Directory DisplayDirectory

	// Scheduler drives transition animations. Required.
	Scheduler Scheduler

	// Logger is optional.
	Logger Logger

	// OnError receives per-screen failures, including those reported
	// asynchronously by a surface mid-transition. Optional.
	OnError func(screen int, err error)
}

// Router resolves cue targets and drives one surface per screen plus a
// dedicated preview surface.
type Router struct {
	dir     DisplayDirectory
	sched   Scheduler
	logger  Logger
	onError func(screen int, err error)

	surfaces    map[int]DisplaySurface
	preview     DisplaySurface
	lastPreview *cue.Cue

	calibrations map[int]cue.Calibration
	overlayText  string
	slate        string
	presets      map[string]string
}

// PreviewScreen is the screen index reported for the preview surface.
const PreviewScreen = -1

// New creates a router with no open surfaces.
func New(opts Options) (*Router, error) {
	if opts.Directory == nil {
		return nil, fmt.Errorf("display directory is required")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	return &Router{
		dir:          opts.Directory,
		sched:        opts.Scheduler,
		logger:       opts.Logger,
		onError:      opts.OnError,
		surfaces:     make(map[int]DisplaySurface),
		calibrations: make(map[int]cue.Calibration),
	}, nil
}

// ResolveTargets returns the screens a cue plays on, without duplicates.
//
//   - "all-screens": every known screen, or the cue's own screen if none
//     are enumerated.
//   - "screen-N": screen N.
//   - anything else: the cue's target screen.
func (r *Router) ResolveTargets(c cue.Cue) []int {
	set := strings.TrimSpace(c.TargetSetID)

	if set == cue.TargetAllScreens {
		screens := r.dir.Screens()
		if len(screens) == 0 {
			return []int{c.TargetScreen}
		}
		return dedupe(screens)
	}

	if rest, ok := strings.CutPrefix(set, cue.TargetScreenPrefix); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return []int{n}
		}
	}

	return []int{c.TargetScreen}
}

func dedupe(screens []int) []int {
	seen := make(map[int]bool, len(screens))
	out := make([]int, 0, len(screens))
	for _, s := range screens {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// RouteCue plays a cue on every resolved target.
//
// Targets are resolved with ResolveTargets and each surface is opened on
// demand. The call succeeds when at least one target accepted the cue;
// failures on the other targets are reported through the logger and
// OnError.
//
// Parameters:
//   - c: Cue to play
//   - style: Transition to run on each surface
//   - durationMs: Transition length, floored by the surface
//
// Returns:
//   - error: nil if any target played the cue, or ErrRouteFailed wrapping
//     each per-screen error (ErrNoMedia, ErrScreenNotFound) when every
//     target failed
func (r *Router) RouteCue(c cue.Cue, style cue.TransitionStyle, durationMs int) error {
	d := time.Duration(durationMs) * time.Millisecond
	return r.eachTarget(c, "play", func(s DisplaySurface, target cue.Cue) error {
		return s.PlayWithTransition(target, style, d)
	})
}

// PreloadCue loads a cue on its targets without playing it.
func (r *Router) PreloadCue(c cue.Cue) error {
	return r.eachTarget(c, "preload", func(s DisplaySurface, target cue.Cue) error {
		return s.Preload(target)
	})
}

func (r *Router) eachTarget(c cue.Cue, op string, fn func(DisplaySurface, cue.Cue) error) error {
	var errs []error
	succeeded := 0

	for _, screen := range r.ResolveTargets(c) {
		s, err := r.surface(screen)
		if err == nil {
			target := c
			target.TargetScreen = screen
			err = fn(s, target)
		}
		if err != nil {
			err = fmt.Errorf("screen %d: %w", screen, err)
			errs = append(errs, err)
			r.report(screen, err)
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		return fmt.Errorf("%w: %s %q: %w", ErrRouteFailed, op, c.Name, errors.Join(errs...))
	}
	r.logger.Debug("cue routed", "op", op, "cue", c.Name, "screens", succeeded, "failed", len(errs))
	return nil
}

// PreviewCue plays a cue on the preview surface with a cut and remembers it
// for TakePreview. Target sets are not consulted.
func (r *Router) PreviewCue(c cue.Cue) error {
	s, err := r.previewSurface()
	if err != nil {
		r.report(PreviewScreen, err)
		return err
	}
	if err := s.PlayWithTransition(c, cue.Cut, 0); err != nil {
		err = fmt.Errorf("preview %q: %w", c.Name, err)
		r.report(PreviewScreen, err)
		return err
	}
	previewed := c
	r.lastPreview = &previewed
	return nil
}

// TakePreview routes the last previewed cue to program output.
func (r *Router) TakePreview(style cue.TransitionStyle, durationMs int) error {
	if r.lastPreview == nil {
		return ErrNothingPreviewed
	}
	return r.RouteCue(*r.lastPreview, style, durationMs)
}

// LastPreviewCue returns the last previewed cue, if any.
func (r *Router) LastPreviewCue() (cue.Cue, bool) {
	if r.lastPreview == nil {
		return cue.Cue{}, false
	}
	return *r.lastPreview, true
}

// StopCue stops the cue's layer on each of its resolved targets. Screens
// that were never opened are skipped.
func (r *Router) StopCue(c cue.Cue) {
	for _, screen := range r.ResolveTargets(c) {
		r.StopLayer(screen, c.Layer)
	}
}

// StopLayer stops one layer on one screen. Unknown screens are ignored.
func (r *Router) StopLayer(screen, layer int) {
	if s, ok := r.surfaces[screen]; ok {
		s.StopLayer(layer)
	}
}

// StopAll stops every program surface and the preview.
func (r *Router) StopAll() {
	for _, s := range r.surfaces {
		s.StopAll()
	}
	if r.preview != nil {
		r.preview.StopAll()
	}
}

// SetCalibration sets one screen's calibration.
func (r *Router) SetCalibration(screen int, c cue.Calibration) {
	r.calibrations[screen] = c
	if s, ok := r.surfaces[screen]; ok {
		s.SetCalibration(c)
	}
}

// SetCalibrations replaces all calibrations. Open screens missing from the
// new set are reset to the zero calibration.
func (r *Router) SetCalibrations(calibrations map[int]cue.Calibration) {
	r.calibrations = maps.Clone(calibrations)
	if r.calibrations == nil {
		r.calibrations = make(map[int]cue.Calibration)
	}
	for screen, s := range r.surfaces {
		s.SetCalibration(r.calibrations[screen])
	}
}

// Calibration returns a screen's calibration (zero if unset).
func (r *Router) Calibration(screen int) cue.Calibration {
	return r.calibrations[screen]
}

// SetOverlayText sets the overlay text on every program surface.
func (r *Router) SetOverlayText(text string) {
	r.overlayText = text
	for _, s := range r.surfaces {
		s.SetOverlayText(text)
	}
}

// OverlayText returns the current overlay text.
func (r *Router) OverlayText() string {
	return r.overlayText
}

// SetFallbackSlate sets the slate image on every program surface.
func (r *Router) SetFallbackSlate(path string) {
	r.slate = path
	for _, s := range r.surfaces {
		s.SetFallbackSlate(path)
	}
}

// SetFilterPresets replaces the named video filter table.
func (r *Router) SetFilterPresets(presets map[string]string) {
	r.presets = maps.Clone(presets)
	for _, s := range r.surfaces {
		s.SetFilterPresets(r.presets)
	}
	if r.preview != nil {
		r.preview.SetFilterPresets(r.presets)
	}
}

// OpenAll opens a surface for every known screen, reporting failures.
func (r *Router) OpenAll() {
	for _, screen := range r.dir.Screens() {
		if _, err := r.surface(screen); err != nil {
			r.report(screen, err)
		}
	}
}

// surface returns the screen's surface, creating it on first use with the
// retained slate, calibration, overlay text and filter presets.
func (r *Router) surface(screen int) (DisplaySurface, error) {
	if s, ok := r.surfaces[screen]; ok {
		return s, nil
	}

	renderer, err := r.dir.Open(screen)
	if err != nil {
		return nil, fmt.Errorf("open screen %d: %w", screen, err)
	}

	s := r.newSurface(screen, renderer)
	if r.slate != "" {
		s.SetFallbackSlate(r.slate)
	}
	if c, ok := r.calibrations[screen]; ok {
		s.SetCalibration(c)
	}
	if r.overlayText != "" {
		s.SetOverlayText(r.overlayText)
	}
	r.surfaces[screen] = s
	r.logger.Info("output surface opened", "screen", screen)
	return s, nil
}

func (r *Router) previewSurface() (DisplaySurface, error) {
	if r.preview != nil {
		return r.preview, nil
	}
	renderer, err := r.dir.OpenPreview()
	if err != nil {
		return nil, fmt.Errorf("open preview: %w", err)
	}
	r.preview = r.newSurface(PreviewScreen, renderer)
	return r.preview, nil
}

func (r *Router) newSurface(screen int, renderer Renderer) *Surface {
	s := NewSurface(screen, renderer, r.sched, r.logger)
	s.SetErrorHandler(r.report)
	s.SetFilterPresets(r.presets)
	return s
}

func (r *Router) report(screen int, err error) {
	r.logger.Warn("output routing error", "screen", screen, "error", err)
	if r.onError != nil {
		r.onError(screen, err)
	}
}

// LayerStatus is one playing layer in a Snapshot.
type LayerStatus struct {
	Layer   int    `json:"layer"`
	CueID   string `json:"cue_id"`
	CueName string `json:"cue_name"`
}

// ScreenStatus is one surface in a Snapshot.
type ScreenStatus struct {
	Screen      int             `json:"screen"`
	State       State           `json:"state"`
	Layers      []LayerStatus   `json:"layers"`
	Calibration cue.Calibration `json:"calibration"`
}

// Snapshot is the router's externally visible state.
type Snapshot struct {
	Screens       []ScreenStatus `json:"screens"`
	PreviewCueID  string         `json:"preview_cue_id,omitempty"`
	OverlayText   string         `json:"overlay_text"`
	FallbackSlate string         `json:"fallback_slate,omitempty"`
}

// Snapshot reports every open surface, ordered by screen.
func (r *Router) Snapshot() Snapshot {
	snap := Snapshot{
		Screens:       make([]ScreenStatus, 0, len(r.surfaces)),
		OverlayText:   r.overlayText,
		FallbackSlate: r.slate,
	}
	if r.lastPreview != nil {
		snap.PreviewCueID = r.lastPreview.ID
	}

	for _, screen := range slices.Sorted(maps.Keys(r.surfaces)) {
		s := r.surfaces[screen]
		status := ScreenStatus{
			Screen:      screen,
			State:       s.State(),
			Layers:      []LayerStatus{},
			Calibration: r.Calibration(screen),
		}
		layers := s.Layers()
		for _, layer := range slices.Sorted(maps.Keys(layers)) {
			c := layers[layer]
			status.Layers = append(status.Layers, LayerStatus{Layer: layer, CueID: c.ID, CueName: c.Name})
		}
		snap.Screens = append(snap.Screens, status)
	}
	return snap
}
