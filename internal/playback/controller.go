package playback

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
)

// Logger is the logging contract used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Router is the output capability the controller drives.
type Router interface {
	RouteCue(c cue.Cue, style cue.TransitionStyle, durationMs int) error
	PreviewCue(c cue.Cue) error
	PreloadCue(c cue.Cue) error
	TakePreview(style cue.TransitionStyle, durationMs int) error
	LastPreviewCue() (cue.Cue, bool)
	StopCue(c cue.Cue)
	StopAll()
}

// Scheduler runs fn once after d on the controller's goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// Reasons a cue went live.
const (
	ReasonPlay     = "play"
	ReasonTake     = "take"
	ReasonTimecode = "timecode"
	ReasonFollow   = "follow"
	ReasonPlaylist = "playlist"
)

// Live describes a cue that just went to program output.
type Live struct {
	Cue        cue.Cue
	Row        int // -1 if the cue is no longer in the list
	Reason     string
	Style      cue.TransitionStyle
	DurationMs int
}

// Options configures a Controller.
type Options struct {
	Store     cue.Store // required
	Router    Router    // required
	Scheduler Scheduler // required

	Logger Logger

	// OnLive is called once for every cue that goes live.
	OnLive func(Live)

	// OnStatus receives human-readable status lines ("Live: 'Intro'").
	OnStatus func(msg string)
}

// Controller resolves play requests and schedules follow-ups.
type Controller struct {
	store    cue.Store
	router   Router
	sched    Scheduler
	logger   Logger
	onLive   func(Live)
	onStatus func(string)

	lastTimecodeByCueID map[string]string
}

// New creates a controller.
//
// The controller owns no goroutines. Every method, and every callback it
// schedules, must run on the goroutine that drives opts.Scheduler.
//
// Parameters:
//   - opts.Store: Cue list the rows index into
//   - opts.Router: Output router that plays, previews and stops cues
//   - opts.Scheduler: Delays follow and playlist cues
//   - opts.Logger: Logger instance (may be nil)
//   - opts.OnLive: Called once per cue that goes live (may be nil)
//   - opts.OnStatus: Receives operator status lines (may be nil)
//
// Returns:
//   - *Controller: Ready to accept play requests
//   - error: nil on success, or an error naming the missing required option
func New(opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cue store is required")
	}
	if opts.Router == nil {
		return nil, fmt.Errorf("router is required")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	return &Controller{
		store:               opts.Store,
		router:              opts.Router,
		sched:               opts.Scheduler,
		logger:              opts.Logger,
		onLive:              opts.OnLive,
		onStatus:            opts.OnStatus,
		lastTimecodeByCueID: make(map[string]string),
	}, nil
}

func (c *Controller) status(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.logger.Info(msg)
	if c.onStatus != nil {
		c.onStatus(msg)
	}
}

// fail reports err as a status line and returns it.
func (c *Controller) fail(err error) error {
	c.logger.Warn("playback request failed", "error", err)
	if c.onStatus != nil {
		c.onStatus(err.Error())
	}
	return err
}

// playable returns the cue at row after checking it exists and has media.
func (c *Controller) playable(row int) (cue.Cue, error) {
	if !c.store.IsValidRow(row) {
		return cue.Cue{}, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	item, ok := c.store.CueAt(row)
	if !ok {
		return cue.Cue{}, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	if !item.HasPlayableMedia() {
		return cue.Cue{}, fmt.Errorf("%w: %q", ErrNoMedia, item.Name)
	}
	return item, nil
}

// PlayCueAtRow routes the cue at row to program output.
//
// The cue's own transition override wins over style and durationMs. On
// success a "Live" status line is emitted, OnLive fires, and any follow or
// playlist successor is scheduled. Every failure is also reported through
// OnStatus.
//
// Parameters:
//   - row: Zero-based row in the cue list
//   - style: Transition used when the cue has no override
//   - durationMs: Transition length used when the cue has no override
//
// Returns:
//   - error: nil on success, or:
//   - ErrInvalidRow if row is outside the list
//   - ErrNoMedia if the cue has neither a file nor a live URL
//   - a wrapped output error if no target accepted the cue
func (c *Controller) PlayCueAtRow(row int, style cue.TransitionStyle, durationMs int) error {
	return c.play(row, style, durationMs, ReasonPlay)
}

func (c *Controller) play(row int, style cue.TransitionStyle, durationMs int, reason string) error {
	item, err := c.playable(row)
	if err != nil {
		return c.fail(err)
	}
	s, d := item.Transition(style, durationMs)
	if err := c.router.RouteCue(item, s, d); err != nil {
		return c.fail(fmt.Errorf("route %q: %w", item.Name, err))
	}
	c.status("Live: '%s'", item.Name)
	c.wentLive(row, item, s, d, reason)
	return nil
}

// PreviewCueAtRow shows the cue at row on the preview monitor.
func (c *Controller) PreviewCueAtRow(row int) error {
	item, err := c.playable(row)
	if err != nil {
		return c.fail(err)
	}
	if err := c.router.PreviewCue(item); err != nil {
		return c.fail(fmt.Errorf("preview %q: %w", item.Name, err))
	}
	c.status("Preview: '%s'", item.Name)
	return nil
}

// PreloadCueAtRow warms the cue's media on its targets without playing.
func (c *Controller) PreloadCueAtRow(row int) error {
	item, err := c.playable(row)
	if err != nil {
		return c.fail(err)
	}
	if err := c.router.PreloadCue(item); err != nil {
		return c.fail(fmt.Errorf("preload %q: %w", item.Name, err))
	}
	c.status("Preloaded: '%s'", item.Name)
	return nil
}

// PlayCueByID plays (or previews) the cue with the given id.
func (c *Controller) PlayCueByID(id string, style cue.TransitionStyle, durationMs int, previewOnly bool) error {
	row := c.store.RowForID(id)
	if row < 0 {
		return c.fail(fmt.Errorf("%w: %s", ErrCueNotFound, id))
	}
	if previewOnly {
		return c.PreviewCueAtRow(row)
	}
	return c.PlayCueAtRow(row, style, durationMs)
}

// TakePreview promotes the previewed cue to program output.
func (c *Controller) TakePreview(style cue.TransitionStyle, durationMs int) error {
	item, ok := c.router.LastPreviewCue()
	if ok {
		style, durationMs = item.Transition(style, durationMs)
	}
	if err := c.router.TakePreview(style, durationMs); err != nil {
		return c.fail(fmt.Errorf("take: %w", err))
	}
	c.status("Taken live: '%s'", item.Name)
	c.wentLive(c.store.RowForID(item.ID), item, style, durationMs, ReasonTake)
	return nil
}

// TriggerByTimecode fires every cue whose timecode trigger matches raw.
//
// A cue fires once per matching code: the same code repeated does not
// retrigger it, and any non-matching code re-arms it. Cues without media
// are skipped quietly. A routing failure on one cue is reported through
// OnStatus and does not stop the others.
//
// Parameters:
//   - raw: Timecode as received, HH:MM:SS:FF or HH:MM:SS
//   - style: Transition used when a cue has no override
//   - durationMs: Transition length used when a cue has no override
//
// Returns:
//   - int: Number of cues that went live
//   - error: nil on success, or ErrInvalidTimecode if raw cannot be normalized
func (c *Controller) TriggerByTimecode(raw string, style cue.TransitionStyle, durationMs int) (int, error) {
	code, ok := NormalizeTimecode(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, raw)
	}

	fired := 0
	for row, item := range c.store.All() {
		if !item.HasTimecodeTrigger() {
			continue
		}
		if !MatchTimecode(item.TimecodeTrigger, code) {
			delete(c.lastTimecodeByCueID, item.ID)
			continue
		}
		if c.lastTimecodeByCueID[item.ID] == code {
			continue
		}
		if !item.HasPlayableMedia() {
			c.logger.Debug("timecode cue has no media", "cue", item.Name, "timecode", code)
			continue
		}

		s, d := item.Transition(style, durationMs)
		if err := c.router.RouteCue(item, s, d); err != nil {
			c.fail(fmt.Errorf("timecode %s: route %q: %w", code, item.Name, err))
			continue
		}
		c.lastTimecodeByCueID[item.ID] = code
		c.status("Timecode %s -> '%s'", code, item.Name)
		c.wentLive(row, item, s, d, ReasonTimecode)
		fired++
	}
	return fired, nil
}

// StopCueAtRow stops the cue's layer on its targets.
func (c *Controller) StopCueAtRow(row int) error {
	item, ok := c.store.CueAt(row)
	if !ok || !c.store.IsValidRow(row) {
		return fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	c.router.StopCue(item)
	c.status("Stopped: '%s'", item.Name)
	return nil
}

// StopAll stops every output. Always succeeds.
func (c *Controller) StopAll() {
	c.router.StopAll()
	c.status("All outputs stopped")
}

func (c *Controller) wentLive(row int, item cue.Cue, style cue.TransitionStyle, durationMs int, reason string) {
	if c.onLive != nil {
		c.onLive(Live{Cue: item, Row: row, Reason: reason, Style: style, DurationMs: durationMs})
	}
	if row >= 0 {
		c.scheduleFollowCue(row, item, style, durationMs)
	}
	c.scheduleAutoStop(item)
}

// scheduleFollowCue plays the follow row after the follow delay. Without
// AutoFollow it falls back to playlist advance.
func (c *Controller) scheduleFollowCue(row int, item cue.Cue, style cue.TransitionStyle, durationMs int) {
	if !item.AutoFollow {
		c.schedulePlaylistAdvance(row, item, style, durationMs)
		return
	}

	next := item.FollowCueRow
	if next < 0 {
		next = row + 1
	}
	if !c.store.IsValidRow(next) {
		return
	}
	c.scheduleRow(next, item.FollowDelayMs, style, durationMs, ReasonFollow)
}

// schedulePlaylistAdvance plays the next cue sharing the playlist id,
// scanning forward and then, for looping playlists, from the top. The
// current row is never selected.
func (c *Controller) schedulePlaylistAdvance(row int, item cue.Cue, style cue.TransitionStyle, durationMs int) {
	playlist := strings.TrimSpace(item.PlaylistID)
	if !item.PlaylistAutoAdvance || playlist == "" {
		return
	}

	cues := c.store.All()
	next := -1
	for i := row + 1; i < len(cues); i++ {
		if strings.TrimSpace(cues[i].PlaylistID) == playlist {
			next = i
			break
		}
	}
	if next < 0 && item.PlaylistLoop {
		for i := 0; i < row && i < len(cues); i++ {
			if strings.TrimSpace(cues[i].PlaylistID) == playlist {
				next = i
				break
			}
		}
	}
	if next < 0 {
		return
	}
	c.scheduleRow(next, item.PlaylistAdvanceDelayMs, style, durationMs, ReasonPlaylist)
}

// scheduleRow plays a row after delayMs. The target is pinned by cue id so
// a reordered list still plays the intended cue and a deleted one is a
// no-op.
func (c *Controller) scheduleRow(row, delayMs int, style cue.TransitionStyle, durationMs int, reason string) {
	target, ok := c.store.CueAt(row)
	if !ok {
		return
	}
	delay := time.Duration(max(0, delayMs)) * time.Millisecond
	c.logger.Debug("scheduled cue", "reason", reason, "cue", target.Name, "delay", delay)

	c.sched.AfterFunc(delay, func() {
		current := row
		if target.ID != "" {
			current = c.store.RowForID(target.ID)
		}
		if current < 0 {
			c.logger.Debug("scheduled cue no longer exists", "reason", reason, "cue", target.Name)
			return
		}
		_ = c.play(current, style, durationMs, reason)
	})
}

// scheduleAutoStop stops exactly this cue's layer on its targets after
// AutoStopMs, whatever is playing there by then.
func (c *Controller) scheduleAutoStop(item cue.Cue) {
	if item.AutoStopMs <= 0 {
		return
	}
	c.sched.AfterFunc(time.Duration(item.AutoStopMs)*time.Millisecond, func() {
		c.router.StopCue(item)
		c.logger.Debug("auto-stop", "cue", item.Name)
	})
}
