package show

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
	"github.com/nerrad567/showcue-core/internal/failover"
	"github.com/nerrad567/showcue-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/showcue-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/showcue-core/internal/output"
	"github.com/nerrad567/showcue-core/internal/playback"
	"github.com/nerrad567/showcue-core/internal/showlog"
	"github.com/nerrad567/showcue-core/internal/trigger"
)

// Hub event channels.
const (
	EventCueLive     = "cue.live"
	EventCueStatus   = "cue.status"
	EventCueList     = "cue.list"
	EventStopAll     = "show.stop_all"
	EventOverlayText = "overlay.text"
)

// SourceScheduler tags cues started by a follow, playlist or other timer.
const SourceScheduler = "scheduler"

// Output is the router surface the engine drives.
type Output interface {
	playback.Router
	SetOverlayText(text string)
	OverlayText() string
	Snapshot() output.Snapshot
}

// Replicator publishes local events to the failover peer.
type Replicator interface {
	PublishCueLive(c cue.Cue) error
	PublishStopAll() error
	PublishOverlayText(text string) error
	IsRunning() bool
}

// Backup posts cue-live notifications to an external backup system.
type Backup interface {
	Send(ctx context.Context, c cue.Cue) error
}

// Publisher publishes JSON documents to MQTT.
type Publisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// Metrics records show telemetry.
type Metrics interface {
	WriteCueLive(e influxdb.CueLive)
	WriteTrigger(kind, source string)
}

// Journal queues show journal entries. Record must not block.
type Journal interface {
	Record(e showlog.Entry)
}

// Hub broadcasts events to WebSocket clients.
type Hub interface {
	Broadcast(channel string, payload any)
}

// Options configures an Engine. Optional collaborators left nil are skipped;
// a nil Replicator disables failover.
type Options struct {
	Loop   *Loop     // required
	Cues   *cue.List // required
	Output Output    // required

	NodeID       string
	Transition   cue.TransitionStyle
	TransitionMs int

	Replicator Replicator
	Backup     Backup
	Publisher  Publisher
	Metrics    Metrics
	Journal    Journal
	Hub        Hub
	Logger     Logger
}

// LiveCue describes the cue most recently taken to program output.
type LiveCue struct {
	CueID        string    `json:"cue_id"`
	CueName      string    `json:"cue_name"`
	Row          int       `json:"row"`
	Reason       string    `json:"reason"`
	Source       string    `json:"source"`
	Transition   string    `json:"transition"`
	DurationMs   int       `json:"duration_ms"`
	TargetScreen int       `json:"target_screen"`
	TargetSetID  string    `json:"target_set,omitempty"`
	Layer        int       `json:"layer"`
	NodeID       string    `json:"node_id,omitempty"`
	At           time.Time `json:"at"`
}

// Status is a snapshot of the engine for the API.
type Status struct {
	NodeID          string          `json:"node_id"`
	Cues            int             `json:"cues"`
	Live            *LiveCue        `json:"live,omitempty"`
	Message         string          `json:"message,omitempty"`
	FailoverEnabled bool            `json:"failover_enabled"`
	Transition      string          `json:"transition"`
	TransitionMs    int             `json:"transition_ms"`
	Output          output.Snapshot `json:"output"`
}

// Engine maps trigger events to playback and fans results out.
//
// Thread Safety: methods documented as loop-only must run on the Loop. The
// context-taking methods may be called from any goroutine.
type Engine struct {
	loop   *Loop
	cues   *cue.List
	out    Output
	ctrl   *playback.Controller
	nodeID string
	style  cue.TransitionStyle
	ms     int

	repl    Replicator
	backup  Backup
	pub     Publisher
	metrics Metrics
	journal Journal
	hub     Hub
	logger  Logger
	topics  mqtt.Topics

	// Loop-owned state.
	source          string
	hotkeys         map[string]string
	live            *LiveCue
	message         string
	suppressCue     bool
	suppressStop    bool
	suppressOverlay bool
}

// New creates an engine and its playback controller.
//
// The engine does not start the loop. Run opts.Loop separately; until it
// runs, the goroutine-safe entry points block or time out on their ctx.
//
// Parameters:
//   - opts.Loop: Show loop all engine state lives on
//   - opts.Cues: Cue list to play from
//   - opts.Output: Output router
//   - opts.Replicator: Failover replicator (nil disables failover)
//   - opts.Backup, opts.Publisher, opts.Metrics, opts.Journal, opts.Hub:
//     Optional fan-out targets, skipped when nil
//   - opts.Logger: Logger instance (may be nil)
//
// Returns:
//   - *Engine: Ready to accept events once the loop runs
//   - error: nil on success, or an error naming the missing required option
func New(opts Options) (*Engine, error) {
	if opts.Loop == nil {
		return nil, fmt.Errorf("loop is required")
	}
	if opts.Cues == nil {
		return nil, fmt.Errorf("cue list is required")
	}
	if opts.Output == nil {
		return nil, fmt.Errorf("output is required")
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	e := &Engine{
		loop:    opts.Loop,
		cues:    opts.Cues,
		out:     opts.Output,
		nodeID:  opts.NodeID,
		style:   opts.Transition,
		ms:      cue.ClampDuration(opts.TransitionMs),
		repl:    opts.Replicator,
		backup:  opts.Backup,
		pub:     opts.Publisher,
		metrics: opts.Metrics,
		journal: opts.Journal,
		hub:     opts.Hub,
		logger:  opts.Logger,
		hotkeys: cue.Hotkeys(opts.Cues.All()),
	}

	ctrl, err := playback.New(playback.Options{
		Store:     opts.Cues,
		Router:    opts.Output,
		Scheduler: opts.Loop,
		Logger:    opts.Logger,
		OnLive:    e.onLive,
		OnStatus:  e.setStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("creating playback controller: %w", err)
	}
	e.ctrl = ctrl
	return e, nil
}

// ─── Loop-only operations ──────────────────────────────────────────

// HandleEvent executes one trigger event. Loop-only.
func (e *Engine) HandleEvent(ev trigger.Event) error {
	if e.metrics != nil {
		e.metrics.WriteTrigger(ev.Kind.String(), ev.Source)
	}
	e.source = ev.Source
	defer func() { e.source = "" }()

	switch ev.Kind {
	case trigger.PlayRow:
		return e.ctrl.PlayCueAtRow(ev.Row, e.style, e.ms)
	case trigger.PreviewRow:
		return e.ctrl.PreviewCueAtRow(ev.Row)
	case trigger.PreloadRow:
		return e.ctrl.PreloadCueAtRow(ev.Row)
	case trigger.Take:
		return e.ctrl.TakePreview(e.style, e.ms)
	case trigger.StopAll:
		e.stopAll(ev.Source)
		return nil
	case trigger.Timecode:
		_, err := e.ctrl.TriggerByTimecode(ev.Text, e.style, e.ms)
		return err
	case trigger.DMXLevel:
		return e.playResolved(ResolveDMX(e.cues.All(), ev.Channel, ev.Value), ev)
	case trigger.MIDINote:
		return e.playResolved(ResolveMIDI(e.cues.All(), ev.Note), ev)
	case trigger.OverlayText:
		e.setOverlayText(ev.Text, ev.Source)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Kind)
	}
}

// playResolved plays a row found by trigger resolution. Unbound triggers
// are expected traffic and are not errors.
func (e *Engine) playResolved(row int, ev trigger.Event) error {
	if row < 0 {
		e.logger.Debug("trigger matched no cue", "event", ev.String(), "source", ev.Source)
		return nil
	}
	return e.ctrl.PlayCueAtRow(row, e.style, e.ms)
}

// HandleRemote replays a verified event from the failover peer without
// publishing it back. Loop-only.
func (e *Engine) HandleRemote(ev failover.RemoteEvent) error {
	e.record(showlog.Entry{
		Kind:   showlog.KindRemote,
		CueID:  ev.CueID,
		Source: trigger.SourceFailover,
		Detail: ev.Type,
	})
	e.source = trigger.SourceFailover
	defer func() { e.source = "" }()

	switch ev.Type {
	case failover.TypeCueLive:
		e.suppressCue = true
		if err := e.ctrl.PlayCueByID(ev.CueID, e.style, e.ms, false); err != nil {
			e.suppressCue = false
			return err
		}
		return nil
	case failover.TypeStopAll:
		e.suppressStop = true
		e.stopAll(trigger.SourceFailover)
		return nil
	case failover.TypeOverlayText:
		e.suppressOverlay = true
		e.setOverlayText(ev.Text, trigger.SourceFailover)
		return nil
	default:
		return fmt.Errorf("%w: remote %s", ErrUnknownEvent, ev.Type)
	}
}

// stopAll stops every output and announces it.
func (e *Engine) stopAll(source string) {
	e.ctrl.StopAll()
	e.live = nil

	e.record(showlog.Entry{Kind: showlog.KindStopAll, Source: source})
	e.publish(e.topics.ProgramEvent(showlog.KindStopAll), map[string]any{"source": source}, false)
	e.broadcast(EventStopAll, map[string]any{"source": source})

	e.replicate(&e.suppressStop, "stop_all", func() error { return e.repl.PublishStopAll() })
}

// setOverlayText trims and applies overlay text, then announces it.
func (e *Engine) setOverlayText(text, source string) {
	text = strings.TrimSpace(text)
	e.out.SetOverlayText(text)

	e.record(showlog.Entry{Kind: showlog.KindOverlayText, Source: source, Detail: text})
	e.publish(e.topics.ProgramEvent(showlog.KindOverlayText), map[string]any{"text": text, "source": source}, true)
	e.broadcast(EventOverlayText, map[string]any{"text": text, "source": source})

	e.replicate(&e.suppressOverlay, "overlay_text", func() error { return e.repl.PublishOverlayText(text) })
}

// stopRow stops one cue's layer. Loop-only.
func (e *Engine) stopRow(row int) error {
	return e.ctrl.StopCueAtRow(row)
}

// triggerHotkey plays the cue bound to key. Loop-only.
func (e *Engine) triggerHotkey(key string) error {
	id, ok := e.hotkeys[cue.NormalizeHotkey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHotkey, key)
	}
	e.source = trigger.SourceAPI
	defer func() { e.source = "" }()
	return e.ctrl.PlayCueByID(id, e.style, e.ms, false)
}

// reload replaces the cue list and rebuilds the hotkey table. Loop-only.
func (e *Engine) reload(cues []cue.Cue) {
	e.cues.Replace(cues)
	e.hotkeys = cue.Hotkeys(e.cues.All())
	e.setStatus(fmt.Sprintf("Loaded %d cues", len(cues)))
	e.broadcast(EventCueList, map[string]any{"count": len(cues)})
}

// status builds a Status snapshot. Loop-only.
func (e *Engine) status() Status {
	st := Status{
		NodeID:          e.nodeID,
		Cues:            e.cues.Len(),
		Message:         e.message,
		FailoverEnabled: e.repl != nil && e.repl.IsRunning(),
		Transition:      e.style.String(),
		TransitionMs:    e.ms,
		Output:          e.out.Snapshot(),
	}
	if e.live != nil {
		live := *e.live
		st.Live = &live
	}
	return st
}

// ─── Fan-out ───────────────────────────────────────────────────────

// onLive is the controller's cue-live callback.
func (e *Engine) onLive(l playback.Live) {
	source := e.source
	if source == "" {
		source = SourceScheduler
	}
	c := l.Cue
	live := &LiveCue{
		CueID:        c.ID,
		CueName:      c.Name,
		Row:          l.Row,
		Reason:       l.Reason,
		Source:       source,
		Transition:   l.Style.String(),
		DurationMs:   l.DurationMs,
		TargetScreen: c.TargetScreen,
		TargetSetID:  c.TargetSetID,
		Layer:        c.Layer,
		NodeID:       e.nodeID,
		At:           time.Now().UTC(),
	}
	e.live = live

	e.sendBackup(c)
	e.replicate(&e.suppressCue, "cue_live", func() error { return e.repl.PublishCueLive(c) })

	e.publish(e.topics.ProgramLive(), live, true)
	if e.metrics != nil {
		e.metrics.WriteCueLive(influxdb.CueLive{
			CueID:   c.ID,
			CueName: c.Name,
			Source:  source,
			Reason:  l.Reason,
			Screen:  c.TargetScreen,
			Layer:   c.Layer,
		})
	}
	e.record(showlog.Entry{
		Kind:    showlog.KindCueLive,
		CueID:   c.ID,
		CueName: c.Name,
		Source:  source,
		Detail:  l.Reason,
	})
	e.broadcast(EventCueLive, live)
}

// replicate publishes to the peer unless the event came from the peer.
// The suppression flag is one-shot and is cleared on every path.
func (e *Engine) replicate(suppressed *bool, what string, publish func() error) {
	switch {
	case e.repl == nil:
		*suppressed = false
	case *suppressed:
		*suppressed = false
	default:
		if err := publish(); err != nil {
			e.logger.Warn("failover publish failed", "event", what, "error", err)
		}
	}
}

// sendBackup posts to the backup system off the loop. Failures come back
// as a status line. The request is abandoned when the loop shuts down.
func (e *Engine) sendBackup(c cue.Cue) {
	if e.backup == nil {
		return
	}
	ctx := e.loop.Context()
	go func() {
		if err := e.backup.Send(ctx, c); err != nil {
			if ctx.Err() != nil {
				return
			}
			e.logger.Warn("backup trigger failed", "cue_id", c.ID, "error", err)
			msg := fmt.Sprintf("Backup trigger failed for '%s': %v", c.Name, err)
			e.loop.Post(func() { e.setStatus(msg) })
		}
	}()
}

func (e *Engine) setStatus(msg string) {
	e.message = msg
	e.broadcast(EventCueStatus, map[string]any{"message": msg})
}

func (e *Engine) publish(topic string, v any, retained bool) {
	if e.pub == nil {
		return
	}
	if err := e.pub.PublishJSON(topic, v, retained); err != nil {
		e.logger.Debug("mqtt publish failed", "topic", topic, "error", err)
	}
}

func (e *Engine) record(entry showlog.Entry) {
	if e.journal != nil {
		e.journal.Record(entry)
	}
}

func (e *Engine) broadcast(channel string, payload any) {
	if e.hub != nil {
		e.hub.Broadcast(channel, payload)
	}
}

// ─── Goroutine-safe entry points ───────────────────────────────────

// Submit runs ev on the loop and returns its result.
func (e *Engine) Submit(ctx context.Context, ev trigger.Event) error {
	var err error
	if doErr := e.loop.Do(ctx, func() { err = e.HandleEvent(ev) }); doErr != nil {
		return doErr
	}
	return err
}

// StopRow stops the cue at row.
func (e *Engine) StopRow(ctx context.Context, row int) error {
	var err error
	if doErr := e.loop.Do(ctx, func() { err = e.stopRow(row) }); doErr != nil {
		return doErr
	}
	return err
}

// TriggerHotkey plays the cue bound to key.
func (e *Engine) TriggerHotkey(ctx context.Context, key string) error {
	var err error
	if doErr := e.loop.Do(ctx, func() { err = e.triggerHotkey(key) }); doErr != nil {
		return doErr
	}
	return err
}

// ReloadCues replaces the cue list.
func (e *Engine) ReloadCues(ctx context.Context, cues []cue.Cue) error {
	return e.loop.Do(ctx, func() { e.reload(cues) })
}

// Status returns a snapshot of the engine.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	var st Status
	if err := e.loop.Do(ctx, func() { st = e.status() }); err != nil {
		return Status{}, err
	}
	return st, nil
}

// Cues returns the current cue list.
func (e *Engine) Cues() []cue.Cue {
	return e.cues.All()
}

// Sink returns a trigger.BatchSink that queues events onto the loop
// without blocking the ingress. Events are dropped while the queue is
// full. A batch takes a single queue slot however many events it holds.
func (e *Engine) Sink() trigger.BatchSink {
	return loopSink{e}
}

type loopSink struct{ e *Engine }

func (s loopSink) Submit(ev trigger.Event) {
	s.SubmitBatch([]trigger.Event{ev})
}

func (s loopSink) SubmitBatch(events []trigger.Event) {
	if len(events) == 0 {
		return
	}
	e := s.e
	ok := e.loop.TryPost(func() {
		for _, ev := range events {
			if err := e.HandleEvent(ev); err != nil {
				e.logger.Debug("trigger failed", "event", ev.String(), "source", ev.Source, "error", err)
			}
		}
	})
	if !ok {
		e.logger.Warn("show loop busy, trigger dropped",
			"event", events[0].String(), "source", events[0].Source, "count", len(events))
	}
}

// RemoteHandler returns a failover handler that replays peer events on
// the loop.
func (e *Engine) RemoteHandler() failover.RemoteHandler {
	return func(ev failover.RemoteEvent) {
		e.loop.Post(func() {
			if err := e.HandleRemote(ev); err != nil {
				e.logger.Warn("remote event failed", "type", ev.Type, "cue_id", ev.CueID, "error", err)
			}
		})
	}
}
