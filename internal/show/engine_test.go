package show

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
	"github.com/nerrad567/showcue-core/internal/failover"
	"github.com/nerrad567/showcue-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/showcue-core/internal/output"
	"github.com/nerrad567/showcue-core/internal/playback"
	"github.com/nerrad567/showcue-core/internal/showlog"
	"github.com/nerrad567/showcue-core/internal/trigger"
)

// ─── Mock Dependencies ─────────────────────────────────────────────

// mockOutput implements Output. It is only touched on the loop.
type mockOutput struct {
	routed   []string
	previews []string
	stopAlls int
	overlay  string
	preview  *cue.Cue
	routeErr error
}

func (m *mockOutput) RouteCue(c cue.Cue, _ cue.TransitionStyle, _ int) error {
	if m.routeErr != nil {
		return m.routeErr
	}
	m.routed = append(m.routed, c.Name)
	return nil
}

func (m *mockOutput) PreviewCue(c cue.Cue) error {
	m.previews = append(m.previews, c.Name)
	m.preview = &c
	return nil
}

func (m *mockOutput) PreloadCue(cue.Cue) error { return nil }

func (m *mockOutput) TakePreview(cue.TransitionStyle, int) error {
	if m.preview == nil {
		return errors.New("nothing previewed")
	}
	m.routed = append(m.routed, m.preview.Name)
	return nil
}

func (m *mockOutput) LastPreviewCue() (cue.Cue, bool) {
	if m.preview == nil {
		return cue.Cue{}, false
	}
	return *m.preview, true
}

func (m *mockOutput) StopCue(cue.Cue)            {}
func (m *mockOutput) StopAll()                   { m.stopAlls++ }
func (m *mockOutput) SetOverlayText(text string) { m.overlay = text }
func (m *mockOutput) OverlayText() string        { return m.overlay }
func (m *mockOutput) Snapshot() output.Snapshot  { return output.Snapshot{OverlayText: m.overlay} }

// mockReplicator records what was published to the peer.
type mockReplicator struct {
	cueLive  []string
	stopAlls int
	overlays []string
}

func (m *mockReplicator) PublishCueLive(c cue.Cue) error {
	m.cueLive = append(m.cueLive, c.ID)
	return nil
}

func (m *mockReplicator) IsRunning() bool { return true }

func (m *mockReplicator) PublishStopAll() error {
	m.stopAlls++
	return nil
}

func (m *mockReplicator) PublishOverlayText(text string) error {
	m.overlays = append(m.overlays, text)
	return nil
}

// mockBackup is called from a goroutine.
type mockBackup struct {
	sent  chan string
	err   error
	block bool       // hold the request open until ctx ends
	ended chan error // receives ctx.Err() when a blocked request ends
}

func (m *mockBackup) Send(ctx context.Context, c cue.Cue) error {
	m.sent <- c.ID
	if m.block {
		<-ctx.Done()
		m.ended <- ctx.Err()
		return ctx.Err()
	}
	return m.err
}

type published struct {
	topic    string
	retained bool
}

type mockPublisher struct {
	msgs []published
}

func (m *mockPublisher) PublishJSON(topic string, _ any, retained bool) error {
	m.msgs = append(m.msgs, published{topic: topic, retained: retained})
	return nil
}

type mockMetrics struct {
	live     []influxdb.CueLive
	triggers []string
}

func (m *mockMetrics) WriteCueLive(e influxdb.CueLive) { m.live = append(m.live, e) }
func (m *mockMetrics) WriteTrigger(kind, source string) {
	m.triggers = append(m.triggers, kind+"/"+source)
}

type mockJournal struct {
	entries []showlog.Entry
}

func (m *mockJournal) Record(e showlog.Entry) { m.entries = append(m.entries, e) }

type mockHub struct {
	mu       sync.Mutex
	channels []string
}

func (m *mockHub) Broadcast(channel string, _ any) {
	m.mu.Lock()
	m.channels = append(m.channels, channel)
	m.mu.Unlock()
}

func (m *mockHub) count(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ch := range m.channels {
		if ch == channel {
			n++
		}
	}
	return n
}

// ─── Test Helpers ──────────────────────────────────────────────────

type engineHarness struct {
	eng     *Engine
	loop    *Loop
	out     *mockOutput
	repl    *mockReplicator
	pub     *mockPublisher
	metrics *mockMetrics
	journal *mockJournal
	hub     *mockHub
}

func mediaCue(name string) cue.Cue {
	c := cue.New(name)
	c.FilePath = "/media/" + name + ".mov"
	return c
}

func newEngineHarness(t *testing.T, withFailover bool, cues ...cue.Cue) *engineHarness {
	t.Helper()
	h := &engineHarness{
		loop:    startLoop(t),
		out:     &mockOutput{},
		repl:    &mockReplicator{},
		pub:     &mockPublisher{},
		metrics: &mockMetrics{},
		journal: &mockJournal{},
		hub:     &mockHub{},
	}
	opts := Options{
		Loop:         h.loop,
		Cues:         cue.NewList(cues),
		Output:       h.out,
		NodeID:       "node-a",
		Transition:   cue.Fade,
		TransitionMs: 600,
		Publisher:    h.pub,
		Metrics:      h.metrics,
		Journal:      h.journal,
		Hub:          h.hub,
	}
	if withFailover {
		opts.Replicator = h.repl
	}
	eng, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.eng = eng
	return h
}

// remote runs HandleRemote on the loop.
func (h *engineHarness) remote(t *testing.T, ev failover.RemoteEvent) error {
	t.Helper()
	var err error
	if doErr := h.loop.Do(context.Background(), func() { err = h.eng.HandleRemote(ev) }); doErr != nil {
		t.Fatalf("Do() error = %v", doErr)
	}
	return err
}

// sync waits for everything queued so far to run.
func (h *engineHarness) sync(t *testing.T) {
	t.Helper()
	if err := h.loop.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

// ─── Tests ─────────────────────────────────────────────────────────

func TestNew_RequiredOptions(t *testing.T) {
	loop := NewLoop(1, nil)
	list := cue.NewList(nil)
	out := &mockOutput{}

	tests := []struct {
		name string
		opts Options
	}{
		{"missing loop", Options{Cues: list, Output: out}},
		{"missing cues", Options{Loop: loop, Output: out}},
		{"missing output", Options{Loop: loop, Cues: list}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() error = nil")
			}
		})
	}
}

func TestEngine_PlayFansOut(t *testing.T) {
	intro := mediaCue("intro")
	h := newEngineHarness(t, true, intro)

	if err := h.eng.Submit(context.Background(), trigger.Play(0).From(trigger.SourceOSC)); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(h.out.routed) != 1 || h.out.routed[0] != "intro" {
		t.Errorf("routed = %v, want [intro]", h.out.routed)
	}
	if len(h.repl.cueLive) != 1 || h.repl.cueLive[0] != intro.ID {
		t.Errorf("replicated = %v, want [%s]", h.repl.cueLive, intro.ID)
	}
	if len(h.pub.msgs) != 1 || h.pub.msgs[0].topic != "showcue/program/live" || !h.pub.msgs[0].retained {
		t.Errorf("mqtt = %+v, want retained showcue/program/live", h.pub.msgs)
	}
	if len(h.metrics.live) != 1 || h.metrics.live[0].Source != trigger.SourceOSC {
		t.Errorf("metrics live = %+v", h.metrics.live)
	}
	if len(h.metrics.triggers) != 1 || h.metrics.triggers[0] != "play_row/osc" {
		t.Errorf("metrics triggers = %v", h.metrics.triggers)
	}
	if len(h.journal.entries) != 1 || h.journal.entries[0].Kind != showlog.KindCueLive {
		t.Errorf("journal = %+v", h.journal.entries)
	}
	if h.hub.count(EventCueLive) != 1 {
		t.Errorf("hub cue.live broadcasts = %d, want 1", h.hub.count(EventCueLive))
	}

	st, err := h.eng.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Live == nil || st.Live.CueID != intro.ID || st.Live.Source != trigger.SourceOSC {
		t.Errorf("Status().Live = %+v", st.Live)
	}
	if st.Live.Reason != playback.ReasonPlay {
		t.Errorf("Live.Reason = %q, want play", st.Live.Reason)
	}
	if !st.FailoverEnabled || st.Cues != 1 || st.NodeID != "node-a" {
		t.Errorf("Status() = %+v", st)
	}
	if !strings.Contains(st.Message, "intro") {
		t.Errorf("Status().Message = %q", st.Message)
	}
}

func TestEngine_InvalidRow(t *testing.T) {
	h := newEngineHarness(t, true, mediaCue("only"))

	err := h.eng.Submit(context.Background(), trigger.Play(5))
	if !errors.Is(err, playback.ErrInvalidRow) {
		t.Errorf("Submit(play 5) = %v, want ErrInvalidRow", err)
	}
	if len(h.repl.cueLive) != 0 {
		t.Error("failed play should not replicate")
	}
}

func TestEngine_PreviewAndTake(t *testing.T) {
	h := newEngineHarness(t, false, mediaCue("a"), mediaCue("b"))
	ctx := context.Background()

	if err := h.eng.Submit(ctx, trigger.Preview(1)); err != nil {
		t.Fatalf("preview error = %v", err)
	}
	if err := h.eng.Submit(ctx, trigger.TakeEvent()); err != nil {
		t.Fatalf("take error = %v", err)
	}

	if len(h.out.routed) != 1 || h.out.routed[0] != "b" {
		t.Errorf("routed = %v, want [b]", h.out.routed)
	}
	st, _ := h.eng.Status(ctx)
	if st.Live == nil || st.Live.Reason != playback.ReasonTake {
		t.Errorf("Live = %+v, want take", st.Live)
	}
}

func TestEngine_DMXAndMIDIResolution(t *testing.T) {
	dmx := mediaCue("dmx")
	dmx.DMXChannel = 4
	dmx.DMXValue = 200
	note := mediaCue("note")
	note.MidiNote = 36
	h := newEngineHarness(t, false, dmx, note)
	ctx := context.Background()

	if err := h.eng.Submit(ctx, trigger.DMX(4, 100)); err != nil {
		t.Fatalf("dmx below threshold error = %v", err)
	}
	if len(h.out.routed) != 0 {
		t.Fatalf("routed = %v, want nothing below threshold", h.out.routed)
	}
	if err := h.eng.Submit(ctx, trigger.DMX(4, 210)); err != nil {
		t.Fatalf("dmx error = %v", err)
	}
	if err := h.eng.Submit(ctx, trigger.Note(36)); err != nil {
		t.Fatalf("midi error = %v", err)
	}
	if err := h.eng.Submit(ctx, trigger.Note(99)); err != nil {
		t.Errorf("unbound note should be ignored, got %v", err)
	}

	want := []string{"dmx", "note"}
	if strings.Join(h.out.routed, ",") != strings.Join(want, ",") {
		t.Errorf("routed = %v, want %v", h.out.routed, want)
	}
}

func TestEngine_Timecode(t *testing.T) {
	c := mediaCue("tc")
	c.TimecodeTrigger = "01:00:00:00"
	h := newEngineHarness(t, false, c)
	ctx := context.Background()

	if err := h.eng.Submit(ctx, trigger.TimecodeEvent("1:0:0:0")); err != nil {
		t.Fatalf("timecode error = %v", err)
	}
	if len(h.out.routed) != 1 {
		t.Errorf("routed = %v, want [tc]", h.out.routed)
	}
	if err := h.eng.Submit(ctx, trigger.TimecodeEvent("garbage")); !errors.Is(err, playback.ErrInvalidTimecode) {
		t.Errorf("bad timecode = %v, want ErrInvalidTimecode", err)
	}
}

func TestEngine_StopAll(t *testing.T) {
	h := newEngineHarness(t, true, mediaCue("a"))
	ctx := context.Background()

	if err := h.eng.Submit(ctx, trigger.Play(0)); err != nil {
		t.Fatalf("play error = %v", err)
	}
	if err := h.eng.Submit(ctx, trigger.StopAllEvent().From(trigger.SourceAPI)); err != nil {
		t.Fatalf("stop-all error = %v", err)
	}

	if h.out.stopAlls != 1 || h.repl.stopAlls != 1 {
		t.Errorf("stopAlls out=%d repl=%d, want 1/1", h.out.stopAlls, h.repl.stopAlls)
	}
	if h.hub.count(EventStopAll) != 1 {
		t.Error("stop_all not broadcast")
	}
	st, _ := h.eng.Status(ctx)
	if st.Live != nil {
		t.Errorf("Live = %+v after stop-all, want nil", st.Live)
	}
}

func TestEngine_OverlayTrimmed(t *testing.T) {
	h := newEngineHarness(t, true)

	if err := h.eng.Submit(context.Background(), trigger.Overlay("  Welcome  ")); err != nil {
		t.Fatalf("overlay error = %v", err)
	}
	if h.out.overlay != "Welcome" {
		t.Errorf("overlay = %q, want trimmed", h.out.overlay)
	}
	if len(h.repl.overlays) != 1 || h.repl.overlays[0] != "Welcome" {
		t.Errorf("replicated overlays = %v", h.repl.overlays)
	}
}

func TestEngine_UnknownEvent(t *testing.T) {
	h := newEngineHarness(t, false)
	err := h.eng.Submit(context.Background(), trigger.Event{Kind: trigger.Kind(99)})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Submit(unknown) = %v, want ErrUnknownEvent", err)
	}
}

func TestEngine_RemoteSuppression(t *testing.T) {
	a := mediaCue("a")
	h := newEngineHarness(t, true, a, mediaCue("b"))
	ctx := context.Background()

	t.Run("remote cue live is not published back", func(t *testing.T) {
		if err := h.remote(t, failover.RemoteEvent{Type: failover.TypeCueLive, CueID: a.ID}); err != nil {
			t.Fatalf("HandleRemote() error = %v", err)
		}
		if len(h.out.routed) != 1 {
			t.Fatalf("routed = %v, want remote cue played", h.out.routed)
		}
		if len(h.repl.cueLive) != 0 {
			t.Errorf("replicated = %v, want none", h.repl.cueLive)
		}
	})

	t.Run("flag is one-shot", func(t *testing.T) {
		if err := h.eng.Submit(ctx, trigger.Play(1)); err != nil {
			t.Fatalf("play error = %v", err)
		}
		if len(h.repl.cueLive) != 1 {
			t.Errorf("local play after remote should replicate, got %v", h.repl.cueLive)
		}
	})

	t.Run("failed remote cue clears flag", func(t *testing.T) {
		err := h.remote(t, failover.RemoteEvent{Type: failover.TypeCueLive, CueID: "missing"})
		if !errors.Is(err, playback.ErrCueNotFound) {
			t.Fatalf("HandleRemote(missing) = %v, want ErrCueNotFound", err)
		}
		if err := h.eng.Submit(ctx, trigger.Play(0)); err != nil {
			t.Fatalf("play error = %v", err)
		}
		if len(h.repl.cueLive) != 2 {
			t.Errorf("replicated = %v, want the local play published", h.repl.cueLive)
		}
	})

	t.Run("remote stop-all and overlay", func(t *testing.T) {
		h.remote(t, failover.RemoteEvent{Type: failover.TypeStopAll})                  //nolint:errcheck // always nil
		h.remote(t, failover.RemoteEvent{Type: failover.TypeOverlayText, Text: " x "}) //nolint:errcheck // always nil

		if h.repl.stopAlls != 0 || len(h.repl.overlays) != 0 {
			t.Errorf("remote events republished: stop=%d overlay=%v", h.repl.stopAlls, h.repl.overlays)
		}
		if h.out.overlay != "x" {
			t.Errorf("overlay = %q, want x", h.out.overlay)
		}

		h.eng.Submit(ctx, trigger.StopAllEvent()) //nolint:errcheck // always nil
		if h.repl.stopAlls != 1 {
			t.Errorf("local stop-all after remote: published %d, want 1", h.repl.stopAlls)
		}
	})

	t.Run("remote events are journaled", func(t *testing.T) {
		n := 0
		for _, e := range h.journal.entries {
			if e.Kind == showlog.KindRemote {
				n++
			}
		}
		if n != 4 {
			t.Errorf("remote journal entries = %d, want 4", n)
		}
	})

	t.Run("unknown remote type", func(t *testing.T) {
		if err := h.remote(t, failover.RemoteEvent{Type: "reboot"}); !errors.Is(err, ErrUnknownEvent) {
			t.Errorf("HandleRemote(reboot) = %v, want ErrUnknownEvent", err)
		}
	})
}

func TestEngine_FailoverDisabled(t *testing.T) {
	a := mediaCue("a")
	h := newEngineHarness(t, false, a)

	if err := h.remote(t, failover.RemoteEvent{Type: failover.TypeCueLive, CueID: a.ID}); err != nil {
		t.Fatalf("HandleRemote() error = %v", err)
	}
	if err := h.eng.Submit(context.Background(), trigger.Play(0)); err != nil {
		t.Fatalf("play error = %v", err)
	}

	var suppressed bool
	h.loop.Do(context.Background(), func() { suppressed = h.eng.suppressCue }) //nolint:errcheck // loop running
	if suppressed {
		t.Error("suppression flag left set with failover disabled")
	}
	st, _ := h.eng.Status(context.Background())
	if st.FailoverEnabled {
		t.Error("FailoverEnabled = true without a replicator")
	}
}

func TestEngine_FollowCueSource(t *testing.T) {
	first := mediaCue("first")
	first.AutoFollow = true
	first.FollowDelayMs = 5
	h := newEngineHarness(t, true, first, mediaCue("second"))

	if err := h.eng.Submit(context.Background(), trigger.Play(0).From(trigger.SourceAPI)); err != nil {
		t.Fatalf("play error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := h.eng.Status(context.Background())
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if st.Live != nil && st.Live.CueName == "second" {
			if st.Live.Source != SourceScheduler || st.Live.Reason != playback.ReasonFollow {
				t.Errorf("follow Live = %+v, want scheduler/follow", st.Live)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("follow cue never went live")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEngine_BackupFailureBecomesStatus(t *testing.T) {
	h := newEngineHarness(t, false, mediaCue("a"))
	backup := &mockBackup{sent: make(chan string, 1), err: errors.New("connection refused")}
	h.eng.backup = backup

	if err := h.eng.Submit(context.Background(), trigger.Play(0)); err != nil {
		t.Fatalf("play error = %v", err)
	}
	select {
	case <-backup.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("backup never called")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		st, _ := h.eng.Status(context.Background())
		if strings.Contains(st.Message, "Backup trigger failed") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("status = %q, want backup failure", st.Message)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEngine_ShutdownCancelsBackup(t *testing.T) {
	loop := NewLoop(8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx) //nolint:errcheck // stopped below
	defer cancel()

	backup := &mockBackup{sent: make(chan string, 1), block: true, ended: make(chan error, 1)}
	eng, err := New(Options{
		Loop:   loop,
		Cues:   cue.NewList([]cue.Cue{mediaCue("a")}),
		Output: &mockOutput{},
		Backup: backup,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := eng.Submit(context.Background(), trigger.Play(0)); err != nil {
		t.Fatalf("play error = %v", err)
	}
	select {
	case <-backup.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("backup never called")
	}

	cancel()
	select {
	case err := <-backup.ended:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("backup ended with %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("backup request outlived the loop")
	}
	<-loop.Done()
}

func TestEngine_Hotkeys(t *testing.T) {
	a := mediaCue("a")
	a.Hotkey = "Ctrl+F1"
	h := newEngineHarness(t, false, a)
	ctx := context.Background()

	if err := h.eng.TriggerHotkey(ctx, "ctrl + f1"); err != nil {
		t.Fatalf("TriggerHotkey() error = %v", err)
	}
	if len(h.out.routed) != 1 {
		t.Errorf("routed = %v, want [a]", h.out.routed)
	}
	if err := h.eng.TriggerHotkey(ctx, "F2"); !errors.Is(err, ErrUnknownHotkey) {
		t.Errorf("TriggerHotkey(F2) = %v, want ErrUnknownHotkey", err)
	}

	b := mediaCue("b")
	b.Hotkey = "F2"
	if err := h.eng.ReloadCues(ctx, []cue.Cue{b}); err != nil {
		t.Fatalf("ReloadCues() error = %v", err)
	}
	if err := h.eng.TriggerHotkey(ctx, "f2"); err != nil {
		t.Errorf("TriggerHotkey(f2) after reload = %v", err)
	}
	if len(h.eng.Cues()) != 1 {
		t.Errorf("Cues() = %d, want 1", len(h.eng.Cues()))
	}
	if h.hub.count(EventCueList) != 1 {
		t.Error("cue list reload not broadcast")
	}
}

func TestEngine_Sink(t *testing.T) {
	h := newEngineHarness(t, false, mediaCue("a"))

	h.eng.Sink().Submit(trigger.Play(0).From(trigger.SourceArtnet))
	h.sync(t)

	if len(h.out.routed) != 1 {
		t.Errorf("routed = %v, want sink event handled", h.out.routed)
	}
}

func TestEngine_SinkBatchTakesOneSlot(t *testing.T) {
	loop := NewLoop(4, nil)
	metrics := &mockMetrics{}
	eng, err := New(Options{
		Loop:    loop,
		Cues:    cue.NewList([]cue.Cue{mediaCue("a")}),
		Output:  &mockOutput{},
		Metrics: metrics,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	events := make([]trigger.Event, 300)
	for i := range events {
		events[i] = trigger.DMX(i+1, 255).From(trigger.SourceArtnet)
	}
	eng.Sink().SubmitBatch(events)
	if n := len(loop.tasks); n != 1 {
		t.Fatalf("queued tasks = %d, want 1", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx) //nolint:errcheck // stopped below
	defer func() {
		cancel()
		<-loop.Done()
	}()
	if err := loop.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(metrics.triggers) != 300 {
		t.Errorf("handled %d triggers, want 300", len(metrics.triggers))
	}
}

func TestEngine_RemoteHandler(t *testing.T) {
	a := mediaCue("a")
	h := newEngineHarness(t, true, a)

	h.eng.RemoteHandler()(failover.RemoteEvent{Type: failover.TypeCueLive, CueID: a.ID})
	h.sync(t)

	if len(h.out.routed) != 1 || len(h.repl.cueLive) != 0 {
		t.Errorf("routed=%v replicated=%v, want played and not republished", h.out.routed, h.repl.cueLive)
	}
}

func TestEngine_StopRow(t *testing.T) {
	h := newEngineHarness(t, false, mediaCue("a"))
	ctx := context.Background()

	if err := h.eng.StopRow(ctx, 0); err != nil {
		t.Errorf("StopRow(0) error = %v", err)
	}
	if err := h.eng.StopRow(ctx, 3); !errors.Is(err, playback.ErrInvalidRow) {
		t.Errorf("StopRow(3) = %v, want ErrInvalidRow", err)
	}
}
