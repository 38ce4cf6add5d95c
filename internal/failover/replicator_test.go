package failover

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/showcue-core/internal/cue"
)

const testKey = "show-secret"

// ─── Mock Dependencies ──────────────────────────────────────────────────────

type remoteRecorder struct {
	mu     sync.Mutex
	events []RemoteEvent
}

func (r *remoteRecorder) handle(e RemoteEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *remoteRecorder) snapshot() []RemoteEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RemoteEvent(nil), r.events...)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// capturePeer starts a replicator whose peer is a raw socket and returns the
// bytes of the next datagram it publishes.
func capturePeer(t *testing.T) (*Replicator, func() []byte) {
	t.Helper()

	sink, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	t.Cleanup(func() { sink.Close() })

	r := New(Options{})
	if err := r.Start(context.Background(), 0, testKey); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(r.Stop)

	port := sink.LocalAddr().(*net.UDPAddr).Port
	if err := r.SetPeer(context.Background(), "127.0.0.1", port); err != nil {
		t.Fatalf("SetPeer: %v", err)
	}

	next := func() []byte {
		t.Helper()
		buf := make([]byte, 65535)
		_ = sink.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := sink.ReadFrom(buf)
		if err != nil {
			t.Fatalf("ReadFrom: %v", err)
		}
		return buf[:n]
	}
	return r, next
}

func newReceiver(t *testing.T) (*Replicator, *remoteRecorder) {
	t.Helper()
	rec := &remoteRecorder{}
	r := New(Options{Handler: rec.handle})
	if err := r.Start(context.Background(), 0, testKey); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(r.Stop)
	return r, rec
}

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestStart_RequiresKey(t *testing.T) {
	r := New(Options{})
	err := r.Start(context.Background(), 0, "   ")
	if !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("Start() error = %v, want ErrEmptyKey", err)
	}
	if r.IsRunning() {
		t.Error("IsRunning() = true after failed start")
	}
}

func TestStart_PortInUse(t *testing.T) {
	taken, err := net.ListenPacket("udp", ":0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer taken.Close()

	r := New(Options{})
	port := taken.LocalAddr().(*net.UDPAddr).Port
	if err := r.Start(context.Background(), port, testKey); err == nil {
		r.Stop()
		t.Fatal("Start() on a bound port should fail")
	}
}

func TestSetPeer(t *testing.T) {
	r := New(Options{})

	if err := r.SetPeer(context.Background(), "127.0.0.1", 9101); err != nil {
		t.Fatalf("SetPeer(literal) error = %v", err)
	}
	if r.Peer() == nil || r.Peer().String() != "127.0.0.1:9101" {
		t.Errorf("Peer() = %v, want 127.0.0.1:9101", r.Peer())
	}

	if err := r.SetPeer(context.Background(), "10.0.0.2", 0); !errors.Is(err, ErrInvalidPeerPort) {
		t.Errorf("SetPeer(port 0) error = %v, want ErrInvalidPeerPort", err)
	}
	if r.Peer() != nil {
		t.Error("failed SetPeer should clear the peer")
	}

	err := r.SetPeer(context.Background(), "no-such-host.invalid", 9101)
	if !errors.Is(err, ErrPeerUnresolved) {
		t.Errorf("SetPeer(unresolvable) error = %v, want ErrPeerUnresolved", err)
	}
}

func TestPublish_NoopWithoutPeerOrSocket(t *testing.T) {
	r := New(Options{})
	if err := r.PublishStopAll(); err != nil {
		t.Errorf("Publish while stopped = %v, want nil", err)
	}
	if err := r.Start(context.Background(), 0, testKey); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop()
	if err := r.PublishStopAll(); err != nil {
		t.Errorf("Publish without peer = %v, want nil", err)
	}
}

func TestReplication_EndToEnd(t *testing.T) {
	receiver, rec := newReceiver(t)

	sender := New(Options{})
	if err := sender.Start(context.Background(), 0, testKey); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sender.Stop()
	if err := sender.SetPeer(context.Background(), "127.0.0.1", receiver.Port()); err != nil {
		t.Fatalf("SetPeer: %v", err)
	}

	c := cue.New("Opener")
	c.TargetScreen = 2
	if err := sender.PublishCueLive(c); err != nil {
		t.Fatalf("PublishCueLive: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	events := rec.snapshot()
	if len(events) != 1 {
		t.Fatalf("received %d events, want 1", len(events))
	}
	if events[0].Type != TypeCueLive || events[0].CueID != c.ID {
		t.Errorf("event = %+v, want cue_live %s", events[0], c.ID)
	}
}

func TestHandleDatagram_OwnEchoIgnored(t *testing.T) {
	sender, next := capturePeer(t)

	rec := &remoteRecorder{}
	sender.handler = rec.handle

	if err := sender.PublishOverlayText("hello"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	data := next()

	if sender.HandleDatagram(data) {
		t.Error("own echo was accepted")
	}
	if len(rec.snapshot()) != 0 {
		t.Errorf("handler called for own echo: %+v", rec.snapshot())
	}
}

func TestHandleDatagram_DuplicateDeliveredOnce(t *testing.T) {
	sender, next := capturePeer(t)
	receiver, rec := newReceiver(t)

	if err := sender.PublishOverlayText("welcome"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	data := next()

	if !receiver.HandleDatagram(data) {
		t.Fatal("first delivery rejected")
	}
	if receiver.HandleDatagram(data) {
		t.Error("duplicate delivery accepted")
	}

	events := rec.snapshot()
	if len(events) != 1 || events[0].Type != TypeOverlayText || events[0].Text != "welcome" {
		t.Errorf("events = %+v, want one overlay_text(welcome)", events)
	}
}

func TestHandleDatagram_TamperedPayloadRejected(t *testing.T) {
	sender, next := capturePeer(t)
	receiver, rec := newReceiver(t)

	if err := sender.PublishOverlayText("welcome"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	data := next()

	tampered := bytes.Replace(data, []byte("welcome"), []byte("welcomf"), 1)
	if bytes.Equal(tampered, data) {
		t.Fatal("payload text not found in datagram")
	}
	if receiver.HandleDatagram(tampered) {
		t.Error("tampered envelope accepted")
	}
	if len(rec.snapshot()) != 0 {
		t.Errorf("handler called for tampered envelope")
	}

	// The genuine envelope is still accepted: a forged copy must not burn
	// the event id.
	if !receiver.HandleDatagram(data) {
		t.Error("genuine envelope rejected after forgery")
	}
}

func TestHandleDatagram_WrongKeyRejected(t *testing.T) {
	sender, next := capturePeer(t)

	other := New(Options{})
	if err := other.Start(context.Background(), 0, "different"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer other.Stop()

	if err := sender.PublishStopAll(); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if other.HandleDatagram(next()) {
		t.Error("envelope signed with another key accepted")
	}
}

func TestHandleDatagram_Malformed(t *testing.T) {
	r, rec := newReceiver(t)

	tests := []struct {
		name string
		data string
	}{
		{"not json", "play 1"},
		{"json array", "[1,2]"},
		{"missing auth", `{"eventId":"a","source":"b","type":"stop_all"}`},
		{"missing event id", `{"source":"b","type":"stop_all","auth":"00"}`},
		{"bad hex auth", `{"eventId":"a","source":"b","type":"stop_all","auth":"zz"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r.HandleDatagram([]byte(tt.data)) {
				t.Error("malformed datagram accepted")
			}
		})
	}
	if len(rec.snapshot()) != 0 {
		t.Errorf("handler called for malformed input")
	}
}

func TestRecentSet_Bounded(t *testing.T) {
	s := newRecentSet(3)
	for i := 0; i < 5; i++ {
		s.remember(strconv.Itoa(i))
	}
	s.remember("4")

	if s.len() != 3 {
		t.Fatalf("len = %d, want 3", s.len())
	}
	for _, id := range []string{"0", "1"} {
		if s.seen(id) {
			t.Errorf("evicted id %s still seen", id)
		}
	}
	for _, id := range []string{"2", "3", "4"} {
		if !s.seen(id) {
			t.Errorf("recent id %s not seen", id)
		}
	}
}

func TestComputeAuth_Deterministic(t *testing.T) {
	payload := map[string]any{"b": 1, "a": "x"}
	first, err := computeAuth([]byte("k"), "id", TypeCueLive, payload)
	if err != nil {
		t.Fatalf("computeAuth: %v", err)
	}
	second, _ := computeAuth([]byte("k"), "id", TypeCueLive, map[string]any{"a": "x", "b": 1})
	if first != second {
		t.Error("auth depends on map construction order")
	}
	third, _ := computeAuth([]byte("k"), "id", TypeStopAll, payload)
	if first == third {
		t.Error("auth does not cover the event type")
	}
	if len(first) != 64 {
		t.Errorf("auth length = %d, want 64 hex chars", len(first))
	}
}
