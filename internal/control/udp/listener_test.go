package udp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func dial(t *testing.T, port int) net.Conn {
	t.Helper()
	conn, err := net.Dial("udp", (&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}).String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestListener_ReceivesDatagrams(t *testing.T) {
	got := make(chan []byte, 1)
	l := NewListener("test", nil)
	if err := l.Start(context.Background(), 0, func(data []byte, _ net.Addr) {
		got <- data
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	if !l.Running() || l.Port() == 0 {
		t.Fatalf("listener should be running on an ephemeral port, port=%d", l.Port())
	}

	if _, err := dial(t, l.Port()).Write([]byte("take")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case data := <-got:
		if string(data) != "take" {
			t.Errorf("received %q, want take", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for datagram")
	}
	if l.Received() != 1 {
		t.Errorf("Received() = %d, want 1", l.Received())
	}
}

func TestListener_BindConflict(t *testing.T) {
	first := NewListener("first", nil)
	if err := first.Start(context.Background(), 0, func([]byte, net.Addr) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second := NewListener("second", nil)
	err := second.Start(context.Background(), first.Port(), func([]byte, net.Addr) {})
	if err == nil {
		second.Stop()
		t.Fatal("second bind on the same port should fail")
	}
	if second.Running() {
		t.Error("failed listener must stay stopped")
	}
}

func TestListener_StopIsIdempotent(t *testing.T) {
	l := NewListener("test", nil)
	l.Stop()
	if err := l.Start(context.Background(), 0, func([]byte, net.Addr) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l.Stop()
	l.Stop()
	if l.Running() || l.Port() != 0 {
		t.Error("listener should be stopped")
	}
	if err := l.WriteTo([]byte("x"), &net.UDPAddr{}); !errors.Is(err, ErrNotRunning) {
		t.Errorf("WriteTo after Stop = %v, want ErrNotRunning", err)
	}
}

func TestListener_InvalidInput(t *testing.T) {
	l := NewListener("test", nil)
	if err := l.Start(context.Background(), 70000, func([]byte, net.Addr) {}); !errors.Is(err, ErrInvalidPort) {
		t.Errorf("Start(70000) = %v, want ErrInvalidPort", err)
	}
	if err := l.Start(context.Background(), 0, nil); err == nil {
		t.Error("Start with nil handler should fail")
	}
}
