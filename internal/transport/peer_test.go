package transport

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newPair(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	h, err := NewHost("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	t.Cleanup(h.Close)

	type joined struct {
		conn *Conn
		err  error
	}
	joinCh := make(chan joined, 1)
	go func() {
		c, err := Join(context.Background(), "ws://"+h.Addr(), 5*time.Second)
		joinCh <- joined{c, err}
	}()

	hostConn, err := h.Accept(context.Background(), 5*time.Second)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	j := <-joinCh
	if j.err != nil {
		t.Fatalf("Join: %v", j.err)
	}
	t.Cleanup(func() {
		_ = hostConn.Close()
		_ = j.conn.Close()
	})
	return hostConn, j.conn
}

func TestExchangeFramesBothDirections(t *testing.T) {
	hostConn, clientConn := newPair(t)
	ctx := context.Background()

	hostFrames := make(chan string, 4)
	clientFrames := make(chan string, 4)
	hostConn.Listen(func(raw string) { hostFrames <- raw }, func(error) {})
	clientConn.Listen(func(raw string) { clientFrames <- raw }, func(error) {})

	if err := hostConn.Send(ctx, "@Player 1"); err != nil {
		t.Fatalf("host Send: %v", err)
	}
	if err := clientConn.Send(ctx, "2,7,3,6"); err != nil {
		t.Fatalf("client Send: %v", err)
	}

	select {
	case got := <-clientFrames:
		if got != "@Player 1" {
			t.Fatalf("client received %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client never received the handshake frame")
	}
	select {
	case got := <-hostFrames:
		if got != "2,7,3,6" {
			t.Fatalf("host received %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("host never received the move frame")
	}
}

func TestPeerCloseStopsReadLoop(t *testing.T) {
	hostConn, clientConn := newPair(t)

	closed := make(chan error, 1)
	hostConn.Listen(func(string) {}, func(err error) { closed <- err })

	_ = clientConn.Close()

	select {
	case err := <-closed:
		if !errors.Is(err, ErrPeerGone) {
			t.Fatalf("closed handler err = %v, want ErrPeerGone", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("closed handler never fired after peer closed")
	}
}

func TestAcceptTimesOutCleanly(t *testing.T) {
	h, err := NewHost("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	start := time.Now()
	conn, err := h.Accept(context.Background(), 100*time.Millisecond)
	if conn != nil || !errors.Is(err, ErrAcceptTimeout) {
		t.Fatalf("Accept = %v, %v; want nil, ErrAcceptTimeout", conn, err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatal("Accept did not return promptly after the window")
	}
}
