// Package transport owns the single peer connection of a game session. One
// role listens and accepts exactly one websocket upgrade within a bounded
// wait; the other dials with a bounded timeout. Frames are websocket text
// messages, one logical game message per read/write. A dedicated goroutine
// runs the blocking read loop; sends go through a mutex-guarded writer.
package transport

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/Alex-Gorman/checkers-networking-go/internal/obslog"
)

// Errors
var (
	ErrAcceptTimeout = errf("no peer connected within the accept window")
	ErrPeerGone      = errf("peer connection lost")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// FrameHandler receives one inbound frame at a time, in arrival order.
type FrameHandler func(raw string)

// ClosedHandler fires once when the read loop stops, whether the peer quit
// gracefully or the link dropped.
type ClosedHandler func(err error)

// Conn is one established peer link.
type Conn struct {
	ws *websocket.Conn

	sendMu    sync.Mutex
	closeOnce sync.Once

	loopOnce sync.Once
}

// Host listens on addr and waits for a single peer to connect.
type Host struct {
	ln        net.Listener
	srv       *http.Server
	conns     chan *websocket.Conn
	closeOnce sync.Once
}

// NewHost opens the listening endpoint immediately so the bound address is
// known before the peer is invited. addr may use port 0.
func NewHost(addr string) (*Host, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	h := &Host{ln: ln, conns: make(chan *websocket.Conn, 1)}
	h.srv = &http.Server{Handler: http.HandlerFunc(h.upgrade)}
	go func() {
		// Serve returns once the listener closes; the accepted session
		// survives because the upgrade hijacks its TCP connection.
		_ = h.srv.Serve(ln)
	}()
	return h, nil
}

func (h *Host) upgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		obslog.L().Warn("upgrade rejected", zap.Error(err))
		return
	}
	select {
	case h.conns <- ws:
	default:
		// One session per host; late joiners are turned away.
		_ = ws.Close(websocket.StatusPolicyViolation, "session full")
	}
}

// Addr returns the bound listen address.
func (h *Host) Addr() string { return h.ln.Addr().String() }

// Accept waits up to wait for one peer. On success the listener stops taking
// further connections. Failing the window returns ErrAcceptTimeout with no
// connection made.
func (h *Host) Accept(ctx context.Context, wait time.Duration) (*Conn, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ws := <-h.conns:
		h.Close()
		obslog.L().Info("peer accepted", zap.String("addr", h.Addr()))
		return &Conn{ws: ws}, nil
	case <-timer.C:
		h.Close()
		return nil, ErrAcceptTimeout
	case <-ctx.Done():
		h.Close()
		return nil, ctx.Err()
	}
}

// Close stops listening. Safe to call more than once; an already accepted
// connection is unaffected.
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		_ = h.srv.Close()
	})
}

// Join dials the host's websocket endpoint with a bounded timeout.
func Join(ctx context.Context, url string, timeout time.Duration) (*Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ws, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("joined host", zap.String("url", url))
	return &Conn{ws: ws}, nil
}

// Listen starts the background read loop. Each text frame goes to onFrame;
// the first read failure stops the loop and fires onClosed exactly once.
// Graceful peer closure and abrupt loss take the same path.
func (c *Conn) Listen(onFrame FrameHandler, onClosed ClosedHandler) {
	c.loopOnce.Do(func() {
		go func() {
			for {
				typ, data, err := c.ws.Read(context.Background())
				if err != nil {
					obslog.L().Info("read loop ended", zap.Error(err))
					onClosed(ErrPeerGone)
					return
				}
				if typ != websocket.MessageText {
					continue
				}
				onFrame(string(data))
			}
		}()
	})
}

// Send writes one text frame. Concurrent senders are serialized; the session
// treats failures as best-effort and relies on the read loop for disconnect
// detection.
func (c *Conn) Send(ctx context.Context, text string) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.ws.Write(ctx, websocket.MessageText, []byte(text))
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.ws.Close(websocket.StatusNormalClosure, "session over")
	})
	return err
}
