// Package game holds the turn/session state machine that arbitrates the two
// players. All board and turn mutations, whether driven by a local selection
// or by an inbound frame from the peer's read loop, funnel through one mutex
// so partial moves can never interleave. Observers are notified right after a
// mutation completes, on the mutating goroutine, in registration order.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Alex-Gorman/checkers-networking-go/internal/board"
	"github.com/Alex-Gorman/checkers-networking-go/internal/obslog"
	"github.com/Alex-Gorman/checkers-networking-go/internal/rules"
	"github.com/Alex-Gorman/checkers-networking-go/internal/wire"
	"github.com/Alex-Gorman/checkers-networking-go/pkg/gamedto"
)

// TurnState is the sub-state within a turn.
type TurnState string

const (
	// AwaitingFirstSelection: local turn, no piece chosen, no capture forced.
	AwaitingFirstSelection TurnState = "AWAITING_FIRST_SELECTION"
	// AwaitingDestination: a piece is selected; the next click picks a cell.
	AwaitingDestination TurnState = "AWAITING_DESTINATION"
	// OpponentTurn: the board accepts no local selections.
	OpponentTurn TurnState = "OPPONENT_TURN"
	// ForcedCaptureAvailable: only pieces with captures may be selected.
	ForcedCaptureAvailable TurnState = "FORCED_CAPTURE_AVAILABLE"
	// ContinuingCaptureChain: the piece that just captured must capture again.
	ContinuingCaptureChain TurnState = "CONTINUING_CAPTURE_CHAIN"
)

const sendTimeout = 5 * time.Second

// Sender is the outbound half of the session transport.
type Sender interface {
	Send(ctx context.Context, text string) error
	Close() error
}

// Config wires a new session.
type Config struct {
	// Creator is true for the hosting side, which moves first.
	Creator   bool
	LocalName string
	Out       Sender
}

// Session is the authoritative state of one game between two peers.
type Session struct {
	ID      string
	creator bool

	mu      sync.Mutex
	board   *board.Board
	engine  *rules.Engine
	state   TurnState
	pending signal
	closed  bool

	// Transient selection state, cleared on every turn transition.
	selected    *board.Piece
	dests       []rules.Square
	mustCapture []*board.Piece

	move wire.MoveBuilder

	localName  string
	peerName   string
	localScore int
	peerScore  int
	chat       []string

	out Sender
	bus *Bus
}

func NewSession(cfg Config) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		creator:   cfg.Creator,
		board:     board.NewGame(),
		localName: cfg.LocalName,
		out:       cfg.Out,
		bus:       NewBus(),
	}
	s.engine = rules.New(s.board)
	if s.creator {
		s.localName = defaultName(s.localName, "Player 1")
		s.peerName = "Player 2"
		s.state = AwaitingFirstSelection
	} else {
		s.localName = defaultName(s.localName, "Player 2")
		s.peerName = "Player 1"
		s.state = OpponentTurn
	}
	obslog.L().Info("session created",
		zap.String("session_id", s.ID),
		zap.Bool("creator", s.creator),
		zap.String("player", s.localName))
	return s
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Bus returns the notification bus observers register on.
func (s *Session) Bus() *Bus { return s.bus }

// ApplyLocalSelection feeds one board click from the local player into the
// state machine. Illegal selections are no-ops that at most reset the
// selection; they never produce an outbound message.
func (s *Session) ApplyLocalSelection(row, col int) {
	s.mu.Lock()
	s.applySelectionLocked(row, col)
	sig := s.drainLocked()
	s.mu.Unlock()
	s.bus.publish(sig)
}

// SendChat appends the line to the local log and transmits it to the peer.
func (s *Session) SendChat(text string) {
	s.mu.Lock()
	if !s.closed {
		s.chat = append(s.chat, s.localName+": "+text)
		s.sendLocked(wire.EncodeChat(s.localName, text))
		s.mark(sigChat)
	}
	sig := s.drainLocked()
	s.mu.Unlock()
	s.bus.publish(sig)
}

// SendHandshake announces the local display name to the peer.
func (s *Session) SendHandshake() {
	s.mu.Lock()
	if !s.closed {
		s.sendLocked(wire.EncodeHandshake(s.localName))
	}
	s.mu.Unlock()
}

// QuitSession tells the peer the session is over, then tears down.
func (s *Session) QuitSession() {
	s.mu.Lock()
	if !s.closed {
		s.sendLocked(wire.QuitSentinel)
		s.terminateLocked("local quit")
	}
	sig := s.drainLocked()
	s.mu.Unlock()
	s.bus.publish(sig)
}

// HandleInboundFrame dispatches one raw frame from the transport read loop.
func (s *Session) HandleInboundFrame(raw string) {
	s.mu.Lock()
	s.handleInboundLocked(raw)
	sig := s.drainLocked()
	s.mu.Unlock()
	s.bus.publish(sig)
}

// HandleDisconnect is the transport's closed callback. Graceful quit and
// abrupt loss end up here on the same path.
func (s *Session) HandleDisconnect(err error) {
	s.mu.Lock()
	if !s.closed {
		obslog.L().Info("peer connection lost", zap.String("session_id", s.ID), zap.Error(err))
		s.terminateLocked("connection lost")
	}
	sig := s.drainLocked()
	s.mu.Unlock()
	s.bus.publish(sig)
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// State returns the current turn state.
func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BoardSnapshot renders the board, selection highlights and turn state.
func (s *Session) BoardSnapshot() gamedto.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := gamedto.BoardView{SessionID: s.ID, State: string(s.state)}
	for _, p := range s.board.Pieces(board.South) {
		view.Pieces = append(view.Pieces, gamedto.PieceView{Row: p.Row, Col: p.Col, King: p.King, Mine: true})
	}
	for _, p := range s.board.Pieces(board.North) {
		view.Pieces = append(view.Pieces, gamedto.PieceView{Row: p.Row, Col: p.Col, King: p.King})
	}
	for _, d := range s.dests {
		view.Destinations = append(view.Destinations, gamedto.SquareView{Row: d.Row, Col: d.Col})
	}
	for _, p := range s.mustCapture {
		view.MustCapture = append(view.MustCapture, gamedto.SquareView{Row: p.Row, Col: p.Col})
	}
	return view
}

// ScoreSnapshot returns names and cumulative scores.
func (s *Session) ScoreSnapshot() gamedto.ScoreView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gamedto.ScoreView{
		LocalName:  s.localName,
		PeerName:   s.peerName,
		LocalScore: s.localScore,
		PeerScore:  s.peerScore,
	}
}

// ChatSnapshot returns a copy of the chat log.
func (s *Session) ChatSnapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.chat))
	copy(out, s.chat)
	return out
}

func (s *Session) mark(sig signal) { s.pending |= sig }

func (s *Session) drainLocked() signal {
	sig := s.pending
	s.pending = 0
	return sig
}

func (s *Session) applySelectionLocked(row, col int) {
	if s.closed || !board.InRange(row, col) {
		return
	}
	switch s.state {
	case OpponentTurn:
		// Not our turn; the click is dropped.
		return

	case AwaitingFirstSelection:
		p := s.board.At(row, col)
		if p == nil || p.Side != board.South {
			return
		}
		dests := s.engine.SimpleMoves(p)
		if len(dests) == 0 {
			return
		}
		s.selected, s.dests = p, dests
		s.state = AwaitingDestination
		s.mark(sigBoard)

	case ForcedCaptureAvailable:
		p := s.board.At(row, col)
		if p == nil || !s.isMustCapture(p) {
			return
		}
		s.selected = p
		s.dests = s.engine.CapturesFrom(p)
		s.state = AwaitingDestination
		s.mark(sigBoard)

	case AwaitingDestination:
		if s.isDestination(row, col) {
			s.executeMoveLocked(rules.Square{Row: row, Col: col})
			return
		}
		// Illegal destination: drop the selection, back to piece choice.
		s.selected, s.dests = nil, nil
		if len(s.mustCapture) > 0 {
			s.state = ForcedCaptureAvailable
		} else {
			s.state = AwaitingFirstSelection
		}
		s.mark(sigBoard)

	case ContinuingCaptureChain:
		// Mid-chain the piece cannot be swapped; only a continuation lands.
		if s.isDestination(row, col) {
			s.executeMoveLocked(rules.Square{Row: row, Col: col})
		}
	}
}

func (s *Session) isDestination(row, col int) bool {
	for _, d := range s.dests {
		if d.Row == row && d.Col == col {
			return true
		}
	}
	return false
}

func (s *Session) isMustCapture(p *board.Piece) bool {
	for _, q := range s.mustCapture {
		if q == p {
			return true
		}
	}
	return false
}

func (s *Session) executeMoveLocked(dest rules.Square) {
	p := s.selected
	s.move.Add(p.Row, p.Col, dest.Row, dest.Col)
	res := s.engine.Apply(p, dest)
	s.mark(sigBoard)
	obslog.L().Debug("local move applied",
		zap.String("session_id", s.ID),
		zap.Int("row", dest.Row), zap.Int("col", dest.Col),
		zap.Bool("capture", res.Captured != nil),
		zap.Bool("promoted", res.Promoted))

	if res.Captured != nil {
		if cont := s.engine.CapturesFrom(p); len(cont) > 0 {
			// The chain must continue with this piece.
			s.dests = cont
			s.mustCapture = []*board.Piece{p}
			s.state = ContinuingCaptureChain
			return
		}
	}
	s.endTurnLocked()
}

// endTurnLocked transmits the accumulated move and hands the turn over. A
// move that eliminated the last opponent piece still goes out so the peer
// reaches the same conclusion; then the board resets for the next game.
func (s *Session) endTurnLocked() {
	payload := s.move.String()
	s.move.Reset()
	s.selected, s.dests, s.mustCapture = nil, nil, nil

	if s.engine.GameOver() {
		s.localScore++
		s.mark(sigScore)
		obslog.L().Info("game won",
			zap.String("session_id", s.ID),
			zap.Int("local_score", s.localScore))
		s.resetGameLocked()
	} else {
		s.state = OpponentTurn
	}
	s.mark(sigBoard)
	s.sendLocked(payload)
}

// resetGameLocked restores the 24-piece arrangement. Scores persist; the
// creating side moves first in every new game.
func (s *Session) resetGameLocked() {
	s.board.Reset()
	s.selected, s.dests, s.mustCapture = nil, nil, nil
	s.move.Reset()
	if s.creator {
		s.state = AwaitingFirstSelection
	} else {
		s.state = OpponentTurn
	}
}

// beginTurnLocked opens the local turn after the peer moved: if any capture
// is available the player must take one, so piece selection is restricted to
// the capturing pieces.
func (s *Session) beginTurnLocked() {
	s.selected, s.dests = nil, nil
	caps := s.engine.Captures(board.South)
	if len(caps) == 0 {
		s.mustCapture = nil
		s.state = AwaitingFirstSelection
		return
	}
	s.mustCapture = s.mustCapture[:0]
	for _, c := range caps {
		if !s.isMustCapture(c.Piece) {
			s.mustCapture = append(s.mustCapture, c.Piece)
		}
	}
	s.state = ForcedCaptureAvailable
}

func (s *Session) handleInboundLocked(raw string) {
	if s.closed {
		return
	}
	msg, err := wire.Decode(raw)
	if err != nil {
		// A frame we cannot trust means the boards may already disagree;
		// ending the session beats playing on divergent state.
		obslog.L().Warn("malformed frame, disconnecting",
			zap.String("session_id", s.ID), zap.Error(err))
		s.terminateLocked("malformed frame")
		return
	}
	switch msg.Kind {
	case wire.KindQuit:
		s.terminateLocked("peer quit")
	case wire.KindChat:
		s.chat = append(s.chat, msg.Text)
		s.mark(sigChat)
	case wire.KindHandshake:
		s.peerName = msg.Text
		s.mark(sigScore)
	case wire.KindMove, wire.KindMoveChain:
		s.applyInboundMoveLocked(msg.Segments)
	}
}

// applyInboundMoveLocked replays the peer's turn segment by segment through
// the same rule engine a local move uses, then flips the turn state.
func (s *Session) applyInboundMoveLocked(segs []wire.Segment) {
	for _, seg := range segs {
		p := s.board.At(seg.FromRow, seg.FromCol)
		if p == nil || p.Side != board.North || s.board.Occupied(seg.ToRow, seg.ToCol) {
			obslog.L().Warn("inbound move does not fit the board, disconnecting",
				zap.String("session_id", s.ID),
				zap.Int("from_row", seg.FromRow), zap.Int("from_col", seg.FromCol))
			s.terminateLocked("divergent move")
			return
		}
		s.engine.Apply(p, rules.Square{Row: seg.ToRow, Col: seg.ToCol})
	}
	s.mark(sigBoard)

	if s.engine.GameOver() {
		s.peerScore++
		s.mark(sigScore)
		obslog.L().Info("game lost",
			zap.String("session_id", s.ID),
			zap.Int("peer_score", s.peerScore))
		s.resetGameLocked()
		return
	}
	s.beginTurnLocked()
}

// sendLocked is fire and forget: a failed write is logged and dropped, the
// read loop's failure is the authoritative disconnect signal.
func (s *Session) sendLocked(text string) {
	if s.out == nil || text == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := s.out.Send(ctx, text); err != nil {
		obslog.L().Warn("send failed", zap.String("session_id", s.ID), zap.Error(err))
	}
}

func (s *Session) terminateLocked(reason string) {
	if s.closed {
		return
	}
	s.closed = true
	if s.out != nil {
		_ = s.out.Close()
	}
	s.mark(sigMenu)
	obslog.L().Info("session ended",
		zap.String("session_id", s.ID), zap.String("reason", reason))
}
