// Package wire translates game events to and from the framed text messages
// exchanged between the two peers. Each frame is one of:
//
//	"%"                     quit / end session
//	"*<name>: <text>"       chat line
//	"@<name>"               handshake (display name)
//	"r,c,r,c"               single move
//	"r,c,r,c+r,c,r,c..."    capture chain, '+'-separated segments
//
// Outbound move coordinates are mirrored (7-row, 7-col) so each side's forward
// direction lines up on the wire; inbound coordinates are applied literally to
// the receiver's opponent pieces. Preserve that asymmetry or the boards drift.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Alex-Gorman/checkers-networking-go/internal/board"
)

const (
	QuitSentinel    = "%"
	chatPrefix      = '*'
	handshakePrefix = '@'
	chainSeparator  = "+"

	// A single move segment is at most 8 characters ("r,c,r,c"); anything
	// longer is a chain.
	maxSingleMoveLen = 8
)

// Kind classifies an inbound frame.
type Kind string

const (
	KindQuit      Kind = "quit"
	KindChat      Kind = "chat"
	KindHandshake Kind = "handshake"
	KindMove      Kind = "move"
	KindMoveChain Kind = "move_chain"
)

// Segment is one decoded move leg in the receiver's board coordinates.
type Segment struct {
	FromRow int
	FromCol int
	ToRow   int
	ToCol   int
}

// Message is a decoded inbound frame. Text carries the chat line or handshake
// name with its sentinel stripped; Segments carries move legs in order.
type Message struct {
	Kind     Kind
	Text     string
	Segments []Segment
}

// Errors
var (
	ErrEmptyFrame = errf("empty frame")
	ErrBadFrame   = errf("malformed frame")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// Classify routes a raw frame by its first byte and length.
func Classify(raw string) (Kind, error) {
	if raw == "" {
		return "", ErrEmptyFrame
	}
	switch {
	case raw == QuitSentinel:
		return KindQuit, nil
	case raw[0] == chatPrefix:
		return KindChat, nil
	case raw[0] == handshakePrefix:
		return KindHandshake, nil
	case len(raw) > maxSingleMoveLen:
		return KindMoveChain, nil
	default:
		return KindMove, nil
	}
}

// Decode parses a raw frame into a Message. Move payloads that fail integer
// parsing, have the wrong segment arity, or carry out-of-range coordinates
// return ErrBadFrame.
func Decode(raw string) (*Message, error) {
	kind, err := Classify(raw)
	if err != nil {
		return nil, err
	}
	msg := &Message{Kind: kind}
	switch kind {
	case KindQuit:
	case KindChat, KindHandshake:
		msg.Text = raw[1:]
	case KindMove:
		seg, err := decodeSegment(raw)
		if err != nil {
			return nil, err
		}
		msg.Segments = []Segment{seg}
	case KindMoveChain:
		for _, part := range strings.Split(raw, chainSeparator) {
			seg, err := decodeSegment(part)
			if err != nil {
				return nil, err
			}
			msg.Segments = append(msg.Segments, seg)
		}
	}
	return msg, nil
}

func decodeSegment(s string) (Segment, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Segment{}, fmt.Errorf("%w: segment %q", ErrBadFrame, s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Segment{}, fmt.Errorf("%w: segment %q", ErrBadFrame, s)
		}
		vals[i] = n
	}
	seg := Segment{FromRow: vals[0], FromCol: vals[1], ToRow: vals[2], ToCol: vals[3]}
	if !board.InRange(seg.FromRow, seg.FromCol) || !board.InRange(seg.ToRow, seg.ToCol) {
		return Segment{}, fmt.Errorf("%w: segment %q out of range", ErrBadFrame, s)
	}
	return seg, nil
}

// MoveBuilder accumulates the outbound payload for one turn. Every appended
// leg is mirrored (7-coordinate); chained legs are joined with '+'.
type MoveBuilder struct {
	parts []string
}

// Add appends one leg in local board coordinates.
func (mb *MoveBuilder) Add(fromRow, fromCol, toRow, toCol int) {
	mirror := board.Size - 1
	mb.parts = append(mb.parts, fmt.Sprintf("%d,%d,%d,%d",
		mirror-fromRow, mirror-fromCol, mirror-toRow, mirror-toCol))
}

// Empty reports whether no leg has been added since the last Reset.
func (mb *MoveBuilder) Empty() bool { return len(mb.parts) == 0 }

// String renders the accumulated payload.
func (mb *MoveBuilder) String() string { return strings.Join(mb.parts, chainSeparator) }

// Reset clears the builder for the next turn.
func (mb *MoveBuilder) Reset() { mb.parts = mb.parts[:0] }

// EncodeChat frames an outbound chat line.
func EncodeChat(sender, text string) string {
	return string(chatPrefix) + sender + ": " + text
}

// EncodeHandshake frames the display-name handshake.
func EncodeHandshake(name string) string {
	return string(handshakePrefix) + name
}
