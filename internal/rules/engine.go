// Package rules computes legal moves and captures for the two-player 8x8
// checkers variant and applies them to a board. Non-king pieces step and
// capture only toward the opponent's back rank; kings use all four diagonals.
// If any capture exists for the side to move, simple moves are illegal, and a
// started capture chain must be continued by the same piece until no further
// capture exists from its square.
package rules

import "github.com/Alex-Gorman/checkers-networking-go/internal/board"

// Square is one board cell coordinate.
type Square struct {
	Row int
	Col int
}

// Capture pairs a piece that can capture with one landing square. A piece
// with several capture directions yields several Capture entries.
type Capture struct {
	Piece   *board.Piece
	Landing Square
}

// Applied describes what Apply did.
type Applied struct {
	Captured *board.Piece // the removed midpoint piece, nil for a simple move
	Promoted bool
}

// Engine evaluates and mutates a single board.
type Engine struct {
	b *board.Board
}

func New(b *board.Board) *Engine { return &Engine{b: b} }

// Board returns the board this engine operates on.
func (e *Engine) Board() *board.Board { return e.b }

// directions returns the diagonal row deltas a piece may use: the side's
// forward direction only for non-kings, both for kings.
func directions(p *board.Piece) []int {
	if p.King {
		return []int{-1, 1}
	}
	return []int{p.Side.Forward()}
}

// SimpleMoves returns the empty diagonal step destinations for p.
func (e *Engine) SimpleMoves(p *board.Piece) []Square {
	var out []Square
	for _, dr := range directions(p) {
		for _, dc := range []int{-1, 1} {
			r, c := p.Row+dr, p.Col+dc
			if board.InRange(r, c) && !e.b.Occupied(r, c) {
				out = append(out, Square{r, c})
			}
		}
	}
	return out
}

// CapturesFrom returns the capture landing squares available to p from its
// current square.
func (e *Engine) CapturesFrom(p *board.Piece) []Square {
	var out []Square
	opp := p.Side.Opponent()
	for _, dr := range directions(p) {
		for _, dc := range []int{-1, 1} {
			mr, mc := p.Row+dr, p.Col+dc
			lr, lc := p.Row+2*dr, p.Col+2*dc
			if !board.InRange(lr, lc) {
				continue
			}
			if e.b.OccupiedBy(mr, mc, opp) && !e.b.Occupied(lr, lc) {
				out = append(out, Square{lr, lc})
			}
		}
	}
	return out
}

// Captures returns every capture available to side s, across all its pieces.
// Re-run after every applied capture: chains open and close as the board
// changes.
func (e *Engine) Captures(s board.Side) []Capture {
	var out []Capture
	for _, p := range e.b.Pieces(s) {
		for _, sq := range e.CapturesFrom(p) {
			out = append(out, Capture{Piece: p, Landing: sq})
		}
	}
	return out
}

// Apply relocates p to dest. A displacement of two rows or columns is a
// capture: the opponent piece on the cell strictly between origin and dest is
// removed. A piece landing on its crown row is promoted immediately, mid-chain
// included. Apply does not judge legality; callers gate moves through
// SimpleMoves/Captures first.
func (e *Engine) Apply(p *board.Piece, dest Square) Applied {
	var res Applied
	if abs(dest.Row-p.Row) >= 2 || abs(dest.Col-p.Col) >= 2 {
		midRow := (p.Row + dest.Row) / 2
		midCol := (p.Col + dest.Col) / 2
		res.Captured = e.b.Remove(midRow, midCol)
	}
	e.b.MovePiece(p, dest.Row, dest.Col)
	if !p.King && dest.Row == p.Side.CrownRow() {
		p.King = true
		res.Promoted = true
	}
	return res
}

// GameOver reports whether either side has run out of pieces.
func (e *Engine) GameOver() bool {
	return e.b.Count(board.South) == 0 || e.b.Count(board.North) == 0
}

// Loser returns the eliminated side; ok is false while the game is live.
func (e *Engine) Loser() (board.Side, bool) {
	switch {
	case e.b.Count(board.South) == 0:
		return board.South, true
	case e.b.Count(board.North) == 0:
		return board.North, true
	default:
		return "", false
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
