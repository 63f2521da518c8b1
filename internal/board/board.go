package board

// Size is the board edge length.
const Size = 8

// Side identifies one of the two players of a session. Each process models
// its own player as South (pieces start on rows 5..7 and advance toward row
// 0); the remote player is North.
type Side string

const (
	South Side = "south"
	North Side = "north"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == South {
		return North
	}
	return South
}

// Forward is the row delta a non-king piece of this side advances by.
func (s Side) Forward() int {
	if s == South {
		return -1
	}
	return 1
}

// CrownRow is the row that promotes this side's pieces to kings.
func (s Side) CrownRow() int {
	if s == South {
		return 0
	}
	return Size - 1
}

// Piece is one checker. Row/Col track its cell; King is monotonic and flips
// on promotion only.
type Piece struct {
	Side Side
	King bool
	Row  int
	Col  int
}

// Board is an 8x8 grid of cells, each holding at most one piece, plus the two
// per-side piece collections. Mutated only through Place, Remove and MovePiece
// so the cell grid and the collections never disagree.
type Board struct {
	cells  [Size][Size]*Piece
	pieces map[Side][]*Piece
}

// New returns an empty board.
func New() *Board {
	return &Board{pieces: map[Side][]*Piece{South: {}, North: {}}}
}

// NewGame returns a board in the initial 24-piece arrangement: North on the
// dark squares of rows 0..2, South on the dark squares of rows 5..7.
func NewGame() *Board {
	b := New()
	b.setup()
	return b
}

// Reset discards every piece and restores the initial arrangement.
func (b *Board) Reset() {
	b.cells = [Size][Size]*Piece{}
	b.pieces[South] = b.pieces[South][:0]
	b.pieces[North] = b.pieces[North][:0]
	b.setup()
}

func (b *Board) setup() {
	for row := 0; row < 3; row++ {
		for col := 0; col < Size; col++ {
			if (row+col)%2 == 1 {
				b.Place(&Piece{Side: North, Row: row, Col: col})
			}
		}
	}
	for row := 5; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if (row+col)%2 == 1 {
				b.Place(&Piece{Side: South, Row: row, Col: col})
			}
		}
	}
}

// InRange reports whether (row,col) is on the board. The rule engine only
// produces in-range coordinates; indexing with anything else is a programming
// error and panics.
func InRange(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the piece at (row,col), or nil for an empty cell.
func (b *Board) At(row, col int) *Piece { return b.cells[row][col] }

// Occupied reports whether any piece sits at (row,col).
func (b *Board) Occupied(row, col int) bool { return b.cells[row][col] != nil }

// OccupiedBy reports whether a piece of side s sits at (row,col).
func (b *Board) OccupiedBy(row, col int, s Side) bool {
	p := b.cells[row][col]
	return p != nil && p.Side == s
}

// Pieces returns the live collection for one side. Callers must not mutate it.
func (b *Board) Pieces(s Side) []*Piece { return b.pieces[s] }

// Count returns the number of pieces one side has left.
func (b *Board) Count(s Side) int { return len(b.pieces[s]) }

// Place puts a piece on its (Row,Col) cell and registers it with its side.
// The target cell must be empty.
func (b *Board) Place(p *Piece) {
	if b.cells[p.Row][p.Col] != nil {
		panic("board: cell already occupied")
	}
	b.cells[p.Row][p.Col] = p
	b.pieces[p.Side] = append(b.pieces[p.Side], p)
}

// Remove takes the piece at (row,col) off the board and out of its side's
// collection. Returns nil if the cell was empty.
func (b *Board) Remove(row, col int) *Piece {
	p := b.cells[row][col]
	if p == nil {
		return nil
	}
	b.cells[row][col] = nil
	coll := b.pieces[p.Side]
	for i, q := range coll {
		if q == p {
			b.pieces[p.Side] = append(coll[:i], coll[i+1:]...)
			break
		}
	}
	return p
}

// MovePiece relocates p to (row,col), keeping the cell grid in sync. The
// destination must be empty.
func (b *Board) MovePiece(p *Piece, row, col int) {
	if b.cells[row][col] != nil {
		panic("board: destination occupied")
	}
	b.cells[p.Row][p.Col] = nil
	p.Row, p.Col = row, col
	b.cells[row][col] = p
}

// Consistent verifies the cell grid and the side collections agree: every
// piece occupies exactly the cell its coordinates name, and every occupied
// cell's piece is registered with its side.
func (b *Board) Consistent() bool {
	seen := 0
	for _, s := range []Side{South, North} {
		for _, p := range b.pieces[s] {
			if p.Side != s || !InRange(p.Row, p.Col) || b.cells[p.Row][p.Col] != p {
				return false
			}
			seen++
		}
	}
	occupied := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.cells[r][c]; p != nil {
				if p.Row != r || p.Col != c {
					return false
				}
				occupied++
			}
		}
	}
	return seen == occupied
}
