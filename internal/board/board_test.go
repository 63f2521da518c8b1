package board

import "testing"

func TestNewGameLayout(t *testing.T) {
	b := NewGame()
	if got := b.Count(South); got != 12 {
		t.Fatalf("south pieces = %d, want 12", got)
	}
	if got := b.Count(North); got != 12 {
		t.Fatalf("north pieces = %d, want 12", got)
	}
	for _, s := range []Side{South, North} {
		for _, p := range b.Pieces(s) {
			if (p.Row+p.Col)%2 != 1 {
				t.Errorf("%s piece on light square (%d,%d)", s, p.Row, p.Col)
			}
			if p.King {
				t.Errorf("initial piece at (%d,%d) already king", p.Row, p.Col)
			}
		}
	}
	if !b.Consistent() {
		t.Fatal("fresh board inconsistent")
	}
}

func TestPlaceRemoveMove(t *testing.T) {
	b := New()
	p := &Piece{Side: South, Row: 5, Col: 2}
	b.Place(p)

	if !b.Occupied(5, 2) || b.At(5, 2) != p {
		t.Fatal("piece not on its cell after Place")
	}
	if !b.OccupiedBy(5, 2, South) || b.OccupiedBy(5, 2, North) {
		t.Fatal("OccupiedBy wrong side")
	}

	b.MovePiece(p, 4, 3)
	if b.Occupied(5, 2) {
		t.Fatal("origin cell still occupied after move")
	}
	if p.Row != 4 || p.Col != 3 || b.At(4, 3) != p {
		t.Fatalf("piece at (%d,%d), cell mismatch", p.Row, p.Col)
	}
	if !b.Consistent() {
		t.Fatal("board inconsistent after move")
	}

	if got := b.Remove(4, 3); got != p {
		t.Fatalf("Remove returned %v, want the placed piece", got)
	}
	if b.Count(South) != 0 || b.Occupied(4, 3) {
		t.Fatal("piece still present after Remove")
	}
	if b.Remove(4, 3) != nil {
		t.Fatal("Remove on empty cell should return nil")
	}
}

func TestResetRestoresInitialArrangement(t *testing.T) {
	b := NewGame()
	b.Remove(5, 2)
	b.Remove(2, 1)
	b.MovePiece(b.At(5, 0), 4, 1)

	b.Reset()
	if b.Count(South) != 12 || b.Count(North) != 12 {
		t.Fatalf("after reset: south=%d north=%d, want 12/12", b.Count(South), b.Count(North))
	}
	if !b.Occupied(5, 2) || !b.Occupied(2, 1) || b.Occupied(4, 1) {
		t.Fatal("reset did not restore the initial squares")
	}
	if !b.Consistent() {
		t.Fatal("board inconsistent after reset")
	}
}

func TestSideHelpers(t *testing.T) {
	if South.Opponent() != North || North.Opponent() != South {
		t.Fatal("Opponent mapping wrong")
	}
	if South.Forward() != -1 || North.Forward() != 1 {
		t.Fatal("Forward direction wrong")
	}
	if South.CrownRow() != 0 || North.CrownRow() != 7 {
		t.Fatal("CrownRow wrong")
	}
}
