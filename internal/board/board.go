// Package board holds the logical Xiangqi board model and the coordinate
// transforms between logical (server-oriented) and display cells.
package board

// Board dimensions, fixed by the game.
const (
	Rows = 10
	Cols = 9
)

// Color identifies a side. Red moves first and its home side is row 0.
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == Red {
		return Black
	}
	return Red
}

// PieceType names follow the wire protocol.
type PieceType string

const (
	King     PieceType = "king"
	Advisor  PieceType = "advisor"
	Elephant PieceType = "elephant"
	Horse    PieceType = "horse"
	Rook     PieceType = "rook"
	Cannon   PieceType = "cannon"
	Pawn     PieceType = "pawn"
)

// Piece is one occupied cell.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Board is the full 10x9 grid; nil cells are empty. The layout is always
// logical: row 0 is red's back rank regardless of how it is displayed.
type Board [Rows][Cols]*Piece

// At returns the piece at p, or nil for an empty or out-of-range cell.
func (b *Board) At(p Pos) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b[p.Row][p.Col]
}

// Pos is a cell position. Whether it is logical or display depends on
// context; the Orientation transforms convert between the two.
type Pos struct {
	Row int
	Col int
}

// InBounds reports whether p lies on the board.
func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Cols
}
