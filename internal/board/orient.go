package board

// Orientation composes the two display transforms. ColorFlip is derived from
// the local player's color (true when the local side's home rank is row 0,
// i.e. the local player is red) and puts that side at the bottom of the
// screen. Rotation is the user-toggled 180° turn applied on top of it.
// ColorFlip is applied first, Rotation second; since each transform is the
// same involutive mirror (row' = 9-row, col' = 8-col), the composition
// reduces to the XOR of the two flags.
type Orientation struct {
	ColorFlip bool
	Rotation  bool
}

// Orient builds the orientation for a local color. Spectators and players
// sitting as black use the identity color flip.
func Orient(local Color, rotation bool) Orientation {
	return Orientation{ColorFlip: local == Red, Rotation: rotation}
}

func (o Orientation) mirrored() bool {
	return o.ColorFlip != o.Rotation
}

// ToDisplay maps a logical cell to the cell it is drawn at.
func (o Orientation) ToDisplay(p Pos) Pos {
	if !o.mirrored() {
		return p
	}
	return Pos{Row: Rows - 1 - p.Row, Col: Cols - 1 - p.Col}
}

// ToLogical maps a drawn cell back to its logical cell. It is the exact
// inverse of ToDisplay for every orientation; the shared mirror is its own
// inverse, so the two functions coincide.
func (o Orientation) ToLogical(p Pos) Pos {
	return o.ToDisplay(p)
}
