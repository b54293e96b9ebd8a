package components

// Vertical (y +/- 2) (x +/- 1)
// Horizontal (y +/- 1) (x +/- 2)
//
// The order is fixed: when several shortest paths exist, the search keeps the one
// reached through the earliest offset.
var knightOffsets = [8]Coordinates{
	{X: 1, Y: 2},
	{X: 2, Y: 1},
	{X: -1, Y: 2},
	{X: 2, Y: -1},
	{X: 1, Y: -2},
	{X: -2, Y: 1},
	{X: -1, Y: -2},
	{X: -2, Y: -1},
}

// KnightMoves returns every on-board square a knight can reach from position.
func KnightMoves(position Coordinates) []Coordinates {
	moves := make([]Coordinates, 0, len(knightOffsets))
	for _, offset := range knightOffsets {
		move := Coordinates{X: position.X + offset.X, Y: position.Y + offset.Y}
		if move.IsWithinBounds() {
			moves = append(moves, move)
		}
	}
	return moves
}

func IsKnightMove(from, to Coordinates) bool {
	for _, offset := range knightOffsets {
		if to.X-from.X == offset.X && to.Y-from.Y == offset.Y {
			return true
		}
	}
	return false
}
