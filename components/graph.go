package components

// Square is the node for one coordinate inside a single SquareGraph.
type Square struct {
	Coordinates
}

// SquareGraph maps each coordinate to exactly one Square for the lifetime of a
// search. Build a new one per search; it is not safe for concurrent use.
type SquareGraph struct {
	squares map[Coordinates]*Square
	moves   func(Coordinates) []Coordinates
}

func NewSquareGraph() *SquareGraph {
	return newSquareGraph(KnightMoves)
}

func newSquareGraph(moves func(Coordinates) []Coordinates) *SquareGraph {
	return &SquareGraph{
		squares: make(map[Coordinates]*Square, BoardSize*BoardSize),
		moves:   moves,
	}
}

func (g *SquareGraph) GetOrCreate(position Coordinates) *Square {
	if sq, ok := g.squares[position]; ok {
		return sq
	}
	sq := &Square{Coordinates: position}
	g.squares[position] = sq
	return sq
}

// Neighbors returns the squares a knight reaches from sq, in offset order.
// Squares not seen before are registered as a side effect.
func (g *SquareGraph) Neighbors(sq *Square) []*Square {
	moves := g.moves(sq.Coordinates)
	neighbors := make([]*Square, 0, len(moves))
	for _, move := range moves {
		neighbors = append(neighbors, g.GetOrCreate(move))
	}
	return neighbors
}

func (g *SquareGraph) Len() int {
	return len(g.squares)
}
