package components

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "knights_searches_total",
		Help: "Shortest path searches by result",
	}, []string{"result"})

	searchDequeues = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "knights_search_dequeues",
		Help:    "Squares dequeued per search",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	pathMoves = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "knights_path_moves",
		Help:    "Moves in each shortest path found",
		Buckets: prometheus.LinearBuckets(0, 1, 7),
	})
)

// maxDequeues bounds a search: every square is dequeued at most once.
const maxDequeues = BoardSize * BoardSize

// Path runs from the start square to the target square, both included.
type Path []Coordinates

func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

func (p Path) Names() []string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.Name()
	}
	return names
}

type SearchStats struct {
	Dequeues   int
	Discovered int
}

// PathFinder runs breadth-first searches over the knight graph. It holds no
// per-search state, so one value may serve concurrent callers.
type PathFinder struct {
	logger *slog.Logger
	moves  func(Coordinates) []Coordinates
}

func NewPathFinder(logger *slog.Logger) *PathFinder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PathFinder{logger: logger, moves: KnightMoves}
}

func (pf *PathFinder) ShortestPath(start, finish Coordinates) (Path, error) {
	path, _, err := pf.ShortestPathWithStats(start, finish)
	return path, err
}

func (pf *PathFinder) ShortestPathWithStats(start, finish Coordinates) (Path, SearchStats, error) {
	path, stats, err := pf.search(start, finish)
	if err != nil {
		searchesTotal.WithLabelValues(resultLabel(err)).Inc()
		pf.logger.Error("search failed", "start", start.Name(), "finish", finish.Name(), "error", err)
		return nil, stats, err
	}

	searchesTotal.WithLabelValues("found").Inc()
	searchDequeues.Observe(float64(stats.Dequeues))
	pathMoves.Observe(float64(path.Moves()))
	pf.logger.Debug("search complete",
		"start", start.Name(),
		"finish", finish.Name(),
		"moves", path.Moves(),
		"dequeues", stats.Dequeues,
		"discovered", stats.Discovered)
	return path, stats, nil
}

func (pf *PathFinder) search(start, finish Coordinates) (Path, SearchStats, error) {
	var stats SearchStats
	if err := start.validate(); err != nil {
		return nil, stats, fmt.Errorf("start: %w", err)
	}
	if err := finish.validate(); err != nil {
		return nil, stats, fmt.Errorf("finish: %w", err)
	}

	graph := newSquareGraph(pf.moves)
	origin := graph.GetOrCreate(start)
	target := graph.GetOrCreate(finish)
	if origin == target {
		return Path{start}, stats, nil
	}

	// discoveredBy doubles as the visited set. The origin is the root and never
	// gets an entry.
	discoveredBy := make(map[Coordinates]Coordinates, maxDequeues)
	queue := []*Square{origin}

	for len(queue) > 0 {
		if stats.Dequeues >= maxDequeues {
			return nil, stats, fmt.Errorf("%w: %s from %s after %d dequeues",
				ErrUnreachableTarget, finish.Name(), start.Name(), stats.Dequeues)
		}
		current := queue[0]
		queue = queue[1:]
		stats.Dequeues++

		for _, neighbor := range graph.Neighbors(current) {
			if neighbor == origin {
				continue
			}
			if _, seen := discoveredBy[neighbor.Coordinates]; seen {
				continue
			}
			discoveredBy[neighbor.Coordinates] = current.Coordinates
			stats.Discovered++
			if neighbor == target {
				return rebuildPath(discoveredBy, start, finish), stats, nil
			}
			queue = append(queue, neighbor)
		}
	}

	return nil, stats, fmt.Errorf("%w: %s from %s", ErrUnreachableTarget, finish.Name(), start.Name())
}

func rebuildPath(discoveredBy map[Coordinates]Coordinates, origin, target Coordinates) Path {
	var reversed Path
	for c := target; c != origin; c = discoveredBy[c] {
		reversed = append(reversed, c)
	}
	reversed = append(reversed, origin)

	path := make(Path, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}

// Distances returns the knight distance from start to every square it reaches.
func (pf *PathFinder) Distances(start Coordinates) (map[Coordinates]int, error) {
	if err := start.validate(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	graph := newSquareGraph(pf.moves)
	origin := graph.GetOrCreate(start)
	distances := map[Coordinates]int{start: 0}
	queue := []*Square{origin}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range graph.Neighbors(current) {
			if _, seen := distances[neighbor.Coordinates]; seen {
				continue
			}
			distances[neighbor.Coordinates] = distances[current.Coordinates] + 1
			queue = append(queue, neighbor)
		}
	}

	pf.logger.Debug("distance table built", "start", start.Name(), "reached", len(distances))
	return distances, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCoordinate):
		return "invalid"
	case errors.Is(err, ErrUnreachableTarget):
		return "unreachable"
	default:
		return "error"
	}
}
