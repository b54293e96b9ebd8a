package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/LIAMBB/knights-travails/components"
	"github.com/LIAMBB/knights-travails/store"
)

type pathJSON struct {
	Start  components.Coordinates   `json:"start"`
	Finish components.Coordinates   `json:"finish"`
	Moves  int                      `json:"moves"`
	Path   []components.Coordinates `json:"path"`
}

func writePath(w io.Writer, path components.Path) error {
	var b strings.Builder
	fmt.Fprintf(&b, "The shortest path was %d moves!\n", path.Moves())
	b.WriteString("The moves were:\n")
	for _, name := range path.Names() {
		b.WriteString(name)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writePathJSON(w io.Writer, start, finish components.Coordinates, path components.Path) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pathJSON{
		Start:  start,
		Finish: finish,
		Moves:  path.Moves(),
		Path:   path,
	})
}

// writeDistanceTable prints one row per y with x increasing left to right.
func writeDistanceTable(w io.Writer, distances map[components.Coordinates]int) error {
	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < components.BoardSize; x++ {
		fmt.Fprintf(&b, " %d", x)
	}
	b.WriteString("\n")

	for y := 0; y < components.BoardSize; y++ {
		fmt.Fprintf(&b, "%d-|", y)
		for x := 0; x < components.BoardSize; x++ {
			d, ok := distances[components.Coordinates{X: x, Y: y}]
			if !ok {
				b.WriteString(" .")
				continue
			}
			fmt.Fprintf(&b, " %d", d)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeHistory lists records, newest first, followed by the database size.
func writeHistory(w io.Writer, records []store.SearchRecord, dbSize int64) error {
	var b strings.Builder
	if len(records) == 0 {
		b.WriteString("No stored searches.\n")
	}
	for _, rec := range records {
		fmt.Fprintf(&b, "%s  (%s) -> (%s)  %d moves  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Start.Name(), rec.Finish.Name(), rec.Moves, rec.ID)
	}
	fmt.Fprintf(&b, "Database size: %.2f KB\n", float64(dbSize)/1024)
	_, err := io.WriteString(w, b.String())
	return err
}
