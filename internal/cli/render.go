package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/planner"
)

// writeViews prints category views as text or, in JSON mode, as an array.
func writeViews(w io.Writer, jsonMode bool, views []tally.View) error {
	if jsonMode {
		return writeJSON(w, views)
	}
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeView(w, v)
	}
	return nil
}

// writeView renders one category:
//
//	Ceramics  Total: 160 (10)
//	  [0] 100 + [1] 50 = 150
//	  1 x 80, 2 x 40
//
// The surplus is only shown when it is positive. The amounts and counts
// lines are omitted while nothing has been submitted.
func writeView(w io.Writer, v tally.View) {
	fmt.Fprintf(w, "%s  Total: %s", v.Name, humanize.Comma(v.Covered))
	if v.Surplus.IsPositive() {
		fmt.Fprintf(w, " (%s)", v.Surplus.String())
	}
	fmt.Fprintln(w)

	if len(v.Submitted) == 0 {
		return
	}
	parts := make([]string, 0, len(v.Submitted))
	for i, d := range v.Submitted {
		parts = append(parts, fmt.Sprintf("[%d] %s", i, d.String()))
	}
	fmt.Fprintf(w, "  %s = %s\n", strings.Join(parts, " + "), v.Requested.String())

	if len(v.Recommended) > 0 {
		fmt.Fprintf(w, "  %s\n", v.Recommended.String())
	}
}

// writeCounts prints a planner result with its total.
func writeCounts(w io.Writer, jsonMode bool, counts planner.Counts) error {
	if jsonMode {
		return writeJSON(w, struct {
			Counts planner.Counts `json:"counts"`
			Total  int64          `json:"total"`
			Pieces int            `json:"pieces"`
		}{counts, counts.Total(), counts.Pieces()})
	}
	if len(counts) == 0 {
		fmt.Fprintln(w, "nothing to cover")
		return nil
	}
	fmt.Fprintf(w, "%s\nTotal: %s in %d pieces\n", counts.String(), humanize.Comma(counts.Total()), counts.Pieces())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
