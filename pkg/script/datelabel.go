package script

import (
	"fmt"
	"time"
)

// frenchMonths maps time.Month (1-based) to its French name.
var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// DateLabel renders a date as the human-readable French label used in the
// opening sentence, e.g. "3 mars 2026".
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}
