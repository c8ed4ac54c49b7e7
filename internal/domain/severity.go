package domain

// HighestLevel reduces a warning set to its maximum severity under the
// fixed order red > orange > yellow > unknown > none. An empty set yields
// LevelNone. Unknown-level warnings count toward totals but rank below
// every named level.
func HighestLevel(warnings []Warning) Level {
	highest := LevelNone
	for _, w := range warnings {
		if w.Level > highest {
			highest = w.Level
		}
	}
	return highest
}
