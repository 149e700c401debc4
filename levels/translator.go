// Package levels translates numeric progression levels into the display
// labels used by the game ("FC" stages past level 34, dashed sub-stages
// below). Levels outside the known range fall back to their decimal form.
package levels

import "strconv"

const (
	minMapped = 31
	maxMapped = 84
	fcBase    = 35
)

var names = buildTable()

// buildTable produces the dense 31..84 label table. Levels 31-34 are the
// "30-n" sub-stages; from 35 on, every block of five levels is a stage
// ("FC n") followed by four sub-stages ("FC n - k").
func buildTable() map[int]string {
	table := make(map[int]string, maxMapped-minMapped+1)
	for level := minMapped; level < fcBase; level++ {
		table[level] = "30-" + strconv.Itoa(level-30)
	}
	for level := fcBase; level <= maxMapped; level++ {
		stage := (level-fcBase)/5 + 1
		sub := (level - fcBase) % 5
		if sub == 0 {
			table[level] = "FC " + strconv.Itoa(stage)
		} else {
			table[level] = "FC " + strconv.Itoa(stage) + " - " + strconv.Itoa(sub)
		}
	}
	return table
}

// Translate maps a progression level to its display label, falling back to
// the raw decimal string for unmapped levels.
func Translate(level int) string {
	if name, ok := names[level]; ok {
		return name
	}
	return strconv.Itoa(level)
}
