package canvas

// CharacterMerger decides which character a grid cell shows when two strokes
// cross it.
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with the box-drawing merge rules.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{
		mergeMap: make(map[mergePair]rune),
	}
	m.initializeMergeRules()
	return m
}

// Merge combines the character already in a cell with a new one.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == '\x00' {
		return new
	}
	if existing == new {
		return existing
	}

	// Arrowhead strokes win over the shaft they end on.
	if isHeadChar(existing) {
		return existing
	}
	if isHeadChar(new) {
		return new
	}

	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}

	// Text is drawn without merging, so anything unknown here is a stroke
	// meeting a stroke; the later one wins.
	return new
}

func isHeadChar(r rune) bool {
	return r == '╱' || r == '╲' || r == '/' || r == '\\'
}

func (m *CharacterMerger) initializeMergeRules() {
	m.mergeMap[mergePair{'─', '│'}] = '┼'

	m.mergeMap[mergePair{'┌', '─'}] = '┬'
	m.mergeMap[mergePair{'┌', '│'}] = '├'
	m.mergeMap[mergePair{'┐', '─'}] = '┬'
	m.mergeMap[mergePair{'┐', '│'}] = '┤'
	m.mergeMap[mergePair{'└', '─'}] = '┴'
	m.mergeMap[mergePair{'└', '│'}] = '├'
	m.mergeMap[mergePair{'┘', '─'}] = '┴'
	m.mergeMap[mergePair{'┘', '│'}] = '┤'

	m.mergeMap[mergePair{'┬', '│'}] = '┼'
	m.mergeMap[mergePair{'┴', '│'}] = '┼'
	m.mergeMap[mergePair{'├', '─'}] = '┼'
	m.mergeMap[mergePair{'┤', '─'}] = '┼'
	m.mergeMap[mergePair{'┬', '─'}] = '┬'
	m.mergeMap[mergePair{'┴', '─'}] = '┴'
	m.mergeMap[mergePair{'├', '│'}] = '├'
	m.mergeMap[mergePair{'┤', '│'}] = '┤'

	// Corners of adjacent table cells meet on shared edges.
	m.mergeMap[mergePair{'┌', '┘'}] = '┼'
	m.mergeMap[mergePair{'┐', '└'}] = '┼'
	m.mergeMap[mergePair{'┌', '┐'}] = '┬'
	m.mergeMap[mergePair{'└', '┘'}] = '┴'
	m.mergeMap[mergePair{'┌', '└'}] = '├'
	m.mergeMap[mergePair{'┐', '┘'}] = '┤'
	m.mergeMap[mergePair{'├', '┤'}] = '┼'
	m.mergeMap[mergePair{'┬', '┴'}] = '┼'
	m.mergeMap[mergePair{'├', '┐'}] = '┼'
	m.mergeMap[mergePair{'├', '┘'}] = '┼'
	m.mergeMap[mergePair{'┤', '┌'}] = '┼'
	m.mergeMap[mergePair{'┤', '└'}] = '┼'
	m.mergeMap[mergePair{'┬', '└'}] = '┼'
	m.mergeMap[mergePair{'┬', '┘'}] = '┼'
	m.mergeMap[mergePair{'┴', '┌'}] = '┼'
	m.mergeMap[mergePair{'┴', '┐'}] = '┼'

	m.mergeMap[mergePair{'-', '|'}] = '+'
	m.mergeMap[mergePair{'+', '-'}] = '+'
	m.mergeMap[mergePair{'+', '|'}] = '+'
}
