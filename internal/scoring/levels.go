package scoring

import "github.com/egelkids/egel/internal/problemgen"

// LevelMap holds the per-operation level. Missing operations are at
// problemgen.MinLevel.
type LevelMap map[problemgen.Operation]int

// DefaultLevels returns level 1 for every operation.
func DefaultLevels() LevelMap {
	m := make(LevelMap, len(problemgen.Operations))
	for _, op := range problemgen.Operations {
		m[op] = problemgen.MinLevel
	}
	return m
}

// Level returns the clamped level for op.
func (m LevelMap) Level(op problemgen.Operation) int {
	return clampLevel(m[op])
}

// Clone returns an independent copy with every operation present.
func (m LevelMap) Clone() LevelMap {
	out := DefaultLevels()
	for op, lvl := range m {
		if op.Valid() {
			out[op] = clampLevel(lvl)
		}
	}
	return out
}

func clampLevel(n int) int {
	if n < problemgen.MinLevel {
		return problemgen.MinLevel
	}
	if n > problemgen.MaxLevel {
		return problemgen.MaxLevel
	}
	return n
}
