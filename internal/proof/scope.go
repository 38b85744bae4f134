package proof

import "fmt"

const topLevel = -1

// scopeIndex answers visibility questions in time proportional to nesting
// depth. A scope is named by the index of the assumption line that opened
// it; the top-level scope is topLevel.
type scopeIndex struct {
	// scope[i] is the innermost scope containing line i. An assumption at
	// level >= 1 is the opener of its own scope.
	scope []int
	// parent[s] is the scope enclosing the subproof opened at line s. It is
	// only meaningful when s is an opener.
	parent []int
	pos    map[LineID]int
}

// topologyError is produced while indexing an invalid line sequence. Edits
// turn it into a StructuralError before it reaches callers.
type topologyError struct {
	index int
	msg   string
}

func (e *topologyError) Error() string {
	return fmt.Sprintf("line %d: %s", e.index+1, e.msg)
}

// buildIndex validates the nesting of lines and computes the scope chain of
// every line. The first line behaves as if it followed a top-level line.
func buildIndex(lines []*Line) (scopeIndex, error) {
	idx := scopeIndex{
		scope:  make([]int, len(lines)),
		parent: make([]int, len(lines)),
		pos:    make(map[LineID]int, len(lines)),
	}
	// open[d] is the opener of the subproof at depth d+1 that is still open.
	open := make([]int, 0, 8)
	prev := 0
	for i, l := range lines {
		idx.pos[l.ID] = i
		idx.parent[i] = topLevel
		switch {
		case l.Level < 0:
			return idx, &topologyError{i, fmt.Sprintf("negative nesting level %d", l.Level)}
		case l.Level > prev+1:
			return idx, &topologyError{i, fmt.Sprintf("level %d is more than one level deeper than the previous line (%d)", l.Level, prev)}
		case l.Level > prev && !l.Assumption:
			return idx, &topologyError{i, "a line that opens a subproof must be an assumption"}
		}

		if l.Assumption && l.Level > 0 {
			open = open[:l.Level-1]
			if l.Level > 1 {
				idx.parent[i] = open[l.Level-2]
			}
			open = append(open, i)
			idx.scope[i] = i
		} else {
			open = open[:l.Level]
			idx.scope[i] = topLevel
			if l.Level > 0 {
				idx.scope[i] = open[l.Level-1]
			}
		}
		prev = l.Level
	}
	return idx, nil
}

// within reports whether scope s is target or nested inside target.
func (idx *scopeIndex) within(s, target int) bool {
	if target == topLevel {
		return true
	}
	for ; s != topLevel; s = idx.parent[s] {
		if s == target {
			return true
		}
	}
	return false
}

// inside reports whether line i lies in the subproof opened at s.
func (idx *scopeIndex) inside(i, s int) bool {
	return idx.within(idx.scope[i], s)
}

func (idx *scopeIndex) isOpener(i int) bool {
	return idx.scope[i] == i
}

// lineVisible reports whether line j can be cited as a single line from i.
func (idx *scopeIndex) lineVisible(j, i int) bool {
	return j < i && idx.within(idx.scope[i], idx.scope[j])
}

// subproofEnd returns the last line of the subproof opened at s.
func (idx *scopeIndex) subproofEnd(s int) int {
	end := s
	for j := s + 1; j < len(idx.scope) && idx.inside(j, s); j++ {
		end = j
	}
	return end
}

// subproofResult returns the last line whose innermost scope is s.
func (idx *scopeIndex) subproofResult(s int) int {
	result := s
	for j := s + 1; j < len(idx.scope) && idx.inside(j, s); j++ {
		if idx.scope[j] == s {
			result = j
		}
	}
	return result
}
