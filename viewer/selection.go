package viewer

// Selection is a 1-based cursor over a list of Len entries. The cursor never
// leaves [1, Len] once the list is non-empty.
type Selection struct {
	cursor int
	n      int
}

// NewSelection starts at the first entry.
func NewSelection(n int) *Selection {
	return &Selection{cursor: 1, n: n}
}

// Cursor returns the current position.
func (s *Selection) Cursor() int { return s.cursor }

// Len returns the list length.
func (s *Selection) Len() int { return s.n }

// SetLen updates the list length and pulls the cursor back into range.
func (s *Selection) SetLen(n int) {
	s.n = n
	s.Set(s.cursor)
}

// Set moves to i, clamped to the list bounds.
func (s *Selection) Set(i int) int {
	if i > s.n {
		i = s.n
	}
	if i < 1 {
		i = 1
	}
	s.cursor = i
	return s.cursor
}

// Next advances unless already at the last entry.
func (s *Selection) Next() int {
	if s.cursor < s.n {
		s.cursor++
	}
	return s.cursor
}

// Prev steps back unless already at the first entry.
func (s *Selection) Prev() int {
	if s.cursor > 1 {
		s.cursor--
	}
	return s.cursor
}
