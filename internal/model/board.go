package model

// Mark is a grid-duel symbol.
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

// Other returns the opposing mark.
func (m Mark) Other() Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

// BoardSize is the number of cells in a grid-duel board.
const BoardSize = 9

// Board is the 3x3 grid, row-major.
type Board [BoardSize]Mark

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// HasWin reports whether mark occupies a full winning line.
func (b *Board) HasWin(m Mark) bool {
	for _, line := range winningLines {
		if b[line[0]] == m && b[line[1]] == m && b[line[2]] == m {
			return true
		}
	}
	return false
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	for _, c := range b {
		if c == MarkNone {
			return false
		}
	}
	return true
}
