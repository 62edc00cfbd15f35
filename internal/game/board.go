package game

// Mark is the content of a board cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Opponent returns the other symbol. Empty maps to Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

const BoardSize = 9

// Board is a 3x3 grid stored row-major.
type Board [BoardSize]Mark

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// WinLines exposes the eight winning triples.
func WinLines() [8][3]int {
	return winLines
}

// ApplyMark returns a copy of b with m placed at index.
func (b Board) ApplyMark(index int, m Mark) (Board, error) {
	if index < 0 || index >= BoardSize || b[index] != Empty {
		return b, ErrInvalidCell
	}
	if m != X && m != O {
		return b, ErrInvalidCell
	}
	b[index] = m
	return b, nil
}

func (b Board) EmptyCells() []int {
	out := make([]int, 0, BoardSize)
	for i, m := range b {
		if m == Empty {
			out = append(out, i)
		}
	}
	return out
}

func (b Board) Filled() int {
	return BoardSize - len(b.EmptyCells())
}

// DetectWinner returns the symbol that completes a line, or Empty.
func DetectWinner(b Board) Mark {
	for _, line := range winLines {
		m := b[line[0]]
		if m != Empty && b[line[1]] == m && b[line[2]] == m {
			return m
		}
	}
	return Empty
}

func IsDraw(b Board) bool {
	return b.Filled() == BoardSize && DetectWinner(b) == Empty
}

// Strings renders the board for storage and logs; empty cells become "".
func (b Board) Strings() []string {
	out := make([]string, BoardSize)
	for i, m := range b {
		out[i] = string(m)
	}
	return out
}
