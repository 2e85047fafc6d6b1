package puzzle

const (
	Width  = 12
	Height = 20
)

// Cell is a board or shape cell: 0 is empty, 1-7 is the Kind occupying it.
type Cell uint8

type Point struct {
	X int
	Y int
}

type Board [][]Cell

func newBoard() Board {
	board := make(Board, Height)
	for y := range board {
		board[y] = make([]Cell, Width)
	}
	return board
}

func (b Board) Clone() Board {
	out := make(Board, len(b))
	for y, row := range b {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

func (b Board) clear() {
	for _, row := range b {
		for x := range row {
			row[x] = 0
		}
	}
}

// Collides reports whether shape placed with its top-left corner at pos
// leaves the board sideways, passes the floor, or overlaps a filled cell.
// Cells above row 0 are never checked.
func (b Board) Collides(shape Shape, pos Point) bool {
	for y, row := range shape {
		for x, cell := range row {
			if cell == 0 {
				continue
			}
			bx := pos.X + x
			by := pos.Y + y
			if bx < 0 || bx >= Width || by >= Height {
				return true
			}
			if by < 0 {
				continue
			}
			if b[by][bx] != 0 {
				return true
			}
		}
	}
	return false
}

func (b Board) merge(shape Shape, pos Point) {
	for y, row := range shape {
		for x, cell := range row {
			if cell == 0 {
				continue
			}
			bx := pos.X + x
			by := pos.Y + y
			if by < 0 || by >= Height || bx < 0 || bx >= Width {
				continue
			}
			b[by][bx] = cell
		}
	}
}

// sweep removes full rows from the bottom up to row 1 and returns the
// number of rows removed and the points earned. Row 0 is never removed.
func (b Board) sweep() (rows int, points int) {
	multiplier := 1
	for y := len(b) - 1; y > 0; y-- {
		if !rowFull(b[y]) {
			continue
		}
		for pull := y; pull > 0; pull-- {
			copy(b[pull], b[pull-1])
		}
		for x := range b[0] {
			b[0][x] = 0
		}
		rows++
		points += 10 * multiplier
		multiplier *= 2
		y++
	}
	return rows, points
}

func rowFull(row []Cell) bool {
	for _, cell := range row {
		if cell == 0 {
			return false
		}
	}
	return true
}
