package puzzle

// Kind identifies one of the seven piece shapes. Its value is also the cell
// value the piece leaves on the board.
type Kind int

const (
	KindT Kind = iota + 1
	KindO
	KindL
	KindJ
	KindI
	KindS
	KindZ
)

const kindCount = 7

var kindNames = [...]string{"", "T", "O", "L", "J", "I", "S", "Z"}

func (k Kind) String() string {
	if k < KindT || k > KindZ {
		return "?"
	}
	return kindNames[k]
}

// Shape is a square matrix of cells; non-zero cells are occupied.
type Shape [][]Cell

var templates = [kindCount + 1]Shape{
	KindT: {
		{0, 0, 0},
		{1, 1, 1},
		{0, 1, 0},
	},
	KindO: {
		{2, 2},
		{2, 2},
	},
	KindL: {
		{0, 3, 0},
		{0, 3, 0},
		{0, 3, 3},
	},
	KindJ: {
		{0, 4, 0},
		{0, 4, 0},
		{4, 4, 0},
	},
	KindI: {
		{0, 5, 0, 0},
		{0, 5, 0, 0},
		{0, 5, 0, 0},
		{0, 5, 0, 0},
	},
	KindS: {
		{0, 6, 6},
		{6, 6, 0},
		{0, 0, 0},
	},
	KindZ: {
		{7, 7, 0},
		{0, 7, 7},
		{0, 0, 0},
	},
}

// NewShape returns a fresh copy of the template for kind.
func NewShape(kind Kind) Shape {
	if kind < KindT || kind > KindZ {
		return nil
	}
	return templates[kind].Clone()
}

func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for y, row := range s {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// rotate turns s a quarter turn in place: clockwise for dir > 0,
// counter-clockwise otherwise.
func (s Shape) rotate(dir int) {
	for y := range s {
		for x := 0; x < y; x++ {
			s[x][y], s[y][x] = s[y][x], s[x][y]
		}
	}
	if dir > 0 {
		for _, row := range s {
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		return
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
