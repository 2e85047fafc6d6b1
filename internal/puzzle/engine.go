// Package puzzle implements the falling-block game: a fixed 12x20 board, one
// active piece, gravity driven by elapsed frame time, and line sweeping with
// a doubling score multiplier.
//
// The engine never fails. Calls that cannot take effect are no-ops, and a
// piece that spawns into occupied cells clears the board and restarts play.
// An Engine is not safe for concurrent use; drive it from one goroutine.
package puzzle

import (
	"math/rand/v2"
	"time"
)

// DropInterval is the time between automatic one-row descents.
const DropInterval = 1000 * time.Millisecond

// Source picks piece kinds. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Result describes what a descent did.
type Result struct {
	Locked    bool
	Cleared   int
	Points    int
	Restarted bool
}

// ActivePiece is a copy of the falling piece.
type ActivePiece struct {
	Kind  Kind
	Shape Shape
	Pos   Point
}

// Snapshot is a read-only view for renderers: the board with the active piece
// drawn in, plus the score.
type Snapshot struct {
	Cells  Board
	Piece  ActivePiece
	Score  int
	Active bool
}

type Engine struct {
	board       Board
	shape       Shape
	kind        Kind
	pos         Point
	score       int
	active      bool
	dropCounter time.Duration
	rng         Source
}

// New returns an engine with an empty board and no active piece. A nil
// source falls back to a time-seeded generator.
func New(rng Source) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Engine{
		board: newBoard(),
		rng:   rng,
	}
}

// NewSeeded returns an engine whose piece sequence is fixed by seed.
func NewSeeded(seed uint64) *Engine {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Spawn places a random piece centered on row 0. If it overlaps the stack the
// board is emptied and the score reset, and the piece stays where it is.
func (e *Engine) Spawn() bool {
	e.kind = Kind(e.rng.IntN(kindCount)) + KindT
	e.shape = NewShape(e.kind)
	e.pos = Point{X: Width/2 - e.shape.Width()/2, Y: 0}
	e.active = true
	if e.board.Collides(e.shape, e.pos) {
		e.board.clear()
		e.score = 0
		return true
	}
	return false
}

// Tick advances the drop timer by elapsed and drops the piece one row once the
// timer passes DropInterval.
func (e *Engine) Tick(elapsed time.Duration) Result {
	if !e.active || elapsed < 0 {
		return Result{}
	}
	e.dropCounter += elapsed
	if e.dropCounter <= DropInterval {
		return Result{}
	}
	result := e.SoftDrop()
	e.dropCounter = 0
	return result
}

// Move shifts the piece one column left (dir < 0) or right (dir > 0) unless
// the target position collides.
func (e *Engine) Move(dir int) bool {
	if !e.active || dir == 0 {
		return false
	}
	step := 1
	if dir < 0 {
		step = -1
	}
	next := Point{X: e.pos.X + step, Y: e.pos.Y}
	if e.board.Collides(e.shape, next) {
		return false
	}
	e.pos = next
	return true
}

// SoftDrop moves the piece down one row. When it cannot fall any further it is
// merged into the board, full rows are swept, and the next piece spawns.
func (e *Engine) SoftDrop() Result {
	if !e.active {
		return Result{}
	}
	next := Point{X: e.pos.X, Y: e.pos.Y + 1}
	if !e.board.Collides(e.shape, next) {
		e.pos = next
		e.dropCounter = 0
		return Result{}
	}
	e.board.merge(e.shape, e.pos)
	rows, points := e.board.sweep()
	e.score += points
	e.dropCounter = 0
	restarted := e.Spawn()
	return Result{
		Locked:    true,
		Cleared:   rows,
		Points:    points,
		Restarted: restarted,
	}
}

// Rotate turns the piece clockwise (dir > 0) or counter-clockwise (dir < 0).
// A colliding result is kicked sideways by +1, -2, +3, ... columns from the
// previous attempt; when the kick grows wider than the piece the rotation is
// undone.
func (e *Engine) Rotate(dir int) bool {
	if !e.active || dir == 0 {
		return false
	}
	origin := e.pos.X
	offset := 1
	e.shape.rotate(dir)
	for e.board.Collides(e.shape, e.pos) {
		e.pos.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if offset > e.shape.Width() {
			e.shape.rotate(-dir)
			e.pos.X = origin
			return false
		}
	}
	return true
}

func (e *Engine) Board() Board {
	return e.board.Clone()
}

func (e *Engine) Piece() ActivePiece {
	return ActivePiece{
		Kind:  e.kind,
		Shape: e.shape.Clone(),
		Pos:   e.pos,
	}
}

func (e *Engine) Score() int {
	return e.score
}

func (e *Engine) Active() bool {
	return e.active
}

func (e *Engine) Snapshot() Snapshot {
	cells := e.board.Clone()
	if e.active {
		cells.merge(e.shape, e.pos)
	}
	return Snapshot{
		Cells:  cells,
		Piece:  e.Piece(),
		Score:  e.score,
		Active: e.active,
	}
}
