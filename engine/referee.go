package engine

import "github.com/pkg/errors"

var ErrGameOver = errors.New("game is over")

type Verdict uint8

const (
	VerdictContinue Verdict = iota
	VerdictWin
	VerdictDraw
)

func (v Verdict) String() string {
	switch v {
	case VerdictWin:
		return "win"
	case VerdictDraw:
		return "draw"
	default:
		return "continue"
	}
}

// Referee keeps the authoritative board of a game and judges each move.
type Referee struct {
	board  Board
	moves  []int
	winner Cell
	over   bool
}

func NewReferee() *Referee {
	return &Referee{}
}

func (r *Referee) Play(idx int, c Cell) (Verdict, error) {
	if r.over {
		return VerdictContinue, ErrGameOver
	}
	if c != CellBlack && c != CellWhite {
		return VerdictContinue, errors.Wrapf(ErrNoStone, "play %s", CoordString(idx))
	}
	if err := r.board.CheckMove(idx); err != nil {
		return VerdictContinue, err
	}
	win := IsWinningMove(&r.board, idx, c)
	r.board.Place(idx, c)
	r.moves = append(r.moves, idx)
	switch {
	case win:
		r.over = true
		r.winner = c
		return VerdictWin, nil
	case r.board.Full():
		r.over = true
		return VerdictDraw, nil
	}
	return VerdictContinue, nil
}

func (r *Referee) Board() Board {
	return r.board.Clone()
}

// Moves returns the cells played so far, in order.
func (r *Referee) Moves() []int {
	return append([]int(nil), r.moves...)
}

func (r *Referee) Over() bool {
	return r.over
}

// Winner is CellEmpty while the game runs and after a draw.
func (r *Referee) Winner() Cell {
	return r.winner
}

func (r *Referee) Reset() {
	*r = Referee{}
}
