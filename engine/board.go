package engine

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	BoardSize = 20
	NumCells  = BoardSize * BoardSize
	WinLength = 5

	// NoMove is the cell index reported when no legal move exists.
	NoMove = -1
	// CenterCell is the opening move on an empty board.
	CenterCell = (BoardSize/2)*BoardSize + BoardSize/2
)

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrOccupied    = errors.New("cell already occupied")
	ErrNoStone     = errors.New("empty cell has no player")
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

func (c Cell) Opponent() Cell {
	switch c {
	case CellBlack:
		return CellWhite
	case CellWhite:
		return CellBlack
	default:
		return CellEmpty
	}
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

// Board is the 20x20 grid. The zero value is an empty board.
type Board struct {
	cells  [NumCells]Cell
	stones int
}

func NewBoard() Board {
	return Board{}
}

func (b *Board) Reset() {
	*b = Board{}
}

func (b *Board) At(idx int) Cell {
	return b.cells[idx]
}

func (b *Board) AtXY(x, y int) Cell {
	return b.cells[Index(x, y)]
}

// Place puts c on an empty cell. Callers keep the hash in step.
func (b *Board) Place(idx int, c Cell) {
	if b.cells[idx] == CellEmpty && c != CellEmpty {
		b.stones++
	}
	b.cells[idx] = c
}

func (b *Board) Remove(idx int) {
	if b.cells[idx] != CellEmpty {
		b.stones--
	}
	b.cells[idx] = CellEmpty
}

func (b *Board) IsEmpty(idx int) bool {
	return idx >= 0 && idx < NumCells && b.cells[idx] == CellEmpty
}

// CheckMove reports why idx cannot be played, or nil.
func (b *Board) CheckMove(idx int) error {
	if idx < 0 || idx >= NumCells {
		return errors.Wrapf(ErrOutOfBounds, "index %d", idx)
	}
	if b.cells[idx] != CellEmpty {
		return errors.Wrapf(ErrOccupied, "index %d (%s)", idx, CoordString(idx))
	}
	return nil
}

func (b *Board) Stones() int {
	return b.stones
}

func (b *Board) CountEmpty() int {
	return NumCells - b.stones
}

func (b *Board) Full() bool {
	return b.stones == NumCells
}

// SideToMove infers the player to move from the stone count; Black opens.
func (b *Board) SideToMove() Cell {
	if b.stones%2 == 0 {
		return CellBlack
	}
	return CellWhite
}

func (b *Board) Clone() Board {
	return *b
}

func (b *Board) Equal(other *Board) bool {
	return b.cells == other.cells && b.stones == other.stones
}

func Index(x, y int) int {
	return y*BoardSize + x
}

func XY(idx int) (int, int) {
	return idx % BoardSize, idx / BoardSize
}

func IsValid(x, y int) bool {
	return x >= 0 && y >= 0 && x < BoardSize && y < BoardSize
}

// CoordString renders idx as a column letter and a 1-based row, e.g. "K11".
func CoordString(idx int) string {
	if idx < 0 || idx >= NumCells {
		return "NULL"
	}
	x, y := XY(idx)
	return string(rune('A'+x)) + strconv.Itoa(y+1)
}

// ParseCoord is the inverse of CoordString.
func ParseCoord(s string) (int, error) {
	if len(s) < 2 {
		return NoMove, errors.Errorf("invalid coordinate %q", s)
	}
	col := s[0]
	if col >= 'a' && col <= 'z' {
		col -= 'a' - 'A'
	}
	x := int(col) - 'A'
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return NoMove, errors.Wrapf(err, "invalid coordinate %q", s)
	}
	y := row - 1
	if !IsValid(x, y) {
		return NoMove, errors.Wrapf(ErrOutOfBounds, "coordinate %q", s)
	}
	return Index(x, y), nil
}
