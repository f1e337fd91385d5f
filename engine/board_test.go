package engine

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func placeXY(b *Board, c Cell, coords ...[2]int) {
	for _, xy := range coords {
		b.Place(Index(xy[0], xy[1]), c)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	for idx := 0; idx < NumCells; idx++ {
		x, y := XY(idx)
		require.True(t, IsValid(x, y))
		require.Equal(t, idx, Index(x, y))
	}
	require.False(t, IsValid(-1, 0))
	require.False(t, IsValid(0, BoardSize))
}

func TestCoordString(t *testing.T) {
	require.Equal(t, 210, CenterCell)
	require.Equal(t, "K11", CoordString(CenterCell))
	require.Equal(t, "A1", CoordString(0))
	require.Equal(t, "T20", CoordString(NumCells-1))
	require.Equal(t, "NULL", CoordString(NoMove))

	for _, s := range []string{"K11", "A1", "T20", "C7"} {
		idx, err := ParseCoord(s)
		require.NoError(t, err)
		require.Equal(t, s, CoordString(idx))
	}
	idx, err := ParseCoord("k11")
	require.NoError(t, err)
	require.Equal(t, CenterCell, idx)

	_, err = ParseCoord("Z1")
	require.True(t, errors.Is(err, ErrOutOfBounds))
	_, err = ParseCoord("A0")
	require.True(t, errors.Is(err, ErrOutOfBounds))
	_, err = ParseCoord("Kx")
	require.Error(t, err)
	_, err = ParseCoord("K")
	require.Error(t, err)
}

func TestBoardPlaceRemove(t *testing.T) {
	b := NewBoard()
	require.Equal(t, CellBlack, b.SideToMove())
	require.Equal(t, NumCells, b.CountEmpty())

	b.Place(CenterCell, CellBlack)
	require.Equal(t, 1, b.Stones())
	require.Equal(t, CellWhite, b.SideToMove())
	require.False(t, b.IsEmpty(CenterCell))

	err := b.CheckMove(CenterCell)
	require.True(t, errors.Is(err, ErrOccupied))
	err = b.CheckMove(NumCells)
	require.True(t, errors.Is(err, ErrOutOfBounds))
	require.NoError(t, b.CheckMove(0))

	snapshot := b.Clone()
	b.Place(0, CellWhite)
	b.Remove(0)
	require.True(t, b.Equal(&snapshot))

	b.Reset()
	require.Equal(t, 0, b.Stones())
	require.Equal(t, CellEmpty, b.At(CenterCell))
}

func TestCellOpponent(t *testing.T) {
	require.Equal(t, CellWhite, CellBlack.Opponent())
	require.Equal(t, CellBlack, CellWhite.Opponent())
	require.Equal(t, CellEmpty, CellEmpty.Opponent())
	require.Equal(t, "Black", CellBlack.String())
}
