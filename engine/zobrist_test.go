package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestContext(t *testing.T, mutate func(*Config)) *SearchContext {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TTSize = 1 << 16
	if mutate != nil {
		mutate(&cfg)
	}
	ctx, err := NewSearchContext(cfg, zerolog.Nop())
	require.NoError(t, err)
	return ctx
}

func TestZobristIsDeterministic(t *testing.T) {
	require.Same(t, Zobrist(), Zobrist())
	z := Zobrist()
	seen := make(map[uint64]struct{}, NumCells*2+1)
	for idx := 0; idx < NumCells; idx++ {
		seen[z.stone(idx, CellBlack)] = struct{}{}
		seen[z.stone(idx, CellWhite)] = struct{}{}
	}
	seen[z.Side()] = struct{}{}
	require.Len(t, seen, NumCells*2+1)

	empty := NewBoard()
	require.Equal(t, z.Side(), ComputeHash(&empty))
}

func TestHashMatchesRecomputeAfterRandomGames(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 20; game++ {
		ctx := newTestContext(t, nil)
		player := CellBlack
		for ply := 0; ply < 120; ply++ {
			idx := rng.Intn(NumCells)
			if !ctx.board.IsEmpty(idx) {
				continue
			}
			require.NoError(t, ctx.Apply(idx, player))
			board := ctx.Board()
			require.Equal(t, ComputeHash(&board), ctx.Hash(), "game %d ply %d", game, ply)
			player = player.Opponent()
		}
	}
}

func TestWithMoveRestoresBoardAndHash(t *testing.T) {
	ctx := newTestContext(t, nil)
	require.NoError(t, ctx.Apply(CenterCell, CellBlack))
	require.NoError(t, ctx.Apply(CenterCell+1, CellWhite))

	before := ctx.Board()
	hash := ctx.Hash()

	ctx.withMove(CenterCell+2, CellBlack, func() {
		require.NotEqual(t, hash, ctx.Hash())
		require.Equal(t, CellBlack, ctx.board.At(CenterCell+2))
		board := ctx.Board()
		require.Equal(t, ComputeHash(&board), ctx.Hash())
		ctx.withMove(CenterCell+3, CellWhite, func() {
			board := ctx.Board()
			require.Equal(t, ComputeHash(&board), ctx.Hash())
		})
	})
	after := ctx.Board()
	require.True(t, before.Equal(&after))
	require.Equal(t, hash, ctx.Hash())

	require.Panics(t, func() {
		ctx.withMove(CenterCell+2, CellBlack, func() {
			panic("abort")
		})
	})
	after = ctx.Board()
	require.True(t, before.Equal(&after))
	require.Equal(t, hash, ctx.Hash())
}

func TestApplyRejectsIllegalMoves(t *testing.T) {
	ctx := newTestContext(t, nil)
	require.NoError(t, ctx.Apply(CenterCell, CellBlack))
	hash := ctx.Hash()

	require.ErrorIs(t, ctx.Apply(CenterCell, CellWhite), ErrOccupied)
	require.ErrorIs(t, ctx.Apply(-1, CellWhite), ErrOutOfBounds)
	require.ErrorIs(t, ctx.Apply(NumCells, CellWhite), ErrOutOfBounds)
	require.ErrorIs(t, ctx.Apply(0, CellEmpty), ErrNoStone)
	require.Equal(t, hash, ctx.Hash())

	ctx.Reset()
	require.Equal(t, Zobrist().Side(), ctx.Hash())
	require.Equal(t, 0, ctx.board.Stones())
}
