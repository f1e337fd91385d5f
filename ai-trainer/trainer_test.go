package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

func newTestTrainer(t *testing.T, tiers ...string) *trainer {
	t.Helper()
	return &trainer{
		log:             zerolog.Nop(),
		out:             termenv.NewOutput(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii)),
		seed:            7,
		parallel:        2,
		gamesPerPairing: 2,
		openingPlies:    2,
		eloK:            20,
		timeLimitMs:     50,
		contenders: func() []*contender {
			out := make([]*contender, 0, len(tiers))
			for _, tier := range tiers {
				out = append(out, &contender{ID: tier, Elo: 1500})
			}
			return out
		}(),
	}
}

func TestParseTiers(t *testing.T) {
	tiers, err := parseTiers(" random, LEVEL2,,level2 ,final")
	require.NoError(t, err)
	require.Equal(t, []string{"random", "level2", "final"}, tiers)

	_, err = parseTiers("random,grandmaster")
	require.ErrorIs(t, err, engine.ErrUnknownTier)
}

func TestUpdateEloConservesPoints(t *testing.T) {
	a := &contender{ID: "a", Elo: 1500}
	b := &contender{ID: "b", Elo: 1500}
	updateElo(a, b, 1, 20)
	require.InDelta(t, 1510, a.Elo, 1e-9)
	require.InDelta(t, 1490, b.Elo, 1e-9)
	require.InDelta(t, 3000, a.Elo+b.Elo, 1e-9)

	updateElo(a, b, 0.5, 20)
	require.Less(t, a.Elo, 1510.0)
	require.InDelta(t, 3000, a.Elo+b.Elo, 1e-9)
}

func TestRecordTallies(t *testing.T) {
	a := &contender{ID: "a", Elo: 1500}
	b := &contender{ID: "b", Elo: 1500}
	job := gameJob{black: a, white: b}
	job.record(engine.CellBlack, 20)
	job.record(engine.CellEmpty, 20)
	job.record(engine.CellWhite, 20)

	require.Equal(t, 1, a.Wins)
	require.Equal(t, 1, a.Losses)
	require.Equal(t, 1, a.Draws)
	require.Equal(t, 1, b.Wins)

	standings := toStandings([]*contender{b, a})
	require.Len(t, standings, 2)
	require.GreaterOrEqual(t, standings[0].Elo, standings[1].Elo)
}

func TestOpeningSuite(t *testing.T) {
	suite := buildOpeningSuite(5, 3, 42)
	require.Len(t, suite, 5)
	require.Equal(t, suite, buildOpeningSuite(5, 3, 42))
	for _, opening := range suite {
		require.Len(t, opening, 3)
		seen := map[int]bool{}
		for _, idx := range opening {
			require.False(t, seen[idx])
			seen[idx] = true
			x, y := engine.XY(idx)
			require.InDelta(t, engine.BoardSize/2, x, 2)
			require.InDelta(t, engine.BoardSize/2, y, 2)
		}
	}
}

func TestRandomMover(t *testing.T) {
	m := newRandomMover(1)
	for i := 0; i < engine.NumCells; i++ {
		idx := m.Choose(engine.CellBlack)
		require.NotEqual(t, engine.NoMove, idx)
		require.NoError(t, m.Observe(idx, engine.CellBlack))
	}
	require.Equal(t, engine.NoMove, m.Choose(engine.CellWhite))
	require.ErrorIs(t, m.Observe(0, engine.CellWhite), engine.ErrOccupied)
}

func TestRandomGameFinishes(t *testing.T) {
	tr := newTestTrainer(t, randomTier, randomTier)
	job := gameJob{black: tr.contenders[0], white: tr.contenders[1], seed: 3}
	res, err := tr.playGame(context.Background(), job)
	require.NoError(t, err)
	require.Greater(t, res.Moves, 0)
	if res.Winner == engine.CellEmpty {
		require.True(t, res.Board.Full())
	}
}

func TestEngineBeatsRandom(t *testing.T) {
	tr := newTestTrainer(t, engine.TierLevel3, randomTier)
	eng, rnd := tr.contenders[0], tr.contenders[1]

	res, err := tr.playGame(context.Background(), gameJob{black: eng, white: rnd, seed: 11})
	require.NoError(t, err)
	require.Equal(t, engine.CellBlack, res.Winner)

	res, err = tr.playGame(context.Background(), gameJob{black: rnd, white: eng, seed: 12})
	require.NoError(t, err)
	require.Equal(t, engine.CellWhite, res.Winner)
}

func TestPlayGameHonoursContext(t *testing.T) {
	tr := newTestTrainer(t, randomTier, randomTier)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.playGame(ctx, gameJob{black: tr.contenders[0], white: tr.contenders[1]})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRoundRobin(t *testing.T) {
	tr := newTestTrainer(t, randomTier, randomTier, randomTier)
	last, err := tr.run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)

	status := tr.getStatus()
	require.Equal(t, 6, status.GamesTotal)
	require.Equal(t, 6, status.GamesPlayed)
	require.Equal(t, "done", status.Phase)

	total := 0
	for _, c := range tr.contenders {
		total += c.Wins + c.Losses + c.Draws
	}
	require.Equal(t, 12, total)
}

func TestRenderBoard(t *testing.T) {
	out := termenv.NewOutput(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii))
	b := engine.NewBoard()
	b.Place(engine.Index(0, 0), engine.CellBlack)
	b.Place(engine.Index(1, 0), engine.CellWhite)

	lines := strings.Split(strings.TrimRight(renderBoard(out, &b), "\n"), "\n")
	require.Len(t, lines, engine.BoardSize+1)
	require.True(t, strings.HasPrefix(lines[0], "    A B C"))
	require.True(t, strings.HasPrefix(lines[1], "  1 X O . "))
}
