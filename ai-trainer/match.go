package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

type gameJob struct {
	black   *contender
	white   *contender
	opening []int
	seed    uint64
}

type gameResult struct {
	Winner  engine.Cell
	Moves   int
	Board   engine.Board
	Elapsed time.Duration
}

// mover is one side of a trainer game. Observe sees every stone placed,
// including the mover's own.
type mover interface {
	Observe(idx int, c engine.Cell) error
	Choose(me engine.Cell) int
}

type engineMover struct {
	search *engine.SearchContext
}

func (m *engineMover) Observe(idx int, c engine.Cell) error {
	return m.search.Apply(idx, c)
}

func (m *engineMover) Choose(me engine.Cell) int {
	return m.search.Solve(me).Move
}

// randomMover plays a uniformly random empty cell.
type randomMover struct {
	board engine.Board
	rng   *rand.Rand
}

func newRandomMover(seed uint64) *randomMover {
	return &randomMover{rng: rand.New(rand.NewSource(seed))}
}

func (m *randomMover) Observe(idx int, c engine.Cell) error {
	if err := m.board.CheckMove(idx); err != nil {
		return err
	}
	m.board.Place(idx, c)
	return nil
}

func (m *randomMover) Choose(engine.Cell) int {
	empty := m.board.CountEmpty()
	if empty == 0 {
		return engine.NoMove
	}
	pick := m.rng.Intn(empty)
	for idx := 0; idx < engine.NumCells; idx++ {
		if !m.board.IsEmpty(idx) {
			continue
		}
		if pick == 0 {
			return idx
		}
		pick--
	}
	return engine.NoMove
}

func (t *trainer) newMover(tier string, seed uint64) (mover, error) {
	if tier == randomTier {
		return newRandomMover(seed), nil
	}
	cfg, err := engine.TierConfig(tier)
	if err != nil {
		return nil, err
	}
	if t.timeLimitMs > 0 {
		cfg.TimeLimitMs = t.timeLimitMs
		cfg.ThreatTimeLimitMs = min(cfg.ThreatTimeLimitMs, t.timeLimitMs/4)
	}
	cfg.LogSearchStats = false
	search, err := engine.NewSearchContext(cfg, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	return &engineMover{search: search}, nil
}

// playGame runs one game to a win, a full board, or a pass. The referee
// judges every move, so an engine bug surfaces as an error.
func (t *trainer) playGame(ctx context.Context, job gameJob) (gameResult, error) {
	start := time.Now()
	black, err := t.newMover(job.black.ID, job.seed)
	if err != nil {
		return gameResult{}, err
	}
	white, err := t.newMover(job.white.ID, job.seed^0x9e3779b97f4a7c15)
	if err != nil {
		return gameResult{}, err
	}
	movers := map[engine.Cell]mover{engine.CellBlack: black, engine.CellWhite: white}
	ref := engine.NewReferee()

	finish := func(winner engine.Cell) gameResult {
		return gameResult{
			Winner:  winner,
			Moves:   len(ref.Moves()),
			Board:   ref.Board(),
			Elapsed: time.Since(start),
		}
	}
	play := func(idx int, c engine.Cell) (engine.Verdict, error) {
		verdict, err := ref.Play(idx, c)
		if err != nil {
			return verdict, errors.Wrapf(err, "%s played %s", c, engine.CoordString(idx))
		}
		for _, m := range movers {
			if err := m.Observe(idx, c); err != nil {
				return verdict, err
			}
		}
		return verdict, nil
	}

	side := engine.CellBlack
	for _, idx := range job.opening {
		if _, err := play(idx, side); err != nil {
			return gameResult{}, errors.Wrap(err, "opening")
		}
		side = side.Opponent()
	}

	for {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		idx := movers[side].Choose(side)
		if idx == engine.NoMove {
			return finish(engine.CellEmpty), nil
		}
		verdict, err := play(idx, side)
		if err != nil {
			return gameResult{}, err
		}
		switch verdict {
		case engine.VerdictWin:
			return finish(side), nil
		case engine.VerdictDraw:
			return finish(engine.CellEmpty), nil
		}
		side = side.Opponent()
	}
}

var openingOffsets = [][2]int{
	{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}, {2, 0}, {0, 2},
}

// buildOpeningSuite returns count openings of plies distinct cells near the
// centre. The same seed gives the same suite.
func buildOpeningSuite(count, plies int, seed uint64) [][]int {
	plies = min(plies, len(openingOffsets))
	rng := rand.New(rand.NewSource(seed*97 + uint64(plies)*13))
	center := engine.BoardSize / 2
	suite := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		used := make(map[int]bool, plies)
		opening := make([]int, 0, plies)
		for len(opening) < plies {
			off := openingOffsets[rng.Intn(len(openingOffsets))]
			idx := engine.Index(center+off[0], center+off[1])
			if used[idx] {
				continue
			}
			used[idx] = true
			opening = append(opening, idx)
		}
		suite = append(suite, opening)
	}
	return suite
}
