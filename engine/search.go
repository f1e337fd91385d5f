package engine

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type ResultSource uint8

const (
	SourceNoMove ResultSource = iota
	SourceImmediateWin
	SourceImmediateBlock
	SourceOnlyMove
	SourceThreatSearch
	SourceSearch
	SourceFallback
)

func (s ResultSource) String() string {
	switch s {
	case SourceImmediateWin:
		return "immediate_win"
	case SourceImmediateBlock:
		return "immediate_block"
	case SourceOnlyMove:
		return "only_move"
	case SourceThreatSearch:
		return "threat_search"
	case SourceSearch:
		return "search"
	case SourceFallback:
		return "fallback"
	default:
		return "no_move"
	}
}

type Result struct {
	Move   int
	Score  int64
	Depth  int
	Source ResultSource
	Stats  SearchStats
}

// SearchContext owns everything one game needs between moves: the board,
// its hash, the transposition table and the ordering heuristics. It is not
// safe for concurrent use.
type SearchContext struct {
	cfg  Config
	log  zerolog.Logger
	zob  *ZobristTable
	eval *Evaluator
	tt   *TranspositionTable

	board Board
	hash  uint64

	history [NumCells]int64
	killers [][2]int

	clock       searchClock
	threatClock searchClock
	stats       SearchStats
}

func NewSearchContext(cfg Config, logger zerolog.Logger) (*SearchContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine config")
	}
	s := &SearchContext{
		cfg:     cfg,
		log:     logger,
		zob:     Zobrist(),
		eval:    NewEvaluator(cfg.DefenseScale, cfg.NoiseMagnitude),
		tt:      NewTranspositionTable(cfg.TTSize, cfg.TTReplace),
		killers: make([][2]int, cfg.MaxDepth+1),
	}
	s.board.Reset()
	s.hash = ComputeHash(&s.board)
	s.resetHeuristics()
	return s, nil
}

func (s *SearchContext) Config() Config {
	return s.cfg
}

func (s *SearchContext) Board() Board {
	return s.board.Clone()
}

func (s *SearchContext) Hash() uint64 {
	return s.hash
}

func (s *SearchContext) Stats() SearchStats {
	return s.stats
}

// Reset clears the board and every table for a new game.
func (s *SearchContext) Reset() {
	s.board.Reset()
	s.hash = ComputeHash(&s.board)
	s.tt.Clear()
	s.resetHeuristics()
	s.stats.reset()
}

// Apply records a move made outside the search, keeping the hash in step.
func (s *SearchContext) Apply(idx int, c Cell) error {
	if c != CellBlack && c != CellWhite {
		return errors.Wrapf(ErrNoStone, "apply %s", CoordString(idx))
	}
	if err := s.board.CheckMove(idx); err != nil {
		return err
	}
	s.place(idx, c)
	return nil
}

func (s *SearchContext) place(idx int, c Cell) {
	s.board.Place(idx, c)
	s.hash = s.zob.Toggle(s.hash, idx, c)
}

func (s *SearchContext) remove(idx int, c Cell) {
	s.board.Remove(idx)
	s.hash = s.zob.Toggle(s.hash, idx, c)
}

// withMove plays idx for c while fn runs and takes it back on every exit
// path.
func (s *SearchContext) withMove(idx int, c Cell, fn func()) {
	s.place(idx, c)
	defer s.remove(idx, c)
	fn()
}

// Solve picks a move for me on the current board within the time budget.
// The board is left unchanged; callers Apply the returned move themselves.
func (s *SearchContext) Solve(me Cell) Result {
	start := time.Now()
	s.clock = newSearchClock(start, millis(s.cfg.TimeLimitMs), s.cfg.NodeCheckInterval)
	s.stats.reset()
	s.resetHeuristics()
	s.tt.NextGeneration()

	op := me.Opponent()
	moves := GenerateMoves(&s.board)
	if len(moves) == 0 {
		return s.finish(Result{Move: NoMove, Source: SourceNoMove})
	}
	for _, m := range moves {
		if IsWinningMove(&s.board, m, me) {
			return s.finish(Result{Move: m, Score: InfScore, Source: SourceImmediateWin})
		}
	}
	for _, m := range moves {
		if IsWinningMove(&s.board, m, op) {
			return s.finish(Result{Move: m, Source: SourceImmediateBlock})
		}
	}
	if len(moves) == 1 {
		return s.finish(Result{Move: moves[0], Source: SourceOnlyMove})
	}

	if s.cfg.EnableThreatSearch {
		s.threatClock = s.clock.sub(millis(s.cfg.ThreatTimeLimitMs))
		if m, ok := s.solveVCT(s.cfg.ThreatDepth, me); ok {
			return s.finish(Result{Move: m, Score: ScoreWin, Source: SourceThreatSearch})
		}
	}

	fallback := Result{Move: moves[0], Source: SourceFallback}
	if s.clock.check() {
		return s.finish(fallback)
	}
	if s.cfg.NoiseMagnitude > 0 {
		s.eval.Shuffle(moves)
		fallback.Move = moves[0]
	}

	best := fallback
	for depth := 1; depth <= s.cfg.MaxDepth; depth++ {
		pv := best.Move
		if entry, ok := s.tt.Probe(s.hash); ok && entry.BestMove != NoMove && s.board.IsEmpty(int(entry.BestMove)) {
			pv = int(entry.BestMove)
		}
		score, move, completed := s.searchRoot(depth, s.orderRootMoves(moves, pv), me)
		report := DepthReport{
			Depth:    depth,
			Eval:     score,
			Nodes:    s.stats.Nodes,
			Elapsed:  s.clock.elapsed(),
			Best:     move,
			TimedOut: !completed || move == NoMove,
		}
		if report.TimedOut {
			report.Best = best.Move
		}
		if s.cfg.LogSearchStats {
			s.log.Info().EmbedObject(report).Msg("depth")
		}
		if report.TimedOut {
			break
		}
		best = Result{Move: move, Score: score, Depth: depth, Source: SourceSearch}
		s.stats.CompletedDepths = depth
		s.stats.DepthDurations = append(s.stats.DepthDurations, report.Elapsed)
		s.tt.Store(s.hash, depth, score, TTExact, move)
		if score >= ScoreWin {
			break
		}
	}
	return s.finish(best)
}

func (s *SearchContext) finish(res Result) Result {
	s.stats.Elapsed = s.clock.elapsed()
	res.Stats = s.stats
	if s.cfg.LogSearchStats {
		s.log.Info().
			Str("move", CoordString(res.Move)).
			Stringer("source", res.Source).
			Int("depth", res.Depth).
			Int64("score", res.Score).
			Object("stats", &s.stats).
			Msg("bestmove")
	}
	return res
}

func (s *SearchContext) searchRoot(depth int, moves []int, me Cell) (int64, int, bool) {
	op := me.Opponent()
	alpha, beta := -2*InfScore, 2*InfScore
	best, bestMove := -2*InfScore, NoMove
	for _, m := range moves {
		var val int64
		var ok bool
		s.withMove(m, me, func() {
			val, ok = s.alphaBeta(depth-1, 1, -beta, -alpha, op)
		})
		if !ok {
			return best, bestMove, false
		}
		val = -val
		if val > best {
			best, bestMove = val, m
		}
		alpha = max(alpha, best)
	}
	return best, bestMove, true
}

// alphaBeta is negamax with principal variation search. The score is from
// p's point of view and is only meaningful when completed is true.
func (s *SearchContext) alphaBeta(depth, ply int, alpha, beta int64, p Cell) (score int64, completed bool) {
	s.stats.Nodes++
	if s.clock.tick() {
		return 0, false
	}

	ttMove := NoMove
	s.stats.TTProbes++
	if entry, ok := s.tt.Probe(s.hash); ok {
		ttMove = int(entry.BestMove)
		if int(entry.Depth) >= depth {
			s.stats.TTHits++
			switch entry.Flag {
			case TTExact:
				return entry.Score, true
			case TTLower:
				alpha = max(alpha, entry.Score)
			case TTUpper:
				beta = min(beta, entry.Score)
			}
			if alpha >= beta {
				return entry.Score, true
			}
		}
	}

	if depth == 0 {
		return s.eval.Evaluate(&s.board, p), true
	}
	// Bounds are judged against the window after the TT narrowed it.
	alphaOrig := alpha

	moves := GenerateMoves(&s.board)
	if len(moves) == 0 {
		return 0, true
	}
	ordered, win := s.orderMoves(moves, ttMove, ply, p)
	if win {
		return InfScore, true
	}

	op := p.Opponent()
	best, bestMove := -2*InfScore, NoMove
	for i, m := range ordered {
		var val int64
		var ok bool
		s.withMove(m, p, func() {
			if i == 0 {
				val, ok = s.alphaBeta(depth-1, ply+1, -beta, -alpha, op)
				val = -val
				return
			}
			val, ok = s.alphaBeta(depth-1, ply+1, -alpha-1, -alpha, op)
			val = -val
			if ok && val > alpha && val < beta {
				s.stats.ReSearches++
				val, ok = s.alphaBeta(depth-1, ply+1, -beta, -alpha, op)
				val = -val
			}
		})
		if !ok {
			return 0, false
		}
		if val > best {
			best, bestMove = val, m
		}
		if best > alpha {
			alpha = best
			s.recordHistory(m, depth)
		}
		if alpha >= beta {
			s.stats.Cutoffs++
			s.recordKiller(ply, m)
			break
		}
	}

	flag := TTExact
	switch {
	case best <= alphaOrig:
		flag = TTUpper
	case best >= beta:
		flag = TTLower
	}
	if s.tt.Store(s.hash, depth, best, flag, bestMove) {
		s.stats.TTStores++
	}
	return best, true
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
