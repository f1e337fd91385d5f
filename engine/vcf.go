package engine

import "time"

// SolveVCF looks for a win for p made only of fours, under a fresh threat
// clock. It reports false when no win is proven, including on timeout.
func (s *SearchContext) SolveVCF(depth int, p Cell) (int, bool) {
	s.startThreatClock()
	return s.solveVCF(depth, p)
}

// SolveVCT is SolveVCF widened to threes, with every defence refuted.
func (s *SearchContext) SolveVCT(depth int, p Cell) (int, bool) {
	s.startThreatClock()
	return s.solveVCT(depth, p)
}

func (s *SearchContext) startThreatClock() {
	s.threatClock = newSearchClock(time.Now(), millis(s.cfg.ThreatTimeLimitMs), 1)
}

func (s *SearchContext) threatExpired() bool {
	s.stats.ThreatNodes++
	return s.threatClock.check()
}

// hasDangerousThreat reports whether p can make a four or five next move.
func (s *SearchContext) hasDangerousThreat(p Cell) bool {
	for _, m := range GenerateMoves(&s.board) {
		if MoveStatus(&s.board, m, p) >= ThreatClosedFour {
			return true
		}
	}
	return false
}

func (s *SearchContext) winningReplies(p Cell) []int {
	var wins []int
	for _, m := range GenerateMoves(&s.board) {
		if IsWinningMove(&s.board, m, p) {
			wins = append(wins, m)
		}
	}
	return wins
}

func (s *SearchContext) solveVCF(depth int, p Cell) (int, bool) {
	if s.threatExpired() || depth == 0 {
		return NoMove, false
	}
	op := p.Opponent()

	var candidates []int
	for _, m := range GenerateMoves(&s.board) {
		status := MoveStatus(&s.board, m, p)
		if status == ThreatWin {
			return m, true
		}
		if status >= ThreatClosedFour {
			candidates = append(candidates, m)
		}
	}

	for _, m := range candidates {
		won := false
		s.withMove(m, p, func() {
			if s.hasDangerousThreat(op) {
				return
			}
			replies := s.winningReplies(p)
			switch len(replies) {
			case 0:
			case 1:
				s.withMove(replies[0], op, func() {
					_, won = s.solveVCF(depth-1, p)
				})
			default:
				won = true
			}
		})
		if won {
			return m, true
		}
		if s.threatClock.expired {
			return NoMove, false
		}
	}
	return NoMove, false
}

func (s *SearchContext) solveVCT(depth int, p Cell) (int, bool) {
	if s.threatExpired() {
		return NoMove, false
	}
	if m, ok := s.solveVCF(depth, p); ok {
		return m, true
	}
	if depth == 0 || s.threatClock.expired {
		return NoMove, false
	}
	op := p.Opponent()

	var candidates []int
	for _, m := range GenerateMoves(&s.board) {
		status := MoveStatus(&s.board, m, p)
		if status >= ThreatDeadThree && status < ThreatWin {
			candidates = append(candidates, m)
		}
	}

	for _, m := range candidates {
		won := false
		s.withMove(m, p, func() {
			if s.hasDangerousThreat(op) {
				return
			}
			won = s.refutesAllDefences(depth, p)
		})
		if won {
			return m, true
		}
		if s.threatClock.expired {
			return NoMove, false
		}
	}
	return NoMove, false
}

// refutesAllDefences reports whether p keeps a proven win against every
// reply the opponent can make in the current position.
func (s *SearchContext) refutesAllDefences(depth int, p Cell) bool {
	op := p.Opponent()
	defences := GenerateMoves(&s.board)
	if len(defences) == 0 {
		return false
	}
	for _, d := range defences {
		if IsWinningMove(&s.board, d, op) {
			return false
		}
		held := false
		s.withMove(d, op, func() {
			_, held = s.solveVCT(depth-1, p)
		})
		if !held {
			return false
		}
	}
	return true
}
