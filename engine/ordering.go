package engine

import "sort"

const (
	orderTTMove int64 = 1e18
	orderFour   int64 = 1e17
	orderThree  int64 = 1e16

	killerBonusFirst  int64 = 10000
	killerBonusSecond int64 = 5000

	historyCeiling int64 = 1 << 50
)

type scoredMove struct {
	score int64
	move  int
}

func (s *SearchContext) resetHeuristics() {
	s.history = [NumCells]int64{}
	for i := range s.killers {
		s.killers[i] = [2]int{NoMove, NoMove}
	}
}

func (s *SearchContext) recordHistory(move, depth int) {
	s.history[move] += int64(depth * depth)
	if s.history[move] > historyCeiling {
		s.history[move] /= 2
	}
}

// recordKiller keeps the two most recent cutoff moves for a ply.
func (s *SearchContext) recordKiller(ply, move int) {
	if ply < 0 || ply >= len(s.killers) {
		return
	}
	if s.killers[ply][0] == move {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = move
}

func (s *SearchContext) killerBonus(ply, move int) int64 {
	if ply < 0 || ply >= len(s.killers) {
		return 0
	}
	switch move {
	case s.killers[ply][0]:
		return killerBonusFirst
	case s.killers[ply][1]:
		return killerBonusSecond
	}
	return 0
}

// orderMoves sorts moves for p, best first. The second result reports that
// one of the moves completes five for p; the order is not built then.
func (s *SearchContext) orderMoves(moves []int, ttMove, ply int, p Cell) ([]int, bool) {
	op := p.Opponent()
	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		mine := MoveStatus(&s.board, m, p)
		if mine == ThreatWin {
			return nil, true
		}
		var score int64
		switch {
		case m == ttMove:
			score = orderTTMove
		case mine >= ThreatClosedFour:
			score = orderFour
		case mine >= ThreatOpenThree:
			score = orderThree
		default:
			if MoveStatus(&s.board, m, op) >= ThreatClosedFour {
				score = orderThree
			} else {
				score = s.history[m]
			}
		}
		score += s.killerBonus(ply, m)
		scored = append(scored, scoredMove{score: score, move: m})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	ordered := moves[:0]
	for _, sm := range scored {
		ordered = append(ordered, sm.move)
	}
	return ordered, false
}

// orderRootMoves sorts by history with pv forced first.
func (s *SearchContext) orderRootMoves(moves []int, pv int) []int {
	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		score := s.history[m]
		if m == pv {
			score += orderTTMove
		}
		scored = append(scored, scoredMove{score: score, move: m})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	ordered := make([]int, 0, len(scored))
	for _, sm := range scored {
		ordered = append(ordered, sm.move)
	}
	return ordered
}
