package engine

type ThreatStatus int8

const (
	ThreatNone ThreatStatus = iota
	ThreatDeadThree
	ThreatOpenThree
	ThreatClosedFour
	ThreatOpenFour
	ThreatWin
)

func (s ThreatStatus) String() string {
	switch s {
	case ThreatDeadThree:
		return "dead_three"
	case ThreatOpenThree:
		return "open_three"
	case ThreatClosedFour:
		return "closed_four"
	case ThreatOpenFour:
		return "open_four"
	case ThreatWin:
		return "win"
	default:
		return "none"
	}
}

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// MoveStatus classifies the strongest line p would own after playing idx.
// idx is treated as holding p; the board is only read.
func MoveStatus(b *Board, idx int, p Cell) ThreatStatus {
	cx, cy := XY(idx)
	best := ThreatNone
	for _, dir := range directions {
		dx, dy := dir[0], dir[1]
		forward, openForward := walkRun(b, cx, cy, dx, dy, p)
		backward, openBackward := walkRun(b, cx, cy, -dx, -dy, p)
		count := 1 + forward + backward
		openEnds := 0
		if openForward {
			openEnds++
		}
		if openBackward {
			openEnds++
		}
		if status := classifyRun(count, openEnds); status > best {
			best = status
			if best == ThreatWin {
				return best
			}
		}
	}
	return best
}

// walkRun counts p stones from (x,y) exclusive in one direction and reports
// whether the cell closing the run is empty.
func walkRun(b *Board, x, y, dx, dy int, p Cell) (int, bool) {
	count := 0
	nx, ny := x+dx, y+dy
	for IsValid(nx, ny) && b.AtXY(nx, ny) == p {
		count++
		nx += dx
		ny += dy
	}
	return count, IsValid(nx, ny) && b.AtXY(nx, ny) == CellEmpty
}

func classifyRun(count, openEnds int) ThreatStatus {
	switch {
	case count >= WinLength:
		return ThreatWin
	case count == 4 && openEnds == 2:
		return ThreatOpenFour
	case count == 4 && openEnds == 1:
		return ThreatClosedFour
	case count == 3 && openEnds == 2:
		return ThreatOpenThree
	case count == 3 && openEnds == 1:
		return ThreatDeadThree
	default:
		return ThreatNone
	}
}

// IsWinningMove reports whether p playing idx completes five or more.
func IsWinningMove(b *Board, idx int, p Cell) bool {
	return MoveStatus(b, idx, p) == ThreatWin
}
