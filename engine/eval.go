package engine

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
)

const (
	InfScore   int64 = 1e16
	ScoreWin   int64 = 1e14
	ScoreLive4 int64 = 1e11
	ScoreDead4 int64 = 1e7
	ScoreLive3 int64 = 1e7
	ScoreDead3 int64 = 2e6
	ScoreLive2 int64 = 1e6
	ScoreDead2 int64 = 1e4
)

var (
	noiseSeed    = uint64(time.Now().UnixNano())
	noiseStreams atomic.Uint64
)

var (
	linesOnce sync.Once
	lines     [][]int
)

// boardLines returns every row, column and diagonal long enough to hold five.
func boardLines() [][]int {
	linesOnce.Do(func() {
		lines = buildLines()
	})
	return lines
}

func buildLines() [][]int {
	out := [][]int{}
	for y := 0; y < BoardSize; y++ {
		line := make([]int, 0, BoardSize)
		for x := 0; x < BoardSize; x++ {
			line = append(line, Index(x, y))
		}
		out = append(out, line)
	}
	for x := 0; x < BoardSize; x++ {
		line := make([]int, 0, BoardSize)
		for y := 0; y < BoardSize; y++ {
			line = append(line, Index(x, y))
		}
		out = append(out, line)
	}
	// Diagonals (\)
	for x := 0; x < BoardSize; x++ {
		if line := collectDiag(x, 0, 1, 1); len(line) >= WinLength {
			out = append(out, line)
		}
	}
	for y := 1; y < BoardSize; y++ {
		if line := collectDiag(0, y, 1, 1); len(line) >= WinLength {
			out = append(out, line)
		}
	}
	// Anti-diagonals (/)
	for x := 0; x < BoardSize; x++ {
		if line := collectDiag(x, 0, -1, 1); len(line) >= WinLength {
			out = append(out, line)
		}
	}
	for y := 1; y < BoardSize; y++ {
		if line := collectDiag(BoardSize-1, y, -1, 1); len(line) >= WinLength {
			out = append(out, line)
		}
	}
	return out
}

func collectDiag(startX, startY, dx, dy int) []int {
	line := []int{}
	for x, y := startX, startY; IsValid(x, y); x, y = x+dx, y+dy {
		line = append(line, Index(x, y))
	}
	return line
}

// EvaluateLine scores the maximal runs of p in cells. A run of five or more
// short-circuits to InfScore.
func EvaluateLine(cells []Cell, p Cell) int64 {
	var score int64
	n := len(cells)
	for i := 0; i < n; {
		if cells[i] != p {
			i++
			continue
		}
		start := i
		for i < n && cells[i] == p {
			i++
		}
		count := i - start
		openEnds := 0
		if start > 0 && cells[start-1] == CellEmpty {
			openEnds++
		}
		if i < n && cells[i] == CellEmpty {
			openEnds++
		}
		if count >= WinLength {
			return InfScore
		}
		score += runScore(count, openEnds)
	}
	return score
}

func runScore(count, openEnds int) int64 {
	switch count {
	case 4:
		if openEnds == 2 {
			return ScoreLive4
		}
		if openEnds == 1 {
			return ScoreDead4
		}
	case 3:
		if openEnds == 2 {
			return ScoreLive3
		}
		if openEnds == 1 {
			return ScoreDead3
		}
	case 2:
		if openEnds == 2 {
			return ScoreLive2
		}
		if openEnds == 1 {
			return ScoreDead2
		}
	}
	return 0
}

// Evaluator is the static evaluation used at search leaves.
type Evaluator struct {
	defense float64
	noise   int64
	rng     *rand.Rand
}

func NewEvaluator(defense float64, noise int64) *Evaluator {
	stream := noiseStreams.Add(1)
	return &Evaluator{
		defense: defense,
		noise:   noise,
		rng:     rand.New(rand.NewSource(noiseSeed ^ mixKey(stream))),
	}
}

// Evaluate scores b from p's point of view. Five in a row for either side
// returns the signed InfScore at once.
func (e *Evaluator) Evaluate(b *Board, p Cell) int64 {
	op := p.Opponent()
	var mine, theirs int64
	var buf [BoardSize]Cell
	for _, line := range boardLines() {
		cells := buf[:len(line)]
		for i, idx := range line {
			cells[i] = b.At(idx)
		}
		sp := EvaluateLine(cells, p)
		if sp >= ScoreWin {
			return InfScore
		}
		so := EvaluateLine(cells, op)
		if so >= ScoreWin {
			return -InfScore
		}
		mine += sp
		theirs += so
	}
	total := mine - int64(math.Round(float64(theirs)*e.defense))
	if e.noise > 0 && abs64(total) < ScoreDead3 {
		total += e.rng.Int63n(e.noise*2+1) - e.noise
	}
	return total
}

// Shuffle permutes moves with the evaluator's generator.
func (e *Evaluator) Shuffle(moves []int) {
	e.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
