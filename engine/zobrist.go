package engine

import "sync"

const zobristSeed = uint64(0x9e3779b97f4a7c15) ^ 12345

type ZobristTable struct {
	cells [NumCells][2]uint64
	side  uint64
}

var (
	zobristOnce  sync.Once
	zobristTable *ZobristTable
)

// Zobrist returns the process-wide table. Keys come from a fixed seed so
// hashes are identical across runs.
func Zobrist() *ZobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: zobristSeed}
		table := &ZobristTable{}
		for i := range table.cells {
			table.cells[i][0] = rng.next()
			table.cells[i][1] = rng.next()
		}
		table.side = rng.next()
		zobristTable = table
	})
	return zobristTable
}

func (z *ZobristTable) stone(idx int, c Cell) uint64 {
	if c == CellWhite {
		return z.cells[idx][1]
	}
	return z.cells[idx][0]
}

// Side is the side-to-move key, present while Black is to move.
func (z *ZobristTable) Side() uint64 {
	return z.side
}

// Toggle flips the stone key of (idx, c) and the side-to-move key. It is
// its own inverse.
func (z *ZobristTable) Toggle(hash uint64, idx int, c Cell) uint64 {
	return hash ^ z.stone(idx, c) ^ z.side
}

// ComputeHash hashes b from scratch.
func ComputeHash(b *Board) uint64 {
	z := Zobrist()
	var hash uint64
	for idx := 0; idx < NumCells; idx++ {
		cell := b.At(idx)
		if cell == CellEmpty {
			continue
		}
		hash ^= z.stone(idx, cell)
	}
	if b.SideToMove() == CellBlack {
		hash ^= z.side
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func mixKey(v uint64) uint64 {
	s := splitmix64{state: v}
	return s.next()
}
