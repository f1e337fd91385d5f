package engine

const genRadius = 2

type bbox struct {
	minX, minY, maxX, maxY int
}

func computeBBox(b *Board) (bbox, bool) {
	box := bbox{minX: BoardSize, minY: BoardSize, maxX: -1, maxY: -1}
	if b.Stones() == 0 {
		return box, false
	}
	for idx := 0; idx < NumCells; idx++ {
		if b.At(idx) == CellEmpty {
			continue
		}
		x, y := XY(idx)
		box.minX = min(box.minX, x)
		box.minY = min(box.minY, y)
		box.maxX = max(box.maxX, x)
		box.maxY = max(box.maxY, y)
	}
	return box, true
}

func (bb bbox) expand(r int) bbox {
	return bbox{
		minX: max(0, bb.minX-r),
		minY: max(0, bb.minY-r),
		maxX: min(BoardSize-1, bb.maxX+r),
		maxY: min(BoardSize-1, bb.maxY+r),
	}
}

// GenerateMoves lists the empty cells inside the stones' bounding box
// (grown by two) that touch at least one stone. An empty board yields the
// centre. The order is row-major and carries no preference.
func GenerateMoves(b *Board) []int {
	box, ok := computeBBox(b)
	if !ok {
		return []int{CenterCell}
	}
	box = box.expand(genRadius)
	moves := make([]int, 0, (box.maxX-box.minX+1)*(box.maxY-box.minY+1))
	for y := box.minY; y <= box.maxY; y++ {
		for x := box.minX; x <= box.maxX; x++ {
			if b.AtXY(x, y) != CellEmpty {
				continue
			}
			if hasNeighbor(b, x, y) {
				moves = append(moves, Index(x, y))
			}
		}
	}
	return moves
}

func hasNeighbor(b *Board, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if IsValid(nx, ny) && b.AtXY(nx, ny) != CellEmpty {
				return true
			}
		}
	}
	return false
}
