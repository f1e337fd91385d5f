package main

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/samber/lo"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

type contender struct {
	ID     string
	Elo    float64
	Wins   int
	Losses int
	Draws  int
}

type trainerStanding struct {
	ID     string  `json:"id"`
	Elo    float64 `json:"elo"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Draws  int     `json:"draws"`
}

// record scores a finished game for both sides.
func (j gameJob) record(winner engine.Cell, k float64) {
	result := 0.5
	switch winner {
	case engine.CellBlack:
		result = 1
		j.black.Wins++
		j.white.Losses++
	case engine.CellWhite:
		result = 0
		j.white.Wins++
		j.black.Losses++
	default:
		j.black.Draws++
		j.white.Draws++
	}
	updateElo(j.black, j.white, result, k)
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

func toStandings(list []*contender) []trainerStanding {
	out := lo.Map(list, func(c *contender, _ int) trainerStanding {
		return trainerStanding{ID: c.ID, Elo: c.Elo, Wins: c.Wins, Losses: c.Losses, Draws: c.Draws}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Elo > out[j].Elo
	})
	return out
}

func (t *trainer) printStandings() {
	header := t.out.String(fmt.Sprintf("%-4s %-8s %8s %5s %5s %5s", "#", "tier", "elo", "W", "L", "D")).Bold()
	fmt.Fprintln(t.out, header)
	for i, s := range toStandings(t.contenders) {
		fmt.Fprintf(t.out, "%-4d %-8s %8.1f %5d %5d %5d\n", i+1, s.ID, s.Elo, s.Wins, s.Losses, s.Draws)
	}
}

// renderBoard draws the board with column letters and row numbers, Black as
// X and White as O.
func renderBoard(out *termenv.Output, b *engine.Board) string {
	black := out.String("X").Foreground(out.Color("1")).Bold()
	white := out.String("O").Foreground(out.Color("4")).Bold()
	dot := out.String(".").Faint()

	var sb strings.Builder
	sb.WriteString("    ")
	for x := 0; x < engine.BoardSize; x++ {
		sb.WriteString(string(rune('A'+x)) + " ")
	}
	sb.WriteString("\n")
	for y := 0; y < engine.BoardSize; y++ {
		fmt.Fprintf(&sb, "%3d ", y+1)
		for x := 0; x < engine.BoardSize; x++ {
			switch b.AtXY(x, y) {
			case engine.CellBlack:
				sb.WriteString(black.String())
			case engine.CellWhite:
				sb.WriteString(white.String())
			default:
				sb.WriteString(dot.String())
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
