package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

// runBot speaks the line protocol: each input line is the opponent's cell
// index, or -1 on an empty board to make the engine open as Black. Each
// reply is the engine's index, or -1 when the board is full.
func runBot(ctx context.Context, in io.Reader, out io.Writer, search *engine.SearchContext) error {
	me := engine.CellWhite
	scanner := bufio.NewScanner(in)
	writer := bufio.NewWriter(out)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx, err := strconv.Atoi(line)
		if err != nil {
			return errors.Wrapf(err, "bad input line %q", line)
		}
		if idx == engine.NoMove {
			if b := search.Board(); b.Stones() > 0 {
				return errors.New("-1 is only valid before the first move")
			}
			me = engine.CellBlack
		} else if err := search.Apply(idx, me.Opponent()); err != nil {
			return errors.Wrap(err, "opponent move")
		}

		res := search.Solve(me)
		if res.Move != engine.NoMove {
			if err := search.Apply(res.Move, me); err != nil {
				return errors.Wrap(err, "engine move")
			}
		}
		if _, err := fmt.Fprintln(writer, res.Move); err != nil {
			return errors.Wrap(err, "write move")
		}
		if err := writer.Flush(); err != nil {
			return errors.Wrap(err, "write move")
		}
	}
	return errors.Wrap(scanner.Err(), "read input")
}
