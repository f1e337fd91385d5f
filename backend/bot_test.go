package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

func fastConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.TimeLimitMs = 100
	cfg.ThreatTimeLimitMs = 20
	cfg.TTSize = 1 << 14
	cfg.LogSearchStats = false
	return cfg
}

func newBotSearch(t *testing.T) *engine.SearchContext {
	t.Helper()
	search, err := engine.NewSearchContext(fastConfig(), zerolog.Nop())
	require.NoError(t, err)
	return search
}

func runBotLines(t *testing.T, input string) ([]string, error) {
	t.Helper()
	var out bytes.Buffer
	err := runBot(context.Background(), strings.NewReader(input), &out, newBotSearch(t))
	return strings.Fields(out.String()), err
}

func TestRunBotOpensInCentre(t *testing.T) {
	lines, err := runBotLines(t, "-1\n")
	require.NoError(t, err)
	require.Equal(t, []string{strconv.Itoa(engine.CenterCell)}, lines)
}

func TestRunBotAnswersWithLegalMove(t *testing.T) {
	lines, err := runBotLines(t, "210\n")
	require.NoError(t, err)
	require.Len(t, lines, 1)

	reply, err := strconv.Atoi(lines[0])
	require.NoError(t, err)
	require.True(t, reply >= 0 && reply < engine.NumCells)
	require.NotEqual(t, 210, reply)
}

func TestRunBotSkipsBlankLines(t *testing.T) {
	lines, err := runBotLines(t, "\n  \n210\n")
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestRunBotRejectsGarbage(t *testing.T) {
	_, err := runBotLines(t, "abc\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad input line")
}

func TestRunBotRejectsIllegalOpponentMoves(t *testing.T) {
	lines, err := runBotLines(t, "210\n210\n")
	require.True(t, errors.Is(err, engine.ErrOccupied), "got %v", err)
	require.Len(t, lines, 1)

	_, err = runBotLines(t, "400\n")
	require.True(t, errors.Is(err, engine.ErrOutOfBounds), "got %v", err)
}

func TestRunBotStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := runBot(ctx, strings.NewReader("210\n"), &out, newBotSearch(t))
	require.NoError(t, err)
	require.Empty(t, out.String())
}

func TestRunBotOpensOnlyOnEmptyBoard(t *testing.T) {
	lines, err := runBotLines(t, "-1\n-1\n")
	require.Error(t, err)
	require.Len(t, lines, 1)

	lines, err = runBotLines(t, "210\n-1\n")
	require.Error(t, err)
	require.Len(t, lines, 1)
}
