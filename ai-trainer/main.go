package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

const randomTier = "random"

type trainer struct {
	log      zerolog.Logger
	out      *termenv.Output
	apiAddr  string
	seed     uint64
	parallel int

	gamesPerPairing int
	openingPlies    int
	eloK            float64
	timeLimitMs     int

	contenders []*contender

	statusMu sync.RWMutex
	status   trainerStatus
}

type trainerStatus struct {
	Running     bool              `json:"running"`
	Phase       string            `json:"phase"`
	StartedAt   string            `json:"started_at"`
	UpdatedAt   string            `json:"updated_at"`
	GamesPlayed int               `json:"games_played"`
	GamesTotal  int               `json:"games_total"`
	EtaSeconds  int               `json:"eta_seconds"`
	Standings   []trainerStanding `json:"standings,omitempty"`
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Str("component", "trainer").Logger()

	t, err := newTrainerFromEnv(logger, termenv.NewOutput(os.Stdout))
	if err != nil {
		logger.Fatal().Err(err).Msg("bad trainer configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if t.apiAddr != "" {
		t.startStatusAPI(ctx)
	}
	last, err := t.run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("training failed")
	}
	t.printStandings()
	if last != nil {
		fmt.Fprintln(t.out, renderBoard(t.out, &last.Board))
	}
}

func newTrainerFromEnv(logger zerolog.Logger, out *termenv.Output) (*trainer, error) {
	tiers, err := parseTiers(getenv("GOMOKU_TRAINER_TIERS", "random,level2,level3"))
	if err != nil {
		return nil, err
	}
	if len(tiers) < 2 {
		return nil, errors.Errorf("need at least two tiers, got %v", tiers)
	}
	games := getenvInt("GOMOKU_TRAINER_GAMES", 4)
	if games%2 != 0 {
		games++
	}
	eloK := getenvFloat("GOMOKU_TRAINER_ELO_K", 20)
	if eloK <= 0 {
		eloK = 20
	}
	parallel := getenvInt("GOMOKU_TRAINER_PARALLEL", max(runtime.NumCPU()/2, 1))

	t := &trainer{
		log:             logger,
		out:             out,
		apiAddr:         getenv("GOMOKU_TRAINER_API_ADDR", ""),
		seed:            uint64(getenvInt("GOMOKU_TRAINER_SEED", int(time.Now().UnixNano()&0x7fffffff))),
		parallel:        parallel,
		gamesPerPairing: games,
		openingPlies:    getenvInt("GOMOKU_TRAINER_OPENING_PLIES", 2),
		eloK:            eloK,
		timeLimitMs:     getenvInt("GOMOKU_TRAINER_TIME_LIMIT_MS", 0),
		contenders: lo.Map(tiers, func(tier string, _ int) *contender {
			return &contender{ID: tier, Elo: 1500}
		}),
		status: trainerStatus{
			Phase:     "idle",
			StartedAt: time.Now().UTC().Format(time.RFC3339),
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	return t, nil
}

// parseTiers splits a comma list, dropping blanks and repeats. Every name
// must be a tier preset or "random".
func parseTiers(list string) ([]string, error) {
	names := lo.Uniq(lo.Compact(lo.Map(strings.Split(list, ","), func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	})))
	for _, name := range names {
		if name == randomTier {
			continue
		}
		if _, err := engine.TierConfig(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// run plays the whole round-robin and returns the last finished game.
func (t *trainer) run(ctx context.Context) (*gameResult, error) {
	jobs := t.schedule()
	start := time.Now()
	t.updateStatus(func(s *trainerStatus) {
		s.Running = true
		s.Phase = "running"
		s.GamesTotal = len(jobs)
	})
	t.log.Info().
		Strs("tiers", lo.Map(t.contenders, func(c *contender, _ int) string { return c.ID })).
		Int("games", len(jobs)).
		Int("parallel", t.parallel).
		Msg("round-robin started")

	var (
		mu     sync.Mutex
		played int
		last   *gameResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.parallel)
	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		job := job
		g.Go(func() error {
			res, err := t.playGame(gctx, job)
			if err != nil {
				return errors.Wrapf(err, "%s vs %s", job.black.ID, job.white.ID)
			}

			mu.Lock()
			defer mu.Unlock()
			played++
			last = &res
			job.record(res.Winner, t.eloK)
			t.log.Info().
				Str("black", job.black.ID).
				Str("white", job.white.ID).
				Str("winner", winnerName(job, res.Winner)).
				Int("stones", res.Moves).
				Dur("elapsed", res.Elapsed).
				Msg("game over")
			standings := toStandings(t.contenders)
			t.updateStatus(func(s *trainerStatus) {
				s.GamesPlayed = played
				s.Standings = standings
				avg := time.Since(start).Seconds() / float64(played)
				s.EtaSeconds = int(avg * float64(len(jobs)-played))
			})
			return nil
		})
	}
	err := g.Wait()
	t.updateStatus(func(s *trainerStatus) {
		s.Running = false
		s.Phase = "done"
		if err != nil {
			s.Phase = "error"
		}
	})
	return last, err
}

// schedule pairs every two contenders over a shared opening suite, each
// opening played once with either colour.
func (t *trainer) schedule() []gameJob {
	openings := buildOpeningSuite(t.gamesPerPairing/2, t.openingPlies, t.seed)
	var jobs []gameJob
	for i := 0; i < len(t.contenders); i++ {
		for j := i + 1; j < len(t.contenders); j++ {
			for _, opening := range openings {
				a, b := t.contenders[i], t.contenders[j]
				jobs = append(jobs,
					gameJob{black: a, white: b, opening: opening, seed: t.seed + uint64(len(jobs))},
					gameJob{black: b, white: a, opening: opening, seed: t.seed + uint64(len(jobs)+1)},
				)
			}
		}
	}
	return jobs
}

func winnerName(job gameJob, winner engine.Cell) string {
	switch winner {
	case engine.CellBlack:
		return job.black.ID
	case engine.CellWhite:
		return job.white.ID
	default:
		return "draw"
	}
}

func (t *trainer) startStatusAPI(ctx context.Context) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/trainer/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": t.getStatus().Running})
	})
	r.Get("/api/trainer/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	server := &http.Server{Addr: t.apiAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.Error().Err(err).Msg("trainer api server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

func (t *trainer) getStatus() trainerStatus {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.status
}

func (t *trainer) updateStatus(mutator func(*trainerStatus)) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	mutator(&t.status)
	t.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
