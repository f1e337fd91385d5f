package main

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

const (
	humanMark = "X"
	botMark   = "O"

	humanCell = engine.CellBlack
	botCell   = engine.CellWhite
)

var (
	errNoSession   = errors.New("no session")
	errInvalidMove = errors.New("invalid move")
)

type moveResponse struct {
	Win    bool   `json:"win"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw,omitempty"`
	Move   int    `json:"move"`
}

// Session is one human-vs-engine game. The search context is owned by the
// session and only touched under mu.
type Session struct {
	ID      string
	Tier    string
	Created time.Time

	mu      sync.Mutex
	search  *engine.SearchContext
	referee *engine.Referee
	log     zerolog.Logger
}

// Move plays the human's index and answers with the bot's reply. -1 lets
// the bot open and is only accepted on an empty board.
func (s *Session) Move(index int) (moveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index != engine.NoMove {
		verdict, err := s.referee.Play(index, humanCell)
		if err != nil {
			return moveResponse{}, errors.Wrapf(errInvalidMove, "%v", err)
		}
		if err := s.search.Apply(index, humanCell); err != nil {
			return moveResponse{}, errors.Wrapf(errInvalidMove, "%v", err)
		}
		switch verdict {
		case engine.VerdictWin:
			return moveResponse{Win: true, Winner: humanMark, Move: index}, nil
		case engine.VerdictDraw:
			return moveResponse{Draw: true, Move: index}, nil
		}
	} else if s.referee.Over() {
		return moveResponse{}, errors.Wrap(errInvalidMove, engine.ErrGameOver.Error())
	} else if len(s.referee.Moves()) > 0 {
		return moveResponse{}, errors.Wrap(errInvalidMove, "bot can only open on an empty board")
	}

	res := s.search.Solve(botCell)
	if res.Move == engine.NoMove {
		return moveResponse{Draw: true, Move: engine.NoMove}, nil
	}
	verdict, err := s.referee.Play(res.Move, botCell)
	if err != nil {
		return moveResponse{}, errors.Wrap(err, "engine produced an illegal move")
	}
	if err := s.search.Apply(res.Move, botCell); err != nil {
		return moveResponse{}, errors.Wrap(err, "engine produced an illegal move")
	}
	s.log.Debug().
		Str("move", engine.CoordString(res.Move)).
		Stringer("source", res.Source).
		Int("depth", res.Depth).
		Int64("nodes", s.search.Stats().Nodes).
		Msg("bot moved")
	switch verdict {
	case engine.VerdictWin:
		return moveResponse{Win: true, Winner: botMark, Move: res.Move}, nil
	case engine.VerdictDraw:
		return moveResponse{Draw: true, Move: res.Move}, nil
	}
	return moveResponse{Move: res.Move}, nil
}

type sessionInfo struct {
	GameID      string `json:"game_id"`
	Tier        string `json:"tier"`
	TimeLimitMs int    `json:"time_limit_ms"`
	Moves       int    `json:"moves"`
	Over        bool   `json:"over"`
}

func (s *Session) Info() sessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sessionInfo{
		GameID:      s.ID,
		Tier:        s.Tier,
		TimeLimitMs: s.search.Config().TimeLimitMs,
		Moves:       len(s.referee.Moves()),
		Over:        s.referee.Over(),
	}
}

type sessionDetail struct {
	sessionInfo
	Board [][]int `json:"board"`
}

// Detail includes the board as rows of 0 (empty), 1 (X) and 2 (O).
func (s *Session) Detail() sessionDetail {
	info := s.Info()
	s.mu.Lock()
	board := s.referee.Board()
	s.mu.Unlock()
	return sessionDetail{sessionInfo: info, Board: boardToSlice(&board)}
}

func boardToSlice(b *engine.Board) [][]int {
	rows := make([][]int, engine.BoardSize)
	for y := range rows {
		rows[y] = make([]int, engine.BoardSize)
		for x := range rows[y] {
			rows[y][x] = int(b.AtXY(x, y))
		}
	}
	return rows
}

type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	configs  *ConfigStore
	hub      *Hub
	logOut   io.Writer
	ids      *rand.Rand
	idMu     sync.Mutex
	counter  atomic.Uint64
}

func NewSessionManager(configs *ConfigStore, hub *Hub, logOut io.Writer) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		configs:  configs,
		hub:      hub,
		logOut:   logOut,
		ids:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (m *SessionManager) newID() string {
	m.idMu.Lock()
	defer m.idMu.Unlock()
	return fmt.Sprintf("%016x-%d", m.ids.Uint64(), m.counter.Add(1))
}

// Create starts a new game with the current engine configuration.
func (m *SessionManager) Create() (*Session, error) {
	id := m.newID()
	logger := sessionLogger(m.logOut, m.hub, id)
	search, err := engine.NewSearchContext(m.configs.Get(), logger)
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:      id,
		Tier:    m.configs.Tier(),
		Created: time.Now(),
		search:  search,
		referee: engine.NewReferee(),
		log:     logger,
	}
	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	logger.Info().Str("tier", session.Tier).Msg("session started")
	return session, nil
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, errors.Wrapf(errNoSession, "%q", id)
	}
	return session, nil
}

func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *SessionManager) List() []sessionInfo {
	m.mu.RLock()
	sessions := lo.Values(m.sessions)
	m.mu.RUnlock()
	infos := lo.Map(sessions, func(s *Session, _ int) sessionInfo {
		return s.Info()
	})
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].GameID < infos[j].GameID
	})
	return infos
}
