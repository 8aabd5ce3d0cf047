package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-game-service/internal/domain"
)

// GameSession is one in-progress trivia game. All mutable state is guarded
// by mu, held for the whole validate-mutate-snapshot sequence of a command
// so commands against the same session never interleave.
type GameSession struct {
	id        string
	createdAt time.Time
	now       func() time.Time
	rnd       *rand.Rand

	mu          sync.Mutex
	players     []*domain.Player
	turn        int
	started     bool
	current     *domain.Item
	completed   []string
	subscribers map[chan domain.Snapshot]struct{}
}

func newGameSession(id string) *GameSession {
	return newGameSessionWithClock(id, time.Now)
}

// newGameSessionWithClock allows deterministic timestamps in tests.
func newGameSessionWithClock(id string, now func() time.Time) *GameSession {
	return &GameSession{
		id:          id,
		createdAt:   now(),
		now:         now,
		rnd:         rand.New(rand.NewSource(now().UnixNano())),
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// NewGameSession is exported for infrastructure layers that create sessions.
func NewGameSession(id string) *GameSession {
	return newGameSession(id)
}

// AddPlayer appends a player in turn order and returns the generated
// identifier. It never fails and does not reject duplicate display names.
func (g *GameSession) AddPlayer(name string, host bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := &domain.Player{
		ID:   uuid.NewString(),
		Name: name,
		Host: host,
	}
	g.players = append(g.players, player)
	return player.ID
}

// HasPlayer reports whether the given player ID belongs to this game.
func (g *GameSession) HasPlayer(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerIndexLocked(playerID) >= 0
}

func (g *GameSession) playerIndexLocked(playerID string) int {
	for i, p := range g.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// markReady flags the player as ready. Once every current member is ready
// the game starts and the first item is drawn; drawing failure (an empty
// bank) is fatal and leaves the game unstarted.
func (g *GameSession) markReady(ctx context.Context, playerID string, bank ItemBank) (domain.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return domain.Snapshot{}, domain.ErrGameAlreadyStarted
	}
	idx := g.playerIndexLocked(playerID)
	if idx < 0 {
		return domain.Snapshot{}, domain.ErrPlayerNotFound
	}
	g.players[idx].Ready = true

	if g.allReadyLocked() {
		if err := g.drawLocked(ctx, bank); err != nil {
			return domain.Snapshot{}, err
		}
		g.started = true
	}
	return g.broadcastLocked(), nil
}

func (g *GameSession) allReadyLocked() bool {
	for _, p := range g.players {
		if !p.Ready {
			return false
		}
	}
	return len(g.players) > 0
}

// submitAnswer applies the full precondition chain, records the answer,
// scores it, advances the turn, and redraws when the item is complete.
// The returned bool reports whether the answer was correct.
func (g *GameSession) submitAnswer(ctx context.Context, playerID string, questionIndex int, answer string, bank ItemBank) (domain.Snapshot, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return domain.Snapshot{}, false, domain.ErrGameNotStarted
	}
	if g.players[g.turn].ID != playerID {
		if g.playerIndexLocked(playerID) < 0 {
			return domain.Snapshot{}, false, domain.ErrPlayerNotFound
		}
		return domain.Snapshot{}, false, domain.ErrNotPlayersTurn
	}
	if questionIndex < 0 || questionIndex >= len(g.current.Questions) {
		return domain.Snapshot{}, false, domain.ErrQuestionOutOfRange
	}
	if answer == "" {
		return domain.Snapshot{}, false, domain.ErrEmptyAnswer
	}
	question := &g.current.Questions[questionIndex]
	if _, answered := question.Answer.Value(); answered {
		return domain.Snapshot{}, false, domain.ErrAlreadyAnswered
	}

	// All preconditions hold; from here the command commits fully.
	question.Answer.Record(answer)
	correct := question.CheckAnswer(g.current.Kind, answer)
	if correct {
		g.players[g.turn].Score++
	}
	g.turn = (g.turn + 1) % len(g.players)

	if g.current.AllAnswered() {
		g.completed = append(g.completed, g.current.ID)
		if err := g.drawLocked(ctx, bank); err != nil {
			// The answer already committed; surface the exhausted bank to
			// the caller after telling everyone about the final state.
			return g.broadcastLocked(), correct, err
		}
	}
	return g.broadcastLocked(), correct, nil
}

// drawLocked pulls one unseen item from the bank and installs a shuffled
// copy as current. A single bounded call, no retry: an exhausted bank is
// fatal to this session's progression.
func (g *GameSession) drawLocked(ctx context.Context, bank ItemBank) error {
	item, err := bank.DrawUnseen(ctx, g.completed)
	if err != nil {
		return err
	}
	shuffled := item.Shuffled(g.rnd)
	g.current = &shuffled
	return nil
}

func (g *GameSession) subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	initial := g.snapshotLocked()
	g.mu.Unlock()

	ch <- initial

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// CloseSubscribers drops every subscriber; the registry calls this when it
// removes the session on disconnect so attached connections can unwind.
func (g *GameSession) CloseSubscribers() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for ch := range g.subscribers {
		delete(g.subscribers, ch)
		close(ch)
	}
}

func (g *GameSession) broadcastLocked() domain.Snapshot {
	snap := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow reader never
			// blocks the whole session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

// Snapshot renders the externally visible state of the session.
func (g *GameSession) Snapshot() domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *GameSession) snapshotLocked() domain.Snapshot {
	players := make([]domain.PlayerView, len(g.players))
	for i, p := range g.players {
		players[i] = domain.PlayerView{ID: p.ID, Name: p.Name, Score: p.Score}
	}
	snap := domain.Snapshot{
		GameID:    g.id,
		Started:   g.started,
		Players:   players,
		UpdatedAt: g.now(),
	}
	if g.started && len(g.players) > 0 {
		current := players[g.turn]
		snap.CurrentPlayer = &current
	}
	if g.current != nil {
		view := g.current.ClientView()
		snap.CurrentItem = &view
	}
	return snap
}
