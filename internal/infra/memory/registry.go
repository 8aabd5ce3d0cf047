package memory

import (
	"sync"

	"github.com/google/uuid"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
)

// Registry is the in-memory implementation of app.Registry. The map mutex
// only covers lookups and bookkeeping; per-game work happens behind each
// session's own lock, so unrelated games never serialize.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*app.GameSession
	conns map[string]string // connection ID -> game ID
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*app.GameSession),
		conns: make(map[string]string),
	}
}

func (r *Registry) Create(hostName string) (string, string) {
	gameID := uuid.NewString()
	game := app.NewGameSession(gameID)
	playerID := game.AddPlayer(hostName, true)

	r.mu.Lock()
	r.games[gameID] = game
	r.mu.Unlock()
	return gameID, playerID
}

func (r *Registry) Join(gameID, playerName string) (string, error) {
	r.mu.RLock()
	game, ok := r.games[gameID]
	r.mu.RUnlock()
	if !ok {
		return "", domain.ErrGameNotFound
	}
	return game.AddPlayer(playerName, false), nil
}

func (r *Registry) Get(gameID string) (*app.GameSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[gameID]
	return game, ok
}

func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Associate(connID, gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = gameID
}

// RemoveByConnection drops the whole game owning the connection, along
// with every connection associated to it. Idempotent for unknown
// connections.
func (r *Registry) RemoveByConnection(connID string) (string, bool) {
	r.mu.Lock()
	gameID, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return "", false
	}
	game := r.games[gameID]
	delete(r.games, gameID)
	for conn, id := range r.conns {
		if id == gameID {
			delete(r.conns, conn)
		}
	}
	r.mu.Unlock()

	if game != nil {
		game.CloseSubscribers()
	}
	return gameID, true
}
