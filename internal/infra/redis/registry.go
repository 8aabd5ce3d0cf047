package redis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
)

// Registry is a Redis-aware implementation of app.Registry.
// Notes:
//   - Sessions still live in a local in-memory map; the per-session mutex
//     and subscriber broadcast logic stay in-process.
//   - Redis marks game liveness so operators (and future instances) can
//     discover active games across the fleet.
//   - True cross-instance play would need a pub/sub projector on top; that
//     is out of scope here.
type Registry struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.GameSession
	conns  map[string]string
}

func NewRegistry(client *redis.Client, ttl time.Duration) *Registry {
	return &Registry{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.GameSession),
		conns:  make(map[string]string),
	}
}

func (r *Registry) Create(hostName string) (string, string) {
	gameID := uuid.NewString()
	game := app.NewGameSession(gameID)
	playerID := game.AddPlayer(hostName, true)

	r.mu.Lock()
	r.games[gameID] = game
	r.mu.Unlock()

	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(gameID), "1", r.ttl).Err()
	return gameID, playerID
}

func (r *Registry) Join(gameID, playerName string) (string, error) {
	r.mu.RLock()
	game, ok := r.games[gameID]
	r.mu.RUnlock()
	if !ok {
		return "", domain.ErrGameNotFound
	}
	_ = r.client.Expire(context.Background(), r.key(gameID), r.ttl).Err()
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

	_ = r.client.Del(context.Background(), r.key(gameID)).Err()
	if game != nil {
		game.CloseSubscribers()
	}
	return gameID, true
}

func (r *Registry) key(gameID string) string {
	return "trivia:game:" + gameID
}
