package app

import (
	"context"

	"trivia-game-service/internal/domain"
)

// Registry tracks live sessions by identifier and the connection→game
// association used for cleanup on disconnect. Implementations must be safe
// for concurrent use; commands for unrelated games never block each other.
type Registry interface {
	Create(hostName string) (gameID, playerID string)
	Join(gameID, playerName string) (playerID string, err error)
	Get(gameID string) (*GameSession, bool)
	ListIDs() []string
	Associate(connID, gameID string)
	// RemoveByConnection drops the whole session owning the connection, if
	// any, and reports which game was removed.
	RemoveByConnection(connID string) (gameID string, ok bool)
}

// ItemBank fetches one unseen item from the question bank, excluding the
// given completed identifiers. Returns domain.ErrNoUnseenItems when the
// bank is exhausted.
type ItemBank interface {
	DrawUnseen(ctx context.Context, excludedIDs []string) (domain.Item, error)
}

// GameService contains the trivia game use cases: the command surface that
// validates preconditions, mutates sessions, and produces snapshots.
type GameService struct {
	games Registry
	bank  ItemBank
}

func NewGameService(games Registry, bank ItemBank) *GameService {
	return &GameService{games: games, bank: bank}
}

// Create starts a fresh session with the creator as host. It always
// succeeds; clients keep both identifiers to connect later.
func (s *GameService) Create(_ context.Context, hostName string) (gameID, playerID string) {
	return s.games.Create(hostName)
}

// Join adds a player to an existing session. Joining after the game has
// started is allowed; the new player enters the turn rotation as the
// pointer wraps past them.
func (s *GameService) Join(_ context.Context, gameID, playerName string) (string, error) {
	return s.games.Join(gameID, playerName)
}

// ListGames returns the identifiers of all live sessions for discovery.
func (s *GameService) ListGames(_ context.Context) []string {
	return s.games.ListIDs()
}

// Attach verifies the player is a known member before associating the
// realtime connection with the game, and returns the current snapshot so
// the caller can render immediately.
func (s *GameService) Attach(_ context.Context, connID, gameID, playerID string) (domain.Snapshot, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.Snapshot{}, domain.ErrGameNotFound
	}
	if !game.HasPlayer(playerID) {
		return domain.Snapshot{}, domain.ErrPlayerNotFound
	}
	s.games.Associate(connID, gameID)
	return game.Snapshot(), nil
}

// Subscribe returns a channel receiving snapshot broadcasts for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.Snapshot, func(), error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := game.subscribe()
	return ch, cancel, nil
}

// Ready marks the player as readied up. When every current member is ready
// the game starts and the first item is drawn.
func (s *GameService) Ready(ctx context.Context, gameID, playerID string) (domain.Snapshot, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.Snapshot{}, domain.ErrGameNotFound
	}
	return game.markReady(ctx, playerID, s.bank)
}

// SubmitAnswer records an answer for the current turn-holder and reports
// whether it was correct.
func (s *GameService) SubmitAnswer(ctx context.Context, gameID, playerID string, questionIndex int, answer string) (domain.Snapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.Snapshot{}, false, domain.ErrGameNotFound
	}
	return game.submitAnswer(ctx, playerID, questionIndex, answer, s.bank)
}

// Disconnect removes the entire session owning the connection. Any
// disconnect ends the whole game; the call is idempotent when the
// connection maps to nothing.
func (s *GameService) Disconnect(_ context.Context, connID string) {
	s.games.RemoveByConnection(connID)
}
