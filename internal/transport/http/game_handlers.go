package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
)

// GameHandler exposes the REST endpoints clients use before attaching a
// websocket: create a game, join one, and discover active games.
type GameHandler struct {
	service *app.GameService
}

func NewGameHandler(service *app.GameService) *GameHandler {
	return &GameHandler{service: service}
}

type createOrJoinRequest struct {
	PlayerName string `json:"playerName"`
	GameID     string `json:"gameId,omitempty"`
}

// connectionInfo is what clients must store to connect to the game later
// and to identify themselves.
type connectionInfo struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createOrJoinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerName == "" {
		writeError(w, http.StatusBadRequest, "playerName is required")
		return
	}
	gameID, playerID := h.service.Create(r.Context(), req.PlayerName)
	writeJSON(w, http.StatusOK, connectionInfo{GameID: gameID, PlayerID: playerID})
}

func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	var req createOrJoinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerName == "" || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "playerName and gameId are required")
		return
	}
	playerID, err := h.service.Join(r.Context(), req.GameID, req.PlayerName)
	if errors.Is(err, domain.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, connectionInfo{GameID: req.GameID, PlayerID: playerID})
}

func (h *GameHandler) ActiveGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListGames(r.Context()))
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
