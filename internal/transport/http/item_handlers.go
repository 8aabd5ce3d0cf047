package http

import (
	"context"
	"net/http"
	"strconv"

	"trivia-game-service/internal/domain"
)

// ItemStore abstracts the authoring side of the question bank.
type ItemStore interface {
	Save(ctx context.Context, item domain.Item) (domain.Item, error)
	List(ctx context.Context, kinds []domain.QuestionKind, offset, limit int) ([]domain.Item, error)
}

const defaultPageSize = 20

// ItemHandler exposes authoring endpoints for trivia items.
type ItemHandler struct {
	store ItemStore
}

func NewItemHandler(store ItemStore) *ItemHandler {
	return &ItemHandler{store: store}
}

// ServeItems routes GET (list) and POST (create) for /trivia.
func (h *ItemHandler) ServeItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listItems(w, r)
	case http.MethodPost:
		h.createItem(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ItemHandler) createItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := h.store.Save(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// listItems supports per-kind include flags plus page/pageSize, mirroring
// the query surface the game clients already use.
func (h *ItemHandler) listItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var kinds []domain.QuestionKind
	for flag, kind := range kindFlags {
		if query.Get(flag) == "true" {
			kinds = append(kinds, kind)
		}
	}

	page := intQuery(query.Get("page"), 1)
	pageSize := intQuery(query.Get("pageSize"), defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	items, err := h.store.List(r.Context(), kinds, (page-1)*pageSize, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

var kindFlags = map[string]domain.QuestionKind{
	"includeMultipleChoice": domain.KindMultipleChoice,
	"includeTrueOrFalse":    domain.KindTrueOrFalse,
	"includeFillInTheBlank": domain.KindFillInTheBlank,
	"includeOrdering":       domain.KindOrdering,
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
