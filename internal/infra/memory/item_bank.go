package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trivia-game-service/internal/domain"
)

// ItemLoader fetches item content from a backing store (e.g., Postgres).
// The Redis layer composes one of these behind its cache.
type ItemLoader interface {
	ListItemIDs(ctx context.Context) ([]string, error)
	LoadItem(ctx context.Context, itemID string) (domain.Item, error)
}

// ItemBank is an in-memory question bank, useful for tests and demos. It
// implements both app.ItemBank and ItemLoader.
type ItemBank struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

func NewItemBank(seed []domain.Item) *ItemBank {
	bank := &ItemBank{
		items: make(map[string]domain.Item, len(seed)),
	}
	for _, item := range seed {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		bank.items[item.ID] = item
	}
	return bank
}

// DrawUnseen picks one random item whose ID is not in excludedIDs.
func (b *ItemBank) DrawUnseen(_ context.Context, excludedIDs []string) (domain.Item, error) {
	excluded := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	candidates := make([]string, 0, len(b.items))
	for id := range b.items {
		if _, seen := excluded[id]; !seen {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return domain.Item{}, domain.ErrNoUnseenItems
	}
	// Sort for a deterministic candidate order before the random pick.
	// The top-level rand functions are safe for concurrent draws.
	sort.Strings(candidates)
	return b.items[candidates[rand.Intn(len(candidates))]], nil
}

// Save stores an item, generating an ID when absent.
func (b *ItemBank) Save(_ context.Context, item domain.Item) (domain.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	b.mu.Lock()
	b.items[item.ID] = item
	b.mu.Unlock()
	return item, nil
}

// List returns items filtered by kind (all kinds when the filter is empty),
// paginated in ID order.
func (b *ItemBank) List(_ context.Context, kinds []domain.QuestionKind, offset, limit int) ([]domain.Item, error) {
	wanted := make(map[domain.QuestionKind]struct{}, len(kinds))
	for _, k := range kinds {
		wanted[k] = struct{}{}
	}

	b.mu.RLock()
	ids := make([]string, 0, len(b.items))
	for id, item := range b.items {
		if len(wanted) > 0 {
			if _, ok := wanted[item.Kind]; !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]domain.Item, 0, limit)
	for i := offset; i < len(ids) && (limit <= 0 || len(items) < limit); i++ {
		items = append(items, b.items[ids[i]])
	}
	b.mu.RUnlock()
	return items, nil
}

func (b *ItemBank) ListItemIDs(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.items))
	for id := range b.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (b *ItemBank) LoadItem(_ context.Context, itemID string) (domain.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	item, ok := b.items[itemID]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}
