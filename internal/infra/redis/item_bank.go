package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
)

const idsKey = "trivia:items:ids"

// ItemBank caches the bank's ID catalog and item payloads in Redis and
// falls back to a loader on cache miss. The random unseen pick happens
// against the cached catalog:
//
//	SMEMBERS trivia:items:ids     -> all item IDs
//	GET      trivia:item:{id}     -> item JSON
type ItemBank struct {
	client *redis.Client
	loader memory.ItemLoader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewItemBank(client *redis.Client, loader memory.ItemLoader, ttl time.Duration) *ItemBank {
	return &ItemBank{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

// DrawUnseen picks a random item ID outside excludedIDs from the cached
// catalog, then fetches the payload (cache first, loader on miss).
func (b *ItemBank) DrawUnseen(ctx context.Context, excludedIDs []string) (domain.Item, error) {
	ids, err := b.catalog(ctx)
	if err != nil {
		return domain.Item{}, err
	}

	excluded := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}
	candidates := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, seen := excluded[id]; !seen {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return domain.Item{}, domain.ErrNoUnseenItems
	}
	// The top-level rand functions are safe for concurrent draws.
	return b.item(ctx, candidates[rand.Intn(len(candidates))])
}

func (b *ItemBank) catalog(ctx context.Context) ([]string, error) {
	ids, err := b.client.SMembers(ctx, idsKey).Result()
	if err == nil && len(ids) > 0 {
		return ids, nil
	}

	result, err, _ := b.sf.Do(idsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		ids, err := b.client.SMembers(ctx, idsKey).Result()
		if err == nil && len(ids) > 0 {
			return ids, nil
		}

		ids, err = b.loader.ListItemIDs(ctx)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return ids, nil
		}

		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe := b.client.Pipeline()
		pipe.SAdd(ctx, idsKey, members...)
		if b.ttl > 0 {
			pipe.Expire(ctx, idsKey, b.ttlWithJitter())
		}
		_, _ = pipe.Exec(ctx)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

func (b *ItemBank) item(ctx context.Context, itemID string) (domain.Item, error) {
	key := b.itemKey(itemID)
	if raw, err := b.client.Get(ctx, key).Bytes(); err == nil {
		var item domain.Item
		if err := json.Unmarshal(raw, &item); err == nil {
			return item, nil
		}
	}

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		item, err := b.loader.LoadItem(ctx, itemID)
		if err != nil {
			return domain.Item{}, err
		}
		if raw, err := json.Marshal(item); err == nil {
			_ = b.client.Set(ctx, key, raw, b.ttlWithJitter()).Err()
		}
		return item, nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return result.(domain.Item), nil
}

func (b *ItemBank) itemKey(itemID string) string {
	return "trivia:item:" + itemID
}

func (b *ItemBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	return b.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
