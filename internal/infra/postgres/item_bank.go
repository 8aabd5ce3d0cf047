package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

// ItemBank stores trivia items as JSONB rows in Postgres.
type ItemBank struct {
	pool *pgxpool.Pool
}

func NewItemBank(pool *pgxpool.Pool) *ItemBank {
	return &ItemBank{pool: pool}
}

// DrawUnseen selects one random item not in excludedIDs. An empty result
// maps to domain.ErrNoUnseenItems, the fatal exhaustion signal.
func (b *ItemBank) DrawUnseen(ctx context.Context, excludedIDs []string) (domain.Item, error) {
	if excludedIDs == nil {
		excludedIDs = []string{}
	}
	var raw []byte
	err := b.pool.QueryRow(ctx, `
		SELECT data FROM trivia_items
		WHERE NOT data->>'id' = ANY($1)
		ORDER BY RANDOM()
		LIMIT 1`, excludedIDs).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, domain.ErrNoUnseenItems
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("draw item: %w", err)
	}
	return unmarshalItem(raw)
}

// Save inserts an item, generating an ID when absent.
func (b *ItemBank) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("marshal item: %w", err)
	}
	if _, err := b.pool.Exec(ctx, `INSERT INTO trivia_items (data) VALUES ($1)`, raw); err != nil {
		return domain.Item{}, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

// List returns items filtered by kind, paginated in insertion order.
func (b *ItemBank) List(ctx context.Context, kinds []domain.QuestionKind, offset, limit int) ([]domain.Item, error) {
	query := `SELECT data FROM trivia_items`
	args := []interface{}{}
	if len(kinds) > 0 {
		values := make([]string, len(kinds))
		for i, k := range kinds {
			values[i] = string(k)
		}
		args = append(args, values)
		query += fmt.Sprintf(` WHERE data->>'questionType' = ANY($%d)`, len(args))
	}
	query += ` ORDER BY created_at`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item, err := unmarshalItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (b *ItemBank) ListItemIDs(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT data->>'id' FROM trivia_items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list item ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}

func (b *ItemBank) LoadItem(ctx context.Context, itemID string) (domain.Item, error) {
	var raw []byte
	err := b.pool.QueryRow(ctx, `SELECT data FROM trivia_items WHERE data->>'id' = $1`, itemID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("load item: %w", err)
	}
	return unmarshalItem(raw)
}

func unmarshalItem(raw []byte) (domain.Item, error) {
	var item domain.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return domain.Item{}, fmt.Errorf("unmarshal item: %w", err)
	}
	return item, nil
}
