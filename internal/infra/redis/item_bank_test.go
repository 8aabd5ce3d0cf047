package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
)

type countingLoader struct {
	memory.ItemLoader
	listCalls int
	loadCalls int
}

func (l *countingLoader) ListItemIDs(ctx context.Context) ([]string, error) {
	l.listCalls++
	return l.ItemLoader.ListItemIDs(ctx)
}

func (l *countingLoader) LoadItem(ctx context.Context, itemID string) (domain.Item, error) {
	l.loadCalls++
	return l.ItemLoader.LoadItem(ctx, itemID)
}

func seedBank() *memory.ItemBank {
	return memory.NewItemBank([]domain.Item{
		{
			ID:     "item-1",
			Prompt: "sample prompt number one",
			Kind:   domain.KindMultipleChoice,
			Questions: []domain.Question{
				{Text: "first", Choice: "a"},
				{Text: "second", Choice: "b"},
			},
		},
	})
}

func TestItemBankCachesCatalogAndPayloads(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{ItemLoader: seedBank()}
	bank := NewItemBank(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	item, err := bank.DrawUnseen(ctx, nil)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if item.ID != "item-1" || len(item.Questions) != 2 {
		t.Fatalf("expected full item payload, got %+v", item)
	}
	if loader.listCalls != 1 || loader.loadCalls != 1 {
		t.Fatalf("expected one loader hit each, got list=%d load=%d", loader.listCalls, loader.loadCalls)
	}

	// Second draw hits the Redis cache only.
	if _, err := bank.DrawUnseen(ctx, nil); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if loader.listCalls != 1 || loader.loadCalls != 1 {
		t.Fatalf("expected cache hits, got list=%d load=%d", loader.listCalls, loader.loadCalls)
	}
}

// Sessions draw concurrently; run under -race to catch shared-state slips.
func TestItemBankConcurrentDraws(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	bank := NewItemBank(newClient(mr), seedBank(), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := bank.DrawUnseen(ctx, nil); err != nil {
					t.Errorf("draw: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestItemBankReportsExhaustion(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	bank := NewItemBank(newClient(mr), seedBank(), time.Minute)

	if _, err := bank.DrawUnseen(context.Background(), []string{"item-1"}); !errors.Is(err, domain.ErrNoUnseenItems) {
		t.Fatalf("expected ErrNoUnseenItems, got %v", err)
	}
}

func TestItemBankEmptyLoader(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	bank := NewItemBank(newClient(mr), memory.NewItemBank(nil), time.Minute)

	if _, err := bank.DrawUnseen(context.Background(), nil); !errors.Is(err, domain.ErrNoUnseenItems) {
		t.Fatalf("expected ErrNoUnseenItems, got %v", err)
	}
}
