package domain

import (
	"math/rand"
	"testing"
)

func TestShuffledCopyLeavesSourceUntouched(t *testing.T) {
	source := Item{
		ID:     "item-1",
		Prompt: "Order the planets",
		Kind:   KindOrdering,
		Questions: []Question{
			{Text: "Mercury", Rank: intPtr(1)},
			{Text: "Venus", Rank: intPtr(2)},
			{Text: "Earth", Rank: intPtr(3)},
		},
	}

	played := source.Shuffled(rand.New(rand.NewSource(1)))
	played.Questions[0].Answer.Record("1")

	for i := range source.Questions {
		if _, ok := source.Questions[i].Answer.Value(); ok {
			t.Fatalf("bank copy must never carry player answers")
		}
	}
	if len(played.Questions) != len(source.Questions) {
		t.Fatalf("shuffle must preserve question count")
	}
}

func TestShuffledRandomizesOrder(t *testing.T) {
	questions := make([]Question, 10)
	for i := range questions {
		rank := i + 1
		questions[i] = Question{Text: "q", Rank: &rank}
	}
	source := Item{ID: "item-1", Kind: KindOrdering, Questions: questions}

	rnd := rand.New(rand.NewSource(42))
	moved := false
	for attempt := 0; attempt < 10 && !moved; attempt++ {
		played := source.Shuffled(rnd)
		for i := range played.Questions {
			if *played.Questions[i].Rank != i+1 {
				moved = true
				break
			}
		}
	}
	if !moved {
		t.Fatalf("expected at least one shuffle to change the order")
	}
}

func TestAllAnswered(t *testing.T) {
	item := Item{
		Kind: KindTrueOrFalse,
		Questions: []Question{
			{Text: "a", Truth: boolPtr(true)},
			{Text: "b", Truth: boolPtr(false)},
		},
	}
	if item.AllAnswered() {
		t.Fatalf("fresh item must not be complete")
	}
	item.Questions[0].Answer.Record("true")
	if item.AllAnswered() {
		t.Fatalf("one unanswered question remains")
	}
	item.Questions[1].Answer.Record("true")
	if !item.AllAnswered() {
		t.Fatalf("expected item complete")
	}
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }
