package domain

import (
	"math/rand"
	"time"
)

// Difficulty grades an item for authoring and discovery. Sessions ignore it.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Item is a themed set of questions drawn from the bank and played as a
// unit. The bank copy is never mutated; sessions play a shuffled copy.
type Item struct {
	ID         string       `json:"id,omitempty"`
	Prompt     string       `json:"prompt"`
	Kind       QuestionKind `json:"questionType"`
	Tags       []string     `json:"tags,omitempty"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
	Questions  []Question   `json:"questions"`
	// Choices are the shared option texts shown for multiple-choice items.
	Choices []string `json:"correctAnswers,omitempty"`
}

// Shuffled returns a session-local copy with the question order randomized
// and all answer slots empty.
func (it Item) Shuffled(rnd *rand.Rand) Item {
	questions := make([]Question, len(it.Questions))
	copy(questions, it.Questions)
	for i := range questions {
		questions[i].Answer = AnswerSlot{}
	}
	rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	it.Questions = questions
	return it
}

// AllAnswered reports whether every question in the item has a recorded
// answer.
func (it Item) AllAnswered() bool {
	for i := range it.Questions {
		if _, ok := it.Questions[i].Answer.Value(); !ok {
			return false
		}
	}
	return true
}

// ClientItem is the outward projection of an item.
type ClientItem struct {
	ID        string           `json:"id,omitempty"`
	Prompt    string           `json:"prompt"`
	Kind      QuestionKind     `json:"questionType"`
	Questions []ClientQuestion `json:"questions"`
	Choices   []string         `json:"correctAnswers,omitempty"`
}

// ClientView renders the item through each question's projection.
func (it Item) ClientView() ClientItem {
	questions := make([]ClientQuestion, len(it.Questions))
	for i := range it.Questions {
		questions[i] = it.Questions[i].ClientView(it.Kind)
	}
	return ClientItem{
		ID:        it.ID,
		Prompt:    it.Prompt,
		Kind:      it.Kind,
		Questions: questions,
		Choices:   it.Choices,
	}
}

// Player is a session member. The ID is generated once at join time and
// immutable afterwards; display names are not required to be unique.
type Player struct {
	ID    string
	Name  string
	Score int
	Host  bool
	Ready bool
}

// PlayerView is the snapshot entry for one player, keyed by ID so two
// players sharing a display name never conflate.
type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Snapshot is the sole state exported from a session, broadcast to every
// member after each successful mutation.
type Snapshot struct {
	GameID        string       `json:"gameId"`
	Started       bool         `json:"started"`
	Players       []PlayerView `json:"players"`
	CurrentPlayer *PlayerView  `json:"currentPlayer,omitempty"`
	CurrentItem   *ClientItem  `json:"currentItem,omitempty"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
