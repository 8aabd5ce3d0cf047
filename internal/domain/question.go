package domain

import (
	"strconv"
	"strings"
)

// QuestionKind selects which answer field of a Question is authoritative.
// The kind is fixed per item at authoring time; every question in an item
// shares its item's kind.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multipleChoice"
	KindTrueOrFalse    QuestionKind = "trueOrFalse"
	KindFillInTheBlank QuestionKind = "fillInTheBlank"
	KindOrdering       QuestionKind = "ordering"
)

// Question is a closed tagged variant: exactly one of Choice, Truth,
// Accepted, or Rank is meaningful, selected by the owning item's kind.
// The zero Answer slot means the question has not been played yet.
type Question struct {
	Text        string   `json:"questionText"`
	Explanation string   `json:"explanation,omitempty"`
	Choice      string   `json:"multipleChoiceAnswer,omitempty"`
	Truth       *bool    `json:"trueOrFalseAnswer,omitempty"`
	Accepted    []string `json:"fillInTheBlankAnswer,omitempty"`
	Rank        *int     `json:"orderingAnswer,omitempty"`

	Answer AnswerSlot `json:"-"`
}

// AnswerSlot holds a player's submitted answer. It is write-once: the
// first Record wins and later calls are rejected.
type AnswerSlot struct {
	value string
	set   bool
}

// Record stores the answer unless one is already present.
func (s *AnswerSlot) Record(answer string) bool {
	if s.set {
		return false
	}
	s.value = answer
	s.set = true
	return true
}

// Value returns the stored answer and whether one has been recorded.
func (s AnswerSlot) Value() (string, bool) {
	return s.value, s.set
}

// CheckAnswer reports whether submitted matches the correct answer for the
// given kind. It is pure: malformed input (e.g. non-boolean text for a
// true/false question) is simply incorrect, never an error.
func (q *Question) CheckAnswer(kind QuestionKind, submitted string) bool {
	switch kind {
	case KindMultipleChoice:
		return submitted == q.Choice
	case KindTrueOrFalse:
		b, err := strconv.ParseBool(submitted)
		return err == nil && q.Truth != nil && b == *q.Truth
	case KindFillInTheBlank:
		norm := normalizeAnswer(submitted)
		for _, accepted := range q.Accepted {
			if normalizeAnswer(accepted) == norm {
				return true
			}
		}
		return false
	case KindOrdering:
		n, err := strconv.Atoi(submitted)
		// Require the canonical decimal form so "03" or "+3" never pass as 3.
		return err == nil && strconv.Itoa(n) == submitted && q.Rank != nil && n == *q.Rank
	}
	return false
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// correctAnswerText renders the correct answer for display once the
// question has been answered.
func (q *Question) correctAnswerText(kind QuestionKind) string {
	switch kind {
	case KindMultipleChoice:
		return q.Choice
	case KindTrueOrFalse:
		if q.Truth == nil {
			return ""
		}
		return strconv.FormatBool(*q.Truth)
	case KindFillInTheBlank:
		return strings.Join(q.Accepted, ", ")
	case KindOrdering:
		if q.Rank == nil {
			return ""
		}
		return strconv.Itoa(*q.Rank)
	}
	return ""
}

// ClientQuestion is the outward projection of a question. The correct
// answer stays hidden until the question has been answered.
type ClientQuestion struct {
	Text          string `json:"questionText"`
	Explanation   string `json:"explanation,omitempty"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	PlayerAnswer  string `json:"playerAnswer,omitempty"`
	AnswerCorrect *bool  `json:"playerAnswerCorrect,omitempty"`
}

// ClientView projects the question for broadcast. It is a pure function
// of the question and its stored answer.
func (q *Question) ClientView(kind QuestionKind) ClientQuestion {
	view := ClientQuestion{
		Text:        q.Text,
		Explanation: q.Explanation,
	}
	answer, ok := q.Answer.Value()
	if !ok {
		return view
	}
	correct := q.CheckAnswer(kind, answer)
	view.CorrectAnswer = q.correctAnswerText(kind)
	view.PlayerAnswer = answer
	view.AnswerCorrect = &correct
	return view
}
