package domain

import "testing"

func TestCheckAnswerMultipleChoice(t *testing.T) {
	q := Question{Text: "Capital of France?", Choice: "Paris"}

	if !q.CheckAnswer(KindMultipleChoice, "Paris") {
		t.Fatalf("expected exact match to be correct")
	}
	if q.CheckAnswer(KindMultipleChoice, "paris") {
		t.Fatalf("multiple choice match must be exact")
	}
}

func TestCheckAnswerTrueOrFalse(t *testing.T) {
	truth := true
	q := Question{Text: "The Sun is a star", Truth: &truth}

	for _, submitted := range []string{"true", "TRUE", "1", "t"} {
		if !q.CheckAnswer(KindTrueOrFalse, submitted) {
			t.Fatalf("expected %q to parse as true", submitted)
		}
	}
	if q.CheckAnswer(KindTrueOrFalse, "false") {
		t.Fatalf("false is not the correct answer")
	}
	// Malformed input is incorrect, never an error.
	if q.CheckAnswer(KindTrueOrFalse, "yes indeed") {
		t.Fatalf("malformed input must be incorrect")
	}
}

func TestCheckAnswerFillInTheBlankNormalizes(t *testing.T) {
	q := Question{Text: "Capital of France?", Accepted: []string{"Paris", "paris "}}

	if !q.CheckAnswer(KindFillInTheBlank, "  PARIS") {
		t.Fatalf("expected case/whitespace-insensitive match")
	}
	if q.CheckAnswer(KindFillInTheBlank, "London") {
		t.Fatalf("unexpected match")
	}
}

func TestCheckAnswerOrderingStrictParse(t *testing.T) {
	rank := 3
	q := Question{Text: "Nile", Rank: &rank}

	if !q.CheckAnswer(KindOrdering, "3") {
		t.Fatalf("expected \"3\" to match rank 3")
	}
	for _, submitted := range []string{"03", "+3", "three", " 3", ""} {
		if q.CheckAnswer(KindOrdering, submitted) {
			t.Fatalf("expected %q to be rejected", submitted)
		}
	}
}

func TestAnswerSlotIsWriteOnce(t *testing.T) {
	var slot AnswerSlot

	if _, ok := slot.Value(); ok {
		t.Fatalf("fresh slot must be empty")
	}
	if !slot.Record("first") {
		t.Fatalf("first record must succeed")
	}
	if slot.Record("second") {
		t.Fatalf("second record must be rejected")
	}
	if v, ok := slot.Value(); !ok || v != "first" {
		t.Fatalf("expected first answer to persist, got %q (set=%v)", v, ok)
	}
}

func TestClientViewHidesAnswerUntilAnswered(t *testing.T) {
	q := Question{Text: "Capital of France?", Choice: "Paris", Explanation: "classic geography"}

	view := q.ClientView(KindMultipleChoice)
	if view.CorrectAnswer != "" || view.PlayerAnswer != "" || view.AnswerCorrect != nil {
		t.Fatalf("unanswered question must not leak the answer: %+v", view)
	}

	q.Answer.Record("Lyon")
	view = q.ClientView(KindMultipleChoice)
	if view.CorrectAnswer != "Paris" || view.PlayerAnswer != "Lyon" {
		t.Fatalf("answered question must reveal both answers: %+v", view)
	}
	if view.AnswerCorrect == nil || *view.AnswerCorrect {
		t.Fatalf("expected the wrong answer to be flagged incorrect")
	}
}
