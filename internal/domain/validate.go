package domain

import "fmt"

// Authoring limits for new trivia items.
const (
	minPromptLength      = 10
	maxPromptLength      = 150
	minQuestionLength    = 1
	maxQuestionLength    = 75
	minExplanationLength = 10
	maxExplanationLength = 30
	minAnswerLength      = 1
	maxAnswerLength      = 30

	minQuestionsPerItem  = 2
	maxQuestionsPerItem  = 10
	minAcceptableAnswers = 1
	maxAcceptableAnswers = 4
	minChoices           = 2
	maxChoices           = 4

	minTagLength = 2
	maxTagLength = 30
	minTags      = 1
	maxTags      = 4
)

// Validate checks an item against the authoring rules. Played (session)
// copies are never validated; this guards the bank write path only.
func (it Item) Validate() error {
	if l := len(it.Prompt); l < minPromptLength || l > maxPromptLength {
		return fmt.Errorf("prompt must be %d-%d characters, got %d", minPromptLength, maxPromptLength, l)
	}
	if err := validateTags(it.Tags); err != nil {
		return err
	}
	if n := len(it.Questions); n < minQuestionsPerItem || n > maxQuestionsPerItem {
		return fmt.Errorf("item must have %d-%d questions, got %d", minQuestionsPerItem, maxQuestionsPerItem, n)
	}
	for i, q := range it.Questions {
		if l := len(q.Text); l < minQuestionLength || l > maxQuestionLength {
			return fmt.Errorf("question %d: text must be %d-%d characters", i, minQuestionLength, maxQuestionLength)
		}
		if q.Explanation != "" {
			if l := len(q.Explanation); l < minExplanationLength || l > maxExplanationLength {
				return fmt.Errorf("question %d: explanation must be %d-%d characters", i, minExplanationLength, maxExplanationLength)
			}
		}
	}

	switch it.Kind {
	case KindMultipleChoice:
		return it.validateMultipleChoice()
	case KindTrueOrFalse:
		for i, q := range it.Questions {
			if q.Truth == nil {
				return fmt.Errorf("question %d: true/false answer is required", i)
			}
		}
	case KindFillInTheBlank:
		for i, q := range it.Questions {
			if n := len(q.Accepted); n < minAcceptableAnswers || n > maxAcceptableAnswers {
				return fmt.Errorf("question %d: must have %d-%d acceptable answers", i, minAcceptableAnswers, maxAcceptableAnswers)
			}
			if !uniqueStrings(q.Accepted) {
				return fmt.Errorf("question %d: acceptable answers must be unique", i)
			}
			for _, a := range q.Accepted {
				if l := len(a); l < minAnswerLength || l > maxAnswerLength {
					return fmt.Errorf("question %d: answers must be %d-%d characters", i, minAnswerLength, maxAnswerLength)
				}
			}
		}
	case KindOrdering:
		return it.validateOrdering()
	default:
		return fmt.Errorf("unsupported question type: %q", it.Kind)
	}
	return nil
}

func (it Item) validateMultipleChoice() error {
	if n := len(it.Choices); n < minChoices || n > maxChoices {
		return fmt.Errorf("multiple choice items need %d-%d options, got %d", minChoices, maxChoices, n)
	}
	if !uniqueStrings(it.Choices) {
		return fmt.Errorf("multiple choice options must be unique")
	}
	options := make(map[string]struct{}, len(it.Choices))
	for _, c := range it.Choices {
		if l := len(c); l < minAnswerLength || l > maxAnswerLength {
			return fmt.Errorf("options must be %d-%d characters", minAnswerLength, maxAnswerLength)
		}
		options[c] = struct{}{}
	}
	for i, q := range it.Questions {
		if _, ok := options[q.Choice]; !ok {
			return fmt.Errorf("question %d: answer %q is not among the options", i, q.Choice)
		}
	}
	return nil
}

// validateOrdering requires the ranks to form a continuous 1..N range.
func (it Item) validateOrdering() error {
	seen := make(map[int]struct{}, len(it.Questions))
	for i, q := range it.Questions {
		if q.Rank == nil {
			return fmt.Errorf("question %d: ordering answer is required", i)
		}
		if *q.Rank < 1 || *q.Rank > len(it.Questions) {
			return fmt.Errorf("question %d: ordering answer %d outside 1-%d", i, *q.Rank, len(it.Questions))
		}
		if _, dup := seen[*q.Rank]; dup {
			return fmt.Errorf("question %d: duplicate ordering answer %d", i, *q.Rank)
		}
		seen[*q.Rank] = struct{}{}
	}
	return nil
}

func validateTags(tags []string) error {
	if n := len(tags); n < minTags || n > maxTags {
		return fmt.Errorf("item must have %d-%d tags, got %d", minTags, maxTags, n)
	}
	if !uniqueStrings(tags) {
		return fmt.Errorf("tags must be unique")
	}
	for _, tag := range tags {
		if l := len(tag); l < minTagLength || l > maxTagLength {
			return fmt.Errorf("tags must be %d-%d characters", minTagLength, maxTagLength)
		}
	}
	return nil
}

func uniqueStrings(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
