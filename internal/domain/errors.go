package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game identifier resolves to no live session.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNotFound is returned when a player acts in a game they never joined.
	ErrPlayerNotFound = errors.New("player not found in this game")
	// ErrGameAlreadyStarted rejects ready-up after the game is underway.
	ErrGameAlreadyStarted = errors.New("game has already started")
	// ErrGameNotStarted rejects answers before the game begins.
	ErrGameNotStarted = errors.New("game has not started yet")
	// ErrNotPlayersTurn rejects answers from anyone but the current turn-holder.
	ErrNotPlayersTurn = errors.New("it's not this player's turn")
	// ErrQuestionOutOfRange indicates a question index outside the current item.
	ErrQuestionOutOfRange = errors.New("invalid question index")
	// ErrEmptyAnswer rejects blank submissions.
	ErrEmptyAnswer = errors.New("answer cannot be empty")
	// ErrAlreadyAnswered rejects a second answer for the same question.
	ErrAlreadyAnswered = errors.New("question has already been answered")
	// ErrNoUnseenItems means the bank is exhausted; the session cannot advance.
	ErrNoUnseenItems = errors.New("no unseen trivia items available")
	// ErrItemNotFound indicates an item identifier unknown to the bank.
	ErrItemNotFound = errors.New("trivia item not found")
)
