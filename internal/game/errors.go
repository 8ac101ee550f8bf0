package game

import "errors"

var (
	ErrSessionNotFound = errors.New("no authenticated session for player")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerExists    = errors.New("player already exists")
	ErrAlreadyStarted  = errors.New("server already started")
	ErrExhausted       = errors.New("not enough stamina")

	// ErrNoPlayerData is returned by a PlayerStore that has nothing saved for
	// the requested player.
	ErrNoPlayerData = errors.New("no saved player data")
)
