package game

import "errors"

var (
	ErrTableFull         = errors.New("table is full")
	ErrPlayerExists      = errors.New("player already seated")
	ErrPlayerNotSeated   = errors.New("player not seated")
	ErrHandNotRunning    = errors.New("no hand in progress")
	ErrHandInProgress    = errors.New("hand already in progress")
	ErrNotEnoughPlayers  = errors.New("at least two funded players required")
	ErrCannotAct         = errors.New("player cannot act")
	ErrNotYourTurn       = errors.New("not player's turn")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrUnknownAction     = errors.New("unknown action")
)
