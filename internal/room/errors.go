package room

import (
	"errors"

	"github.com/lox/pokerrooms/internal/game"
)

var (
	ErrTableFull      = game.ErrTableFull
	ErrNotFound       = errors.New("room not found")
	ErrUnknownPlayer  = errors.New("connection is not seated")
	ErrInvalidBuyIn   = errors.New("buy-in outside allowed range")
	ErrAlreadySeated  = errors.New("connection already seated")
	ErrInvalidRoomID  = errors.New("invalid room id")
	ErrRegistryClosed = errors.New("registry closed")
)
