package room

import (
	"errors"

	"github.com/lox/pokerrooms/internal/game"
)

// Dispatch applies a player's decision to the room the connection sits
// in. Every accepted action is followed by a gameUpdate to the room.
//
// Validation failures (unknown connection, no hand running, folded or
// all-in player, out of turn) leave the table untouched, are logged at
// debug level and are returned for the caller to drop.
func (r *Registry) Dispatch(connID string, d game.Decision) error {
	_, room, err := r.Lookup(connID)
	if err != nil {
		r.logger.Debug().Str("conn", connID).Str("action", d.String()).Msg("Action from unseated connection dropped")
		return ErrUnknownPlayer
	}

	if err := room.act(connID, d); err != nil {
		room.logger.Debug().
			Err(err).
			Str("conn", connID).
			Str("action", d.String()).
			Msg("Action dropped")
		return err
	}
	return nil
}

// DispatchWire parses a wire action name before dispatching it.
func (r *Registry) DispatchWire(connID, action string, amount int) error {
	a, err := game.ParseAction(action)
	if err != nil {
		return err
	}
	return r.Dispatch(connID, game.Decision{Action: a, Amount: amount})
}

// IsValidationError reports whether err is one of the dispatch errors
// that are dropped without telling anyone.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownPlayer) ||
		errors.Is(err, game.ErrHandNotRunning) ||
		errors.Is(err, game.ErrCannotAct) ||
		errors.Is(err, game.ErrNotYourTurn) ||
		errors.Is(err, game.ErrUnknownAction)
}
