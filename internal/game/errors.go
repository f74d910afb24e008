package game

import "errors"

// Failure taxonomy for the rules core. Every public operation is atomic:
// on any of these errors the game is exactly as it was before the call.
var (
	ErrIllegalMove            = errors.New("illegal move")
	ErrPromotionRequired      = errors.New("promotion kind required")
	ErrPromotionNotApplicable = errors.New("promotion kind not applicable")
	ErrEmptyHistory           = errors.New("no move to undo")
	ErrGameNotInProgress      = errors.New("game not in progress")
	ErrGameAlreadyStarted     = errors.New("game already started")
	ErrDrawNotAvailable       = errors.New("draw not claimable")
)
