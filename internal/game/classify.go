package game

import "fmt"

// Classification is the detector's verdict on the current state and
// ledger. Checkmate, stalemate and dead positions are terminal facts;
// fifty-move and threefold are reported as claim eligibility and ending
// the game on them is a separate, explicit decision.
type Classification struct {
	Status               Status
	InCheck              bool
	LegalMoves           int
	FiftyMoveEligible    bool
	ThreefoldEligible    bool
	InsufficientMaterial bool
	Repetitions          int
}

// Classify evaluates the terminal conditions for the current state. It is
// only meaningful once the game has begun; a freshly loaded, not-yet-
// started position must not produce end-of-game verdicts.
func (g *Game) Classify() (Classification, error) {
	if g.status == NotStarted {
		return Classification{}, fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}

	c := Classification{
		Status:               g.status,
		InCheck:              g.pos.InCheck(),
		LegalMoves:           len(g.pos.LegalMoves()),
		InsufficientMaterial: g.pos.IsInsufficientMaterial(),
		Repetitions:          g.repetitionCount(),
	}
	c.FiftyMoveEligible = g.pos.HalfMoveClock >= 100
	c.ThreefoldEligible = c.Repetitions >= 3

	if g.status != InProgress {
		return c, nil
	}

	switch {
	case c.InCheck && c.LegalMoves == 0:
		c.Status = Checkmate
	case !c.InCheck && c.LegalMoves == 0:
		c.Status = Stalemate
	case c.InsufficientMaterial:
		c.Status = DrawByRule
	}

	return c, nil
}
