package game

// Status is the lifecycle state of a single game. A freshly constructed
// or freshly loaded game is NotStarted and needs an explicit Begin before
// moves are accepted or terminal conditions evaluated.
type Status uint8

const (
	NotStarted Status = iota
	InProgress
	Checkmate
	Stalemate
	Resigned
	DrawByRule
	TimeForfeit
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Resigned:
		return "resigned"
	case DrawByRule:
		return "draw"
	case TimeForfeit:
		return "time forfeit"
	default:
		return "unknown"
	}
}

// Terminal reports whether the game has ended.
func (s Status) Terminal() bool {
	switch s {
	case Checkmate, Stalemate, Resigned, DrawByRule, TimeForfeit:
		return true
	default:
		return false
	}
}

// DrawReason identifies which rule a DrawByRule game ended under.
type DrawReason uint8

const (
	DrawNone DrawReason = iota
	DrawFiftyMove
	DrawThreefold
	DrawInsufficientMaterial
	DrawAgreement
)

// String returns the draw reason name.
func (r DrawReason) String() string {
	switch r {
	case DrawFiftyMove:
		return "fifty-move rule"
	case DrawThreefold:
		return "threefold repetition"
	case DrawInsufficientMaterial:
		return "insufficient material"
	case DrawAgreement:
		return "agreement"
	default:
		return "none"
	}
}
