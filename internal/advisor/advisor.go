// Package advisor is the boundary to the external move-suggestion
// engine. The engine is a black box behind a narrow request/response
// contract: a position string plus a budget goes out, a single candidate
// move or a numeric evaluation comes back. Timeouts and malformed
// responses are failures, never silently substituted defaults.
package advisor

import (
	"context"
	"errors"
	"time"
)

// Request is one outbound suggestion query. Exactly one of Depth or
// MoveTime should be set; both zero asks for the backend's default.
type Request struct {
	FEN      string
	Depth    int
	MoveTime time.Duration
}

// Response is what the external engine returned. BestMove is in long
// algebraic form; Eval is a centipawn score from the side to move's
// perspective. Found is false when the engine had nothing for the
// position (no legal move, or unavailable).
type Response struct {
	BestMove string
	Eval     int
	Found    bool
}

// Advisor produces move suggestions for a position.
type Advisor interface {
	Suggest(ctx context.Context, req Request) (Response, error)
}

// ErrUnavailable reports that the engine could not be reached or gave a
// malformed answer.
var ErrUnavailable = errors.New("advisor unavailable")
