package advisor

import (
	"context"
	"sync/atomic"
)

// Session serializes advisor traffic for one game. Every outbound request
// carries a monotonically increasing token; a response is only acceptable
// while its token is still current. Any local change that invalidates
// in-flight work (a move applied, an undo, a new game, a strength change)
// bumps the token, and the stale response is discarded instead of being
// applied to a position it was never computed for.
type Session struct {
	advisor Advisor
	token   atomic.Uint64
}

// NewSession wraps an advisor with token discipline.
func NewSession(a Advisor) *Session {
	return &Session{advisor: a}
}

// Result pairs a response with the token of the request that produced it.
type Result struct {
	Token    uint64
	Response Response
	Err      error
}

// Invalidate bumps the current token, orphaning every outstanding
// request. Call it whenever the game state the requests were computed
// against is no longer current.
func (s *Session) Invalidate() {
	s.token.Add(1)
}

// Current returns the token responses must match to be accepted.
func (s *Session) Current() uint64 {
	return s.token.Load()
}

// Accept reports whether a result is still current. Callers must check
// it before applying the suggested move.
func (s *Session) Accept(r Result) bool {
	return r.Err == nil && r.Token == s.token.Load()
}

// Request queries the advisor synchronously, tagging the result with the
// token that was current when the request went out.
func (s *Session) Request(ctx context.Context, req Request) Result {
	token := s.token.Load()
	resp, err := s.advisor.Suggest(ctx, req)
	return Result{Token: token, Response: resp, Err: err}
}

// RequestAsync runs the query on its own goroutine and delivers exactly
// one Result on the returned channel. The channel is buffered so an
// abandoned request never blocks its goroutine. The caller enforces at
// most one outstanding request per game; cancellation via ctx leaves the
// game exactly as it was.
func (s *Session) RequestAsync(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		ch <- s.Request(ctx, req)
	}()
	return ch
}
