// Package game owns the canonical mutable game: the position, the
// append-only move ledger, the lifecycle state machine and the game-end
// detector. All mutation goes through ApplyMove, Undo and Load.
package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Game is a single chess game session. It is single-threaded by design:
// every operation is a synchronous, atomic state transition.
type Game struct {
	pos      *board.Position
	startFEN string
	status   Status
	reason   DrawReason
	winner   board.Color // valid for Checkmate, Resigned, TimeForfeit

	history []MoveRecord
	keys    []uint64 // repetition keys, starting position included
}

// New creates a game at the standard starting position, NotStarted.
func New() *Game {
	g := &Game{}
	g.reset(board.NewPosition())
	return g
}

// Load replaces the whole game with the given position string. Every
// field is overwritten and the ledger is cleared; a foreign history must
// never survive a position load. The machine lands in NotStarted and
// needs an explicit Begin. On a decode error the previous game state is
// untouched.
func (g *Game) Load(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	g.reset(pos)
	return nil
}

func (g *Game) reset(pos *board.Position) {
	g.pos = pos
	g.startFEN = pos.ToFEN()
	g.status = NotStarted
	g.reason = DrawNone
	g.winner = board.NoColor
	g.history = nil
	g.keys = []uint64{pos.RepetitionKey()}
}

// Begin transitions NotStarted to InProgress.
func (g *Game) Begin() error {
	if g.status != NotStarted {
		return ErrGameAlreadyStarted
	}
	g.status = InProgress
	return nil
}

// Status returns the lifecycle state.
func (g *Game) Status() Status {
	return g.status
}

// Winner returns the winning side for Checkmate, Resigned and
// TimeForfeit, and NoColor otherwise.
func (g *Game) Winner() board.Color {
	return g.winner
}

// DrawReason returns the rule a DrawByRule game ended under.
func (g *Game) DrawReason() DrawReason {
	return g.reason
}

// SideToMove returns whose turn it is.
func (g *Game) SideToMove() board.Color {
	return g.pos.SideToMove
}

// FEN encodes the current position.
func (g *Game) FEN() string {
	return g.pos.ToFEN()
}

// StartFEN returns the canonical encoding of the position the ledger
// started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// Position returns a copy of the current position. The live position is
// owned by the game and only mutated through ApplyMove, Undo and Load.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// History returns the move ledger, oldest first.
func (g *Game) History() []MoveRecord {
	out := make([]MoveRecord, len(g.history))
	copy(out, g.history)
	return out
}

// LegalMoves enumerates the legal moves for the side to move.
func (g *Game) LegalMoves() []board.Move {
	return g.pos.LegalMoves()
}

// ApplyMove validates and applies one move for the side to move.
// promo names the promotion piece for a pawn reaching the last rank and
// must be NoPieceType for every other move. The returned record is the
// ledger entry just appended.
//
// On any error no field of the game has changed.
func (g *Game) ApplyMove(from, to board.Square, promo board.PieceType) (*MoveRecord, error) {
	if g.status != InProgress {
		return nil, fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("%v-%v: %w", from, to, board.ErrOutOfBounds)
	}

	candidate := g.pos.FindMove(from, to, board.NoPieceType)
	if candidate == board.NoMove {
		return nil, fmt.Errorf("%v%v: %w", from, to, ErrIllegalMove)
	}

	var m board.Move
	if candidate.IsPromotion() {
		if promo == board.NoPieceType {
			return nil, fmt.Errorf("%v%v: %w", from, to, ErrPromotionRequired)
		}
		m = g.pos.FindMove(from, to, promo)
		if m == board.NoMove {
			return nil, fmt.Errorf("%v%v=%v: %w", from, to, promo, ErrIllegalMove)
		}
	} else {
		if promo != board.NoPieceType {
			return nil, fmt.Errorf("%v%v: %w", from, to, ErrPromotionNotApplicable)
		}
		m = candidate
	}

	record := MoveRecord{
		From:               from,
		To:                 to,
		Piece:              g.pos.PieceAt(from),
		WasCastle:          m.IsCastling(),
		WasEnPassant:       m.IsEnPassant(),
		WasPromotion:       m.IsPromotion(),
		Mover:              g.pos.SideToMove,
		PrevCastling:       g.pos.Castling,
		PrevEnPassant:      g.pos.EnPassant,
		PrevHalfMoveClock:  g.pos.HalfMoveClock,
		PrevFullMoveNumber: g.pos.FullMoveNumber,
		move:               m,
		san:                m.ToSAN(g.pos),
	}
	if m.IsPromotion() {
		record.Promotion = m.Promotion()
	}

	res := g.pos.Make(m)
	record.Captured = res.Captured
	record.CaptureSquare = res.CaptureSquare

	g.history = append(g.history, record)
	g.keys = append(g.keys, g.pos.RepetitionKey())

	// Checkmate and stalemate end the game on the spot. Fifty-move and
	// threefold stay claimable; insufficient material is a dead position
	// and ends it as well.
	switch {
	case g.pos.IsCheckmate():
		g.status = Checkmate
		g.winner = record.Mover
	case g.pos.IsStalemate():
		g.status = Stalemate
	case g.pos.IsInsufficientMaterial():
		g.status = DrawByRule
		g.reason = DrawInsufficientMaterial
	}

	return &g.history[len(g.history)-1], nil
}

// ApplyUCI parses a long-algebraic move ("e2e4", "e7e8q") and applies it.
// Externally sourced moves go through the same entry point as human ones.
func (g *Game) ApplyUCI(s string) (*MoveRecord, error) {
	if g.status != InProgress {
		return nil, fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}
	m, err := board.ParseMove(s, g.pos)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, ErrIllegalMove)
	}
	promo := board.NoPieceType
	if m.IsPromotion() {
		promo = m.Promotion()
	}
	return g.ApplyMove(m.From(), m.To(), promo)
}

// ApplySAN parses a SAN move ("Nf3", "exd5", "e8=Q+") and applies it.
func (g *Game) ApplySAN(s string) (*MoveRecord, error) {
	if g.status != InProgress {
		return nil, fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}
	m, err := board.ParseSAN(s, g.pos)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, ErrIllegalMove)
	}
	promo := board.NoPieceType
	if m.IsPromotion() {
		promo = m.Promotion()
	}
	return g.ApplyMove(m.From(), m.To(), promo)
}

// Undo reverses the most recent move exactly, restoring the moved piece,
// any captured piece at its recorded square, both castle relocations, the
// original pawn for promotions, and the pre-move snapshot fields
// verbatim. The king cache is recomputed by full scan as a backstop.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrEmptyHistory
	}

	rec := g.history[len(g.history)-1]

	if _, err := g.pos.Remove(rec.To); err != nil {
		return err
	}
	restored := rec.Piece
	if rec.WasPromotion {
		restored = board.NewPiece(board.Pawn, rec.Mover)
	}
	if err := g.pos.Place(restored, rec.From); err != nil {
		return err
	}

	if rec.Captured != board.NoPiece {
		if err := g.pos.Place(rec.Captured, rec.CaptureSquare); err != nil {
			return err
		}
	}

	if rec.WasCastle {
		rank := rec.To.Rank()
		var rookFrom, rookTo board.Square
		if rec.KingSide() {
			rookFrom = board.NewSquare(5, rank)
			rookTo = board.NewSquare(7, rank)
		} else {
			rookFrom = board.NewSquare(3, rank)
			rookTo = board.NewSquare(0, rank)
		}
		rook, err := g.pos.Remove(rookFrom)
		if err != nil {
			return err
		}
		if err := g.pos.Place(rook, rookTo); err != nil {
			return err
		}
	}

	g.pos.Castling = rec.PrevCastling
	g.pos.EnPassant = rec.PrevEnPassant
	g.pos.HalfMoveClock = rec.PrevHalfMoveClock
	g.pos.FullMoveNumber = rec.PrevFullMoveNumber
	g.pos.SideToMove = rec.Mover
	g.pos.RescanKings()

	g.history = g.history[:len(g.history)-1]
	g.keys = g.keys[:len(g.keys)-1]

	// Taking a move back reopens the game, whatever ended it.
	g.status = InProgress
	g.reason = DrawNone
	g.winner = board.NoColor

	return nil
}

// Resign ends the game in favor of the resigning side's opponent.
func (g *Game) Resign(side board.Color) error {
	if g.status != InProgress {
		return fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}
	g.status = Resigned
	g.winner = side.Other()
	return nil
}

// Forfeit ends the game on time against the flagged side. The countdown
// itself lives outside the rules core; this is the transition it calls.
func (g *Game) Forfeit(side board.Color) error {
	if g.status != InProgress {
		return fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}
	g.status = TimeForfeit
	g.winner = side.Other()
	return nil
}

// ClaimDraw ends the game under a claimable draw rule. The detector only
// reports eligibility; this is the explicit claim.
func (g *Game) ClaimDraw(reason DrawReason) error {
	if g.status != InProgress {
		return fmt.Errorf("%w: %s", ErrGameNotInProgress, g.status)
	}

	switch reason {
	case DrawFiftyMove:
		if g.pos.HalfMoveClock < 100 {
			return fmt.Errorf("halfmove clock %d: %w", g.pos.HalfMoveClock, ErrDrawNotAvailable)
		}
	case DrawThreefold:
		if g.repetitionCount() < 3 {
			return fmt.Errorf("position repeated %d times: %w", g.repetitionCount(), ErrDrawNotAvailable)
		}
	case DrawAgreement:
		// Always claimable; both sides agreeing is the caller's business.
	default:
		return fmt.Errorf("%v: %w", reason, ErrDrawNotAvailable)
	}

	g.status = DrawByRule
	g.reason = reason
	return nil
}

// repetitionCount counts how often the current repetition key has
// occurred across the ledger, the starting position included.
func (g *Game) repetitionCount() int {
	current := g.keys[len(g.keys)-1]
	n := 0
	for _, k := range g.keys {
		if k == current {
			n++
		}
	}
	return n
}

// Outcome returns the PGN result token for the game.
func (g *Game) Outcome() string {
	switch g.status {
	case Checkmate, Resigned, TimeForfeit:
		if g.winner == board.White {
			return "1-0"
		}
		return "0-1"
	case Stalemate, DrawByRule:
		return "1/2-1/2"
	default:
		return "*"
	}
}
