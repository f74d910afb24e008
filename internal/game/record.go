package game

import "github.com/hailam/chesscore/internal/board"

// MoveRecord is the immutable snapshot of one applied move. Alongside the
// move itself it carries a full copy of the four state fields ApplyMove
// was about to change, as they stood before the move, which is what makes
// Undo exact regardless of any derived recomputation.
type MoveRecord struct {
	From board.Square
	To   board.Square

	Piece         board.Piece  // the piece that moved (the pawn, for promotions)
	Captured      board.Piece  // NoPiece when nothing was taken
	CaptureSquare board.Square // differs from To only for en passant

	WasCastle    bool
	WasEnPassant bool
	WasPromotion bool
	Promotion    board.PieceType // valid only when WasPromotion

	Mover board.Color

	// Pre-move snapshot.
	PrevCastling       board.CastlingRights
	PrevEnPassant      board.Square
	PrevHalfMoveClock  int
	PrevFullMoveNumber int

	move board.Move
	san  string
}

// Notation returns the move in Standard Algebraic Notation, including
// any check or mate suffix as it stood when the move was applied.
func (r *MoveRecord) Notation() string {
	return r.san
}

// UCI returns the move in long algebraic form (e.g. "e2e4", "e7e8q").
func (r *MoveRecord) UCI() string {
	return r.move.String()
}

// KingSide reports whether a castle record was kingside, by comparing the
// king's destination file.
func (r *MoveRecord) KingSide() bool {
	return r.WasCastle && r.To.File() == 6
}
