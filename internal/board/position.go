package board

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds reports a square outside the board. Board mutations fail
// loudly on it instead of no-op'ing; a silent no-op can desynchronize the
// king-square cache.
var ErrOutOfBounds = errors.New("square out of bounds")

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can still castle on the given wing.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position represents a complete chess position: the 8x8 occupancy grid
// plus all side state the rules need. The grid is only mutated through
// Place and Remove so the king-square cache stays consistent.
type Position struct {
	squares    [64]Piece
	kingSquare [2]Square

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // target square for en passant, NoSquare if none
	HalfMoveClock  int    // halfmoves since last pawn move or capture
	FullMoveNumber int    // starts at 1, increments after Black moves
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Clear resets the position to an empty board with no side state.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for i := range p.squares {
		p.squares[i] = NoPiece
	}
	p.kingSquare[White] = NoSquare
	p.kingSquare[Black] = NoSquare
}

// PieceAt returns the piece at the given square, or NoPiece if the square
// is empty or invalid.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.squares[sq]
}

// IsEmpty returns true if the square is valid and unoccupied.
func (p *Position) IsEmpty(sq Square) bool {
	return sq.IsValid() && p.squares[sq] == NoPiece
}

// Place puts a piece on a square, updating the king-square cache.
func (p *Position) Place(piece Piece, sq Square) error {
	if !sq.IsValid() {
		return fmt.Errorf("place %v: %w", sq, ErrOutOfBounds)
	}
	if piece == NoPiece {
		return fmt.Errorf("place %v: no piece given", sq)
	}
	p.squares[sq] = piece
	if piece.Type() == King {
		p.kingSquare[piece.Color()] = sq
	}
	return nil
}

// Remove takes the piece off a square and returns it.
// Removing from an empty square returns NoPiece without error.
func (p *Position) Remove(sq Square) (Piece, error) {
	if !sq.IsValid() {
		return NoPiece, fmt.Errorf("remove %v: %w", sq, ErrOutOfBounds)
	}
	piece := p.squares[sq]
	p.squares[sq] = NoPiece
	if piece != NoPiece && piece.Type() == King {
		p.kingSquare[piece.Color()] = NoSquare
	}
	return piece, nil
}

// KingSquare returns the cached square of the given side's king,
// or NoSquare if that king is off the board.
func (p *Position) KingSquare(c Color) Square {
	if c >= NoColor {
		return NoSquare
	}
	return p.kingSquare[c]
}

// RescanKings recomputes the king-square cache by a full board scan.
// Undo uses it as a consistency backstop after reversing a move.
func (p *Position) RescanKings() {
	p.kingSquare[White] = NoSquare
	p.kingSquare[Black] = NoSquare
	for sq := A1; sq <= H8; sq++ {
		piece := p.squares[sq]
		if piece != NoPiece && piece.Type() == King {
			p.kingSquare[piece.Color()] = sq
		}
	}
}

// movePiece relocates the occupant of from to to, stomping any occupant
// of to. Caller has already resolved captures.
func (p *Position) movePiece(from, to Square) {
	piece := p.squares[from]
	if piece == NoPiece {
		return
	}
	p.squares[from] = NoPiece
	p.squares[to] = piece
	if piece.Type() == King {
		p.kingSquare[piece.Color()] = to
	}
}

// MoveResult reports what Make resolved while applying a move.
type MoveResult struct {
	Captured      Piece  // NoPiece when nothing was taken
	CaptureSquare Square // differs from the destination only for en passant
}

// Make applies an already validated move, updating the grid, the castling
// rights, the en-passant target, both clocks and the side to move as one
// transition. Legality is the caller's job; Make trusts its input.
func (p *Position) Make(m Move) MoveResult {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.squares[from]
	pt := piece.Type()

	res := MoveResult{Captured: NoPiece, CaptureSquare: NoSquare}

	// Resolve captures before moving anything.
	if m.IsEnPassant() {
		capturedSq := to - 8
		if us == Black {
			capturedSq = to + 8
		}
		res.Captured = p.squares[capturedSq]
		res.CaptureSquare = capturedSq
		p.squares[capturedSq] = NoPiece
	} else if captured := p.squares[to]; captured != NoPiece {
		res.Captured = captured
		res.CaptureSquare = to
	}

	p.movePiece(from, to)

	if m.IsPromotion() {
		p.squares[to] = NewPiece(m.Promotion(), us)
	}

	// Castling relocates the rook in the same transition as the king.
	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
	}

	// Any king move forfeits both wings; a rook leaving (or an enemy piece
	// landing on) a home corner forfeits that wing.
	if pt == King {
		if us == White {
			p.Castling &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.Castling &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		p.Castling &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.Castling &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.Castling &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.Castling &^= BlackKingSideCastle
	}

	// En passant is only available for the very next move.
	p.EnPassant = NoSquare
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if pt == Pawn || res.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them

	return res
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	ksq := p.kingSquare[p.SideToMove]
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, p.SideToMove.Other())
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.Castling)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	return s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
