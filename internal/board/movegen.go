package board

// Movement geometry for the closed piece-kind set. Sliding pieces walk
// rays until the first occupied square; leapers test fixed offsets.
var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// LegalMoves enumerates every legal move for the side to move.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := pseudo[:0:0]
	for _, m := range pseudo {
		if p.leavesKingSafe(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// Validate reports whether moving from one square to another is legal for
// the side to move. Illegal input is an expected case and returns false,
// never an error. A promoting move validates regardless of the promotion
// kind chosen later.
func (p *Position) Validate(from, to Square) bool {
	return p.FindMove(from, to, NoPieceType) != NoMove
}

// FindMove returns the legal move matching origin, destination and
// promotion kind, or NoMove. With promo == NoPieceType any promotion kind
// matches (the first generated is returned).
func (p *Position) FindMove(from, to Square, promo PieceType) Move {
	if !from.IsValid() || !to.IsValid() {
		return NoMove
	}
	for _, m := range p.LegalMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() && promo != NoPieceType && m.Promotion() != promo {
			continue
		}
		return m
	}
	return NoMove
}

// leavesKingSafe applies the move speculatively on a copy and reports
// whether the mover's own king is left unattacked. The copy keeps the
// speculative apply away from any persistent history.
func (p *Position) leavesKingSafe(m Move) bool {
	us := p.SideToMove
	probe := *p
	probe.Make(m)
	ksq := probe.kingSquare[us]
	if ksq == NoSquare {
		return false
	}
	return !probe.IsSquareAttacked(ksq, us.Other())
}

// PseudoLegalMoves enumerates moves obeying piece geometry and occupancy
// but not the own-king-safety filter.
func (p *Position) PseudoLegalMoves() []Move {
	us := p.SideToMove
	moves := make([]Move, 0, 64)

	for sq := A1; sq <= H8; sq++ {
		piece := p.squares[sq]
		if piece == NoPiece || piece.Color() != us {
			continue
		}
		switch piece.Type() {
		case Pawn:
			moves = p.pawnMoves(moves, sq, us)
		case Knight:
			moves = p.leaperMoves(moves, sq, us, knightOffsets[:])
		case Bishop:
			moves = p.sliderMoves(moves, sq, us, bishopDirs[:])
		case Rook:
			moves = p.sliderMoves(moves, sq, us, rookDirs[:])
		case Queen:
			moves = p.sliderMoves(moves, sq, us, bishopDirs[:])
			moves = p.sliderMoves(moves, sq, us, rookDirs[:])
		case King:
			moves = p.leaperMoves(moves, sq, us, kingOffsets[:])
		case NoPieceType:
			// unreachable: storage never holds the sentinel
		}
	}

	moves = p.castlingMoves(moves, us)
	return moves
}

// leaperMoves generates knight and king moves from fixed offsets.
func (p *Position) leaperMoves(moves []Move, from Square, us Color, offsets [][2]int) []Move {
	file, rank := from.File(), from.Rank()
	for _, off := range offsets {
		to := NewSquare(file+off[0], rank+off[1])
		if to == NoSquare {
			continue
		}
		occupant := p.squares[to]
		if occupant != NoPiece && occupant.Color() == us {
			continue
		}
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

// sliderMoves generates bishop, rook and queen rays: a ray stops at the
// first occupied square and includes it only when it holds an enemy.
func (p *Position) sliderMoves(moves []Move, from Square, us Color, dirs [][2]int) []Move {
	file, rank := from.File(), from.Rank()
	for _, dir := range dirs {
		for step := 1; ; step++ {
			to := NewSquare(file+dir[0]*step, rank+dir[1]*step)
			if to == NoSquare {
				break
			}
			occupant := p.squares[to]
			if occupant == NoPiece {
				moves = append(moves, NewMove(from, to))
				continue
			}
			if occupant.Color() != us {
				moves = append(moves, NewMove(from, to))
			}
			break
		}
	}
	return moves
}

// pawnMoves generates pushes, double pushes, diagonal captures, en passant
// and promotions for one pawn.
func (p *Position) pawnMoves(moves []Move, from Square, us Color) []Move {
	file, rank := from.File(), from.Rank()

	forward := 1
	startRank := 1
	promoRank := 7
	if us == Black {
		forward = -1
		startRank = 6
		promoRank = 0
	}

	addPawnMove := func(from, to Square) []Move {
		if to.Rank() == promoRank {
			return append(moves,
				NewPromotion(from, to, Queen),
				NewPromotion(from, to, Rook),
				NewPromotion(from, to, Bishop),
				NewPromotion(from, to, Knight))
		}
		return append(moves, NewMove(from, to))
	}

	// Single push onto an empty square.
	one := NewSquare(file, rank+forward)
	if one != NoSquare && p.squares[one] == NoPiece {
		moves = addPawnMove(from, one)

		// Double push from the start rank needs both squares empty.
		if rank == startRank {
			two := NewSquare(file, rank+2*forward)
			if two != NoSquare && p.squares[two] == NoPiece {
				moves = append(moves, NewMove(from, two))
			}
		}
	}

	// Diagonal captures, including the en passant target square.
	for _, df := range [2]int{-1, 1} {
		to := NewSquare(file+df, rank+forward)
		if to == NoSquare {
			continue
		}
		occupant := p.squares[to]
		if occupant != NoPiece && occupant.Color() != us {
			moves = addPawnMove(from, to)
		} else if occupant == NoPiece && to == p.EnPassant && p.EnPassant != NoSquare {
			moves = append(moves, NewEnPassant(from, to))
		}
	}

	return moves
}

// castlingMoves generates the available castles: rights intact, path empty,
// king not in check and not crossing or landing on an attacked square.
func (p *Position) castlingMoves(moves []Move, us Color) []Move {
	them := us.Other()

	rank := 0
	if us == Black {
		rank = 7
	}
	kingFrom := NewSquare(4, rank)

	// Rights can outlive the pieces in a hand-written FEN; require the
	// king and rook to actually sit on their home squares.
	if p.squares[kingFrom] != NewPiece(King, us) {
		return moves
	}
	rook := NewPiece(Rook, us)

	if p.Castling.CanCastle(us, true) && p.squares[NewSquare(7, rank)] == rook {
		f := NewSquare(5, rank)
		g := NewSquare(6, rank)
		if p.squares[f] == NoPiece && p.squares[g] == NoPiece &&
			!p.IsSquareAttacked(kingFrom, them) &&
			!p.IsSquareAttacked(f, them) &&
			!p.IsSquareAttacked(g, them) {
			moves = append(moves, NewCastling(kingFrom, g))
		}
	}

	if p.Castling.CanCastle(us, false) && p.squares[NewSquare(0, rank)] == rook {
		b := NewSquare(1, rank)
		c := NewSquare(2, rank)
		d := NewSquare(3, rank)
		if p.squares[b] == NoPiece && p.squares[c] == NoPiece && p.squares[d] == NoPiece &&
			!p.IsSquareAttacked(kingFrom, them) &&
			!p.IsSquareAttacked(d, them) &&
			!p.IsSquareAttacked(c, them) {
			moves = append(moves, NewCastling(kingFrom, c))
		}
	}

	return moves
}

// IsSquareAttacked reports whether any piece of the given color attacks
// the square. It runs the movement rules in reverse; pawns use their
// diagonal-capture geometry, never their push geometry.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	if !sq.IsValid() {
		return false
	}
	file, rank := sq.File(), sq.Rank()

	// Pawns: a white pawn attacks from one rank below, black from above.
	pawnRank := rank - 1
	if byColor == Black {
		pawnRank = rank + 1
	}
	for _, df := range [2]int{-1, 1} {
		from := NewSquare(file+df, pawnRank)
		if from != NoSquare && p.squares[from] == NewPiece(Pawn, byColor) {
			return true
		}
	}

	for _, off := range knightOffsets {
		from := NewSquare(file+off[0], rank+off[1])
		if from != NoSquare && p.squares[from] == NewPiece(Knight, byColor) {
			return true
		}
	}

	for _, off := range kingOffsets {
		from := NewSquare(file+off[0], rank+off[1])
		if from != NoSquare && p.squares[from] == NewPiece(King, byColor) {
			return true
		}
	}

	// Sliding attackers: first occupant along each ray decides.
	bishop := NewPiece(Bishop, byColor)
	rook := NewPiece(Rook, byColor)
	queen := NewPiece(Queen, byColor)

	for _, dir := range bishopDirs {
		for step := 1; ; step++ {
			from := NewSquare(file+dir[0]*step, rank+dir[1]*step)
			if from == NoSquare {
				break
			}
			occupant := p.squares[from]
			if occupant == NoPiece {
				continue
			}
			if occupant == bishop || occupant == queen {
				return true
			}
			break
		}
	}

	for _, dir := range rookDirs {
		for step := 1; ; step++ {
			from := NewSquare(file+dir[0]*step, rank+dir[1]*step)
			if from == NoSquare {
				break
			}
			occupant := p.squares[from]
			if occupant == NoPiece {
				continue
			}
			if occupant == rook || occupant == queen {
				return true
			}
			break
		}
	}

	return false
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	for _, m := range p.PseudoLegalMoves() {
		if p.leavesKingSafe(m) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is in check with no moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is not in check yet has
// no moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can ever checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	var knights, bishops [2]int

	for sq := A1; sq <= H8; sq++ {
		piece := p.squares[sq]
		if piece == NoPiece {
			continue
		}
		switch piece.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			knights[piece.Color()]++
		case Bishop:
			bishops[piece.Color()]++
		case King, NoPieceType:
		}
	}

	wMinor := knights[White] + bishops[White]
	bMinor := knights[Black] + bishops[Black]

	// K vs K, or K+single-minor vs K.
	if wMinor+bMinor == 0 {
		return true
	}
	if wMinor <= 1 && bMinor == 0 {
		return true
	}
	if bMinor <= 1 && wMinor == 0 {
		return true
	}
	return false
}
