package board

import "testing"

// perft counts leaf nodes at the given depth, the standard way to verify
// move generation correctness.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		child := p.Copy()
		child.Make(m)
		nodes += perft(child, depth-1)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftKiwipete exercises castling, pins and promotions heavily.
func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}

	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftPosition3 exercises en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestEnPassantHorizontalPin: the en passant capture removes two pawns
// from the fourth rank, exposing the black king to the rook on h4.
func TestEnPassantHorizontalPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, m := range pos.LegalMoves() {
		if m.IsEnPassant() {
			t.Errorf("en passant %v should be illegal (horizontal pin)", m)
		}
	}

	if got := perft(pos, 1); got != 6 {
		t.Errorf("perft(1) = %d, want 6", got)
	}
}

func TestCastlingThroughCheck(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingSide  bool
		queenSide bool
	}{
		{
			name:      "clear board, both wings",
			fen:       "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			kingSide:  true,
			queenSide: true,
		},
		{
			name:      "f1 attacked blocks kingside only",
			fen:       "r4r1k/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			kingSide:  false,
			queenSide: true,
		},
		{
			name:      "king in check blocks both",
			fen:       "r3k2r/8/8/8/8/4r3/8/R3K2R w KQkq - 0 1",
			kingSide:  false,
			queenSide: false,
		},
		{
			name:      "b1 attacked does not block queenside",
			fen:       "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			kingSide:  true,
			queenSide: true,
		},
		{
			name:      "rights gone",
			fen:       "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1",
			kingSide:  false,
			queenSide: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			var kingSide, queenSide bool
			for _, m := range pos.LegalMoves() {
				if !m.IsCastling() {
					continue
				}
				if m.To() == G1 {
					kingSide = true
				}
				if m.To() == C1 {
					queenSide = true
				}
			}

			if kingSide != tc.kingSide {
				t.Errorf("kingside castle legal = %v, want %v", kingSide, tc.kingSide)
			}
			if queenSide != tc.queenSide {
				t.Errorf("queenside castle legal = %v, want %v", queenSide, tc.queenSide)
			}
		})
	}
}

func TestCastlingMovesBothPiecesAtomically(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	pos.Make(NewCastling(E1, G1))

	if pos.PieceAt(G1) != WhiteKing {
		t.Errorf("king at g1 = %v", pos.PieceAt(G1))
	}
	if pos.PieceAt(F1) != WhiteRook {
		t.Errorf("rook at f1 = %v", pos.PieceAt(F1))
	}
	if pos.PieceAt(E1) != NoPiece || pos.PieceAt(H1) != NoPiece {
		t.Error("origin squares not vacated")
	}
	if pos.KingSquare(White) != G1 {
		t.Errorf("king cache = %v, want g1", pos.KingSquare(White))
	}
	if pos.Castling.CanCastle(White, true) || pos.Castling.CanCastle(White, false) {
		t.Error("white castling rights should be permanently gone")
	}
	if !pos.Castling.CanCastle(Black, true) || !pos.Castling.CanCastle(Black, false) {
		t.Error("black castling rights should be untouched")
	}
}

func TestRookMoveDropsOneRight(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	pos.Make(NewMove(H1, H5))

	if pos.Castling.CanCastle(White, true) {
		t.Error("kingside right should be gone after the h-rook's first move")
	}
	if !pos.Castling.CanCastle(White, false) {
		t.Error("queenside right should survive")
	}
}

func TestIsSquareAttackedPawnGeometry(t *testing.T) {
	// A pawn attacks diagonally, never straight ahead.
	pos, err := ParseFEN("4k3/8/8/8/8/4p3/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if pos.IsSquareAttacked(E2, Black) {
		t.Error("e2 should not be attacked: pawns do not attack forward")
	}
	if !pos.IsSquareAttacked(D2, Black) || !pos.IsSquareAttacked(F2, Black) {
		t.Error("d2 and f2 should be attacked by the e3 pawn")
	}
}

func TestValidateRejectsWithoutError(t *testing.T) {
	pos := NewPosition()

	if !pos.Validate(E2, E4) {
		t.Error("e2e4 should validate")
	}
	if pos.Validate(E2, E5) {
		t.Error("e2e5 should not validate")
	}
	if pos.Validate(E7, E5) {
		t.Error("moving the opponent's pawn should not validate")
	}
	if pos.Validate(NoSquare, E4) {
		t.Error("invalid origin should not validate")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"4kb2/8/8/8/8/8/8/4KB2 w - - 0 1", false},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/4K2R w - - 0 1", false},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.fen, err)
		}
		if got := pos.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("IsInsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}
