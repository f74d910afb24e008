package board

// Zobrist keys for position fingerprinting.
// Fixed-seed PRNG keeps keys reproducible across runs.
var (
	zobristPiece     [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant [8]uint64        // one per file
	zobristCastling  [16]uint64       // all castling-rights combinations
)

func init() {
	initZobrist()
}

// xorshift64* PRNG.
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x9E3779B97F4A7C15}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}
}

// RepetitionKey returns the position fingerprint used for threefold
// repetition: piece placement, castling rights and en passant
// availability. Side to move and the move counters are deliberately
// excluded from the key.
func (p *Position) RepetitionKey() uint64 {
	var key uint64

	for sq := A1; sq <= H8; sq++ {
		piece := p.squares[sq]
		if piece == NoPiece {
			continue
		}
		key ^= zobristPiece[piece.Color()][piece.Type()][sq]
	}

	key ^= zobristCastling[p.Castling]

	if p.EnPassant != NoSquare {
		key ^= zobristEnPassant[p.EnPassant.File()]
	}

	return key
}
