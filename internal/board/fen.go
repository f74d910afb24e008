package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
//
// Exactly six whitespace-separated fields are required: placement, side,
// castling, en passant, halfmove clock, fullmove number. Decoding is
// validate-then-commit: a failure at any field returns an error and no
// Position, so a malformed string can never half-overwrite a live game.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: need 6 fields, got %d", len(parts))
	}

	pos := &Position{}
	pos.Clear()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingField(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	hmc, err := strconv.Atoi(parts[4])
	if err != nil || hmc < 0 {
		return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
	}
	pos.HalfMoveClock = hmc

	fmn, err := strconv.Atoi(parts[5])
	if err != nil || fmn < 0 {
		return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
	}
	pos.FullMoveNumber = fmn

	if pos.kingSquare[White] == NoSquare || pos.kingSquare[Black] == NoSquare {
		return nil, fmt.Errorf("invalid FEN: both kings must be present")
	}

	return pos, nil
}

// parsePiecePlacement parses the piece placement field of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	var whiteKings, blackKings int

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			if piece == WhiteKing {
				whiteKings++
			}
			if piece == BlackKing {
				blackKings++
			}
			if err := pos.Place(piece, NewSquare(file, rank)); err != nil {
				return err
			}
			file++
		}

		if file != 8 {
			return fmt.Errorf("rank %d sums to %d files, want 8", rank+1, file)
		}
	}

	if whiteKings != 1 || blackKings != 1 {
		return fmt.Errorf("need exactly one king per side, got %d white and %d black", whiteKings, blackKings)
	}

	return nil
}

// parseCastlingField parses the castling rights field of a FEN string.
func parseCastlingField(pos *Position, castling string) error {
	if castling == "-" {
		pos.Castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.Castling |= WhiteKingSideCastle
		case 'Q':
			pos.Castling |= WhiteQueenSideCastle
		case 'k':
			pos.Castling |= BlackKingSideCastle
		case 'q':
			pos.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position. It is the exact
// inverse of ParseFEN for every reachable state.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
