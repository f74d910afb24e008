package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a move to Standard Algebraic Notation against the
// position it is about to be played in. The check and mate suffixes are
// computed by applying the move to a copy, never guessed.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)

	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder

	if m.IsCastling() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
		sb.WriteString(checkSuffix(pos, m))
		return sb.String()
	}

	pt := piece.Type()

	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(disambiguation(pos, m, pt))
	}

	if m.IsCapture(pos) {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("PNBRQK"[m.Promotion()])
	}

	sb.WriteString(checkSuffix(pos, m))

	return sb.String()
}

// checkSuffix returns "#", "+" or "" for the position after the move.
func checkSuffix(pos *Position, m Move) string {
	after := pos.Copy()
	after.Make(m)
	if after.IsCheckmate() {
		return "#"
	}
	if after.InCheck() {
		return "+"
	}
	return ""
}

// disambiguation returns the origin qualifier needed when another piece of
// the same kind can reach the same destination.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from := m.From()
	to := m.To()
	us := pos.SideToMove

	var sameFile, sameRank, ambiguous bool
	for _, other := range pos.LegalMoves() {
		if other.To() != to || other.From() == from {
			continue
		}
		otherPiece := pos.PieceAt(other.From())
		if otherPiece != NewPiece(pt, us) {
			continue
		}
		ambiguous = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !ambiguous {
		return ""
	}
	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string against the position and returns the
// matching legal move, or an error when nothing matches.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		rank := 0
		if pos.SideToMove == Black {
			rank = 7
		}
		toFile := 6
		if strings.Count(s, "-") == 2 {
			toFile = 2
		}
		m := pos.FindMove(NewSquare(4, rank), NewSquare(toFile, rank), NoPieceType)
		if m == NoMove {
			return NoMove, fmt.Errorf("illegal castle %q", orig)
		}
		return m, nil
	}

	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		switch s[idx+1] {
		case 'N':
			promo = Knight
		case 'B':
			promo = Bishop
		case 'R':
			promo = Rook
		case 'Q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion in %q", orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("invalid piece letter in %q", orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid move %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("invalid destination in %q", orig)
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("invalid disambiguation in %q", orig)
		}
	}

	for _, m := range pos.LegalMoves() {
		if m.To() != dest {
			continue
		}
		from := m.From()
		if pos.PieceAt(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		if promo != NoPieceType && (!m.IsPromotion() || m.Promotion() != promo) {
			continue
		}
		if promo == NoPieceType && m.IsPromotion() {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("no legal move matches %q", orig)
}
