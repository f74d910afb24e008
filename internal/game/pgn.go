package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// SANHistory returns the ledger rendered as SAN strings, oldest first.
func (g *Game) SANHistory() []string {
	out := make([]string, len(g.history))
	for i := range g.history {
		out[i] = g.history[i].san
	}
	return out
}

// PGN renders the game as a numbered transcript with a result tag. A game
// that began from a non-standard position carries that position in SetUp
// and FEN tags, without which a replayer cannot reconstruct it.
func (g *Game) PGN() string {
	var sb strings.Builder

	result := g.Outcome()
	sb.WriteString(fmt.Sprintf("[Result %q]\n", result))
	if g.startFEN != board.StartFEN {
		sb.WriteString("[SetUp \"1\"]\n")
		sb.WriteString(fmt.Sprintf("[FEN %q]\n", g.startFEN))
	}
	sb.WriteByte('\n')

	for i := range g.history {
		rec := &g.history[i]
		if rec.Mover == board.White {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%d. ", rec.PrevFullMoveNumber))
		} else if i == 0 {
			// Black opened from a loaded position.
			sb.WriteString(fmt.Sprintf("%d... ", rec.PrevFullMoveNumber))
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(rec.san)
	}

	if len(g.history) > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(result)
	sb.WriteByte('\n')

	return sb.String()
}
