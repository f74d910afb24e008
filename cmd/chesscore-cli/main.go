// chesscore-cli drives one game session over a line-oriented console
// protocol: moves in long algebraic or SAN, position loads via FEN,
// undo, draw claims, transcript export and cloud advice.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/advisor"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

func main() {
	var (
		dbDir      = flag.String("db", "", "database directory (default: platform data dir)")
		noStore    = flag.Bool("no-store", false, "disable game persistence")
		advisorURL = flag.String("advisor-url", "", "cloud advisor endpoint (default: public)")
	)
	flag.Parse()

	cli := &CLI{
		game:    game.New(),
		session: advisor.NewSession(advisor.NewCloudAdvisor(*advisorURL)),
		out:     os.Stdout,
	}

	if !*noStore {
		store, err := storage.Open(*dbDir)
		if err != nil {
			log.Printf("warning: persistence disabled: %v", err)
		} else {
			cli.store = store
			defer store.Close()
		}
	}

	cli.Run(os.Stdin)
}

// CLI holds one interactive session.
type CLI struct {
	game    *game.Game
	session *advisor.Session
	store   *storage.Store
	out     *os.File
	saved   int
}

// Run processes commands until EOF or quit.
func (c *CLI) Run(in *os.File) {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "new":
			c.game = game.New()
			c.session.Invalidate()
			fmt.Fprintln(c.out, "ok")
		case "load":
			c.handleLoad(args)
		case "begin":
			c.report(c.game.Begin())
		case "move":
			c.handleMove(args)
		case "undo":
			if err := c.game.Undo(); err != nil {
				fmt.Fprintln(c.out, "error:", err)
				break
			}
			c.session.Invalidate()
			fmt.Fprintln(c.out, "ok")
		case "fen":
			fmt.Fprintln(c.out, c.game.FEN())
		case "pgn":
			fmt.Fprint(c.out, c.game.PGN())
		case "moves":
			for _, m := range c.game.LegalMoves() {
				fmt.Fprint(c.out, m, " ")
			}
			fmt.Fprintln(c.out)
		case "status":
			c.handleStatus()
		case "advise":
			c.handleAdvise(args)
		case "resign":
			c.report(c.game.Resign(c.game.SideToMove()))
		case "claim":
			c.handleClaim(args)
		case "save":
			c.handleSave()
		case "d":
			fmt.Fprintln(c.out, c.game.Position())
		case "quit":
			return
		default:
			fmt.Fprintf(c.out, "error: unknown command %q\n", cmd)
		}
	}
}

func (c *CLI) report(err error) {
	if err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}
	fmt.Fprintln(c.out, "ok")
}

func (c *CLI) handleLoad(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "error: load needs a FEN")
		return
	}
	if err := c.game.Load(strings.Join(args, " ")); err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}
	c.session.Invalidate()
	fmt.Fprintln(c.out, "ok (not started; issue 'begin' to play)")
}

func (c *CLI) handleMove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "error: move needs one argument")
		return
	}

	var rec *game.MoveRecord
	var err error
	if looksLikeUCI(args[0]) {
		rec, err = c.game.ApplyUCI(args[0])
	} else {
		rec, err = c.game.ApplySAN(args[0])
	}
	if err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}

	c.session.Invalidate()
	fmt.Fprintln(c.out, rec.Notation())

	if c.game.Status().Terminal() {
		fmt.Fprintln(c.out, "game over:", c.game.Status(), c.game.Outcome())
	}
}

func looksLikeUCI(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	return s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' &&
		s[2] >= 'a' && s[2] <= 'h' && s[3] >= '1' && s[3] <= '8'
}

func (c *CLI) handleStatus() {
	fmt.Fprintf(c.out, "status: %s, %s to move\n", c.game.Status(), c.game.SideToMove())

	cls, err := c.game.Classify()
	if err != nil {
		return
	}
	if cls.InCheck {
		fmt.Fprintln(c.out, "in check")
	}
	if cls.FiftyMoveEligible {
		fmt.Fprintln(c.out, "fifty-move draw claimable")
	}
	if cls.ThreefoldEligible {
		fmt.Fprintln(c.out, "threefold repetition draw claimable")
	}
}

func (c *CLI) handleAdvise(args []string) {
	depth := 0
	if len(args) == 1 {
		fmt.Sscanf(args[0], "%d", &depth)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := c.session.Request(ctx, advisor.Request{FEN: c.game.FEN(), Depth: depth})
	if !c.session.Accept(result) {
		if result.Err != nil {
			fmt.Fprintln(c.out, "error:", result.Err)
		} else {
			fmt.Fprintln(c.out, "advice discarded: position changed")
		}
		return
	}
	if !result.Response.Found {
		fmt.Fprintln(c.out, "no advice for this position")
		return
	}
	fmt.Fprintf(c.out, "best %s eval %+d\n", result.Response.BestMove, result.Response.Eval)
}

func (c *CLI) handleClaim(args []string) {
	reason := game.DrawAgreement
	if len(args) == 1 {
		switch args[0] {
		case "fifty":
			reason = game.DrawFiftyMove
		case "threefold":
			reason = game.DrawThreefold
		case "agreement":
			reason = game.DrawAgreement
		default:
			fmt.Fprintf(c.out, "error: unknown claim %q\n", args[0])
			return
		}
	}
	c.report(c.game.ClaimDraw(reason))
}

func (c *CLI) handleSave() {
	if c.store == nil {
		fmt.Fprintln(c.out, "error: persistence disabled")
		return
	}

	c.saved++
	moves := make([]string, 0, len(c.game.History()))
	for _, rec := range c.game.History() {
		moves = append(moves, rec.UCI())
	}
	rec := storage.GameRecord{
		ID:       fmt.Sprintf("%d-%d", time.Now().Unix(), c.saved),
		StartFEN: c.game.StartFEN(),
		Moves:    moves,
		PGN:      c.game.PGN(),
		Result:   c.game.Outcome(),
	}
	if err := c.store.SaveGame(rec); err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}
	fmt.Fprintln(c.out, "saved", rec.ID)
}
