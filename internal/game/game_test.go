package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

func mustBegin(t *testing.T, g *Game) {
	t.Helper()
	if err := g.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
}

func mustLoad(t *testing.T, g *Game, fen string) {
	t.Helper()
	if err := g.Load(fen); err != nil {
		t.Fatalf("load %q: %v", fen, err)
	}
}

func mustUCI(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if _, err := g.ApplyUCI(m); err != nil {
			t.Fatalf("apply %q: %v", m, err)
		}
	}
}

func TestLifecycle(t *testing.T) {
	g := New()

	if g.Status() != NotStarted {
		t.Fatalf("status = %v, want NotStarted", g.Status())
	}

	if _, err := g.ApplyMove(board.E2, board.E4, board.NoPieceType); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("move before begin: err = %v, want ErrGameNotInProgress", err)
	}
	if _, err := g.Classify(); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("classify before begin: err = %v, want ErrGameNotInProgress", err)
	}

	mustBegin(t, g)
	if g.Status() != InProgress {
		t.Fatalf("status = %v, want InProgress", g.Status())
	}
	if err := g.Begin(); !errors.Is(err, ErrGameAlreadyStarted) {
		t.Errorf("second begin: err = %v, want ErrGameAlreadyStarted", err)
	}
}

func TestApplyMoveUpdatesPosition(t *testing.T) {
	g := New()
	mustBegin(t, g)

	rec, err := g.ApplyMove(board.E2, board.E4, board.NoPieceType)
	if err != nil {
		t.Fatal(err)
	}

	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if g.FEN() != want {
		t.Errorf("after e4:\n got %s\nwant %s", g.FEN(), want)
	}
	if rec.Notation() != "e4" || rec.UCI() != "e2e4" {
		t.Errorf("record = %q / %q", rec.Notation(), rec.UCI())
	}
	if g.SideToMove() != board.Black {
		t.Errorf("side = %v, want Black", g.SideToMove())
	}
}

func TestApplyMoveErrors(t *testing.T) {
	g := New()
	mustBegin(t, g)

	tests := []struct {
		name  string
		from  board.Square
		to    board.Square
		promo board.PieceType
		want  error
	}{
		{"unreachable square", board.E2, board.E5, board.NoPieceType, ErrIllegalMove},
		{"opponent's piece", board.E7, board.E5, board.NoPieceType, ErrIllegalMove},
		{"empty origin", board.E4, board.E5, board.NoPieceType, ErrIllegalMove},
		{"out of bounds", board.NoSquare, board.E4, board.NoPieceType, board.ErrOutOfBounds},
		{"promotion on ordinary move", board.E2, board.E4, board.Queen, ErrPromotionNotApplicable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := g.FEN()
			_, err := g.ApplyMove(tc.from, tc.to, tc.promo)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			if g.FEN() != before {
				t.Errorf("rejected move changed the position")
			}
			if len(g.History()) != 0 {
				t.Errorf("rejected move reached the ledger")
			}
		})
	}
}

func TestPromotion(t *testing.T) {
	g := New()
	mustLoad(t, g, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	mustBegin(t, g)

	if _, err := g.ApplyMove(board.A7, board.A8, board.NoPieceType); !errors.Is(err, ErrPromotionRequired) {
		t.Fatalf("promotion without piece: err = %v, want ErrPromotionRequired", err)
	}
	if _, err := g.ApplyMove(board.A7, board.A8, board.King); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("promotion to king: err = %v, want ErrIllegalMove", err)
	}

	rec, err := g.ApplyMove(board.A7, board.A8, board.Queen)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.WasPromotion || rec.Promotion != board.Queen {
		t.Errorf("record = %+v, want queen promotion", rec)
	}
	if got := g.Position().PieceAt(board.A8); got != board.WhiteQueen {
		t.Errorf("piece at a8 = %v, want white queen", got)
	}
	if rec.PrevHalfMoveClock != 0 {
		t.Errorf("snapshot clock = %d", rec.PrevHalfMoveClock)
	}
}

func TestEnPassantRecord(t *testing.T) {
	g := New()
	mustBegin(t, g)
	mustUCI(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	rec, err := g.ApplyUCI("e5d6")
	if err != nil {
		t.Fatal(err)
	}
	if !rec.WasEnPassant {
		t.Error("record should be flagged en passant")
	}
	if rec.Captured != board.BlackPawn {
		t.Errorf("captured = %v, want black pawn", rec.Captured)
	}
	if rec.CaptureSquare != board.D5 {
		t.Errorf("capture square = %v, want d5 (behind the destination)", rec.CaptureSquare)
	}
	if got := g.Position().PieceAt(board.D5); got != board.NoPiece {
		t.Errorf("d5 still holds %v after en passant", got)
	}
}

func TestUndoRestoresExactFEN(t *testing.T) {
	tests := []struct {
		name  string
		start string // empty means the standard position
		moves []string
	}{
		{"quiet opening", "", []string{"e2e4", "e7e5", "g1f3"}},
		{"capture", "", []string{"e2e4", "d7d5", "e4d5"}},
		{"en passant", "", []string{"e2e4", "a7a6", "e4e5", "d7d5", "e5d6"}},
		{"castles both wings", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1g1", "e8c8"}},
		{"promotion", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", []string{"a7a8q"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			if tc.start != "" {
				mustLoad(t, g, tc.start)
			}
			mustBegin(t, g)

			fens := []string{g.FEN()}
			for _, m := range tc.moves {
				mustUCI(t, g, m)
				fens = append(fens, g.FEN())
			}

			for i := len(tc.moves) - 1; i >= 0; i-- {
				if err := g.Undo(); err != nil {
					t.Fatalf("undo after %q: %v", tc.moves[i], err)
				}
				if g.FEN() != fens[i] {
					t.Errorf("undo of %q:\n got %s\nwant %s", tc.moves[i], g.FEN(), fens[i])
				}
			}

			if g.FEN() != g.StartFEN() {
				t.Errorf("full unwind: %s != start %s", g.FEN(), g.StartFEN())
			}
			if err := g.Undo(); !errors.Is(err, ErrEmptyHistory) {
				t.Errorf("undo on empty ledger: err = %v, want ErrEmptyHistory", err)
			}
		})
	}
}

func TestUndoRestoresCastlingRights(t *testing.T) {
	g := New()
	mustLoad(t, g, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	mustBegin(t, g)
	mustUCI(t, g, "e1g1")

	if g.Position().Castling.CanCastle(board.White, true) {
		t.Fatal("rights should be spent after castling")
	}
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	pos := g.Position()
	if !pos.Castling.CanCastle(board.White, true) || !pos.Castling.CanCastle(board.White, false) {
		t.Error("undo should restore both white castling rights")
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	g := New()
	mustBegin(t, g)

	for _, san := range []string{"f3", "e5", "g4"} {
		if _, err := g.ApplySAN(san); err != nil {
			t.Fatalf("apply %q: %v", san, err)
		}
	}
	rec, err := g.ApplySAN("Qh4#")
	if err != nil {
		t.Fatal(err)
	}

	if rec.Notation() != "Qh4#" {
		t.Errorf("notation = %q, want Qh4#", rec.Notation())
	}
	if g.Status() != Checkmate {
		t.Fatalf("status = %v, want Checkmate", g.Status())
	}
	if g.Winner() != board.Black {
		t.Errorf("winner = %v, want Black", g.Winner())
	}
	if g.Outcome() != "0-1" {
		t.Errorf("outcome = %q, want 0-1", g.Outcome())
	}
	if len(g.LegalMoves()) != 0 {
		t.Errorf("checkmate position still has %d legal moves", len(g.LegalMoves()))
	}
	if _, err := g.ApplyUCI("e2e4"); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("move after mate: err = %v, want ErrGameNotInProgress", err)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	g := New()
	mustLoad(t, g, "7k/5Q2/8/6K1/8/8/8/8 w - - 0 1")
	mustBegin(t, g)
	mustUCI(t, g, "g5g6")

	if g.Status() != Stalemate {
		t.Fatalf("status = %v, want Stalemate", g.Status())
	}
	if g.Winner() != board.NoColor {
		t.Errorf("winner = %v, want none", g.Winner())
	}
	if g.Outcome() != "1/2-1/2" {
		t.Errorf("outcome = %q", g.Outcome())
	}
}

func TestDeadPositionEndsGame(t *testing.T) {
	g := New()
	mustLoad(t, g, "4k3/8/8/8/8/8/8/3qK3 w - - 0 1")
	mustBegin(t, g)
	mustUCI(t, g, "e1d1") // king takes the last piece

	if g.Status() != DrawByRule {
		t.Fatalf("status = %v, want DrawByRule", g.Status())
	}
	if g.DrawReason() != DrawInsufficientMaterial {
		t.Errorf("reason = %v, want insufficient material", g.DrawReason())
	}
}

func TestUndoReopensFinishedGame(t *testing.T) {
	g := New()
	mustBegin(t, g)
	for _, san := range []string{"f3", "e5", "g4", "Qh4#"} {
		if _, err := g.ApplySAN(san); err != nil {
			t.Fatalf("apply %q: %v", san, err)
		}
	}

	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.Status() != InProgress {
		t.Errorf("status after undo = %v, want InProgress", g.Status())
	}
	if g.Winner() != board.NoColor {
		t.Errorf("winner after undo = %v, want none", g.Winner())
	}
	if _, err := g.ApplySAN("Qh4#"); err != nil {
		t.Errorf("replaying the mate: %v", err)
	}
}

func TestFiftyMoveClaim(t *testing.T) {
	g := New()
	mustLoad(t, g, "4k3/8/8/8/8/8/8/4K2R w - - 99 80")
	mustBegin(t, g)

	if err := g.ClaimDraw(DrawFiftyMove); !errors.Is(err, ErrDrawNotAvailable) {
		t.Fatalf("claim at clock 99: err = %v, want ErrDrawNotAvailable", err)
	}

	mustUCI(t, g, "h1h2")

	cls, err := g.Classify()
	if err != nil {
		t.Fatal(err)
	}
	if !cls.FiftyMoveEligible {
		t.Fatal("clock reached 100, claim should be eligible")
	}
	if cls.Status != InProgress {
		t.Errorf("eligibility must not end the game: status = %v", cls.Status)
	}

	if err := g.ClaimDraw(DrawFiftyMove); err != nil {
		t.Fatal(err)
	}
	if g.Status() != DrawByRule || g.DrawReason() != DrawFiftyMove {
		t.Errorf("status = %v reason %v", g.Status(), g.DrawReason())
	}
}

func TestThreefoldClaim(t *testing.T) {
	g := New()
	mustBegin(t, g)

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	mustUCI(t, g, shuffle...)
	if err := g.ClaimDraw(DrawThreefold); !errors.Is(err, ErrDrawNotAvailable) {
		t.Fatalf("claim after two occurrences: err = %v, want ErrDrawNotAvailable", err)
	}

	mustUCI(t, g, shuffle...)
	cls, err := g.Classify()
	if err != nil {
		t.Fatal(err)
	}
	if cls.Repetitions != 3 {
		t.Errorf("repetitions = %d, want 3 (starting position counts)", cls.Repetitions)
	}
	if !cls.ThreefoldEligible {
		t.Fatal("threefold claim should be eligible")
	}

	if err := g.ClaimDraw(DrawThreefold); err != nil {
		t.Fatal(err)
	}
	if g.Status() != DrawByRule || g.DrawReason() != DrawThreefold {
		t.Errorf("status = %v reason %v", g.Status(), g.DrawReason())
	}
}

func TestResignAndForfeit(t *testing.T) {
	g := New()
	mustBegin(t, g)
	if err := g.Resign(board.White); err != nil {
		t.Fatal(err)
	}
	if g.Status() != Resigned || g.Winner() != board.Black {
		t.Errorf("status = %v winner %v", g.Status(), g.Winner())
	}
	if err := g.Resign(board.Black); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("resigning a finished game: err = %v", err)
	}

	g = New()
	mustBegin(t, g)
	if err := g.Forfeit(board.Black); err != nil {
		t.Fatal(err)
	}
	if g.Status() != TimeForfeit || g.Winner() != board.White {
		t.Errorf("status = %v winner %v", g.Status(), g.Winner())
	}
	if g.Outcome() != "1-0" {
		t.Errorf("outcome = %q", g.Outcome())
	}
}

func TestLoadReplacesEverything(t *testing.T) {
	g := New()
	mustBegin(t, g)
	mustUCI(t, g, "e2e4", "e7e5")

	const fen = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 12 40"
	mustLoad(t, g, fen)

	if g.Status() != NotStarted {
		t.Errorf("status = %v, want NotStarted", g.Status())
	}
	if len(g.History()) != 0 {
		t.Error("load must clear the ledger")
	}
	if err := g.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("undo across a load: err = %v, want ErrEmptyHistory", err)
	}
	if g.FEN() != fen || g.StartFEN() != fen {
		t.Errorf("fen = %q start = %q", g.FEN(), g.StartFEN())
	}
}

func TestLoadFailureLeavesStateUntouched(t *testing.T) {
	g := New()
	mustBegin(t, g)
	mustUCI(t, g, "e2e4")

	before := g.FEN()
	if err := g.Load("not a position"); err == nil {
		t.Fatal("malformed position string accepted")
	}
	if g.FEN() != before {
		t.Error("failed load changed the position")
	}
	if g.Status() != InProgress || len(g.History()) != 1 {
		t.Error("failed load changed the game state")
	}
}

func TestPositionIsACopy(t *testing.T) {
	g := New()
	mustBegin(t, g)

	pos := g.Position()
	pos.Make(board.NewMove(board.E2, board.E4))

	if g.FEN() != board.StartFEN {
		t.Error("mutating the returned position leaked into the game")
	}
}

func TestSANHistory(t *testing.T) {
	g := New()
	mustBegin(t, g)
	for _, san := range []string{"e4", "e5", "Nf3", "Nc6", "Bb5"} {
		if _, err := g.ApplySAN(san); err != nil {
			t.Fatalf("apply %q: %v", san, err)
		}
	}

	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	if diff := cmp.Diff(want, g.SANHistory()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestPGN(t *testing.T) {
	g := New()
	mustBegin(t, g)
	for _, san := range []string{"f3", "e5", "g4", "Qh4#"} {
		if _, err := g.ApplySAN(san); err != nil {
			t.Fatalf("apply %q: %v", san, err)
		}
	}

	want := "[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1\n"
	if got := g.PGN(); got != want {
		t.Errorf("pgn:\n got %q\nwant %q", got, want)
	}
}

func TestPGNFromLoadedPosition(t *testing.T) {
	const fen = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

	g := New()
	mustLoad(t, g, fen)
	mustBegin(t, g)
	if _, err := g.ApplySAN("e5"); err != nil {
		t.Fatal(err)
	}

	want := "[Result \"*\"]\n[SetUp \"1\"]\n[FEN \"" + fen + "\"]\n\n1... e5 *\n"
	if got := g.PGN(); got != want {
		t.Errorf("pgn:\n got %q\nwant %q", got, want)
	}
}
