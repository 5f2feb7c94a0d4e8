package gomoku

import (
	"errors"
	"fmt"
	"os"
	"path"
	"testing"
)

func assertNotEqual(t *testing.T, context string, a interface{}, b interface{}) {
	if a == b {
		t.Errorf("%s: %+v == %+v", context, a, b)
	}
}

func TestParse(t *testing.T) {
	dir := path.Join(".", "test_games")
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Errorf("%+v", err)
	}

	for _, fi := range files {
		t.Run(fi.Name(), func(t *testing.T) {
			file, err := os.ReadFile(path.Join(dir, fi.Name()))
			if err != nil {
				t.Fatalf("%s: %+v", fi.Name(), err)
			}

			g, err := ParseRecord(file)
			if err != nil {
				t.Fatalf("%+v", err)
			}

			for _, k := range []string{"Black", "White", "Date", "Size", "Result"} {
				_, err := g.GetMeta(k)
				if err != nil {
					t.Errorf("%+v", err)
				}
			}

			for _, turn := range g.Turns {
				context := fmt.Sprintf("Turn: %+v", turn.Debug())
				assertNotEqual(t, context, turn.First, (*Move)(nil))
				assertNotEqual(t, context, turn.Number, int64(0))
			}
		})
	}
}

func TestParseRecordReplaysWin(t *testing.T) {
	file, err := os.ReadFile("test_games/black_wins.rec")
	if err != nil {
		t.Fatal(err)
	}

	g, err := ParseRecord(file)
	if err != nil {
		t.Fatal(err)
	}

	winner, over := g.GameOver()
	if !over || winner != Black {
		t.Errorf("GameOver() = %v, %v; want black, true", winner, over)
	}

	if len(g.Moves()) != 9 {
		t.Errorf("len(Moves()) = %d, want 9", len(g.Moves()))
	}

	turn, err := g.GetTurn(2)
	if err != nil {
		t.Fatal(err)
	}
	if turn.Comment != "white ignores the centre" {
		t.Errorf("turn 2 comment = %q", turn.Comment)
	}

	if _, err := g.GetTurn(42); err == nil {
		t.Errorf("GetTurn(42) expected error")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	file, err := os.ReadFile("test_games/short.rec")
	if err != nil {
		t.Fatal(err)
	}

	g, err := ParseRecord(file)
	if err != nil {
		t.Fatal(err)
	}

	again, err := ParseRecord([]byte(g.Record()))
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, g.Record())
	}

	if again.Board.String() != g.Board.String() {
		t.Errorf("boards differ after round trip")
	}
	if again.Board.Size() != 15 {
		t.Errorf("Size = %d, want 15", again.Board.Size())
	}
	if again.ToMove() != White {
		t.Errorf("ToMove() = %v, want white", again.ToMove())
	}
}

func TestDoMove(t *testing.T) {
	g, err := NewGame(Size, "test")
	if err != nil {
		t.Fatal(err)
	}

	if err := g.DoMove("j10", White); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("white first: err = %v, want ErrNotYourTurn", err)
	}
	if err := g.DoMove("j10", Black); err != nil {
		t.Fatalf("DoMove() error = %v", err)
	}
	if err := g.DoMove("j10", White); !errors.Is(err, ErrOccupied) {
		t.Errorf("occupied: err = %v, want ErrOccupied", err)
	}
	if err := g.DoMove("t1", White); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("off board: err = %v, want ErrOutOfBounds", err)
	}
	if err := g.DoMove("zz", White); err == nil {
		t.Errorf("bad square: expected error")
	}
	if err := g.DoMove("k10", White); err != nil {
		t.Fatalf("DoMove() error = %v", err)
	}

	if g.Board.At(9, 9) != Black || g.Board.At(9, 10) != White {
		t.Errorf("stones not placed where expected:\n%s", g.Board)
	}
	if len(g.Turns) != 1 || g.Turns[0].Second == nil {
		t.Errorf("turns = %+v, want one complete turn", g.Turns)
	}
}

func TestGameOver(t *testing.T) {
	game, err := NewGame(6, "test")
	if err != nil {
		t.Fatalf("%+v", err)
	}

	_, over := game.GameOver()
	if over {
		t.Errorf("Game over on empty board")
	}

	for _, sq := range []string{"a1", "a2", "b1", "b2", "c1", "c2", "d1", "d2", "e1"} {
		color := game.ToMove()
		if err := game.DoMove(sq, color); err != nil {
			t.Fatalf("DoMove(%s) error = %v", sq, err)
		}
	}

	winner, over := game.GameOver()
	if !over || winner != Black {
		t.Errorf("GameOver() = %v, %v; want black, true", winner, over)
	}
	if result, _ := game.GetMeta("Result"); result != ResultBlack {
		t.Errorf("Result = %q, want %q", result, ResultBlack)
	}
	if err := game.DoMove("f6", White); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after win: err = %v, want ErrGameOver", err)
	}
}

func TestGameOverDraw(t *testing.T) {
	game, err := NewGame(5, "draw")
	if err != nil {
		t.Fatal(err)
	}

	// No line of five can form when colors alternate in pairs.
	pattern := [5]string{
		"XXOOX",
		"OOXXO",
		"XXOOX",
		"OOXXO",
		"XXOOX",
	}
	for r, row := range pattern {
		for c, ch := range row {
			color := White
			if ch == 'X' {
				color = Black
			}
			game.Board.Set(r, c, color)
		}
	}

	winner, over := game.GameOver()
	if !over || winner != Empty {
		t.Errorf("GameOver() = %v, %v; want empty, true", winner, over)
	}
}

func TestNewMove(t *testing.T) {
	tests := []struct {
		square  string
		want    Move
		wantErr bool
	}{
		{"a1", Move{Row: 0, Col: 0}, false},
		{"j10", Move{Row: 9, Col: 9}, false},
		{"S19", Move{Row: 18, Col: 18}, false},
		{"'c3'", Move{Row: 2, Col: 2}, false},
		{"", Move{}, true},
		{"a0", Move{}, true},
		{"10j", Move{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			m, err := NewMove(tt.square)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewMove(%q) expected error", tt.square)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMove(%q) error = %v", tt.square, err)
			}
			if *m != tt.want {
				t.Errorf("NewMove(%q) = %+v, want %+v", tt.square, *m, tt.want)
			}
			if m.Text() != fmt.Sprintf("%c%d", 'a'+tt.want.Col, tt.want.Row+1) {
				t.Errorf("Text() = %q", m.Text())
			}
		})
	}
}
