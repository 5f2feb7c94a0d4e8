package gomoku

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Errors returned by Game.DoMove.
var (
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrOutOfBounds = errors.New("move is off the board")
	ErrOccupied    = errors.New("square is occupied")
)

// Result strings written to the Result tag and the final turn.
const (
	ResultBlack = "1-0"
	ResultWhite = "0-1"
	ResultDraw  = "1/2-1/2"
)

// Game is the datastructure for a single game. Most data is stored in the meta
// field.
type Game struct {
	ID    int64   `json:"id,omitempty"`
	Slug  string  `json:"slug"`
	Turns []*Turn `json:"turns"`
	Board *Board  `json:"board"`
	Meta  []*Tag  `json:"meta"`
}

// NewGame creates an empty game of the given board size.
func NewGame(size int, slug string) (*Game, error) {
	if size < WinLength {
		return nil, fmt.Errorf("board size %d is smaller than %d", size, WinLength)
	}
	if size > 26 {
		return nil, fmt.Errorf("board size %d does not fit square notation", size)
	}

	return &Game{
		Slug:  slug,
		Board: NewBoard(size),
		Meta: []*Tag{
			{Key: "Size", Value: strconv.Itoa(size)},
		},
	}, nil
}

// GetMeta does a linear search for the key specified and returns the value. It
// returns an error if the key does not exist.
func (g *Game) GetMeta(key string) (string, error) {
	for _, t := range g.Meta {
		if t != nil && t.Key == key {
			return t.Value, nil
		}
	}

	return "", fmt.Errorf("no such meta key '%s'", key)
}

// SetMeta replaces the value of key, adding the tag if it is missing.
func (g *Game) SetMeta(key, value string) {
	for _, t := range g.Meta {
		if t != nil && t.Key == key {
			t.Value = value
			return
		}
	}
	g.Meta = append(g.Meta, &Tag{Key: key, Value: value})
}

// ToMove returns the color whose turn it is. Black always opens.
func (g *Game) ToMove() Color {
	if g.Board.Count(Black) > g.Board.Count(White) {
		return White
	}
	return Black
}

// Moves returns every move of the game in play order.
func (g *Game) Moves() []Move {
	moves := []Move{}
	for _, t := range g.Turns {
		if t.First != nil {
			moves = append(moves, *t.First)
		}
		if t.Second != nil {
			moves = append(moves, *t.Second)
		}
	}
	return moves
}

// LastMove returns the most recent move, if any.
func (g *Game) LastMove() (Move, bool) {
	moves := g.Moves()
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[len(moves)-1], true
}

// GetTurn returns the turn with the given number.
func (g *Game) GetTurn(num int64) (*Turn, error) {
	for _, t := range g.Turns {
		if t.Number == num {
			return t, nil
		}
	}

	return nil, fmt.Errorf("turn %d not found", num)
}

// DoMove parses square and plays it for color.
func (g *Game) DoMove(square string, color Color) error {
	mv, err := NewMove(square)
	if err != nil {
		return err
	}
	return g.DoSingleMove(*mv, color)
}

// DoSingleMove places a stone for color after checking that the game is still
// running, that it is color's turn and that the square is free.
func (g *Game) DoSingleMove(mv Move, color Color) error {
	if !color.IsPlayer() {
		return fmt.Errorf("invalid player %d", color)
	}
	if _, over := g.GameOver(); over {
		return ErrGameOver
	}
	if color != g.ToMove() {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.ToMove())
	}
	if !mv.Valid(g.Board.Size()) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, mv.Text())
	}
	if g.Board.At(mv.Row, mv.Col) != Empty {
		return fmt.Errorf("%w: %s", ErrOccupied, mv.Text())
	}

	g.Board.Set(mv.Row, mv.Col, color)
	g.appendMove(mv, color)

	if CheckWin(g.Board, mv.Row, mv.Col, color) {
		result := ResultBlack
		if color == White {
			result = ResultWhite
		}
		g.finish(result)
	} else if g.Board.Full() {
		g.finish(ResultDraw)
	}

	return nil
}

func (g *Game) appendMove(mv Move, color Color) {
	m := mv
	if color == White && len(g.Turns) > 0 {
		last := g.Turns[len(g.Turns)-1]
		if last.Second == nil {
			last.Second = &m
			return
		}
	}

	turn := &Turn{Number: int64(len(g.Turns)) + 1}
	if color == Black {
		turn.First = &m
	} else {
		turn.Second = &m
	}
	g.Turns = append(g.Turns, turn)
}

func (g *Game) finish(result string) {
	g.SetMeta("Result", result)
	if len(g.Turns) > 0 {
		g.Turns[len(g.Turns)-1].Result = result
	}
}

// GameOver returns the winner and whether the game has ended. A full board
// with no five is a draw and reports Empty as the winner.
func (g *Game) GameOver() (Color, bool) {
	size := g.Board.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			color := g.Board.At(r, c)
			if color == Empty {
				continue
			}
			if CheckWin(g.Board, r, c, color) {
				return color, true
			}
		}
	}

	if g.Board.Full() {
		return Empty, true
	}

	return Empty, false
}

// Record returns the game in record form, ParseRecord's inverse.
func (g *Game) Record() string {
	var sb strings.Builder
	for _, t := range g.Meta {
		sb.WriteString(t.Text())
		sb.WriteByte('\n')
	}
	if len(g.Meta) > 0 {
		sb.WriteByte('\n')
	}
	for _, t := range g.Turns {
		sb.WriteString(t.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseRecord parses a game record and replays its moves. A record is a set
// of [Key "Value"] tag lines followed by numbered turns such as
// "1. j10 k10 { comment }". The Size tag defaults to 19.
func ParseRecord(record []byte) (*Game, error) {
	meta := []*Tag{}
	turns := []*Turn{}

	s := bufio.NewScanner(bytes.NewReader(record))
	for s.Scan() {
		l := s.Text()
		ta := parseTag(l)
		if ta != nil {
			meta = append(meta, ta)
			continue
		}

		tu, err := parseTurn(l)
		if err != nil {
			return nil, err
		}
		if tu != nil && tu.Number > 0 {
			turns = append(turns, tu)
		}
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	size := Size
	for _, t := range meta {
		if t.Key != "Size" {
			continue
		}
		num, err := strconv.Atoi(t.Value)
		if err != nil {
			return nil, fmt.Errorf("bad Size tag: %w", err)
		}
		size = num
	}

	g, err := NewGame(size, "")
	if err != nil {
		return nil, err
	}
	for _, t := range meta {
		g.SetMeta(t.Key, t.Value)
	}

	for _, t := range turns {
		if t.First != nil {
			if err := g.DoSingleMove(*t.First, Black); err != nil {
				return nil, fmt.Errorf("turn %d: %w", t.Number, err)
			}
		}
		if t.Second != nil {
			if err := g.DoSingleMove(*t.Second, White); err != nil {
				return nil, fmt.Errorf("turn %d: %w", t.Number, err)
			}
		}
		if t.Comment != "" && len(g.Turns) > 0 {
			g.Turns[len(g.Turns)-1].Comment = t.Comment
		}
	}

	return g, nil
}

// Example: [Tag_Name "Tag Data"]
var tagRegex = regexp.MustCompile(`\[([0-9A-Za-z_]+) "(.*)"\]`)

var commentRegex = regexp.MustCompile("{.+}")

var resultRegex = regexp.MustCompile(`^(1-0|0-1|1/2-1/2)$`)

func parseTag(line string) *Tag {
	parts := tagRegex.FindStringSubmatch(line)
	if len(parts) >= 3 {
		return &Tag{
			Key:   parts[1],
			Value: parts[2],
		}
	}

	return nil
}

func parseTurn(line string) (*Turn, error) {
	turn := &Turn{}

	cmnt := strings.TrimSpace(strings.Join(commentRegex.FindAllString(line, -1), " "))
	turn.Comment = strings.TrimSpace(strings.Trim(cmnt, "{}"))

	cleanLine := strings.TrimSpace(commentRegex.ReplaceAllString(line, ""))
	if cleanLine == "" {
		return nil, nil
	}

	fields := strings.Fields(cleanLine)
	if len(fields) > 0 && resultRegex.MatchString(fields[len(fields)-1]) {
		turn.Result = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	if len(fields) < 2 || len(fields) > 3 {
		return nil, fmt.Errorf("line doesn't have correct number of parts: %+v", fields)
	}

	numberVal := strings.TrimRight(fields[0], ".")
	num, err := strconv.ParseInt(numberVal, 10, 64)
	if err != nil {
		log.Debugw("turn number is not a number, ignoring line", "line", line)
		return nil, nil
	}
	turn.Number = num

	first, err := NewMove(fields[1])
	if err != nil {
		return nil, err
	}
	turn.First = first

	if len(fields) == 3 {
		second, err := NewMove(fields[2])
		if err != nil {
			return nil, err
		}
		turn.Second = second
	}

	return turn, nil
}
