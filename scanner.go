package gomoku

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Token is a lexical token of a board diagram.
type Token int

// Represent the kinds of tokens we can have
const (
	ILLEGAL Token = iota
	EOF
	WS
	NEWLINE

	STONE
	POINT
)

var eof = rune(0)

// Returns true if ch is a space, a tab or a carriage return.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isStone(ch rune) bool {
	switch ch {
	case 'X', 'x', 'B', 'b', 'O', 'o', 'W', 'w':
		return true
	}
	return false
}

func isPoint(ch rune) bool {
	return ch == '.' || ch == '+' || ch == '_'
}

func stoneColor(lit string) (Color, error) {
	switch lit {
	case "X", "x", "B", "b":
		return Black, nil
	case "O", "o", "W", "w":
		return White, nil
	}
	return Empty, fmt.Errorf("%q is not a stone", lit)
}

// Scanner represents a lexical scanner.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner returns a new instance of Scanner.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// read reads the next rune from the bufferred reader.
// Returns the rune(0) if an error occurs (or io.EOF is returned).
func (s *Scanner) read() rune {
	ch, _, err := s.r.ReadRune()
	if err != nil {
		return eof
	}
	return ch
}

// unread places the previously read rune back on the reader.
func (s *Scanner) unread() { _ = s.r.UnreadRune() }

// scanWhitespace consumes the current rune and all contiguous whitespace.
func (s *Scanner) scanWhitespace() (tok Token, lit string) {
	var buf bytes.Buffer
	buf.WriteRune(s.read())

	for {
		if ch := s.read(); ch == eof {
			break
		} else if !isWhitespace(ch) {
			s.unread()
			break
		} else {
			buf.WriteRune(ch)
		}
	}

	return WS, buf.String()
}

// Scan returns the next token and literal value.
func (s *Scanner) Scan() (tok Token, lit string) {
	ch := s.read()

	if isWhitespace(ch) {
		s.unread()
		return s.scanWhitespace()
	}

	switch {
	case ch == eof:
		return EOF, ""
	case ch == '\n':
		return NEWLINE, string(ch)
	case isStone(ch):
		return STONE, string(ch)
	case isPoint(ch):
		return POINT, string(ch)
	}

	return ILLEGAL, string(ch)
}
