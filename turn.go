package gomoku

import "fmt"

// Turn is a pair of moves: Black plays First, White plays Second. The last
// turn of a game may have no Second.
type Turn struct {
	Number  int64  `json:"number"`
	First   *Move  `json:"first,omitempty"`
	Second  *Move  `json:"second,omitempty"`
	Result  string `json:"result,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Text returns a record formatted string of the turn.
func (t *Turn) Text() string {
	var move string
	switch {
	case t.First != nil && t.Second != nil:
		move = fmt.Sprintf("%d. %s %s", t.Number, t.First.Text(), t.Second.Text())
	case t.First != nil:
		move = fmt.Sprintf("%d. %s", t.Number, t.First.Text())
	}

	if t.Result != "" {
		move = fmt.Sprintf("%s %s", move, t.Result)
	}

	if t.Comment != "" {
		if move != "" {
			move = fmt.Sprintf("%s { %s }", move, t.Comment)
		} else {
			move = fmt.Sprintf("{ %s }", t.Comment)
		}
	}

	return move
}

// Debug is a verbose dumping of the object and its sub objects.
func (t *Turn) Debug() string {
	return fmt.Sprintf("&{%d B:%+v W:%+v Result:%+v  Comment: \"%s\"}", t.Number, t.First, t.Second, t.Result, t.Comment)
}
