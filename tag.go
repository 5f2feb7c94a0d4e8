package gomoku

import "fmt"

// Tag is a Key and Value pair stored providing meta about a game.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (t *Tag) String() string {
	return fmt.Sprintf("%s: %s", t.Key, t.Value)
}

// Text returns the tag in game record form.
func (t *Tag) Text() string {
	return fmt.Sprintf("[%s %q]", t.Key, t.Value)
}
