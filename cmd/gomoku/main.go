package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/icco/gomoku"
	"github.com/icco/gomoku/ai"
)

var (
	sizeFlag  = flag.Int("size", gomoku.Size, "Board size (5-26)")
	levelFlag = flag.String("level", "advanced", "AI level: beginner, intermediate, advanced or expert")
	colorFlag = flag.String("color", "black", "Your color; black moves first")
	delayFlag = flag.Duration("delay", 500*time.Millisecond, "Pause before the AI replies")
	limitFlag = flag.Duration("limit", 5*time.Second, "Longest the AI may search; 0 means no limit")
)

func main() {
	flag.Parse()

	human, err := gomoku.ParseColor(*colorFlag)
	if err != nil {
		log.Fatal(err)
	}

	m, err := initialModel(settings{
		size:  *sizeFlag,
		level: ai.ParseLevel(*levelFlag),
		human: human,
		delay: *delayFlag,
		limit: *limitFlag,
	})
	if err != nil {
		log.Fatal(err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
