package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/icco/gomoku"
	"github.com/icco/gomoku/ai"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	menuItemStyle = lipgloss.NewStyle().
			MarginLeft(2)

	selectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true).
				MarginLeft(2)

	boardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginLeft(2)

	cellStyle = lipgloss.NewStyle().
			Width(2).
			Align(lipgloss.Center)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			MarginLeft(2)
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenSettings
)

var menuChoices = []string{"New Game", "Settings", "Quit"}

var levels = []ai.DifficultyLevel{ai.Beginner, ai.Intermediate, ai.Advanced, ai.Expert}

type settings struct {
	size  int
	level ai.DifficultyLevel
	human gomoku.Color
	delay time.Duration
	limit time.Duration
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Place key.Binding
	Hint  key.Binding
	Back  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Place, k.Hint, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Place, k.Hint, k.Back, k.Quit},
	}
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Place: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "place stone")),
	Hint:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "hint")),
	Back:  key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "menu")),
	Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

type model struct {
	screen   screen
	settings settings
	engine   ai.Engine

	menuCursor     int
	settingsCursor int

	game     *gomoku.Game
	cursorR  int
	cursorC  int
	thinking bool
	status   string
	err      string

	spinner spinner.Model
	help    help.Model
}

// aiMoved carries the engine's reply back to Update.
type aiMoved struct {
	game *gomoku.Game
	move gomoku.Move
	hint string
	err  error
}

type hintReady struct {
	game *gomoku.Game
	hint string
	err  error
}

func initialModel(s settings) (model, error) {
	if _, err := gomoku.NewGame(s.size, ""); err != nil {
		return model{}, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		screen:   screenMenu,
		settings: s,
		engine:   &ai.MinimaxEngine{},
		spinner:  sp,
		help:     help.New(),
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case aiMoved:
		if msg.game != m.game {
			return m, nil
		}
		m.thinking = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		if err := m.game.DoSingleMove(msg.move, m.settings.human.Opponent()); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.status = "AI: " + msg.hint
		m.afterMove()
		return m, nil

	case hintReady:
		if msg.game != m.game {
			return m, nil
		}
		m.thinking = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.status = "Hint: " + msg.hint
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenGame:
			return m.updateGame(msg)
		case screenSettings:
			return m.updateSettings(msg)
		}
	}

	return m, nil
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.menuCursor < len(menuChoices)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, keys.Back):
		return m, tea.Quit
	case key.Matches(msg, keys.Place):
		switch m.menuCursor {
		case 0:
			return m.newGame()
		case 1:
			m.screen = screenSettings
		case 2:
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m model) newGame() (tea.Model, tea.Cmd) {
	g, err := gomoku.NewGame(m.settings.size, "local")
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	black, white := "human", "AI "+m.settings.level.String()
	if m.settings.human == gomoku.White {
		black, white = white, black
	}
	g.SetMeta("Black", black)
	g.SetMeta("White", white)

	m.game = g
	m.screen = screenGame
	m.cursorR = g.Board.Size() / 2
	m.cursorC = g.Board.Size() / 2
	m.status = ""
	m.err = ""

	if g.ToMove() != m.settings.human {
		return m.startAI()
	}
	return m, nil
}

func (m model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Back) {
		m.screen = screenMenu
		m.thinking = false
		return m, nil
	}
	if m.thinking {
		return m, nil
	}

	size := m.game.Board.Size()
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursorR < size-1 {
			m.cursorR++
		}
	case key.Matches(msg, keys.Down):
		if m.cursorR > 0 {
			m.cursorR--
		}
	case key.Matches(msg, keys.Left):
		if m.cursorC > 0 {
			m.cursorC--
		}
	case key.Matches(msg, keys.Right):
		if m.cursorC < size-1 {
			m.cursorC++
		}
	case key.Matches(msg, keys.Hint):
		if _, over := m.game.GameOver(); over {
			return m, nil
		}
		m.thinking = true
		return m, tea.Batch(m.spinner.Tick, m.explain())
	case key.Matches(msg, keys.Place):
		mv := gomoku.Move{Row: m.cursorR, Col: m.cursorC}
		if err := m.game.DoSingleMove(mv, m.settings.human); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.status = "You: " + mv.Text()
		if over := m.afterMove(); over {
			return m, nil
		}
		return m.startAI()
	}

	return m, nil
}

// afterMove updates the status line once the game ends.
func (m *model) afterMove() bool {
	winner, over := m.game.GameOver()
	if !over {
		return false
	}
	switch winner {
	case m.settings.human:
		m.status = "You win!"
	case gomoku.Empty:
		m.status = "Draw."
	default:
		m.status = "The AI wins."
	}
	return true
}

func (m model) startAI() (tea.Model, tea.Cmd) {
	m.thinking = true
	return m, tea.Batch(m.spinner.Tick, m.aiTurn())
}

// searchConfig bounds every search by the configured time limit.
func (m model) searchConfig() ai.Config {
	return ai.Config{Level: m.settings.level, TimeLimit: m.settings.limit}
}

// aiTurn waits the pacing delay, then searches. The game is not touched by
// Update while thinking is set.
func (m model) aiTurn() tea.Cmd {
	g := m.game
	cfg := m.searchConfig()
	engine := m.engine

	return tea.Tick(m.settings.delay, func(time.Time) tea.Msg {
		mv, err := engine.GetMove(context.Background(), g, cfg)
		if err != nil {
			return aiMoved{game: g, err: err}
		}
		return aiMoved{game: g, move: mv, hint: mv.Text()}
	})
}

func (m model) explain() tea.Cmd {
	g := m.game
	cfg := m.searchConfig()
	engine := m.engine

	return func() tea.Msg {
		hint, err := engine.ExplainMove(context.Background(), g, cfg)
		return hintReady{game: g, hint: hint, err: err}
	}
}

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.screen = screenMenu
	case key.Matches(msg, keys.Up):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.settingsCursor < 2 {
			m.settingsCursor++
		}
	case key.Matches(msg, keys.Place), key.Matches(msg, keys.Right):
		switch m.settingsCursor {
		case 0:
			m.settings.level = levels[(int(m.settings.level)+1)%len(levels)]
		case 1:
			m.settings.human = m.settings.human.Opponent()
		case 2:
			if m.settings.size == gomoku.Size {
				m.settings.size = 15
			} else {
				m.settings.size = gomoku.Size
			}
		}
	}

	return m, nil
}

func (m model) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenGame:
		return m.viewGame()
	case screenSettings:
		return m.viewSettings()
	default:
		return "Unknown screen"
	}
}

func (m model) viewMenu() string {
	title := titleStyle.Render("Gomoku - five in a row")

	var sb strings.Builder
	for i, choice := range menuChoices {
		if m.menuCursor == i {
			sb.WriteString(selectedMenuItemStyle.Render("> "+choice) + "\n")
		} else {
			sb.WriteString(menuItemStyle.Render("  "+choice) + "\n")
		}
	}

	info := menuItemStyle.Render(fmt.Sprintf("You play %s against the %s AI", m.settings.human, m.settings.level))
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", sb.String(), info)
	if m.err != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", errorStyle.Render("Error: "+m.err))
	}
	return content
}

func (m model) viewSettings() string {
	title := titleStyle.Render("Settings")

	items := []string{
		fmt.Sprintf("AI level: %s", m.settings.level),
		fmt.Sprintf("Your color: %s", m.settings.human),
		fmt.Sprintf("Board size: %dx%d", m.settings.size, m.settings.size),
	}

	var sb strings.Builder
	for i, item := range items {
		if m.settingsCursor == i {
			sb.WriteString(selectedMenuItemStyle.Render("> "+item) + "\n")
		} else {
			sb.WriteString(menuItemStyle.Render("  "+item) + "\n")
		}
	}

	help := menuItemStyle.Render("enter: change | q: back")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", sb.String(), help)
}

func (m model) viewGame() string {
	title := titleStyle.Render("Gomoku")
	if m.game == nil {
		return title
	}

	turn := fmt.Sprintf("%s to move | cursor %s", m.game.ToMove(), gomoku.Move{Row: m.cursorR, Col: m.cursorC}.Text())
	if m.thinking {
		turn = m.spinner.View() + " thinking..."
	}

	content := []string{title, "", menuItemStyle.Render(turn), m.renderBoard()}
	if m.status != "" {
		content = append(content, menuItemStyle.Render(m.status))
	}
	if m.err != "" {
		content = append(content, errorStyle.Render("Error: "+m.err))
	}
	content = append(content, "", menuItemStyle.Render(m.help.View(keys)))

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

func (m model) renderBoard() string {
	b := m.game.Board
	size := b.Size()
	last, hasLast := m.game.LastMove()

	header := "   "
	for c := 0; c < size; c++ {
		header += cellStyle.Render(string(rune('a' + c)))
	}
	rows := []string{header}

	for r := size - 1; r >= 0; r-- {
		row := fmt.Sprintf("%2d ", r+1)
		for c := 0; c < size; c++ {
			style := cellStyle
			content := "·"
			switch b.At(r, c) {
			case gomoku.Black:
				content = "●"
				style = style.Foreground(lipgloss.Color("255"))
			case gomoku.White:
				content = "○"
				style = style.Foreground(lipgloss.Color("250"))
			default:
				style = style.Foreground(lipgloss.Color("240"))
			}
			if hasLast && last.Row == r && last.Col == c {
				style = style.Foreground(lipgloss.Color("205"))
			}
			if r == m.cursorR && c == m.cursorC {
				style = style.Background(lipgloss.Color("220")).Foreground(lipgloss.Color("16"))
			}
			row += style.Render(content)
		}
		rows = append(rows, row)
	}

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
