// Package tui renders a local 2048 game in the terminal.
//
// The model owns one game.Engine and is driven by bubbletea's single update
// loop, which serializes every call into the engine.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/game2048/internal/game"
)

// keyDirections maps key names to directions: arrows, vim and wasd.
var keyDirections = map[string]game.Direction{
	"up": game.Up, "k": game.Up, "w": game.Up,
	"down": game.Down, "j": game.Down, "s": game.Down,
	"left": game.Left, "h": game.Left, "a": game.Left,
	"right": game.Right, "l": game.Right, "d": game.Right,
}

// Model is the bubbletea model for one game.
type Model struct {
	engine *game.Engine
	last   game.Outcome
	best   int
	moves  int
}

// New initializes eng and wraps it in a model.
func New(eng *game.Engine) Model {
	g, score := eng.Initialize()
	return Model{engine: eng, last: game.Outcome{Grid: g, Score: score}}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		g, score := m.engine.Initialize()
		m.last = game.Outcome{Grid: g, Score: score}
		m.moves = 0
		return m, nil
	}
	d, ok := keyDirections[key.String()]
	if !ok || m.last.Over {
		return m, nil
	}
	m.last = m.engine.ApplyMove(d)
	if m.last.Moved {
		m.moves++
	}
	if m.last.Score > m.best {
		m.best = m.last.Score
	}
	return m, nil
}

// Grid returns the grid currently shown.
func (m Model) Grid() game.Grid { return m.last.Grid }

// Score returns the score currently shown.
func (m Model) Score() int { return m.last.Score }

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bbada0")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f65e3b"))
)

// tileColors follows the classic palette: background, foreground.
var tileColors = map[int][2]string{
	0:    {"#cdc1b4", "#cdc1b4"},
	2:    {"#eee4da", "#776e65"},
	4:    {"#ede0c8", "#776e65"},
	8:    {"#f2b179", "#f9f6f2"},
	16:   {"#f59563", "#f9f6f2"},
	32:   {"#f67c5f", "#f9f6f2"},
	64:   {"#f65e3b", "#f9f6f2"},
	128:  {"#edcf72", "#f9f6f2"},
	256:  {"#edcc61", "#f9f6f2"},
	512:  {"#edc850", "#f9f6f2"},
	1024: {"#edc53f", "#f9f6f2"},
	2048: {"#edc22e", "#f9f6f2"},
}

func tileStyle(v int) lipgloss.Style {
	c, ok := tileColors[v]
	if !ok {
		c = [2]string{"#3c3a32", "#f9f6f2"}
	}
	return lipgloss.NewStyle().
		Width(7).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center).
		Bold(true).
		Background(lipgloss.Color(c[0])).
		Foreground(lipgloss.Color(c[1]))
}

// renderGrid lays tiles out with a one-column gutter.
func renderGrid(g game.Grid) string {
	rows := make([]string, 0, game.Size)
	for _, row := range g {
		cells := make([]string, 0, 2*game.Size)
		for c, v := range row {
			label := ""
			if v != 0 {
				label = strconv.Itoa(v)
			}
			if c > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, tileStyle(v).Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(statusStyle.Render(fmt.Sprintf("Score %d   Best %d   Moves %d", m.last.Score, m.best, m.moves)))
	b.WriteString("\n")
	b.WriteString(frameStyle.Render(renderGrid(m.last.Grid)))
	b.WriteString("\n")
	switch {
	case m.last.Over:
		b.WriteString(bannerStyle.Render("Game over! Press r to play again."))
		b.WriteString("\n")
	case m.last.Won:
		b.WriteString(bannerStyle.Render("2048! Keep going."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("arrows/hjkl/wasd move • r restart • q quit"))
	b.WriteString("\n")
	return b.String()
}
