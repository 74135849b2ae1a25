// Package tui is the interactive terminal front end: one plot description
// box and a scrollable list of recommendations.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/engine"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/present"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	inputHeight   = 4
	// title, input border, help line and spacing
	chromeHeight = inputHeight + 6
)

// Recommender is the subset of the engine the UI needs
type Recommender interface {
	Recommend(ctx context.Context, text string) (*engine.Response, error)
	Catalog() catalog.Catalog
}

// Lipgloss styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	plotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// resultsMsg carries a finished query back into Update
type resultsMsg struct {
	resp *engine.Response
	err  error
}

// Model is the bubbletea model
type Model struct {
	rec      Recommender
	input    textarea.Model
	results  viewport.Model
	blocks   []present.Block
	query    string
	busy     bool
	err      error
	width    int
	quitting bool
}

// NewModel creates the UI bound to a recommender
func NewModel(rec Recommender) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe a movie plot..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(inputHeight)
	ta.SetWidth(defaultWidth - 4)
	// Enter submits; the description stays one logical paragraph.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	vp := viewport.New(defaultWidth-2, defaultHeight-chromeHeight)

	return Model{
		rec:     rec,
		input:   ta,
		results: vp,
		width:   defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-4, 10))
		m.results.Width = max(msg.Width-2, 10)
		m.results.Height = max(msg.Height-chromeHeight, 3)
		m.results.SetContent(m.renderResults())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}

	case resultsMsg:
		m.busy = false
		m.err = msg.err
		m.blocks = nil
		if msg.err == nil {
			m.blocks = present.Format(m.rec.Catalog(), msg.resp.Matches())
		}
		m.results.SetContent(m.renderResults())
		m.results.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a query for the current input. Empty input is ignored,
// matching a form that only reacts once something was typed.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" || m.busy {
		return m, nil
	}
	m.busy = true
	m.query = text
	rec := m.rec
	return m, func() tea.Msg {
		resp, err := rec.Recommend(context.Background(), text)
		return resultsMsg{resp: resp, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎬 Movie Recommendation Engine"))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(dimStyle.Render("Searching..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	default:
		b.WriteString(dimStyle.Render("enter: recommend • pgup/pgdown: scroll • esc: quit"))
	}
	b.WriteString("\n")
	b.WriteString(m.results.View())
	return b.String()
}

// renderResults lays out the current blocks for the viewport
func (m Model) renderResults() string {
	if len(m.blocks) == 0 {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(max(m.results.Width-2, 10))

	var b strings.Builder
	b.WriteString(headingStyle.Render("Top Recommendations"))
	b.WriteString("\n\n")
	for _, blk := range m.blocks {
		b.WriteString(headingStyle.Render(fmt.Sprintf("%d. %s", blk.Rank, blk.Heading)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(metaStyle.Render(blk.Meta())))
		b.WriteString("\n")
		b.WriteString(wrap.Render(plotStyle.Render("Plot: " + blk.Plot)))
		b.WriteString("\n")
		b.WriteString("Similarity Score: " + scoreStyle.Render(blk.ScoreText))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(strings.Repeat("─", max(m.results.Width-2, 10))))
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the full-screen program and blocks until the user quits
func Run(rec Recommender) error {
	_, err := tea.NewProgram(NewModel(rec), tea.WithAltScreen()).Run()
	return err
}
