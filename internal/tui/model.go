// Package tui provides an interactive terminal view of a running search.
// The packing state is drawn live and the search can be stepped, paused and
// switched between modes from the keyboard.
package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwagner/boxpack/internal/pack"
	"github.com/cwagner/boxpack/internal/search"
)

// Config selects the problem and algorithm the TUI drives.
type Config struct {
	Algorithm  string
	Mode       string
	Problem    pack.ProblemConfig
	MoveBudget int

	// StepDelay is the pause between ticks while auto-running.
	StepDelay time.Duration
}

// Run starts the interactive session and blocks until the user quits.
func Run(cfg Config) error {
	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// tickMsg drives the auto-run loop.
type tickMsg time.Time

// Model is the bubbletea model for one interactive search session.
type Model struct {
	cfg    Config
	runner *search.Runner

	// modes holds the mode names compatible with the configured
	// algorithm, modeIdx the one currently active.
	modes   []string
	modeIdx int

	running bool
	err     error
	width   int
}

func newModel(cfg Config) (Model, error) {
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = 100 * time.Millisecond
	}

	modes := search.ModesFor(cfg.Algorithm)
	if len(modes) == 0 {
		return Model{}, fmt.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
	modeIdx := 0
	for i, name := range modes {
		if name == cfg.Mode {
			modeIdx = i
		}
	}

	problem, err := pack.NewProblem(cfg.Problem)
	if err != nil {
		return Model{}, err
	}
	mode, err := search.NewMode(modes[modeIdx])
	if err != nil {
		return Model{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Problem.Seed))
	algo, err := search.NewAlgorithm(cfg.Algorithm, problem, mode, rng, search.Options{
		MoveBudget: cfg.MoveBudget,
	})
	if err != nil {
		return Model{}, err
	}

	return Model{
		cfg:     cfg,
		runner:  search.NewRunner(algo, 0),
		modes:   modes,
		modeIdx: modeIdx,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "t":
			m.running = false
			m.step()

		case " ":
			if m.err != nil {
				return m, nil
			}
			m.running = !m.running
			if m.running {
				return m, m.scheduleTick()
			}

		case "m":
			m.cycleMode()
		}

	case tickMsg:
		if !m.running {
			return m, nil
		}
		if done := m.step(); done {
			m.running = false
			return m, nil
		}
		return m, m.scheduleTick()
	}

	return m, nil
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.cfg.StepDelay, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// step executes one tick and reports whether the run is finished.
func (m *Model) step() bool {
	done, err := m.runner.Step()
	if err != nil {
		m.err = err
		return true
	}
	return done
}

// cycleMode switches the algorithm to the next compatible mode. A finished
// run reopens, since the new mode may find moves the old one could not.
func (m *Model) cycleMode() {
	next := (m.modeIdx + 1) % len(m.modes)
	mode, err := search.NewMode(m.modes[next])
	if err != nil {
		m.err = err
		return
	}
	if err := m.runner.SwitchMode(mode); err != nil {
		m.err = err
		return
	}
	m.modeIdx = next
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderBoxes())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func (m Model) renderHeader() string {
	algo := m.runner.Algorithm()

	state := "paused"
	if m.running {
		state = "running"
	}
	if algo.State().Done() {
		state = m.runner.Outcome().String()
	}

	title := titleStyle.Render(fmt.Sprintf("boxpack %s / %s", algo.Name(), m.modes[m.modeIdx]))
	status := statusStyle.Render(fmt.Sprintf("tick %d  score %s  [%s]",
		m.runner.Ticks(), algo.Score().String(), state))

	if m.err != nil {
		return title + "\n" + errorStyle.Render("error: "+m.err.Error())
	}
	return title + "\n" + status
}

// renderBoxes draws every box as a character grid, one cell per unit square.
// Rectangles are lettered by identity; cells covered by more than one
// rectangle show '#'.
func (m Model) renderBoxes() string {
	s := m.runner.Algorithm().Solution()
	if len(s.Boxes) == 0 {
		return statusStyle.Render("no boxes yet, press t to start placing")
	}

	rendered := make([]string, len(s.Boxes))
	for i, b := range s.Boxes {
		rendered[i] = boxStyle.Render(renderBox(b))
	}

	// Wrap the box row to the terminal width.
	perRow := 1
	if m.width > 0 {
		boxWidth := lipgloss.Width(rendered[0]) + 1
		if boxWidth > 0 {
			perRow = max(1, m.width/boxWidth)
		}
	} else {
		perRow = len(rendered)
	}

	var rows []string
	for start := 0; start < len(rendered); start += perRow {
		end := min(start+perRow, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderBox(b *pack.Box) string {
	grid := make([][]rune, b.Side)
	for y := range grid {
		grid[y] = make([]rune, b.Side)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	for _, p := range b.Items {
		mark := rune('A' + p.ID%26)
		for y := p.Y; y < p.Y+p.Height() && y < b.Side; y++ {
			for x := p.X; x < p.X+p.Width() && x < b.Side; x++ {
				if grid[y][x] != '.' {
					grid[y][x] = '#'
				} else {
					grid[y][x] = mark
				}
			}
		}
	}

	lines := make([]string, len(grid))
	for y, row := range grid {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"space", "run/pause"},
		{"t", "single tick"},
		{"m", "switch mode"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = helpKeyStyle.Render(k.key) + " " + helpDescStyle.Render(k.desc)
	}
	return strings.Join(parts, "   ")
}
