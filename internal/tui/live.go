// Package tui renders a live view of a running Monte Carlo estimate:
// batches are drawn from one shared random stream and the running mean
// is plotted as it converges.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mcquad"
	"github.com/san-kum/mcquad/internal/backend"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const maxHistory = 240

type Model struct {
	mc          *mcquad.MonteCarlo
	fn          mcquad.Integrand
	fnName      string
	dim         int
	batchN      int
	backendName string
	domain      [][]float64
	// exact is NaN when no closed form is known.
	exact float64

	// One stream for the whole session: each batch continues where the
	// previous one stopped.
	rng *backend.RNG

	batches int
	sum     float64
	sumSq   float64
	history []float64
	paused  bool
	err     error

	width  int
	height int
}

func New(fnName string, fn mcquad.Integrand, dimension, batchN int, backendName string, domain [][]float64, exact float64) Model {
	return Model{
		mc:          mcquad.New(),
		fn:          fn,
		fnName:      fnName,
		dim:         dimension,
		batchN:      batchN,
		backendName: backendName,
		domain:      domain,
		exact:       exact,
		rng:         backend.NewRNG(),
		history:     make([]float64, 0, maxHistory),
		width:       80,
		height:      24,
	}
}

func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			return m, nil
		case "r":
			m.batches = 0
			m.sum = 0
			m.sumSq = 0
			m.history = m.history[:0]
			m.rng = backend.NewRNG()
			m.err = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.err == nil {
			m = m.runBatch()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) runBatch() Model {
	opts := []mcquad.CallOption{
		mcquad.WithN(m.batchN),
		mcquad.WithRNG(m.rng),
		mcquad.WithBackend(m.backendName),
	}
	if m.domain != nil {
		opts = append(opts, mcquad.WithDomain(m.domain))
	}
	est, err := m.mc.Integrate(m.fn, m.dim, opts...)
	if err != nil {
		m.err = err
		return m
	}
	m.batches++
	m.sum += est
	m.sumSq += est * est
	m.history = append(m.history, m.sum/float64(m.batches))
	if len(m.history) > maxHistory {
		m.history = m.history[1:]
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("mcquad live  %s  dim=%d  batch=%d  backend=%s", m.fnName, m.dim, m.batchN, m.backendName)
	b.WriteString("  " + cyan.Render(title))
	if m.paused {
		b.WriteString("  " + yellow.Render("[paused]"))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  " + yellow.Render("error: "+m.err.Error()) + "\n")
		b.WriteString("\n  " + dim.Render("r reset · q quit") + "\n")
		return b.String()
	}

	if len(m.history) > 1 {
		plotWidth := m.width - 14
		if plotWidth < 20 {
			plotWidth = 20
		}
		data := m.history
		if len(data) > plotWidth {
			data = data[len(data)-plotWidth:]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("running estimate"),
		)
		for _, line := range strings.Split(graph, "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	} else {
		b.WriteString("  " + dim.Render("sampling...") + "\n\n")
	}

	if m.batches > 0 {
		n := float64(m.batches)
		mean := m.sum / n
		variance := m.sumSq/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		stderr := math.Sqrt(variance / n)

		b.WriteString(fmt.Sprintf("  %s %s\n", dim.Render("estimate "), white.Render(fmt.Sprintf("%.8f", mean))))
		b.WriteString(fmt.Sprintf("  %s %s\n", dim.Render("std error"), white.Render(fmt.Sprintf("%.2e", stderr))))
		if !math.IsNaN(m.exact) {
			b.WriteString(fmt.Sprintf("  %s %s\n", dim.Render("exact    "), white.Render(fmt.Sprintf("%.8f", m.exact))))
			b.WriteString(fmt.Sprintf("  %s %s\n", dim.Render("abs error"), green.Render(fmt.Sprintf("%.2e", math.Abs(mean-m.exact)))))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", dim.Render("samples  "), white.Render(fmt.Sprintf("%d", m.mc.Evals()))))
	}

	b.WriteString("\n  " + dim.Render("space pause · r reset · q quit") + "\n")
	return b.String()
}
