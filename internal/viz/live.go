package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/window"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	tickEvery    = time.Second / 10
)

type LiveConfig struct {
	KValues []int64
	Prime   int64
	Members int
	Steps   int
	Seed    int64
}

type TickMsg time.Time

// Model holds one ensemble advanced a step per tick.
type Model struct {
	cfg     LiveConfig
	systems []*dynamo.System
	kIndex  int
	seed    int64
	sys     *dynamo.System
	states  []dynamo.State
	alive   int
	step    int
	history []float64
	running bool
	help    bool
	canvas  *Canvas
	err     error
}

func NewModel(cfg LiveConfig) (Model, error) {
	if len(cfg.KValues) == 0 {
		return Model{}, fmt.Errorf("viz: no K values")
	}
	if cfg.Members < 1 {
		return Model{}, fmt.Errorf("viz: members must be positive, got %d", cfg.Members)
	}
	systems := make([]*dynamo.System, len(cfg.KValues))
	for i, k := range cfg.KValues {
		sys, err := dynamo.NewSystem(k, cfg.Prime)
		if err != nil {
			return Model{}, err
		}
		systems[i] = sys
	}

	m := Model{
		cfg:     cfg,
		systems: systems,
		seed:    cfg.Seed,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reset resamples the ensemble for the current K and seed. On failure the
// previous ensemble is left untouched.
func (m *Model) reset() error {
	sys := m.systems[m.kIndex]
	fibers, err := window.Uniform(rand.New(rand.NewSource(m.seed)), sys, m.cfg.Members)
	if err != nil {
		return err
	}

	m.sys = sys
	m.states = make([]dynamo.State, len(fibers))
	for i, f := range fibers {
		m.states[i] = dynamo.NewState(f)
	}
	m.alive = len(m.states)
	m.step = 0
	m.history = []float64{100}
	m.draw()
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		case "n":
			m.seed++
			m.err = m.reset()
		case "tab":
			m.kIndex = (m.kIndex + 1) % len(m.systems)
			m.err = m.reset()
		case "?":
			m.help = !m.help
		}
	case TickMsg:
		if m.running && m.err == nil && !m.done() {
			m.advance()
		}
		return m, tea.Tick(tickEvery, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) done() bool {
	return m.step >= m.cfg.Steps || m.alive == 0
}

func (m *Model) advance() {
	sys, states := m.sys, m.states
	dynamo.ParallelFor(len(states), 256, func(start, end int) {
		for i := start; i < end; i++ {
			states[i] = sys.Step(states[i])
		}
	})

	m.alive = 0
	for _, s := range states {
		if s.Alive() {
			m.alive++
		}
	}
	m.step++
	m.history = append(m.history, 100*float64(m.alive)/float64(len(states)))
	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	p := float64(m.sys.Prime())
	m.canvas.VLine(float64(m.sys.WindowLimit()) / p)

	rows := len(m.states)
	for i, s := range m.states {
		if !s.Alive() {
			continue
		}
		fy := 0.0
		if rows > 1 {
			fy = float64(i) / float64(rows-1)
		}
		m.canvas.Plot(float64(s.Fiber)/p, fy)
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return deadStyle.Render("ERROR: " + m.err.Error())
	case m.alive == 0:
		return deadStyle.Render("EXTINCT")
	case m.done():
		return aliveStyle.Render("DONE")
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("K=%d  p=%d", m.sys.K(), m.sys.Prime())) + "\n")
	s.WriteString(m.status() + "\n\n")
	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("alive %"))
		s.WriteString(graphStyle.Render(graph) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d/%d", m.step, m.cfg.Steps))
	row("Alive", fmt.Sprintf("%d/%d", m.alive, len(m.states)))
	row("Survival", fmt.Sprintf("%.2f%%", m.history[len(m.history)-1]))
	row("Window", fmt.Sprintf("%d", m.sys.WindowLimit()))
	row("Lambda", fmt.Sprintf("%d", m.sys.ReturnMultiplier()))
	row("Seed", fmt.Sprintf("%d", m.seed))

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause Tab:K R:Reset\nN:Reseed ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.help {
		return `
  Space  pause or resume
  Tab    next K value
  R      reset with the same seed
  N      reset with a new seed
  ?      toggle this help
  Q      quit
` + "\n" + mainView
	}
	return mainView
}

func Run(cfg LiveConfig) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
