// Package console is an interactive terminal host for the kernel. It owns
// the frame loop, turns keys into kernel commands and shows live statistics.
// Particles are not drawn.
package console

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/sim"
)

const (
	historyCapacity = 300
	addBatch        = 25
	frameNudge      = 10.0
	paramStep       = 1.1
)

type TickMsg time.Time

type param int

const (
	paramRadius param = iota
	paramMass
	paramDampening
	paramGravity
	numParams
)

func (p param) String() string {
	return [...]string{"radius", "mass", "dampening", "gravity y"}[p]
}

type Model struct {
	cfg    *config.Config
	sim    *sim.Simulator
	logger *slog.Logger

	dt       float64
	viewport sim.Viewport
	frame    r2.Vec
	tracking bool

	energy      *metrics.KineticEnergy
	containment *metrics.Containment
	speed       *metrics.Speed
	collisions  *metrics.Collisions

	energyHistory []float64
	selected      param
	showHelp      bool
	lastErr       error
	lastInfo      sim.StepInfo
}

func NewModel(cfg *config.Config, logger *slog.Logger) (Model, error) {
	s, err := cfg.NewSimulator(sim.WithLogger(logger))
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:           cfg,
		sim:           s,
		logger:        logger,
		dt:            cfg.Run.Dt,
		viewport:      cfg.Viewport(),
		energy:        metrics.NewKineticEnergy(),
		containment:   metrics.NewContainment(),
		speed:         metrics.NewSpeed(),
		collisions:    metrics.NewCollisions(),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	for _, mt := range []sim.Metric{m.energy, m.containment, m.speed, m.collisions} {
		s.AddMetric(mt)
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.sim.SetFreeze(!m.sim.Frozen())
		case "a":
			m.sim.Submit(sim.AddParticles{Count: addBatch})
		case "d":
			m.sim.Submit(sim.DeleteAll{})
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % numParams
		case "+", "=":
			m.adjust(paramStep)
		case "-", "_":
			m.adjust(1 / paramStep)
		case "left":
			m.nudge(-frameNudge, 0)
		case "right":
			m.nudge(frameNudge, 0)
		case "up":
			m.nudge(0, frameNudge)
		case "down":
			m.nudge(0, -frameNudge)
		case "c":
			m.frame = r2.Vec{}
			m.tracking = false
		case "<":
			m.resize(1 / paramStep)
		case ">":
			m.resize(paramStep)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	in := sim.Input{Dt: m.dt, Viewport: &m.viewport}
	if m.tracking {
		pos := m.frame
		in.FramePosition = &pos
	}
	info, err := m.sim.Step(in)
	if err != nil {
		m.lastErr = err
		m.logger.Error("step_failed", "error", err)
		return
	}
	m.lastErr = nil
	m.lastInfo = info

	m.energyHistory = append(m.energyHistory, m.energy.Value())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// adjust scales the selected parameter. Gravity scales its Y component,
// seeding it from the default when it is zero.
func (m *Model) adjust(factor float64) {
	rules := m.sim.Rules()
	switch m.selected {
	case paramRadius:
		m.sim.Submit(sim.SetRadius{Radius: rules.Particle.Radius * factor})
	case paramMass:
		m.sim.Submit(sim.SetMass{Mass: rules.Particle.Mass * factor})
	case paramDampening:
		m.sim.Submit(sim.SetDampening{Dampening: rules.Particle.Dampening * factor})
	case paramGravity:
		g := rules.Physics.Gravity
		if g.Y == 0 {
			g.Y = config.DefaultGravityY
		} else {
			g.Y *= factor
		}
		m.sim.Submit(sim.SetGravity{Gravity: g})
	}
}

func (m *Model) nudge(dx, dy float64) {
	m.frame = r2.Add(m.frame, r2.Vec{X: dx, Y: dy})
	m.tracking = true
}

func (m *Model) resize(factor float64) {
	m.viewport.Width *= factor
	m.viewport.Height *= factor
}

// reset restores the configured rules and population.
func (m *Model) reset() {
	rules := m.cfg.Rules()
	m.sim.Submit(
		sim.DeleteAll{},
		sim.SetRadius{Radius: rules.Particle.Radius},
		sim.SetMass{Mass: rules.Particle.Mass},
		sim.SetDampening{Dampening: rules.Particle.Dampening},
		sim.SetGravity{Gravity: rules.Physics.Gravity},
		sim.AddParticles{Count: m.cfg.Particles.Count},
	)
	m.sim.SetFreeze(false)
	m.viewport = m.cfg.Viewport()
	m.frame = r2.Vec{}
	m.tracking = false
	m.energyHistory = m.energyHistory[:0]
	m.energy.Reset()
	m.collisions.Reset()
}

func (m Model) paramValue(p param) float64 {
	rules := m.sim.Rules()
	switch p {
	case paramRadius:
		return rules.Particle.Radius
	case paramMass:
		return rules.Particle.Mass
	case paramDampening:
		return rules.Particle.Dampening
	default:
		return rules.Physics.Gravity.Y
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("BALLPIT") + "\n")

	if m.sim.Frozen() {
		s.WriteString(frozenStyle.Render("FROZEN") + "\n")
	} else {
		s.WriteString(runningStyle.Render("RUNNING") + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs (tick %d)", m.sim.Time(), m.sim.Tick()))
	row("Particles", fmt.Sprintf("%d", m.sim.Len()))
	row("Pending", fmt.Sprintf("%d", m.sim.Pending()))
	row("Energy", fmt.Sprintf("%.2f (peak %.2f)", m.energy.Value(), m.energy.Peak()))
	row("Speed", fmt.Sprintf("%.2f ± %.2f", m.speed.Value(), m.speed.StdDev()))
	row("Contacts", fmt.Sprintf("%d", m.collisions.Last()))
	row("Contained", fmt.Sprintf("%.0f%%", 100*m.containment.Value()))
	row("Viewport", fmt.Sprintf("%.0fx%.0f", m.viewport.Width, m.viewport.Height))
	if m.lastInfo.Frame.Tracking() {
		row("Frame", fmt.Sprintf("(%.0f, %.0f) v=(%.1f, %.1f)", m.frame.X, m.frame.Y, m.lastInfo.Frame.Velocity.X, m.lastInfo.Frame.Velocity.Y))
	} else {
		row("Frame", "untracked")
	}

	s.WriteString("\nPARAMETERS\n")
	for p := param(0); p < numParams; p++ {
		line := fmt.Sprintf("%-10s %.3f", p, m.paramValue(p))
		if p == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if m.lastErr != nil {
		s.WriteString("\n" + errorStyle.Render(m.lastErr.Error()) + "\n")
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render(strings.Join([]string{
			"SPACE  freeze/resume",
			"A      add particles",
			"D      delete all",
			"TAB    select parameter",
			"+ / -  raise/lower parameter",
			"ARROWS move viewport",
			"C      center viewport",
			"< / >  shrink/grow viewport",
			"R      reset",
			"Q      quit",
		}, "\n")))
	} else {
		s.WriteString(helpStyle.Render("SP:Freeze A:Add D:Delete TAB/+/-:Tune ?:Help Q:Quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, panelStyle.Render(s.String()))
}
