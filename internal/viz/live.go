package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/tandria/orbitlab/internal/config"
	"github.com/tandria/orbitlab/internal/orbit"
)

const (
	canvasWidth  = 80
	canvasHeight = 28

	energyHistoryCap = 600

	// maxTrailDots caps how many trail dots get drawn per body so long
	// trails don't swamp the canvas.
	maxTrailDots = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			Padding(1, 2).Width(40)
)

type TickMsg time.Time

// Model drives the live simulation view: it owns the world, steps it on every
// frame tick, and renders bodies, trails, and the starfield onto a braille
// canvas with a stats sidebar.
type Model struct {
	world *orbit.World
	gen   *orbit.Generator
	stars *orbit.Starfield
	cfg   *config.Config

	canvas *Canvas
	zoom   float64

	paused    bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted

	energyHistory []float64
	statusLine    string
}

func NewModel(world *orbit.World, gen *orbit.Generator, stars *orbit.Starfield, cfg *config.Config) Model {
	return Model{
		world:         world,
		gen:           gen,
		stars:         stars,
		cfg:           cfg,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		zoom:          1.0,
		energyHistory: make([]float64, 0, energyHistoryCap),
	}
}

func (m Model) frameInterval() time.Duration {
	return time.Second / time.Duration(m.cfg.FPS)
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.reset()
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "+", "=":
			m.zoom *= 1.25
		case "-", "_":
			m.zoom /= 1.25
		case "g":
			if m.recording {
				if err := saveGIF("orbitlab.gif", m.frames); err != nil {
					m.statusLine = fmt.Sprintf("gif: %v", err)
				} else {
					m.statusLine = "saved orbitlab.gif"
				}
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "s":
			if err := SaveSVG("orbitlab.svg", m.world, m.stars); err != nil {
				m.statusLine = fmt.Sprintf("svg: %v", err)
			} else {
				m.statusLine = "saved orbitlab.svg"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.world.Step(m.paused)
		if !m.paused {
			m.energyHistory = append(m.energyHistory, m.world.Energy())
			if len(m.energyHistory) > energyHistoryCap {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		m.draw()
		if m.recording {
			m.frames = append(m.frames, rasterize(m.canvas))
		}
		return m, tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) reset() {
	var bodies []*orbit.Body
	if m.gen != nil {
		bodies = m.gen.Generate()
	} else {
		bodies = orbit.ClassicScenario(m.cfg.G, m.cfg.TrailLength)
	}
	m.world.Reset(bodies)
	m.energyHistory = m.energyHistory[:0]
	m.statusLine = ""
}

// project maps world coordinates to dot coordinates, centered on the origin.
func (m *Model) project(x, y float64) (int, int) {
	cw, ch := m.canvas.DotWidth(), m.canvas.DotHeight()
	scale := m.zoom * float64(ch) / (2.2 * m.cfg.MaxOrbitRadius)
	return cw/2 + int(x*scale), ch/2 + int(y*scale)
}

func (m *Model) draw() {
	m.canvas.Clear()

	if m.stars != nil {
		for i, s := range m.stars.Stars {
			if !m.stars.Visible(i) {
				continue
			}
			px, py := m.project(s.Pos.X, s.Pos.Y)
			m.canvas.Set(px, py)
			if s.Magnitude > 0.8 {
				m.canvas.Set(px+1, py)
			}
		}
	}

	for _, b := range m.world.Bodies {
		stride := len(b.Trail)/maxTrailDots + 1
		for i := len(b.Trail) - 1; i >= 0; i -= stride {
			px, py := m.project(b.Trail[i].X, b.Trail[i].Y)
			m.canvas.Set(px, py)
		}

		px, py := m.project(b.Pos.X, b.Pos.Y)
		m.canvas.FillCircle(px, py, int(b.RenderRadius()/2))
	}
}

func (m Model) View() string {
	m.draw()

	frame := canvasStyle.Render(m.canvas.String())

	headerStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Text)
	accentStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Accent)
	warnStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Bold(true)

	var s strings.Builder
	s.WriteString(headerStyle.Render("ORBITLAB") + "\n")

	status := "RUNNING"
	if m.paused {
		status = warnStyle.Render("PAUSED")
	}
	if m.recording {
		status += " " + warnStyle.Render("●REC")
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(28),
			asciigraph.Caption("energy"),
		)
		s.WriteString(accentStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.world.Ticks())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", len(m.world.Bodies))) + "\n")
	s.WriteString(labelStyle.Render("Seed") + valueStyle.Render(fmt.Sprintf("%d", m.cfg.Seed)) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.zoom)) + "\n")

	p := m.world.Momentum()
	s.WriteString(labelStyle.Render("Momentum") + valueStyle.Render(fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)) + "\n")

	if m.statusLine != "" {
		s.WriteString("\n" + accentStyle.Render(m.statusLine) + "\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Muted).MarginTop(2)
	s.WriteString(helpStyle.Render("SP:Pause R:Reset T:Theme\nG:Record S:SVG +/-:Zoom\n?:Help Q:Quit"))

	stats := statsStyle.BorderForeground(CurrentTheme.Muted).Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, frame, stats)

	if m.showHelp {
		help := `
  Space  - pause / resume the simulation
  R      - reset with a fresh scenario
  T      - cycle color themes
  G      - toggle GIF recording
  S      - save an SVG snapshot
  + / -  - zoom in / out
  ?      - toggle this help
  Q      - quit
`
		return help + "\n" + main
	}
	return main
}

// Run starts the live view and blocks until the user quits.
func Run(world *orbit.World, gen *orbit.Generator, stars *orbit.Starfield, cfg *config.Config) error {
	p := tea.NewProgram(NewModel(world, gen, stars, cfg))
	_, err := p.Run()
	return err
}
