package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/metrics"
	"github.com/san-kum/planetsim/internal/sim"
)

const (
	frameInterval   = time.Second / 30
	historyCapacity = 120
	minSpeed        = 0.125
	maxSpeed        = 64
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Watch drives one tick per frame with dt equal to the wall-clock time since
// the previous frame, scaled by speed. It is the event loop the simulation
// core expects from its caller.
type Watch struct {
	cfg      *config.Config
	sim      *sim.Simulation
	energy   *metrics.EnergyDrift
	history  []float64
	running  bool
	speed    float64
	lastTick time.Time
	err      error
}

func NewWatch(cfg *config.Config) (Watch, error) {
	w := Watch{cfg: cfg, speed: 1}
	if err := w.rebuild(); err != nil {
		return Watch{}, err
	}
	return w, nil
}

func (w *Watch) rebuild() error {
	s, err := w.cfg.Build()
	if err != nil {
		return err
	}
	w.sim = s
	w.energy = metrics.NewEnergyDrift(s.Field())
	w.energy.Observe(s.Bodies(), 0)
	w.history = w.history[:0]
	w.running = true
	w.lastTick = time.Time{}
	w.err = nil
	return nil
}

func (w Watch) Init() tea.Cmd { return tick() }

func (w Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return w, tea.Quit
		case " ":
			w.toggle()
		case "r":
			if err := w.rebuild(); err != nil {
				w.err = err
				w.running = false
			}
		case "+", "=":
			w.speed = min(w.speed*2, maxSpeed)
		case "-", "_":
			w.speed = max(w.speed/2, minSpeed)
		}
	case TickMsg:
		w.advance(time.Time(msg))
		return w, tick()
	}
	return w, nil
}

func (w *Watch) toggle() {
	if w.running {
		w.running = false
		w.sim.Pause()
		return
	}
	w.running = true
	w.err = nil
	// do not count the time spent paused as a tick
	w.lastTick = time.Time{}
}

func (w *Watch) advance(now time.Time) {
	if !w.running {
		return
	}
	if w.lastTick.IsZero() {
		w.lastTick = now
		return
	}
	dt := now.Sub(w.lastTick).Seconds() * w.speed
	w.lastTick = now
	if dt <= 0 {
		return
	}

	if err := w.sim.Step(dt); err != nil {
		w.err = err
		w.running = false
		return
	}

	w.energy.Observe(w.sim.Bodies(), w.sim.Time())
	w.history = append(w.history, w.energy.Current())
	if len(w.history) > historyCapacity {
		w.history = w.history[1:]
	}
}

func (w Watch) View() string {
	var b strings.Builder

	status := StatusRunning.Render("RUNNING")
	switch {
	case w.err != nil:
		status = StatusError.Render("HALTED")
	case !w.running:
		status = StatusPaused.Render("PAUSED")
	}

	b.WriteString(TitleStyle.Render(strings.ToUpper(w.cfg.Name)) + "  " + status + "\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("t=%.3f  steps=%d  speed=x%g  collisions=%d  phase=%s",
		w.sim.Time(), w.sim.Steps(), w.speed, w.sim.Collisions(), w.sim.Phase())) + "\n\n")

	b.WriteString(BodyTable(w.cfg, w.sim.Snapshot()) + "\n")

	b.WriteString(MetricLabel.Render("energy drift") + MetricValue.Render(fmt.Sprintf("%.3e", w.energy.Value())) + "\n")
	b.WriteString(MetricLabel.Render("energy") + SparklineChart(w.history, 48) + "\n")

	if w.err != nil {
		b.WriteString("\n" + StatusError.Render(w.err.Error()) + "\n")
		b.WriteString(KeyHint.Render("lower the speed with - and press space to retry") + "\n")
	}

	b.WriteString("\n" + Separator(60) + "\n")
	b.WriteString(KeyHint.Render("space pause/resume  r rebuild  +/- speed  q quit") + "\n")
	return b.String()
}

func (w Watch) Simulation() *sim.Simulation { return w.sim }
func (w Watch) Running() bool               { return w.running }
func (w Watch) Err() error                  { return w.err }

func RunWatch(cfg *config.Config) error {
	w, err := NewWatch(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(w, tea.WithAltScreen()).Run()
	return err
}
