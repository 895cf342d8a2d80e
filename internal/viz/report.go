package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/experiment"
	"github.com/san-kum/planetsim/internal/sim"
)

// BodyTable lists the display state of every body.
func BodyTable(cfg *config.Config, views []sim.BodyView) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("   %-10s %10s %10s %10s %8s", "body", "x", "y", "z", "radius")) + "\n")
	for i, v := range views {
		fmt.Fprintf(&b, " %s %-10s %10.3f %10.3f %10.3f %8.2f\n",
			Swatch(v.Color), cfg.BodyName(i), v.Position.X, v.Position.Y, v.Position.Z, v.Radius)
	}
	return b.String()
}

// MetricTable lists metrics in name order.
func MetricTable(m map[string]float64) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.3e", m[name])) + "\n")
	}
	return b.String()
}

// Report summarises a finished run. target selects the body whose distance
// from the primary is plotted; a negative target skips the plot.
func Report(cfg *config.Config, result *experiment.Result, elapsed time.Duration, target int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(strings.ToUpper(result.Name)) + "\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("%d steps in %v, dt %.4g, %d retries, %d collisions",
		result.StepsTaken, elapsed.Round(time.Millisecond), result.FinalDt, result.Retries, result.Collisions)) + "\n\n")

	b.WriteString(GlassPanel.Render(strings.TrimRight(MetricTable(result.Metrics), "\n")) + "\n\n")

	if n := len(result.Frames); n > 0 {
		b.WriteString(BodyTable(cfg, result.Frames[n-1].Bodies) + "\n")
	}

	if target >= 0 && target != cfg.Primary {
		if data := result.Separation(cfg.Primary, target); len(data) > 1 {
			caption := fmt.Sprintf("distance %s -> %s", cfg.BodyName(cfg.Primary), cfg.BodyName(target))
			b.WriteString(asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(70),
				asciigraph.Caption(caption),
			) + "\n")
		}
	}

	return b.String()
}

// SweepTable compares runs of one scenario at different dt.
func SweepTable(results []experiment.SweepResult) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-10s %8s %14s %14s %14s", "dt", "steps", "energy", "ang. mom.", "orbit spread")) + "\n")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "%-10.4g %s\n", r.Dt, StatusError.Render(r.Err.Error()))
			continue
		}
		m := r.Result.Metrics
		fmt.Fprintf(&b, "%-10.4g %8d %14.3e %14.3e %14.3e\n",
			r.Dt, r.Result.StepsTaken, m["energy_drift"], m["angular_momentum_drift"], m["orbit_spread"])
	}
	return GlassPanel.Render(strings.TrimRight(b.String(), "\n"))
}
