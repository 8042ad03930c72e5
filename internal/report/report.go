// Package report renders engine results for the terminal. Rendering is
// read-only; it never recomputes, so a report always reflects exactly what
// the engine returned.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/costplan/costplan/internal/engine"
	"github.com/costplan/costplan/internal/montecarlo"
	"github.com/costplan/costplan/internal/project"
	"github.com/costplan/costplan/internal/util"
)

// maxRiskDrivers caps the risk driver table; the tail is noise.
const maxRiskDrivers = 5

// Renderer formats engine results as styled or plain text.
type Renderer struct {
	color bool
}

// NewRenderer creates a Renderer. With color disabled all styling is
// stripped, which keeps output stable for piping and for tests.
func NewRenderer(color bool) *Renderer {
	return &Renderer{color: color}
}

// style applies s to text when color is enabled.
func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Validation renders a validation result.
func (r *Renderer) Validation(name string, result *engine.ValidationResult) string {
	var sb strings.Builder

	if result.OK {
		sb.WriteString(r.style(SuccessMsg, "✓ valid"))
		sb.WriteString(fmt.Sprintf(" project %q\n", name))
		return sb.String()
	}

	sb.WriteString(r.style(ErrorMsg, "✗ invalid"))
	sb.WriteString(fmt.Sprintf(" project %q\n", name))
	sb.WriteString("  " + result.Message + "\n")
	if len(result.CyclePath) > 0 {
		sb.WriteString("  cycle: " + r.style(WarningMsg, strings.Join(result.CyclePath, " -> ")) + "\n")
	}
	return sb.String()
}

// Analysis renders the deterministic cost and schedule report.
func (r *Renderer) Analysis(p *project.Project, a *engine.Analysis) string {
	var sb strings.Builder

	sb.WriteString(r.header(p))
	sb.WriteString("\n")

	sb.WriteString(r.style(SectionTitle, "Cost") + "\n")
	sb.WriteString(fmt.Sprintf("  %s %s\n", r.label("base cost:     "), money(a.Cost.BaseCost)))
	sb.WriteString(fmt.Sprintf("  %s %.2fx\n", r.label("risk factor:   "), a.Cost.RiskFactor))
	sb.WriteString(fmt.Sprintf("  %s %s\n", r.label("risk adjusted: "), r.style(Title, money(a.Cost.RiskAdjustedCost))))
	sb.WriteString("\n")

	sb.WriteString(r.style(SectionTitle, "Tasks") + "\n")
	sb.WriteString(r.label(fmt.Sprintf("  %-16s %10s %12s %12s %12s\n", "id", "days", "cost/day", "base", "adjusted")))
	for _, tc := range a.Cost.TaskCosts {
		mark := "  "
		if ts, ok := a.Schedule.Tasks[tc.TaskID]; ok && ts.Critical {
			mark = r.style(Critical, "● ")
		}
		sb.WriteString(fmt.Sprintf("  %-16s %s%8.1f %12s %12s %12s\n",
			util.TruncateString(tc.TaskID, 16), mark, tc.Days,
			money(tc.CostPerDay), money(tc.BaseCost), money(tc.AdjustedCost)))
	}
	sb.WriteString("\n")

	sb.WriteString(r.style(SectionTitle, "Schedule") + "\n")
	sb.WriteString(fmt.Sprintf("  %s %s\n", r.label("critical path: "),
		r.style(Critical, strings.Join(a.Schedule.CriticalPath, " -> "))))
	sb.WriteString(fmt.Sprintf("  %s %s\n", r.label("sequential:    "), days(a.Cost.Timelines.Sequential)))
	sb.WriteString(fmt.Sprintf("  %s %s\n", r.label("parallel:      "), days(a.Cost.Timelines.CriticalPath)))
	if a.Constrained != nil {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			r.label("constrained:   "),
			days(a.Constrained.Duration),
			r.style(Subtitle, fmt.Sprintf("(team of %d)", p.TeamSize))))
		if delay := a.Constrained.TotalQueueDelay(); delay > 0 {
			sb.WriteString(fmt.Sprintf("  %s %s\n", r.label("queue delay:   "), days(delay)))
		}
	}

	return sb.String()
}

// Simulation renders the Monte Carlo report.
func (r *Renderer) Simulation(p *project.Project, result *montecarlo.SimulationResult) string {
	var sb strings.Builder

	sb.WriteString(r.header(p))
	sb.WriteString("\n")

	title := fmt.Sprintf("Simulation (%d iterations, seed %d)", result.Completed, result.Seed)
	sb.WriteString(r.style(SectionTitle, title) + "\n")
	if result.Canceled {
		sb.WriteString("  " + r.style(WarningMsg,
			fmt.Sprintf("canceled after %d of %d iterations", result.Completed, result.Requested)) + "\n")
	}

	sb.WriteString(r.label(fmt.Sprintf("  %-10s %12s %12s %12s %12s %12s\n",
		"", "mean", "std dev", "P10", "P50", "P90")))
	sb.WriteString(fmt.Sprintf("  %-10s %11.1fd %11.1fd %11.1fd %11.1fd %11.1fd\n",
		"duration", result.Duration.Mean, result.Duration.StdDev,
		result.Duration.P10, result.Duration.P50, result.Duration.P90))
	sb.WriteString(fmt.Sprintf("  %-10s %12s %12s %12s %12s %12s\n",
		"cost", money(result.Cost.Mean), money(result.Cost.StdDev),
		money(result.Cost.P10), money(result.Cost.P50), money(result.Cost.P90)))
	sb.WriteString("\n")

	sb.WriteString(r.style(SectionTitle, "Risk drivers") + "\n")
	sb.WriteString(r.label(fmt.Sprintf("  %-16s %12s %12s\n", "task", "correlation", "critical")))
	for i, d := range result.RiskDrivers {
		if i >= maxRiskDrivers {
			break
		}
		id := fmt.Sprintf("%-16s", util.TruncateString(d.TaskID, 16))
		if d.CriticalRate > 0.5 {
			id = r.style(Critical, id)
		}
		sb.WriteString(fmt.Sprintf("  %s %12.2f %11.0f%%\n", id, d.Correlation, d.CriticalRate*100))
	}

	return sb.String()
}

// header renders the shared project headline.
func (r *Renderer) header(p *project.Project) string {
	level := string(p.RiskLevel)
	risk := RiskIcon(level) + " " + level
	if r.color {
		risk = lipgloss.NewStyle().Foreground(RiskColor(level)).Render(risk)
	}
	return fmt.Sprintf("%s  %s %s\n",
		r.style(Title, p.Name),
		risk,
		r.style(Subtitle, fmt.Sprintf("team of %d, %d tasks", p.TeamSize, len(p.Tasks))))
}

func (r *Renderer) label(s string) string {
	return r.style(Label, s)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func days(v float64) string {
	return fmt.Sprintf("%.1f days", v)
}
