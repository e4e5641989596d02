package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/authgate/component"
)

// Summary prints a startup overview built from the component registry.
type Summary struct {
	name    string
	version string
	took    time.Duration
	out     io.Writer
}

// NewSummary returns a Summary that writes to out, or os.Stdout when out is nil.
func NewSummary(name, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{name: name, version: version, out: out}
}

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) { s.took = d }

// Display writes the infrastructure, route and health sections for reg.
func (s *Summary) Display(ctx context.Context, reg *component.Registry) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n🚀 %s v%s started in %.2fs\n", s.name, s.version, s.took.Seconds())

	var infra []string
	for _, d := range reg.Descriptions() {
		details := d.Details
		if port := ":" + strconv.Itoa(d.Port); d.Port > 0 && !strings.Contains(details, port) {
			details += " (" + port + ")"
		}
		infra = append(infra, fmt.Sprintf("%s [%s]: %s", d.Name, d.Type, details))
	}
	section(&b, "📊 Infrastructure", infra)

	var routes []string
	for _, r := range reg.Routes() {
		routes = append(routes, fmt.Sprintf("%-7s %s → %s", r.Method, r.Path, r.Handler))
	}
	if len(routes) > 0 {
		section(&b, fmt.Sprintf("🌐 Routes (%d)", len(routes)), routes)
	}

	var health []string
	for _, h := range reg.HealthAll(ctx) {
		line := fmt.Sprintf("%s %s: %s", statusIcon(h.Status), h.Name, h.Status)
		if h.Message != "" {
			line += " (" + h.Message + ")"
		}
		health = append(health, line)
	}
	if len(health) == 0 {
		health = []string{"No components registered"}
	}
	section(&b, "🏥 Health Check", health)

	b.WriteByte('\n')
	_, _ = io.WriteString(s.out, b.String())
}

func section(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for i, l := range lines {
		tee := "├──"
		if i == len(lines)-1 {
			tee = "└──"
		}
		fmt.Fprintf(b, "   %s %s\n", tee, l)
	}
}

var statusIcons = map[component.HealthStatus]string{
	component.StatusHealthy:   "✅",
	component.StatusDegraded:  "⚠️",
	component.StatusUnhealthy: "❌",
}

func statusIcon(s component.HealthStatus) string {
	if icon, ok := statusIcons[s]; ok {
		return icon
	}
	return "❓"
}
