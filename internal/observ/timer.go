package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration of one measured step. Ops is the number of
// queries it covered, zero for plain phases.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Ops   int
	Note  string
}

// Timer tracks the execution time of several phases.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.EndOps(idx, 0, note)
}

// EndOps finishes a phase that executed ops queries.
func (t *Timer) EndOps(idx, ops int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Ops = ops
	p.Note = note
}

// Measure runs fn as a phase of ops queries.
func (t *Timer) Measure(name string, ops int, fn func()) time.Duration {
	idx := t.Begin(name)
	fn()
	t.EndOps(idx, ops, "")
	return t.phases[idx].Dur
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %9.3f ms", p.Name, p.DurationMS)
		if p.Ops > 0 {
			fmt.Fprintf(&sb, "  %8.1f ns/op", p.NsPerOp)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %9.3f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Ops        int     `json:"ops,omitempty"`
	NsPerOp    float64 `json:"ns_per_op,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		pr := PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Ops:        phase.Ops,
			Note:       phase.Note,
		}
		if phase.Ops > 0 {
			pr.NsPerOp = float64(phase.Dur.Nanoseconds()) / float64(phase.Ops)
		}
		report.Phases[i] = pr
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
