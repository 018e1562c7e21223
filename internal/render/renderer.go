// Package render draws accepted debate records for operators watching the
// server's console.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/xiaot623/debate/internal/domain"
)

// Palette colors (ANSI 256).
var (
	colorJudge = lipgloss.Color("11") // yellow
	colorPro   = lipgloss.Color("10") // green
	colorCon   = lipgloss.Color("9")  // red
	colorOther = lipgloss.Color("14") // cyan
)

// Renderer writes a boxed summary of each record to w.
type Renderer struct {
	mu    sync.Mutex
	w     io.Writer
	lg    *lipgloss.Renderer
	color bool
}

// New creates a renderer writing to w. When color is false no ANSI styling
// is emitted regardless of the terminal.
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{
		w:     w,
		lg:    lipgloss.NewRenderer(w),
		color: color,
	}
}

// Render returns the boxed representation of rec.
func (r *Renderer) Render(rec domain.HistoryRecord) string {
	tag := r.lg.NewStyle().Bold(true)
	if r.color {
		tag = tag.Foreground(accent(rec))
	}

	header := fmt.Sprintf("%s %s (round %d)", tag.Render("["+strings.ToUpper(string(rec.Action))+"]"), rec.AgentID, rec.Round)
	if rec.TargetAgentID != "" {
		header += " → " + rec.TargetAgentID
	}

	width := lipgloss.Width(header)
	if w := lipgloss.Width(rec.Content); w > width {
		width = w
	}
	divider := strings.Repeat("─", width)

	box := r.lg.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)
	if r.color {
		box = box.BorderForeground(accent(rec))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, divider, rec.Content))
}

// HandleRecord writes the rendered record followed by a newline.
func (r *Renderer) HandleRecord(_ context.Context, rec domain.HistoryRecord) error {
	out := r.Render(rec)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.w, out+"\n")
	return err
}

func accent(rec domain.HistoryRecord) lipgloss.Color {
	switch {
	case rec.Action == domain.ActionJudge:
		return colorJudge
	case rec.AgentID == "pro":
		return colorPro
	case rec.AgentID == "con":
		return colorCon
	default:
		return colorOther
	}
}
