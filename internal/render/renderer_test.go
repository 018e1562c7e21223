package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/debate/internal/domain"
)

func TestRenderPlain(t *testing.T) {
	r := New(&bytes.Buffer{}, false)

	out := r.Render(domain.HistoryRecord{
		AgentID:       "con",
		Round:         2,
		Action:        domain.ActionRebut,
		Content:       "That photo is doctored",
		TargetAgentID: "pro",
	})

	assert.Contains(t, out, "[REBUT] con (round 2) → pro")
	assert.Contains(t, out, "That photo is doctored")
	assert.True(t, strings.HasPrefix(out, "┌"), "expected a boxed rendering, got:\n%s", out)
	assert.Contains(t, out, "─")
}

func TestRenderMultilineContent(t *testing.T) {
	r := New(&bytes.Buffer{}, false)

	out := r.Render(domain.HistoryRecord{AgentID: "judge", Round: 3, Action: domain.ActionJudge, Content: "pro\nBecause evidence X"})

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	width := lipgloss.Width(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line), "box lines should align: %q", line)
	}
	assert.Contains(t, out, "Because evidence X")
}

func TestAccent(t *testing.T) {
	assert.Equal(t, colorJudge, accent(domain.HistoryRecord{AgentID: "pro", Action: domain.ActionJudge}))
	assert.Equal(t, colorPro, accent(domain.HistoryRecord{AgentID: "pro", Action: domain.ActionArgue}))
	assert.Equal(t, colorCon, accent(domain.HistoryRecord{AgentID: "con", Action: domain.ActionRebut}))
	assert.Equal(t, colorOther, accent(domain.HistoryRecord{AgentID: "moderator", Action: domain.ActionArgue}))
}

func TestHandleRecordWrites(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true)

	err := r.HandleRecord(context.Background(), domain.HistoryRecord{AgentID: "pro", Round: 1, Action: domain.ActionArgue, Content: "hello"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hello")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestHandleRecordWriteError(t *testing.T) {
	r := New(failingWriter{}, false)
	err := r.HandleRecord(context.Background(), domain.HistoryRecord{AgentID: "pro", Round: 1, Action: domain.ActionArgue, Content: "x"})
	assert.Error(t, err)
}
