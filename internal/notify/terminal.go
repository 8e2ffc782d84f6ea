package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/smartcal/internal/theme"
)

// TerminalSink prints toasts as bordered boxes.
type TerminalSink struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewTerminalSink writes toasts to out.
func NewTerminalSink(out io.Writer) *TerminalSink {
	return &TerminalSink{out: out, now: time.Now}
}

// Toast implements ToastSink.
func (t *TerminalSink) Toast(toast Toast) {
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(toast.Title),
		toast.Description,
	)
	stamp := theme.DimmedStyle.Render(t.now().Format("15:04:05"))

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, stamp)
	fmt.Fprintln(t.out, theme.ToastStyle(string(toast.Variant)).Render(body))
}
