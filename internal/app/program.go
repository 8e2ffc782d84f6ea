package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/smartcal/internal/notify"
	"github.com/nhle/smartcal/internal/store"
)

// ProgramSink forwards toasts into a running Bubble Tea program.
type ProgramSink struct {
	p *tea.Program
}

// NewProgramSink returns a sink sending to p.
func NewProgramSink(p *tea.Program) *ProgramSink {
	return &ProgramSink{p: p}
}

// Toast implements notify.ToastSink. Send runs in its own goroutine so a
// toast raised from inside Update cannot deadlock the program.
func (s *ProgramSink) Toast(t notify.Toast) {
	go s.p.Send(ToastMsg(t))
}

// RunAgenda runs the agenda TUI together with the scanner until the user
// quits or ctx is done.
func RunAgenda(ctx context.Context, a *App, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewAgenda(a), opts...)
	a.Dispatcher.AddSink(NewProgramSink(p))

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, func(store.Snapshot) { p.Send(ReloadedMsg{}) })
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	cancel()
	if rerr := <-done; err == nil {
		err = rerr
	}
	return err
}
