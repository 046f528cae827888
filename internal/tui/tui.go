// Package tui - терминальный интерфейс записной книжки на bubbletea.
package tui

import (
	"context"
	"errors"
	"myNotebook/internal/logger"
	"myNotebook/internal/notify"

	tea "github.com/charmbracelet/bubbletea"
)

// Run запускает интерфейс. На время работы уведомления и запрос разрешения
// идут через программу, после выхода - снова в журнал.
func Run(ctx context.Context, notebook Notebook, center *notify.Center, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, notebook, center, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	center.SetSink(NewProgramSink(p))
	center.SetPrompter(NewPrompter(p))
	defer func() {
		center.SetSink(notify.LogSink{})
		center.SetPrompter(nil)
	}()

	logger.Info("TUI: Запуск интерфейса")
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
