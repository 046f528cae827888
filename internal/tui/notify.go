package tui

import (
	"context"
	"myNotebook/internal/notify"

	tea "github.com/charmbracelet/bubbletea"
)

// reminderMsg - уведомление, доставленное в цикл интерфейса
type reminderMsg struct {
	notification notify.Notification
}

// permissionAskMsg просит пользователя ответить y/n; ответ уходит в answer
type permissionAskMsg struct {
	answer chan<- bool
}

type permissionResultMsg struct {
	permission notify.Permission
	err        error
}

// Sender - часть *tea.Program, нужная для доставки сообщений
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramSink передаёт уведомления в интерфейс, состояние меняется только в Update
type ProgramSink struct {
	sender Sender
}

func NewProgramSink(sender Sender) ProgramSink {
	return ProgramSink{sender: sender}
}

func (s ProgramSink) Deliver(ctx context.Context, n notify.Notification) error {
	s.sender.Send(reminderMsg{notification: n})
	return nil
}

// NewPrompter спрашивает разрешение через интерфейс и ждёт ответа
func NewPrompter(sender Sender) notify.Prompter {
	return func(ctx context.Context) (bool, error) {
		answer := make(chan bool, 1)
		sender.Send(permissionAskMsg{answer: answer})

		select {
		case ok := <-answer:
			return ok, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
