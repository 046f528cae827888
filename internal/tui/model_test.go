package tui_test

import (
	"context"
	"errors"
	"myNotebook/internal/models/item"
	"myNotebook/internal/notify"
	"myNotebook/internal/repository/item/inmemory"
	"myNotebook/internal/repository/kv/memkv"
	"myNotebook/internal/service"
	"myNotebook/internal/tui"
	"myNotebook/internal/worker"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func newModel(t *testing.T) (tui.Model, *service.NotebookService) {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))

	center := notify.NewCenter(notify.LogSink{}, notify.PermissionGranted, nil)
	scheduler := worker.NewReminderScheduler(clk, center, nil, nil)
	repo := inmemory.NewItemStorage(memkv.New(), "test")
	svc := service.NewNotebookService(repo, scheduler, clk)
	svc.Start(context.Background())

	m := tui.New(context.Background(), svc, center, tui.Options{ExportDir: t.TempDir(), Location: time.UTC})
	return m, svc
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m tui.Model, keys ...string) tui.Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(tui.Model)
	}
	return m
}

// TestModel_AddAndTabs тестирует добавление плана и переключение вкладок
func TestModel_AddAndTabs(t *testing.T) {
	m, svc := newModel(t)
	ctx := context.Background()

	assert.Contains(t, m.View(), "Поки тут пусто")

	m = press(m, "a", "Buy milk", "ctrl+s")

	items := svc.ListItems(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, item.TypePlan, items[0].Type)
	assert.Equal(t, "Buy milk", items[0].Title)
	assert.Contains(t, m.View(), "Buy milk")

	m = press(m, "2")
	assert.Equal(t, service.TabNotes, m.Controller().Tab())
	assert.NotContains(t, m.View(), "Buy milk")

	m = press(m, "tab")
	assert.Equal(t, service.TabDone, m.Controller().Tab())
}

// TestModel_AddEmpty тестирует сообщение о пустой записи
func TestModel_AddEmpty(t *testing.T) {
	m, svc := newModel(t)

	m = press(m, "a", "ctrl+s")

	assert.Empty(t, svc.ListItems(context.Background()))
	assert.Contains(t, m.View(), "Напиши хоча б заголовок або текст")

	m = press(m, "esc")
	assert.Contains(t, m.View(), "Поки тут пусто")
}

// TestModel_AddNote тестирует смену типа в форме добавления
func TestModel_AddNote(t *testing.T) {
	m, svc := newModel(t)

	m = press(m, "a", "ctrl+t", "Idea", "ctrl+s")

	items := svc.ListItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, item.TypeNote, items[0].Type)

	m = press(m, "2")
	assert.Contains(t, m.View(), "Idea")
}

// TestModel_EditDoneDelete тестирует редактирование, завершение и удаление
func TestModel_EditDoneDelete(t *testing.T) {
	m, svc := newModel(t)
	ctx := context.Background()

	m = press(m, "a", "Buy milk", "ctrl+s")
	id := svc.ListItems(ctx)[0].ID

	m = press(m, "enter", "!", "ctrl+s")
	got, err := svc.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk!", got.Title)
	assert.NotNil(t, got.UpdatedAt)

	m = press(m, "esc", "x")
	got, err = svc.GetItem(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsDone())
	assert.NotContains(t, m.View(), "Buy milk!")

	m = press(m, "3")
	assert.Contains(t, m.View(), "Buy milk!")

	// отказ от удаления
	m = press(m, "d")
	assert.Contains(t, m.View(), `Видалити "Buy milk!"?`)
	m = press(m, "n")
	assert.Len(t, svc.ListItems(ctx), 1)

	m = press(m, "d", "y")
	assert.Empty(t, svc.ListItems(ctx))
	assert.Empty(t, m.Controller().SelectedID())
}

// TestModel_Search тестирует поиск по заголовку и тексту
func TestModel_Search(t *testing.T) {
	m, _ := newModel(t)

	m = press(m, "a", "Buy milk", "ctrl+s")
	m = press(m, "a", "Call mom", "ctrl+s")

	m = press(m, "/", "MILK")
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.NotContains(t, view, "Call mom")

	m = press(m, "esc")
	assert.Empty(t, m.Controller().Query())
	assert.Contains(t, m.View(), "Call mom")
}

// TestModel_ReminderBanner тестирует показ сработавшего напоминания
func TestModel_ReminderBanner(t *testing.T) {
	m, _ := newModel(t)
	sender := make(chanSender, 1)

	err := tui.NewProgramSink(sender).Deliver(context.Background(), notify.Notification{Title: "Buy milk", Body: "2 liters"})
	require.NoError(t, err)

	next, _ := m.Update(<-sender)
	view := next.(tui.Model).View()
	assert.Contains(t, view, "🔔 Buy milk")
	assert.Contains(t, view, "2 liters")
}

// TestModel_PermissionPrompt тестирует запрос разрешения через интерфейс
func TestModel_PermissionPrompt(t *testing.T) {
	m, _ := newModel(t)
	sender := make(chanSender, 4)
	center := notify.NewCenter(tui.NewProgramSink(sender), notify.PermissionDefault, tui.NewPrompter(sender))

	result := make(chan notify.Permission, 1)
	go func() {
		p, _ := center.RequestPermission(context.Background())
		result <- p
	}()

	ask := <-sender
	next, _ := m.Update(ask)
	m = next.(tui.Model)
	assert.Contains(t, m.View(), "Дозволити сповіщення?")

	m = press(m, "y")

	select {
	case p := <-result:
		assert.Equal(t, notify.PermissionGranted, p)
	case <-time.After(time.Second):
		t.Fatal("разрешение не получено")
	}

	// подтверждение приходит как обычное уведомление
	next, _ = m.Update(<-sender)
	assert.Contains(t, next.(tui.Model).View(), "Готово ✅")
}

// TestPreview тестирует обрезку текста в списке
func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "short", body: "2 liters", want: "2 liters"},
		{name: "exact", body: strings.Repeat("a", 140), want: strings.Repeat("a", 140)},
		{name: "long", body: strings.Repeat("ж", 200), want: strings.Repeat("ж", 140) + "…"},
		{name: "newlines", body: "a\nb", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tui.Preview(tt.body))
		})
	}
}

// TestRenderEntry тестирует значки и подписи записи
func TestRenderEntry(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	remind := now.Add(time.Hour)

	active := item.New(item.TypePlan, "", "body", &remind, now)
	out := tui.RenderEntry(active, false, false, time.UTC)
	assert.Contains(t, out, "(без назви)")
	assert.Contains(t, out, "🔔 01.05.2026, 11:00")
	assert.Contains(t, out, "План • 01.05.2026, 10:00")

	done := item.New(item.TypeNote, "Idea", "", &remind, now)
	done.Status = item.StatusDone
	out = tui.RenderEntry(done, true, false, time.UTC)
	assert.Contains(t, out, "✅ Done")
	assert.NotContains(t, out, "🔔")
	assert.Contains(t, out, "Нотатка")
}

// TestModel_PermissionSaved тестирует сохранение решения по уведомлениям
func TestModel_PermissionSaved(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
		want   notify.Permission
	}{
		{name: "разрешено", answer: true, want: notify.PermissionGranted},
		{name: "запрещено", answer: false, want: notify.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newModel(t)
			center := notify.NewCenter(notify.LogSink{}, notify.PermissionDefault, func(ctx context.Context) (bool, error) {
				return tt.answer, nil
			})

			var saved []notify.Permission
			m := tui.New(context.Background(), svc, center, tui.Options{
				ExportDir: t.TempDir(),
				Location:  time.UTC,
				SavePermission: func(p notify.Permission) error {
					saved = append(saved, p)
					return nil
				},
			})

			_, cmd := m.Update(keyMsg("n"))
			require.NotNil(t, cmd)
			next, _ := m.Update(cmd())

			assert.Equal(t, []notify.Permission{tt.want}, saved)
			assert.Equal(t, tt.want, center.Permission())
			assert.NotContains(t, next.(tui.Model).View(), "Не вдалося зберегти")
		})
	}
}

// TestModel_PermissionSaveError тестирует ошибку сохранения решения
func TestModel_PermissionSaveError(t *testing.T) {
	_, svc := newModel(t)
	center := notify.NewCenter(notify.LogSink{}, notify.PermissionDefault, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	m := tui.New(context.Background(), svc, center, tui.Options{
		Location: time.UTC,
		SavePermission: func(p notify.Permission) error {
			return errors.New("read-only")
		},
	})

	_, cmd := m.Update(keyMsg("n"))
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	assert.Contains(t, next.(tui.Model).View(), "Не вдалося зберегти рішення: read-only")
}
