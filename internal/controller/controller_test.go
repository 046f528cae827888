package controller_test

import (
	"context"
	"myNotebook/internal/controller"
	"myNotebook/internal/models/item"
	"myNotebook/internal/repository/item/inmemory"
	"myNotebook/internal/repository/kv/memkv"
	"myNotebook/internal/service"
	"myNotebook/internal/worker"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kyiv = time.FixedZone("EEST", 3*60*60)

type harness struct {
	ctrl      *controller.Controller
	svc       *service.NotebookService
	scheduler *worker.ReminderScheduler
	clock     *clock.Mock

	answer bool
	asked  []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC))

	scheduler := worker.NewReminderScheduler(clk, nil, nil, nil)
	svc := service.NewNotebookService(inmemory.NewItemStorage(memkv.New(), ""), scheduler, clk)

	h := &harness{svc: svc, scheduler: scheduler, clock: clk}
	h.ctrl = controller.New(svc, func(title string) bool {
		h.asked = append(h.asked, title)
		return h.answer
	}, kyiv)
	return h
}

// TestAdd тестирует добавление записи из формы
func TestAdd(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	it, err := h.ctrl.Add(ctx, item.TypePlan, "Buy milk", "", "2026-05-01T11:00")
	require.NoError(t, err)
	require.NotNil(t, it.RemindAt)
	assert.True(t, it.RemindAt.Equal(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, h.scheduler.Pending(it.ID))

	// неверное время означает запись без напоминания
	it, err = h.ctrl.Add(ctx, item.TypeNote, "Idea", "", "tomorrow")
	require.NoError(t, err)
	assert.Nil(t, it.RemindAt)

	_, err = h.ctrl.Add(ctx, item.TypeNote, " ", " ", "")
	assert.Error(t, err)
}

// TestSelect тестирует выбор записи и заполнение формы
func TestSelect(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	it, err := h.ctrl.Add(ctx, item.TypePlan, "Buy milk", "2 liters", "2026-05-01T11:00")
	require.NoError(t, err)

	h.ctrl.Select(ctx, "unknown")
	assert.Empty(t, h.ctrl.SelectedID())
	assert.False(t, h.ctrl.Editing())

	h.ctrl.Select(ctx, it.ID)
	assert.Equal(t, it.ID, h.ctrl.SelectedID())
	assert.True(t, h.ctrl.Editing())
	assert.Equal(t, controller.Form{Title: "Buy milk", Body: "2 liters", RemindAt: "2026-05-01T11:00"}, h.ctrl.Form())

	selected, ok := h.ctrl.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, it.ID, selected.ID)

	// неизвестный id не сбрасывает текущий выбор
	h.ctrl.Select(ctx, "unknown")
	assert.Equal(t, it.ID, h.ctrl.SelectedID())
}

// TestSaveEdit тестирует сохранение формы
func TestSaveEdit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	it, err := h.ctrl.Add(ctx, item.TypePlan, "Buy milk", "", "2026-05-01T11:00")
	require.NoError(t, err)

	// без выбора ничего не происходит
	updated, err := h.ctrl.SaveEdit(ctx)
	assert.NoError(t, err)
	assert.Nil(t, updated)

	h.ctrl.SetForm(controller.Form{Title: "ignored"})
	assert.Equal(t, controller.Form{}, h.ctrl.Form())

	h.ctrl.Select(ctx, it.ID)
	h.ctrl.SetForm(controller.Form{Title: " Buy bread ", Body: "white", RemindAt: ""})

	updated, err = h.ctrl.SaveEdit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", updated.Title)
	assert.Nil(t, updated.RemindAt)
	assert.False(t, h.scheduler.Pending(it.ID))
	assert.Equal(t, controller.Form{Title: "Buy bread", Body: "white"}, h.ctrl.Form())
}

// TestCancelEdit тестирует отмену изменений в форме
func TestCancelEdit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	it, err := h.ctrl.Add(ctx, item.TypeNote, "Idea", "text", "")
	require.NoError(t, err)

	h.ctrl.CancelEdit(ctx)
	assert.Equal(t, controller.Form{}, h.ctrl.Form())

	h.ctrl.Select(ctx, it.ID)
	h.ctrl.SetForm(controller.Form{Title: "draft", Body: "draft"})
	h.ctrl.CancelEdit(ctx)

	assert.Equal(t, controller.Form{Title: "Idea", Body: "text"}, h.ctrl.Form())
	got, err := h.svc.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Idea", got.Title)
}

// TestMarkDone тестирует выполнение выбранной записи
func TestMarkDone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	done, err := h.ctrl.MarkDone(ctx)
	assert.NoError(t, err)
	assert.Nil(t, done)

	it, err := h.ctrl.Add(ctx, item.TypePlan, "Buy milk", "", "2026-05-01T11:00")
	require.NoError(t, err)
	h.ctrl.Select(ctx, it.ID)

	done, err = h.ctrl.MarkDone(ctx)
	require.NoError(t, err)
	assert.True(t, done.IsDone())
	assert.False(t, h.scheduler.Pending(it.ID))
	assert.Len(t, h.ctrl.Visible(ctx), 0)
}

// TestDelete тестирует удаление с подтверждением
func TestDelete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	deleted, err := h.ctrl.Delete(ctx)
	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, h.asked)

	it, err := h.ctrl.Add(ctx, item.TypeNote, "", "only body", "")
	require.NoError(t, err)
	h.ctrl.Select(ctx, it.ID)

	// отказ оставляет запись и выбор
	h.answer = false
	deleted, err = h.ctrl.Delete(ctx)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, []string{controller.UntitledLabel}, h.asked)
	assert.Equal(t, it.ID, h.ctrl.SelectedID())

	h.answer = true
	deleted, err = h.ctrl.Delete(ctx)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, h.ctrl.SelectedID())
	assert.False(t, h.ctrl.Editing())

	_, err = h.svc.GetItem(ctx, it.ID)
	assert.Error(t, err)
}

// TestDelete_NoConfirm тестирует удаление без функции подтверждения
func TestDelete_NoConfirm(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ctrl := controller.New(h.svc, nil, nil)

	it, err := ctrl.Add(ctx, item.TypeNote, "Idea", "", "")
	require.NoError(t, err)
	ctrl.Select(ctx, it.ID)

	deleted, err := ctrl.Delete(ctx)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// TestSetTab тестирует переключение вкладки и сброс выбора
func TestSetTab(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	assert.Equal(t, service.TabPlans, h.ctrl.Tab())

	it, err := h.ctrl.Add(ctx, item.TypeNote, "Idea", "", "")
	require.NoError(t, err)
	h.ctrl.Select(ctx, it.ID)

	h.ctrl.SetTab(service.TabNotes)
	assert.Equal(t, service.TabNotes, h.ctrl.Tab())
	assert.Empty(t, h.ctrl.SelectedID())
	assert.False(t, h.ctrl.Editing())
	assert.Equal(t, controller.Form{}, h.ctrl.Form())

	h.ctrl.SetQuery("IDE")
	assert.Equal(t, "IDE", h.ctrl.Query())
	require.Len(t, h.ctrl.Visible(ctx), 1)

	h.ctrl.SetQuery("nothing")
	assert.Empty(t, h.ctrl.Visible(ctx))
}

// TestRemindAtForm тестирует перевод времени в поле формы и обратно
func TestRemindAtForm(t *testing.T) {
	assert.Equal(t, "", controller.FormatRemindAt(nil, kyiv))

	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-01T11:30", controller.FormatRemindAt(&at, kyiv))

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{name: "пусто", in: ""},
		{name: "пробелы", in: "   "},
		{name: "неверный формат", in: "01.05.2026 11:30"},
		{name: "с секундами", in: "2026-05-01T11:30:00"},
		{name: "локальное время", in: " 2026-05-01T11:30 ", want: &at},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := controller.ParseRemindAt(tt.in, kyiv)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
