package worker

import (
	"context"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const DefaultTitleFallback = "Нагадування"
const DefaultBodyFallback = "Пора зробити це 🙂"

// сколько символов текста попадает в уведомление
const bodyPreviewLen = 120

type Notifier interface {
	Show(ctx context.Context, title, body string) error
}

type reminder struct {
	timer *clock.Timer
	at    time.Time
}

// ReminderScheduler держит по одному таймеру на запись. Таймеры живут только
// пока жив процесс: после перезапуска их восстанавливает RescheduleAll.
type ReminderScheduler struct {
	clock    clock.Clock
	notifier Notifier

	titleFallback string
	bodyFallback  string

	mtx    sync.Mutex
	timers map[string]*reminder
}

func NewReminderScheduler(clk clock.Clock, notifier Notifier, titleFallback, bodyFallback *string) *ReminderScheduler {
	if clk == nil {
		clk = clock.New()
	}

	titleToSet := DefaultTitleFallback
	if titleFallback != nil {
		titleToSet = *titleFallback
	}

	bodyToSet := DefaultBodyFallback
	if bodyFallback != nil {
		bodyToSet = *bodyFallback
	}

	return &ReminderScheduler{
		clock:         clk,
		notifier:      notifier,
		titleFallback: titleToSet,
		bodyFallback:  bodyToSet,
		timers:        make(map[string]*reminder),
	}
}

// Schedule снимает прежний таймер записи и ставит новый, если напоминание
// задано, запись активна и время строго в будущем. Возвращает true, если таймер поставлен.
func (s *ReminderScheduler) Schedule(it *item.Item) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cancel(it.ID)

	if it.RemindAt == nil || it.IsDone() {
		return false
	}

	delay := it.RemindAt.Sub(s.clock.Now())
	if delay <= 0 {
		return false
	}

	title, body := s.content(it)
	r := &reminder{at: *it.RemindAt}
	// колбэк возьмёт mtx только после того, как таймер записан в r
	r.timer = s.clock.AfterFunc(delay, func() {
		s.fire(it.ID, r, title, body)
	})
	s.timers[it.ID] = r

	logger.Debug("Worker: Напоминание запланировано",
		zap.String("item_id", it.ID),
		zap.Time("remind_at", r.at),
		zap.Duration("delay", delay))
	return true
}

func (s *ReminderScheduler) content(it *item.Item) (string, string) {
	title := it.Title
	if title == "" {
		title = s.titleFallback
	}

	body := it.Body
	if runes := []rune(body); len(runes) > bodyPreviewLen {
		body = string(runes[:bodyPreviewLen])
	}
	if body == "" {
		body = s.bodyFallback
	}
	return title, body
}

func (s *ReminderScheduler) fire(id string, r *reminder, title, body string) {
	s.mtx.Lock()
	current, ok := s.timers[id]
	if !ok || current != r {
		// таймер успели отменить или заменить
		s.mtx.Unlock()
		return
	}
	delete(s.timers, id)
	s.mtx.Unlock()

	logger.Info("Worker: Срабатывание напоминания", zap.String("item_id", id), zap.Time("remind_at", r.at))

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Show(context.Background(), title, body); err != nil {
		logger.Warn("Worker: Ошибка показа уведомления", zap.String("item_id", id), zap.Error(err))
	}
}

func (s *ReminderScheduler) Cancel(id string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cancel(id)
}

// cancel вызывается под блокировкой
func (s *ReminderScheduler) cancel(id string) {
	r, ok := s.timers[id]
	if !ok {
		return
	}
	r.timer.Stop()
	delete(s.timers, id)
}

func (s *ReminderScheduler) CancelAll() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for id := range s.timers {
		s.cancel(id)
	}
}

// RescheduleAll нужен после загрузки и импорта: таймеры не переживают перезапуск
func (s *ReminderScheduler) RescheduleAll(items []*item.Item) int {
	start := s.clock.Now()

	scheduled := 0
	for _, it := range items {
		if s.Schedule(it) {
			scheduled++
		}
	}

	logger.Info("Worker: Напоминания пересчитаны",
		zap.Int("checked", len(items)),
		zap.Int("scheduled", scheduled),
		zap.Duration("ms", s.clock.Since(start)))
	return scheduled
}

func (s *ReminderScheduler) Pending(id string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	_, ok := s.timers[id]
	return ok
}

func (s *ReminderScheduler) PendingCount() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.timers)
}
