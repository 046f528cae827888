package service

import (
	"context"
	"fmt"
	"io"
	"myNotebook/internal/backup"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// минимальная длина префикса id, который принимает ResolveID
const MinIDPrefix = 4

// NotebookService связывает хранилище и планировщик напоминаний:
// изменение -> сохранение -> пересинхронизация таймера записи.
type NotebookService struct {
	repo      ItemRepository
	reminders ReminderScheduler
	clock     clock.Clock
}

func NewNotebookService(repo ItemRepository, reminders ReminderScheduler, clk clock.Clock) *NotebookService {
	if clk == nil {
		clk = clock.New()
	}
	return &NotebookService{
		repo:      repo,
		reminders: reminders,
		clock:     clk,
	}
}

// Start загружает коллекцию и заново ставит таймеры
func (s *NotebookService) Start(ctx context.Context) int {
	s.repo.Load(ctx)
	return s.reminders.RescheduleAll(s.repo.All())
}

// Resync перечитывает коллекцию из хранилища и заново ставит все таймеры.
// Так фоновый процесс видит записи, добавленные, выполненные или удалённые
// другими процессами. Если прочитать не удалось, таймеры пересчитываются по текущей коллекции.
func (s *NotebookService) Resync(ctx context.Context) int {
	if err := s.repo.Reload(ctx); err != nil {
		logger.Warn("Service: Не удалось перечитать записи", zap.Error(err))
	}

	s.reminders.CancelAll()
	return s.reminders.RescheduleAll(s.repo.All())
}

func (s *NotebookService) CreateItem(ctx context.Context, typ item.Type, title, body string, remindAt *time.Time) (*item.Item, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	if !typ.Valid() {
		return nil, NewValidationError("type", "допустимы plans или notes")
	}
	if title == "" && body == "" {
		return nil, NewValidationError("title", "нужен заголовок или текст")
	}

	it := item.New(typ, title, body, remindAt, s.clock.Now())

	err := s.repo.Add(ctx, it)
	s.reminders.Schedule(it)
	if err != nil {
		return it, fmt.Errorf("добавление записи: %w", err)
	}

	logger.Info("Service: Запись создана", zap.String("item_id", it.ID), zap.String("type", string(it.Type)))
	return it, nil
}

func (s *NotebookService) GetItem(ctx context.Context, id string) (*item.Item, error) {
	it, ok := s.repo.GetByID(id)
	if !ok {
		logger.Info("Service: Запись не найдена", zap.String("target_id", id))
		return nil, NewNotFound("запись", id)
	}
	return it, nil
}

func (s *NotebookService) ListItems(ctx context.Context) []*item.Item {
	return s.repo.All()
}

func (s *NotebookService) VisibleItems(ctx context.Context, tab Tab, query string) []*item.Item {
	return Visible(s.repo.All(), tab, query)
}

// EditItem записывает обрезанные заголовок и текст, новое время напоминания
// (nil снимает его), обновляет updatedAt и переставляет таймер.
func (s *NotebookService) EditItem(ctx context.Context, id, title, body string, remindAt *time.Time) (*item.Item, error) {
	updated, err := s.repo.Update(ctx, id,
		item.WithTitle(strings.TrimSpace(title)),
		item.WithBody(strings.TrimSpace(body)),
		item.WithRemindAt(remindAt),
		item.Touch(s.clock.Now()),
	)
	if updated == nil && err == nil {
		return nil, NewNotFound("запись", id)
	}
	if updated != nil {
		s.reminders.Schedule(updated)
	}
	if err != nil {
		return updated, fmt.Errorf("обновление записи: %w", err)
	}
	return updated, nil
}

func (s *NotebookService) MarkDone(ctx context.Context, id string) (*item.Item, error) {
	updated, err := s.repo.Update(ctx, id, item.MarkDone(), item.Touch(s.clock.Now()))
	if updated == nil && err == nil {
		return nil, NewNotFound("запись", id)
	}
	s.reminders.Cancel(id)
	if err != nil {
		return updated, fmt.Errorf("завершение записи: %w", err)
	}

	logger.Info("Service: Запись выполнена", zap.String("item_id", id))
	return updated, nil
}

func (s *NotebookService) DeleteItem(ctx context.Context, id string) error {
	s.reminders.Cancel(id)

	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("удаление записи: %w", err)
	}
	if !removed {
		return NewNotFound("запись", id)
	}

	logger.Info("Service: Запись удалена", zap.String("item_id", id))
	return nil
}

// ResolveID находит запись по полному id или однозначному префиксу
func (s *NotebookService) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if _, ok := s.repo.GetByID(prefix); ok {
		return prefix, nil
	}
	if len(prefix) < MinIDPrefix {
		return "", NewValidationError("id", fmt.Sprintf("нужно не меньше %d символов", MinIDPrefix))
	}

	var found []string
	for _, it := range s.repo.All() {
		if strings.HasPrefix(it.ID, prefix) {
			found = append(found, it.ID)
		}
	}

	switch len(found) {
	case 0:
		return "", NewNotFound("запись", prefix)
	case 1:
		return found[0], nil
	}
	return "", NewBusinessError(CodeValidation, "префикс id неоднозначен",
		ToDetail("id", prefix),
		ToDetail("matches", found))
}

func (s *NotebookService) Export(ctx context.Context, w io.Writer) error {
	return backup.Encode(w, s.repo.All())
}

// Import заменяет коллекцию целиком. При ошибке разбора коллекция не меняется.
func (s *NotebookService) Import(ctx context.Context, r io.Reader) (int, error) {
	items, err := backup.Decode(r)
	if err != nil {
		logger.Warn("Service: Импорт отклонён", zap.Error(err))
		return 0, NewImportError(err)
	}

	s.reminders.CancelAll()
	err = s.repo.Replace(ctx, items)
	s.reminders.RescheduleAll(s.repo.All())
	if err != nil {
		return len(items), fmt.Errorf("импорт: %w", err)
	}

	logger.Info("Service: Импорт выполнен", zap.Int("count", len(items)))
	return len(items), nil
}
