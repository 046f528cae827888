package inmemory

import (
	"context"
	"encoding/json"
	"fmt"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"myNotebook/internal/repository/kv"
	"sync"

	"go.uber.org/zap"
)

// ItemStorage - упорядоченная коллекция записей в памяти.
// Любое изменение целиком сохраняет коллекцию в kv под одним ключом.
type ItemStorage struct {
	storage map[string]*item.Item
	mtx     *sync.RWMutex
	ids     []string

	kv  kv.Store
	key string
}

func NewItemStorage(store kv.Store, key string) *ItemStorage {
	if key == "" {
		key = kv.DefaultKey
	}
	return &ItemStorage{
		storage: make(map[string]*item.Item),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
		kv:      store,
		key:     key,
	}
}

// Load читает сохранённую коллекцию. Отсутствие данных, ошибка чтения или
// битый JSON дают пустую коллекцию; ошибка наверх не уходит.
func (s *ItemStorage) Load(ctx context.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.reset(nil)

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		logger.Warn("Repository: Не удалось прочитать сохранённые записи", zap.Error(err), zap.String("key", s.key))
		return
	}
	if !ok {
		logger.Info("Repository: Сохранённых записей нет", zap.String("key", s.key))
		return
	}

	var items []*item.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("Repository: Сохранённые записи повреждены", zap.Error(err), zap.String("key", s.key))
		return
	}

	s.reset(items)
	logger.Info("Repository: Записи загружены", zap.Int("count", len(s.ids)))
}

// Reload перечитывает коллекцию, которую могли изменить другие процессы.
// В отличие от Load при ошибке чтения или разбора текущее состояние остаётся.
func (s *ItemStorage) Reload(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("чтение записей: %w", err)
	}

	var items []*item.Item
	if ok {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("разбор записей: %w", err)
		}
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.reset(items)
	logger.Debug("Repository: Записи перечитаны", zap.Int("count", len(s.ids)))
	return nil
}

// reset вызывается под блокировкой
func (s *ItemStorage) reset(items []*item.Item) {
	s.storage = make(map[string]*item.Item, len(items))
	s.ids = make([]string, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := s.storage[it.ID]; dup {
			logger.Warn("Repository: Повторный id пропущен", zap.String("item_id", it.ID))
			continue
		}
		s.storage[it.ID] = it.Clone()
		s.ids = append(s.ids, it.ID)
	}
}

func (s *ItemStorage) Save(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.save(ctx)
}

// save вызывается под блокировкой
func (s *ItemStorage) save(ctx context.Context) error {
	items := make([]*item.Item, 0, len(s.ids))
	for _, id := range s.ids {
		items = append(items, s.storage[id])
	}

	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("сериализация записей: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		logger.Error("Repository: Не удалось сохранить записи", err, zap.Int("count", len(items)))
		return fmt.Errorf("сохранение записей: %w", err)
	}
	return nil
}

func (s *ItemStorage) Add(ctx context.Context, itemToAdd *item.Item) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[itemToAdd.ID]; ok {
		return fmt.Errorf("запись %s уже существует", itemToAdd.ID)
	}

	s.storage[itemToAdd.ID] = itemToAdd.Clone()
	s.ids = append(s.ids, itemToAdd.ID)

	return s.save(ctx)
}

// Update применяет опции к записи. Для неизвестного id ничего не делает и возвращает nil.
func (s *ItemStorage) Update(ctx context.Context, id string, options ...item.Option) (*item.Item, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	itemToUpdate, ok := s.storage[id]
	if !ok {
		return nil, nil
	}

	for _, opt := range options {
		if opt != nil {
			opt(itemToUpdate)
		}
	}

	if err := s.save(ctx); err != nil {
		return itemToUpdate.Clone(), err
	}
	return itemToUpdate.Clone(), nil
}

// Remove удаляет запись. Для неизвестного id возвращает false без ошибки.
func (s *ItemStorage) Remove(ctx context.Context, id string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}

	return true, s.save(ctx)
}

// Replace полностью заменяет коллекцию (импорт)
func (s *ItemStorage) Replace(ctx context.Context, items []*item.Item) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.reset(items)
	return s.save(ctx)
}

func (s *ItemStorage) GetByID(id string) (*item.Item, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	it, ok := s.storage[id]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

// All возвращает копии записей в порядке добавления
func (s *ItemStorage) All() []*item.Item {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*item.Item, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res
}

func (s *ItemStorage) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.ids)
}
