package memkv

import (
	"context"
	"sync"
)

// Storage держит значения только в памяти процесса
type Storage struct {
	data map[string]string
	mtx  *sync.RWMutex
}

func New() *Storage {
	return &Storage{
		data: make(map[string]string),
		mtx:  &sync.RWMutex{},
	}
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.data[key] = value
	return nil
}

func (s *Storage) Close() error {
	return nil
}
