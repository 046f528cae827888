package filekv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage хранит каждый ключ отдельным файлом <dir>/<key>.json.
// Запись идёт через временный файл и rename, чтобы не оставить полупустой файл.
type Storage struct {
	dir string
}

func New(dir string) (*Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("пустой путь к каталогу данных")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("создание каталога данных: %w", err)
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("чтение файла: %w", err)
	}
	return string(b), true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("создание временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("запись файла: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("закрытие файла: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("замена файла: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}
