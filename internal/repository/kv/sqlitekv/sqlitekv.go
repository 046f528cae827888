package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"myNotebook/internal/logger"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type Storage struct {
	conn *sql.DB
}

func New(ctx context.Context, dbPath string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("открытие базы: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	s := &Storage{conn: conn}
	if err := s.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("Repository: SQLite хранилище открыто", zap.String("path", dbPath))
	return s, nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("создание схемы: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("чтение ключа: %w", err)
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("запись ключа: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	logger.Info("Repository: Закрытие SQLite хранилища")
	return s.conn.Close()
}
