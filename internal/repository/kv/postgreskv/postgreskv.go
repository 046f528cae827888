package postgreskv

import (
	"context"
	"errors"
	"fmt"
	"myNotebook/internal/logger"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return s, nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS notebook_kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		logger.Error("Repository: Не удалось создать таблицу", err)
		return fmt.Errorf("создание схемы: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()

	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM notebook_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		logger.Error("Repository: Не удалось прочитать ключ", err, zap.Duration("ms", time.Since(start)))
		return "", false, fmt.Errorf("чтение ключа: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	start := time.Now()

	query := `INSERT INTO notebook_kv (key, value, updated_at)
				VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE
				SET value = EXCLUDED.value,
				updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		logger.Error("Repository: Не удалось записать ключ", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("запись ключа: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
	return nil
}
