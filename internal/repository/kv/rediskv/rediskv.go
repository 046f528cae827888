package rediskv

import (
	"context"
	"errors"
	"fmt"
	"myNotebook/internal/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

type Storage struct {
	client *redis.Client
}

func New(ctx context.Context, redisURL string) (*Storage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("разбор адреса redis: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное подключение к Redis")
	return &Storage{client: client}, nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("чтение ключа: %w", err)
	}
	return val, true, nil
}

// без срока жизни: это основное хранилище, а не кэш
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("запись ключа: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	logger.Info("Repository: Закрытие соединения Redis")
	return s.client.Close()
}
