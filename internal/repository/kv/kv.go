// Package kv описывает хранилище ключ-значение, в котором лежит вся коллекция записей.
package kv

import "context"

// DefaultKey - ключ, под которым хранится JSON-массив записей
const DefaultKey = "my_notebook_v1"

// Store - внешний коллаборатор хранения. Get возвращает ok=false, если ключа нет.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
