package service

import (
	"context"
	"myNotebook/internal/models/item"
)

type ItemRepository interface {
	Load(context.Context)
	Reload(context.Context) error
	Add(context.Context, *item.Item) error
	Update(context.Context, string, ...item.Option) (*item.Item, error)
	Remove(context.Context, string) (bool, error)
	Replace(context.Context, []*item.Item) error
	GetByID(string) (*item.Item, bool)
	All() []*item.Item
}

type ReminderScheduler interface {
	Schedule(*item.Item) bool
	Cancel(string)
	CancelAll()
	RescheduleAll([]*item.Item) int
}
