package item

import (
	"time"
)

// Option - функция изменения записи, передаётся в Update хранилища
type Option func(*Item)

func WithTitle(title string) Option {
	return func(it *Item) {
		it.Title = title
	}
}

func WithBody(body string) Option {
	return func(it *Item) {
		it.Body = body
	}
}

// nil снимает напоминание
func WithRemindAt(remindAt *time.Time) Option {
	return func(it *Item) {
		if remindAt == nil {
			it.RemindAt = nil
			return
		}
		r := Timestamp(*remindAt)
		it.RemindAt = &r
	}
}

// обратного перехода done -> active нет
func MarkDone() Option {
	return func(it *Item) {
		it.Status = StatusDone
	}
}

func Touch(now time.Time) Option {
	return func(it *Item) {
		t := Timestamp(now)
		it.UpdatedAt = &t
	}
}
