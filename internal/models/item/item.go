package item

import (
	"time"

	"github.com/google/uuid"
)

// Item - единственная сущность записной книжки: план или заметка.
type Item struct {
	ID        string     `json:"id" validate:"required"`
	Type      Type       `json:"type" validate:"required,oneof=plans notes"`
	Status    Status     `json:"status" validate:"required,oneof=active done"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt" validate:"required"`
	UpdatedAt *time.Time `json:"updatedAt"`
	RemindAt  *time.Time `json:"remindAt"`
}

type Type string
type Status string

// значения типа совпадают с названиями вкладок
const TypePlan Type = "plans"
const TypeNote Type = "notes"

const StatusActive Status = "active"
const StatusDone Status = "done"

func (t Type) Valid() bool {
	return t == TypePlan || t == TypeNote
}

// Timestamp приводит время к виду, в котором оно хранится: UTC с точностью до миллисекунд
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func New(typ Type, title, body string, remindAt *time.Time, now time.Time) *Item {
	it := &Item{
		ID:        uuid.NewString(),
		Type:      typ,
		Status:    StatusActive,
		Title:     title,
		Body:      body,
		CreatedAt: Timestamp(now),
	}
	if remindAt != nil {
		r := Timestamp(*remindAt)
		it.RemindAt = &r
	}
	return it
}

func (i *Item) IsDone() bool {
	return i.Status == StatusDone
}

// Touched - время последнего изменения, по нему сортируется список
func (i *Item) Touched() time.Time {
	if i.UpdatedAt != nil {
		return *i.UpdatedAt
	}
	return i.CreatedAt
}

func (i *Item) Clone() *Item {
	c := *i
	if i.UpdatedAt != nil {
		u := *i.UpdatedAt
		c.UpdatedAt = &u
	}
	if i.RemindAt != nil {
		r := *i.RemindAt
		c.RemindAt = &r
	}
	return &c
}
