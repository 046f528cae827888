package dto

import (
	"myNotebook/internal/models/item"
	"time"
)

type CreateItemRequest struct {
	Type     string     `json:"type"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	RemindAt *time.Time `json:"remindAt,omitempty"`
}

// UpdateItemRequest - отсутствующие поля не меняются; clearRemindAt снимает напоминание
type UpdateItemRequest struct {
	Title         *string    `json:"title,omitempty"`
	Body          *string    `json:"body,omitempty"`
	RemindAt      *time.Time `json:"remindAt,omitempty"`
	ClearRemindAt bool       `json:"clearRemindAt,omitempty"`
}

type ItemResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	RemindAt    *time.Time `json:"remindAt,omitempty"`
	HasReminder bool       `json:"hasReminder"`
}

func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Type:        string(it.Type),
		Status:      string(it.Status),
		Title:       it.Title,
		Body:        it.Body,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		RemindAt:    it.RemindAt,
		HasReminder: it.RemindAt != nil && !it.IsDone(),
	}
}

func FromItemList(items []*item.Item) []ItemResponse {
	result := make([]ItemResponse, len(items))
	for i, it := range items {
		result[i] = FromItem(it)
	}
	return result
}
