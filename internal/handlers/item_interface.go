package handlers

import (
	"context"
	"io"
	"myNotebook/internal/models/item"
	"myNotebook/internal/service"
	"time"
)

type NotebookService interface {
	CreateItem(ctx context.Context, typ item.Type, title, body string, remindAt *time.Time) (*item.Item, error)
	GetItem(ctx context.Context, id string) (*item.Item, error)
	VisibleItems(ctx context.Context, tab service.Tab, query string) []*item.Item
	EditItem(ctx context.Context, id, title, body string, remindAt *time.Time) (*item.Item, error)
	MarkDone(ctx context.Context, id string) (*item.Item, error)
	DeleteItem(ctx context.Context, id string) error
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (int, error)
}
