// Package controller хранит состояние выбора и формы редактирования.
package controller

import (
	"context"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"myNotebook/internal/service"
	"time"

	"go.uber.org/zap"
)

type Notebook interface {
	CreateItem(ctx context.Context, typ item.Type, title, body string, remindAt *time.Time) (*item.Item, error)
	GetItem(ctx context.Context, id string) (*item.Item, error)
	VisibleItems(ctx context.Context, tab service.Tab, query string) []*item.Item
	EditItem(ctx context.Context, id, title, body string, remindAt *time.Time) (*item.Item, error)
	MarkDone(ctx context.Context, id string) (*item.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// Confirm спрашивает пользователя перед удалением
type Confirm func(title string) bool

// UntitledLabel показывается вместо пустого заголовка
const UntitledLabel = "(без назви)"

type Controller struct {
	notebook Notebook
	confirm  Confirm
	loc      *time.Location

	tab        service.Tab
	query      string
	selectedID string
	editing    bool
	form       Form
}

func New(notebook Notebook, confirm Confirm, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		notebook: notebook,
		confirm:  confirm,
		loc:      loc,
		tab:      service.TabPlans,
	}
}

func (c *Controller) Tab() service.Tab { return c.tab }
func (c *Controller) Query() string { return c.query }
func (c *Controller) SelectedID() string { return c.selectedID }
func (c *Controller) Editing() bool { return c.editing }
func (c *Controller) Form() Form { return c.form }

// SetForm принимает ввод пользователя в поля формы
func (c *Controller) SetForm(f Form) {
	if !c.editing {
		return
	}
	c.form = f
}

// SetTab сбрасывает выбор и выключает редактирование
func (c *Controller) SetTab(tab service.Tab) {
	c.tab = tab
	c.clearSelection()
}

func (c *Controller) SetQuery(q string) {
	c.query = q
}

func (c *Controller) Visible(ctx context.Context) []*item.Item {
	return c.notebook.VisibleItems(ctx, c.tab, c.query)
}

func (c *Controller) Selected(ctx context.Context) (*item.Item, bool) {
	if c.selectedID == "" {
		return nil, false
	}
	it, err := c.notebook.GetItem(ctx, c.selectedID)
	if err != nil {
		return nil, false
	}
	return it, true
}

// Add - форма добавления. remindAt - значение поля формы.
func (c *Controller) Add(ctx context.Context, typ item.Type, title, body, remindAt string) (*item.Item, error) {
	return c.notebook.CreateItem(ctx, typ, title, body, ParseRemindAt(remindAt, c.loc))
}

// Select выбирает запись и заполняет форму. Неизвестный id игнорируется.
func (c *Controller) Select(ctx context.Context, id string) {
	it, err := c.notebook.GetItem(ctx, id)
	if err != nil {
		return
	}
	c.selectedID = it.ID
	c.fillForm(it)
	c.editing = true
}

func (c *Controller) fillForm(it *item.Item) {
	c.form = Form{
		Title:    it.Title,
		Body:     it.Body,
		RemindAt: FormatRemindAt(it.RemindAt, c.loc),
	}
}

// SaveEdit без выбранной записи ничего не делает
func (c *Controller) SaveEdit(ctx context.Context) (*item.Item, error) {
	if c.selectedID == "" {
		return nil, nil
	}
	updated, err := c.notebook.EditItem(ctx, c.selectedID, c.form.Title, c.form.Body, ParseRemindAt(c.form.RemindAt, c.loc))
	if updated != nil {
		c.fillForm(updated)
	}
	return updated, err
}

// CancelEdit возвращает форму к сохранённому состоянию записи
func (c *Controller) CancelEdit(ctx context.Context) {
	it, ok := c.Selected(ctx)
	if !ok {
		return
	}
	c.fillForm(it)
}

func (c *Controller) MarkDone(ctx context.Context) (*item.Item, error) {
	if c.selectedID == "" {
		return nil, nil
	}
	return c.notebook.MarkDone(ctx, c.selectedID)
}

// Delete требует выбранную запись и подтверждение. Возвращает true, если запись удалена.
func (c *Controller) Delete(ctx context.Context) (bool, error) {
	it, ok := c.Selected(ctx)
	if !ok {
		return false, nil
	}

	title := it.Title
	if title == "" {
		title = UntitledLabel
	}
	if c.confirm == nil || !c.confirm(title) {
		logger.Debug("Controller: Удаление отменено", zap.String("item_id", it.ID))
		return false, nil
	}

	if err := c.notebook.DeleteItem(ctx, it.ID); err != nil {
		return false, err
	}
	c.clearSelection()
	return true, nil
}

func (c *Controller) clearSelection() {
	c.selectedID = ""
	c.editing = false
	c.form = Form{}
}
