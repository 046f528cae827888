package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"myNotebook/internal/backup"
	"myNotebook/internal/controller"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"myNotebook/internal/notify"
	"myNotebook/internal/service"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Notebook interface {
	controller.Notebook
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (int, error)
}

type Options struct {
	ExportDir string         // куда писать my-notebook-backup.json, пусто - текущий каталог
	Location  *time.Location // часовой пояс формы и списка

	// SavePermission сохраняет решение пользователя между запусками
	SavePermission func(notify.Permission) error
}

const emptyItemText = "Напиши хоча б заголовок або текст 🙂"

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeEdit
	modeConfirmDelete
	modeImport
	modePermission
)

type Model struct {
	ctx      context.Context
	notebook Notebook
	ctrl     *controller.Controller
	center   *notify.Center
	opts     Options
	keys     keyMap
	help     help.Model

	mode   mode
	items  []*item.Item
	cursor int

	addType item.Type
	fields  formFields
	search  textinput.Model
	path    textinput.Model

	confirmed    *bool // ответ на вопрос об удалении
	deleteTitle  string
	permissionCh chan<- bool

	banner string
	status string
	err    string
	width  int
}

func New(ctx context.Context, notebook Notebook, center *notify.Center, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}

	confirmed := new(bool)
	ctrl := controller.New(notebook, func(string) bool { return *confirmed }, opts.Location)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "пошук"

	path := textinput.New()
	path.Prompt = "Файл: "
	path.SetValue(filepath.Join(opts.ExportDir, backup.FileName))

	m := Model{
		ctx:       ctx,
		notebook:  notebook,
		ctrl:      ctrl,
		center:    center,
		opts:      opts,
		keys:      defaultKeys(),
		help:      help.New(),
		addType:   item.TypePlan,
		fields:    newFormFields(),
		search:    search,
		path:      path,
		confirmed: confirmed,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Controller открыт для тестов и команд, которым нужно состояние выбора
func (m Model) Controller() *controller.Controller { return m.ctrl }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.fields.setWidth(msg.Width - 6)
		return m, nil

	case reminderMsg:
		m.banner = fmt.Sprintf("🔔 %s\n%s", msg.notification.Title, msg.notification.Body)
		m.refresh()
		return m, nil

	case permissionAskMsg:
		m.permissionCh = msg.answer
		m.mode = modePermission
		return m, nil

	case permissionResultMsg:
		m.onPermission(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeImport:
			return m.updateImport(msg)
		case modePermission:
			return m.updatePermission(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.banner = ""
		m.status = ""
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Plans):
		m.setTab(service.TabPlans)
	case key.Matches(msg, m.keys.Notes):
		m.setTab(service.TabNotes)
	case key.Matches(msg, m.keys.Done):
		m.setTab(service.TabDone)
	case key.Matches(msg, m.keys.NextTab):
		m.setTab(nextTab(m.ctrl.Tab()))
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.addType = item.TypePlan
		if m.ctrl.Tab() == service.TabNotes {
			m.addType = item.TypeNote
		}
		m.fields.reset()
		return m, m.fields.focusField(fieldTitle)
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.current(); ok {
			m.ctrl.Select(m.ctx, it.ID)
			if m.ctrl.Editing() {
				m.mode = modeEdit
				m.fields.setForm(m.ctrl.Form())
				return m, m.fields.focusField(fieldTitle)
			}
		}
	case key.Matches(msg, m.keys.MarkDone):
		if it, ok := m.current(); ok {
			m.ctrl.Select(m.ctx, it.ID)
			if _, err := m.ctrl.MarkDone(m.ctx); err != nil {
				m.err = errorText(err)
			} else {
				m.status = "✅ Виконано"
			}
			m.refresh()
		}
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.current(); ok {
			m.ctrl.Select(m.ctx, it.ID)
			m.deleteTitle = displayTitle(it)
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Export):
		m.export()
	case key.Matches(msg, m.keys.Import):
		m.mode = modeImport
		return m, m.path.Focus()
	case key.Matches(msg, m.keys.Notify):
		return m, m.requestPermission()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.SetQuery("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetQuery(m.search.Value())
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			m.ctrl.CancelEdit(m.ctx)
		}
		m.fields.blur()
		m.mode = modeList
		m.err = ""
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.fields.focusField(m.fields.focus + 1)
	case m.mode == modeAdd && key.Matches(msg, m.keys.ToggleTy):
		if m.addType == item.TypePlan {
			m.addType = item.TypeNote
		} else {
			m.addType = item.TypePlan
		}
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.save()
		return m, nil
	}
	return m, m.fields.update(msg)
}

func (m *Model) save() {
	form := m.fields.form()

	if m.mode == modeAdd {
		if _, err := m.ctrl.Add(m.ctx, m.addType, form.Title, form.Body, form.RemindAt); err != nil {
			m.err = errorText(err)
			return
		}
		m.status = "Додано ✅"
		m.err = ""
		m.fields.blur()
		m.mode = modeList
		m.refresh()
		return
	}

	m.ctrl.SetForm(form)
	if _, err := m.ctrl.SaveEdit(m.ctx); err != nil {
		m.err = errorText(err)
	} else {
		m.status = "Збережено ✅"
		m.err = ""
	}
	m.fields.setForm(m.ctrl.Form())
	m.refresh()
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		*m.confirmed = true
	case "n", "N", "esc":
		*m.confirmed = false
	default:
		return m, nil
	}

	deleted, err := m.ctrl.Delete(m.ctx)
	*m.confirmed = false
	m.mode = modeList
	switch {
	case err != nil:
		m.err = errorText(err)
	case deleted:
		m.status = "Видалено"
	}
	m.refresh()
	return m, nil
}

func (m Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.path.Blur()
		return m, nil
	case "enter":
		m.mode = modeList
		m.path.Blur()
		m.importFrom(strings.TrimSpace(m.path.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m Model) updatePermission(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
	default:
		return m, nil
	}

	if m.permissionCh != nil {
		m.permissionCh <- answer
		m.permissionCh = nil
	}
	m.mode = modeList
	return m, nil
}

func (m Model) requestPermission() tea.Cmd {
	ctx, center := m.ctx, m.center
	return func() tea.Msg {
		p, err := center.RequestPermission(ctx)
		return permissionResultMsg{permission: p, err: err}
	}
}

func (m *Model) onPermission(msg permissionResultMsg) {
	switch {
	case errors.Is(msg.err, notify.ErrUnsupported):
		m.err = "Сповіщення не підтримуються."
	case msg.err != nil:
		m.err = msg.err.Error()
	case msg.permission == notify.PermissionGranted:
		m.status = "Сповіщення дозволені."
	case msg.permission == notify.PermissionDenied:
		m.err = "Сповіщення не дозволені. Увімкни їх у налаштуваннях."
	}

	if msg.err != nil || msg.permission == notify.PermissionDefault || m.opts.SavePermission == nil {
		return
	}
	if err := m.opts.SavePermission(msg.permission); err != nil {
		logger.Warn("TUI: Не удалось сохранить решение по уведомлениям", zap.Error(err))
		m.err = "Не вдалося зберегти рішення: " + err.Error()
	}
}

func (m *Model) export() {
	path := filepath.Join(m.opts.ExportDir, backup.FileName)

	file, err := os.Create(path)
	if err != nil {
		m.err = err.Error()
		return
	}
	defer file.Close()

	if err := m.notebook.Export(m.ctx, file); err != nil {
		logger.Error("TUI: Ошибка экспорта", err, zap.String("path", path))
		m.err = err.Error()
		return
	}
	m.status = "Експортовано: " + path
}

func (m *Model) importFrom(path string) {
	file, err := os.Open(path)
	if err != nil {
		m.err = "Не вдалося імпортувати. Перевір файл."
		logger.Warn("TUI: Файл импорта недоступен", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	count, err := m.notebook.Import(m.ctx, file)
	if err != nil {
		m.err = errorText(err)
		return
	}
	m.ctrl.SetTab(m.ctrl.Tab())
	m.cursor = 0
	m.refresh()
	m.status = fmt.Sprintf("Імпорт готовий ✅ (%d)", count)
}

func (m *Model) setTab(tab service.Tab) {
	m.ctrl.SetTab(tab)
	m.cursor = 0
	m.refresh()
}

func (m *Model) refresh() {
	m.items = m.ctrl.Visible(m.ctx)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) current() (*item.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil, false
	}
	return m.items[m.cursor], true
}

func nextTab(tab service.Tab) service.Tab {
	for i, t := range service.Tabs {
		if t == tab {
			return service.Tabs[(i+1)%len(service.Tabs)]
		}
	}
	return service.TabPlans
}

func errorText(err error) string {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		if businessErr.Code == service.CodeValidation && businessErr.Details["field"] == "title" {
			return emptyItemText
		}
		return businessErr.Message
	}
	return err.Error()
}
