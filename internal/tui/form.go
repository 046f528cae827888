package tui

import (
	"myNotebook/internal/controller"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldBody
	fieldRemind
	fieldCount
)

// formFields - поля ввода для добавления и редактирования
type formFields struct {
	title  textinput.Model
	body   textarea.Model
	remind textinput.Model
	focus  int
}

func newFormFields() formFields {
	title := textinput.New()
	title.Prompt = "Заголовок: "
	title.Placeholder = "Що треба зробити?"
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "Текст"
	body.ShowLineNumbers = false
	body.SetHeight(4)

	remind := textinput.New()
	remind.Prompt = "Нагадати: "
	remind.Placeholder = controller.FormLayout
	remind.CharLimit = len(controller.FormLayout)

	return formFields{title: title, body: body, remind: remind}
}

func (f *formFields) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.title.Width = w - len(f.title.Prompt)
	f.body.SetWidth(w)
	f.remind.Width = w - len(f.remind.Prompt)
}

func (f *formFields) setForm(form controller.Form) {
	f.title.SetValue(form.Title)
	f.title.CursorEnd()
	f.body.SetValue(form.Body)
	f.remind.SetValue(form.RemindAt)
}

func (f *formFields) form() controller.Form {
	return controller.Form{
		Title:    f.title.Value(),
		Body:     f.body.Value(),
		RemindAt: f.remind.Value(),
	}
}

func (f *formFields) reset() {
	f.setForm(controller.Form{})
	f.focus = fieldTitle
}

func (f *formFields) focusField(i int) tea.Cmd {
	f.focus = i % fieldCount
	f.title.Blur()
	f.body.Blur()
	f.remind.Blur()

	switch f.focus {
	case fieldBody:
		return f.body.Focus()
	case fieldRemind:
		return f.remind.Focus()
	}
	return f.title.Focus()
}

func (f *formFields) blur() {
	f.title.Blur()
	f.body.Blur()
	f.remind.Blur()
}

func (f *formFields) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldBody:
		f.body, cmd = f.body.Update(msg)
	case fieldRemind:
		f.remind, cmd = f.remind.Update(msg)
	default:
		f.title, cmd = f.title.Update(msg)
	}
	return cmd
}

func (f formFields) view() string {
	return f.title.View() + "\n" + f.body.View() + "\n" + f.remind.View()
}
