package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down            key.Binding
	Plans, Notes, Done  key.Binding
	NextTab             key.Binding
	Search              key.Binding
	Add                 key.Binding
	Open                key.Binding
	MarkDone            key.Binding
	Delete              key.Binding
	Export, Import      key.Binding
	Notify              key.Binding
	Save, Cancel        key.Binding
	NextField, ToggleTy key.Binding
	Quit                key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "вгору")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "вниз")),
		Plans:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "плани")),
		Notes:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "нотатки")),
		Done:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "виконано")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "вкладка")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "пошук")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "додати")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "відкрити")),
		MarkDone:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "виконано")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "видалити")),
		Export:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "експорт")),
		Import:    key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "імпорт")),
		Notify:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "сповіщення")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "зберегти")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "скасувати")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "наступне поле")),
		ToggleTy:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "план/нотатка")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "вийти")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Search, k.Add, k.Open, k.MarkDone, k.Delete, k.Export, k.Import, k.Notify, k.Quit}
}

func (k keyMap) formHelp(adding bool) []key.Binding {
	if adding {
		return []key.Binding{k.NextField, k.ToggleTy, k.Save, k.Cancel}
	}
	return []key.Binding{k.NextField, k.Save, k.Cancel}
}
