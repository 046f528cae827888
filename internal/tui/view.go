package tui

import (
	"fmt"
	"myNotebook/internal/controller"
	"myNotebook/internal/models/item"
	"myNotebook/internal/service"
	"strings"
	"time"
)

// длина превью текста в списке
const previewLen = 140

// формат даты в списке, как в украинской локали
const listDateLayout = "02.01.2006, 15:04"

var tabLabels = map[service.Tab]string{
	service.TabPlans: "Плани",
	service.TabNotes: "Нотатки",
	service.TabDone:  "Виконано",
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Мій записник"))
	b.WriteString("   ")
	b.WriteString(m.tabsView())
	b.WriteString("\n")

	if m.mode == modeSearch || m.ctrl.Query() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if m.banner != "" {
		b.WriteString(bannerStyle.Render(m.banner))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(formStyle.Render(m.formHeader() + "\n" + m.fields.view()))
	case modeEdit:
		b.WriteString(formStyle.Render(m.formHeader() + "\n" + m.fields.view()))
	default:
		b.WriteString(m.listView())
	}
	b.WriteString("\n")

	switch m.mode {
	case modeConfirmDelete:
		b.WriteString(pendingStyle.Render(fmt.Sprintf("Видалити %q? (y/n)", m.deleteTitle)))
		b.WriteString("\n")
	case modeImport:
		b.WriteString(m.path.View())
		b.WriteString("\n")
	case modePermission:
		b.WriteString(pendingStyle.Render("Дозволити сповіщення? (y/n)"))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render("✖ " + m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString(m.help.ShortHelpView(m.keys.formHelp(m.mode == modeAdd)))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.listHelp()))
	}

	return panelStyle.Render(b.String())
}

func (m Model) tabsView() string {
	parts := make([]string, 0, len(service.Tabs))
	for i, tab := range service.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabLabels[tab])
		if tab == m.ctrl.Tab() {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) formHeader() string {
	if m.mode == modeAdd {
		return titleStyle.Render("Новий запис") + "  " + accentStyle.Render(typeLabel(m.addType))
	}
	return titleStyle.Render("Редагування")
}

func (m Model) listView() string {
	if len(m.items) == 0 {
		return "Поки тут пусто ✨\n" + mutedStyle.Render("Додай перший запис: a")
	}

	lines := make([]string, 0, len(m.items))
	for i, it := range m.items {
		lines = append(lines, RenderEntry(it, i == m.cursor, it.ID == m.ctrl.SelectedID(), m.opts.Location))
	}
	return strings.Join(lines, "\n")
}

// RenderEntry - одна запись списка: заголовок со значками, превью текста и строка с типом и временем
func RenderEntry(it *item.Item, cursor, selected bool, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	title := displayTitle(it)
	if it.IsDone() {
		title = doneStyle.Render(title)
	} else if selected {
		title = accentStyle.Render(title)
	}

	var badges []string
	if it.RemindAt != nil && !it.IsDone() {
		badges = append(badges, pendingStyle.Render("🔔 "+it.RemindAt.In(loc).Format(listDateLayout)))
	}
	if it.IsDone() {
		badges = append(badges, successStyle.Render("✅ Done"))
	}

	prefix := "  "
	if cursor {
		prefix = selectedStyle.Render("> ")
	}

	head := prefix + title
	if len(badges) > 0 {
		head += "  " + strings.Join(badges, " ")
	}

	lines := []string{head}
	if preview := Preview(it.Body); preview != "" {
		lines = append(lines, "    "+preview)
	}
	meta := typeLabel(it.Type) + " • " + it.Touched().In(loc).Format(listDateLayout)
	lines = append(lines, "    "+mutedStyle.Render(meta))
	return strings.Join(lines, "\n")
}

// Preview обрезает текст до 140 символов и добавляет многоточие
func Preview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) <= previewLen {
		return body
	}
	return string(runes[:previewLen]) + "…"
}

func displayTitle(it *item.Item) string {
	if it.Title == "" {
		return controller.UntitledLabel
	}
	return it.Title
}

func typeLabel(t item.Type) string {
	if t == item.TypePlan {
		return "План"
	}
	return "Нотатка"
}
