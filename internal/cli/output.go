package cli

import (
	"fmt"
	"io"
	"myNotebook/internal/controller"
	"myNotebook/internal/models/item"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// сколько символов id показывать в списке
const shortIDLen = 8

const dateLayout = "2006-01-02 15:04"

func ok(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func titleOf(it *item.Item) string {
	if it.Title == "" {
		return controller.UntitledLabel
	}
	return it.Title
}

func listLine(it *item.Item, loc *time.Location) string {
	box := mutedStyle.Render(boxUnchecked)
	title := titleOf(it)
	if it.IsDone() {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}

	line := fmt.Sprintf("%s %s %s", mutedStyle.Render(shortID(it.ID)), box, title)
	if it.RemindAt != nil && !it.IsDone() {
		line += "  " + pendingStyle.Render("🔔 "+it.RemindAt.In(loc).Format(dateLayout))
	}
	return line
}

func details(it *item.Item, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(titleOf(it)))
	fmt.Fprintf(&b, "id:       %s\n", it.ID)
	fmt.Fprintf(&b, "type:     %s\n", it.Type)
	fmt.Fprintf(&b, "status:   %s\n", it.Status)
	fmt.Fprintf(&b, "created:  %s\n", it.CreatedAt.In(loc).Format(dateLayout))
	if it.UpdatedAt != nil {
		fmt.Fprintf(&b, "updated:  %s\n", it.UpdatedAt.In(loc).Format(dateLayout))
	}
	if it.RemindAt != nil {
		fmt.Fprintf(&b, "remind:   %s\n", it.RemindAt.In(loc).Format(dateLayout))
	}
	if it.Body != "" {
		fmt.Fprintf(&b, "\n%s\n", it.Body)
	}
	return b.String()
}
