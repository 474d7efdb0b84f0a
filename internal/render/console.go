// Package render draws the dashboard for a terminal and exports it as Markdown, PDF, or YAML.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/dashboard"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

const timeLayout = "Jan 2 15:04"

// Console prints the dashboard as text. It also highlights the source of a fired reminder.
type Console struct {
	mu     sync.Mutex
	writer io.Writer
	last   *dashboard.View

	title     *color.Color
	heading   *color.Color
	muted     *color.Color
	due       *color.Color
	errorText *color.Color
	highlight *color.Color
}

func NewConsole(writer io.Writer) *Console {
	return &Console{
		writer:    writer,
		title:     color.New(color.FgHiWhite, color.Bold, color.Underline),
		heading:   color.New(color.FgCyan, color.Bold),
		muted:     color.New(color.FgHiBlack),
		due:       color.New(color.FgYellow),
		errorText: color.New(color.FgRed),
		highlight: color.New(color.BgYellow, color.FgBlack, color.Bold),
	}
}

func (c *Console) Render(view dashboard.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last = &view
	var sb strings.Builder
	c.write(&sb, view)
	if _, err := io.WriteString(c.writer, sb.String()); err != nil {
		return fmt.Errorf("io.WriteString > %w", err)
	}
	return nil
}

func (c *Console) write(sb *strings.Builder, view dashboard.View) {
	doc := view.Document
	if doc == nil {
		return
	}

	title := doc.Title
	switch {
	case doc.Icon != "":
		title = doc.Icon + " " + title
	case doc.IconImage != "":
		title = "🖼 " + title
	}
	sb.WriteString(c.title.Sprint(title))
	if view.Editing {
		sb.WriteString(c.muted.Sprint("  (editing)"))
	}
	sb.WriteString("\n\n")

	card := doc.RemindersCard
	cardShown := false
	for i, group := range doc.Groups {
		if card != nil && card.Enabled && i == doc.RemindersPos {
			c.writeCard(sb, view)
			cardShown = true
		}
		c.writeGroup(sb, group, view.Editing)
	}
	if card != nil && card.Enabled && !cardShown {
		c.writeCard(sb, view)
	}
}

func (c *Console) writeGroup(sb *strings.Builder, group board.Group, editing bool) {
	dims := group.Dims()
	size := fmt.Sprintf("%s/%s", dims.WSize, dims.HSize)

	switch g := group.(type) {
	case *board.LinkGroup:
		fmt.Fprintf(sb, "%s %s\n", c.heading.Sprintf("[%s]", g.Name), c.muted.Sprint(size+c.id(g.ID, editing)))
		if len(g.Items) == 0 {
			sb.WriteString(c.muted.Sprint("  (empty)") + "\n")
		}
		for _, item := range g.Items {
			line := fmt.Sprintf("  • %s", itemLabel(item))
			if item.URL != "" && item.URL != item.Title {
				line += "  " + c.muted.Sprint(item.URL)
			}
			if item.ReminderAt != nil {
				line += "  " + c.due.Sprint("⏰ "+formatTime(*item.ReminderAt))
			}
			sb.WriteString(line + c.muted.Sprint(c.id(item.ID, editing)) + "\n")
			if item.Note != "" {
				sb.WriteString("    " + c.muted.Sprint(item.Note) + "\n")
			}
		}
	case *board.Note:
		fmt.Fprintf(sb, "%s %s\n", c.heading.Sprintf("[Note: %s]", g.Title), c.muted.Sprint(size+c.id(g.ID, editing)))
		for _, line := range strings.Split(g.Text, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	case *board.Chart:
		fmt.Fprintf(sb, "%s %s\n", c.heading.Sprintf("[Chart: %s]", g.Name), c.muted.Sprint(size+c.id(g.ID, editing)))
		sb.WriteString("  " + g.URL + "\n")
	}
	sb.WriteString("\n")
}

func (c *Console) writeCard(sb *strings.Builder, view dashboard.View) {
	card := view.Document.RemindersCard
	sb.WriteString(c.heading.Sprintf("[%s]", card.Title) + "\n")
	if len(view.Reminders) == 0 {
		sb.WriteString(c.muted.Sprint("  no reminders") + "\n")
	}
	for _, ref := range view.Reminders {
		fmt.Fprintf(sb, "  %s  %s %s\n", c.due.Sprint(formatTime(ref.At)), ref.Title, c.muted.Sprint(ref.Key))
	}
	if card.ShowQuick {
		sb.WriteString(c.muted.Sprint("  quick: 5 · 10 · 15 · 30 min") + "\n")
	}
	c.writeForm(sb, view.Form)
	sb.WriteString("\n")
}

func (c *Console) writeForm(sb *strings.Builder, form reminder.FormState) {
	if !form.Open() {
		return
	}
	label := "new reminder"
	if form.EditingID != "" {
		label = "editing " + form.EditingID
	}
	sb.WriteString("  " + c.muted.Sprintf("(%s)", label) + "\n")
	if form.Values != nil {
		fmt.Fprintf(sb, "  title=%q mode=%s minutes=%s at=%s\n", form.Values.Title, form.Values.Mode, form.Values.Minutes, form.Values.At)
	}
	if form.Error != "" {
		sb.WriteString("  " + c.errorText.Sprint(form.Error) + "\n")
	}
}

func (c *Console) id(id board.ID, editing bool) string {
	if !editing {
		return ""
	}
	return " #" + string(id)
}

// Highlight prints the item or reminder named by data, as last rendered. It reports false when
// nothing matching was rendered yet.
func (c *Console) Highlight(data map[string]string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil || c.last.Document == nil {
		return false
	}
	label, ok := c.find(data)
	if !ok {
		return false
	}
	_, _ = fmt.Fprintln(c.writer, c.highlight.Sprintf(" ▶ %s ", label))
	return true
}

func (c *Console) find(data map[string]string) (string, bool) {
	doc := c.last.Document
	if id := data["item"]; id != "" {
		group, item, err := doc.FindItem(board.ID(id))
		if err != nil {
			return "", false
		}
		return group.Name + " › " + itemLabel(*item), true
	}
	if key := data["key"]; key != "" {
		for _, ref := range c.last.Reminders {
			if ref.Key == key {
				return ref.Title, true
			}
		}
	}
	return "", false
}

func itemLabel(item board.Item) string {
	if item.Icon != "" {
		return item.Icon + " " + item.Title
	}
	return item.Title
}

func formatTime(ms int64) string {
	return clock.FromMillis(ms).In(clock.Location).Format(timeLayout)
}

var (
	_ dashboard.Renderer   = (*Console)(nil)
	_ reminder.Highlighter = (*Console)(nil)
)
