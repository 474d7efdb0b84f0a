package render

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/linkboard/internal/board"
)

// Markdown renders the groups of doc as a Markdown document. Reminders are listed in a final section.
func Markdown(doc *board.Document) []byte {
	var sb strings.Builder
	title := doc.Title
	if doc.Icon != "" {
		title = doc.Icon + " " + title
	}
	fmt.Fprintf(&sb, "# %s\n\n", escape(title))

	for _, group := range doc.Groups {
		switch g := group.(type) {
		case *board.LinkGroup:
			fmt.Fprintf(&sb, "## %s\n\n", escape(g.Name))
			for _, item := range g.Items {
				fmt.Fprintf(&sb, "- [%s](%s)", escape(item.Title), item.URL)
				if item.Type != board.ItemLink {
					fmt.Fprintf(&sb, " _(%s)_", item.Type)
				}
				if item.ReminderAt != nil {
					fmt.Fprintf(&sb, " ⏰ %s", formatTime(*item.ReminderAt))
				}
				sb.WriteString("\n")
				if item.Note != "" {
					fmt.Fprintf(&sb, "  %s\n", escape(item.Note))
				}
			}
			sb.WriteString("\n")
		case *board.Note:
			fmt.Fprintf(&sb, "## %s\n\n", escape(g.Title))
			for _, line := range strings.Split(g.Text, "\n") {
				fmt.Fprintf(&sb, "> %s\n", line)
			}
			sb.WriteString("\n")
		case *board.Chart:
			fmt.Fprintf(&sb, "## %s\n\n[%s](%s)\n\n", escape(g.Name), g.URL, g.URL)
		}
	}

	refs := board.CollectReminders(doc)
	if len(refs) > 0 {
		cardTitle := board.DefaultCardTitle
		if doc.RemindersCard != nil && doc.RemindersCard.Title != "" {
			cardTitle = doc.RemindersCard.Title
		}
		fmt.Fprintf(&sb, "## %s\n\n", escape(cardTitle))
		for _, ref := range refs {
			fmt.Fprintf(&sb, "- %s: %s\n", formatTime(ref.At), escape(ref.Title))
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"[", `\[`,
	"]", `\]`,
	"*", `\*`,
	"_", `\_`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
