package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/at-ishikawa/linkboard/internal/reminder"
)

// Console prints reminders that could not be delivered natively.
type Console struct {
	mu     sync.Mutex
	writer io.Writer
	title  *color.Color
	body   *color.Color
}

func NewConsole(writer io.Writer) *Console {
	return &Console{
		writer: writer,
		title:  color.New(color.FgYellow, color.Bold),
		body:   color.New(color.FgWhite),
	}
}

func (c *Console) Alert(notification reminder.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = c.title.Fprintf(c.writer, "⏰ %s\n", notification.Title)
	if notification.Body != "" {
		_, _ = c.body.Fprintln(c.writer, "   "+notification.Body)
	}
	_, _ = fmt.Fprintln(c.writer)
}

var _ reminder.Alerter = (*Console)(nil)
