package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
)

// ErrInvalidImport is returned when an imported file is not a dashboard document.
var ErrInvalidImport = errors.New("import must be a JSON object with a groups array")

// Export writes the document as JSON.
func (c *Controller) Export(w io.Writer) error {
	var data []byte
	if err := c.read(func(doc *board.Document) error {
		var err error
		data, err = board.Encode(doc)
		return err
	}); err != nil {
		return fmt.Errorf("board.Encode > %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("w.Write > %w", err)
	}
	return nil
}

// ExportFileName names an export after the dashboard title and the current time.
func (c *Controller) ExportFileName() string {
	title := board.DefaultTitle
	_ = c.read(func(doc *board.Document) error {
		if t := strings.TrimSpace(doc.Title); t != "" {
			title = t
		}
		return nil
	})
	title = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(title)
	return fmt.Sprintf("%s-%d.timestamp.json", title, clock.Millis(c.now()))
}

// Import replaces the whole document. The current document is kept when r does not hold a
// JSON object with a groups array.
func (c *Controller) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("io.ReadAll > %w", err)
	}
	doc, err := board.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return ErrNotInitialized
	}
	if err := c.commitLocked(ctx, doc); err != nil {
		return err
	}
	c.form.Reset()
	return nil
}
