package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/sizing"
)

// AddGroup asks for a new link group and appends it. It returns the new id, or "" when canceled.
func (c *Controller) AddGroup(ctx context.Context) (board.ID, error) {
	form := &GroupForm{
		Color:  board.DefaultGroupColor,
		Width:  sizing.DefaultDimension,
		Height: sizing.DefaultDimension,
	}
	submitted, err := prompt(ctx, c.dialogs.EditGroup, form, c.checkGroup)
	if err != nil {
		return "", fmt.Errorf("dialogs.EditGroup > %w", err)
	}
	if submitted == nil {
		return "", nil
	}

	group := &board.LinkGroup{
		ID:    c.newID(),
		Items: []board.Item{},
	}
	applyGroupForm(group, submitted)
	if err := c.mutate(ctx, func(doc *board.Document) error {
		doc.Groups = append(doc.Groups, group)
		return nil
	}); err != nil {
		return "", err
	}
	return group.ID, nil
}

// EditGroup edits the name, color, and size of a link group.
func (c *Controller) EditGroup(ctx context.Context, id board.ID) error {
	var form *GroupForm
	if err := c.read(func(doc *board.Document) error {
		group, err := doc.FindLinkGroup(id)
		if err != nil {
			return err
		}
		form = &GroupForm{
			Name:   group.Name,
			Color:  group.Color,
			Width:  int(group.Width),
			Height: int(group.Height),
		}
		return nil
	}); err != nil {
		return err
	}

	submitted, err := prompt(ctx, c.dialogs.EditGroup, form, c.checkGroup)
	if err != nil {
		return fmt.Errorf("dialogs.EditGroup > %w", err)
	}
	if submitted == nil {
		return nil
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		group, err := doc.FindLinkGroup(id)
		if err != nil {
			return err
		}
		applyGroupForm(group, submitted)
		return nil
	})
}

func (c *Controller) checkGroup(form *GroupForm) error {
	form.Name = strings.TrimSpace(form.Name)
	return c.validator.check(form)
}

func applyGroupForm(group *board.LinkGroup, form *GroupForm) {
	group.Name = form.Name
	group.Color = form.Color
	if group.Color == "" {
		group.Color = board.DefaultGroupColor
	}
	group.Width = board.Pixels(form.Width)
	group.Height = board.Pixels(form.Height)
}

// RemoveGroup removes any kind of group after confirmation. It reports whether the group was removed.
func (c *Controller) RemoveGroup(ctx context.Context, id board.ID) (bool, error) {
	var message string
	if err := c.read(func(doc *board.Document) error {
		group, err := doc.FindGroup(id)
		if err != nil {
			return err
		}
		message = fmt.Sprintf("Remove %q?", groupLabel(group))
		return nil
	}); err != nil {
		return false, err
	}

	ok, err := c.dialogs.Confirm(ctx, message)
	if err != nil {
		return false, fmt.Errorf("dialogs.Confirm > %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := c.mutate(ctx, func(doc *board.Document) error {
		i := doc.GroupIndex(id)
		if i < 0 {
			return fmt.Errorf("group %s: %w", id, board.ErrNotFound)
		}
		doc.Groups = append(doc.Groups[:i], doc.Groups[i+1:]...)
		return nil
	}); err != nil {
		return false, err
	}
	return true, nil
}

func groupLabel(group board.Group) string {
	switch g := group.(type) {
	case *board.LinkGroup:
		return g.Name
	case *board.Note:
		return g.Title
	case *board.Chart:
		return g.Name
	}
	return string(group.GroupID())
}

// MoveGroup moves a group to index, clamped to the group range.
func (c *Controller) MoveGroup(ctx context.Context, id board.ID, index int) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		from := doc.GroupIndex(id)
		if from < 0 {
			return fmt.Errorf("group %s: %w", id, board.ErrNotFound)
		}
		doc.Groups = moveElement(doc.Groups, from, index)
		return nil
	})
}

// MoveRemindersCard sets the position of the reminders card among the groups.
func (c *Controller) MoveRemindersCard(ctx context.Context, index int) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		doc.RemindersPos = max(0, min(index, len(doc.Groups)))
		return nil
	})
}

// ResizeGroup sets the pixel size of a group. Size tags are derived on commit.
func (c *Controller) ResizeGroup(ctx context.Context, id board.ID, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("size %dx%d must be positive: %w", width, height, ErrFormRejected)
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		group, err := doc.FindGroup(id)
		if err != nil {
			return err
		}
		dims := group.Dims()
		dims.Width = board.Pixels(width)
		dims.Height = board.Pixels(height)
		return nil
	})
}

// AddNote asks for a new sticky note and appends it.
func (c *Controller) AddNote(ctx context.Context) (board.ID, error) {
	form := &NoteForm{
		Title:    board.DefaultNoteTitle,
		Color:    board.DefaultNoteColor,
		FontSize: board.DefaultNoteFontSize,
		Padding:  board.DefaultNotePadding,
		Width:    sizing.DefaultDimension,
		Height:   sizing.DefaultDimension,
	}
	submitted, err := prompt(ctx, c.dialogs.EditNote, form, c.checkNote)
	if err != nil {
		return "", fmt.Errorf("dialogs.EditNote > %w", err)
	}
	if submitted == nil {
		return "", nil
	}

	note := &board.Note{ID: c.newID()}
	applyNoteForm(note, submitted)
	if err := c.mutate(ctx, func(doc *board.Document) error {
		doc.Groups = append(doc.Groups, note)
		return nil
	}); err != nil {
		return "", err
	}
	return note.ID, nil
}

func (c *Controller) EditNote(ctx context.Context, id board.ID) error {
	var form *NoteForm
	if err := c.read(func(doc *board.Document) error {
		note, err := findNote(doc, id)
		if err != nil {
			return err
		}
		form = &NoteForm{
			Title:    note.Title,
			Text:     note.Text,
			Color:    note.Color,
			FontSize: int(note.FontSize),
			Padding:  int(note.Padding),
			Width:    int(note.Width),
			Height:   int(note.Height),
		}
		return nil
	}); err != nil {
		return err
	}

	submitted, err := prompt(ctx, c.dialogs.EditNote, form, c.checkNote)
	if err != nil {
		return fmt.Errorf("dialogs.EditNote > %w", err)
	}
	if submitted == nil {
		return nil
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		note, err := findNote(doc, id)
		if err != nil {
			return err
		}
		applyNoteForm(note, submitted)
		return nil
	})
}

func findNote(doc *board.Document, id board.ID) (*board.Note, error) {
	group, err := doc.FindGroup(id)
	if err != nil {
		return nil, err
	}
	note, ok := group.(*board.Note)
	if !ok {
		return nil, fmt.Errorf("group %s is a %s, not a note: %w", id, group.Kind(), board.ErrNotFound)
	}
	return note, nil
}

func (c *Controller) checkNote(form *NoteForm) error {
	form.Title = strings.TrimSpace(form.Title)
	return c.validator.check(form)
}

func applyNoteForm(note *board.Note, form *NoteForm) {
	note.Title = form.Title
	if note.Title == "" {
		note.Title = board.DefaultNoteTitle
	}
	note.Name = note.Title
	note.Text = form.Text
	note.Color = form.Color
	note.FontSize = board.Pixels(form.FontSize)
	note.Padding = board.Pixels(form.Padding)
	note.Width = board.Pixels(form.Width)
	note.Height = board.Pixels(form.Height)
}

// AddChart asks for a new chart card and appends it.
func (c *Controller) AddChart(ctx context.Context) (board.ID, error) {
	form := &ChartForm{
		H:      board.DefaultChartHeight,
		Width:  sizing.DefaultDimension,
		Height: sizing.DefaultDimension,
	}
	submitted, err := prompt(ctx, c.dialogs.EditChart, form, c.checkChart)
	if err != nil {
		return "", fmt.Errorf("dialogs.EditChart > %w", err)
	}
	if submitted == nil {
		return "", nil
	}

	chart := &board.Chart{ID: c.newID()}
	applyChartForm(chart, submitted)
	if err := c.mutate(ctx, func(doc *board.Document) error {
		doc.Groups = append(doc.Groups, chart)
		return nil
	}); err != nil {
		return "", err
	}
	return chart.ID, nil
}

func (c *Controller) EditChart(ctx context.Context, id board.ID) error {
	var form *ChartForm
	if err := c.read(func(doc *board.Document) error {
		chart, err := findChart(doc, id)
		if err != nil {
			return err
		}
		form = &ChartForm{
			Name:   chart.Name,
			URL:    chart.URL,
			H:      int(chart.H),
			Width:  int(chart.Width),
			Height: int(chart.Height),
		}
		return nil
	}); err != nil {
		return err
	}

	submitted, err := prompt(ctx, c.dialogs.EditChart, form, c.checkChart)
	if err != nil {
		return fmt.Errorf("dialogs.EditChart > %w", err)
	}
	if submitted == nil {
		return nil
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		chart, err := findChart(doc, id)
		if err != nil {
			return err
		}
		applyChartForm(chart, submitted)
		return nil
	})
}

func findChart(doc *board.Document, id board.ID) (*board.Chart, error) {
	group, err := doc.FindGroup(id)
	if err != nil {
		return nil, err
	}
	chart, ok := group.(*board.Chart)
	if !ok {
		return nil, fmt.Errorf("group %s is a %s, not a chart: %w", id, group.Kind(), board.ErrNotFound)
	}
	return chart, nil
}

func (c *Controller) checkChart(form *ChartForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.URL = strings.TrimSpace(form.URL)
	return c.validator.check(form)
}

func applyChartForm(chart *board.Chart, form *ChartForm) {
	chart.Name = form.Name
	chart.URL = form.URL
	chart.H = board.Pixels(form.H)
	chart.Width = board.Pixels(form.Width)
	chart.Height = board.Pixels(form.Height)
}

// moveElement moves s[from] to index to, clamped to the slice bounds.
func moveElement[T any](s []T, from, to int) []T {
	to = max(0, min(to, len(s)-1))
	if from == to {
		return s
	}
	v := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s[:to], append([]T{v}, s[to:]...)...)
	return s
}
