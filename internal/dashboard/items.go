package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

// AddItem asks for a new item and appends it to a link group. It returns the new id, or "" when canceled.
func (c *Controller) AddItem(ctx context.Context, groupID board.ID) (board.ID, error) {
	if err := c.read(func(doc *board.Document) error {
		_, err := doc.FindLinkGroup(groupID)
		return err
	}); err != nil {
		return "", err
	}

	form := &ItemForm{
		Type:         board.ItemLink,
		ReminderMode: string(reminder.ModeNone),
	}
	var resolved itemReminder
	submitted, err := prompt(ctx, c.dialogs.EditItem, form, func(form *ItemForm) error {
		var err error
		resolved, err = c.checkItem(form, nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("dialogs.EditItem > %w", err)
	}
	if submitted == nil {
		return "", nil
	}

	item := board.Item{ID: c.newID()}
	applyItemForm(&item, submitted, resolved)
	if err := c.mutate(ctx, func(doc *board.Document) error {
		group, err := doc.FindLinkGroup(groupID)
		if err != nil {
			return err
		}
		group.Items = append(group.Items, item)
		return nil
	}); err != nil {
		return "", err
	}
	return item.ID, nil
}

// EditItem edits an item and its reminder.
func (c *Controller) EditItem(ctx context.Context, id board.ID) error {
	var form *ItemForm
	var current *int64
	var currentMinutes *int
	if err := c.read(func(doc *board.Document) error {
		_, item, err := doc.FindItem(id)
		if err != nil {
			return err
		}
		form = itemFormOf(*item)
		if item.ReminderAt != nil {
			at := *item.ReminderAt
			current = &at
		}
		currentMinutes = item.ReminderMinutes
		return nil
	}); err != nil {
		return err
	}

	var resolved itemReminder
	submitted, err := prompt(ctx, c.dialogs.EditItem, form, func(form *ItemForm) error {
		var err error
		resolved, err = c.checkItem(form, current)
		return err
	})
	if err != nil {
		return fmt.Errorf("dialogs.EditItem > %w", err)
	}
	if submitted == nil {
		return nil
	}
	if current != nil && resolved.At != nil && *resolved.At == *current && resolved.Minutes == nil {
		resolved.Minutes = currentMinutes
	}

	return c.mutate(ctx, func(doc *board.Document) error {
		_, item, err := doc.FindItem(id)
		if err != nil {
			return err
		}
		applyItemForm(item, submitted, resolved)
		return nil
	})
}

func itemFormOf(item board.Item) *ItemForm {
	form := &ItemForm{
		Type:         item.Type,
		Title:        item.Title,
		URL:          item.URL,
		Note:         item.Note,
		Icon:         item.Icon,
		IconURL:      item.IconURL,
		ReminderMode: string(reminder.ModeNone),
	}
	if item.H != nil {
		form.H = int(*item.H)
	}
	if item.ReminderAt != nil {
		form.ReminderMode = string(reminder.ModeDatetime)
		form.ReminderAt = clock.FromMillis(*item.ReminderAt).Format(time.RFC3339Nano)
	}
	return form
}

func (c *Controller) checkItem(form *ItemForm, current *int64) (itemReminder, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.URL = strings.TrimSpace(form.URL)
	form.IconURL = strings.TrimSpace(form.IconURL)
	if err := c.validator.check(form); err != nil {
		return itemReminder{}, err
	}
	return c.resolveReminder(reminder.Input{
		Mode:    form.ReminderMode,
		Minutes: form.ReminderMinutes,
		At:      form.ReminderAt,
	}, current)
}

func applyItemForm(item *board.Item, form *ItemForm, resolved itemReminder) {
	item.Type = form.Type
	item.Title = form.Title
	if item.Title == "" {
		item.Title = form.URL
	}
	item.URL = form.URL
	item.Note = form.Note
	item.Icon = form.Icon
	item.IconURL = form.IconURL
	item.H = nil
	if form.H > 0 {
		h := board.Pixels(form.H)
		item.H = &h
	}
	item.ReminderAt = resolved.At
	item.ReminderMinutes = resolved.Minutes
}

// itemReminder is a resolved reminder request. At is nil when no reminder was asked for.
type itemReminder struct {
	At      *int64
	Minutes *int
}

var (
	errReminderMinutes = errors.New("reminder minutes must be a positive whole number")
	errReminderDate    = errors.New("reminder time is not a valid date")
	errReminderPast    = errors.New("reminder time must be in the future")
)

// resolveReminder turns raw reminder input into a due time. An explicit mode with an unusable value
// is an error rather than a silent fallback. current is the existing due time, which stays acceptable
// even once it has passed.
func (c *Controller) resolveReminder(in reminder.Input, current *int64) (itemReminder, error) {
	switch reminder.Mode(strings.TrimSpace(in.Mode)) {
	case reminder.ModeNone:
		return itemReminder{}, nil
	case reminder.ModeMinutes:
		if minutes, ok := reminder.CoerceMinutes(in.Minutes); strings.TrimSpace(in.Minutes) != "" && (!ok || minutes <= 0) {
			return itemReminder{}, errReminderMinutes
		}
	case reminder.ModeDatetime:
		if _, ok := clock.ParseTimestamp(in.At); strings.TrimSpace(in.At) != "" && !ok {
			return itemReminder{}, errReminderDate
		}
	}

	now := c.now()
	parsed := reminder.ParseInput(in)
	switch parsed.Mode {
	case reminder.ModeMinutes:
		at := clock.Millis(now.Add(time.Duration(parsed.Minutes) * time.Minute))
		minutes := parsed.Minutes
		return itemReminder{At: &at, Minutes: &minutes}, nil
	case reminder.ModeDatetime:
		at := *parsed.At
		if at <= clock.Millis(now) && (current == nil || *current != at) {
			return itemReminder{}, errReminderPast
		}
		return itemReminder{At: &at}, nil
	}
	return itemReminder{}, nil
}

// RemoveItem deletes an item and its reminder.
func (c *Controller) RemoveItem(ctx context.Context, id board.ID) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		group, _, err := doc.FindItem(id)
		if err != nil {
			return err
		}
		for i := range group.Items {
			if group.Items[i].ID == id {
				group.Items = append(group.Items[:i], group.Items[i+1:]...)
				break
			}
		}
		return nil
	})
}

// MoveItem moves an item to index within the link group toGroupID, which may be its current group.
func (c *Controller) MoveItem(ctx context.Context, id, toGroupID board.ID, index int) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		from, item, err := doc.FindItem(id)
		if err != nil {
			return err
		}
		to, err := doc.FindLinkGroup(toGroupID)
		if err != nil {
			return err
		}

		moved := *item
		for i := range from.Items {
			if from.Items[i].ID == id {
				from.Items = append(from.Items[:i], from.Items[i+1:]...)
				break
			}
		}
		index = max(0, min(index, len(to.Items)))
		to.Items = append(to.Items[:index], append([]board.Item{moved}, to.Items[index:]...)...)
		return nil
	})
}

func (c *Controller) ClearItemReminder(ctx context.Context, id board.ID) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		_, item, err := doc.FindItem(id)
		if err != nil {
			return err
		}
		item.ClearReminder()
		return nil
	})
}
