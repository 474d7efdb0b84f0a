package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

// DefaultFormMinutes prefills the minutes of a new reminder form.
const DefaultFormMinutes = 10

var errReminderMissing = errors.New("enter minutes or a date and time")

// Reminders lists the scheduled reminders ordered by due time.
func (c *Controller) Reminders() ([]board.ReminderRef, error) {
	var refs []board.ReminderRef
	err := c.read(func(doc *board.Document) error {
		refs = board.CollectReminders(doc)
		return nil
	})
	return refs, err
}

// QuickTimer adds a custom reminder due in minutes.
func (c *Controller) QuickTimer(ctx context.Context, minutes int) (board.ID, error) {
	if minutes <= 0 {
		return "", fmt.Errorf("%w: %w", errReminderMinutes, ErrFormRejected)
	}
	now := c.now()
	r := board.CustomReminder{
		ID:        c.newID(),
		Title:     fmt.Sprintf("%d min timer", minutes),
		At:        clock.Millis(now.Add(time.Duration(minutes) * time.Minute)),
		Minutes:   &minutes,
		CreatedAt: clock.Millis(now),
	}
	if err := c.mutate(ctx, func(doc *board.Document) error {
		doc.CustomReminders = append(doc.CustomReminders, r)
		return nil
	}); err != nil {
		return "", err
	}
	return r.ID, nil
}

// FormState returns the reminder form in progress.
func (c *Controller) FormState() reminder.FormState {
	return c.form.Get()
}

// OpenReminderForm starts editing the custom reminder editingID, or a new one when it is empty.
func (c *Controller) OpenReminderForm(editingID board.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc == nil {
		return ErrNotInitialized
	}
	values := reminder.FormValues{
		Mode:    string(reminder.ModeMinutes),
		Minutes: strconv.Itoa(DefaultFormMinutes),
	}
	if editingID != "" {
		i := c.doc.CustomReminderIndex(editingID)
		if i < 0 {
			return fmt.Errorf("reminder %s: %w", editingID, board.ErrNotFound)
		}
		r := c.doc.CustomReminders[i]
		values = reminder.FormValues{
			Title: r.Title,
			Mode:  string(reminder.ModeDatetime),
			At:    clock.FromMillis(r.At).Format(time.RFC3339Nano),
		}
		if r.Minutes != nil && *r.Minutes > 0 {
			values.Minutes = strconv.Itoa(*r.Minutes)
		}
	}

	id := string(editingID)
	empty := ""
	c.form.Reset()
	c.form.Update(reminder.FormPatch{
		EditingID: &id,
		Values:    &values,
		Error:     &empty,
	})
	c.renderLocked()
	return nil
}

// SubmitReminderForm saves the open form. Invalid values keep the form open with its error set, and the
// returned error wraps ErrFormRejected.
func (c *Controller) SubmitReminderForm(ctx context.Context, values reminder.FormValues) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc == nil {
		return ErrNotInitialized
	}
	editingID := board.ID(c.form.Get().EditingID)
	if err := c.saveReminderLocked(ctx, editingID, values); err != nil {
		if !errors.Is(err, ErrFormRejected) {
			return err
		}
		message := strings.TrimSuffix(err.Error(), ": "+ErrFormRejected.Error())
		c.form.Update(reminder.FormPatch{
			Values: &values,
			Error:  &message,
		})
		c.renderLocked()
		return err
	}
	return nil
}

// CancelReminderForm discards the open form.
func (c *Controller) CancelReminderForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Reset()
	if c.doc != nil {
		c.renderLocked()
	}
}

// EditReminder runs the reminder form through the reminder dialog until it is saved or canceled.
func (c *Controller) EditReminder(ctx context.Context, editingID board.ID) error {
	if err := c.OpenReminderForm(editingID); err != nil {
		return err
	}
	state := c.form.Get()
	form := &ReminderForm{EditingID: editingID}
	if state.Values != nil {
		form.Values = *state.Values
	}

	for {
		submitted, err := c.dialogs.EditReminder(ctx, form)
		if err != nil {
			c.CancelReminderForm()
			return fmt.Errorf("dialogs.EditReminder > %w", err)
		}
		if submitted == nil {
			c.CancelReminderForm()
			return nil
		}
		err = c.SubmitReminderForm(ctx, submitted.Values)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrFormRejected) {
			return err
		}
		form = submitted
		form.setError(c.form.Get().Error)
	}
}

func (c *Controller) saveReminderLocked(ctx context.Context, editingID board.ID, values reminder.FormValues) error {
	index := -1
	var current *int64
	if editingID != "" {
		index = c.doc.CustomReminderIndex(editingID)
		if index < 0 {
			return fmt.Errorf("reminder %s: %w", editingID, board.ErrNotFound)
		}
		at := c.doc.CustomReminders[index].At
		current = &at
	}

	resolved, err := c.resolveReminder(reminder.Input{
		Mode:    values.Mode,
		Minutes: values.Minutes,
		At:      values.At,
	}, current)
	if err == nil && resolved.At == nil {
		err = errReminderMissing
	}
	if err != nil {
		return fmt.Errorf("%w: %w", err, ErrFormRejected)
	}

	title := strings.TrimSpace(values.Title)
	if title == "" {
		title = board.DefaultReminderTitle
	}
	draft, err := c.draftLocked()
	if err != nil {
		return err
	}
	if index >= 0 {
		r := &draft.CustomReminders[index]
		r.Title = title
		if *resolved.At != r.At || resolved.Minutes != nil {
			r.Minutes = resolved.Minutes
		}
		r.At = *resolved.At
	} else {
		draft.CustomReminders = append(draft.CustomReminders, board.CustomReminder{
			ID:        c.newID(),
			Title:     title,
			At:        *resolved.At,
			Minutes:   resolved.Minutes,
			CreatedAt: clock.Millis(c.now()),
		})
	}
	previous := c.form.Get()
	c.form.Reset()
	if err := c.commitLocked(ctx, draft); err != nil {
		c.form.Set(&previous)
		return err
	}
	return nil
}

// SnoozeReminder pushes the reminder with key to minutes from now.
func (c *Controller) SnoozeReminder(ctx context.Context, key string, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %w", errReminderMinutes, ErrFormRejected)
	}
	source, id, err := board.ParseReminderKey(key)
	if err != nil {
		return fmt.Errorf("%w: %w", err, board.ErrNotFound)
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		at := clock.Millis(c.now().Add(time.Duration(minutes) * time.Minute))
		switch source {
		case board.SourceItem:
			_, item, err := doc.FindItem(id)
			if err != nil {
				return err
			}
			m := minutes
			item.ReminderAt = &at
			item.ReminderMinutes = &m
		case board.SourceCustom:
			i := doc.CustomReminderIndex(id)
			if i < 0 {
				return fmt.Errorf("reminder %s: %w", id, board.ErrNotFound)
			}
			m := minutes
			doc.CustomReminders[i].At = at
			doc.CustomReminders[i].Minutes = &m
		}
		return nil
	})
}

// DismissReminder consumes the reminder with key: an item reminder is cleared and a custom reminder is deleted.
func (c *Controller) DismissReminder(ctx context.Context, key string) error {
	source, id, err := board.ParseReminderKey(key)
	if err != nil {
		return fmt.Errorf("%w: %w", err, board.ErrNotFound)
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		if !consumeReminder(doc, source, id, nil) {
			return fmt.Errorf("reminder %s: %w", key, board.ErrNotFound)
		}
		return nil
	})
}

// consumeReminder removes a reminder. With a non-nil at, only a reminder still due at that time is removed.
func consumeReminder(doc *board.Document, source board.ReminderSource, id board.ID, at *int64) bool {
	switch source {
	case board.SourceItem:
		_, item, err := doc.FindItem(id)
		if err != nil || item.ReminderAt == nil || (at != nil && *item.ReminderAt != *at) {
			return false
		}
		item.ClearReminder()
		return true
	case board.SourceCustom:
		i := doc.CustomReminderIndex(id)
		if i < 0 || (at != nil && doc.CustomReminders[i].At != *at) {
			return false
		}
		doc.CustomReminders = append(doc.CustomReminders[:i], doc.CustomReminders[i+1:]...)
		return true
	}
	return false
}

func (c *Controller) onTrigger(ref board.ReminderRef) func() {
	return func() {
		at := ref.At
		err := c.mutate(context.Background(), func(doc *board.Document) error {
			if !consumeReminder(doc, ref.Source, idOf(ref), &at) {
				return errAlreadyConsumed
			}
			return nil
		})
		if err != nil && !errors.Is(err, errAlreadyConsumed) {
			slog.Default().Warn("failed to consume a fired reminder",
				"key", ref.Key,
				"error", err)
		}
	}
}

var errAlreadyConsumed = errors.New("reminder already consumed")

func idOf(ref board.ReminderRef) board.ID {
	if ref.Source == board.SourceItem {
		return ref.ItemID
	}
	return ref.ReminderID
}

// CardPatch updates the non-nil fields of the reminders card.
type CardPatch struct {
	Title     *string
	Width     *int
	Height    *int
	ShowQuick *bool
}

func (c *Controller) EnableRemindersCard(ctx context.Context) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		doc.RemindersCard.Enabled = true
		return nil
	})
}

// RemoveRemindersCard hides the card, keeping its configuration, and discards an open reminder form.
func (c *Controller) RemoveRemindersCard(ctx context.Context) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		doc.RemindersCard.Enabled = false
		c.form.Reset()
		return nil
	})
}

func (c *Controller) UpdateRemindersCard(ctx context.Context, patch CardPatch) error {
	if (patch.Width != nil && *patch.Width <= 0) || (patch.Height != nil && *patch.Height <= 0) {
		return fmt.Errorf("card size must be positive: %w", ErrFormRejected)
	}
	return c.mutate(ctx, func(doc *board.Document) error {
		card := doc.RemindersCard
		if patch.Title != nil {
			card.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Width != nil {
			card.Width = board.Pixels(*patch.Width)
		}
		if patch.Height != nil {
			card.Height = board.Pixels(*patch.Height)
		}
		if patch.ShowQuick != nil {
			card.ShowQuick = *patch.ShowQuick
		}
		return nil
	})
}
