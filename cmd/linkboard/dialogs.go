package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/dashboard"
	"github.com/at-ishikawa/linkboard/internal/linkmeta"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

// flagDialogs fills dashboard forms from command-line flags. Flags that were not given keep the
// prefilled value. A rejected submission is returned as an error instead of being asked again.
type flagDialogs struct {
	flags   *pflag.FlagSet
	in      *bufio.Reader
	out     io.Writer
	yes     bool
	fetcher *linkmeta.Fetcher
}

func newFlagDialogs(cmd *cobra.Command, yes bool) *flagDialogs {
	return &flagDialogs{
		flags: cmd.Flags(),
		in:    bufio.NewReader(cmd.InOrStdin()),
		out:   cmd.OutOrStdout(),
		yes:   yes,
	}
}

func rejected(message string) error {
	return fmt.Errorf("%w: %s", dashboard.ErrFormRejected, message)
}

func (d *flagDialogs) setString(name string, dst *string) {
	if f := d.flags.Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String()
	}
}

func (d *flagDialogs) setInt(name string, dst *int) error {
	f := d.flags.Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := strconv.Atoi(f.Value.String())
	if err != nil {
		return fmt.Errorf("--%s: %w", name, err)
	}
	*dst = v
	return nil
}

func (d *flagDialogs) changed(name string) bool {
	f := d.flags.Lookup(name)
	return f != nil && f.Changed
}

func (d *flagDialogs) setInts(targets map[string]*int) error {
	for name, dst := range targets {
		if err := d.setInt(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func (d *flagDialogs) EditGroup(_ context.Context, form *dashboard.GroupForm) (*dashboard.GroupForm, error) {
	if form.Error != "" {
		return nil, rejected(form.Error)
	}
	d.setString("name", &form.Name)
	d.setString("color", &form.Color)
	if err := d.setInts(map[string]*int{"width": &form.Width, "height": &form.Height}); err != nil {
		return nil, err
	}
	return form, nil
}

func (d *flagDialogs) EditNote(_ context.Context, form *dashboard.NoteForm) (*dashboard.NoteForm, error) {
	if form.Error != "" {
		return nil, rejected(form.Error)
	}
	d.setString("title", &form.Title)
	d.setString("text", &form.Text)
	d.setString("color", &form.Color)
	if err := d.setInts(map[string]*int{
		"font-size": &form.FontSize,
		"padding":   &form.Padding,
		"width":     &form.Width,
		"height":    &form.Height,
	}); err != nil {
		return nil, err
	}
	return form, nil
}

func (d *flagDialogs) EditChart(_ context.Context, form *dashboard.ChartForm) (*dashboard.ChartForm, error) {
	if form.Error != "" {
		return nil, rejected(form.Error)
	}
	d.setString("name", &form.Name)
	d.setString("url", &form.URL)
	if err := d.setInts(map[string]*int{"h": &form.H, "width": &form.Width, "height": &form.Height}); err != nil {
		return nil, err
	}
	return form, nil
}

func (d *flagDialogs) EditItem(ctx context.Context, form *dashboard.ItemForm) (*dashboard.ItemForm, error) {
	if form.Error != "" {
		return nil, rejected(form.Error)
	}
	itemType := string(form.Type)
	d.setString("type", &itemType)
	form.Type = board.ItemType(itemType)
	d.setString("title", &form.Title)
	d.setString("url", &form.URL)
	d.setString("note", &form.Note)
	d.setString("icon", &form.Icon)
	d.setString("icon-url", &form.IconURL)
	if err := d.setInt("h", &form.H); err != nil {
		return nil, err
	}
	d.setReminder(&form.ReminderMode, &form.ReminderMinutes, &form.ReminderAt)

	if d.fetcher != nil && form.URL != "" {
		d.autofill(ctx, form)
	}
	return form, nil
}

// setReminder applies the reminder flags. A time given without --remind selects its mode.
func (d *flagDialogs) setReminder(mode, minutes, at *string) {
	d.setString("remind-in", minutes)
	d.setString("remind-at", at)
	switch {
	case d.changed("remind"):
		d.setString("remind", mode)
	case d.changed("remind-in"):
		*mode = string(reminder.ModeMinutes)
	case d.changed("remind-at"):
		*mode = string(reminder.ModeDatetime)
	}
}

func (d *flagDialogs) autofill(ctx context.Context, form *dashboard.ItemForm) {
	metadata, err := d.fetcher.Fetch(ctx, form.URL)
	if err != nil {
		slog.Default().Warn("could not fetch link details", "url", form.URL, "error", err)
		return
	}
	if !d.changed("title") && metadata.Title != "" {
		form.Title = metadata.Title
	}
	if !d.changed("icon-url") && metadata.IconURL != "" {
		form.IconURL = metadata.IconURL
	}
}

func (d *flagDialogs) EditReminder(_ context.Context, form *dashboard.ReminderForm) (*dashboard.ReminderForm, error) {
	if form.Error != "" {
		return nil, rejected(form.Error)
	}
	d.setString("title", &form.Values.Title)
	d.setReminder(&form.Values.Mode, &form.Values.Minutes, &form.Values.At)
	return form, nil
}

func (d *flagDialogs) Confirm(_ context.Context, message string) (bool, error) {
	if d.yes {
		return true, nil
	}
	return d.ask(message)
}

// AskPermission asks whether reminders may be sent to the notification webhook. --yes does not answer it.
func (d *flagDialogs) AskPermission(_ context.Context) (bool, error) {
	return d.ask("Send reminders to the notification webhook?")
}

func (d *flagDialogs) ask(message string) (bool, error) {
	if _, err := fmt.Fprintf(d.out, "%s [y/N]: ", message); err != nil {
		return false, fmt.Errorf("fmt.Fprintf > %w", err)
	}
	answer, err := d.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("ReadString > %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

var _ dashboard.Dialogs = (*flagDialogs)(nil)
