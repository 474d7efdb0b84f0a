package dashboard

import (
	"context"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

//go:generate mockgen -source=dialogs.go -destination=../mocks/dashboard/mock_dialogs.go -package=mock_dashboard

// Dialogs collects user input. Each Edit method shows form and returns the submission, or nil when
// the user canceled. A form with a non-empty Error is a re-opened submission that failed validation.
type Dialogs interface {
	EditGroup(ctx context.Context, form *GroupForm) (*GroupForm, error)
	EditNote(ctx context.Context, form *NoteForm) (*NoteForm, error)
	EditChart(ctx context.Context, form *ChartForm) (*ChartForm, error)
	EditItem(ctx context.Context, form *ItemForm) (*ItemForm, error)
	EditReminder(ctx context.Context, form *ReminderForm) (*ReminderForm, error)
	Confirm(ctx context.Context, message string) (bool, error)
}

// Renderer draws the dashboard after every change.
type Renderer interface {
	Render(view View) error
}

// View is everything a renderer needs. Document is a private copy.
type View struct {
	Document  *board.Document
	Editing   bool
	Form      reminder.FormState
	Reminders []board.ReminderRef
}

type GroupForm struct {
	Name   string `form:"name" validate:"required"`
	Color  string `form:"color" validate:"omitempty,hexcolor"`
	Width  int    `form:"width" validate:"gt=0"`
	Height int    `form:"height" validate:"gt=0"`
	Error  string
}

type NoteForm struct {
	Title    string `form:"title"`
	Text     string `form:"text"`
	Color    string `form:"color" validate:"omitempty,hexcolor"`
	FontSize int    `form:"font_size" validate:"gt=0"`
	Padding  int    `form:"padding" validate:"gte=0"`
	Width    int    `form:"width" validate:"gt=0"`
	Height   int    `form:"height" validate:"gt=0"`
	Error    string
}

type ChartForm struct {
	Name   string `form:"name" validate:"required"`
	URL    string `form:"url" validate:"required,url"`
	H      int    `form:"h" validate:"gt=0"`
	Width  int    `form:"width" validate:"gt=0"`
	Height int    `form:"height" validate:"gt=0"`
	Error  string
}

// ItemForm edits an item together with its reminder. The reminder fields take the raw form input.
type ItemForm struct {
	Type    board.ItemType `form:"type" validate:"required,oneof=link sheet chart embed"`
	Title   string         `form:"title"`
	URL     string         `form:"url" validate:"required,url"`
	Note    string         `form:"note"`
	Icon    string         `form:"icon"`
	IconURL string         `form:"icon_url" validate:"omitempty,url"`
	H       int            `form:"h" validate:"gte=0"`

	ReminderMode    string `form:"reminder_mode" validate:"omitempty,oneof=none minutes datetime"`
	ReminderMinutes string `form:"reminder_minutes"`
	ReminderAt      string `form:"reminder_at"`

	Error string
}

// ReminderForm edits a custom reminder. EditingID is empty for a new one.
type ReminderForm struct {
	EditingID board.ID
	Values    reminder.FormValues
	Error     string
}

func (f *GroupForm) setError(message string)    { f.Error = message }
func (f *NoteForm) setError(message string)     { f.Error = message }
func (f *ChartForm) setError(message string)    { f.Error = message }
func (f *ItemForm) setError(message string)     { f.Error = message }
func (f *ReminderForm) setError(message string) { f.Error = message }

type dialogForm interface {
	setError(message string)
}

// prompt shows a dialog until check accepts the submission. A nil result means canceled.
func prompt[F any, P interface {
	*F
	dialogForm
}](ctx context.Context, show func(context.Context, P) (P, error), form P, check func(P) error) (P, error) {
	for {
		submitted, err := show(ctx, form)
		if err != nil {
			return nil, err
		}
		if submitted == nil {
			return nil, nil
		}
		if err := check(submitted); err != nil {
			submitted.setError(err.Error())
			form = submitted
			continue
		}
		submitted.setError("")
		return submitted, nil
	}
}
