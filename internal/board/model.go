// Package board provides the dashboard document model, its JSON representation,
// the normalization pass that migrates older documents, and the state store.
package board

import (
	"github.com/at-ishikawa/linkboard/internal/sizing"
)

// ID identifies groups, items, and custom reminders. Older documents stored numeric ids,
// which decode into their decimal string form.
type ID string

// GroupKind discriminates the Group variants.
type GroupKind string

const (
	KindLinks GroupKind = "links"
	KindNote  GroupKind = "note"
	KindChart GroupKind = "chart"
)

// ItemType is the kind of entry inside a link group.
type ItemType string

const (
	ItemLink  ItemType = "link"
	ItemSheet ItemType = "sheet"
	ItemChart ItemType = "chart"
	ItemEmbed ItemType = "embed"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemLink, ItemSheet, ItemChart, ItemEmbed:
		return true
	}
	return false
}

const (
	DefaultTitle         = "My Dashboard"
	DefaultCardTitle     = "Reminders"
	DefaultNoteTitle     = "Notes"
	DefaultNoteColor     = "#fff7b1"
	DefaultNoteFontSize  = 14
	DefaultNotePadding   = 12
	DefaultGroupColor    = "#3b82f6"
	DefaultChartHeight   = 300
	DefaultGroupName     = "New group"
	DefaultReminderTitle = "Reminder"
)

// Document is the persisted root of the dashboard.
type Document struct {
	Title           string           `json:"title"`
	Icon            string           `json:"icon"`
	IconImage       string           `json:"iconImage"`
	Groups          []Group          `json:"groups"`
	RemindersCard   *RemindersCard   `json:"remindersCard"`
	RemindersPos    int              `json:"remindersPos"`
	CustomReminders []CustomReminder `json:"customReminders"`

	// legacy holds the single free-text note of older documents until normalization converts it.
	legacy *legacyNotes
}

type legacyNotes struct {
	Text     string
	Title    string
	FontSize Pixels
	Padding  Pixels
	Color    string
	Width    Pixels
	Height   Pixels
	Pos      int
}

// Group is a card on the dashboard: a *LinkGroup, a *Note, or a *Chart.
type Group interface {
	Kind() GroupKind
	GroupID() ID
	Dims() *Dimensions
}

// Dimensions carries the pixel size of a sizable entity and the tags derived from it.
// Width and Height are authoritative; everything else is recomputed by Normalize.
type Dimensions struct {
	Width  Pixels     `json:"width"`
	Height Pixels     `json:"height"`
	WSize  sizing.Tag `json:"wSize"`
	HSize  sizing.Tag `json:"hSize"`
	sizing.Classification

	// LegacySize is the pre-pixel size tag. It is read from old documents and cleared by Normalize.
	LegacySize sizing.Tag `json:"size,omitempty"`
}

// LinkGroup is the default group variant holding an ordered list of items.
type LinkGroup struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Dimensions
	Items []Item `json:"items"`
}

func (g *LinkGroup) Kind() GroupKind   { return KindLinks }
func (g *LinkGroup) GroupID() ID       { return g.ID }
func (g *LinkGroup) Dims() *Dimensions { return &g.Dimensions }

// Note is a sticky note. Name mirrors Title for older readers.
type Note struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Color string `json:"color"`
	Dimensions
	FontSize Pixels `json:"fontSize"`
	Padding  Pixels `json:"padding"`
}

func (g *Note) Kind() GroupKind   { return KindNote }
func (g *Note) GroupID() ID       { return g.ID }
func (g *Note) Dims() *Dimensions { return &g.Dimensions }

// Chart is an embedded chart card.
type Chart struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	H    Pixels `json:"h"`
	Dimensions
}

func (g *Chart) Kind() GroupKind   { return KindChart }
func (g *Chart) GroupID() ID       { return g.ID }
func (g *Chart) Dims() *Dimensions { return &g.Dimensions }

var (
	_ Group = (*LinkGroup)(nil)
	_ Group = (*Note)(nil)
	_ Group = (*Chart)(nil)
)

// Item is a single entry inside a link group.
type Item struct {
	ID      ID       `json:"id"`
	Type    ItemType `json:"type"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Note    string   `json:"note"`
	Icon    string   `json:"icon"`
	IconURL string   `json:"iconUrl"`
	H       *Pixels  `json:"h,omitempty"`

	// ReminderAt is an epoch-millisecond due time.
	ReminderAt *int64 `json:"reminderAt,omitempty"`
	// ReminderMinutes records that the reminder was entered as a relative delay. It never schedules on its own.
	ReminderMinutes *int `json:"reminderMinutes,omitempty"`
}

// HasReminder reports whether the item carries a scheduled reminder.
func (it Item) HasReminder() bool {
	return it.ReminderAt != nil
}

// ClearReminder removes the reminder fields.
func (it *Item) ClearReminder() {
	it.ReminderAt = nil
	it.ReminderMinutes = nil
}

// CustomReminder is a standalone timer not attached to any item.
type CustomReminder struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	At        int64  `json:"at"`
	Minutes   *int   `json:"minutes"`
	CreatedAt int64  `json:"createdAt"`

	invalidAt bool
}

// RemindersCard configures the optional pinned reminders card.
type RemindersCard struct {
	Enabled   bool       `json:"enabled"`
	Title     string     `json:"title"`
	Width     Pixels     `json:"width"`
	Height    Pixels     `json:"height"`
	WSize     sizing.Tag `json:"wSize"`
	HSize     sizing.Tag `json:"hSize"`
	ShowQuick bool       `json:"showQuick"`
}

// DefaultRemindersCard returns the disabled card used when none is configured.
func DefaultRemindersCard() *RemindersCard {
	return &RemindersCard{
		Enabled:   false,
		Title:     DefaultCardTitle,
		Width:     sizing.DefaultDimension,
		Height:    sizing.DefaultDimension,
		WSize:     sizing.Medium,
		HSize:     sizing.Medium,
		ShowQuick: true,
	}
}
