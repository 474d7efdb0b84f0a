package board

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/sizing"
)

// Normalizer repairs and migrates documents to the current schema. Running it twice is a no-op.
type Normalizer struct {
	Now          func() time.Time
	NewID        func() ID
	DefaultTitle string
}

// NewNormalizer returns a Normalizer using the wall clock and random UUIDs.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		Now:          time.Now,
		NewID:        NewID,
		DefaultTitle: DefaultTitle,
	}
}

// NewID returns a random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Normalize migrates legacy fields and re-derives every computed field of doc in place.
func (n *Normalizer) Normalize(doc *Document) {
	if doc == nil {
		return
	}

	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = n.defaultTitle()
	}
	if doc.Icon != "" && doc.IconImage != "" {
		doc.Icon = ""
	}
	if doc.Groups == nil {
		doc.Groups = []Group{}
	}

	n.migrateLegacyNotes(doc)

	groupIDs := make(map[ID]bool)
	itemIDs := make(map[ID]bool)
	kept := doc.Groups[:0]
	for _, group := range doc.Groups {
		if group == nil {
			continue
		}
		n.normalizeGroup(group, groupIDs, itemIDs)
		kept = append(kept, group)
	}
	doc.Groups = kept

	n.normalizeCustomReminders(doc)

	if doc.RemindersCard == nil {
		doc.RemindersCard = DefaultRemindersCard()
	}
	normalizeCard(doc.RemindersCard)

	doc.RemindersPos = max(0, min(doc.RemindersPos, len(doc.Groups)))
}

func (n *Normalizer) defaultTitle() string {
	if n.DefaultTitle != "" {
		return n.DefaultTitle
	}
	return DefaultTitle
}

func (n *Normalizer) newID() ID {
	if n.NewID != nil {
		return n.NewID()
	}
	return NewID()
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// uniqueID keeps id when it is set and unseen, and allocates a new one otherwise.
func (n *Normalizer) uniqueID(id ID, seen map[ID]bool) ID {
	if id == "" || seen[id] {
		id = n.newID()
	}
	seen[id] = true
	return id
}

func (n *Normalizer) migrateLegacyNotes(doc *Document) {
	legacy := doc.legacy
	doc.legacy = nil
	if legacy == nil {
		return
	}
	if legacy.Text == "" && legacy.Title == "" {
		return
	}

	note := &Note{
		ID:       n.newID(),
		Title:    legacy.Title,
		Text:     legacy.Text,
		Color:    legacy.Color,
		FontSize: legacy.FontSize,
		Padding:  legacy.Padding,
		Dimensions: Dimensions{
			Width:  legacy.Width,
			Height: legacy.Height,
		},
	}
	if strings.TrimSpace(note.Title) == "" {
		note.Title = DefaultNoteTitle
	}

	pos := legacy.Pos
	if pos < 0 {
		pos = 0
	}
	if pos > len(doc.Groups) {
		pos = len(doc.Groups)
	}
	groups := make([]Group, 0, len(doc.Groups)+1)
	groups = append(groups, doc.Groups[:pos]...)
	groups = append(groups, note)
	groups = append(groups, doc.Groups[pos:]...)
	doc.Groups = groups
}

func (n *Normalizer) normalizeGroup(group Group, groupIDs, itemIDs map[ID]bool) {
	normalizeDimensions(group.Dims())

	switch g := group.(type) {
	case *LinkGroup:
		g.ID = n.uniqueID(g.ID, groupIDs)
		if g.Items == nil {
			g.Items = []Item{}
		}
		for i := range g.Items {
			item := &g.Items[i]
			item.ID = n.uniqueID(item.ID, itemIDs)
			normalizeItem(item)
		}
	case *Note:
		g.ID = n.uniqueID(g.ID, groupIDs)
		if g.Title == "" && g.Name != "" {
			g.Title = g.Name
		}
		g.Name = g.Title
		if g.Color == "" {
			g.Color = DefaultNoteColor
		}
		if g.FontSize <= 0 {
			g.FontSize = DefaultNoteFontSize
		}
		if g.Padding < 0 {
			g.Padding = 0
		}
	case *Chart:
		g.ID = n.uniqueID(g.ID, groupIDs)
		if g.H <= 0 {
			g.H = DefaultChartHeight
		}
	}
}

func normalizeDimensions(d *Dimensions) {
	if d.Width <= 0 {
		d.Width = Pixels(sizing.DefaultWidth(d.LegacySize))
	}
	if d.Height <= 0 {
		d.Height = Pixels(sizing.DefaultHeight(d.LegacySize))
	}
	d.LegacySize = ""
	d.WSize = sizing.SizeFromWidth(float64(d.Width))
	d.HSize = sizing.SizeFromHeight(float64(d.Height))
	d.Classification = sizing.Classify(float64(d.Width), float64(d.Height))
}

func normalizeItem(item *Item) {
	if !item.Type.Valid() {
		item.Type = ItemLink
	}
	if item.ReminderAt == nil {
		item.ReminderMinutes = nil
	}
	if item.ReminderMinutes != nil && *item.ReminderMinutes <= 0 {
		item.ReminderMinutes = nil
	}
	if item.H != nil && *item.H <= 0 {
		item.H = nil
	}
}

func (n *Normalizer) normalizeCustomReminders(doc *Document) {
	seen := make(map[ID]bool)
	reminders := make([]CustomReminder, 0, len(doc.CustomReminders))
	for _, r := range doc.CustomReminders {
		if r.invalidAt {
			continue
		}
		r.ID = n.uniqueID(r.ID, seen)
		if r.Minutes != nil && *r.Minutes < 0 {
			zero := 0
			r.Minutes = &zero
		}
		if r.CreatedAt == 0 {
			r.CreatedAt = clock.Millis(n.now())
		}
		reminders = append(reminders, r)
	}
	doc.CustomReminders = reminders
}

func normalizeCard(card *RemindersCard) {
	if strings.TrimSpace(card.Title) == "" {
		card.Title = DefaultCardTitle
	}
	if card.Width <= 0 {
		card.Width = Pixels(sizing.DefaultWidth(card.WSize))
	}
	if card.Height <= 0 {
		card.Height = Pixels(sizing.DefaultHeight(card.HSize))
	}
	card.WSize = sizing.SizeFromWidth(float64(card.Width))
	card.HSize = sizing.SizeFromHeight(float64(card.Height))
}
