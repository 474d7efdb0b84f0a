package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a group, item, or reminder id does not exist.
var ErrNotFound = errors.New("not found")

// CountGroupItems sums the items of every link group. Groups without items count as zero.
func CountGroupItems(groups []Group) int {
	total := 0
	for _, group := range groups {
		if g, ok := group.(*LinkGroup); ok && g != nil {
			total += len(g.Items)
		}
	}
	return total
}

// GroupIndex returns the position of the group with id.
func (doc *Document) GroupIndex(id ID) int {
	for i, g := range doc.Groups {
		if g.GroupID() == id {
			return i
		}
	}
	return -1
}

// FindGroup returns the group with id.
func (doc *Document) FindGroup(id ID) (Group, error) {
	i := doc.GroupIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return doc.Groups[i], nil
}

// FindLinkGroup returns the link group with id.
func (doc *Document) FindLinkGroup(id ID) (*LinkGroup, error) {
	group, err := doc.FindGroup(id)
	if err != nil {
		return nil, err
	}
	links, ok := group.(*LinkGroup)
	if !ok {
		return nil, fmt.Errorf("group %s is a %s, not a link group: %w", id, group.Kind(), ErrNotFound)
	}
	return links, nil
}

// FindItem returns the item with id and the link group containing it.
func (doc *Document) FindItem(id ID) (*LinkGroup, *Item, error) {
	for _, group := range doc.Groups {
		links, ok := group.(*LinkGroup)
		if !ok {
			continue
		}
		for i := range links.Items {
			if links.Items[i].ID == id {
				return links, &links.Items[i], nil
			}
		}
	}
	return nil, nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
}

// CustomReminderIndex returns the position of the custom reminder with id.
func (doc *Document) CustomReminderIndex(id ID) int {
	for i, r := range doc.CustomReminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}

const (
	itemKeyPrefix   = "item:"
	customKeyPrefix = "custom:"
)

// ItemReminderKey is the scheduling key of an item reminder.
func ItemReminderKey(id ID) string {
	return itemKeyPrefix + string(id)
}

// CustomReminderKey is the scheduling key of a custom reminder.
func CustomReminderKey(id ID) string {
	return customKeyPrefix + string(id)
}

// ReminderSource tells which part of the document a reminder key refers to.
type ReminderSource string

const (
	SourceItem   ReminderSource = "item"
	SourceCustom ReminderSource = "custom"
)

// ParseReminderKey splits a key built by ItemReminderKey or CustomReminderKey.
func ParseReminderKey(key string) (ReminderSource, ID, error) {
	switch {
	case strings.HasPrefix(key, itemKeyPrefix) && len(key) > len(itemKeyPrefix):
		return SourceItem, ID(strings.TrimPrefix(key, itemKeyPrefix)), nil
	case strings.HasPrefix(key, customKeyPrefix) && len(key) > len(customKeyPrefix):
		return SourceCustom, ID(strings.TrimPrefix(key, customKeyPrefix)), nil
	}
	return "", "", fmt.Errorf("invalid reminder key %q", key)
}

// ReminderRef describes one scheduled reminder found in the document.
type ReminderRef struct {
	Key        string
	Source     ReminderSource
	At         int64
	Title      string
	Body       string
	GroupID    ID
	ItemID     ID
	ReminderID ID
	Minutes    *int
}

// CollectReminders scans items and custom reminders, ordered by due time.
func CollectReminders(doc *Document) []ReminderRef {
	if doc == nil {
		return nil
	}
	var refs []ReminderRef
	for _, group := range doc.Groups {
		links, ok := group.(*LinkGroup)
		if !ok {
			continue
		}
		for _, item := range links.Items {
			if item.ReminderAt == nil {
				continue
			}
			title := item.Title
			if title == "" {
				title = DefaultReminderTitle
			}
			body := links.Name
			if item.URL != "" {
				if body != "" {
					body += " · "
				}
				body += item.URL
			}
			refs = append(refs, ReminderRef{
				Key:     ItemReminderKey(item.ID),
				Source:  SourceItem,
				At:      *item.ReminderAt,
				Title:   title,
				Body:    body,
				GroupID: links.ID,
				ItemID:  item.ID,
				Minutes: item.ReminderMinutes,
			})
		}
	}
	for _, r := range doc.CustomReminders {
		title := r.Title
		if title == "" {
			title = DefaultReminderTitle
		}
		body := "Time's up"
		if r.Minutes != nil && *r.Minutes > 0 {
			body = fmt.Sprintf("%d minute timer finished", *r.Minutes)
		}
		refs = append(refs, ReminderRef{
			Key:        CustomReminderKey(r.ID),
			Source:     SourceCustom,
			At:         r.At,
			Title:      title,
			Body:       body,
			ReminderID: r.ID,
			Minutes:    r.Minutes,
		})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].At < refs[j].At
	})
	return refs
}
