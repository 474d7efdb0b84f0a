package board

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/linkboard/internal/sizing"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	seq := 0
	return &Normalizer{
		Now: func() time.Time { return testNow },
		NewID: func() ID {
			seq++
			return ID(fmt.Sprintf("id-%d", seq))
		},
		DefaultTitle: DefaultTitle,
	}
}

func decodeAndNormalize(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Decode([]byte(data))
	require.NoError(t, err)
	newTestNormalizer().Normalize(doc)
	return doc
}

func TestNormalize_LegacyNotes(t *testing.T) {
	doc := decodeAndNormalize(t, `{
		"title": "Home",
		"notes": "buy milk",
		"notesTitle": "Todo",
		"notesOpts": {"fontSize": 18, "padding": 8, "color": "#ffeeaa"},
		"notesBox": {"width": 480, "height": 240},
		"notesPos": 1,
		"groups": [
			{"id": "g1", "name": "Work", "items": []},
			{"id": "g2", "name": "Play", "items": []}
		]
	}`)

	require.Len(t, doc.Groups, 3)
	assert.Equal(t, ID("g1"), doc.Groups[0].GroupID())
	assert.Equal(t, ID("g2"), doc.Groups[2].GroupID())

	note, ok := doc.Groups[1].(*Note)
	require.True(t, ok, "legacy notes become a note group at the recorded position")
	assert.Equal(t, "Todo", note.Title)
	assert.Equal(t, "Todo", note.Name)
	assert.Equal(t, "buy milk", note.Text)
	assert.Equal(t, Pixels(18), note.FontSize)
	assert.Equal(t, Pixels(8), note.Padding)
	assert.Equal(t, "#ffeeaa", note.Color)
	assert.Equal(t, Pixels(480), note.Width)
	assert.Equal(t, Pixels(240), note.Height)
	assert.Equal(t, sizing.Large, note.WSize)
	assert.Equal(t, sizing.Small, note.HSize)

	data, err := Encode(doc)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, legacy := range []string{"notes", "notesTitle", "notesOpts", "notesBox", "notesPos"} {
		assert.NotContains(t, fields, legacy)
	}

	notes := 0
	for _, g := range doc.Groups {
		if g.Kind() == KindNote {
			notes++
		}
	}
	assert.Equal(t, 1, notes)
}

func TestNormalize_LegacyNotesEmptyAreDropped(t *testing.T) {
	doc := decodeAndNormalize(t, `{"notes": "", "notesTitle": "", "notesPos": 0, "groups": []}`)
	assert.Empty(t, doc.Groups)
	assert.Nil(t, doc.legacy)
}

func TestNormalize_LegacyNotesWhitespaceIsKept(t *testing.T) {
	doc := decodeAndNormalize(t, `{"notes": "  \n", "notesTitle": "", "groups": []}`)
	require.Len(t, doc.Groups, 1)
	note, ok := doc.Groups[0].(*Note)
	require.True(t, ok)
	assert.Equal(t, "  \n", note.Text)
	assert.Nil(t, doc.legacy)
}

func TestNormalize_LegacyNotesPositionClamped(t *testing.T) {
	doc := decodeAndNormalize(t, `{"notes": "x", "notesPos": 99, "groups": [{"id": "g1"}]}`)
	require.Len(t, doc.Groups, 2)
	note, ok := doc.Groups[1].(*Note)
	require.True(t, ok)
	assert.Equal(t, DefaultNoteTitle, note.Title)
	assert.Equal(t, DefaultNoteColor, note.Color)
	assert.Equal(t, Pixels(sizing.DefaultDimension), note.Width)
}

func TestNormalize_ItemReminders(t *testing.T) {
	doc := decodeAndNormalize(t, `{"groups": [{"id": "g1", "items": [
		{"id": "a", "type": "link", "title": "numeric", "url": "https://a.example", "reminderAt": 1735787045000.4, "reminderMinutes": 5},
		{"id": "b", "type": "link", "title": "date string", "reminderAt": "2025-01-02T03:04:05Z", "reminderMinutes": "10"},
		{"id": "c", "type": "link", "title": "garbage", "reminderAt": "not a date", "reminderMinutes": 5},
		{"id": "d", "type": "link", "title": "minutes only", "reminderMinutes": 15},
		{"id": "e", "type": "link", "title": "bad minutes", "reminderAt": 1735787045000, "reminderMinutes": -2},
		{"id": "f", "type": "link", "title": "fractional minutes", "reminderAt": 1735787045000, "reminderMinutes": 2.5},
		{"id": "g", "type": "unknown", "title": "no reminder"}
	]}]}`)

	group, err := doc.FindLinkGroup("g1")
	require.NoError(t, err)
	require.Len(t, group.Items, 7)

	at := int64(1735787045000)
	five, ten := 5, 10
	want := []struct {
		at      *int64
		minutes *int
	}{
		{at: &at, minutes: &five},
		{at: &at, minutes: &ten},
		{},
		{},
		{at: &at},
		{at: &at},
		{},
	}
	for i, w := range want {
		item := group.Items[i]
		assert.Equal(t, w.at, item.ReminderAt, "item %s reminderAt", item.ID)
		assert.Equal(t, w.minutes, item.ReminderMinutes, "item %s reminderMinutes", item.ID)
		if item.ReminderMinutes != nil {
			assert.NotNil(t, item.ReminderAt, "minutes never appear without a due time")
		}
		assert.Equal(t, "", item.Icon)
		assert.Equal(t, "", item.IconURL)
	}
	assert.Equal(t, ItemLink, group.Items[6].Type)
}

func TestNormalize_ItemIconsAlwaysSerialized(t *testing.T) {
	doc := decodeAndNormalize(t, `{"groups": [{"id": "g1", "items": [{"id": "a", "title": "x"}]}]}`)
	data, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"icon":""`)
	assert.Contains(t, string(data), `"iconUrl":""`)
}

func TestNormalize_GroupDimensions(t *testing.T) {
	doc := decodeAndNormalize(t, `{"groups": [
		{"id": "small", "size": "sm"},
		{"id": "large", "size": "lg"},
		{"id": "plain"},
		{"id": "custom", "width": 437.4, "height": "360"},
		{"id": "chart", "type": "chart", "url": "https://chart.example", "size": "lg"}
	]}`)
	require.Len(t, doc.Groups, 5)

	tests := []struct {
		index        int
		width        Pixels
		height       Pixels
		wSize, hSize sizing.Tag
		customWidth  *int
	}{
		{index: 0, width: 240, height: 240, wSize: sizing.Small, hSize: sizing.Small},
		{index: 1, width: 480, height: 480, wSize: sizing.Large, hSize: sizing.Large},
		{index: 2, width: 360, height: 360, wSize: sizing.Medium, hSize: sizing.Medium},
		{index: 3, width: 437, height: 360, wSize: sizing.Large, hSize: sizing.Medium, customWidth: intPtr(437)},
		{index: 4, width: 480, height: 480, wSize: sizing.Large, hSize: sizing.Large},
	}
	for _, tt := range tests {
		dims := doc.Groups[tt.index].Dims()
		assert.Equal(t, tt.width, dims.Width, "group %d", tt.index)
		assert.Equal(t, tt.height, dims.Height, "group %d", tt.index)
		assert.Equal(t, tt.wSize, dims.WSize, "group %d", tt.index)
		assert.Equal(t, tt.hSize, dims.HSize, "group %d", tt.index)
		assert.Equal(t, tt.customWidth, dims.CustomWidth, "group %d", tt.index)
		assert.Equal(t, sizing.Tag(""), dims.LegacySize)
	}

	data, err := Encode(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"size":`)

	chart, ok := doc.Groups[4].(*Chart)
	require.True(t, ok)
	assert.Equal(t, Pixels(DefaultChartHeight), chart.H)
}

func TestNormalize_CustomReminders(t *testing.T) {
	doc := decodeAndNormalize(t, `{"groups": [], "customReminders": [
		{"id": "keep", "title": "Tea", "at": 1735787045000, "minutes": 3, "createdAt": 1735786865000},
		{"title": "no id", "at": "2025-01-02T03:04:05Z", "minutes": -4},
		{"id": "nan", "title": "bad", "at": "soon"},
		{"id": "missing", "title": "no at"},
		{"id": "keep", "title": "duplicate id", "at": 1735787045000, "minutes": null},
		"not an object"
	]}`)

	require.Len(t, doc.CustomReminders, 3)

	first := doc.CustomReminders[0]
	assert.Equal(t, ID("keep"), first.ID)
	assert.Equal(t, 3, *first.Minutes)
	assert.Equal(t, int64(1735786865000), first.CreatedAt)

	second := doc.CustomReminders[1]
	assert.NotEmpty(t, second.ID)
	require.NotNil(t, second.Minutes)
	assert.Equal(t, 0, *second.Minutes)
	assert.Equal(t, testNow.UnixMilli(), second.CreatedAt)

	third := doc.CustomReminders[2]
	assert.NotEqual(t, ID("keep"), third.ID)
	assert.Nil(t, third.Minutes)
}

func TestNormalize_RemindersCard(t *testing.T) {
	tests := []struct {
		name string
		json string
		want *RemindersCard
	}{
		{
			name: "missing card",
			json: `{"groups": []}`,
			want: DefaultRemindersCard(),
		},
		{
			name: "malformed card",
			json: `{"groups": [], "remindersCard": "yes"}`,
			want: DefaultRemindersCard(),
		},
		{
			name: "loosely typed card",
			json: `{"groups": [], "remindersCard": {"enabled": 1, "title": 42, "wSize": "lg", "height": 240, "showQuick": false}}`,
			want: &RemindersCard{
				Enabled:   true,
				Title:     DefaultCardTitle,
				Width:     480,
				Height:    240,
				WSize:     sizing.Large,
				HSize:     sizing.Small,
				ShowQuick: false,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeAndNormalize(t, tt.json)
			assert.Equal(t, tt.want, doc.RemindersCard)
		})
	}
}

func TestNormalize_DocumentFields(t *testing.T) {
	tests := []struct {
		name         string
		json         string
		title        string
		icon         string
		iconImage    string
		remindersPos int
	}{
		{
			name:  "defaults",
			json:  `{"groups": []}`,
			title: DefaultTitle,
		},
		{
			name:         "non-numeric reminders position",
			json:         `{"title": "Desk", "groups": [], "remindersPos": "left"}`,
			title:        "Desk",
			remindersPos: 0,
		},
		{
			name:         "numeric string reminders position",
			json:         `{"title": "Desk", "groups": [{"id": "a"}, {"id": "b"}, {"id": "c"}], "remindersPos": "2"}`,
			title:        "Desk",
			remindersPos: 2,
		},
		{
			name:         "reminders position past the last group",
			json:         `{"title": "Desk", "groups": [{"id": "a"}, {"id": "b"}], "remindersPos": 9}`,
			title:        "Desk",
			remindersPos: 2,
		},
		{
			name:         "negative reminders position",
			json:         `{"title": "Desk", "groups": [{"id": "a"}], "remindersPos": -3}`,
			title:        "Desk",
			remindersPos: 0,
		},
		{
			name:      "image wins over emoji icon",
			json:      `{"title": "   ", "icon": "🚀", "iconImage": "data:image/png;base64,AA==", "groups": []}`,
			title:     DefaultTitle,
			iconImage: "data:image/png;base64,AA==",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeAndNormalize(t, tt.json)
			assert.Equal(t, tt.title, doc.Title)
			assert.Equal(t, tt.icon, doc.Icon)
			assert.Equal(t, tt.iconImage, doc.IconImage)
			assert.Equal(t, tt.remindersPos, doc.RemindersPos)
			assert.NotNil(t, doc.CustomReminders)
		})
	}
}

func TestNormalize_DuplicateIDs(t *testing.T) {
	doc := decodeAndNormalize(t, `{"groups": [
		{"id": 7, "items": [{"id": "x"}, {"id": "x"}, {}]},
		{"id": "7", "items": [{"id": "x"}]},
		{"type": "note", "title": "n"}
	]}`)

	ids := map[ID]bool{}
	for _, g := range doc.Groups {
		assert.NotEmpty(t, g.GroupID())
		assert.False(t, ids[g.GroupID()], "group id %s is unique", g.GroupID())
		ids[g.GroupID()] = true
	}
	assert.Equal(t, ID("7"), doc.Groups[0].GroupID())

	itemIDs := map[ID]bool{}
	for _, g := range doc.Groups {
		links, ok := g.(*LinkGroup)
		if !ok {
			continue
		}
		for _, it := range links.Items {
			assert.False(t, itemIDs[it.ID], "item id %s is unique", it.ID)
			itemIDs[it.ID] = true
		}
	}
	assert.Len(t, itemIDs, 4)
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := decodeAndNormalize(t, `{
		"title": "Home",
		"icon": "🏠",
		"notes": "legacy",
		"notesPos": 0,
		"remindersCard": {"enabled": true},
		"remindersPos": 1,
		"groups": [
			{"name": "Links", "size": "lg", "items": [
				{"title": "a", "url": "https://a.example", "reminderAt": "2025-01-02T03:04:05Z", "reminderMinutes": 5},
				{"title": "b", "type": "embed", "h": 200}
			]},
			{"type": "note", "name": "old name", "text": "hello"},
			{"type": "chart", "name": "Stats", "url": "https://chart.example", "width": 300, "height": 419}
		],
		"customReminders": [{"title": "Tea", "at": 1735787045000, "minutes": 3}]
	}`)

	first, err := Encode(doc)
	require.NoError(t, err)

	again, err := Decode(first)
	require.NoError(t, err)
	newTestNormalizer().Normalize(again)
	second, err := Encode(again)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))

	newTestNormalizer().Normalize(again)
	third, err := Encode(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(third))
}

func TestNormalize_NoteNameMirrorsTitle(t *testing.T) {
	doc := decodeAndNormalize(t, `{"groups": [
		{"type": "note", "name": "legacy name", "text": "a"},
		{"type": "note", "title": "Title", "name": "stale", "text": "b", "reminderAt": 1735787045000}
	]}`)
	first := doc.Groups[0].(*Note)
	assert.Equal(t, "legacy name", first.Title)
	assert.Equal(t, "legacy name", first.Name)
	second := doc.Groups[1].(*Note)
	assert.Equal(t, "Title", second.Title)
	assert.Equal(t, "Title", second.Name)
	assert.Empty(t, CollectReminders(doc), "notes never carry reminders")
}

func intPtr(v int) *int {
	return &v
}
