package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/sizing"
)

// ErrInvalidDocument is returned when data is not a JSON object with a groups array.
var ErrInvalidDocument = errors.New("document must be a JSON object with a groups array")

// Pixels is a dimension in CSS pixels. Decoding accepts fractional numbers and numeric strings;
// anything else decodes as zero, which Normalize treats as missing.
type Pixels int

func (p *Pixels) UnmarshalJSON(data []byte) error {
	f, ok := looseNumber(data)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		*p = 0
		return nil
	}
	*p = Pixels(math.Round(f))
	return nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var v any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return fmt.Errorf("decoder.Decode(id) > %w", err)
	}
	switch value := v.(type) {
	case string:
		*id = ID(value)
	case json.Number:
		*id = ID(value.String())
	default:
		*id = ""
	}
	return nil
}

// Decode parses a persisted or imported document without normalizing it.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode serializes a document verbatim.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(document) > %w", err)
	}
	return data, nil
}

func (doc *Document) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("json.Unmarshal(document) > %w: %w", ErrInvalidDocument, err)
	}
	groupsRaw, ok := fields["groups"]
	if !ok || !isJSONArray(groupsRaw) {
		return ErrInvalidDocument
	}

	var rawGroups []json.RawMessage
	if err := json.Unmarshal(groupsRaw, &rawGroups); err != nil {
		return fmt.Errorf("json.Unmarshal(groups) > %w", err)
	}

	*doc = Document{
		Title:        looseString(fields["title"]),
		Icon:         looseString(fields["icon"]),
		IconImage:    looseString(fields["iconImage"]),
		Groups:       make([]Group, 0, len(rawGroups)),
		RemindersPos: 0,
	}
	for i, raw := range rawGroups {
		group, err := decodeGroup(raw)
		if err != nil {
			slog.Default().Warn("dropped unreadable group", "index", i, "error", err)
			continue
		}
		doc.Groups = append(doc.Groups, group)
	}

	if raw, ok := fields["remindersCard"]; ok {
		var card RemindersCard
		if err := json.Unmarshal(raw, &card); err == nil {
			doc.RemindersCard = &card
		}
	}
	if pos, ok := looseNumber(fields["remindersPos"]); ok && pos < math.MaxInt32 {
		doc.RemindersPos = int(math.Floor(pos))
	}

	if raw, ok := fields["customReminders"]; ok && isJSONArray(raw) {
		var rawReminders []json.RawMessage
		if err := json.Unmarshal(raw, &rawReminders); err == nil {
			doc.CustomReminders = make([]CustomReminder, 0, len(rawReminders))
			for _, r := range rawReminders {
				var reminder CustomReminder
				if err := json.Unmarshal(r, &reminder); err != nil {
					continue
				}
				doc.CustomReminders = append(doc.CustomReminders, reminder)
			}
		}
	}

	doc.legacy = decodeLegacyNotes(fields)
	return nil
}

func (doc Document) MarshalJSON() ([]byte, error) {
	type alias Document
	groups := make([]json.RawMessage, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		data, err := json.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal(group %s) > %w", g.GroupID(), err)
		}
		groups = append(groups, data)
	}
	return json.Marshal(struct {
		alias
		Groups []json.RawMessage `json:"groups"`
	}{
		alias:  alias(doc),
		Groups: groups,
	})
}

func decodeGroup(raw json.RawMessage) (Group, error) {
	var head struct {
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(group type) > %w", err)
	}
	if !isJSONObject(raw) {
		return nil, fmt.Errorf("group is not an object")
	}

	switch GroupKind(looseString(head.Type)) {
	case KindNote:
		var note Note
		if err := json.Unmarshal(dropMistyped("note", raw, noteFieldTypes), &note); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(note) > %w", err)
		}
		return &note, nil
	case KindChart:
		var chart Chart
		if err := json.Unmarshal(dropMistyped("chart", raw, chartFieldTypes), &chart); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(chart) > %w", err)
		}
		return &chart, nil
	default:
		var group LinkGroup
		if err := json.Unmarshal(dropMistyped("link group", raw, linkGroupFieldTypes), &group); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(link group) > %w", err)
		}
		return &group, nil
	}
}

func (g *LinkGroup) UnmarshalJSON(data []byte) error {
	type alias LinkGroup
	aux := struct {
		*alias
		Items json.RawMessage `json:"items"`
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	g.Items = []Item{}
	if !isJSONArray(aux.Items) {
		return nil
	}
	var rawItems []json.RawMessage
	if err := json.Unmarshal(aux.Items, &rawItems); err != nil {
		return fmt.Errorf("json.Unmarshal(items) > %w", err)
	}
	for i, raw := range rawItems {
		if !isJSONObject(raw) {
			slog.Default().Warn("dropped item that is not an object", "group", g.ID, "index", i)
			continue
		}
		var item Item
		if err := json.Unmarshal(dropMistyped("item", raw, itemFieldTypes), &item); err != nil {
			slog.Default().Warn("dropped unreadable item", "group", g.ID, "index", i, "error", err)
			continue
		}
		g.Items = append(g.Items, item)
	}
	return nil
}

func (g *Note) MarshalJSON() ([]byte, error) {
	type alias Note
	return json.Marshal(struct {
		Type GroupKind `json:"type"`
		*alias
	}{Type: KindNote, alias: (*alias)(g)})
}

func (g *Chart) MarshalJSON() ([]byte, error) {
	type alias Chart
	return json.Marshal(struct {
		Type GroupKind `json:"type"`
		*alias
	}{Type: KindChart, alias: (*alias)(g)})
}

func (it *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	aux := struct {
		*alias
		ReminderAt      json.RawMessage `json:"reminderAt"`
		ReminderMinutes json.RawMessage `json:"reminderMinutes"`
	}{alias: (*alias)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	it.ReminderAt = nil
	if at, ok := looseTimestamp(aux.ReminderAt); ok {
		it.ReminderAt = &at
	}
	it.ReminderMinutes = nil
	if minutes, ok := looseNumber(aux.ReminderMinutes); ok && minutes == math.Trunc(minutes) && minutes >= 1 && minutes <= math.MaxInt32 {
		m := int(minutes)
		it.ReminderMinutes = &m
	}
	return nil
}

func (r *CustomReminder) UnmarshalJSON(data []byte) error {
	type alias CustomReminder
	aux := struct {
		*alias
		At        json.RawMessage `json:"at"`
		Minutes   json.RawMessage `json:"minutes"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	at, ok := looseTimestamp(aux.At)
	r.At = at
	r.invalidAt = !ok

	r.Minutes = nil
	if minutes, ok := looseNumber(aux.Minutes); ok && minutes <= math.MaxInt32 {
		m := int(math.Max(0, math.Floor(minutes)))
		r.Minutes = &m
	}

	r.CreatedAt = 0
	if createdAt, ok := looseTimestamp(aux.CreatedAt); ok {
		r.CreatedAt = createdAt
	}
	return nil
}

func (c *RemindersCard) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("json.Unmarshal(remindersCard) > %w", err)
	}
	if fields == nil {
		return fmt.Errorf("remindersCard is null")
	}

	card := DefaultRemindersCard()
	card.Enabled = truthy(fields["enabled"])
	if title, ok := fields["title"].(string); ok && strings.TrimSpace(title) != "" {
		card.Title = title
	}
	if showQuick, ok := fields["showQuick"].(bool); ok {
		card.ShowQuick = showQuick
	}
	card.Width = cardDimension(fields["width"], fields["wSize"], sizing.DefaultWidth)
	card.Height = cardDimension(fields["height"], fields["hSize"], sizing.DefaultHeight)
	card.WSize = sizing.SizeFromWidth(float64(card.Width))
	card.HSize = sizing.SizeFromHeight(float64(card.Height))

	*c = *card
	return nil
}

func cardDimension(value, tag any, fromTag func(sizing.Tag) int) Pixels {
	if f, ok := value.(float64); ok && f >= 1 && f <= math.MaxInt32 {
		return Pixels(math.Round(f))
	}
	if s, ok := tag.(string); ok {
		return Pixels(fromTag(sizing.Tag(s)))
	}
	return sizing.DefaultDimension
}

func decodeLegacyNotes(fields map[string]json.RawMessage) *legacyNotes {
	_, hasText := fields["notes"]
	_, hasTitle := fields["notesTitle"]
	_, hasOpts := fields["notesOpts"]
	_, hasBox := fields["notesBox"]
	if !hasText && !hasTitle && !hasOpts && !hasBox {
		return nil
	}

	legacy := legacyNotes{
		Text:  looseString(fields["notes"]),
		Title: looseString(fields["notesTitle"]),
	}
	var opts struct {
		FontSize Pixels `json:"fontSize"`
		Padding  Pixels `json:"padding"`
		Color    any    `json:"color"`
	}
	if err := json.Unmarshal(fields["notesOpts"], &opts); err == nil {
		legacy.FontSize = opts.FontSize
		legacy.Padding = opts.Padding
		if color, ok := opts.Color.(string); ok {
			legacy.Color = color
		}
	}
	var box struct {
		Width  Pixels `json:"width"`
		Height Pixels `json:"height"`
	}
	if err := json.Unmarshal(fields["notesBox"], &box); err == nil {
		legacy.Width = box.Width
		legacy.Height = box.Height
	}
	if pos, ok := looseNumber(fields["notesPos"]); ok && pos < math.MaxInt32 {
		legacy.Pos = int(math.Floor(pos))
	}
	return &legacy
}

// fieldTypes maps a JSON field name to a constructor of the Go value it decodes into.
type fieldTypes map[string]func() any

func textFields(names ...string) fieldTypes {
	types := make(fieldTypes, len(names))
	for _, name := range names {
		types[name] = func() any { return new(string) }
	}
	return types
}

func (types fieldTypes) with(other fieldTypes) fieldTypes {
	merged := make(fieldTypes, len(types)+len(other))
	for name, newValue := range types {
		merged[name] = newValue
	}
	for name, newValue := range other {
		merged[name] = newValue
	}
	return merged
}

var (
	dimensionFieldTypes = textFields("wSize", "hSize", "size").with(fieldTypes{
		"sizePreset":   func() any { return new(sizing.SizePreset) },
		"customWidth":  func() any { return new(*int) },
		"customHeight": func() any { return new(*int) },
	})
	linkGroupFieldTypes      = textFields("name", "color").with(dimensionFieldTypes)
	noteFieldTypes           = textFields("title", "name", "text", "color").with(dimensionFieldTypes)
	chartFieldTypes          = textFields("name", "url").with(dimensionFieldTypes)
	itemFieldTypes           = textFields("type", "title", "url", "note", "icon", "iconUrl")
	customReminderFieldTypes = textFields("title")
)

// dropMistyped removes the fields of the JSON object raw that do not decode into their Go type, so a
// mistyped field decodes as its zero value and Normalize fills it in. Other fields are kept as they are.
func dropMistyped(entry string, raw json.RawMessage, types fieldTypes) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return raw
	}
	var dropped []string
	for name, value := range fields {
		newValue, ok := types[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, newValue()); err != nil {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) == 0 {
		return raw
	}
	for _, name := range dropped {
		delete(fields, name)
	}
	repaired, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	sort.Strings(dropped)
	slog.Default().Warn("ignored mistyped fields", "entry", entry, "id", looseString(fields["id"]), "fields", dropped)
	return repaired
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// looseString returns raw as a string when it is a JSON string and "" otherwise.
func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// looseNumber accepts JSON numbers and numeric strings.
func looseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// looseTimestamp accepts epoch-millisecond numbers and numeric or date strings.
func looseTimestamp(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch value := v.(type) {
	case float64:
		return clock.RoundMillis(value)
	case string:
		return clock.ParseTimestamp(value)
	}
	return 0, false
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0 && !math.IsNaN(value)
	case string:
		return value != ""
	}
	return true
}
