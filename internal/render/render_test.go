package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/dashboard"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

var reminderAt = time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC).UnixMilli()

func setupTest(t *testing.T) {
	t.Helper()
	color.NoColor = true
	clock.Location = time.UTC
	t.Cleanup(func() {
		clock.Location = time.Local
	})
}

func testDocument(t *testing.T) *board.Document {
	t.Helper()
	doc, err := board.Decode([]byte(`{
		"title": "Ops",
		"icon": "🚀",
		"groups": [
			{"id": "g1", "name": "Work", "width": 360, "height": 360, "wSize": "md", "hSize": "md", "items": [
				{"id": "i1", "type": "link", "title": "Stand-up", "url": "https://meet.example.com", "reminderAt": ` + strconv.FormatInt(reminderAt, 10) + `},
				{"id": "i2", "type": "sheet", "title": "Budget", "url": "https://sheets.example.com/1", "note": "Q1 numbers"}
			]},
			{"id": "n1", "type": "note", "title": "Todo", "text": "milk\neggs", "width": 240, "height": 240, "wSize": "sm", "hSize": "sm"},
			{"id": "c1", "type": "chart", "name": "Traffic", "url": "https://charts.example.com/t", "width": 480, "height": 360, "wSize": "lg", "hSize": "md"}
		],
		"remindersCard": {"enabled": true, "title": "Timers", "showQuick": false},
		"remindersPos": 1,
		"customReminders": [{"id": "r1", "title": "Tea", "at": ` + strconv.FormatInt(reminderAt+60000, 10) + `, "minutes": 3, "createdAt": 1}]
	}`))
	require.NoError(t, err)
	return doc
}

func TestConsole_Render(t *testing.T) {
	setupTest(t)
	doc := testDocument(t)

	var buf bytes.Buffer
	console := NewConsole(&buf)
	require.NoError(t, console.Render(dashboard.View{
		Document:  doc,
		Reminders: board.CollectReminders(doc),
		Form: reminder.FormState{
			Values: &reminder.FormValues{Title: "Call", Mode: "minutes", Minutes: "0"},
			Error:  "reminder minutes must be a positive whole number",
		},
	}))

	assert.Equal(t, `🚀 Ops

[Work] md/md
  • Stand-up  https://meet.example.com  ⏰ Mar 1 09:05
  • Budget  https://sheets.example.com/1
    Q1 numbers

[Timers]
  Mar 1 09:05  Stand-up item:i1
  Mar 1 09:06  Tea custom:r1
  (new reminder)
  title="Call" mode=minutes minutes=0 at=
  reminder minutes must be a positive whole number

[Note: Todo] sm/sm
  milk
  eggs

[Chart: Traffic] lg/md
  https://charts.example.com/t

`, buf.String())
}

func TestConsole_RenderEditing(t *testing.T) {
	setupTest(t)
	doc := testDocument(t)
	doc.RemindersCard.Enabled = false
	doc.Groups = doc.Groups[2:]

	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Render(dashboard.View{Document: doc, Editing: true}))
	assert.Equal(t, "🚀 Ops  (editing)\n\n[Chart: Traffic] lg/md #c1\n  https://charts.example.com/t\n\n", buf.String())
}

func TestConsole_Highlight(t *testing.T) {
	setupTest(t)
	doc := testDocument(t)

	var buf bytes.Buffer
	console := NewConsole(&buf)
	assert.False(t, console.Highlight(map[string]string{"item": "i1"}), "nothing rendered yet")

	require.NoError(t, console.Render(dashboard.View{Document: doc, Reminders: board.CollectReminders(doc)}))
	buf.Reset()

	assert.True(t, console.Highlight(map[string]string{"key": "item:i1", "item": "i1", "group": "g1"}))
	assert.True(t, console.Highlight(map[string]string{"key": "custom:r1", "reminder": "r1"}))
	assert.False(t, console.Highlight(map[string]string{"key": "custom:gone"}))
	assert.False(t, console.Highlight(map[string]string{"item": "gone"}))
	assert.Equal(t, " ▶ Work › Stand-up \n ▶ Tea \n", buf.String())
}

func TestMarkdown(t *testing.T) {
	setupTest(t)
	doc := testDocument(t)
	doc.Groups[0].(*board.LinkGroup).Name = "Work_stuff"

	assert.Equal(t, `# 🚀 Ops

## Work\_stuff

- [Stand-up](https://meet.example.com) ⏰ Mar 1 09:05
- [Budget](https://sheets.example.com/1) _(sheet)_
  Q1 numbers

## Todo

> milk
> eggs

## Traffic

[https://charts.example.com/t](https://charts.example.com/t)

## Timers

- Mar 1 09:05: Stand-up
- Mar 1 09:06: Tea

`, string(Markdown(doc)))
}

func TestWritePDF(t *testing.T) {
	setupTest(t)

	_, err := WritePDF(testDocument(t), filepath.Join(t.TempDir(), "board.txt"))
	assert.ErrorContains(t, err, "output file must have .pdf extension")

	pdfPath := filepath.Join(t.TempDir(), "board.pdf")
	got, err := WritePDF(testDocument(t), pdfPath)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	info, err := os.Stat(pdfPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestYAML(t *testing.T) {
	doc := testDocument(t)

	out, err := YAML(doc)
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(out, &tree))
	assert.Equal(t, "Ops", tree["title"])
	groups, ok := tree["groups"].([]any)
	require.True(t, ok)
	require.Len(t, groups, 3)
	assert.Equal(t, "note", groups[1].(map[string]any)["type"])

	reminders := tree["customReminders"].([]any)
	assert.Equal(t, reminderAt+60000, int64(reminders[0].(map[string]any)["at"].(int)))
}
