// Package dashboard orchestrates every change to the dashboard document: it asks the dialogs for input,
// persists the normalized document, keeps the reminder scheduler in sync, and re-renders.
package dashboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

// DefaultMaxIconBytes is the largest icon image accepted by SetIconImage.
const DefaultMaxIconBytes = 512 * 1024

var (
	ErrNotInitialized = errors.New("dashboard is not initialized")
	ErrInvalidIcon    = errors.New("icon must be an image")
)

// Controller owns the current document. All mutations are serialized and follow the sequence
// normalize, save, resync reminders, render.
type Controller struct {
	mu sync.Mutex

	store        *board.Store
	scheduler    *reminder.Scheduler
	form         *reminder.FormStore
	dialogs      Dialogs
	renderer     Renderer
	clock        clock.Clock
	validator    *formValidator
	maxIconBytes int

	doc     *board.Document
	editing bool
}

type Option func(*Controller)

func WithClock(c clock.Clock) Option {
	return func(controller *Controller) {
		controller.clock = c
	}
}

func WithFormStore(form *reminder.FormStore) Option {
	return func(controller *Controller) {
		controller.form = form
	}
}

func WithMaxIconBytes(n int) Option {
	return func(controller *Controller) {
		if n > 0 {
			controller.maxIconBytes = n
		}
	}
}

func NewController(
	store *board.Store,
	scheduler *reminder.Scheduler,
	dialogs Dialogs,
	renderer Renderer,
	opts ...Option,
) (*Controller, error) {
	v, err := newFormValidator()
	if err != nil {
		return nil, fmt.Errorf("newFormValidator > %w", err)
	}
	c := &Controller{
		store:        store,
		scheduler:    scheduler,
		form:         reminder.NewFormStore(),
		dialogs:      dialogs,
		renderer:     renderer,
		clock:        clock.Real{},
		validator:    v,
		maxIconBytes: DefaultMaxIconBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Init loads the stored document, seeding a new one when it is missing or unreadable.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("store.Load > %w", err)
	}
	if doc == nil {
		if doc, err = c.store.Seed(ctx); err != nil {
			return fmt.Errorf("store.Seed > %w", err)
		}
	}
	return c.commitLocked(ctx, doc)
}

// Reload replaces the document with the stored one without writing it back.
// It is used when another process changed the storage.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("store.Load > %w", err)
	}
	if doc == nil {
		slog.Default().Warn("stored dashboard could not be reloaded, keeping the current one")
		return nil
	}
	c.doc = doc
	c.syncLocked()
	c.renderLocked()
	return nil
}

// Close cancels every pending reminder timer.
func (c *Controller) Close() {
	c.scheduler.Stop()
}

// Document returns a copy of the current document.
func (c *Controller) Document() (*board.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return nil, ErrNotInitialized
	}
	return cloneDocument(c.doc)
}

// SetEditing toggles edit mode, which only affects rendering.
func (c *Controller) SetEditing(editing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = editing
	c.renderLocked()
}

// EnsurePermission asks for notification permission if it was never decided.
func (c *Controller) EnsurePermission(ctx context.Context) bool {
	return c.scheduler.EnsurePermission(ctx)
}

func (c *Controller) SetTitle(ctx context.Context, title string) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		doc.Title = strings.TrimSpace(title)
		return nil
	})
}

// SetIcon sets an emoji or text icon and drops any icon image.
func (c *Controller) SetIcon(ctx context.Context, icon string) error {
	return c.mutate(ctx, func(doc *board.Document) error {
		doc.Icon = strings.TrimSpace(icon)
		doc.IconImage = ""
		return nil
	})
}

// SetIconImage stores data as a data URL icon and drops the text icon. Data that is not a
// recognizable image or exceeds the size limit is rejected with ErrInvalidIcon.
func (c *Controller) SetIconImage(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty file: %w", ErrInvalidIcon)
	}
	if len(data) > c.maxIconBytes {
		return fmt.Errorf("%d bytes exceeds the %d byte limit: %w", len(data), c.maxIconBytes, ErrInvalidIcon)
	}
	mtype := mimetype.Detect(data)
	mediaType := strings.SplitN(mtype.String(), ";", 2)[0]
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("detected %s: %w", mediaType, ErrInvalidIcon)
	}

	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return c.mutate(ctx, func(doc *board.Document) error {
		doc.IconImage = dataURL
		doc.Icon = ""
		return nil
	})
}

func (c *Controller) now() time.Time {
	return c.clock.Now()
}

// mutate applies fn to a copy of the current document and commits the copy. The current document
// is left as it was when fn or the save fails.
func (c *Controller) mutate(ctx context.Context, fn func(doc *board.Document) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft, err := c.draftLocked()
	if err != nil {
		return err
	}
	if err := fn(draft); err != nil {
		return err
	}
	return c.commitLocked(ctx, draft)
}

func (c *Controller) draftLocked() (*board.Document, error) {
	if c.doc == nil {
		return nil, ErrNotInitialized
	}
	draft, err := cloneDocument(c.doc)
	if err != nil {
		return nil, fmt.Errorf("cloneDocument > %w", err)
	}
	return draft, nil
}

// read runs fn on the current document without committing.
func (c *Controller) read(fn func(doc *board.Document) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc == nil {
		return ErrNotInitialized
	}
	return fn(c.doc)
}

// commitLocked normalizes and saves doc, and makes it the current document only once it is stored.
func (c *Controller) commitLocked(ctx context.Context, doc *board.Document) error {
	c.store.Normalizer().Normalize(doc)
	if err := c.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("store.Save > %w", err)
	}
	c.doc = doc
	c.syncLocked()
	c.renderLocked()
	return nil
}

func (c *Controller) syncLocked() {
	refs := board.CollectReminders(c.doc)
	entries := make([]reminder.Entry, 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, reminder.Entry{
			Key:       ref.Key,
			At:        clock.FromMillis(ref.At),
			Title:     ref.Title,
			Body:      ref.Body,
			Data:      highlightData(ref),
			OnTrigger: c.onTrigger(ref),
		})
	}
	c.scheduler.Sync(entries)
}

func highlightData(ref board.ReminderRef) map[string]string {
	data := map[string]string{"key": ref.Key}
	if ref.GroupID != "" {
		data["group"] = string(ref.GroupID)
	}
	if ref.ItemID != "" {
		data["item"] = string(ref.ItemID)
	}
	if ref.ReminderID != "" {
		data["reminder"] = string(ref.ReminderID)
	}
	return data
}

func (c *Controller) renderLocked() {
	if c.renderer == nil || c.doc == nil {
		return
	}
	doc, err := cloneDocument(c.doc)
	if err != nil {
		slog.Default().Warn("failed to copy the dashboard for rendering", "error", err)
		return
	}
	view := View{
		Document:  doc,
		Editing:   c.editing,
		Form:      c.form.Get(),
		Reminders: board.CollectReminders(doc),
	}
	if err := c.renderer.Render(view); err != nil {
		slog.Default().Warn("failed to render the dashboard", "error", err)
	}
}

func cloneDocument(doc *board.Document) (*board.Document, error) {
	data, err := board.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("board.Encode > %w", err)
	}
	clone, err := board.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("board.Decode > %w", err)
	}
	return clone, nil
}

func (c *Controller) newID() board.ID {
	if n := c.store.Normalizer(); n.NewID != nil {
		return n.NewID()
	}
	return board.NewID()
}
