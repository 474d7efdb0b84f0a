package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/at-ishikawa/linkboard/internal/clock"
)

// DefaultMaxTimerDelay is the longest single wait. Later reminders chain several waits.
const DefaultMaxTimerDelay = (1<<31 - 1) * time.Millisecond

const (
	defaultHighlightAttempts = 5
	defaultHighlightInterval = 200 * time.Millisecond
	defaultNotifyTimeout     = 10 * time.Second
)

// Scheduler keeps one timer per reminder key and fires each (key, due time) exactly once.
type Scheduler struct {
	mu sync.Mutex

	clock             clock.Clock
	platform          Platform
	alerter           Alerter
	highlighter       Highlighter
	maxDelay          time.Duration
	highlightAttempts int
	highlightInterval time.Duration
	notifyTimeout     time.Duration
	passive           bool

	seq       uint64
	scheduled map[string]*scheduled
	// fired remembers the due time of entries that fired but are still in the entry set,
	// so a resync before the trigger is consumed does not fire them again.
	fired map[string]time.Time
}

type scheduled struct {
	entry Entry
	seq   uint64
	timer clock.Timer
}

func (sch *scheduled) stop() {
	if sch.timer != nil {
		sch.timer.Stop()
	}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

func WithAlerter(a Alerter) Option {
	return func(s *Scheduler) {
		s.alerter = a
	}
}

func WithHighlighter(h Highlighter) Option {
	return func(s *Scheduler) {
		s.highlighter = h
	}
}

// WithMaxTimerDelay caps a single wait. Non-positive values keep the default.
func WithMaxTimerDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.maxDelay = d
		}
	}
}

// WithHighlightRetry sets how often the highlighter is tried before giving up.
func WithHighlightRetry(attempts int, interval time.Duration) Option {
	return func(s *Scheduler) {
		s.highlightAttempts = attempts
		s.highlightInterval = interval
	}
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithPassive tracks entries without arming timers. One-shot commands use it so that only the
// long-running watcher delivers reminders.
func WithPassive() Option {
	return func(s *Scheduler) {
		s.passive = true
	}
}

// NewScheduler creates a Scheduler. platform may be nil, in which case every reminder uses the fallback.
func NewScheduler(platform Platform, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:             clock.Real{},
		platform:          platform,
		maxDelay:          DefaultMaxTimerDelay,
		highlightAttempts: defaultHighlightAttempts,
		highlightInterval: defaultHighlightInterval,
		notifyTimeout:     defaultNotifyTimeout,
		scheduled:         make(map[string]*scheduled),
		fired:             make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync reconciles the pending timers with entries: new or moved entries are (re)scheduled and
// timers of entries no longer present are canceled. Entries already due fire on the next tick.
func (s *Scheduler) Sync(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desired := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		desired[e.Key] = e
	}

	for key, sch := range s.scheduled {
		if _, ok := desired[key]; !ok {
			sch.stop()
			delete(s.scheduled, key)
		}
	}
	for key, at := range s.fired {
		if e, ok := desired[key]; !ok || !e.At.Equal(at) {
			delete(s.fired, key)
		}
	}

	for key, e := range desired {
		if at, ok := s.fired[key]; ok && at.Equal(e.At) {
			continue
		}
		if current, ok := s.scheduled[key]; ok {
			if current.entry.At.Equal(e.At) {
				current.entry = e
				continue
			}
			current.stop()
			delete(s.scheduled, key)
		}
		s.scheduleLocked(e)
	}
}

// Pending returns the keys with an installed timer, sorted.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.scheduled))
	for key := range s.scheduled {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stop cancels every pending timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sch := range s.scheduled {
		sch.stop()
		delete(s.scheduled, key)
	}
	s.fired = make(map[string]time.Time)
}

// EnsurePermission asks the platform for permission while it is undecided and reports whether
// notifications are granted. A denied platform is never asked again.
func (s *Scheduler) EnsurePermission(ctx context.Context) bool {
	if s.platform == nil {
		return false
	}
	switch s.platform.Permission() {
	case PermissionGranted:
		return true
	case PermissionDenied:
		return false
	}

	permission, err := s.platform.RequestPermission(ctx)
	if err != nil {
		slog.Default().Warn("notification permission request failed", "error", err)
		return false
	}
	return permission == PermissionGranted
}

func (s *Scheduler) scheduleLocked(e Entry) {
	s.seq++
	sch := &scheduled{entry: e, seq: s.seq}
	s.scheduled[e.Key] = sch
	s.armLocked(sch)
}

// armLocked waits at most maxDelay; wake re-checks the remaining time and re-arms until due.
func (s *Scheduler) armLocked(sch *scheduled) {
	if s.passive {
		return
	}
	remaining := sch.entry.At.Sub(s.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	wait := remaining
	if wait > s.maxDelay {
		wait = s.maxDelay
	}
	key, seq := sch.entry.Key, sch.seq
	sch.timer = s.clock.AfterFunc(wait, func() {
		s.wake(key, seq)
	})
}

func (s *Scheduler) wake(key string, seq uint64) {
	s.mu.Lock()
	sch, ok := s.scheduled[key]
	if !ok || sch.seq != seq {
		s.mu.Unlock()
		return
	}
	if sch.entry.At.After(s.clock.Now()) {
		s.armLocked(sch)
		s.mu.Unlock()
		return
	}
	delete(s.scheduled, key)
	s.fired[key] = sch.entry.At
	entry := sch.entry
	s.mu.Unlock()

	s.fire(entry)
}

func (s *Scheduler) fire(entry Entry) {
	notification := Notification{
		Title: entry.Title,
		Body:  entry.Body,
		Tag:   entry.Key,
		OnClick: func() {
			s.highlight(entry.Data)
		},
	}

	delivered := false
	if s.platform != nil && s.platform.Permission() == PermissionGranted {
		if err := s.show(notification); err != nil {
			slog.Default().Warn("native notification failed, falling back to an alert",
				"key", entry.Key,
				"error", err)
		} else {
			delivered = true
		}
	}
	if !delivered {
		s.alert(notification)
		s.highlight(entry.Data)
	}

	slog.Default().Debug("reminder fired",
		"key", entry.Key,
		"at", entry.At,
		"native", delivered)
	if entry.OnTrigger != nil {
		entry.OnTrigger()
	}
}

func (s *Scheduler) show(notification Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("platform.Show panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()
	return s.platform.Show(ctx, notification)
}

func (s *Scheduler) alert(notification Notification) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("reminder alert panicked", "key", notification.Tag, "panic", r)
		}
	}()
	if s.alerter == nil {
		slog.Default().Info("reminder",
			"title", notification.Title,
			"body", notification.Body)
		return
	}
	s.alerter.Alert(notification)
}

func (s *Scheduler) highlight(data map[string]string) {
	if s.highlighter == nil || len(data) == 0 {
		return
	}
	s.tryHighlight(data, s.highlightAttempts)
}

func (s *Scheduler) tryHighlight(data map[string]string, attemptsLeft int) {
	found := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		return s.highlighter.Highlight(data)
	}()
	if found || attemptsLeft <= 1 {
		return
	}
	s.clock.AfterFunc(s.highlightInterval, func() {
		s.tryHighlight(data, attemptsLeft-1)
	})
}
