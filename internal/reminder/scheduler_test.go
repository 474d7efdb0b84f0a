package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/linkboard/internal/clock"
	mock_reminder "github.com/at-ishikawa/linkboard/internal/mocks/reminder"
	"github.com/at-ishikawa/linkboard/internal/reminder"
)

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type triggerLog struct {
	mu    sync.Mutex
	calls map[string]int
}

func newTriggerLog() *triggerLog {
	return &triggerLog{calls: map[string]int{}}
}

func (l *triggerLog) entry(key string, at time.Time) reminder.Entry {
	return reminder.Entry{
		Key:   key,
		At:    at,
		Title: "title " + key,
		Body:  "body " + key,
		Data:  map[string]string{"key": key},
		OnTrigger: func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.calls[key]++
		},
	}
}

func (l *triggerLog) count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[key]
}

func deniedPlatform(ctrl *gomock.Controller) *mock_reminder.MockPlatform {
	platform := mock_reminder.NewMockPlatform(ctrl)
	platform.EXPECT().Permission().Return(reminder.PermissionDenied).AnyTimes()
	return platform
}

func TestScheduler_SyncFiresAtDueTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	alerter := mock_reminder.NewMockAlerter(ctrl)
	alerter.EXPECT().Alert(gomock.Any()).Times(2)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl), reminder.WithClock(fake), reminder.WithAlerter(alerter))
	s.Sync([]reminder.Entry{
		triggers.entry("item:a", start.Add(5*time.Minute)),
		triggers.entry("custom:b", start.Add(10*time.Minute)),
	})
	assert.Equal(t, []string{"custom:b", "item:a"}, s.Pending())

	fake.Advance(5*time.Minute - time.Second)
	assert.Equal(t, 0, triggers.count("item:a"))

	fake.Advance(time.Second)
	assert.Equal(t, 1, triggers.count("item:a"))
	assert.Equal(t, 0, triggers.count("custom:b"))
	assert.Equal(t, []string{"custom:b"}, s.Pending())

	fake.Advance(time.Hour)
	assert.Equal(t, 1, triggers.count("item:a"))
	assert.Equal(t, 1, triggers.count("custom:b"))
	assert.Empty(t, s.Pending())
}

func TestScheduler_SyncIsStable(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	alerter := mock_reminder.NewMockAlerter(ctrl)
	alerter.EXPECT().Alert(gomock.Any()).Times(1)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl), reminder.WithClock(fake), reminder.WithAlerter(alerter))
	entries := []reminder.Entry{triggers.entry("item:a", start.Add(time.Minute))}

	s.Sync(entries)
	s.Sync(entries)
	s.Sync(entries)
	assert.Equal(t, 1, fake.Pending(), "no duplicate timers")
	assert.Equal(t, []string{"item:a"}, s.Pending())

	fake.Advance(time.Minute)
	assert.Equal(t, 1, triggers.count("item:a"))

	// The trigger has not been consumed yet: resyncing the same entry must not fire it again.
	s.Sync(entries)
	fake.Advance(time.Minute)
	assert.Equal(t, 1, triggers.count("item:a"))
	assert.Empty(t, s.Pending())
}

func TestScheduler_RescheduleMovedEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	alerter := mock_reminder.NewMockAlerter(ctrl)
	alerter.EXPECT().Alert(gomock.Any()).Times(1)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl), reminder.WithClock(fake), reminder.WithAlerter(alerter))
	s.Sync([]reminder.Entry{triggers.entry("custom:a", start.Add(time.Minute))})
	s.Sync([]reminder.Entry{triggers.entry("custom:a", start.Add(10*time.Minute))})
	assert.Equal(t, 1, fake.Pending())

	fake.Advance(5 * time.Minute)
	assert.Equal(t, 0, triggers.count("custom:a"), "the old due time is canceled")

	fake.Advance(5 * time.Minute)
	assert.Equal(t, 1, triggers.count("custom:a"))
}

func TestScheduler_RemovedEntryIsCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl), reminder.WithClock(fake))
	s.Sync([]reminder.Entry{
		triggers.entry("item:a", start.Add(time.Minute)),
		triggers.entry("item:b", start.Add(time.Minute)),
	})
	s.Sync([]reminder.Entry{triggers.entry("item:b", start.Add(time.Minute))})
	assert.Equal(t, []string{"item:b"}, s.Pending())

	s.Sync(nil)
	assert.Empty(t, s.Pending())
	assert.Equal(t, 0, fake.Pending())

	fake.Advance(time.Hour)
	assert.Equal(t, 0, triggers.count("item:a"))
	assert.Equal(t, 0, triggers.count("item:b"))
}

func TestScheduler_PastDueFiresOnNextTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl), reminder.WithClock(fake))
	s.Sync([]reminder.Entry{
		triggers.entry("item:late", start.Add(-time.Hour)),
		triggers.entry("item:future", start.Add(time.Hour)),
	})
	assert.Equal(t, 0, triggers.count("item:late"), "never fires inside Sync")

	fake.Advance(0)
	assert.Equal(t, 1, triggers.count("item:late"))
	assert.Equal(t, []string{"item:future"}, s.Pending())
}

func TestScheduler_ChainsLongDelays(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl),
		reminder.WithClock(fake),
		reminder.WithMaxTimerDelay(time.Hour),
	)
	due := start.Add(5*time.Hour + 30*time.Minute)
	s.Sync([]reminder.Entry{triggers.entry("custom:far", due)})

	fake.Advance(5 * time.Hour)
	assert.Equal(t, 0, triggers.count("custom:far"))
	assert.Equal(t, []string{"custom:far"}, s.Pending())
	assert.Equal(t, 1, fake.Pending(), "one chained timer at a time")

	fake.Advance(30*time.Minute - time.Millisecond)
	assert.Equal(t, 0, triggers.count("custom:far"))

	fake.Advance(time.Millisecond)
	assert.Equal(t, 1, triggers.count("custom:far"))
}

func TestScheduler_NativeNotification(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(platform *mock_reminder.MockPlatform, alerter *mock_reminder.MockAlerter)
		highlight bool
	}{
		{
			name: "granted shows a native notification",
			setup: func(platform *mock_reminder.MockPlatform, alerter *mock_reminder.MockAlerter) {
				platform.EXPECT().Permission().Return(reminder.PermissionGranted).AnyTimes()
				platform.EXPECT().Show(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, n reminder.Notification) error {
						assert.Equal(t, "title item:a", n.Title)
						assert.Equal(t, "body item:a", n.Body)
						assert.Equal(t, "item:a", n.Tag)
						assert.NotNil(t, n.OnClick)
						return nil
					})
			},
		},
		{
			name: "platform error falls back to an alert",
			setup: func(platform *mock_reminder.MockPlatform, alerter *mock_reminder.MockAlerter) {
				platform.EXPECT().Permission().Return(reminder.PermissionGranted).AnyTimes()
				platform.EXPECT().Show(gomock.Any(), gomock.Any()).Return(errors.New("notification daemon gone"))
				alerter.EXPECT().Alert(gomock.Any())
			},
			highlight: true,
		},
		{
			name: "platform panic falls back to an alert",
			setup: func(platform *mock_reminder.MockPlatform, alerter *mock_reminder.MockAlerter) {
				platform.EXPECT().Permission().Return(reminder.PermissionGranted).AnyTimes()
				platform.EXPECT().Show(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, reminder.Notification) error {
					panic("boom")
				})
				alerter.EXPECT().Alert(gomock.Any())
			},
			highlight: true,
		},
		{
			name: "undecided permission uses the fallback",
			setup: func(platform *mock_reminder.MockPlatform, alerter *mock_reminder.MockAlerter) {
				platform.EXPECT().Permission().Return(reminder.PermissionDefault).AnyTimes()
				alerter.EXPECT().Alert(gomock.Any())
			},
			highlight: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fake := clock.NewFake(start)
			platform := mock_reminder.NewMockPlatform(ctrl)
			alerter := mock_reminder.NewMockAlerter(ctrl)
			highlighter := mock_reminder.NewMockHighlighter(ctrl)
			tt.setup(platform, alerter)
			if tt.highlight {
				highlighter.EXPECT().Highlight(map[string]string{"key": "item:a"}).Return(true)
			}
			triggers := newTriggerLog()

			s := reminder.NewScheduler(platform,
				reminder.WithClock(fake),
				reminder.WithAlerter(alerter),
				reminder.WithHighlighter(highlighter),
			)
			s.Sync([]reminder.Entry{triggers.entry("item:a", start.Add(time.Second))})
			fake.Advance(time.Second)

			assert.Equal(t, 1, triggers.count("item:a"), "the reminder is always consumed")
		})
	}
}

func TestScheduler_HighlightRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	highlighter := mock_reminder.NewMockHighlighter(ctrl)
	gomock.InOrder(
		highlighter.EXPECT().Highlight(gomock.Any()).Return(false),
		highlighter.EXPECT().Highlight(gomock.Any()).Return(false),
		highlighter.EXPECT().Highlight(gomock.Any()).Return(true),
	)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl),
		reminder.WithClock(fake),
		reminder.WithHighlighter(highlighter),
		reminder.WithHighlightRetry(5, 100*time.Millisecond),
	)
	s.Sync([]reminder.Entry{triggers.entry("item:a", start)})
	fake.Advance(0)
	assert.Equal(t, 1, triggers.count("item:a"))

	fake.Advance(time.Second)
}

func TestScheduler_HighlightGivesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	highlighter := mock_reminder.NewMockHighlighter(ctrl)
	highlighter.EXPECT().Highlight(gomock.Any()).Return(false).Times(3)

	s := reminder.NewScheduler(deniedPlatform(ctrl),
		reminder.WithClock(fake),
		reminder.WithHighlighter(highlighter),
		reminder.WithHighlightRetry(3, 100*time.Millisecond),
	)
	s.Sync([]reminder.Entry{newTriggerLog().entry("item:a", start)})
	fake.Advance(time.Minute)
	assert.Equal(t, 0, fake.Pending())
}

func TestScheduler_EnsurePermission(t *testing.T) {
	tests := []struct {
		name  string
		setup func(platform *mock_reminder.MockPlatform)
		want  bool
	}{
		{
			name: "already granted",
			setup: func(platform *mock_reminder.MockPlatform) {
				platform.EXPECT().Permission().Return(reminder.PermissionGranted)
			},
			want: true,
		},
		{
			name: "denied is never asked again",
			setup: func(platform *mock_reminder.MockPlatform) {
				platform.EXPECT().Permission().Return(reminder.PermissionDenied)
			},
			want: false,
		},
		{
			name: "undecided asks once and is granted",
			setup: func(platform *mock_reminder.MockPlatform) {
				platform.EXPECT().Permission().Return(reminder.PermissionDefault)
				platform.EXPECT().RequestPermission(gomock.Any()).Return(reminder.PermissionGranted, nil)
			},
			want: true,
		},
		{
			name: "undecided asks and is refused",
			setup: func(platform *mock_reminder.MockPlatform) {
				platform.EXPECT().Permission().Return(reminder.PermissionDefault)
				platform.EXPECT().RequestPermission(gomock.Any()).Return(reminder.PermissionDenied, nil)
			},
			want: false,
		},
		{
			name: "request error",
			setup: func(platform *mock_reminder.MockPlatform) {
				platform.EXPECT().Permission().Return(reminder.PermissionDefault)
				platform.EXPECT().RequestPermission(gomock.Any()).Return(reminder.PermissionDefault, errors.New("no tty"))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			platform := mock_reminder.NewMockPlatform(ctrl)
			tt.setup(platform)

			s := reminder.NewScheduler(platform)
			assert.Equal(t, tt.want, s.EnsurePermission(context.Background()))
		})
	}

	require.False(t, reminder.NewScheduler(nil).EnsurePermission(context.Background()))
}

func TestScheduler_Stop(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl), reminder.WithClock(fake))
	s.Sync([]reminder.Entry{triggers.entry("item:a", start.Add(time.Minute))})
	s.Stop()

	fake.Advance(time.Hour)
	assert.Equal(t, 0, triggers.count("item:a"))
	assert.Empty(t, s.Pending())
}

func TestScheduler_Passive(t *testing.T) {
	ctrl := gomock.NewController(t)
	fake := clock.NewFake(start)
	triggers := newTriggerLog()

	s := reminder.NewScheduler(deniedPlatform(ctrl),
		reminder.WithClock(fake),
		reminder.WithAlerter(mock_reminder.NewMockAlerter(ctrl)),
		reminder.WithPassive())
	s.Sync([]reminder.Entry{
		triggers.entry("item:a", start.Add(-time.Minute)),
		triggers.entry("custom:b", start.Add(time.Minute)),
	})
	assert.Equal(t, []string{"custom:b", "item:a"}, s.Pending())
	assert.Equal(t, 0, fake.Pending())

	fake.Advance(time.Hour)
	assert.Equal(t, 0, triggers.count("item:a"))
	assert.Equal(t, 0, triggers.count("custom:b"))

	s.Sync(nil)
	assert.Empty(t, s.Pending())
	s.Stop()
}
