package reminder

import (
	"context"
)

// Permission is the notification permission state of a Platform.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is what a Platform shows when a reminder fires.
type Notification struct {
	Title   string
	Body    string
	Tag     string
	OnClick func()
}

//go:generate mockgen -source=platform.go -destination=../mocks/reminder/mock_platform.go -package=mock_reminder

// Platform delivers native notifications.
type Platform interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, notification Notification) error
}

// Alerter is the in-context fallback used when a native notification cannot be shown.
type Alerter interface {
	Alert(notification Notification)
}

// Highlighter focuses the element a reminder came from. It returns false when the element
// cannot be found yet.
type Highlighter interface {
	Highlight(data map[string]string) bool
}
