// Package reminder schedules reminder notifications and holds the reminder form helpers.
package reminder

import (
	"time"
)

// Entry is a schedulable reminder derived from the dashboard document.
type Entry struct {
	Key   string
	At    time.Time
	Title string
	Body  string
	Data  map[string]string
	// OnTrigger consumes the reminder after it fired. It is invoked exactly once per Key and At.
	OnTrigger func()
}
