package reminder

import (
	"sync"
)

// FormValues is the draft of a reminder being edited.
type FormValues struct {
	Title   string
	Mode    string
	Minutes string
	At      string
}

// FormState tracks an open reminder form. EditingID is empty when a new reminder is drafted.
type FormState struct {
	EditingID string
	Values    *FormValues
	Error     string
}

// Open reports whether a form is in progress.
func (s FormState) Open() bool {
	return s.EditingID != "" || s.Values != nil
}

// FormPatch sets the non-nil fields of a FormState.
type FormPatch struct {
	EditingID *string
	Values    *FormValues
	Error     *string
}

// FormStore is a single-slot holder for the reminder form, surviving re-renders.
type FormStore struct {
	mu    sync.Mutex
	state FormState
}

func NewFormStore() *FormStore {
	return &FormStore{}
}

// Get returns a copy of the current state.
func (f *FormStore) Get() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// Update shallow-merges patch into the state.
func (f *FormStore) Update(patch FormPatch) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if patch.EditingID != nil {
		f.state.EditingID = *patch.EditingID
	}
	if patch.Values != nil {
		values := *patch.Values
		f.state.Values = &values
	}
	if patch.Error != nil {
		f.state.Error = *patch.Error
	}
}

// Reset restores the empty state.
func (f *FormStore) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{}
}

// Set replaces the state. A nil state resets it.
func (f *FormStore) Set(state *FormState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state == nil {
		f.state = FormState{}
		return
	}
	f.state = state.clone()
}

func (s FormState) clone() FormState {
	if s.Values != nil {
		values := *s.Values
		s.Values = &values
	}
	return s
}
