package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormStore(t *testing.T) {
	store := NewFormStore()
	assert.False(t, store.Get().Open())

	editing := "r-1"
	store.Update(FormPatch{EditingID: &editing})
	assert.Equal(t, FormState{EditingID: "r-1"}, store.Get())
	assert.True(t, store.Get().Open())

	store.Update(FormPatch{Values: &FormValues{Title: "Stretch", Minutes: "5"}})
	message := "Enter minutes or a date"
	store.Update(FormPatch{Error: &message})
	assert.Equal(t, FormState{
		EditingID: "r-1",
		Values:    &FormValues{Title: "Stretch", Minutes: "5"},
		Error:     "Enter minutes or a date",
	}, store.Get())

	store.Reset()
	assert.Equal(t, FormState{}, store.Get())
}

func TestFormStore_GetReturnsCopy(t *testing.T) {
	store := NewFormStore()
	store.Set(&FormState{Values: &FormValues{Title: "Tea"}})

	got := store.Get()
	got.Values.Title = "Coffee"

	assert.Equal(t, "Tea", store.Get().Values.Title)
}

func TestFormStore_Set(t *testing.T) {
	store := NewFormStore()
	values := &FormValues{Title: "Call", Mode: "datetime", At: "2025-03-01T10:00"}
	store.Set(&FormState{Values: values})
	values.Title = "changed"
	assert.Equal(t, "Call", store.Get().Values.Title)

	store.Set(nil)
	assert.False(t, store.Get().Open())
}
