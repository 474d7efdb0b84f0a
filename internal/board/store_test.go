package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/linkboard/internal/storage"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		stored    *string
		wantNil   bool
		wantTitle string
	}{
		{
			name:    "missing key",
			wantNil: true,
		},
		{
			name:    "corrupt JSON",
			stored:  strPtr(`{"groups": [`),
			wantNil: true,
		},
		{
			name:    "missing groups array",
			stored:  strPtr(`{"title": "x"}`),
			wantNil: true,
		},
		{
			name:    "groups is not an array",
			stored:  strPtr(`{"title": "x", "groups": {}}`),
			wantNil: true,
		},
		{
			name:    "top level array",
			stored:  strPtr(`[]`),
			wantNil: true,
		},
		{
			name:      "valid document is normalized",
			stored:    strPtr(`{"title": "", "groups": []}`),
			wantTitle: DefaultTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemoryKV()
			if tt.stored != nil {
				require.NoError(t, kv.Set(ctx, "linkboard", []byte(*tt.stored)))
			}
			store := NewStore(kv, "linkboard", newTestNormalizer())

			got, err := store.Load(ctx)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.NotNil(t, got.RemindersCard)
		})
	}
}

func TestStore_LoadStorageError(t *testing.T) {
	store := NewStore(failingKV{}, "linkboard", nil)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestStore_SeedThenLoad(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := NewStore(kv, "linkboard", newTestNormalizer())

	seeded, err := store.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, seeded.Title)
	assert.Empty(t, seeded.Groups)
	assert.False(t, seeded.RemindersCard.Enabled)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, loaded)
}

func TestStore_SaveIsVerbatim(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := NewStore(kv, "linkboard", newTestNormalizer())

	doc := &Document{Title: "", Groups: []Group{&LinkGroup{ID: "g"}}}
	require.NoError(t, store.Save(ctx, doc))

	raw, err := kv.Get(ctx, "linkboard")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title":""`)
	assert.Contains(t, string(raw), `"items":null`)
}

func TestStore_SaveError(t *testing.T) {
	store := NewStore(failingKV{}, "linkboard", nil)
	_, err := store.Seed(context.Background())
	assert.Error(t, err)
}

func strPtr(s string) *string {
	return &s
}
