package sizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeFromWidth(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		want  Tag
	}{
		{name: "exact small", width: 240, want: Small},
		{name: "below first midpoint", width: 299, want: Small},
		{name: "at first midpoint", width: 300, want: Medium},
		{name: "below second midpoint", width: 419, want: Medium},
		{name: "at second midpoint", width: 420, want: Large},
		{name: "far above largest", width: 600, want: Large},
		{name: "far below smallest", width: 10, want: Small},
		{name: "negative", width: -50, want: Small},
		{name: "NaN", width: math.NaN(), want: Small},
		{name: "positive infinity", width: math.Inf(1), want: Small},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SizeFromWidth(tt.width))
		})
	}
}

func TestSizeFromWidth_StableRoundTrip(t *testing.T) {
	for w := 0; w <= 800; w += 7 {
		tag := SizeFromWidth(float64(w))
		assert.Equal(t, tag, SizeFromWidth(float64(DefaultWidth(tag))), "width %d", w)
	}
}

func TestPresets_FromValue_Unsorted(t *testing.T) {
	presets := Presets{
		{Tag: Large, Value: 480},
		{Tag: Small, Value: 240},
		{Tag: Medium, Value: 360},
	}
	assert.Equal(t, Small, presets.FromValue(250))
	assert.Equal(t, Medium, presets.FromValue(350))
	assert.Equal(t, Large, presets.FromValue(470))
	assert.Equal(t, Tag(""), Presets{}.FromValue(100))
}

func TestDefaultWidth(t *testing.T) {
	tests := []struct {
		tag  Tag
		want int
	}{
		{tag: Small, want: 240},
		{tag: Medium, want: 360},
		{tag: Large, want: 480},
		{tag: "xl", want: 360},
		{tag: "", want: 360},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultWidth(tt.tag))
			assert.Equal(t, tt.want, DefaultHeight(tt.tag))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("both dimensions on presets", func(t *testing.T) {
		got := Classify(480, 240)
		require.NotNil(t, got.SizePreset.Width)
		require.NotNil(t, got.SizePreset.Height)
		assert.Equal(t, Large, *got.SizePreset.Width)
		assert.Equal(t, Small, *got.SizePreset.Height)
		assert.Nil(t, got.CustomWidth)
		assert.Nil(t, got.CustomHeight)
	})

	t.Run("dragged width near a preset is custom", func(t *testing.T) {
		got := Classify(437, 360.2)
		assert.Nil(t, got.SizePreset.Width)
		require.NotNil(t, got.CustomWidth)
		assert.Equal(t, 437, *got.CustomWidth)
		require.NotNil(t, got.SizePreset.Height)
		assert.Equal(t, Medium, *got.SizePreset.Height)
		assert.Nil(t, got.CustomHeight)
	})
}
