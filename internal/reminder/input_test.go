package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/linkboard/internal/clock"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestParseInput(t *testing.T) {
	clock.Location = time.UTC
	t.Cleanup(func() {
		clock.Location = time.Local
	})
	noon := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name  string
		input Input
		want  Parsed
	}{
		{
			name:  "minutes only",
			input: Input{Minutes: "5"},
			want:  Parsed{Mode: ModeMinutes, Minutes: 5},
		},
		{
			name:  "blank minutes",
			input: Input{Minutes: "   "},
			want:  Parsed{Mode: ModeNone},
		},
		{
			name:  "explicit minutes mode with zero collapses",
			input: Input{Mode: "minutes", Minutes: "0"},
			want:  Parsed{Mode: ModeNone},
		},
		{
			name:  "fractional minutes are floored",
			input: Input{Minutes: "2.9"},
			want:  Parsed{Mode: ModeMinutes, Minutes: 2},
		},
		{
			name:  "negative minutes",
			input: Input{Minutes: "-3"},
			want:  Parsed{Mode: ModeNone},
		},
		{
			name:  "datetime only",
			input: Input{At: "2025-03-01T12:00"},
			want:  Parsed{Mode: ModeDatetime, At: int64Ptr(noon)},
		},
		{
			name:  "datetime wins without a mode",
			input: Input{Minutes: "10", At: "2025-03-01T12:00"},
			want:  Parsed{Mode: ModeDatetime, At: int64Ptr(noon)},
		},
		{
			name:  "explicit minutes mode wins over a datetime",
			input: Input{Mode: "minutes", Minutes: "10", At: "2025-03-01T12:00"},
			want:  Parsed{Mode: ModeMinutes, Minutes: 10},
		},
		{
			name:  "explicit datetime mode with a bad date falls back to minutes",
			input: Input{Mode: "datetime", Minutes: "10", At: "not a date"},
			want:  Parsed{Mode: ModeMinutes, Minutes: 10},
		},
		{
			name:  "epoch milliseconds",
			input: Input{Mode: "datetime", At: "1740830400000"},
			want:  Parsed{Mode: ModeDatetime, At: int64Ptr(1740830400000)},
		},
		{
			name:  "explicit none with nothing usable",
			input: Input{Mode: "none"},
			want:  Parsed{Mode: ModeNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInput(tt.input))
		})
	}
}

func TestCoerceMinutes(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "", wantOK: false},
		{input: "  ", wantOK: false},
		{input: "abc", wantOK: false},
		{input: "NaN", wantOK: false},
		{input: "Inf", wantOK: false},
		{input: "0", want: 0, wantOK: true},
		{input: " 15 ", want: 15, wantOK: true},
		{input: "7.99", want: 7, wantOK: true},
		{input: "-2", want: 0, wantOK: true},
		{input: "1e12", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CoerceMinutes(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
