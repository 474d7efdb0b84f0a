// Package sizing classifies pixel dimensions into the sm/md/lg size tags used by dashboard cards.
package sizing

import (
	"math"
	"sort"
)

// Tag is a named size preset.
type Tag string

const (
	Small  Tag = "sm"
	Medium Tag = "md"
	Large  Tag = "lg"
)

// Preset is one named dimension value.
type Preset struct {
	Tag   Tag
	Value float64
}

// Presets is an ordered set of named dimension values.
type Presets []Preset

var (
	WidthPresets = Presets{
		{Tag: Small, Value: 240},
		{Tag: Medium, Value: 360},
		{Tag: Large, Value: 480},
	}
	HeightPresets = Presets{
		{Tag: Small, Value: 240},
		{Tag: Medium, Value: 360},
		{Tag: Large, Value: 480},
	}
)

// DefaultDimension is used when neither a dimension nor a tag is known.
const DefaultDimension = 360

func (presets Presets) sorted() Presets {
	result := make(Presets, len(presets))
	copy(result, presets)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value < result[j].Value
	})
	return result
}

// FromValue returns the preset closest to v using the midpoint between adjacent presets as the boundary.
// Values at a midpoint round up. NaN and infinities fall back to the smallest preset.
func (presets Presets) FromValue(v float64) Tag {
	ordered := presets.sorted()
	if len(ordered) == 0 {
		return ""
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ordered[0].Tag
	}
	for i := 0; i < len(ordered)-1; i++ {
		midpoint := (ordered[i].Value + ordered[i+1].Value) / 2
		if v < midpoint {
			return ordered[i].Tag
		}
	}
	return ordered[len(ordered)-1].Tag
}

// Value returns the pixel value of a tag. Unknown tags return the medium preset, or the
// first preset when there is no medium one.
func (presets Presets) Value(tag Tag) int {
	var fallback *Preset
	for i, p := range presets {
		if p.Tag == tag {
			return int(math.Round(p.Value))
		}
		if p.Tag == Medium {
			fallback = &presets[i]
		}
	}
	if fallback != nil {
		return int(math.Round(fallback.Value))
	}
	if len(presets) > 0 {
		return int(math.Round(presets[0].Value))
	}
	return DefaultDimension
}

// exact returns the tag whose value equals v after rounding, if any.
func (presets Presets) exact(v int) (Tag, bool) {
	for _, p := range presets {
		if int(math.Round(p.Value)) == v {
			return p.Tag, true
		}
	}
	return "", false
}

// SizeFromWidth classifies a width with the default width presets.
func SizeFromWidth(w float64) Tag {
	return WidthPresets.FromValue(w)
}

// SizeFromHeight classifies a height with the default height presets.
func SizeFromHeight(h float64) Tag {
	return HeightPresets.FromValue(h)
}

// DefaultWidth returns the pixel width of a tag.
func DefaultWidth(tag Tag) int {
	return WidthPresets.Value(tag)
}

// DefaultHeight returns the pixel height of a tag.
func DefaultHeight(tag Tag) int {
	return HeightPresets.Value(tag)
}

// SizePreset records which dimensions use a named preset. A nil field means the dimension is custom.
type SizePreset struct {
	Width  *Tag `json:"width"`
	Height *Tag `json:"height"`
}

// Classification distinguishes "uses the lg preset" from "was dragged to a size that happens to be near lg".
type Classification struct {
	SizePreset   SizePreset `json:"sizePreset"`
	CustomWidth  *int       `json:"customWidth"`
	CustomHeight *int       `json:"customHeight"`
}

// Classify matches each dimension to a preset on exact rounded equality and records it as custom otherwise.
func Classify(width, height float64) Classification {
	var result Classification

	w := int(math.Round(width))
	if tag, ok := WidthPresets.exact(w); ok {
		result.SizePreset.Width = &tag
	} else {
		result.CustomWidth = &w
	}

	h := int(math.Round(height))
	if tag, ok := HeightPresets.exact(h); ok {
		result.SizePreset.Height = &tag
	} else {
		result.CustomHeight = &h
	}
	return result
}
