package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/reminder"
	"github.com/at-ishikawa/linkboard/internal/sizing"
)

type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportYAML     ExportFormat = "yaml"
	ExportMarkdown ExportFormat = "md"
	ExportPDF      ExportFormat = "pdf"
)

// Set implements pflag.Value.
func (f *ExportFormat) Set(v string) error {
	switch ExportFormat(v) {
	case ExportJSON, ExportYAML, ExportMarkdown, ExportPDF:
		*f = ExportFormat(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q, %q or %q", v, ExportJSON, ExportYAML, ExportMarkdown, ExportPDF)
	}
	return nil
}

// String implements pflag.Value.
func (f *ExportFormat) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *ExportFormat) Type() string {
	return "ExportFormat"
}

// ModeFlag selects how a reminder time is entered.
type ModeFlag reminder.Mode

// Set implements pflag.Value.
func (m *ModeFlag) Set(v string) error {
	switch reminder.Mode(v) {
	case reminder.ModeNone, reminder.ModeMinutes, reminder.ModeDatetime:
		*m = ModeFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", v, reminder.ModeNone, reminder.ModeMinutes, reminder.ModeDatetime)
	}
	return nil
}

// String implements pflag.Value.
func (m *ModeFlag) String() string {
	if m == nil {
		return ""
	}
	return string(*m)
}

// Type implements pflag.Value.
func (m *ModeFlag) Type() string {
	return "ModeFlag"
}

type ItemTypeFlag board.ItemType

// Set implements pflag.Value.
func (t *ItemTypeFlag) Set(v string) error {
	if !board.ItemType(v).Valid() {
		return fmt.Errorf("invalid value %q, valid values are %q, %q, %q or %q", v, board.ItemLink, board.ItemSheet, board.ItemChart, board.ItemEmbed)
	}
	*t = ItemTypeFlag(v)
	return nil
}

// String implements pflag.Value.
func (t *ItemTypeFlag) String() string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// Type implements pflag.Value.
func (t *ItemTypeFlag) Type() string {
	return "ItemTypeFlag"
}

// DimensionFlag is a pixel size given either as a number or as a size tag (sm, md, lg).
type DimensionFlag struct {
	presets sizing.Presets
	pixels  int
}

func newWidthFlag() *DimensionFlag {
	return &DimensionFlag{presets: sizing.WidthPresets}
}

func newHeightFlag() *DimensionFlag {
	return &DimensionFlag{presets: sizing.HeightPresets}
}

// Set implements pflag.Value.
func (d *DimensionFlag) Set(v string) error {
	switch tag := sizing.Tag(v); tag {
	case sizing.Small, sizing.Medium, sizing.Large:
		d.pixels = d.presets.Value(tag)
		return nil
	}
	pixels, err := strconv.Atoi(v)
	if err != nil || pixels <= 0 {
		return fmt.Errorf("invalid value %q, use a positive number of pixels or %q, %q or %q", v, sizing.Small, sizing.Medium, sizing.Large)
	}
	d.pixels = pixels
	return nil
}

// String implements pflag.Value.
func (d *DimensionFlag) String() string {
	if d == nil || d.pixels == 0 {
		return ""
	}
	return strconv.Itoa(d.pixels)
}

// Type implements pflag.Value.
func (d *DimensionFlag) Type() string {
	return "DimensionFlag"
}

func (d *DimensionFlag) Pixels() int {
	return d.pixels
}

var (
	_ pflag.Value = (*ExportFormat)(nil)
	_ pflag.Value = (*ModeFlag)(nil)
	_ pflag.Value = (*ItemTypeFlag)(nil)
	_ pflag.Value = (*DimensionFlag)(nil)
)
