// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package preference

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned for a field name outside [Fields].
	ErrUnknownField = errors.New("preference: unknown field")

	// ErrInvalidValue is returned when a value has the wrong type for
	// its field or is not an allowed font size.
	ErrInvalidValue = errors.New("preference: invalid value")
)

// FontSize is the text scale preference. In the terminal it maps to
// spacing around content rather than glyph size.
type FontSize string

const (
	FontSmall      FontSize = "small"
	FontMedium     FontSize = "medium"
	FontLarge      FontSize = "large"
	FontExtraLarge FontSize = "extra-large"
)

// FontSizes lists the valid sizes from smallest to largest.
var FontSizes = []FontSize{FontSmall, FontMedium, FontLarge, FontExtraLarge}

// Valid reports whether size is one of [FontSizes].
func (size FontSize) Valid() bool {
	for _, candidate := range FontSizes {
		if size == candidate {
			return true
		}
	}
	return false
}

// Field names a preference. The string values are the keys of the
// persisted JSON blob.
type Field string

const (
	FieldReducedMotion Field = "reducedMotion"
	FieldHighContrast  Field = "highContrast"
	FieldFontSize      Field = "fontSize"
	FieldFocusVisible  Field = "focusVisible"
	FieldScreenReader  Field = "screenReader"
)

// Fields lists every preference field in persisted order.
var Fields = []Field{FieldReducedMotion, FieldHighContrast, FieldFontSize, FieldFocusVisible, FieldScreenReader}

// Settings is one complete set of accessibility preferences.
type Settings struct {
	ReducedMotion bool     `json:"reducedMotion"`
	HighContrast  bool     `json:"highContrast"`
	FontSize      FontSize `json:"fontSize"`
	FocusVisible  bool     `json:"focusVisible"`
	ScreenReader  bool     `json:"screenReader"`
}

// Defaults returns the hardcoded base layer.
func Defaults() Settings {
	return Settings{
		FontSize:     FontMedium,
		FocusVisible: true,
	}
}

// Value returns the value of field: a bool, or a FontSize for
// FieldFontSize.
func (settings Settings) Value(field Field) (any, error) {
	switch field {
	case FieldReducedMotion:
		return settings.ReducedMotion, nil
	case FieldHighContrast:
		return settings.HighContrast, nil
	case FieldFontSize:
		return settings.FontSize, nil
	case FieldFocusVisible:
		return settings.FocusVisible, nil
	case FieldScreenReader:
		return settings.ScreenReader, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// With returns a copy of settings with field replaced by value. Font
// sizes may be given as FontSize or string.
func (settings Settings) With(field Field, value any) (Settings, error) {
	if field == FieldFontSize {
		var size FontSize
		switch typed := value.(type) {
		case FontSize:
			size = typed
		case string:
			size = FontSize(typed)
		default:
			return settings, fmt.Errorf("%w: %s wants a font size, got %T", ErrInvalidValue, field, value)
		}
		if !size.Valid() {
			return settings, fmt.Errorf("%w: font size %q", ErrInvalidValue, size)
		}
		settings.FontSize = size
		return settings, nil
	}

	flag, ok := value.(bool)
	if !ok {
		if _, err := settings.Value(field); err != nil {
			return settings, err
		}
		return settings, fmt.Errorf("%w: %s wants a bool, got %T", ErrInvalidValue, field, value)
	}
	switch field {
	case FieldReducedMotion:
		settings.ReducedMotion = flag
	case FieldHighContrast:
		settings.HighContrast = flag
	case FieldFocusVisible:
		settings.FocusVisible = flag
	case FieldScreenReader:
		settings.ScreenReader = flag
	default:
		return settings, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return settings, nil
}
