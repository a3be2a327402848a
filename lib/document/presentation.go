// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"

	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/tui"
)

// Direction is the document's text direction.
type Direction string

const (
	LeftToRight Direction = "ltr"
	RightToLeft Direction = "rtl"
)

// rightToLeftLanguages are the language subtags rendered right to
// left.
var rightToLeftLanguages = map[string]bool{"ar": true, "he": true, "fa": true, "ur": true}

// Scale is the spacing derived from the font size preference. A
// terminal cannot change its font, so larger sizes widen the padding
// around widget chrome and the gap between stacked items instead.
type Scale struct {
	Padding int
	Gap     int
}

var scales = map[preference.FontSize]Scale{
	preference.FontSmall:      {Padding: 0, Gap: 0},
	preference.FontMedium:     {Padding: 1, Gap: 0},
	preference.FontLarge:      {Padding: 2, Gap: 1},
	preference.FontExtraLarge: {Padding: 3, Gap: 1},
}

// Presentation is the document root's presentation state: the active
// theme, spacing scale, motion and focus-indicator flags, and text
// direction. It implements preference.Applier.
type Presentation struct {
	baseTheme         tui.Theme
	highContrastTheme tui.Theme

	settings preference.Settings
	theme    tui.Theme
	scale    Scale

	locale    string
	direction Direction

	changeListeners listeners[func(*Presentation)]
}

var _ preference.Applier = (*Presentation)(nil)

// NewPresentation returns a presentation that switches between base
// and highContrast. Nil themes fall back to tui.DefaultTheme and
// tui.HighContrastTheme.
func NewPresentation(base, highContrast *tui.Theme) *Presentation {
	presentation := &Presentation{
		baseTheme:         tui.DefaultTheme,
		highContrastTheme: tui.HighContrastTheme,
		locale:            "en",
		direction:         LeftToRight,
	}
	if base != nil {
		presentation.baseTheme = *base
	}
	if highContrast != nil {
		presentation.highContrastTheme = *highContrast
	}
	presentation.update(preference.Defaults())
	return presentation
}

// Apply re-derives theme, scale, and flags from settings and notifies
// listeners.
func (presentation *Presentation) Apply(settings preference.Settings) {
	presentation.update(settings)
	presentation.notify()
}

func (presentation *Presentation) update(settings preference.Settings) {
	presentation.settings = settings
	presentation.theme = presentation.baseTheme
	if settings.HighContrast {
		presentation.theme = presentation.highContrastTheme
	}
	scale, ok := scales[settings.FontSize]
	if !ok {
		scale = scales[preference.FontMedium]
	}
	presentation.scale = scale
}

// Theme returns the active theme.
func (presentation *Presentation) Theme() tui.Theme {
	return presentation.theme
}

// Scale returns the active spacing scale.
func (presentation *Presentation) Scale() Scale {
	return presentation.scale
}

// Settings returns the settings last applied.
func (presentation *Presentation) Settings() preference.Settings {
	return presentation.settings
}

// ReducedMotion reports whether animation and autoplay are suppressed.
func (presentation *Presentation) ReducedMotion() bool {
	return presentation.settings.ReducedMotion
}

// FocusVisible reports whether focus rings are drawn.
func (presentation *Presentation) FocusVisible() bool {
	return presentation.settings.FocusVisible
}

// ScreenReader reports whether screen-reader text is rendered inline.
func (presentation *Presentation) ScreenReader() bool {
	return presentation.settings.ScreenReader
}

// Classes returns the root class names for the current state, in a
// fixed order. The gallery status line shows them.
func (presentation *Presentation) Classes() []string {
	classes := []string{"font-" + string(presentation.settings.FontSize)}
	if presentation.settings.HighContrast {
		classes = append(classes, "high-contrast")
	}
	if presentation.settings.ReducedMotion {
		classes = append(classes, "reduce-motion")
	}
	if presentation.settings.FocusVisible {
		classes = append(classes, "focus-visible")
	}
	if presentation.settings.ScreenReader {
		classes = append(classes, "screen-reader")
	}
	return classes
}

// SetLocale stores the locale code and derives the text direction from
// its language subtag.
func (presentation *Presentation) SetLocale(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = "en"
	}
	language, _, _ := strings.Cut(strings.ToLower(strings.ReplaceAll(code, "_", "-")), "-")

	presentation.locale = code
	presentation.direction = LeftToRight
	if rightToLeftLanguages[language] {
		presentation.direction = RightToLeft
	}
	presentation.notify()
}

// Locale returns the stored locale code.
func (presentation *Presentation) Locale() string {
	return presentation.locale
}

// Direction returns the text direction.
func (presentation *Presentation) Direction() Direction {
	return presentation.direction
}

// OnChange registers fn to run after every Apply or SetLocale.
func (presentation *Presentation) OnChange(fn func(*Presentation)) (cancel func()) {
	return presentation.changeListeners.add(fn)
}

func (presentation *Presentation) notify() {
	presentation.changeListeners.each(func(fn func(*Presentation)) { fn(presentation) })
}
