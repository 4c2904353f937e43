package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// the inline without changing the payload it submits.
type RenderOptions struct {
	// Lang selects the message catalog (for example "en" or "ru").
	Lang string
	// Errors surfaces server-side validation feedback keyed by submitted field
	// name, as returned by the admin after a failed save. MapFormsetErrors
	// splits them into per-row and form-level messages.
	Errors map[string][]string
	// ThemeName and ThemeVariant are passed to the theme selector, when the
	// renderer has one. Empty values fall back to the selector defaults.
	ThemeName    string
	ThemeVariant string
	// Theme carries a pre-resolved selection and skips the selector.
	Theme *theme.Selection
}
