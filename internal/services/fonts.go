package services

import "fyne.io/fyne/v2/theme"

// ThemeFonts returns the Noto Sans faces bundled with the Fyne theme so the
// PDF can carry any text the form accepts.
func ThemeFonts() *FontSet {
	return &FontSet{
		Family:  "NotoSans",
		Regular: theme.DefaultTextFont().Content(),
		Bold:    theme.DefaultTextBoldFont().Content(),
	}
}
