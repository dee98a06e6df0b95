package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Outcome colours shared by the result card tints and the theme.
var (
	confirmedColor = color.NRGBA{40, 167, 69, 255}
	failedColor    = color.NRGBA{220, 53, 69, 255}
	testerColor    = color.NRGBA{255, 193, 7, 255}
)

// densityScale multiplies the stock sizes; missing names keep the stock value.
var densityScale = map[bool]map[fyne.ThemeSizeName]float32{
	// compact: more of the panels and the log fit on a laptop screen
	true: {
		theme.SizeNameText:         0.95,
		theme.SizeNamePadding:      0.85,
		theme.SizeNameInnerPadding: 0.85,
	},
	false: {
		theme.SizeNameText:    1.05,
		theme.SizeNamePadding: 1.10,
	},
}

// appTheme is the stock light or dark theme with the debugger's outcome
// colours and a density switch.
type appTheme struct {
	fyne.Theme
	mode    string
	compact bool
}

func makeTheme(mode string, compact bool) fyne.Theme {
	base := theme.DarkTheme()
	if mode == "light" {
		base = theme.LightTheme()
	}
	return &appTheme{Theme: base, mode: mode, compact: compact}
}

func (t *appTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	dark := t.mode == "dark" || v == theme.VariantDark
	switch n {
	case theme.ColorNameSuccess:
		return confirmedColor
	case theme.ColorNameError:
		return failedColor
	case theme.ColorNameWarning:
		return testerColor
	case theme.ColorNameForeground:
		if dark {
			return color.White
		}
		return color.Black
	case theme.ColorNamePlaceHolder, theme.ColorNameDisabled:
		// Disabled send buttons must stay readable while a query is pending.
		if dark {
			return color.NRGBA{200, 200, 200, 255}
		}
		return color.NRGBA{90, 90, 90, 255}
	}
	if dark {
		return theme.DarkTheme().Color(n, theme.VariantDark)
	}
	return theme.LightTheme().Color(n, theme.VariantLight)
}

func (t *appTheme) Size(n fyne.ThemeSizeName) float32 {
	size := t.Theme.Size(n)
	if k, ok := densityScale[t.compact][n]; ok {
		return size * k
	}
	return size
}
