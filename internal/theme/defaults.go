package theme

func isBuiltin(id string) bool {
	return id == "dark" || id == "light" || id == "high-contrast"
}

func builtins() []Theme {
	fonts := map[string]string{
		"sans": "Inter, system-ui, sans-serif",
		"mono": "RobotoMono, monospace",
	}

	dark := Theme{
		ID:          "dark",
		Name:        "Dark",
		Description: "Default dark theme",
		Type:        "dark",
		Colors: map[string]string{
			"background": "#1e2124",
			"surface":    "#262b2f",
			"primary":    "#3d90ce",
			"text":       "#a0a0a0",
			"textMuted":  "#87909c",
			"border":     "#43424d",

			"terminalBackground":    "#24292e",
			"terminalForeground":    "#ffffff",
			"terminalCursor":        "#ffffff",
			"terminalCursorAccent":  "#000000",
			"terminalSelection":     "#ffffff77",
			"terminalBlack":         "#2e3436",
			"terminalRed":           "#cc0000",
			"terminalGreen":         "#4e9a06",
			"terminalYellow":        "#c4a000",
			"terminalBlue":          "#3465a4",
			"terminalMagenta":       "#75507b",
			"terminalCyan":          "#06989a",
			"terminalWhite":         "#d3d7cf",
			"terminalBrightBlack":   "#555753",
			"terminalBrightRed":     "#ef2929",
			"terminalBrightGreen":   "#8ae234",
			"terminalBrightYellow":  "#fce94f",
			"terminalBrightBlue":    "#729fcf",
			"terminalBrightMagenta": "#ad7fa8",
			"terminalBrightCyan":    "#34e2e2",
			"terminalBrightWhite":   "#eeeeec",
		},
		Fonts: fonts,
	}

	light := Theme{
		ID:          "light",
		Name:        "Light",
		Description: "Default light theme",
		Type:        "light",
		Colors: map[string]string{
			"background": "#ffffff",
			"surface":    "#f1f1f1",
			"primary":    "#3d90ce",
			"text":       "#555555",
			"textMuted":  "#777777",
			"border":     "#c9cfd3",

			"terminalBackground":    "#ffffff",
			"terminalForeground":    "#2d2d2d",
			"terminalCursor":        "#2d2d2d",
			"terminalCursorAccent":  "#ffffff",
			"terminalSelection":     "#bfbfbf",
			"terminalBlack":         "#2d2d2d",
			"terminalRed":           "#cd3734",
			"terminalGreen":         "#18cf12",
			"terminalYellow":        "#acb300",
			"terminalBlue":          "#3d90ce",
			"terminalMagenta":       "#c100cd",
			"terminalCyan":          "#07c4b9",
			"terminalWhite":         "#d3d7cf",
			"terminalBrightBlack":   "#a8a8a8",
			"terminalBrightRed":     "#ff6259",
			"terminalBrightGreen":   "#5cdb59",
			"terminalBrightYellow":  "#f8c000",
			"terminalBrightBlue":    "#008db6",
			"terminalBrightMagenta": "#ee55f8",
			"terminalBrightCyan":    "#50e8df",
			"terminalBrightWhite":   "#eeeeec",
		},
		Fonts: fonts,
	}

	highContrast := Theme{
		ID:          "high-contrast",
		Name:        "High Contrast",
		Description: "High contrast theme for accessibility",
		Type:        "dark",
		Colors: map[string]string{
			"background": "#000000",
			"surface":    "#1a1a1a",
			"primary":    "#00ffff",
			"text":       "#ffffff",
			"textMuted":  "#cccccc",
			"border":     "#ffffff",

			"terminalBackground":  "#000000",
			"terminalForeground":  "#ffffff",
			"terminalCursor":      "#ffff00",
			"terminalBlack":       "#000000",
			"terminalRed":         "#ff0000",
			"terminalGreen":       "#00ff00",
			"terminalYellow":      "#ffff00",
			"terminalBlue":        "#5c5cff",
			"terminalMagenta":     "#ff00ff",
			"terminalCyan":        "#00ffff",
			"terminalWhite":       "#ffffff",
			"terminalBrightBlack": "#7f7f7f",
			"terminalBrightWhite": "#ffffff",
		},
		Fonts: fonts,
	}

	return []Theme{dark, light, highContrast}
}
