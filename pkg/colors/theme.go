package colors

// Palette maps semantic color slots (error, success, accent, teamTime...) to a
// color value.
type Palette map[string]string

// Theme carries one palette per display mode.
type Theme struct {
	Light Palette `yaml:"light" json:"light"`
	Dark  Palette `yaml:"dark" json:"dark"`
}

// GenericFallback is used when even the accent slot is missing.
const GenericFallback = "#888888"

// DefaultTheme returns the built-in light and dark palettes.
func DefaultTheme() Theme {
	return Theme{
		Light: Palette{
			"primary":       "#6200EE",
			"onPrimary":     "#FFFFFF",
			"accent":        "#03DAC6",
			"text":          "#11181C",
			"textSecondary": "#757575",
			"textDisabled":  "#BDBDBD",
			"error":         "#B00020",
			"success":       "#4CAF50",
			"warning":       "#FFC107",
			"info":          "#2196F3",
			"teamTime":      "#03A9F4",
			"friends":       "#9C27B0",
		},
		Dark: Palette{
			"primary":       "#BB86FC",
			"onPrimary":     "#000000",
			"accent":        "#03DAC5",
			"text":          "#ECEDEE",
			"textSecondary": "#A0A0A0",
			"textDisabled":  "#757575",
			"error":         "#CF6679",
			"success":       "#81C784",
			"warning":       "#FFD54F",
			"info":          "#64B5F6",
			"teamTime":      "#4FC3F7",
			"friends":       "#BA68C8",
		},
	}
}

// Palette returns the palette for the requested mode, falling back to the
// built-in one when the theme has none.
func (t Theme) Palette(dark bool) Palette {
	p := t.Light
	if dark {
		p = t.Dark
	}
	if len(p) > 0 {
		return p
	}
	if dark {
		return DefaultTheme().Dark
	}
	return DefaultTheme().Light
}

// Merge overlays non-empty entries of overrides onto t.
func (t Theme) Merge(overrides Theme) Theme {
	return Theme{
		Light: merge(t.Light, overrides.Light),
		Dark:  merge(t.Dark, overrides.Dark),
	}
}

func merge(base, over Palette) Palette {
	out := make(Palette, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Accent returns the generic accent color of p.
func (p Palette) Accent() string {
	if c := p["accent"]; c != "" {
		return c
	}
	return GenericFallback
}
