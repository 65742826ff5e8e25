package colors

import (
	"fmt"
	"math"
	"strings"

	"github.com/harrisonrobin/dayplan/pkg/model"
)

// FindCategory looks a category up by name, case-insensitively.
func FindCategory(name string, all []model.Category) (model.Category, bool) {
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return model.Category{}, false
}

// ResolveCategoryColor returns the display color for a category name. Names
// that match no category get the theme accent.
func ResolveCategoryColor(name string, all []model.Category, theme Theme, dark bool) string {
	if name == "" {
		return theme.Palette(dark).Accent()
	}
	cat, ok := FindCategory(name, all)
	if !ok {
		return theme.Palette(dark).Accent()
	}
	return ResolveColor(&cat, theme, dark)
}

// ResolveColor returns the display color for a category:
// custom color, then the default's colorKey slot, then a slot named after the
// category (lower-cased, spaces removed), then the accent.
func ResolveColor(cat *model.Category, theme Theme, dark bool) string {
	palette := theme.Palette(dark)
	fallback := palette.Accent()

	if cat == nil || cat.Name == "" {
		return fallback
	}
	if !cat.IsDefault && cat.Color != "" {
		return cat.Color
	}
	if cat.IsDefault && cat.ColorKey != "" {
		if c := palette[cat.ColorKey]; c != "" {
			return c
		}
	}
	if c := palette[nameKey(cat.Name)]; c != "" {
		return c
	}
	return fallback
}

func nameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

// WithOpacity appends an alpha byte to a #RRGGBB color. Other formats and
// opacity >= 1 are returned unchanged.
func WithOpacity(color string, opacity float64) string {
	if opacity >= 1 || len(color) != 7 || !strings.HasPrefix(color, "#") {
		return color
	}
	if opacity < 0 {
		opacity = 0
	}
	return fmt.Sprintf("%s%02x", color, int(math.Round(opacity*255)))
}
