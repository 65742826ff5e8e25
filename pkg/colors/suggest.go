package colors

import (
	"strings"

	"github.com/harrisonrobin/dayplan/pkg/model"
)

// PresetColors are offered for new custom categories.
var PresetColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FED766", "#2AB7CA", "#FE4A49",
	"#F0B67F", "#547980", "#8A9B0F", "#CE1483", "#F4845F", "#E76F51",
	"#4A4A48", "#00A591", "#D90368", "#04A777", "#2E294E", "#F4A261",
	"#9B59B6", "#3498DB", "#1ABC9C", "#F1C40F", "#E67E22", "#E74C3C",
}

// SuggestColor picks the first preset not used by an existing custom category.
// Once every preset is taken it cycles through them.
func SuggestColor(existing []model.Category) string {
	used := make(map[string]bool)
	custom := 0
	for _, c := range existing {
		if c.IsDefault {
			continue
		}
		custom++
		used[strings.ToUpper(c.Color)] = true
	}

	for _, c := range PresetColors {
		if !used[c] {
			return c
		}
	}
	return PresetColors[custom%len(PresetColors)]
}
