package models

// Category values. CategoryAll is a filter sentinel, never stored on a mod.
const (
	CategoryAll     = "all"
	CategoryWeapons = "weapons"
	CategoryMobs    = "mobs"
	CategoryBiomes  = "biomes"
	CategoryTech    = "tech"
	CategoryTools   = "tools"
)

// DefaultIcon is used for the "all" filter and for unrecognized categories
const DefaultIcon = "📦"

// Category defines a filter option shown to visitors
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Categories returns the fixed category set in display order, "all" first
func Categories() []Category {
	return []Category{
		{Value: CategoryAll, Label: "Все моды", Icon: DefaultIcon},
		{Value: CategoryWeapons, Label: "Оружие", Icon: "⚔️"},
		{Value: CategoryMobs, Label: "Мобы", Icon: "🐉"},
		{Value: CategoryBiomes, Label: "Биомы", Icon: "🌳"},
		{Value: CategoryTech, Label: "Технологии", Icon: "⚙️"},
		{Value: CategoryTools, Label: "Инструменты", Icon: "⛏️"},
	}
}

// IconFor resolves the display glyph for a category
func IconFor(category string) string {
	for _, c := range Categories() {
		if c.Value == category {
			return c.Icon
		}
	}
	return DefaultIcon
}

// IsSelectable reports whether a mod can be filed under the category
func IsSelectable(category string) bool {
	if category == CategoryAll {
		return false
	}
	for _, c := range Categories() {
		if c.Value == category {
			return true
		}
	}
	return false
}
