package models

// Mod represents a single catalog entry.
// JSON keys follow the persisted catalog format so existing saved lists load as-is.
type Mod struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Downloads   int    `json:"downloads"`
	Author      string `json:"author"`
	Version     string `json:"version"`
	Icon        string `json:"image"`
	DownloadURL string `json:"downloadUrl,omitempty"` // data URI, empty = no file uploaded
}

// HasFile reports whether a file has been attached to the mod
func (m Mod) HasFile() bool {
	return m.DownloadURL != ""
}

// ModDraft is the request body for adding a mod
type ModDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Version     string `json:"version"`
}

// ModList is a filtered view of the catalog
type ModList struct {
	Items      []Mod `json:"items"`
	TotalCount int   `json:"total_count"`
}

// DefaultMods returns the built-in catalog used when nothing is persisted yet
func DefaultMods() []Mod {
	return []Mod{
		{
			ID:          1,
			Name:        "Diamond Tools Plus",
			Description: "Улучшенные алмазные инструменты с особыми способностями",
			Category:    CategoryTools,
			Downloads:   15420,
			Author:      "CraftMaster",
			Version:     "1.20.1",
			Icon:        "⛏️",
		},
		{
			ID:          2,
			Name:        "Dragon Mobs",
			Description: "Добавляет различных драконов в мир Minecraft",
			Category:    CategoryMobs,
			Downloads:   28350,
			Author:      "BeastCreator",
			Version:     "1.20.1",
			Icon:        "🐉",
		},
		{
			ID:          3,
			Name:        "Magic Biomes",
			Description: "Новые волшебные биомы с уникальными ресурсами",
			Category:    CategoryBiomes,
			Downloads:   42100,
			Author:      "WorldBuilder",
			Version:     "1.20.1",
			Icon:        "🌳",
		},
		{
			ID:          4,
			Name:        "Tech Machines",
			Description: "Промышленные машины и автоматизация",
			Category:    CategoryTech,
			Downloads:   35600,
			Author:      "EngineerPro",
			Version:     "1.20.1",
			Icon:        "⚙️",
		},
		{
			ID:          5,
			Name:        "Epic Weapons",
			Description: "Легендарное оружие с уникальными эффектами",
			Category:    CategoryWeapons,
			Downloads:   52300,
			Author:      "WarriorMod",
			Version:     "1.20.1",
			Icon:        "⚔️",
		},
		{
			ID:          6,
			Name:        "Sky Dimensions",
			Description: "Новые измерения в небесах",
			Category:    CategoryBiomes,
			Downloads:   19800,
			Author:      "SkyExplorer",
			Version:     "1.20.1",
			Icon:        "☁️",
		},
		{
			ID:          7,
			Name:        "Saw",
			Description: "Saw horror mod",
			Category:    CategoryTech,
			Downloads:   12932,
			Author:      "Smaev",
			Version:     "1.21.1",
			Icon:        "🪚",
		},
	}
}
