package catalog

import (
	"strings"
	"testing"

	"github.com/meur/modcatalog/internal/models"
	"github.com/stretchr/testify/assert"
)

func names(mods []models.Mod) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return out
}

func TestFilterAllEmptyReturnsInput(t *testing.T) {
	mods := models.DefaultMods()
	assert.Equal(t, mods, Filter(mods, models.CategoryAll, ""))
}

func TestFilterByCategory(t *testing.T) {
	got := Filter(models.DefaultMods(), models.CategoryTech, "")
	assert.Equal(t, []string{"Tech Machines", "Saw"}, names(got))
}

func TestFilterByQuery(t *testing.T) {
	for _, q := range []string{"dragon", "DRAGON", "Dragon", "agon m"} {
		got := Filter(models.DefaultMods(), models.CategoryAll, q)
		assert.Equal(t, []string{"Dragon Mobs"}, names(got), "query %q", q)
	}
}

func TestFilterMatchesDescriptionCaseInsensitively(t *testing.T) {
	// "Новые" appears in two biome descriptions.
	got := Filter(models.DefaultMods(), models.CategoryAll, "НОВЫЕ")
	assert.Equal(t, []string{"Magic Biomes", "Sky Dimensions"}, names(got))

	got = Filter(models.DefaultMods(), models.CategoryTech, "horror")
	assert.Equal(t, []string{"Saw"}, names(got))
}

func TestFilterNoMatches(t *testing.T) {
	assert.Empty(t, Filter(models.DefaultMods(), models.CategoryWeapons, "dragon"))
	assert.Empty(t, Filter(nil, models.CategoryAll, ""))
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	mods := models.DefaultMods()
	got := Filter(mods, models.CategoryAll, "")
	got[0].Name = "changed"
	assert.Equal(t, "Diamond Tools Plus", mods[0].Name)
}

// Every output item satisfies the predicates, and every input item that
// satisfies them is present in the same relative order.
func TestFilterSoundAndComplete(t *testing.T) {
	mods := models.DefaultMods()
	queries := []string{"", "a", "mo", "TECH", "ы", "zzz"}

	for _, c := range models.Categories() {
		for _, q := range queries {
			var want []models.Mod
			for _, m := range mods {
				catOK := c.Value == models.CategoryAll || m.Category == c.Value
				lq := strings.ToLower(q)
				textOK := strings.Contains(strings.ToLower(m.Name), lq) ||
					strings.Contains(strings.ToLower(m.Description), lq)
				if catOK && textOK {
					want = append(want, m)
				}
			}
			got := Filter(mods, c.Value, q)
			assert.Equal(t, names(want), names(got), "category=%s query=%q", c.Value, q)
		}
	}
}
