package catalog

import (
	"strings"

	"github.com/meur/modcatalog/internal/models"
	"golang.org/x/text/cases"
)

// Filter returns the mods matching category and query, in their original order.
//
// category must equal the mod's category unless it is models.CategoryAll.
// query matches when it is a case-insensitive substring of the name or the
// description; an empty query matches everything. The input is not modified.
func Filter(mods []models.Mod, category, query string) []models.Mod {
	// Casers carry state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]models.Mod, 0, len(mods))
	for _, m := range mods {
		if category != models.CategoryAll && m.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(m.Name), needle) &&
			!strings.Contains(fold.String(m.Description), needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}
