// Package suggest builds the smart-suggestion snapshot: a static,
// once-per-session list drawn from the user's favorites and own
// recipes.
package suggest

import (
	"context"
	"log"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

// MaxSuggestions caps the snapshot.
const MaxSuggestions = 10

// Source provides the two recipe lists the suggestions are drawn from.
type Source interface {
	FavoriteRecipes(ctx context.Context) ([]recipes.Recipe, error)
	MyRecipes(ctx context.Context) ([]recipes.Recipe, error)
}

// Load fetches both lists and merges them. Either list failing degrades
// to empty with a warning; suggestions never block the page.
func Load(ctx context.Context, src Source) []recipes.Recipe {
	favorites, err := src.FavoriteRecipes(ctx)
	if err != nil {
		log.Printf("WARN suggest: favorites unavailable: %v", err)
		favorites = nil
	}
	own, err := src.MyRecipes(ctx)
	if err != nil {
		log.Printf("WARN suggest: own recipes unavailable: %v", err)
		own = nil
	}
	return Build(favorites, own)
}

// Build merges favorites first, then own recipes, deduped by id and
// capped to MaxSuggestions.
func Build(favorites, own []recipes.Recipe) []recipes.Recipe {
	seen := make(map[string]struct{}, MaxSuggestions)
	out := make([]recipes.Recipe, 0, MaxSuggestions)

	for _, list := range [][]recipes.Recipe{favorites, own} {
		for _, r := range list {
			if r.ID == "" {
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
			if len(out) == MaxSuggestions {
				return out
			}
		}
	}
	return out
}
