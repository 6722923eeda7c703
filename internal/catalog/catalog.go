// Package catalog holds the read-only keyword and penalty content for
// the five games, seeded once at startup from compile-time literals
// rather than a runtime-migrated table.
package catalog

import (
	"math/rand"

	"github.com/partyhost/server/internal/models"
)

// Category groups a named set of content rows for one game.
type Category struct {
	CategoryID string
	Game       models.GameCode
	Name       string
	Words      []string
}

// Catalog is the in-process, read-only seed-data view every game package
// queries through. There is exactly one instance per process, built at
// startup from the seed_*.go literals.
type Catalog struct {
	categories   []Category
	byID         map[string]*Category
	penaltyByGame map[models.GameCode]*Category
}

// New builds the catalog from the compiled-in seed data.
func New() *Catalog {
	c := &Catalog{byID: make(map[string]*Category), penaltyByGame: make(map[models.GameCode]*Category)}
	all := append(append(append([]Category{}, quizCategories...), liarCategories...), marblePenaltyCategories...)
	for i := range all {
		cat := all[i]
		c.categories = append(c.categories, cat)
		c.byID[cat.CategoryID] = &c.categories[len(c.categories)-1]
		if cat.Game == models.GameMarble {
			c.penaltyByGame[cat.Game] = &c.categories[len(c.categories)-1]
		}
	}
	return c
}

// CategorySummary is the shape ListCategories returns.
type CategorySummary struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	WordCount  int    `json:"wordCount"`
}

// ListCategories returns every category seeded for the given game.
func (c *Catalog) ListCategories(game models.GameCode) []CategorySummary {
	out := make([]CategorySummary, 0)
	for _, cat := range c.categories {
		if cat.Game == game {
			out = append(out, CategorySummary{CategoryID: cat.CategoryID, Name: cat.Name, WordCount: len(cat.Words)})
		}
	}
	return out
}

// RandomWords returns up to n randomized, distinct rows from categoryID.
// If the category has fewer than n rows, every row is returned shuffled.
func (c *Catalog) RandomWords(categoryID string, n int) []string {
	cat, ok := c.byID[categoryID]
	if !ok {
		return nil
	}
	shuffled := make([]string, len(cat.Words))
	copy(shuffled, cat.Words)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n >= 0 && n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// RandomCategory returns a uniformly random category for the given game,
// or false if none are seeded.
func (c *Catalog) RandomCategory(game models.GameCode) (Category, bool) {
	var candidates []Category
	for _, cat := range c.categories {
		if cat.Game == game {
			candidates = append(candidates, cat)
		}
	}
	if len(candidates) == 0 {
		return Category{}, false
	}
	return candidates[rand.Intn(len(candidates))], true
}

// FindOnePenaltyCategory returns the penalty category for game, if any.
// Only Marble seeds a penalty category today.
func (c *Catalog) FindOnePenaltyCategory(game models.GameCode) (Category, bool) {
	cat, ok := c.penaltyByGame[game]
	if !ok {
		return Category{}, false
	}
	return *cat, true
}

// AllContent returns every row of category, unshuffled.
func (c *Catalog) AllContent(category Category) []string {
	out := make([]string, len(category.Words))
	copy(out, category.Words)
	return out
}
