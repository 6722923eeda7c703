package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyhost/server/internal/models"
)

func TestNew_SeedsAtLeastOneCategoryPerGameItCovers(t *testing.T) {
	c := New()
	assert.NotEmpty(t, c.ListCategories(models.GameQuiz))
	assert.NotEmpty(t, c.ListCategories(models.GameLiar))
}

func TestRandomWords_UnknownCategoryReturnsNil(t *testing.T) {
	c := New()
	assert.Nil(t, c.RandomWords("does-not-exist", 5))
}

func TestRandomWords_ReturnsDistinctShuffledSubset(t *testing.T) {
	c := New()
	cats := c.ListCategories(models.GameQuiz)
	require.NotEmpty(t, cats)
	cat := cats[0]

	words := c.RandomWords(cat.CategoryID, 3)
	assert.LessOrEqual(t, len(words), 3)

	seen := make(map[string]bool)
	for _, w := range words {
		assert.False(t, seen[w], "RandomWords must not repeat a word within one call")
		seen[w] = true
	}
}

func TestRandomWords_RequestingMoreThanAvailableReturnsEverything(t *testing.T) {
	c := New()
	cats := c.ListCategories(models.GameQuiz)
	require.NotEmpty(t, cats)
	cat := cats[0]

	words := c.RandomWords(cat.CategoryID, cat.WordCount+1000)
	assert.Len(t, words, cat.WordCount)
}

func TestRandomCategory_UnknownGameReturnsFalse(t *testing.T) {
	c := New()
	_, ok := c.RandomCategory(models.GameCode("does-not-exist"))
	assert.False(t, ok)
}

func TestFindOnePenaltyCategory_MarbleIsSeeded(t *testing.T) {
	c := New()
	_, ok := c.FindOnePenaltyCategory(models.GameMarble)
	assert.True(t, ok)
}

func TestFindOnePenaltyCategory_UnseededGameReturnsFalse(t *testing.T) {
	c := New()
	_, ok := c.FindOnePenaltyCategory(models.GameTruth)
	assert.False(t, ok)
}
