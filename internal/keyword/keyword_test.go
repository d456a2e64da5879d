package keyword_test

import (
	"testing"

	"imgsort/internal/keyword"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		file string
		sep  string
		want []string
	}{
		{"space separated", "big cat.png", " ", []string{"big", "cat"}},
		{"punctuation stripped", "big (fat) cat!.jpg", " ", []string{"big", "fat", "cat"}},
		{"separator kept", "big_fat-cat.png", "_", []string{"big", "fatcat"}},
		{"only last extension", "archive.tar.png", " ", []string{"archive.tar"}},
		{"empty separator defaults to space", "a b.png", "", []string{"a", "b"}},
		{"no extension", "plain name", " ", []string{"plain", "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyword.Tokens(tt.file, tt.sep))
		})
	}
}

func TestMatches(t *testing.T) {
	t.Run("contiguous token run", func(t *testing.T) {
		assert.True(t, keyword.Matches("big cat.png", "big cat", " "))
		assert.True(t, keyword.Matches("a big cat sleeps.png", "big cat", " "))
		assert.True(t, keyword.Matches("big cat.png", "cat", " "))
	})

	t.Run("non contiguous does not match", func(t *testing.T) {
		assert.False(t, keyword.Matches("a big fat cat.png", "big cat", " "))
	})

	t.Run("whole tokens only", func(t *testing.T) {
		assert.False(t, keyword.Matches("bigcat.png", "cat", " "))
		assert.False(t, keyword.Matches("cats.png", "cat", " "))
	})

	t.Run("case sensitive", func(t *testing.T) {
		assert.False(t, keyword.Matches("Cat.png", "cat", " "))
	})

	t.Run("phrase longer than name", func(t *testing.T) {
		assert.False(t, keyword.Matches("cat.png", "big cat", " "))
	})

	t.Run("empty phrase", func(t *testing.T) {
		assert.False(t, keyword.Matches("cat.png", "", " "))
	})

	t.Run("custom separator", func(t *testing.T) {
		assert.True(t, keyword.Matches("big_cat_photo.png", "big_cat", "_"))
		assert.False(t, keyword.Matches("big cat photo.png", "big_cat", "_"))
	})
}

func TestFilterByKeyword(t *testing.T) {
	names := []string{"big cat.png", "dog.png", "a big fat cat.png", "cat nap.jpg"}

	t.Run("partition", func(t *testing.T) {
		unmatched, matched := keyword.FilterByKeyword(names, "cat", " ")
		assert.Equal(t, []string{"big cat.png", "a big fat cat.png", "cat nap.jpg"}, matched)
		assert.Equal(t, []string{"dog.png"}, unmatched)
	})

	t.Run("no matches", func(t *testing.T) {
		unmatched, matched := keyword.FilterByKeyword(names, "bird", " ")
		assert.Empty(t, matched)
		assert.Equal(t, names, unmatched)
	})

	t.Run("empty input", func(t *testing.T) {
		unmatched, matched := keyword.FilterByKeyword(nil, "cat", " ")
		assert.Empty(t, unmatched)
		assert.Empty(t, matched)
	})

	t.Run("empty separator defaults to space", func(t *testing.T) {
		_, matched := keyword.FilterByKeyword(names, "big cat", "")
		assert.Equal(t, []string{"big cat.png"}, matched)
	})
}

func TestSpecApply(t *testing.T) {
	names := []string{"big cat.png", "big dog.png", "small cat.png", "bird.png"}

	t.Run("inactive returns all", func(t *testing.T) {
		assert.Equal(t, names, keyword.Spec{}.Apply(names))
	})

	t.Run("or unions", func(t *testing.T) {
		spec := keyword.NewSpec([]string{"cat", "big"}, " ", keyword.Or)
		assert.Equal(t, []string{"big cat.png", "big dog.png", "small cat.png"}, spec.Apply(names))
	})

	t.Run("and narrows", func(t *testing.T) {
		spec := keyword.NewSpec([]string{"cat", "big"}, " ", keyword.And)
		assert.Equal(t, []string{"big cat.png"}, spec.Apply(names))
	})

	t.Run("and with an empty pool stays empty", func(t *testing.T) {
		spec := keyword.NewSpec([]string{"fish", "big"}, " ", keyword.And)
		assert.Empty(t, spec.Apply(names))
	})

	t.Run("and is a subset of or", func(t *testing.T) {
		sets := [][]string{
			{"cat"},
			{"cat", "big"},
			{"big", "dog", "cat"},
			{"bird", "small"},
		}
		for _, phrases := range sets {
			and := keyword.NewSpec(phrases, " ", keyword.And).Apply(names)
			or := keyword.NewSpec(phrases, " ", keyword.Or).Apply(names)
			assert.Subset(t, or, and, "phrases %v", phrases)
		}
	})
}

func TestSpecGroups(t *testing.T) {
	names := []string{"big cat.png", "big dog.png", "small cat.png", "bird.png"}

	spec := keyword.NewSpec([]string{"big", "cat", "fish"}, " ", keyword.Or)
	groups := spec.Groups(names)

	assert.Equal(t, []keyword.Group{
		{Phrase: "big", Files: []string{"big cat.png", "big dog.png"}},
		{Phrase: "cat", Files: []string{"small cat.png"}},
	}, groups)

	t.Run("and mode", func(t *testing.T) {
		spec := keyword.NewSpec([]string{"cat", "big"}, " ", keyword.And)
		assert.Equal(t, []keyword.Group{
			{Phrase: "cat", Files: []string{"big cat.png"}},
		}, spec.Groups(names))

		spec = keyword.NewSpec([]string{"cat", "fish"}, " ", keyword.And)
		assert.Empty(t, spec.Groups(names))
	})
}

func TestParse(t *testing.T) {
	assert.Equal(t, []string{"big cat", "dog"}, keyword.ParsePhrases(" big cat , ,dog"))
	assert.Empty(t, keyword.ParsePhrases(""))

	assert.Equal(t, keyword.And, keyword.ParseMode("AND"))
	assert.Equal(t, keyword.Or, keyword.ParseMode("or"))
	assert.Equal(t, keyword.Or, keyword.ParseMode("whatever"))
	assert.Equal(t, "and", keyword.And.String())

	assert.Equal(t, "cat, dog (and)", keyword.NewSpec([]string{"cat", "dog"}, "", keyword.And).String())
	assert.Equal(t, " ", keyword.NewSpec(nil, "", keyword.Or).Separator)
}
