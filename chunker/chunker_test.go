// Copyright 2025 The Minions Finance Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivien-cheng/minions-finance/chunker"
)

func TestSplitBySection(t *testing.T) {
	t.Run("fixed windows with overlap", func(t *testing.T) {
		doc := "AAAA BBBB CCCC DDDD" // 19 characters
		chunks, err := chunker.SplitBySection(doc, 10, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAAA BBBB ", "BB CCCC DD", " DDDD"}, chunks)
	})

	t.Run("every chunk within size limit", func(t *testing.T) {
		doc := strings.Repeat("x", 1000)
		chunks, err := chunker.SplitBySection(doc, 64, 16)
		require.NoError(t, err)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 64)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		chunks, err := chunker.SplitBySection("", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := chunker.SplitBySection("abc", 0, 0)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)

		_, err = chunker.SplitBySection("abc", 10, -1)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)

		_, err = chunker.SplitBySection("abc", 10, 10)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)
	})
}

func TestSplitByPage(t *testing.T) {
	t.Run("default markers", func(t *testing.T) {
		doc := "First page text.\nPage 1 of 3\nSecond page text.\n\f\nThird page text."
		pages, err := chunker.SplitByPage(doc, nil)
		require.NoError(t, err)
		require.Len(t, pages, 3)
		assert.Contains(t, pages[0], "First page text.")
		assert.Contains(t, pages[1], "Second page text.")
		assert.Contains(t, pages[2], "Third page text.")
	})

	t.Run("no markers returns whole document", func(t *testing.T) {
		doc := "Just a plain paragraph without any page breaks."
		pages, err := chunker.SplitByPage(doc, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{doc}, pages)
	})

	t.Run("custom marker", func(t *testing.T) {
		doc := "one<<<BREAK>>>two<<<BREAK>>>three"
		pages, err := chunker.SplitByPage(doc, []string{`<<<BREAK>>>`})
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, pages)
	})

	t.Run("bad marker pattern", func(t *testing.T) {
		_, err := chunker.SplitByPage("doc", []string{`([`})
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)
	})
}

func TestSplitIntoSentences(t *testing.T) {
	sentences := chunker.SplitIntoSentences(
		"Revenue grew 12% in 2021. Margins stayed flat! Did capex rise? It did.",
	)
	assert.Equal(t, []string{
		"Revenue grew 12% in 2021.",
		"Margins stayed flat!",
		"Did capex rise?",
		"It did.",
	}, sentences)
}

func TestSplitIntoSentencesNoBoundary(t *testing.T) {
	assert.Equal(t, []string{"no terminal punctuation here"},
		chunker.SplitIntoSentences("no terminal punctuation here"))
	assert.Empty(t, chunker.SplitIntoSentences(""))
}

func TestSplitSentences(t *testing.T) {
	sentences := []string{"One one one.", "Two two two.", "Three three three.", "Four four."}

	t.Run("groups under size limit", func(t *testing.T) {
		chunks := chunker.SplitSentences(sentences, 30, 0)
		require.NotEmpty(t, chunks)
		joined := strings.Join(chunks, " ")
		for _, s := range sentences {
			assert.Contains(t, joined, s)
		}
	})

	t.Run("sentence overlap carried into next chunk", func(t *testing.T) {
		chunks := chunker.SplitSentences(sentences, 30, 1)
		assert.Equal(t, []string{
			"One one one. Two two two.",
			"Two two two. Three three three.",
			"Three three three. Four four.",
		}, chunks)
	})
}

func TestSplitByParagraph(t *testing.T) {
	t.Run("packs whole paragraphs", func(t *testing.T) {
		doc := "Alpha paragraph.\n\nBeta paragraph.\n\nGamma paragraph."
		chunks, err := chunker.SplitByParagraph(doc, 40, 0)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "Alpha paragraph.\n\nBeta paragraph.", chunks[0])
		assert.Equal(t, "Gamma paragraph.", chunks[1])
	})

	t.Run("oversized paragraph falls back to sentences", func(t *testing.T) {
		doc := "First one. Second one. Third one. Fourth one. Fifth one."
		chunks, err := chunker.SplitByParagraph(doc, 25, 0)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		joined := strings.Join(chunks, " ")
		assert.Contains(t, joined, "First one.")
		assert.Contains(t, joined, "Fifth one.")
	})

	t.Run("empty document", func(t *testing.T) {
		chunks, err := chunker.SplitByParagraph("", 100, 0)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := chunker.SplitByParagraph("doc", 0, 0)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)

		_, err = chunker.SplitByParagraph("doc", 10, -1)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)
	})
}

func TestSplit(t *testing.T) {
	t.Run("short text returned whole", func(t *testing.T) {
		chunks, err := chunker.Split("short text", 100, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"short text"}, chunks)
	})

	t.Run("empty text", func(t *testing.T) {
		chunks, err := chunker.Split("", 100, 10, 0)
		require.NoError(t, err)
		assert.Nil(t, chunks)
	})

	t.Run("prefers sentence boundaries", func(t *testing.T) {
		text := "The first sentence is here. The second sentence follows it. The third one closes."
		chunks, err := chunker.Split(text, 60, 10, 0)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		assert.True(t, strings.HasSuffix(chunks[0], "."))
	})

	t.Run("minChunkSize drops short fragments", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 10) + "xy" // 102 chars, no sentences
		chunks, err := chunker.Split(text, 50, 0, 10)
		require.NoError(t, err)
		for _, c := range chunks {
			assert.GreaterOrEqual(t, len(c), 10)
		}
	})

	t.Run("multi-byte characters are never cut", func(t *testing.T) {
		text := strings.Repeat("α", 10)
		chunks, err := chunker.Split(text, 5, 1, 0)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c), "chunk %q is not valid UTF-8", c)
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 5)
		}
		assert.Equal(t, "ααααα", chunks[0])
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := chunker.Split("text", -1, 0, 0)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)

		_, err = chunker.Split("text", 10, 10, 0)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)

		_, err = chunker.Split("text", 10, 0, -1)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)
	})
}

func TestSplitWithMetadata(t *testing.T) {
	t.Run("attaches metadata to every chunk", func(t *testing.T) {
		metadata := map[string]any{"doc_name": "3M_2018_10K", "page": 12}
		entries, err := chunker.SplitWithMetadata(strings.Repeat("x", 30), metadata, 10, 0, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for _, entry := range entries {
			assert.Equal(t, "3M_2018_10K", entry["doc_name"])
			assert.Equal(t, 12, entry["page"])
			assert.Equal(t, strings.Repeat("x", 10), entry["text"])
		}
	})

	t.Run("metadata text key does not leak between chunks", func(t *testing.T) {
		entries, err := chunker.SplitWithMetadata("AAAA BBBB CCCC DDDD", nil, 10, 3, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.NotEqual(t, entries[0]["text"], entries[1]["text"])
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := chunker.SplitWithMetadata("text", nil, 0, 0, 0)
		assert.ErrorIs(t, err, chunker.ErrInvalidParams)
	})
}
