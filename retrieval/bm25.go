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

// Package retrieval ranks text chunks against a query so long documents can
// be narrowed to their most relevant sections before prompting.
package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// BM25 parameters - standard values from literature
const (
	bm25K1 = 1.2  // Term frequency saturation parameter
	bm25B  = 0.75 // Length normalization parameter
)

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_]*`)

func tokenize(text string) []string {
	words := wordPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		lower := strings.ToLower(word)
		if len(lower) >= 2 {
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// corpusStats holds the document-frequency table and average document length
// over one candidate set.
type corpusStats struct {
	docTokens [][]string
	docFreqs  map[string]int
	avgDocLen float64
}

func computeCorpusStats(chunks []string) corpusStats {
	stats := corpusStats{
		docTokens: make([][]string, len(chunks)),
		docFreqs:  make(map[string]int),
	}
	totalLen := 0
	for i, chunk := range chunks {
		tokens := tokenize(chunk)
		stats.docTokens[i] = tokens
		totalLen += len(tokens)

		seen := make(map[string]bool)
		for _, token := range tokens {
			if !seen[token] {
				seen[token] = true
				stats.docFreqs[token]++
			}
		}
	}
	if len(chunks) > 0 {
		stats.avgDocLen = float64(totalLen) / float64(len(chunks))
	}
	return stats
}

// bm25Score computes a BM25 relevance score for one document against the
// query terms. Higher scores indicate greater relevance.
func bm25Score(docTerms, queryTerms []string, stats corpusStats, totalDocs int) float64 {
	if len(queryTerms) == 0 || totalDocs == 0 {
		return 0
	}
	docLen := float64(len(docTerms))
	if docLen == 0 {
		return 0
	}

	termFreqs := make(map[string]int)
	for _, term := range docTerms {
		termFreqs[term]++
	}

	score := 0.0
	for _, term := range queryTerms {
		tf := float64(termFreqs[term])
		if tf == 0 {
			continue
		}

		df := stats.docFreqs[term]
		if df == 0 {
			df = 1
		}

		// IDF component: log((N - df + 0.5) / (df + 0.5) + 1)
		idf := math.Log((float64(totalDocs)-float64(df)+0.5)/(float64(df)+0.5) + 1)

		// TF component with length normalization
		lengthNorm := 1 - bm25B + bm25B*(docLen/stats.avgDocLen)
		tfNorm := (tf * (bm25K1 + 1)) / (tf + bm25K1*lengthNorm)

		score += idf * tfNorm
	}
	return score
}

// ScoredChunk pairs a candidate chunk with its relevance score.
type ScoredChunk struct {
	Text  string
	Score float64
}

// Score ranks every candidate chunk against the query, ordered by
// non-increasing BM25 score. Ties keep the original chunk order.
func Score(query string, chunks []string) []ScoredChunk {
	stats := computeCorpusStats(chunks)
	queryTerms := tokenize(query)

	scored := make([]ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		scored[i] = ScoredChunk{
			Text:  chunk,
			Score: bm25Score(stats.docTokens[i], queryTerms, stats, len(chunks)),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// TopK returns the k highest-scoring chunks in descending relevance order.
// If k meets or exceeds the number of candidates, all candidates are
// returned ranked. An empty candidate list or k <= 0 yields an empty result,
// never an error.
func TopK(query string, chunks []string, k int) []string {
	if len(chunks) == 0 || k <= 0 {
		return nil
	}
	scored := Score(query, chunks)
	if k > len(scored) {
		k = len(scored)
	}
	top := make([]string, k)
	for i := range top {
		top[i] = scored[i].Text
	}
	return top
}

// RetrieveAndCombine joins the top-k chunks for the query into a single
// context string.
func RetrieveAndCombine(query string, chunks []string, k int) string {
	return strings.Join(TopK(query, chunks, k), "\n\n")
}
