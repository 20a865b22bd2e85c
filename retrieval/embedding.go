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

package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Embedder turns texts into dense vectors. An implementation is constructed
// and owned by the caller and passed in explicitly; there is no package
// state, so tests can supply a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbeddingTopK returns the k chunks with the highest inner-product
// similarity to the queries, aggregating scores over all queries. Chunk
// vectors are normalized so the inner product is the cosine similarity.
func EmbeddingTopK(ctx context.Context, embedder Embedder, queries, chunks []string, k int) ([]string, error) {
	if len(chunks) == 0 || k <= 0 {
		return nil, nil
	}

	chunkVecs, err := embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(chunkVecs) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(chunkVecs), len(chunks))
	}
	for i := range chunkVecs {
		normalize(chunkVecs[i])
	}

	aggregated := make([]float64, len(chunks))
	for _, query := range queries {
		queryVecs, err := embedder.Embed(ctx, []string{query})
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		if len(queryVecs) != 1 {
			return nil, fmt.Errorf("embedder returned %d vectors for 1 query", len(queryVecs))
		}
		normalize(queryVecs[0])
		for i, vec := range chunkVecs {
			aggregated[i] += dot(queryVecs[0], vec)
		}
	}

	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return aggregated[order[i]] > aggregated[order[j]]
	})

	if k > len(chunks) {
		k = len(chunks)
	}
	top := make([]string, k)
	for i := range top {
		top[i] = chunks[order[i]]
	}
	return top, nil
}

func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float64) {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
