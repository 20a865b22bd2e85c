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

// Package chunker splits documents into bounded, optionally overlapping text
// segments for narrowing LLM context windows. All policies are deterministic
// and preserve total character coverage of the input, modulo overlap
// duplication.
package chunker

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidParams reports invalid size or overlap parameters.
var ErrInvalidParams = errors.New("chunker: invalid parameters")

// SplitBySection splits a document into fixed-size windows of at most
// maxChunkSize characters, where consecutive chunks overlap by overlap
// characters. The final chunk may be shorter. An empty document yields an
// empty sequence.
func SplitBySection(doc string, maxChunkSize, overlap int) ([]string, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: maxChunkSize must be positive, got %d", ErrInvalidParams, maxChunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidParams, overlap)
	}
	if overlap >= maxChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than maxChunkSize %d", ErrInvalidParams, overlap, maxChunkSize)
	}

	runes := []rune(doc)
	var sections []string
	for start := 0; start < len(runes); start += maxChunkSize - overlap {
		end := min(start+maxChunkSize, len(runes))
		sections = append(sections, string(runes[start:end]))
	}
	return sections, nil
}

var defaultPageMarkers = []string{
	`\f`,                              // form feed character
	`(?m)^page\s+\d+(\s+of\s+\d+)?\s*$`,               // "Page X" or "Page X of Y"
	`(?m)^[\s_\-()]*\d+[\s_\-()]*$`,                   // standalone or decorated numbers (e.g. - 3 -)
	`(?m)^[-=#]{3,}\s*.*page.*[-=#]{3,}\s*$`,          // lines like --- page ---, === pg ===
	`(?m)^\s*[\[<(]\s*page(?:\s+\d+)?\s*[\]>)]\s*$`,   // lines like [page] or [page 3]
}

// SplitByPage splits a document at page-marker lines. A nil markers slice
// uses the default marker set. A document with no markers is returned whole;
// marker lines themselves are dropped and empty pages skipped.
func SplitByPage(doc string, markers []string) ([]string, error) {
	if markers == nil {
		markers = defaultPageMarkers
	}
	pattern, err := regexp.Compile(`(?i)` + strings.Join(markers, "|"))
	if err != nil {
		return nil, fmt.Errorf("%w: bad page marker: %v", ErrInvalidParams, err)
	}

	matches := pattern.FindAllStringIndex(doc, -1)
	if len(matches) == 0 {
		return []string{doc}, nil
	}

	var pages []string
	start := 0
	for _, match := range matches {
		if chunk := doc[start:match[0]]; chunk != "" {
			pages = append(pages, chunk)
		}
		start = match[1]
	}
	if last := doc[start:]; last != "" {
		pages = append(pages, last)
	}
	return pages, nil
}

// SplitSentences groups pre-split sentences into chunks of at most
// maxChunkSize characters, carrying the last overlapSentences sentences of a
// finished chunk into the next one.
func SplitSentences(sentences []string, maxChunkSize, overlapSentences int) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		sepLen := 0
		if len(current) > 0 {
			sepLen = 1
		}
		newLen := currentLen + sepLen + utf8.RuneCountInString(sentence)
		if newLen > maxChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			var overlap []string
			if overlapSentences > 0 {
				overlap = current[max(0, len(current)-overlapSentences):]
			}
			current = append(append([]string{}, overlap...), sentence)
			currentLen = len(current) - 1
			for _, s := range current {
				currentLen += utf8.RuneCountInString(s)
			}
		} else {
			current = append(current, sentence)
			currentLen = newLen
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// SplitByParagraph packs whole paragraphs into chunks of at most
// maxChunkSize characters. Paragraphs larger than the limit fall back to
// sentence grouping with a sentence-count overlap.
func SplitByParagraph(doc string, maxChunkSize, overlapSentences int) ([]string, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: maxChunkSize must be positive, got %d", ErrInvalidParams, maxChunkSize)
	}
	if overlapSentences < 0 {
		return nil, fmt.Errorf("%w: overlapSentences must be non-negative, got %d", ErrInvalidParams, overlapSentences)
	}

	var paragraphs []string
	for _, p := range regexp.MustCompile(`\n\s*\n`).Split(doc, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentLen = 0
		}
	}

	for _, paragraph := range paragraphs {
		paragraphLen := utf8.RuneCountInString(paragraph)
		if paragraphLen > maxChunkSize {
			flush()
			sentences := splitAfterPunctuation(paragraph)
			chunks = append(chunks, SplitSentences(sentences, maxChunkSize, overlapSentences)...)
			continue
		}

		sepLen := 0
		if len(current) > 0 {
			sepLen = 2 // "\n\n" separator
		}
		candidateLen := currentLen + sepLen + paragraphLen
		if candidateLen > maxChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))

			if overlapSentences > 0 {
				sentences := splitAfterPunctuation(current[len(current)-1])
				overlap := strings.Join(sentences[max(0, len(sentences)-overlapSentences):], " ")
				current = []string{overlap, paragraph}
				currentLen = utf8.RuneCountInString(overlap) + 2 + paragraphLen
			} else {
				current = []string{paragraph}
				currentLen = paragraphLen
			}
		} else {
			current = append(current, paragraph)
			currentLen = candidateLen
		}
	}
	flush()
	return chunks, nil
}

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]\s+[A-Z]`)

// SplitIntoSentences splits text at sentence endings followed by whitespace
// and a capital letter.
func SplitIntoSentences(text string) []string {
	var sentences []string
	start := 0
	for _, match := range sentenceBoundaryRe.FindAllStringIndex(text, -1) {
		// The boundary sits after the punctuation; the capital letter
		// (one byte before the match end) starts the next sentence.
		end := match[0] + 1
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = match[1] - 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

var punctuationSplitRe = regexp.MustCompile(`[.!?]\s+`)

// splitAfterPunctuation splits text on whitespace following sentence
// punctuation, keeping the punctuation with the preceding sentence.
func splitAfterPunctuation(text string) []string {
	var parts []string
	start := 0
	for _, match := range punctuationSplitRe.FindAllStringIndex(text, -1) {
		parts = append(parts, text[start:match[0]+1])
		start = match[1]
	}
	if rest := text[start:]; rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// Split divides text into overlapping chunks of approximately maxChunkSize
// characters, preferring sentence boundaries as break points and dropping
// fragments shorter than minChunkSize. Text within the size limit is
// returned as a single chunk.
func Split(text string, maxChunkSize, overlap, minChunkSize int) ([]string, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: maxChunkSize must be positive, got %d", ErrInvalidParams, maxChunkSize)
	}
	if overlap < 0 || overlap >= maxChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, maxChunkSize)", ErrInvalidParams, overlap)
	}
	if minChunkSize < 0 {
		return nil, fmt.Errorf("%w: minChunkSize must be non-negative, got %d", ErrInvalidParams, minChunkSize)
	}

	if text == "" {
		return nil, nil
	}
	// Windowing is rune-based so multi-byte characters are never cut in
	// half at a window boundary.
	runes := []rune(text)
	if len(runes) <= maxChunkSize {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxChunkSize
		if end >= len(runes) {
			if chunk := string(runes[start:]); utf8.RuneCountInString(chunk) >= minChunkSize {
				chunks = append(chunks, chunk)
			}
			break
		}

		var chunk string
		sentences := SplitIntoSentences(string(runes[start:end]))
		if len(sentences) > 1 {
			// Break at the last full sentence inside the window.
			chunk = strings.Join(sentences[:len(sentences)-1], " ")
			start += utf8.RuneCountInString(chunk)
		} else {
			chunk = string(runes[start:end])
			start = end - overlap
		}

		if utf8.RuneCountInString(chunk) >= minChunkSize {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// SplitWithMetadata divides text like Split and attaches the given metadata
// fields to every chunk, under a "text" key per chunk.
func SplitWithMetadata(text string, metadata map[string]any, maxChunkSize, overlap, minChunkSize int) ([]map[string]any, error) {
	chunks, err := Split(text, maxChunkSize, overlap, minChunkSize)
	if err != nil {
		return nil, err
	}

	entries := make([]map[string]any, len(chunks))
	for i, chunk := range chunks {
		entry := make(map[string]any, len(metadata)+1)
		maps.Copy(entry, metadata)
		entry["text"] = chunk
		entries[i] = entry
	}
	return entries, nil
}
