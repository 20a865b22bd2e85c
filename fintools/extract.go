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

// Package fintools extracts financial quantities from text and performs
// common financial calculations.
package fintools

import (
	"regexp"
	"strconv"
	"strings"
)

// MonetaryValue is one monetary amount found in text: the raw matched text
// and the amount scaled to units (million/billion/trillion expanded).
type MonetaryValue struct {
	Raw    string
	Amount float64
}

var monetaryPattern = regexp.MustCompile(`\$?(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(million|billion|trillion)?`)

// ExtractMonetaryValues finds monetary values such as "$1,234.56" or
// "1.2 billion" in text.
func ExtractMonetaryValues(text string) []MonetaryValue {
	var values []MonetaryValue
	for _, match := range monetaryPattern.FindAllStringSubmatch(text, -1) {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		switch match[2] {
		case "million":
			amount *= 1e6
		case "billion":
			amount *= 1e9
		case "trillion":
			amount *= 1e12
		}
		values = append(values, MonetaryValue{Raw: strings.TrimSpace(match[0]), Amount: amount})
	}
	return values
}

// Percentage is one percentage found in text.
type Percentage struct {
	Raw   string
	Value float64
}

var percentagePattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(?:%|percent|percentage)`)

// ExtractPercentages finds percentage values such as "12.34%" or
// "12.34 percent" in text.
func ExtractPercentages(text string) []Percentage {
	var percentages []Percentage
	for _, match := range percentagePattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		percentages = append(percentages, Percentage{Raw: match[0], Value: value})
	}
	return percentages
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?,\s+\d{4}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
}

// ExtractDates finds dates in "January 1, 2023", "01/01/2023" and
// "2023-01-01" formats.
func ExtractDates(text string) []string {
	var dates []string
	for _, pattern := range datePatterns {
		dates = append(dates, pattern.FindAllString(text, -1)...)
	}
	return dates
}

// CheckFinancialTerms reports, for each term, whether it occurs in the text
// (case-insensitive).
func CheckFinancialTerms(text string, terms []string) map[string]bool {
	lower := strings.ToLower(text)
	found := make(map[string]bool, len(terms))
	for _, term := range terms {
		found[term] = strings.Contains(lower, strings.ToLower(term))
	}
	return found
}

// CommonTerms are the financial terms ExtractFinancialMetrics checks for.
var CommonTerms = []string{
	"revenue", "profit", "loss", "income", "expense",
	"assets", "liabilities", "equity", "cash flow",
	"earnings", "dividend", "stock", "share",
}

// Metrics is a rollup of every quantity extractor applied to one text.
type Metrics struct {
	MonetaryValues []MonetaryValue
	Percentages    []Percentage
	Dates          []string
	CommonTerms    map[string]bool
}

// ExtractFinancialMetrics applies all extractors to the text.
func ExtractFinancialMetrics(text string) Metrics {
	return Metrics{
		MonetaryValues: ExtractMonetaryValues(text),
		Percentages:    ExtractPercentages(text),
		Dates:          ExtractDates(text),
		CommonTerms:    CheckFinancialTerms(text, CommonTerms),
	}
}
