// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// matchRange is the rune range [start, end) of a query inside a text.
type matchRange struct {
	start, end int
}

var noMatch = matchRange{-1, -1}

// substringMatch finds pattern in text case-insensitively. pattern
// must already be lower case. An empty pattern matches at the start
// with an empty range.
func substringMatch(text string, pattern []rune) (matchRange, bool) {
	if len(pattern) == 0 {
		return matchRange{0, 0}, true
	}
	chars := util.ToChars([]byte(text))
	result, _ := algo.ExactMatchNaive(false, false, true, &chars, pattern, false, nil)
	if result.Start < 0 {
		return noMatch, false
	}
	return matchRange{result.Start, result.End}, true
}

// queryPattern lower-cases a query for substringMatch.
func queryPattern(query string) []rune {
	return []rune(strings.ToLower(query))
}

// optionMatch reports whether option's label or description contains
// the pattern, and where it falls in the label.
func optionMatch(option Option, pattern []rune) (matchRange, bool) {
	if labelRange, ok := substringMatch(option.Label, pattern); ok {
		return labelRange, true
	}
	if _, ok := substringMatch(option.Description, pattern); ok {
		return noMatch, true
	}
	return noMatch, false
}

// groupOrder returns the distinct group names in order of first
// appearance.
func groupOrder(options []Option) []string {
	var order []string
	seen := make(map[string]bool)
	for _, option := range options {
		if !seen[option.Group] {
			seen[option.Group] = true
			order = append(order, option.Group)
		}
	}
	return order
}

// filterOptions returns the source indexes of the options matching
// pattern, grouped: groups in first-appearance order, options in
// source order within a group. ranges receives each match's label
// range.
func filterOptions(options []Option, pattern []rune, ranges map[int]matchRange) []int {
	byGroup := make(map[string][]int)
	for index, option := range options {
		labelRange, ok := optionMatch(option, pattern)
		if !ok {
			continue
		}
		byGroup[option.Group] = append(byGroup[option.Group], index)
		if ranges != nil {
			ranges[index] = labelRange
		}
	}
	var visible []int
	for _, group := range groupOrder(options) {
		visible = append(visible, byGroup[group]...)
	}
	return visible
}
