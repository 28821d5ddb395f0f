// Package extract pulls interface and circuit fields out of free-text
// configuration descriptions.
//
// Every extractor returns (value, ok). A false ok is a normal "no match"
// outcome, never an error.
package extract

import (
	"regexp"
	"strings"
)

var (
	unitRe            = regexp.MustCompile(`(?i)unit\s+(\d+)`)
	descriptionRe     = regexp.MustCompile(`(?i)description\s+"([^"]+)`)
	routingInstanceRe = regexp.MustCompile(`(?i)routing-instances\s+(\S+)`)
)

// instanceDelimiter separates the instance name from the rest of a quoted
// description, e.g. "ae2.100 - customer X".
const instanceDelimiter = " - "

// flexibleSeparator stands in for each literal space of a flexible keyword.
const flexibleSeparator = `[-_\s]*`

// MatchLiteral finds keyword in text, case-insensitively, treating every
// character of keyword literally. It returns the matched span as it appears
// in text.
func MatchLiteral(text, keyword string) (string, bool) {
	return firstMatch(literalPattern(keyword), text)
}

// MatchFlexible is MatchLiteral where each space in keyword matches zero or
// more '-', '_' or whitespace characters, so "outer 1002" also finds
// "outer-1002", "OUTER_1002" and "outer1002".
func MatchFlexible(text, keyword string) (string, bool) {
	return firstMatch(flexiblePattern(keyword), text)
}

// ExtractUnit returns the digits following "unit".
func ExtractUnit(text string) (string, bool) {
	return submatch(unitRe, text)
}

// ExtractInstanceName returns the part of a quoted description clause before
// the first " - ".
func ExtractInstanceName(text string) (string, bool) {
	quoted, ok := submatch(descriptionRe, text)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(quoted, instanceDelimiter)
	return name, true
}

// ExtractRoutingInstance returns the token following "routing-instances".
func ExtractRoutingInstance(text string) (string, bool) {
	return submatch(routingInstanceRe, text)
}

func literalPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
}

func flexiblePattern(keyword string) *regexp.Regexp {
	parts := strings.Split(keyword, " ")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("(?i)" + strings.Join(parts, flexibleSeparator))
}

func firstMatch(re *regexp.Regexp, text string) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

func submatch(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
