package extract

import (
	"errors"
	"regexp"
	"strings"

	"github.com/spherical/circuit-extractor/internal/domain"
)

// ErrEmptyKeyword is returned when a keyword is blank.
var ErrEmptyKeyword = errors.New("keyword is empty")

// Matcher holds the two keyword patterns of a run, compiled once.
type Matcher struct {
	instance *regexp.Regexp
	outer    *regexp.Regexp
}

// NewMatcher compiles the instance keyword (literal) and the outer keyword
// (flexible). Both must contain something other than whitespace.
func NewMatcher(instanceKeyword, outerKeyword string) (*Matcher, error) {
	if strings.TrimSpace(instanceKeyword) == "" {
		return nil, domain.ValidationError("instance keyword is required", ErrEmptyKeyword)
	}
	if strings.TrimSpace(outerKeyword) == "" {
		return nil, domain.ValidationError("outer keyword is required", ErrEmptyKeyword)
	}

	return &Matcher{
		instance: literalPattern(instanceKeyword),
		outer:    flexiblePattern(outerKeyword),
	}, nil
}

// Instance applies the literal instance keyword.
func (m *Matcher) Instance(text string) (string, bool) {
	return firstMatch(m.instance, text)
}

// Outer applies the flexible outer keyword.
func (m *Matcher) Outer(text string) (string, bool) {
	return firstMatch(m.outer, text)
}
