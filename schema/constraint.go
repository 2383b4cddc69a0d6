package schema

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// formatCheck validates string formats that need more than a regexp.
var formatCheck = validator.New()

// Format names a well-known string format.
type Format string

// Supported string formats.
const (
	FormatEmail    Format = "email"
	FormatDateTime Format = "date-time"
)

// lengthBounds are inclusive rune-count limits for strings.
type lengthBounds struct {
	min *int
	max *int
}

func (b lengthBounds) check(val, path string, issues *[]Issue) {
	n := utf8.RuneCountInString(val)
	if b.min != nil && n < *b.min {
		addIssue(issues, path, CodeTooSmall, "must be at least %d characters", *b.min)
	}
	if b.max != nil && n > *b.max {
		addIssue(issues, path, CodeTooBig, "must be at most %d characters", *b.max)
	}
}

func checkPattern(re *regexp.Regexp, val, path string, issues *[]Issue) {
	if re != nil && !re.MatchString(val) {
		addIssue(issues, path, CodeInvalidFormat, "must match pattern %s", re.String())
	}
}

func checkFormat(f Format, val, path string, issues *[]Issue) {
	switch f {
	case FormatEmail:
		if err := formatCheck.Var(val, "required,email"); err != nil {
			addIssue(issues, path, CodeInvalidFormat, "must be a valid email address")
		}
	case FormatDateTime:
		if _, err := time.Parse(time.RFC3339, val); err != nil {
			addIssue(issues, path, CodeInvalidFormat, "must be an ISO-8601 date-time")
		}
	}
}

func checkEnum(allowed []string, val, path string, issues *[]Issue) {
	if len(allowed) > 0 && !slices.Contains(allowed, val) {
		addIssue(issues, path, CodeInvalidEnum, "must be one of [%s]", strings.Join(allowed, ", "))
	}
}

// rangeBounds are inclusive numeric limits.
type rangeBounds struct {
	min *float64
	max *float64
}

func (b rangeBounds) check(val float64, path string, issues *[]Issue) {
	if b.min != nil && val < *b.min {
		addIssue(issues, path, CodeTooSmall, "must be at least %s", formatNumber(*b.min))
	}
	if b.max != nil && val > *b.max {
		addIssue(issues, path, CodeTooBig, "must be at most %s", formatNumber(*b.max))
	}
}

// itemBounds are inclusive array length limits.
type itemBounds struct {
	min *int
	max *int
}

func (b itemBounds) check(length int, path string, issues *[]Issue) {
	if b.min != nil && length < *b.min {
		addIssue(issues, path, CodeTooSmall, "must have at least %d items", *b.min)
	}
	if b.max != nil && length > *b.max {
		addIssue(issues, path, CodeTooBig, "must have at most %d items", *b.max)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func ptr[T any](v T) *T { return &v }
