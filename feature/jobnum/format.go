package jobnum

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Formatter renders a job number from a department code and counter value.
type Formatter func(dept string, counter int) string

// DefaultFormatter is the zero-padded three digit form "101-001".
func DefaultFormatter(dept string, counter int) string {
	return fmt.Sprintf("%s-%03d", dept, counter)
}

// FormatterFromConfig resolves an explicit format override. Recognized
// names: "dept-pad3", "dept-plain", "numeric", and "prefix:<P>". Returns
// (nil, false) for an empty or unknown value.
func FormatterFromConfig(name string) (Formatter, bool) {
	switch {
	case name == "dept-pad3":
		return DefaultFormatter, true
	case name == "dept-plain":
		return func(dept string, counter int) string {
			return fmt.Sprintf("%s-%d", dept, counter)
		}, true
	case name == "numeric":
		return func(_ string, counter int) string {
			return fmt.Sprintf("%03d", counter)
		}, true
	case strings.HasPrefix(name, "prefix:"):
		prefix := strings.TrimPrefix(name, "prefix:")
		return func(dept string, counter int) string {
			return fmt.Sprintf("%s-%s-%03d", prefix, dept, counter)
		}, true
	}
	return nil, false
}

// numberShape classifies an existing job number for format detection.
type numberShape struct {
	kind   string // "dept-pad3", "dept-plain", "numeric", "prefix"
	prefix string
}

// DetectFormat inspects existing job numbers and picks a formatter matching
// the convention already in use, so new assignments blend in with manually
// entered historical data. Detection is best effort: when no numbers exist,
// none parse, or the samples disagree, the default format wins.
func DetectFormat(rows []RowRef, excluded func(string) bool, log *zap.Logger) Formatter {
	var shapes []numberShape
	samples := 0
	for _, row := range rows {
		if row.JobNum == "" || excluded(row.JobNum) {
			continue
		}
		samples++
		if shape, ok := classify(row.JobNum); ok {
			shapes = append(shapes, shape)
		}
	}

	if samples == 0 {
		log.Info("no existing job numbers found, using default format")
		return DefaultFormatter
	}

	if len(shapes) == 0 {
		log.Info("existing job numbers did not match a known pattern, using default format",
			zap.Int("samples", samples))
		return DefaultFormatter
	}

	// Mixed historical conventions are inherently ambiguous; fall back to
	// the default rather than guess.
	first := shapes[0]
	for _, shape := range shapes[1:] {
		if shape != first {
			log.Warn("existing job numbers use mixed formats, using default format",
				zap.String("first", first.kind), zap.String("other", shape.kind))
			return DefaultFormatter
		}
	}

	log.Info("detected job number format", zap.String("format", first.kind))
	switch first.kind {
	case "dept-plain":
		f, _ := FormatterFromConfig("dept-plain")
		return f
	case "numeric":
		f, _ := FormatterFromConfig("numeric")
		return f
	case "prefix":
		f, _ := FormatterFromConfig("prefix:" + first.prefix)
		return f
	default:
		return DefaultFormatter
	}
}

func classify(jobNum string) (numberShape, bool) {
	jobNum = strings.TrimSpace(jobNum)
	if jobNum == "" {
		return numberShape{}, false
	}
	if isDigits(jobNum) {
		return numberShape{kind: "numeric"}, true
	}

	parts := strings.Split(jobNum, "-")
	last := parts[len(parts)-1]
	if !isDigits(last) {
		return numberShape{}, false
	}
	switch len(parts) {
	case 2:
		if len(last) >= 3 {
			return numberShape{kind: "dept-pad3"}, true
		}
		return numberShape{kind: "dept-plain"}, true
	case 3:
		return numberShape{kind: "prefix", prefix: parts[0]}, true
	}
	return numberShape{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
