package jobnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func noExclusion(string) bool { return false }

func rowsWithJobNums(jobNums ...string) []RowRef {
	rows := make([]RowRef, 0, len(jobNums))
	for i, jn := range jobNums {
		rows = append(rows, row(1, int64(i+1), "101", "WR", jn))
	}
	return rows
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		jobNums []string
		want    string
	}{
		{"no existing numbers uses default", nil, "101-005"},
		{"padded dept format", []string{"101-001", "101-002"}, "101-005"},
		{"unpadded dept format", []string{"101-1", "101-2"}, "101-5"},
		{"prefix format carries prefix", []string{"FAC-101-001"}, "FAC-101-005"},
		{"pure numeric", []string{"001", "002"}, "005"},
		{"mixed formats fall back to default", []string{"101-001", "FAC-101-001"}, "101-005"},
		{"unparseable values fall back to default", []string{"garbage", "???"}, "101-005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DetectFormat(rowsWithJobNums(tt.jobNums...), noExclusion, zap.NewNop())
			assert.Equal(t, tt.want, f("101", 5))
		})
	}
}

func TestDetectFormat_IgnoresExcludedValues(t *testing.T) {
	rows := rowsWithJobNums("No Match - 004", "101-1")
	excluded := func(v string) bool { return v == "No Match - 004" }

	// Only "101-1" survives the filter, so the unpadded format wins.
	f := DetectFormat(rows, excluded, zap.NewNop())
	assert.Equal(t, "101-5", f("101", 5))
}

func TestFormatterFromConfig(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want string
	}{
		{"dept-pad3", true, "101-005"},
		{"dept-plain", true, "101-5"},
		{"numeric", true, "005"},
		{"prefix:FAC", true, "FAC-101-005"},
		{"", false, ""},
		{"bogus", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := FormatterFromConfig(tt.name)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, f("101", 5))
			}
		})
	}
}
