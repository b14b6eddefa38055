package sheets_test

import (
	"errors"
	"fmt"
	"testing"

	"jobsync/core/sheets"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		capacity  bool
		transient bool
	}{
		{
			name:     "not found",
			err:      &sheets.APIError{StatusCode: 404, Code: sheets.CodeNotFound},
			notFound: true,
		},
		{
			name:     "capacity",
			err:      &sheets.APIError{StatusCode: 400, Code: sheets.CodeSheetAtCapacity},
			capacity: true,
		},
		{
			name:      "rate limited",
			err:       &sheets.APIError{StatusCode: 429, Code: sheets.CodeRateLimited},
			transient: true,
		},
		{
			name:      "server error",
			err:       &sheets.APIError{StatusCode: 502},
			transient: true,
		},
		{
			name: "client error",
			err:  &sheets.APIError{StatusCode: 400, Code: 1012},
		},
		{
			name:      "wrapped api error keeps classification",
			err:       fmt.Errorf("update rows: %w", &sheets.APIError{StatusCode: 500}),
			transient: true,
		},
		{
			name:      "transport error is transient",
			err:       errors.New("connection reset by peer"),
			transient: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, sheets.IsNotFound(tt.err))
			assert.Equal(t, tt.capacity, sheets.IsCapacity(tt.err))
			assert.Equal(t, tt.transient, sheets.IsTransient(tt.err))
		})
	}
}

func TestIsTransient_NilError(t *testing.T) {
	assert.False(t, sheets.IsTransient(nil))
}
