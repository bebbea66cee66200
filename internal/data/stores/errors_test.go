package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bare ErrNoRows", sql.ErrNoRows, true},
		{"wrapped ErrNoRows", fmt.Errorf("kv get %q: %w", "release", sql.ErrNoRows), true},
		{"unrelated", errors.New("disk full"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFoundError(tt.err))
		})
	}
}

func TestIsBusyError_NonDriverErrors(t *testing.T) {
	// Only a driver error coded SQLITE_BUSY qualifies; everything else,
	// including sql package sentinels, reads as not busy.
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(errors.New("database is locked")))
	assert.False(t, IsBusyError(sql.ErrNoRows))
	assert.False(t, IsBusyError(fmt.Errorf("wrap: %w", sql.ErrConnDone)))
}

func TestClassifyWrite_PassesThroughNonBusy(t *testing.T) {
	base := errors.New("constraint failed")
	assert.ErrorIs(t, classifyWrite(base), base)
	assert.Equal(t, "constraint failed", classifyWrite(base).Error(), "non-busy errors are not rewrapped")
	assert.Nil(t, classifyWrite(nil))
}
