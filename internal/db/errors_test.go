package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapGormError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped record not found", fmt.Errorf("x: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"unique constraint", errors.New("UNIQUE constraint failed: media_items.id"), ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapGormError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	other := errors.New("disk I/O error")
	assert.Equal(t, other, MapGormError(other))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("UNIQUE constraint failed", []string{"foo", "UNIQUE constraint"}))
	assert.False(t, containsAny("no match", []string{"UNIQUE"}))
	assert.False(t, containsAny("", []string{"x"}))
}
