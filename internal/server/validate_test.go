package server

import (
	"testing"

	"github.com/nodepulse/nodepulse/internal/errors"
)

func TestValidateRequestSize(t *testing.T) {
	tests := []struct {
		name string
		size int
		ok   bool
	}{
		{"empty body", 0, true},
		{"small body", 1024, true},
		{"exactly at limit", MaxRequestSize, true},
		{"one byte over", MaxRequestSize + 1, false},
		{"well over", MaxRequestSize * 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequestSize(tt.size)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, errors.ErrRequestTooLarge) {
					t.Errorf("expected ErrRequestTooLarge, got %v", err)
				}
				if !errors.IsValidation(err) {
					t.Error("size rejection should classify as validation error")
				}
			}
		})
	}
}
