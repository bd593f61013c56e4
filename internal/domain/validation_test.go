package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int64
		expectError bool
	}{
		{name: "valid", quantity: 50},
		{name: "one", quantity: 1},
		{name: "max", quantity: MaxQuantity},
		{name: "zero", quantity: 0, expectError: true},
		{name: "negative", quantity: -5, expectError: true},
		{name: "over max", quantity: MaxQuantity + 1, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuantity(tt.quantity)
			if tt.expectError {
				if !errors.Is(err, ErrInvalidQuantity) {
					t.Errorf("expected ErrInvalidQuantity, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	if err := ValidateNote("cycle count correction, aisle 4"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateNote(""); !errors.Is(err, ErrNoteRequired) {
		t.Errorf("expected ErrNoteRequired for empty note, got %v", err)
	}

	if err := ValidateNote("   "); !errors.Is(err, ErrNoteRequired) {
		t.Errorf("expected ErrNoteRequired for blank note, got %v", err)
	}

	long := strings.Repeat("x", MaxNoteLength+1)
	if err := ValidateNote(long); !errors.Is(err, ErrNoteRequired) {
		t.Errorf("expected ErrNoteRequired for oversized note, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -10)
	if limit != 50 || offset != 0 {
		t.Errorf("defaults: got limit=%d offset=%d", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("max clamp: got limit=%d", limit)
	}

	limit, offset = ValidatePagination(20, 40)
	if limit != 20 || offset != 40 {
		t.Errorf("passthrough: got limit=%d offset=%d", limit, offset)
	}
}
