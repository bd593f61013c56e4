package domain

import (
	"fmt"
	"strings"
)

// Validation constants
const (
	MaxQuantity   = 1_000_000_000 // per movement
	MaxNoteLength = 1024
	MinNoteLength = 3
	MaxIDLength   = 64
)

// ValidateQuantity validates a positive movement quantity.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if quantity > MaxQuantity {
		return fmt.Errorf("%w: maximum quantity is %d", ErrInvalidQuantity, int64(MaxQuantity))
	}

	return nil
}

// ValidateNote validates the mandatory free-text justification on manual
// adjustments. The note is part of the audit record, not decoration.
func ValidateNote(note string) error {
	note = strings.TrimSpace(note)

	if len(note) < MinNoteLength {
		return ErrNoteRequired
	}

	if len(note) > MaxNoteLength {
		return fmt.Errorf("%w: note exceeds %d characters", ErrNoteRequired, MaxNoteLength)
	}

	return nil
}

// ValidateReference validates a warehouse or product identifier shape.
func ValidateReference(id string) error {
	id = strings.TrimSpace(id)

	if id == "" || len(id) > MaxIDLength {
		return fmt.Errorf("invalid reference id %q", id)
	}

	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
