package domain

import (
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		validation bool
		conflict   bool
		fatal      bool
	}{
		{name: "insufficient stock", err: ErrInsufficientStock, validation: true},
		{name: "invalid kind", err: ErrInvalidKind, validation: true},
		{name: "unknown warehouse", err: ErrUnknownWarehouse, validation: true},
		{name: "note required", err: ErrNoteRequired, validation: true},
		{name: "invalid transfer state", err: ErrInvalidTransferState, validation: true},
		{name: "duplicate reference", err: ErrDuplicateReference, conflict: true},
		{name: "stale balance", err: ErrStaleBalance, conflict: true},
		{name: "orphan transfer leg", err: ErrOrphanTransferLeg, fatal: true},
		{name: "projection diverged", err: ErrProjectionDiverged, fatal: true},
		{name: "bare integrity", err: ErrIntegrity, fatal: true},
		{name: "wrapped validation", err: fmt.Errorf("line 3: %w", ErrInsufficientStock), validation: true},
		{name: "wrapped conflict", err: fmt.Errorf("doc PO-1: %w", ErrDuplicateReference), conflict: true},
		{name: "wrapped integrity", err: fmt.Errorf("%w: key wh-1/prod-1", ErrProjectionDiverged), fatal: true},
		{name: "unrelated", err: fmt.Errorf("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation = %v, want %v", got, tt.validation)
			}
			if got := IsConflict(tt.err); got != tt.conflict {
				t.Errorf("IsConflict = %v, want %v", got, tt.conflict)
			}
			if got := IsFatal(tt.err); got != tt.fatal {
				t.Errorf("IsFatal = %v, want %v", got, tt.fatal)
			}
		})
	}
}
