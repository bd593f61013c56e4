package domain

import (
	"errors"
	"testing"
)

func TestTransfer_Validate(t *testing.T) {
	tests := []struct {
		name        string
		sourceID    string
		destID      string
		quantity    int64
		expectError error
	}{
		{
			name:     "valid transfer",
			sourceID: "wh-1",
			destID:   "wh-2",
			quantity: 30,
		},
		{
			name:        "same warehouse",
			sourceID:    "wh-1",
			destID:      "wh-1",
			quantity:    30,
			expectError: ErrSameWarehouse,
		},
		{
			name:        "zero quantity",
			sourceID:    "wh-1",
			destID:      "wh-2",
			quantity:    0,
			expectError: ErrInvalidQuantity,
		},
		{
			name:        "negative quantity",
			sourceID:    "wh-1",
			destID:      "wh-2",
			quantity:    -30,
			expectError: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer := &Transfer{
				SourceWarehouseID: tt.sourceID,
				DestWarehouseID:   tt.destID,
				ProductID:         "prod-1",
				Quantity:          tt.quantity,
			}

			err := transfer.Validate()
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected error %v, got %v", tt.expectError, err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to TransferState }{
		{TransferRequested, TransferDispatched},
		{TransferRequested, TransferCancelled},
		{TransferDispatched, TransferReceived},
		{TransferDispatched, TransferCancelled},
	}

	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	forbidden := []struct{ from, to TransferState }{
		{TransferRequested, TransferReceived},
		{TransferReceived, TransferCancelled},
		{TransferReceived, TransferDispatched},
		{TransferCancelled, TransferDispatched},
		{TransferCancelled, TransferReceived},
		{TransferDispatched, TransferRequested},
	}

	for _, tr := range forbidden {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be forbidden", tr.from, tr.to)
		}
	}
}

func TestTransfer_InTransit(t *testing.T) {
	transfer := &Transfer{Quantity: 30, State: TransferRequested}

	if got := transfer.InTransit(); got != 0 {
		t.Errorf("requested transfer in transit = %d, want 0", got)
	}

	transfer.State = TransferDispatched
	if got := transfer.InTransit(); got != 30 {
		t.Errorf("dispatched transfer in transit = %d, want 30", got)
	}

	transfer.State = TransferReceived
	if got := transfer.InTransit(); got != 0 {
		t.Errorf("received transfer in transit = %d, want 0", got)
	}
}
