package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/stockledger/internal/domain"
)

func TestTransferFromDomain(t *testing.T) {
	dispatched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	transfer := &domain.Transfer{
		ID:                "t-1",
		SourceWarehouseID: "wh-a",
		DestWarehouseID:   "wh-b",
		ProductID:         "prod-1",
		Quantity:          30,
		State:             domain.TransferDispatched,
		DispatchedAt:      &dispatched,
	}

	resp := TransferFromDomain(transfer)

	require.NotNil(t, resp)
	assert.Equal(t, "t-1", resp.ID)
	assert.Equal(t, string(domain.TransferDispatched), resp.State)
	assert.Equal(t, int64(30), resp.InTransit, "dispatched quantity is in transit")
	require.NotNil(t, resp.DispatchedAt)
	assert.Nil(t, resp.ReceivedAt)
	assert.Nil(t, resp.CancelledAt)
}

func TestMovementFromDomainOmitsEmptyOptionalFields(t *testing.T) {
	m := &domain.Movement{
		ID:            7,
		WarehouseID:   "wh-a",
		ProductID:     "prod-1",
		QuantityDelta: 5,
		Kind:          domain.KindReceipt,
	}

	resp := MovementFromDomain(m)

	require.NotNil(t, resp)
	assert.Equal(t, int64(7), resp.ID)
	assert.Empty(t, resp.CorrelationID)
	assert.Empty(t, resp.IdempotencyKey)
}

func TestPluralConvertersPreserveOrder(t *testing.T) {
	movements := []*domain.Movement{
		{ID: 1, QuantityDelta: 10, Kind: domain.KindReceipt},
		{ID: 2, QuantityDelta: -4, Kind: domain.KindTransferOut},
	}

	resp := MovementsFromDomain(movements)

	require.Len(t, resp, 2)
	assert.Equal(t, int64(1), resp[0].ID)
	assert.Equal(t, int64(2), resp[1].ID)

	balances := BalancesFromDomain([]*domain.Balance{
		{WarehouseID: "wh-a", ProductID: "prod-1", OnHand: 6},
	})
	require.Len(t, balances, 1)
	assert.Equal(t, int64(6), balances[0].OnHand)
}
