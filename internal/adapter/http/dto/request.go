package dto

import (
	"github.com/iho/stockledger/internal/usecase"
)

// ReceiptLineRequest is one line of a posted receipt document.
type ReceiptLineRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	LineNumber  int    `json:"line_number"`
	Quantity    int64  `json:"quantity"`
}

// PostReceiptRequest represents a request to post a receipt document.
type PostReceiptRequest struct {
	DocumentID string               `json:"document_id"`
	Lines      []ReceiptLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *PostReceiptRequest) ToUseCaseInput(actor string) usecase.PostReceiptInput {
	lines := make([]usecase.ReceiptLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.ReceiptLine{
			WarehouseID: l.WarehouseID,
			ProductID:   l.ProductID,
			LineNumber:  l.LineNumber,
			Quantity:    l.Quantity,
		}
	}

	return usecase.PostReceiptInput{
		DocumentID: r.DocumentID,
		Actor:      actor,
		Lines:      lines,
	}
}

// PostAdjustmentRequest represents a request to post a manual adjustment.
type PostAdjustmentRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Delta       int64  `json:"delta"`
	Note        string `json:"note"`
	Reference   string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostAdjustmentRequest) ToUseCaseInput(actor string) usecase.PostAdjustmentInput {
	return usecase.PostAdjustmentInput{
		WarehouseID: r.WarehouseID,
		ProductID:   r.ProductID,
		Delta:       r.Delta,
		Note:        r.Note,
		Reference:   r.Reference,
		Actor:       actor,
	}
}

// RequestTransferRequest represents a request to open a transfer.
type RequestTransferRequest struct {
	SourceWarehouseID string `json:"source_warehouse_id"`
	DestWarehouseID   string `json:"dest_warehouse_id"`
	ProductID         string `json:"product_id"`
	Quantity          int64  `json:"quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *RequestTransferRequest) ToUseCaseInput(actor string) usecase.RequestTransferInput {
	return usecase.RequestTransferInput{
		SourceWarehouseID: r.SourceWarehouseID,
		DestWarehouseID:   r.DestWarehouseID,
		ProductID:         r.ProductID,
		Quantity:          r.Quantity,
		Actor:             actor,
	}
}

// CancelTransferRequest represents a request to cancel a transfer.
type CancelTransferRequest struct {
	Reason string `json:"reason,omitempty"`
}
