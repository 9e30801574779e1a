package repositories

import (
	"context"
	"time"

	"stockflow-backend/internal/models"
)

// Store opens transactions over the inventory schema. The pgx-backed
// implementation is TxStore; service tests substitute an in-memory one.
type Store interface {
	// WithinTx runs fn inside a single database transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row-level primitives the transactional flows are built
// from. Every method operates inside the surrounding transaction, so
// ForUpdate reads hold their row locks until commit.
type Tx interface {
	// NextDocumentNumber atomically increments and returns the per-day
	// counter for a document type (TR, DS, RS).
	NextDocumentNumber(ctx context.Context, docType string, day time.Time) (int, error)

	// InventoryForUpdate locks and returns the balance row for
	// (item, branch), inserting a zero row first if none exists.
	InventoryForUpdate(ctx context.Context, itemID, branchID int) (*models.Inventory, error)
	// SetInventoryLevels writes both stock columns of a previously locked
	// balance row.
	SetInventoryLevels(ctx context.Context, itemID, branchID, currentStock, reservedStock, updatedBy int) error
	// InsertMovement appends a ledger row and fills in its ID.
	InsertMovement(ctx context.Context, m *models.StockMovement) error
	// SumMovements replays the ledger for (item, branch) and returns the
	// summed signed deltas.
	SumMovements(ctx context.Context, itemID, branchID int) (int, error)

	InsertTransfer(ctx context.Context, t *models.TransferRequest) error
	InsertTransferItem(ctx context.Context, it *models.TransferRequestItem) error
	// TransferForUpdate locks the transfer header row.
	TransferForUpdate(ctx context.Context, id int) (*models.TransferRequest, error)
	TransferItems(ctx context.Context, transferID int) ([]models.TransferRequestItem, error)
	// TransitionTransfer moves the transfer from expected to next with a
	// conditional update. Returns false when the row was not in the
	// expected status, which means a concurrent writer won.
	TransitionTransfer(ctx context.Context, id int, expected, next models.TransferStatus, actorID int, reason string) (bool, error)
	SetApprovedQuantity(ctx context.Context, transferID, itemID, quantity int) error
	SetDispatchedQuantity(ctx context.Context, transferID, itemID, quantity int) error
	SetReceivedQuantity(ctx context.Context, transferID, itemID, quantity int) error

	InsertDispatchSlip(ctx context.Context, d *models.DispatchSlip) error
	DispatchSlipForTransfer(ctx context.Context, transferID int) (*models.DispatchSlip, error)
	InsertReceivingSlip(ctx context.Context, r *models.ReceivingSlip) error
	InsertReceivingSlipItem(ctx context.Context, it *models.ReceivingSlipItem) error

	InsertDiscrepancy(ctx context.Context, d *models.StockDiscrepancy) error
	// DiscrepancyForUpdate locks the discrepancy row.
	DiscrepancyForUpdate(ctx context.Context, id int) (*models.StockDiscrepancy, error)
	// TransitionDiscrepancy conditionally moves a discrepancy between
	// workflow statuses, same contract as TransitionTransfer.
	TransitionDiscrepancy(ctx context.Context, id int, expected, next models.DiscrepancyStatus, update models.DiscrepancyUpdate) (bool, error)
}
