package services

import (
	"context"
	"fmt"
	"time"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
)

// memStore is an in-memory repositories.Store for service tests. It runs
// the transaction body directly against shared maps; since every test
// drives a single goroutine, no locking or rollback simulation is needed.
type memStore struct {
	tx *memTx
}

func newMemStore() *memStore {
	return &memStore{tx: &memTx{
		seqs:          make(map[string]int),
		inventories:   make(map[invKey]*models.Inventory),
		transfers:     make(map[int]*models.TransferRequest),
		transferItems: make(map[int][]*models.TransferRequestItem),
		dispatches:    make(map[int]*models.DispatchSlip),
		discrepancies: make(map[int]*models.StockDiscrepancy),
	}}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx repositories.Tx) error) error {
	return fn(s.tx)
}

type invKey struct {
	itemID   int
	branchID int
}

type memTx struct {
	seqs          map[string]int
	inventories   map[invKey]*models.Inventory
	movements     []*models.StockMovement
	transfers     map[int]*models.TransferRequest
	transferItems map[int][]*models.TransferRequestItem
	dispatches    map[int]*models.DispatchSlip
	receivings    []*models.ReceivingSlip
	receivingRows []*models.ReceivingSlipItem
	discrepancies map[int]*models.StockDiscrepancy
	nextID        int
}

func (tx *memTx) id() int {
	tx.nextID++
	return tx.nextID
}

func (tx *memTx) seedInventory(itemID, branchID, current, reserved int) {
	tx.inventories[invKey{itemID, branchID}] = &models.Inventory{
		ID:            tx.id(),
		ItemID:        itemID,
		BranchID:      branchID,
		CurrentStock:  current,
		ReservedStock: reserved,
	}
}

func (tx *memTx) inventory(itemID, branchID int) *models.Inventory {
	return tx.inventories[invKey{itemID, branchID}]
}

func (tx *memTx) movementsFor(itemID, branchID int) []*models.StockMovement {
	var out []*models.StockMovement
	for _, m := range tx.movements {
		if m.ItemID == itemID && m.BranchID == branchID {
			out = append(out, m)
		}
	}
	return out
}

func (tx *memTx) NextDocumentNumber(ctx context.Context, docType string, day time.Time) (int, error) {
	key := docType + "-" + day.Format("20060102")
	tx.seqs[key]++
	return tx.seqs[key], nil
}

func (tx *memTx) InventoryForUpdate(ctx context.Context, itemID, branchID int) (*models.Inventory, error) {
	key := invKey{itemID, branchID}
	inv, ok := tx.inventories[key]
	if !ok {
		inv = &models.Inventory{ID: tx.id(), ItemID: itemID, BranchID: branchID}
		tx.inventories[key] = inv
	}
	cp := *inv
	return &cp, nil
}

func (tx *memTx) SetInventoryLevels(ctx context.Context, itemID, branchID, currentStock, reservedStock, updatedBy int) error {
	inv, ok := tx.inventories[invKey{itemID, branchID}]
	if !ok {
		return fmt.Errorf("%w: inventory for item %d at branch %d", apperrors.ErrNotFound, itemID, branchID)
	}
	inv.CurrentStock = currentStock
	inv.ReservedStock = reservedStock
	inv.AvailableStock = currentStock - reservedStock
	ub := updatedBy
	inv.UpdatedBy = &ub
	return nil
}

func (tx *memTx) InsertMovement(ctx context.Context, m *models.StockMovement) error {
	m.ID = tx.id()
	cp := *m
	tx.movements = append(tx.movements, &cp)
	return nil
}

func (tx *memTx) SumMovements(ctx context.Context, itemID, branchID int) (int, error) {
	sum := 0
	for _, m := range tx.movementsFor(itemID, branchID) {
		sum += m.Delta()
	}
	return sum, nil
}

func (tx *memTx) InsertTransfer(ctx context.Context, t *models.TransferRequest) error {
	t.ID = tx.id()
	cp := *t
	tx.transfers[t.ID] = &cp
	return nil
}

func (tx *memTx) InsertTransferItem(ctx context.Context, it *models.TransferRequestItem) error {
	it.ID = tx.id()
	cp := *it
	tx.transferItems[it.TransferID] = append(tx.transferItems[it.TransferID], &cp)
	return nil
}

func (tx *memTx) TransferForUpdate(ctx context.Context, id int) (*models.TransferRequest, error) {
	t, ok := tx.transfers[id]
	if !ok {
		return nil, fmt.Errorf("%w: transfer %d", apperrors.ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

func (tx *memTx) TransferItems(ctx context.Context, transferID int) ([]models.TransferRequestItem, error) {
	var out []models.TransferRequestItem
	for _, it := range tx.transferItems[transferID] {
		out = append(out, *it)
	}
	return out, nil
}

func (tx *memTx) TransitionTransfer(ctx context.Context, id int, expected, next models.TransferStatus, actorID int, reason string) (bool, error) {
	t, ok := tx.transfers[id]
	if !ok {
		return false, fmt.Errorf("%w: transfer %d", apperrors.ErrNotFound, id)
	}
	if t.Status != expected {
		return false, nil
	}
	t.Status = next
	if reason != "" {
		r := reason
		t.RejectionReason = &r
	}
	return true, nil
}

func (tx *memTx) transferItem(transferID, itemID int) (*models.TransferRequestItem, error) {
	for _, it := range tx.transferItems[transferID] {
		if it.ItemID == itemID {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: item %d on transfer %d", apperrors.ErrNotFound, itemID, transferID)
}

func (tx *memTx) SetApprovedQuantity(ctx context.Context, transferID, itemID, quantity int) error {
	it, err := tx.transferItem(transferID, itemID)
	if err != nil {
		return err
	}
	q := quantity
	it.ApprovedQuantity = &q
	return nil
}

func (tx *memTx) SetDispatchedQuantity(ctx context.Context, transferID, itemID, quantity int) error {
	it, err := tx.transferItem(transferID, itemID)
	if err != nil {
		return err
	}
	it.DispatchedQuantity = quantity
	return nil
}

func (tx *memTx) SetReceivedQuantity(ctx context.Context, transferID, itemID, quantity int) error {
	it, err := tx.transferItem(transferID, itemID)
	if err != nil {
		return err
	}
	it.ReceivedQuantity = quantity
	return nil
}

func (tx *memTx) InsertDispatchSlip(ctx context.Context, d *models.DispatchSlip) error {
	d.ID = tx.id()
	cp := *d
	tx.dispatches[d.TransferID] = &cp
	return nil
}

func (tx *memTx) DispatchSlipForTransfer(ctx context.Context, transferID int) (*models.DispatchSlip, error) {
	d, ok := tx.dispatches[transferID]
	if !ok {
		return nil, fmt.Errorf("%w: dispatch slip for transfer %d", apperrors.ErrNotFound, transferID)
	}
	cp := *d
	return &cp, nil
}

func (tx *memTx) InsertReceivingSlip(ctx context.Context, r *models.ReceivingSlip) error {
	r.ID = tx.id()
	cp := *r
	tx.receivings = append(tx.receivings, &cp)
	return nil
}

func (tx *memTx) InsertReceivingSlipItem(ctx context.Context, it *models.ReceivingSlipItem) error {
	it.ID = tx.id()
	cp := *it
	tx.receivingRows = append(tx.receivingRows, &cp)
	return nil
}

func (tx *memTx) InsertDiscrepancy(ctx context.Context, d *models.StockDiscrepancy) error {
	d.ID = tx.id()
	cp := *d
	tx.discrepancies[d.ID] = &cp
	return nil
}

func (tx *memTx) DiscrepancyForUpdate(ctx context.Context, id int) (*models.StockDiscrepancy, error) {
	d, ok := tx.discrepancies[id]
	if !ok {
		return nil, fmt.Errorf("%w: discrepancy %d", apperrors.ErrNotFound, id)
	}
	cp := *d
	return &cp, nil
}

func (tx *memTx) TransitionDiscrepancy(ctx context.Context, id int, expected, next models.DiscrepancyStatus, update models.DiscrepancyUpdate) (bool, error) {
	d, ok := tx.discrepancies[id]
	if !ok {
		return false, fmt.Errorf("%w: discrepancy %d", apperrors.ErrNotFound, id)
	}
	if d.Status != expected {
		return false, nil
	}
	d.Status = next
	if update.InvestigationNotes != nil {
		d.InvestigationNotes = *update.InvestigationNotes
	}
	if update.Resolution != nil {
		d.Resolution = *update.Resolution
	}
	if update.ResolvedBy != nil {
		d.ResolvedBy = update.ResolvedBy
	}
	if update.AdjustmentID != nil {
		d.AdjustmentID = update.AdjustmentID
	}
	if update.ResolvedAt != nil {
		d.ResolvedAt = update.ResolvedAt
	}
	return true, nil
}
