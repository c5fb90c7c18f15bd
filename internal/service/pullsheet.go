package service

import (
	"context"
	"fmt"

	"stagekit-api/internal/model"
	"stagekit-api/internal/repository"
)

// PullSheetService handles pull sheet business logic. Checkout and
// return against a sheet also adjust the referenced inventory item's
// warehouse counter; removing a line item deliberately does not.
type PullSheetService struct {
	sheets    repository.PullSheetRepository
	inventory repository.InventoryRepository
}

// NewPullSheetService creates a new pull sheet service. Returns nil if
// either repository is nil.
func NewPullSheetService(sheets repository.PullSheetRepository, inventory repository.InventoryRepository) *PullSheetService {
	if sheets == nil || inventory == nil {
		return nil
	}
	return &PullSheetService{sheets: sheets, inventory: inventory}
}

// List returns all pull sheets, newest first.
func (s *PullSheetService) List(ctx context.Context) ([]model.PullSheet, error) {
	return s.sheets.List(ctx)
}

// Get returns one sheet without items, or nil when absent.
func (s *PullSheetService) Get(ctx context.Context, id string) (*model.PullSheet, error) {
	return s.sheets.GetByID(ctx, id)
}

// GetWithItems returns one sheet with its line items.
func (s *PullSheetService) GetWithItems(ctx context.Context, id string) (*model.PullSheet, error) {
	return s.sheets.GetWithItems(ctx, id)
}

// Create persists a new sheet.
func (s *PullSheetService) Create(ctx context.Context, sheet model.PullSheet) (*model.PullSheet, error) {
	return s.sheets.Create(ctx, sheet)
}

// Update merges partial changes into a sheet.
func (s *PullSheetService) Update(ctx context.Context, id string, changes model.PullSheetChanges) (*model.PullSheet, error) {
	return s.sheets.Update(ctx, id, changes)
}

// Delete removes a sheet and its line items.
func (s *PullSheetService) Delete(ctx context.Context, id string) (bool, error) {
	return s.sheets.Delete(ctx, id)
}

// ByJob returns sheets for a job.
func (s *PullSheetService) ByJob(ctx context.Context, jobID string) ([]model.PullSheet, error) {
	return s.sheets.GetByJobID(ctx, jobID)
}

// ByStatus returns sheets in the given status.
func (s *PullSheetService) ByStatus(ctx context.Context, status model.PullSheetStatus) ([]model.PullSheet, error) {
	return s.sheets.GetByStatus(ctx, status)
}

// AddItem appends an equipment line to a sheet.
func (s *PullSheetService) AddItem(ctx context.Context, sheetID string, item model.PullSheetItem) (*model.PullSheetItem, error) {
	return s.sheets.AddItem(ctx, sheetID, item)
}

// GetItem returns a single line scoped to its sheet.
func (s *PullSheetService) GetItem(ctx context.Context, sheetID, itemID string) (*model.PullSheetItem, error) {
	return s.sheets.GetItem(ctx, sheetID, itemID)
}

// RemoveItem deletes a line from a sheet. The referenced inventory
// item's counters are untouched.
func (s *PullSheetService) RemoveItem(ctx context.Context, sheetID, itemID string) (bool, error) {
	return s.sheets.RemoveItem(ctx, sheetID, itemID)
}

// CheckoutItem checks qty units of a line out of the warehouse: the
// line's counter and status update first, then the inventory item's
// warehouse quantity drops by the same amount.
func (s *PullSheetService) CheckoutItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error) {
	line, err := s.sheets.CheckoutItem(ctx, sheetID, itemID, qty)
	if err != nil {
		return nil, err
	}

	if _, err := s.inventory.CheckoutItem(ctx, line.InventoryItemID, qty); err != nil {
		return nil, fmt.Errorf("line updated but warehouse adjustment failed: %w", err)
	}
	return line, nil
}

// ReturnItem returns qty units of a line to the warehouse.
func (s *PullSheetService) ReturnItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error) {
	line, err := s.sheets.ReturnItem(ctx, sheetID, itemID, qty)
	if err != nil {
		return nil, err
	}

	if _, err := s.inventory.ReturnItem(ctx, line.InventoryItemID, qty); err != nil {
		return nil, fmt.Errorf("line updated but warehouse adjustment failed: %w", err)
	}
	return line, nil
}
