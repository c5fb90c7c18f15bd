package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stagekit-api/internal/bridge"
	"stagekit-api/internal/model"
)

// LocalPullSheetRepository implements PullSheetRepository over the
// desktop bridge. Every method maps 1:1 to a bridge method.
type LocalPullSheetRepository struct{}

// NewLocalPullSheetRepository creates the desktop-side pull sheet
// repository. Errors immediately when no bridge is registered.
func NewLocalPullSheetRepository() (*LocalPullSheetRepository, error) {
	if !bridge.Available() {
		return nil, ErrNoBridge
	}
	log.Printf("[LocalPullSheetRepository] Initialized over desktop bridge")
	return &LocalPullSheetRepository{}, nil
}

func (r *LocalPullSheetRepository) readSheets(ctx context.Context, method string, args any) ([]model.PullSheet, error) {
	var sheets []model.PullSheet
	if err := callBridge(ctx, method, args, &sheets); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalPullSheetRepository] %s failed: %v", method, err)
		return []model.PullSheet{}, nil
	}
	if sheets == nil {
		sheets = []model.PullSheet{}
	}
	return sheets, nil
}

// List returns all pull sheets, newest first.
func (r *LocalPullSheetRepository) List(ctx context.Context) ([]model.PullSheet, error) {
	return r.readSheets(ctx, "pullsheets.list", struct{}{})
}

// GetByID returns the sheet without its items, or nil when absent.
func (r *LocalPullSheetRepository) GetByID(ctx context.Context, id string) (*model.PullSheet, error) {
	var sheet *model.PullSheet
	if err := callBridge(ctx, "pullsheets.get", bridge.IDArgs{ID: id}, &sheet); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalPullSheetRepository] pullsheets.get failed: %v", err)
		return nil, nil
	}
	return sheet, nil
}

// GetWithItems returns the sheet with its line items in one bridge call.
func (r *LocalPullSheetRepository) GetWithItems(ctx context.Context, id string) (*model.PullSheet, error) {
	var sheet *model.PullSheet
	if err := callBridge(ctx, "pullsheets.getWithItems", bridge.IDArgs{ID: id}, &sheet); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalPullSheetRepository] pullsheets.getWithItems failed: %v", err)
		return nil, nil
	}
	return sheet, nil
}

// Create persists a new sheet. Locally created sheets come back with
// Synced=false until a sync confirms them.
func (r *LocalPullSheetRepository) Create(ctx context.Context, sheet model.PullSheet) (*model.PullSheet, error) {
	var created model.PullSheet
	if err := callBridge(ctx, "pullsheets.create", sheet, &created); err != nil {
		return nil, fmt.Errorf("failed to create pull sheet: %w", err)
	}
	return &created, nil
}

// Update merges the supplied fields and returns the updated sheet.
func (r *LocalPullSheetRepository) Update(ctx context.Context, id string, changes model.PullSheetChanges) (*model.PullSheet, error) {
	args := struct {
		ID      string                 `json:"id"`
		Changes model.PullSheetChanges `json:"changes"`
	}{ID: id, Changes: changes}

	var updated model.PullSheet
	if err := callBridge(ctx, "pullsheets.update", args, &updated); err != nil {
		return nil, fmt.Errorf("failed to update pull sheet: %w", err)
	}
	return &updated, nil
}

// Delete removes a sheet and its line items. Absent id yields (false, nil).
func (r *LocalPullSheetRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	if err := callBridge(ctx, "pullsheets.delete", bridge.IDArgs{ID: id}, &deleted); err != nil {
		return false, fmt.Errorf("failed to delete pull sheet: %w", err)
	}
	return deleted, nil
}

// GetByJobID returns sheets for a job.
func (r *LocalPullSheetRepository) GetByJobID(ctx context.Context, jobID string) ([]model.PullSheet, error) {
	return r.readSheets(ctx, "pullsheets.getByJob", bridge.TextArgs{Value: jobID})
}

// GetByStatus returns sheets in the given status.
func (r *LocalPullSheetRepository) GetByStatus(ctx context.Context, status model.PullSheetStatus) ([]model.PullSheet, error) {
	return r.readSheets(ctx, "pullsheets.getByStatus", bridge.TextArgs{Value: string(status)})
}

// AddItem appends a line item to a sheet.
func (r *LocalPullSheetRepository) AddItem(ctx context.Context, sheetID string, item model.PullSheetItem) (*model.PullSheetItem, error) {
	args := struct {
		SheetID string              `json:"sheet_id"`
		Item    model.PullSheetItem `json:"item"`
	}{SheetID: sheetID, Item: item}

	var created model.PullSheetItem
	if err := callBridge(ctx, "pullsheets.addItem", args, &created); err != nil {
		return nil, fmt.Errorf("failed to add pull sheet item: %w", err)
	}
	return &created, nil
}

// GetItem returns a single line item scoped to its parent sheet.
func (r *LocalPullSheetRepository) GetItem(ctx context.Context, sheetID, itemID string) (*model.PullSheetItem, error) {
	var line *model.PullSheetItem
	args := bridge.LineArgs{SheetID: sheetID, ItemID: itemID}
	if err := callBridge(ctx, "pullsheets.getItem", args, &line); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalPullSheetRepository] pullsheets.getItem failed: %v", err)
		return nil, nil
	}
	return line, nil
}

// RemoveItem deletes a line item scoped to its parent sheet.
func (r *LocalPullSheetRepository) RemoveItem(ctx context.Context, sheetID, itemID string) (bool, error) {
	var removed bool
	args := bridge.LineArgs{SheetID: sheetID, ItemID: itemID}
	if err := callBridge(ctx, "pullsheets.removeItem", args, &removed); err != nil {
		return false, fmt.Errorf("failed to remove pull sheet item: %w", err)
	}
	return removed, nil
}

// CheckoutItem adds qty to the line's checked-out counter.
func (r *LocalPullSheetRepository) CheckoutItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error) {
	var updated model.PullSheetItem
	args := bridge.LineQtyArgs{SheetID: sheetID, ItemID: itemID, Qty: qty}
	if err := callBridge(ctx, "pullsheets.checkoutItem", args, &updated); err != nil {
		return nil, fmt.Errorf("failed to checkout pull sheet item: %w", err)
	}
	return &updated, nil
}

// ReturnItem adds qty to the line's returned counter.
func (r *LocalPullSheetRepository) ReturnItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error) {
	var updated model.PullSheetItem
	args := bridge.LineQtyArgs{SheetID: sheetID, ItemID: itemID, Qty: qty}
	if err := callBridge(ctx, "pullsheets.returnItem", args, &updated); err != nil {
		return nil, fmt.Errorf("failed to return pull sheet item: %w", err)
	}
	return &updated, nil
}

// Close is a no-op; the desktop shell owns the bridge lifecycle.
func (r *LocalPullSheetRepository) Close() error {
	return nil
}

// Ensure LocalPullSheetRepository implements PullSheetRepository
var _ PullSheetRepository = (*LocalPullSheetRepository)(nil)
