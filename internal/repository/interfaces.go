package repository

import (
	"context"

	"stagekit-api/internal/model"
)

// InventoryRepository defines inventory data access methods. Both the
// hosted Postgres backend and the desktop's embedded backend satisfy it;
// callers never see the concrete type.
//
// Failure semantics are asymmetric: reads degrade quietly
// (log plus empty/nil result) so list views survive transient backend
// blips, while writes always surface an error wrapping the backend's
// diagnostic text.
type InventoryRepository interface {
	// List returns all items ordered by name ascending.
	List(ctx context.Context) ([]model.InventoryItem, error)

	// GetByID returns the item, or nil (no error) when absent.
	GetByID(ctx context.Context, id string) (*model.InventoryItem, error)

	// Create persists a new item and returns it with its assigned ID.
	Create(ctx context.Context, item model.InventoryItem) (*model.InventoryItem, error)

	// Update merges the supplied fields and returns the updated item.
	// Errors when the id does not exist.
	Update(ctx context.Context, id string, changes model.InventoryItemChanges) (*model.InventoryItem, error)

	// Delete removes an item. An absent id yields (false, nil).
	Delete(ctx context.Context, id string) (bool, error)

	// SearchByBarcode is an exact-match lookup; nil when absent.
	SearchByBarcode(ctx context.Context, barcode string) (*model.InventoryItem, error)

	// SearchByName is a case-insensitive substring match.
	SearchByName(ctx context.Context, name string) ([]model.InventoryItem, error)

	// GetByCategory returns items matching the category exactly.
	GetByCategory(ctx context.Context, category string) ([]model.InventoryItem, error)

	// GetByLocation returns items matching the location exactly.
	GetByLocation(ctx context.Context, location string) ([]model.InventoryItem, error)

	// UpdateQuantity sets the warehouse quantity to an absolute value.
	UpdateQuantity(ctx context.Context, id string, qty int) (*model.InventoryItem, error)

	// CheckoutItem subtracts qty from the warehouse quantity, clamping
	// at zero. Read and write are two separate round trips; concurrent
	// checkouts can lose an update.
	CheckoutItem(ctx context.Context, id string, qty int) (*model.InventoryItem, error)

	// ReturnItem adds qty back to the warehouse quantity.
	ReturnItem(ctx context.Context, id string, qty int) (*model.InventoryItem, error)

	// Close releases the backend connection.
	Close() error
}

// PullSheetRepository defines pull sheet data access methods.
type PullSheetRepository interface {
	// List returns all pull sheets, newest first.
	List(ctx context.Context) ([]model.PullSheet, error)

	// GetByID returns the sheet without its items, or nil when absent.
	GetByID(ctx context.Context, id string) (*model.PullSheet, error)

	// GetWithItems returns the sheet with its full line-item collection.
	GetWithItems(ctx context.Context, id string) (*model.PullSheet, error)

	// Create persists a new sheet and returns it with its assigned ID.
	Create(ctx context.Context, sheet model.PullSheet) (*model.PullSheet, error)

	// Update merges the supplied fields and returns the updated sheet.
	// Errors when the id does not exist.
	Update(ctx context.Context, id string, changes model.PullSheetChanges) (*model.PullSheet, error)

	// Delete removes a sheet and its line items. Absent id yields (false, nil).
	Delete(ctx context.Context, id string) (bool, error)

	// GetByJobID returns sheets for a job.
	GetByJobID(ctx context.Context, jobID string) ([]model.PullSheet, error)

	// GetByStatus returns sheets in the given status.
	GetByStatus(ctx context.Context, status model.PullSheetStatus) ([]model.PullSheet, error)

	// AddItem appends a line item to a sheet, stamping ID and timestamps.
	AddItem(ctx context.Context, sheetID string, item model.PullSheetItem) (*model.PullSheetItem, error)

	// GetItem returns a single line item scoped to its parent sheet,
	// or nil when the item is absent or belongs to another sheet.
	GetItem(ctx context.Context, sheetID, itemID string) (*model.PullSheetItem, error)

	// RemoveItem deletes a line item scoped to its parent sheet.
	RemoveItem(ctx context.Context, sheetID, itemID string) (bool, error)

	// CheckoutItem adds qty to the line's checked-out counter and
	// derives its status. Not atomic against concurrent callers.
	CheckoutItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error)

	// ReturnItem adds qty to the line's returned counter and derives
	// its status.
	ReturnItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error)

	// Close releases the backend connection.
	Close() error
}
