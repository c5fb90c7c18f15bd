package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stagekit-api/internal/bridge"
	"stagekit-api/internal/model"
)

// LocalInventoryRepository implements InventoryRepository over the
// desktop bridge to the embedded database. Every method maps 1:1 to a
// bridge method, except GetByCategory and GetByLocation, which filter
// client-side because the embedded query surface does not expose those
// filters.
type LocalInventoryRepository struct{}

// NewLocalInventoryRepository creates the desktop-side inventory
// repository. Errors immediately when no bridge is registered.
func NewLocalInventoryRepository() (*LocalInventoryRepository, error) {
	if !bridge.Available() {
		return nil, ErrNoBridge
	}
	log.Printf("[LocalInventoryRepository] Initialized over desktop bridge")
	return &LocalInventoryRepository{}, nil
}

// readItems degrades bridge read failures to an empty list. A missing
// bridge still propagates: that is an environment error, not a
// transient read failure.
func (r *LocalInventoryRepository) readItems(ctx context.Context, method string, args any) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := callBridge(ctx, method, args, &items); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalInventoryRepository] %s failed: %v", method, err)
		return []model.InventoryItem{}, nil
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	return items, nil
}

// List returns all items ordered by name ascending.
func (r *LocalInventoryRepository) List(ctx context.Context) ([]model.InventoryItem, error) {
	return r.readItems(ctx, "inventory.list", struct{}{})
}

// GetByID returns the item, or nil when absent.
func (r *LocalInventoryRepository) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item *model.InventoryItem
	if err := callBridge(ctx, "inventory.get", bridge.IDArgs{ID: id}, &item); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalInventoryRepository] inventory.get failed: %v", err)
		return nil, nil
	}
	return item, nil
}

// Create persists a new item through the bridge.
func (r *LocalInventoryRepository) Create(ctx context.Context, item model.InventoryItem) (*model.InventoryItem, error) {
	var created model.InventoryItem
	if err := callBridge(ctx, "inventory.create", item, &created); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return &created, nil
}

// Update merges the supplied fields and returns the updated item.
func (r *LocalInventoryRepository) Update(ctx context.Context, id string, changes model.InventoryItemChanges) (*model.InventoryItem, error) {
	args := struct {
		ID      string                     `json:"id"`
		Changes model.InventoryItemChanges `json:"changes"`
	}{ID: id, Changes: changes}

	var updated model.InventoryItem
	if err := callBridge(ctx, "inventory.update", args, &updated); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return &updated, nil
}

// Delete removes an item. An absent id yields (false, nil).
func (r *LocalInventoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	if err := callBridge(ctx, "inventory.delete", bridge.IDArgs{ID: id}, &deleted); err != nil {
		return false, fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return deleted, nil
}

// SearchByBarcode is an exact-match lookup; nil when absent.
func (r *LocalInventoryRepository) SearchByBarcode(ctx context.Context, barcode string) (*model.InventoryItem, error) {
	var item *model.InventoryItem
	if err := callBridge(ctx, "inventory.searchByBarcode", bridge.TextArgs{Value: barcode}, &item); err != nil {
		if errors.Is(err, ErrNoBridge) {
			return nil, err
		}
		log.Printf("[LocalInventoryRepository] inventory.searchByBarcode failed: %v", err)
		return nil, nil
	}
	return item, nil
}

// SearchByName is a case-insensitive substring match.
func (r *LocalInventoryRepository) SearchByName(ctx context.Context, name string) ([]model.InventoryItem, error) {
	return r.readItems(ctx, "inventory.searchByName", bridge.TextArgs{Value: name})
}

// GetByCategory filters the full list client-side.
func (r *LocalInventoryRepository) GetByCategory(ctx context.Context, category string) ([]model.InventoryItem, error) {
	return r.filterList(ctx, func(item *model.InventoryItem) bool {
		return item.Category == category
	})
}

// GetByLocation filters the full list client-side.
func (r *LocalInventoryRepository) GetByLocation(ctx context.Context, location string) ([]model.InventoryItem, error) {
	return r.filterList(ctx, func(item *model.InventoryItem) bool {
		return item.Location == location
	})
}

func (r *LocalInventoryRepository) filterList(ctx context.Context, keep func(*model.InventoryItem) bool) ([]model.InventoryItem, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := []model.InventoryItem{}
	for i := range items {
		if keep(&items[i]) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered, nil
}

// UpdateQuantity sets the warehouse quantity to an absolute value.
func (r *LocalInventoryRepository) UpdateQuantity(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	var updated model.InventoryItem
	if err := callBridge(ctx, "inventory.updateQuantity", bridge.QtyArgs{ID: id, Qty: qty}, &updated); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	return &updated, nil
}

// CheckoutItem subtracts qty, clamping at zero. The read-modify-write
// happens on the far side of the bridge with the same non-atomic shape
// as the remote backend.
func (r *LocalInventoryRepository) CheckoutItem(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	var updated model.InventoryItem
	if err := callBridge(ctx, "inventory.checkoutItem", bridge.QtyArgs{ID: id, Qty: qty}, &updated); err != nil {
		return nil, fmt.Errorf("failed to checkout item: %w", err)
	}
	return &updated, nil
}

// ReturnItem adds qty back to the warehouse quantity.
func (r *LocalInventoryRepository) ReturnItem(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	var updated model.InventoryItem
	if err := callBridge(ctx, "inventory.returnItem", bridge.QtyArgs{ID: id, Qty: qty}, &updated); err != nil {
		return nil, fmt.Errorf("failed to return item: %w", err)
	}
	return &updated, nil
}

// Close is a no-op; the desktop shell owns the bridge lifecycle.
func (r *LocalInventoryRepository) Close() error {
	return nil
}

// Ensure LocalInventoryRepository implements InventoryRepository
var _ InventoryRepository = (*LocalInventoryRepository)(nil)
