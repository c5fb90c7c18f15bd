package service

import (
	"context"
	"encoding/json"
	"time"

	"stagekit-api/internal/cache"
	"stagekit-api/internal/model"
	"stagekit-api/internal/repository"
)

// InventoryService handles inventory business logic. Barcode scans are
// the hot path on the warehouse floor, so they read through the cache;
// every mutation invalidates the affected entry.
type InventoryService struct {
	repo     repository.InventoryRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewInventoryService creates a new inventory service. cache may be nil
// to disable barcode caching. Returns nil if repo is nil (required
// dependency).
func NewInventoryService(repo repository.InventoryRepository, c cache.Cache, ttl time.Duration) *InventoryService {
	if repo == nil {
		return nil
	}
	return &InventoryService{repo: repo, cache: c, cacheTTL: ttl}
}

// List returns all inventory items ordered by name.
func (s *InventoryService) List(ctx context.Context) ([]model.InventoryItem, error) {
	return s.repo.List(ctx)
}

// Get returns one item, or nil when absent.
func (s *InventoryService) Get(ctx context.Context, id string) (*model.InventoryItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a new item.
func (s *InventoryService) Create(ctx context.Context, item model.InventoryItem) (*model.InventoryItem, error) {
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.invalidateBarcode(ctx, created.Barcode)
	return created, nil
}

// Update merges partial changes into an item. The item is read before
// the write so a barcode change also evicts the entry cached under the
// old barcode, not just the new one.
func (s *InventoryService) Update(ctx context.Context, id string, changes model.InventoryItemChanges) (*model.InventoryItem, error) {
	prior, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.Barcode != updated.Barcode {
		s.invalidateBarcode(ctx, prior.Barcode)
	}
	s.invalidateBarcode(ctx, updated.Barcode)
	return updated, nil
}

// Delete removes an item. Returns false when the id was already absent.
func (s *InventoryService) Delete(ctx context.Context, id string) (bool, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted && item != nil {
		s.invalidateBarcode(ctx, item.Barcode)
	}
	return deleted, nil
}

// ScanBarcode looks up an item by exact barcode, serving repeat scans
// from the cache.
func (s *InventoryService) ScanBarcode(ctx context.Context, barcode string) (*model.InventoryItem, error) {
	if s.cache == nil {
		return s.repo.SearchByBarcode(ctx, barcode)
	}

	data, err := s.cache.GetOrSet(ctx, barcodeKey(barcode), s.cacheTTL, func() ([]byte, error) {
		item, err := s.repo.SearchByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		return json.Marshal(item)
	})
	if err != nil {
		return nil, err
	}

	var item *model.InventoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// Search finds items by case-insensitive name substring.
func (s *InventoryService) Search(ctx context.Context, name string) ([]model.InventoryItem, error) {
	return s.repo.SearchByName(ctx, name)
}

// ByCategory returns items in a category.
func (s *InventoryService) ByCategory(ctx context.Context, category string) ([]model.InventoryItem, error) {
	return s.repo.GetByCategory(ctx, category)
}

// ByLocation returns items at a location.
func (s *InventoryService) ByLocation(ctx context.Context, location string) ([]model.InventoryItem, error) {
	return s.repo.GetByLocation(ctx, location)
}

// SetQuantity sets an item's warehouse quantity to an absolute value.
func (s *InventoryService) SetQuantity(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	item, err := s.repo.UpdateQuantity(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.invalidateBarcode(ctx, item.Barcode)
	return item, nil
}

// Checkout removes qty units from the warehouse, clamping at zero.
func (s *InventoryService) Checkout(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	item, err := s.repo.CheckoutItem(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.invalidateBarcode(ctx, item.Barcode)
	return item, nil
}

// Return adds qty units back to the warehouse.
func (s *InventoryService) Return(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	item, err := s.repo.ReturnItem(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.invalidateBarcode(ctx, item.Barcode)
	return item, nil
}

func (s *InventoryService) invalidateBarcode(ctx context.Context, barcode string) {
	if s.cache == nil || barcode == "" {
		return
	}
	_ = s.cache.Delete(ctx, barcodeKey(barcode))
}

func barcodeKey(barcode string) string {
	return "inventory:barcode:" + barcode
}
