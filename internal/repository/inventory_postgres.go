package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"stagekit-api/internal/model"
	"stagekit-api/pkg/uid"
)

const pgItemColumns = `id, name, barcode, quantity_in_warehouse, category, location,
	unit_value, purchase_cost, purchase_date, maintenance_status, repair_cost,
	image_url, updated_at`

// PostgresInventoryRepository implements InventoryRepository against the
// hosted relational backend.
type PostgresInventoryRepository struct {
	db *sql.DB
}

// NewPostgresInventoryRepository creates an inventory repository on an
// already-open connection pool.
func NewPostgresInventoryRepository(db *sql.DB) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

func scanPgItem(row interface{ Scan(...any) error }) (*model.InventoryItem, error) {
	var item model.InventoryItem
	var purchaseDate sql.NullTime
	err := row.Scan(&item.ID, &item.Name, &item.Barcode, &item.QuantityInWarehouse,
		&item.Category, &item.Location, &item.UnitValue, &item.PurchaseCost,
		&purchaseDate, &item.MaintenanceStatus, &item.RepairCost,
		&item.ImageURL, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if purchaseDate.Valid {
		item.PurchaseDate = &purchaseDate.Time
	}
	return &item, nil
}

// queryItems runs a multi-row read. Failures are logged and degrade to
// an empty list so list views never crash on a transient backend blip.
func (r *PostgresInventoryRepository) queryItems(ctx context.Context, query string, args ...any) ([]model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("[PostgresInventoryRepository] read failed: %v", err)
		return []model.InventoryItem{}, nil
	}
	defer rows.Close()

	items := []model.InventoryItem{}
	for rows.Next() {
		item, err := scanPgItem(rows)
		if err != nil {
			log.Printf("[PostgresInventoryRepository] scan failed: %v", err)
			return []model.InventoryItem{}, nil
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[PostgresInventoryRepository] read failed: %v", err)
		return []model.InventoryItem{}, nil
	}
	return items, nil
}

// List returns all items ordered by name ascending.
func (r *PostgresInventoryRepository) List(ctx context.Context) ([]model.InventoryItem, error) {
	return r.queryItems(ctx, `SELECT `+pgItemColumns+` FROM inventory_items ORDER BY name ASC`)
}

// fetchItem is the non-degrading single-row read behind GetByID and
// the read-modify-write operations. Absent rows come back (nil, nil);
// backend failures come back as themselves.
func (r *PostgresInventoryRepository) fetchItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgItemColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanPgItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// GetByID returns the item, or nil when absent.
func (r *PostgresInventoryRepository) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	item, err := r.fetchItem(ctx, id)
	if err != nil {
		log.Printf("[PostgresInventoryRepository] read failed: %v", err)
		return nil, nil
	}
	return item, nil
}

// Create persists a new item and returns it with its assigned ID.
func (r *PostgresInventoryRepository) Create(ctx context.Context, item model.InventoryItem) (*model.InventoryItem, error) {
	if item.ID == "" {
		item.ID = uid.New()
	}
	if item.MaintenanceStatus == "" {
		item.MaintenanceStatus = model.MaintenanceOperational
	}
	item.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (`+pgItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.Name, item.Barcode, item.QuantityInWarehouse,
		item.Category, item.Location, item.UnitValue, item.PurchaseCost,
		item.PurchaseDate, item.MaintenanceStatus, item.RepairCost,
		item.ImageURL, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return &item, nil
}

// Update merges the supplied fields and returns the updated item.
func (r *PostgresInventoryRepository) Update(ctx context.Context, id string, changes model.InventoryItemChanges) (*model.InventoryItem, error) {
	item, err := r.fetchItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("failed to update inventory item: not found: %s", id)
	}

	changes.Apply(item)
	item.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		UPDATE inventory_items SET name = $1, barcode = $2, quantity_in_warehouse = $3,
			category = $4, location = $5, unit_value = $6, purchase_cost = $7,
			purchase_date = $8, maintenance_status = $9, repair_cost = $10,
			image_url = $11, updated_at = $12
		WHERE id = $13`,
		item.Name, item.Barcode, item.QuantityInWarehouse,
		item.Category, item.Location, item.UnitValue, item.PurchaseCost,
		item.PurchaseDate, item.MaintenanceStatus, item.RepairCost,
		item.ImageURL, item.UpdatedAt, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return item, nil
}

// Delete removes an item. An absent id yields (false, nil).
func (r *PostgresInventoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete inventory item: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// SearchByBarcode is an exact-match lookup; nil when absent.
func (r *PostgresInventoryRepository) SearchByBarcode(ctx context.Context, barcode string) (*model.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgItemColumns+` FROM inventory_items WHERE barcode = $1 AND barcode <> ''`,
		barcode)
	item, err := scanPgItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("[PostgresInventoryRepository] read failed: %v", err)
		return nil, nil
	}
	return item, nil
}

// SearchByName is a case-insensitive substring match.
func (r *PostgresInventoryRepository) SearchByName(ctx context.Context, name string) ([]model.InventoryItem, error) {
	return r.queryItems(ctx,
		`SELECT `+pgItemColumns+` FROM inventory_items WHERE name ILIKE $1 ORDER BY name ASC`,
		"%"+name+"%")
}

// GetByCategory returns items matching the category exactly.
func (r *PostgresInventoryRepository) GetByCategory(ctx context.Context, category string) ([]model.InventoryItem, error) {
	return r.queryItems(ctx,
		`SELECT `+pgItemColumns+` FROM inventory_items WHERE category = $1 ORDER BY name ASC`,
		category)
}

// GetByLocation returns items matching the location exactly.
func (r *PostgresInventoryRepository) GetByLocation(ctx context.Context, location string) ([]model.InventoryItem, error) {
	return r.queryItems(ctx,
		`SELECT `+pgItemColumns+` FROM inventory_items WHERE location = $1 ORDER BY name ASC`,
		location)
}

// UpdateQuantity sets the warehouse quantity to an absolute value.
func (r *PostgresInventoryRepository) UpdateQuantity(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE inventory_items SET quantity_in_warehouse = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+pgItemColumns,
		qty, time.Now().UTC(), id)
	item, err := scanPgItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("failed to update quantity: not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	return item, nil
}

// CheckoutItem subtracts qty from the warehouse quantity, clamping at
// zero. The read and the write are two separate round trips with no
// transaction; concurrent checkouts against the same item can lose an
// update. The read goes through fetchItem rather than GetByID so a
// backend failure is reported as a failure, not as not-found.
func (r *PostgresInventoryRepository) CheckoutItem(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	item, err := r.fetchItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("failed to checkout item: not found: %s", id)
	}

	remaining := item.QuantityInWarehouse - qty
	if remaining < 0 {
		remaining = 0
	}
	return r.UpdateQuantity(ctx, id, remaining)
}

// ReturnItem adds qty back to the warehouse quantity. Same two-step
// shape as CheckoutItem.
func (r *PostgresInventoryRepository) ReturnItem(ctx context.Context, id string, qty int) (*model.InventoryItem, error) {
	item, err := r.fetchItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to return item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("failed to return item: not found: %s", id)
	}
	return r.UpdateQuantity(ctx, id, item.QuantityInWarehouse+qty)
}

// Close closes the connection pool.
func (r *PostgresInventoryRepository) Close() error {
	return r.db.Close()
}

// Ensure PostgresInventoryRepository implements InventoryRepository
var _ InventoryRepository = (*PostgresInventoryRepository)(nil)
