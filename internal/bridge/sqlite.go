package bridge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"stagekit-api/internal/model"
	"stagekit-api/pkg/uid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteBridge is the embedded-database side of the bridge, used by the
// desktop build. Every repository method maps 1:1 to a bridge method
// here, except the by-category/by-location filters, which the local
// adapter computes client-side because this query surface does not
// expose them.
type SQLiteBridge struct {
	db *sql.DB
}

// OpenSQLite opens the embedded database and prepares the schema.
// dbPath is the path to the SQLite file (e.g., "./data/stagekit.db").
func OpenSQLite(dbPath string) (*SQLiteBridge, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createLocalTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteBridge] Initialized with database: %s", dbPath)
	return &SQLiteBridge{db: db}, nil
}

func createLocalTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		barcode TEXT NOT NULL DEFAULT '',
		quantity_in_warehouse INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		unit_value REAL NOT NULL DEFAULT 0,
		purchase_cost REAL NOT NULL DEFAULT 0,
		purchase_date TIMESTAMP,
		maintenance_status TEXT NOT NULL DEFAULT 'operational',
		repair_cost REAL NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_barcode
		ON inventory_items(barcode) WHERE barcode <> '';
	CREATE INDEX IF NOT EXISTS idx_inventory_name ON inventory_items(name);

	CREATE TABLE IF NOT EXISTS pull_sheets (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL DEFAULT '',
		venue_name TEXT NOT NULL DEFAULT '',
		event_date TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'draft',
		notes TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_pull_sheets_job ON pull_sheets(job_id);
	CREATE INDEX IF NOT EXISTS idx_pull_sheets_status ON pull_sheets(status);

	CREATE TABLE IF NOT EXISTS pull_sheet_items (
		id TEXT PRIMARY KEY,
		pull_sheet_id TEXT NOT NULL REFERENCES pull_sheets(id) ON DELETE CASCADE,
		inventory_item_id TEXT NOT NULL,
		quantity_needed INTEGER NOT NULL DEFAULT 0,
		quantity_checked_out INTEGER NOT NULL DEFAULT 0,
		quantity_returned INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pull_sheet_items_sheet ON pull_sheet_items(pull_sheet_id);
	`
	_, err := db.Exec(query)
	return err
}

// Call dispatches a bridge method. Unknown methods fail with a tagged
// error, never a panic.
func (b *SQLiteBridge) Call(ctx context.Context, method string, payload []byte) Result {
	switch method {
	case "inventory.list":
		return b.listItems(ctx)
	case "inventory.get":
		return b.getItem(ctx, payload)
	case "inventory.create":
		return b.createItem(ctx, payload)
	case "inventory.update":
		return b.updateItem(ctx, payload)
	case "inventory.delete":
		return b.deleteItem(ctx, payload)
	case "inventory.searchByBarcode":
		return b.searchByBarcode(ctx, payload)
	case "inventory.searchByName":
		return b.searchByName(ctx, payload)
	case "inventory.updateQuantity":
		return b.updateQuantity(ctx, payload)
	case "inventory.checkoutItem":
		return b.checkoutItem(ctx, payload)
	case "inventory.returnItem":
		return b.returnItem(ctx, payload)
	case "pullsheets.list":
		return b.listSheets(ctx)
	case "pullsheets.get":
		return b.getSheet(ctx, payload)
	case "pullsheets.getWithItems":
		return b.getSheetWithItems(ctx, payload)
	case "pullsheets.create":
		return b.createSheet(ctx, payload)
	case "pullsheets.update":
		return b.updateSheet(ctx, payload)
	case "pullsheets.delete":
		return b.deleteSheet(ctx, payload)
	case "pullsheets.getByJob":
		return b.getSheetsByJob(ctx, payload)
	case "pullsheets.getByStatus":
		return b.getSheetsByStatus(ctx, payload)
	case "pullsheets.addItem":
		return b.addSheetItem(ctx, payload)
	case "pullsheets.getItem":
		return b.getSheetItem(ctx, payload)
	case "pullsheets.removeItem":
		return b.removeSheetItem(ctx, payload)
	case "pullsheets.checkoutItem":
		return b.checkoutSheetItem(ctx, payload)
	case "pullsheets.returnItem":
		return b.returnSheetItem(ctx, payload)
	case "pullsheets.markSynced":
		return b.markSheetSynced(ctx, payload)
	default:
		return Errf("unknown bridge method: %s", method)
	}
}

// Close closes the embedded database.
func (b *SQLiteBridge) Close() error {
	return b.db.Close()
}

const itemColumns = `id, name, barcode, quantity_in_warehouse, category, location,
	unit_value, purchase_cost, purchase_date, maintenance_status, repair_cost,
	image_url, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*model.InventoryItem, error) {
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

func (b *SQLiteBridge) queryItems(ctx context.Context, query string, args ...any) Result {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Errf("query inventory: %v", err)
	}
	defer rows.Close()

	items := []model.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return Errf("scan inventory item: %v", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return Errf("query inventory: %v", err)
	}
	return Ok(items)
}

func (b *SQLiteBridge) listItems(ctx context.Context) Result {
	return b.queryItems(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY name ASC`)
}

func (b *SQLiteBridge) getItem(ctx context.Context, payload []byte) Result {
	var args IDArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	item, err := b.fetchItem(ctx, args.ID)
	if err != nil {
		return Errf("get inventory item: %v", err)
	}
	if item == nil {
		return Ok(nil)
	}
	return Ok(item)
}

func (b *SQLiteBridge) fetchItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

func (b *SQLiteBridge) createItem(ctx context.Context, payload []byte) Result {
	var item model.InventoryItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return Errf("decode payload: %v", err)
	}

	if item.ID == "" {
		item.ID = uid.New()
	}
	if item.MaintenanceStatus == "" {
		item.MaintenanceStatus = model.MaintenanceOperational
	}
	item.UpdatedAt = time.Now().UTC()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO inventory_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Barcode, item.QuantityInWarehouse,
		item.Category, item.Location, item.UnitValue, item.PurchaseCost,
		item.PurchaseDate, item.MaintenanceStatus, item.RepairCost,
		item.ImageURL, item.UpdatedAt)
	if err != nil {
		return Errf("insert inventory item: %v", err)
	}
	return Ok(item)
}

func (b *SQLiteBridge) updateItem(ctx context.Context, payload []byte) Result {
	var args struct {
		ID      string                     `json:"id"`
		Changes model.InventoryItemChanges `json:"changes"`
	}
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	item, err := b.fetchItem(ctx, args.ID)
	if err != nil {
		return Errf("get inventory item: %v", err)
	}
	if item == nil {
		return Errf("inventory item not found: %s", args.ID)
	}

	args.Changes.Apply(item)
	item.UpdatedAt = time.Now().UTC()

	_, err = b.db.ExecContext(ctx, `
		UPDATE inventory_items SET name = ?, barcode = ?, quantity_in_warehouse = ?,
			category = ?, location = ?, unit_value = ?, purchase_cost = ?,
			purchase_date = ?, maintenance_status = ?, repair_cost = ?,
			image_url = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Barcode, item.QuantityInWarehouse,
		item.Category, item.Location, item.UnitValue, item.PurchaseCost,
		item.PurchaseDate, item.MaintenanceStatus, item.RepairCost,
		item.ImageURL, item.UpdatedAt, item.ID)
	if err != nil {
		return Errf("update inventory item: %v", err)
	}
	return Ok(item)
}

func (b *SQLiteBridge) deleteItem(ctx context.Context, payload []byte) Result {
	var args IDArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	result, err := b.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, args.ID)
	if err != nil {
		return Errf("delete inventory item: %v", err)
	}
	affected, _ := result.RowsAffected()
	return Ok(affected > 0)
}

func (b *SQLiteBridge) searchByBarcode(ctx context.Context, payload []byte) Result {
	var args TextArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	row := b.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE barcode = ? AND barcode <> ''`,
		args.Value)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Ok(nil)
	}
	if err != nil {
		return Errf("search by barcode: %v", err)
	}
	return Ok(item)
}

func (b *SQLiteBridge) searchByName(ctx context.Context, payload []byte) Result {
	var args TextArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	// LIKE is case-insensitive for ASCII in SQLite.
	pattern := "%" + strings.ToLower(args.Value) + "%"
	return b.queryItems(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE LOWER(name) LIKE ? ORDER BY name ASC`,
		pattern)
}

func (b *SQLiteBridge) updateQuantity(ctx context.Context, payload []byte) Result {
	var args QtyArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}
	return b.setQuantity(ctx, args.ID, args.Qty)
}

func (b *SQLiteBridge) setQuantity(ctx context.Context, id string, qty int) Result {
	item, err := b.fetchItem(ctx, id)
	if err != nil {
		return Errf("get inventory item: %v", err)
	}
	if item == nil {
		return Errf("inventory item not found: %s", id)
	}

	item.QuantityInWarehouse = qty
	item.UpdatedAt = time.Now().UTC()
	_, err = b.db.ExecContext(ctx,
		`UPDATE inventory_items SET quantity_in_warehouse = ?, updated_at = ? WHERE id = ?`,
		item.QuantityInWarehouse, item.UpdatedAt, id)
	if err != nil {
		return Errf("update quantity: %v", err)
	}
	return Ok(item)
}

// checkoutItem reads the current quantity, subtracts, clamps at zero and
// writes the result back. Read and write are separate steps; concurrent
// checkouts against the same item can lose an update.
func (b *SQLiteBridge) checkoutItem(ctx context.Context, payload []byte) Result {
	var args QtyArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	item, err := b.fetchItem(ctx, args.ID)
	if err != nil {
		return Errf("get inventory item: %v", err)
	}
	if item == nil {
		return Errf("inventory item not found: %s", args.ID)
	}

	qty := item.QuantityInWarehouse - args.Qty
	if qty < 0 {
		qty = 0
	}
	return b.setQuantity(ctx, args.ID, qty)
}

func (b *SQLiteBridge) returnItem(ctx context.Context, payload []byte) Result {
	var args QtyArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	item, err := b.fetchItem(ctx, args.ID)
	if err != nil {
		return Errf("get inventory item: %v", err)
	}
	if item == nil {
		return Errf("inventory item not found: %s", args.ID)
	}
	return b.setQuantity(ctx, args.ID, item.QuantityInWarehouse+args.Qty)
}

const sheetColumns = `id, job_id, venue_name, event_date, status, notes, created_by,
	created_at, updated_at, synced`

func scanSheet(row interface{ Scan(...any) error }) (*model.PullSheet, error) {
	var sheet model.PullSheet
	var eventDate sql.NullTime
	var synced int
	err := row.Scan(&sheet.ID, &sheet.JobID, &sheet.VenueName, &eventDate,
		&sheet.Status, &sheet.Notes, &sheet.CreatedBy,
		&sheet.CreatedAt, &sheet.UpdatedAt, &synced)
	if err != nil {
		return nil, err
	}
	sheet.Synced = synced != 0
	if eventDate.Valid {
		sheet.EventDate = &eventDate.Time
	}
	return &sheet, nil
}

func (b *SQLiteBridge) querySheets(ctx context.Context, query string, args ...any) Result {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Errf("query pull sheets: %v", err)
	}
	defer rows.Close()

	sheets := []model.PullSheet{}
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return Errf("scan pull sheet: %v", err)
		}
		sheets = append(sheets, *sheet)
	}
	if err := rows.Err(); err != nil {
		return Errf("query pull sheets: %v", err)
	}
	return Ok(sheets)
}

func (b *SQLiteBridge) listSheets(ctx context.Context) Result {
	return b.querySheets(ctx, `SELECT `+sheetColumns+` FROM pull_sheets ORDER BY created_at DESC`)
}

func (b *SQLiteBridge) fetchSheet(ctx context.Context, id string) (*model.PullSheet, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT `+sheetColumns+` FROM pull_sheets WHERE id = ?`, id)
	sheet, err := scanSheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sheet, err
}

func (b *SQLiteBridge) getSheet(ctx context.Context, payload []byte) Result {
	var args IDArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	sheet, err := b.fetchSheet(ctx, args.ID)
	if err != nil {
		return Errf("get pull sheet: %v", err)
	}
	if sheet == nil {
		return Ok(nil)
	}
	return Ok(sheet)
}

func (b *SQLiteBridge) getSheetWithItems(ctx context.Context, payload []byte) Result {
	var args IDArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	sheet, err := b.fetchSheet(ctx, args.ID)
	if err != nil {
		return Errf("get pull sheet: %v", err)
	}
	if sheet == nil {
		return Ok(nil)
	}

	rows, err := b.db.QueryContext(ctx,
		`SELECT `+lineColumns+` FROM pull_sheet_items WHERE pull_sheet_id = ? ORDER BY created_at ASC`,
		args.ID)
	if err != nil {
		return Errf("query pull sheet items: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return Errf("scan pull sheet item: %v", err)
		}
		sheet.Items = append(sheet.Items, *line)
	}
	if err := rows.Err(); err != nil {
		return Errf("query pull sheet items: %v", err)
	}
	return Ok(sheet)
}

func (b *SQLiteBridge) createSheet(ctx context.Context, payload []byte) Result {
	var sheet model.PullSheet
	if err := json.Unmarshal(payload, &sheet); err != nil {
		return Errf("decode payload: %v", err)
	}

	if sheet.ID == "" {
		sheet.ID = uid.New()
	}
	if sheet.Status == "" {
		sheet.Status = model.PullSheetDraft
	}
	now := time.Now().UTC()
	sheet.CreatedAt = now
	sheet.UpdatedAt = now
	// Local sheets stay unsynced until the backend confirms them.
	sheet.Synced = false
	sheet.Items = nil

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO pull_sheets (`+sheetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sheet.ID, sheet.JobID, sheet.VenueName, sheet.EventDate,
		sheet.Status, sheet.Notes, sheet.CreatedBy,
		sheet.CreatedAt, sheet.UpdatedAt, sheet.Synced)
	if err != nil {
		return Errf("insert pull sheet: %v", err)
	}
	return Ok(sheet)
}

func (b *SQLiteBridge) updateSheet(ctx context.Context, payload []byte) Result {
	var args struct {
		ID      string                 `json:"id"`
		Changes model.PullSheetChanges `json:"changes"`
	}
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	sheet, err := b.fetchSheet(ctx, args.ID)
	if err != nil {
		return Errf("get pull sheet: %v", err)
	}
	if sheet == nil {
		return Errf("pull sheet not found: %s", args.ID)
	}

	args.Changes.Apply(sheet)
	sheet.UpdatedAt = time.Now().UTC()

	_, err = b.db.ExecContext(ctx, `
		UPDATE pull_sheets SET job_id = ?, venue_name = ?, event_date = ?,
			status = ?, notes = ?, updated_at = ?, synced = ?
		WHERE id = ?`,
		sheet.JobID, sheet.VenueName, sheet.EventDate,
		sheet.Status, sheet.Notes, sheet.UpdatedAt, sheet.Synced, sheet.ID)
	if err != nil {
		return Errf("update pull sheet: %v", err)
	}
	return Ok(sheet)
}

func (b *SQLiteBridge) deleteSheet(ctx context.Context, payload []byte) Result {
	var args IDArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	result, err := b.db.ExecContext(ctx, `DELETE FROM pull_sheets WHERE id = ?`, args.ID)
	if err != nil {
		return Errf("delete pull sheet: %v", err)
	}
	affected, _ := result.RowsAffected()
	if affected > 0 {
		// Cascade may be off depending on pragma state; remove lines explicitly.
		_, _ = b.db.ExecContext(ctx, `DELETE FROM pull_sheet_items WHERE pull_sheet_id = ?`, args.ID)
	}
	return Ok(affected > 0)
}

func (b *SQLiteBridge) getSheetsByJob(ctx context.Context, payload []byte) Result {
	var args TextArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}
	return b.querySheets(ctx,
		`SELECT `+sheetColumns+` FROM pull_sheets WHERE job_id = ? ORDER BY created_at DESC`,
		args.Value)
}

func (b *SQLiteBridge) getSheetsByStatus(ctx context.Context, payload []byte) Result {
	var args TextArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}
	return b.querySheets(ctx,
		`SELECT `+sheetColumns+` FROM pull_sheets WHERE status = ? ORDER BY created_at DESC`,
		args.Value)
}

func (b *SQLiteBridge) markSheetSynced(ctx context.Context, payload []byte) Result {
	var args IDArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	_, err := b.db.ExecContext(ctx,
		`UPDATE pull_sheets SET synced = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), args.ID)
	if err != nil {
		return Errf("mark pull sheet synced: %v", err)
	}
	sheet, err := b.fetchSheet(ctx, args.ID)
	if err != nil {
		return Errf("get pull sheet: %v", err)
	}
	if sheet == nil {
		return Errf("pull sheet not found: %s", args.ID)
	}
	return Ok(sheet)
}

const lineColumns = `id, pull_sheet_id, inventory_item_id, quantity_needed,
	quantity_checked_out, quantity_returned, status, created_at, updated_at`

func scanLine(row interface{ Scan(...any) error }) (*model.PullSheetItem, error) {
	var line model.PullSheetItem
	err := row.Scan(&line.ID, &line.PullSheetID, &line.InventoryItemID,
		&line.QuantityNeeded, &line.QuantityCheckedOut, &line.QuantityReturned,
		&line.Status, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (b *SQLiteBridge) fetchLine(ctx context.Context, sheetID, itemID string) (*model.PullSheetItem, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT `+lineColumns+` FROM pull_sheet_items WHERE id = ? AND pull_sheet_id = ?`,
		itemID, sheetID)
	line, err := scanLine(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return line, err
}

func (b *SQLiteBridge) addSheetItem(ctx context.Context, payload []byte) Result {
	var args struct {
		SheetID string              `json:"sheet_id"`
		Item    model.PullSheetItem `json:"item"`
	}
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	sheet, err := b.fetchSheet(ctx, args.SheetID)
	if err != nil {
		return Errf("get pull sheet: %v", err)
	}
	if sheet == nil {
		return Errf("pull sheet not found: %s", args.SheetID)
	}

	line := args.Item
	if line.ID == "" {
		line.ID = uid.New()
	}
	line.PullSheetID = args.SheetID
	if line.Status == "" {
		line.Status = model.ItemPending
	}
	now := time.Now().UTC()
	line.CreatedAt = now
	line.UpdatedAt = now

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO pull_sheet_items (`+lineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID, line.PullSheetID, line.InventoryItemID,
		line.QuantityNeeded, line.QuantityCheckedOut, line.QuantityReturned,
		line.Status, line.CreatedAt, line.UpdatedAt)
	if err != nil {
		return Errf("insert pull sheet item: %v", err)
	}
	return Ok(line)
}

func (b *SQLiteBridge) getSheetItem(ctx context.Context, payload []byte) Result {
	var args LineArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	line, err := b.fetchLine(ctx, args.SheetID, args.ItemID)
	if err != nil {
		return Errf("get pull sheet item: %v", err)
	}
	if line == nil {
		return Ok(nil)
	}
	return Ok(line)
}

func (b *SQLiteBridge) removeSheetItem(ctx context.Context, payload []byte) Result {
	var args LineArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	result, err := b.db.ExecContext(ctx,
		`DELETE FROM pull_sheet_items WHERE id = ? AND pull_sheet_id = ?`,
		args.ItemID, args.SheetID)
	if err != nil {
		return Errf("remove pull sheet item: %v", err)
	}
	affected, _ := result.RowsAffected()
	return Ok(affected > 0)
}

func (b *SQLiteBridge) writeLineCounters(ctx context.Context, line *model.PullSheetItem) Result {
	line.UpdatedAt = time.Now().UTC()
	_, err := b.db.ExecContext(ctx, `
		UPDATE pull_sheet_items SET quantity_checked_out = ?, quantity_returned = ?,
			status = ?, updated_at = ?
		WHERE id = ? AND pull_sheet_id = ?`,
		line.QuantityCheckedOut, line.QuantityReturned,
		line.Status, line.UpdatedAt, line.ID, line.PullSheetID)
	if err != nil {
		return Errf("update pull sheet item: %v", err)
	}
	return Ok(line)
}

// checkoutSheetItem adds the delta to the checked-out counter and derives
// the line status. Same non-transactional read-then-write shape as the
// inventory counters.
func (b *SQLiteBridge) checkoutSheetItem(ctx context.Context, payload []byte) Result {
	var args LineQtyArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	line, err := b.fetchLine(ctx, args.SheetID, args.ItemID)
	if err != nil {
		return Errf("get pull sheet item: %v", err)
	}
	if line == nil {
		return Errf("pull sheet item not found: %s", args.ItemID)
	}

	line.QuantityCheckedOut += args.Qty
	line.Status = model.CheckoutStatus(line.QuantityNeeded, line.QuantityCheckedOut)
	return b.writeLineCounters(ctx, line)
}

func (b *SQLiteBridge) returnSheetItem(ctx context.Context, payload []byte) Result {
	var args LineQtyArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return Errf("decode payload: %v", err)
	}

	line, err := b.fetchLine(ctx, args.SheetID, args.ItemID)
	if err != nil {
		return Errf("get pull sheet item: %v", err)
	}
	if line == nil {
		return Errf("pull sheet item not found: %s", args.ItemID)
	}

	line.QuantityReturned += args.Qty
	line.Status = model.ReturnStatus(line.QuantityCheckedOut, line.QuantityReturned)
	return b.writeLineCounters(ctx, line)
}

// Ensure SQLiteBridge implements Bridge
var _ Bridge = (*SQLiteBridge)(nil)
