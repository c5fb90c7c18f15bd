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

const pgSheetColumns = `id, job_id, venue_name, event_date, status, notes, created_by,
	created_at, updated_at, synced`

const pgLineColumns = `id, pull_sheet_id, inventory_item_id, quantity_needed,
	quantity_checked_out, quantity_returned, status, created_at, updated_at`

// PostgresPullSheetRepository implements PullSheetRepository against the
// hosted relational backend.
type PostgresPullSheetRepository struct {
	db *sql.DB
}

// NewPostgresPullSheetRepository creates a pull sheet repository on an
// already-open connection pool.
func NewPostgresPullSheetRepository(db *sql.DB) *PostgresPullSheetRepository {
	return &PostgresPullSheetRepository{db: db}
}

func scanPgSheet(row interface{ Scan(...any) error }) (*model.PullSheet, error) {
	var sheet model.PullSheet
	var eventDate sql.NullTime
	err := row.Scan(&sheet.ID, &sheet.JobID, &sheet.VenueName, &eventDate,
		&sheet.Status, &sheet.Notes, &sheet.CreatedBy,
		&sheet.CreatedAt, &sheet.UpdatedAt, &sheet.Synced)
	if err != nil {
		return nil, err
	}
	if eventDate.Valid {
		sheet.EventDate = &eventDate.Time
	}
	return &sheet, nil
}

func scanPgLine(row interface{ Scan(...any) error }) (*model.PullSheetItem, error) {
	var line model.PullSheetItem
	err := row.Scan(&line.ID, &line.PullSheetID, &line.InventoryItemID,
		&line.QuantityNeeded, &line.QuantityCheckedOut, &line.QuantityReturned,
		&line.Status, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *PostgresPullSheetRepository) querySheets(ctx context.Context, query string, args ...any) ([]model.PullSheet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("[PostgresPullSheetRepository] read failed: %v", err)
		return []model.PullSheet{}, nil
	}
	defer rows.Close()

	sheets := []model.PullSheet{}
	for rows.Next() {
		sheet, err := scanPgSheet(rows)
		if err != nil {
			log.Printf("[PostgresPullSheetRepository] scan failed: %v", err)
			return []model.PullSheet{}, nil
		}
		sheets = append(sheets, *sheet)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[PostgresPullSheetRepository] read failed: %v", err)
		return []model.PullSheet{}, nil
	}
	return sheets, nil
}

// List returns all pull sheets, newest first.
func (r *PostgresPullSheetRepository) List(ctx context.Context) ([]model.PullSheet, error) {
	return r.querySheets(ctx, `SELECT `+pgSheetColumns+` FROM pull_sheets ORDER BY created_at DESC`)
}

// GetByID returns the sheet without its items, or nil when absent.
func (r *PostgresPullSheetRepository) GetByID(ctx context.Context, id string) (*model.PullSheet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgSheetColumns+` FROM pull_sheets WHERE id = $1`, id)
	sheet, err := scanPgSheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("[PostgresPullSheetRepository] read failed: %v", err)
		return nil, nil
	}
	return sheet, nil
}

// GetWithItems returns the sheet with its line items. Implemented as
// two composed reads; the backend has no join requirement here.
func (r *PostgresPullSheetRepository) GetWithItems(ctx context.Context, id string) (*model.PullSheet, error) {
	sheet, err := r.GetByID(ctx, id)
	if err != nil || sheet == nil {
		return sheet, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pgLineColumns+` FROM pull_sheet_items WHERE pull_sheet_id = $1 ORDER BY created_at ASC`,
		id)
	if err != nil {
		log.Printf("[PostgresPullSheetRepository] read failed: %v", err)
		return sheet, nil
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanPgLine(rows)
		if err != nil {
			log.Printf("[PostgresPullSheetRepository] scan failed: %v", err)
			return sheet, nil
		}
		sheet.Items = append(sheet.Items, *line)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[PostgresPullSheetRepository] read failed: %v", err)
	}
	return sheet, nil
}

// Create persists a new sheet. Remote sheets are backend-confirmed, so
// they are created synced.
func (r *PostgresPullSheetRepository) Create(ctx context.Context, sheet model.PullSheet) (*model.PullSheet, error) {
	if sheet.ID == "" {
		sheet.ID = uid.New()
	}
	if sheet.Status == "" {
		sheet.Status = model.PullSheetDraft
	}
	now := time.Now().UTC()
	sheet.CreatedAt = now
	sheet.UpdatedAt = now
	sheet.Synced = true
	sheet.Items = nil

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pull_sheets (`+pgSheetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sheet.ID, sheet.JobID, sheet.VenueName, sheet.EventDate,
		sheet.Status, sheet.Notes, sheet.CreatedBy,
		sheet.CreatedAt, sheet.UpdatedAt, sheet.Synced)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull sheet: %w", err)
	}
	return &sheet, nil
}

// Update merges the supplied fields and returns the updated sheet.
func (r *PostgresPullSheetRepository) Update(ctx context.Context, id string, changes model.PullSheetChanges) (*model.PullSheet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgSheetColumns+` FROM pull_sheets WHERE id = $1`, id)
	sheet, err := scanPgSheet(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("failed to update pull sheet: not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update pull sheet: %w", err)
	}

	changes.Apply(sheet)
	sheet.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		UPDATE pull_sheets SET job_id = $1, venue_name = $2, event_date = $3,
			status = $4, notes = $5, updated_at = $6, synced = $7
		WHERE id = $8`,
		sheet.JobID, sheet.VenueName, sheet.EventDate,
		sheet.Status, sheet.Notes, sheet.UpdatedAt, sheet.Synced, sheet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update pull sheet: %w", err)
	}
	return sheet, nil
}

// Delete removes a sheet; line items cascade. Absent id yields (false, nil).
func (r *PostgresPullSheetRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pull_sheets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pull sheet: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// GetByJobID returns sheets for a job.
func (r *PostgresPullSheetRepository) GetByJobID(ctx context.Context, jobID string) ([]model.PullSheet, error) {
	return r.querySheets(ctx,
		`SELECT `+pgSheetColumns+` FROM pull_sheets WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID)
}

// GetByStatus returns sheets in the given status.
func (r *PostgresPullSheetRepository) GetByStatus(ctx context.Context, status model.PullSheetStatus) ([]model.PullSheet, error) {
	return r.querySheets(ctx,
		`SELECT `+pgSheetColumns+` FROM pull_sheets WHERE status = $1 ORDER BY created_at DESC`,
		status)
}

// AddItem appends a line item to a sheet.
func (r *PostgresPullSheetRepository) AddItem(ctx context.Context, sheetID string, item model.PullSheetItem) (*model.PullSheetItem, error) {
	if item.ID == "" {
		item.ID = uid.New()
	}
	item.PullSheetID = sheetID
	if item.Status == "" {
		item.Status = model.ItemPending
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pull_sheet_items (`+pgLineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.PullSheetID, item.InventoryItemID,
		item.QuantityNeeded, item.QuantityCheckedOut, item.QuantityReturned,
		item.Status, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add pull sheet item: %w", err)
	}
	return &item, nil
}

// fetchLine is the non-degrading scoped read behind GetItem and the
// line counter operations. Absent rows come back (nil, nil); backend
// failures come back as themselves.
func (r *PostgresPullSheetRepository) fetchLine(ctx context.Context, sheetID, itemID string) (*model.PullSheetItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgLineColumns+` FROM pull_sheet_items WHERE id = $1 AND pull_sheet_id = $2`,
		itemID, sheetID)
	line, err := scanPgLine(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return line, err
}

// GetItem returns a single line item scoped to its parent sheet.
func (r *PostgresPullSheetRepository) GetItem(ctx context.Context, sheetID, itemID string) (*model.PullSheetItem, error) {
	line, err := r.fetchLine(ctx, sheetID, itemID)
	if err != nil {
		log.Printf("[PostgresPullSheetRepository] read failed: %v", err)
		return nil, nil
	}
	return line, nil
}

// RemoveItem deletes a line item scoped to its parent sheet. The
// referenced inventory item's counters are untouched; those are
// adjusted through InventoryRepository operations.
func (r *PostgresPullSheetRepository) RemoveItem(ctx context.Context, sheetID, itemID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pull_sheet_items WHERE id = $1 AND pull_sheet_id = $2`,
		itemID, sheetID)
	if err != nil {
		return false, fmt.Errorf("failed to remove pull sheet item: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

func (r *PostgresPullSheetRepository) writeLineCounters(ctx context.Context, line *model.PullSheetItem) (*model.PullSheetItem, error) {
	line.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE pull_sheet_items SET quantity_checked_out = $1, quantity_returned = $2,
			status = $3, updated_at = $4
		WHERE id = $5 AND pull_sheet_id = $6`,
		line.QuantityCheckedOut, line.QuantityReturned,
		line.Status, line.UpdatedAt, line.ID, line.PullSheetID)
	if err != nil {
		return nil, err
	}
	return line, nil
}

// CheckoutItem adds qty to the line's checked-out counter and derives
// its status. Two round trips, no transaction; see the interface doc.
// The read goes through fetchLine so a backend failure is reported as
// a failure, not as not-found.
func (r *PostgresPullSheetRepository) CheckoutItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error) {
	line, err := r.fetchLine(ctx, sheetID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout pull sheet item: %w", err)
	}
	if line == nil {
		return nil, fmt.Errorf("failed to checkout pull sheet item: not found: %s", itemID)
	}

	line.QuantityCheckedOut += qty
	line.Status = model.CheckoutStatus(line.QuantityNeeded, line.QuantityCheckedOut)

	updated, err := r.writeLineCounters(ctx, line)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout pull sheet item: %w", err)
	}
	return updated, nil
}

// ReturnItem adds qty to the line's returned counter and derives its
// status.
func (r *PostgresPullSheetRepository) ReturnItem(ctx context.Context, sheetID, itemID string, qty int) (*model.PullSheetItem, error) {
	line, err := r.fetchLine(ctx, sheetID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to return pull sheet item: %w", err)
	}
	if line == nil {
		return nil, fmt.Errorf("failed to return pull sheet item: not found: %s", itemID)
	}

	line.QuantityReturned += qty
	line.Status = model.ReturnStatus(line.QuantityCheckedOut, line.QuantityReturned)

	updated, err := r.writeLineCounters(ctx, line)
	if err != nil {
		return nil, fmt.Errorf("failed to return pull sheet item: %w", err)
	}
	return updated, nil
}

// Close closes the connection pool.
func (r *PostgresPullSheetRepository) Close() error {
	return r.db.Close()
}

// Ensure PostgresPullSheetRepository implements PullSheetRepository
var _ PullSheetRepository = (*PostgresPullSheetRepository)(nil)
