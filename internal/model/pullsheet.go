package model

import "time"

// PullSheetStatus tracks a pull sheet through its lifecycle.
// Normal flow moves forward only: draft -> in_progress -> completed -> returned.
// The repository layer does not enforce the ordering; callers do.
type PullSheetStatus string

const (
	PullSheetDraft      PullSheetStatus = "draft"
	PullSheetInProgress PullSheetStatus = "in_progress"
	PullSheetCompleted  PullSheetStatus = "completed"
	PullSheetReturned   PullSheetStatus = "returned"
)

// PullSheetItemStatus is derived from the item's quantity counters.
type PullSheetItemStatus string

const (
	ItemPending    PullSheetItemStatus = "pending"
	ItemCheckedOut PullSheetItemStatus = "checked_out"
	ItemReturned   PullSheetItemStatus = "returned"
	ItemPartial    PullSheetItemStatus = "partial"
)

// PullSheet is an equipment-pull request tied to a job/event.
// Synced is false for sheets created locally on the desktop build
// until the backend confirms them.
type PullSheet struct {
	ID        string          `json:"id"`
	JobID     string          `json:"job_id,omitempty"`
	VenueName string          `json:"venue_name,omitempty"`
	EventDate *time.Time      `json:"event_date,omitempty"`
	Status    PullSheetStatus `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Synced    bool            `json:"synced"`

	// Items is populated only by GetWithItems.
	Items []PullSheetItem `json:"items,omitempty"`
}

// PullSheetItem is one equipment line within a pull sheet. Its counters
// only ever increase: checkout and return calls add deltas, so repeated
// partial check-ins compose correctly.
type PullSheetItem struct {
	ID                 string              `json:"id"`
	PullSheetID        string              `json:"pull_sheet_id"`
	InventoryItemID    string              `json:"inventory_item_id"`
	QuantityNeeded     int                 `json:"quantity_needed"`
	QuantityCheckedOut int                 `json:"quantity_checked_out"`
	QuantityReturned   int                 `json:"quantity_returned"`
	Status             PullSheetItemStatus `json:"status"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// PullSheetChanges holds a partial update. Nil fields are left untouched.
type PullSheetChanges struct {
	JobID     *string          `json:"job_id,omitempty"`
	VenueName *string          `json:"venue_name,omitempty"`
	EventDate *time.Time       `json:"event_date,omitempty"`
	Status    *PullSheetStatus `json:"status,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
	Synced    *bool            `json:"synced,omitempty"`
}

// Apply merges the supplied fields into the sheet.
func (c *PullSheetChanges) Apply(sheet *PullSheet) {
	if c.JobID != nil {
		sheet.JobID = *c.JobID
	}
	if c.VenueName != nil {
		sheet.VenueName = *c.VenueName
	}
	if c.EventDate != nil {
		sheet.EventDate = c.EventDate
	}
	if c.Status != nil {
		sheet.Status = *c.Status
	}
	if c.Notes != nil {
		sheet.Notes = *c.Notes
	}
	if c.Synced != nil {
		sheet.Synced = *c.Synced
	}
}

// CheckoutStatus derives a line item's status after a checkout given the
// new checked-out total.
func CheckoutStatus(needed, checkedOut int) PullSheetItemStatus {
	if checkedOut >= needed {
		return ItemCheckedOut
	}
	return ItemPartial
}

// ReturnStatus derives a line item's status after a return given the
// checked-out and new returned totals.
func ReturnStatus(checkedOut, returned int) PullSheetItemStatus {
	if returned >= checkedOut {
		return ItemReturned
	}
	return ItemPartial
}
