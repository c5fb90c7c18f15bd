package model

import "time"

// MaintenanceStatus tracks the service state of a piece of equipment.
type MaintenanceStatus string

const (
	MaintenanceOperational MaintenanceStatus = "operational"
	MaintenanceNeedsRepair MaintenanceStatus = "needs_repair"
	MaintenanceInRepair    MaintenanceStatus = "in_repair"
	MaintenanceScheduled   MaintenanceStatus = "maintenance"
	MaintenanceRetired     MaintenanceStatus = "retired"
	MaintenanceBroken      MaintenanceStatus = "broken"
)

// InventoryItem represents one unit-type of rental equipment.
// QuantityInWarehouse is never negative; checkout clamps at zero.
type InventoryItem struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Barcode             string            `json:"barcode,omitempty"`
	QuantityInWarehouse int               `json:"quantity_in_warehouse"`
	Category            string            `json:"category"`
	Location            string            `json:"location"`
	UnitValue           float64           `json:"unit_value"`
	PurchaseCost        float64           `json:"purchase_cost"`
	PurchaseDate        *time.Time        `json:"purchase_date,omitempty"`
	MaintenanceStatus   MaintenanceStatus `json:"maintenance_status"`
	RepairCost          float64           `json:"repair_cost"`
	ImageURL            string            `json:"image_url,omitempty"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// InventoryItemChanges holds a partial update. Nil fields are left untouched.
type InventoryItemChanges struct {
	Name                *string            `json:"name,omitempty"`
	Barcode             *string            `json:"barcode,omitempty"`
	QuantityInWarehouse *int               `json:"quantity_in_warehouse,omitempty"`
	Category            *string            `json:"category,omitempty"`
	Location            *string            `json:"location,omitempty"`
	UnitValue           *float64           `json:"unit_value,omitempty"`
	PurchaseCost        *float64           `json:"purchase_cost,omitempty"`
	PurchaseDate        *time.Time         `json:"purchase_date,omitempty"`
	MaintenanceStatus   *MaintenanceStatus `json:"maintenance_status,omitempty"`
	RepairCost          *float64           `json:"repair_cost,omitempty"`
	ImageURL            *string            `json:"image_url,omitempty"`
}

// Apply merges the supplied fields into the item.
func (c *InventoryItemChanges) Apply(item *InventoryItem) {
	if c.Name != nil {
		item.Name = *c.Name
	}
	if c.Barcode != nil {
		item.Barcode = *c.Barcode
	}
	if c.QuantityInWarehouse != nil {
		item.QuantityInWarehouse = *c.QuantityInWarehouse
	}
	if c.Category != nil {
		item.Category = *c.Category
	}
	if c.Location != nil {
		item.Location = *c.Location
	}
	if c.UnitValue != nil {
		item.UnitValue = *c.UnitValue
	}
	if c.PurchaseCost != nil {
		item.PurchaseCost = *c.PurchaseCost
	}
	if c.PurchaseDate != nil {
		item.PurchaseDate = c.PurchaseDate
	}
	if c.MaintenanceStatus != nil {
		item.MaintenanceStatus = *c.MaintenanceStatus
	}
	if c.RepairCost != nil {
		item.RepairCost = *c.RepairCost
	}
	if c.ImageURL != nil {
		item.ImageURL = *c.ImageURL
	}
}
