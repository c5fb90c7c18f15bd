package model

import (
	"testing"
	"time"
)

func TestInventoryItemChangesApply(t *testing.T) {
	purchased := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	item := InventoryItem{
		ID:                  "inv-1",
		Name:                "18-inch Sub",
		Barcode:             "SUB-001",
		QuantityInWarehouse: 10,
		Category:            "Audio",
		Location:            "Bay 3",
		UnitValue:           1200,
		MaintenanceStatus:   MaintenanceOperational,
	}

	qty := 7
	status := MaintenanceInRepair
	changes := InventoryItemChanges{
		QuantityInWarehouse: &qty,
		MaintenanceStatus:   &status,
		PurchaseDate:        &purchased,
	}
	changes.Apply(&item)

	if item.QuantityInWarehouse != 7 {
		t.Errorf("QuantityInWarehouse = %d, want 7", item.QuantityInWarehouse)
	}
	if item.MaintenanceStatus != MaintenanceInRepair {
		t.Errorf("MaintenanceStatus = %q, want %q", item.MaintenanceStatus, MaintenanceInRepair)
	}
	if item.PurchaseDate == nil || !item.PurchaseDate.Equal(purchased) {
		t.Errorf("PurchaseDate = %v, want %v", item.PurchaseDate, purchased)
	}
	// Fields without a change pointer are untouched.
	if item.Name != "18-inch Sub" || item.Barcode != "SUB-001" || item.Category != "Audio" ||
		item.Location != "Bay 3" || item.UnitValue != 1200 {
		t.Errorf("unrelated fields changed: %+v", item)
	}
}

func TestInventoryItemChangesApplyEmpty(t *testing.T) {
	item := InventoryItem{Name: "Cable Ramp", QuantityInWarehouse: 4}
	before := item

	var changes InventoryItemChanges
	changes.Apply(&item)

	if item != before {
		t.Errorf("empty changes modified item: %+v", item)
	}
}
