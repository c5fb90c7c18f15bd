package bridge

import (
	"context"
	"encoding/json"
	"testing"

	"stagekit-api/internal/model"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func decodeData(t *testing.T, result Result, out any) {
	t.Helper()
	if !result.Success {
		t.Fatalf("bridge call failed: %s", result.Error)
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		t.Fatalf("decode result data: %v", err)
	}
}

func TestCallUnknownMethod(t *testing.T) {
	b := NewTestBridge(t)

	result := b.Call(context.Background(), "inventory.explode", nil)
	if result.Success {
		t.Fatal("expected failure for unknown method")
	}
	if result.Error == "" {
		t.Error("expected a diagnostic in Error")
	}
}

func TestResultTagging(t *testing.T) {
	b := NewTestBridge(t)
	ctx := context.Background()

	// Success carries Data, not Error.
	result := b.Call(ctx, "inventory.list", nil)
	if !result.Success || result.Error != "" {
		t.Fatalf("list: success=%v error=%q", result.Success, result.Error)
	}
	if len(result.Data) == 0 {
		t.Error("success result carries no data")
	}

	// Failure carries Error, not Data.
	result = b.Call(ctx, "inventory.updateQuantity", mustMarshal(t, QtyArgs{ID: "missing", Qty: 1}))
	if result.Success || result.Error == "" {
		t.Fatalf("updateQuantity on missing id: success=%v error=%q", result.Success, result.Error)
	}
	if len(result.Data) != 0 {
		t.Errorf("failure result carries data: %s", result.Data)
	}
}

func TestCreateSheetStartsUnsynced(t *testing.T) {
	b := NewTestBridge(t)
	ctx := context.Background()

	// A caller claiming synced=true is overruled; locally created sheets
	// stay unsynced until the backend confirms them.
	result := b.Call(ctx, "pullsheets.create", mustMarshal(t, model.PullSheet{
		JobID:  "job-42",
		Synced: true,
	}))

	var sheet model.PullSheet
	decodeData(t, result, &sheet)
	if sheet.Synced {
		t.Error("locally created sheet must start unsynced")
	}
	if sheet.ID == "" {
		t.Error("sheet id not assigned")
	}
	if sheet.Status != model.PullSheetDraft {
		t.Errorf("status = %q, want %q", sheet.Status, model.PullSheetDraft)
	}
}

func TestMarkSheetSynced(t *testing.T) {
	b := NewTestBridge(t)
	ctx := context.Background()

	var sheet model.PullSheet
	decodeData(t, b.Call(ctx, "pullsheets.create", mustMarshal(t, model.PullSheet{JobID: "job-7"})), &sheet)

	var synced model.PullSheet
	decodeData(t, b.Call(ctx, "pullsheets.markSynced", mustMarshal(t, IDArgs{ID: sheet.ID})), &synced)
	if !synced.Synced {
		t.Error("sheet not marked synced")
	}

	// And it sticks.
	var fetched model.PullSheet
	decodeData(t, b.Call(ctx, "pullsheets.get", mustMarshal(t, IDArgs{ID: sheet.ID})), &fetched)
	if !fetched.Synced {
		t.Error("synced flag not persisted")
	}
}

func TestMarkSheetSyncedMissing(t *testing.T) {
	b := NewTestBridge(t)

	result := b.Call(context.Background(), "pullsheets.markSynced", mustMarshal(t, IDArgs{ID: "nope"}))
	if result.Success {
		t.Fatal("expected failure for missing sheet")
	}
}

func TestDeleteSheetRemovesLines(t *testing.T) {
	b := NewTestBridge(t)
	ctx := context.Background()

	var sheet model.PullSheet
	decodeData(t, b.Call(ctx, "pullsheets.create", mustMarshal(t, model.PullSheet{JobID: "job-9"})), &sheet)

	addArgs := struct {
		SheetID string              `json:"sheet_id"`
		Item    model.PullSheetItem `json:"item"`
	}{SheetID: sheet.ID, Item: model.PullSheetItem{InventoryItemID: "inv-1", QuantityNeeded: 2}}
	var line model.PullSheetItem
	decodeData(t, b.Call(ctx, "pullsheets.addItem", mustMarshal(t, addArgs)), &line)

	var deleted bool
	decodeData(t, b.Call(ctx, "pullsheets.delete", mustMarshal(t, IDArgs{ID: sheet.ID})), &deleted)
	if !deleted {
		t.Fatal("sheet not deleted")
	}

	var gone *model.PullSheetItem
	decodeData(t, b.Call(ctx, "pullsheets.getItem", mustMarshal(t, LineArgs{SheetID: sheet.ID, ItemID: line.ID})), &gone)
	if gone != nil {
		t.Errorf("line survived sheet deletion: %+v", gone)
	}
}
