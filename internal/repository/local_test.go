package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"stagekit-api/internal/bridge"
	"stagekit-api/internal/model"
	"stagekit-api/pkg/uid"
)

// setupLocal registers a fresh in-memory bridge and returns both
// desktop adapters. The bridge registry is process-global, so these
// tests never run in parallel.
func setupLocal(t *testing.T) (*LocalInventoryRepository, *LocalPullSheetRepository) {
	t.Helper()
	bridge.Register(bridge.NewTestBridge(t))
	t.Cleanup(bridge.Reset)

	inv, err := NewLocalInventoryRepository()
	if err != nil {
		t.Fatalf("NewLocalInventoryRepository: %v", err)
	}
	sheets, err := NewLocalPullSheetRepository()
	if err != nil {
		t.Fatalf("NewLocalPullSheetRepository: %v", err)
	}
	return inv, sheets
}

func mustCreateItem(t *testing.T, inv *LocalInventoryRepository, item model.InventoryItem) *model.InventoryItem {
	t.Helper()
	created, err := inv.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestInventoryCreateGetRoundtrip(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{
		Name:                "Wireless Mic",
		Barcode:             "MIC-100",
		QuantityInWarehouse: 12,
		Category:            "Audio",
		Location:            "Bay 1",
		UnitValue:           450,
	})

	if !uid.IsValid(created.ID) {
		t.Fatalf("assigned id %q is not a UUID", created.ID)
	}
	if created.MaintenanceStatus != model.MaintenanceOperational {
		t.Errorf("default maintenance status = %q", created.MaintenanceStatus)
	}

	fetched, err := inv.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil {
		t.Fatal("created item not found")
	}
	if fetched.Name != "Wireless Mic" || fetched.Barcode != "MIC-100" ||
		fetched.QuantityInWarehouse != 12 || fetched.Category != "Audio" {
		t.Errorf("roundtrip mismatch: %+v", fetched)
	}
}

func TestInventoryGetMissingIsNil(t *testing.T) {
	inv, _ := setupLocal(t)

	item, err := inv.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing id, got %+v", item)
	}
}

func TestInventorySearchByBarcode(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{Name: "LED Par", Barcode: "PAR-7"})

	found, err := inv.SearchByBarcode(ctx, "PAR-7")
	if err != nil {
		t.Fatalf("SearchByBarcode: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Errorf("barcode lookup = %+v, want id %s", found, created.ID)
	}

	missing, err := inv.SearchByBarcode(ctx, "PAR-8")
	if err != nil {
		t.Fatalf("SearchByBarcode: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown barcode, got %+v", missing)
	}
}

func TestInventorySearchByNameCaseInsensitive(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	mustCreateItem(t, inv, model.InventoryItem{Name: "ABCxyz"})
	mustCreateItem(t, inv, model.InventoryItem{Name: "xyzABC"})
	mustCreateItem(t, inv, model.InventoryItem{Name: "xAbCy"})
	mustCreateItem(t, inv, model.InventoryItem{Name: "unrelated"})

	matches, err := inv.SearchByName(ctx, "abc")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("expected 3 matches for %q, got %d: %+v", "abc", len(matches), matches)
	}

	none, err := inv.SearchByName(ctx, "zzz")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %+v", none)
	}
}

func TestInventoryCheckoutAndReturn(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{
		Name: "18-inch Sub", Barcode: "SUB-001", QuantityInWarehouse: 10,
	})

	after, err := inv.CheckoutItem(ctx, created.ID, 3)
	if err != nil {
		t.Fatalf("CheckoutItem: %v", err)
	}
	if after.QuantityInWarehouse != 7 {
		t.Errorf("after checkout 3: quantity = %d, want 7", after.QuantityInWarehouse)
	}

	after, err = inv.ReturnItem(ctx, created.ID, 1)
	if err != nil {
		t.Fatalf("ReturnItem: %v", err)
	}
	if after.QuantityInWarehouse != 8 {
		t.Errorf("after return 1: quantity = %d, want 8", after.QuantityInWarehouse)
	}
}

func TestInventoryCheckoutClampsAtZero(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{Name: "Truss", QuantityInWarehouse: 4})

	after, err := inv.CheckoutItem(ctx, created.ID, 20)
	if err != nil {
		t.Fatalf("CheckoutItem: %v", err)
	}
	if after.QuantityInWarehouse != 0 {
		t.Errorf("over-checkout quantity = %d, want 0", after.QuantityInWarehouse)
	}
}

func TestInventoryDeleteAbsent(t *testing.T) {
	inv, _ := setupLocal(t)

	deleted, err := inv.Delete(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Error("deleting an absent id reported true")
	}
}

func TestInventoryPartialUpdate(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{
		Name: "Moving Head", Barcode: "MH-1", QuantityInWarehouse: 6,
		Category: "Lighting", Location: "Bay 2", UnitValue: 2400,
	})

	loc := "Bay 5"
	updated, err := inv.Update(ctx, created.ID, model.InventoryItemChanges{Location: &loc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Location != "Bay 5" {
		t.Errorf("Location = %q, want %q", updated.Location, "Bay 5")
	}
	// Everything else survives a one-field update.
	if updated.Name != "Moving Head" || updated.Barcode != "MH-1" ||
		updated.QuantityInWarehouse != 6 || updated.Category != "Lighting" ||
		updated.UnitValue != 2400 {
		t.Errorf("partial update clobbered fields: %+v", updated)
	}
}

func TestInventoryUpdateMissingErrors(t *testing.T) {
	inv, _ := setupLocal(t)

	name := "renamed"
	_, err := inv.Update(context.Background(), "no-such-id", model.InventoryItemChanges{Name: &name})
	if err == nil {
		t.Fatal("expected error updating a missing id")
	}
}

func TestInventoryCategoryLocationFilters(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	mustCreateItem(t, inv, model.InventoryItem{Name: "Sub A", Category: "Audio", Location: "Bay 1"})
	mustCreateItem(t, inv, model.InventoryItem{Name: "Par B", Category: "Lighting", Location: "Bay 1"})
	mustCreateItem(t, inv, model.InventoryItem{Name: "Mic C", Category: "Audio", Location: "Bay 2"})

	audio, err := inv.GetByCategory(ctx, "Audio")
	if err != nil {
		t.Fatalf("GetByCategory: %v", err)
	}
	if len(audio) != 2 {
		t.Errorf("Audio category: got %d items, want 2", len(audio))
	}

	bay1, err := inv.GetByLocation(ctx, "Bay 1")
	if err != nil {
		t.Fatalf("GetByLocation: %v", err)
	}
	if len(bay1) != 2 {
		t.Errorf("Bay 1: got %d items, want 2", len(bay1))
	}

	empty, err := inv.GetByCategory(ctx, "Video")
	if err != nil {
		t.Fatalf("GetByCategory: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %+v", empty)
	}
}

// TestInventoryConcurrentCheckoutLosesUpdate pins down the documented
// read-modify-write shape: two callers that both read the same starting
// quantity and write back their own result overwrite each other rather
// than compose. Changing this to transactional arithmetic would be a
// behavior change, not a fix.
func TestInventoryConcurrentCheckoutLosesUpdate(t *testing.T) {
	inv, _ := setupLocal(t)
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{Name: "Cable Drum", QuantityInWarehouse: 5})

	// Both callers observe quantity 5 before either writes.
	a, _ := inv.GetByID(ctx, created.ID)
	b, _ := inv.GetByID(ctx, created.ID)

	if _, err := inv.UpdateQuantity(ctx, created.ID, a.QuantityInWarehouse-1); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if _, err := inv.UpdateQuantity(ctx, created.ID, b.QuantityInWarehouse-1); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}

	final, _ := inv.GetByID(ctx, created.ID)
	if final.QuantityInWarehouse != 4 {
		t.Errorf("interleaved decrements yielded %d; the second write is expected to clobber the first (4, not 3)",
			final.QuantityInWarehouse)
	}
}

// splitCheckoutBridge reimplements inventory.checkoutItem as its read
// and write phases against the wrapped bridge, parking each caller at
// the barrier between the two. Two concurrent checkouts are forced to
// read the same snapshot before either writes. Everything else passes
// through.
type splitCheckoutBridge struct {
	inner   bridge.Bridge
	barrier *sync.WaitGroup
}

func (b *splitCheckoutBridge) Call(ctx context.Context, method string, payload []byte) bridge.Result {
	if method != "inventory.checkoutItem" {
		return b.inner.Call(ctx, method, payload)
	}

	var args bridge.QtyArgs
	if err := json.Unmarshal(payload, &args); err != nil {
		return bridge.Errf("decode payload: %v", err)
	}

	res := b.inner.Call(ctx, "inventory.get", mustArgs(bridge.IDArgs{ID: args.ID}))
	if !res.Success {
		return res
	}
	var item model.InventoryItem
	if err := json.Unmarshal(res.Data, &item); err != nil {
		return bridge.Errf("decode item: %v", err)
	}

	b.barrier.Done()
	b.barrier.Wait()

	qty := item.QuantityInWarehouse - args.Qty
	if qty < 0 {
		qty = 0
	}
	return b.inner.Call(ctx, "inventory.updateQuantity", mustArgs(bridge.QtyArgs{ID: args.ID, Qty: qty}))
}

func mustArgs(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// TestInventoryCheckoutOverlappingReadsLoseUpdate runs two concurrent
// CheckoutItem calls whose read phases overlap. Both observe quantity
// 5, so the second write clobbers the first and the pair of
// single-unit checkouts nets only one.
func TestInventoryCheckoutOverlappingReadsLoseUpdate(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(2)
	bridge.Register(&splitCheckoutBridge{inner: bridge.NewTestBridge(t), barrier: &barrier})
	t.Cleanup(bridge.Reset)

	inv, err := NewLocalInventoryRepository()
	if err != nil {
		t.Fatalf("NewLocalInventoryRepository: %v", err)
	}
	ctx := context.Background()

	created := mustCreateItem(t, inv, model.InventoryItem{Name: "Truss Motor", QuantityInWarehouse: 5})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := inv.CheckoutItem(ctx, created.ID, 1); err != nil {
				t.Errorf("CheckoutItem: %v", err)
			}
		}()
	}
	wg.Wait()

	final, _ := inv.GetByID(ctx, created.ID)
	if final.QuantityInWarehouse != 4 {
		t.Errorf("overlapping checkouts yielded %d, want 4 (one update lost)", final.QuantityInWarehouse)
	}
}

func TestPullSheetLifecycle(t *testing.T) {
	inv, sheets := setupLocal(t)
	ctx := context.Background()

	item := mustCreateItem(t, inv, model.InventoryItem{Name: "Stage Deck", QuantityInWarehouse: 20})

	sheet, err := sheets.Create(ctx, model.PullSheet{JobID: "job-1", VenueName: "Civic Hall"})
	if err != nil {
		t.Fatalf("Create sheet: %v", err)
	}
	if sheet.Status != model.PullSheetDraft {
		t.Errorf("new sheet status = %q, want draft", sheet.Status)
	}
	if sheet.Synced {
		t.Error("locally created sheet must start unsynced")
	}

	line, err := sheets.AddItem(ctx, sheet.ID, model.PullSheetItem{
		InventoryItemID: item.ID,
		QuantityNeeded:  5,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if line.Status != model.ItemPending {
		t.Errorf("new line status = %q, want pending", line.Status)
	}

	// Partial checkout, then the remainder.
	line, err = sheets.CheckoutItem(ctx, sheet.ID, line.ID, 3)
	if err != nil {
		t.Fatalf("CheckoutItem: %v", err)
	}
	if line.QuantityCheckedOut != 3 || line.Status != model.ItemPartial {
		t.Errorf("after checkout 3: out=%d status=%q", line.QuantityCheckedOut, line.Status)
	}

	line, err = sheets.CheckoutItem(ctx, sheet.ID, line.ID, 2)
	if err != nil {
		t.Fatalf("CheckoutItem: %v", err)
	}
	if line.QuantityCheckedOut != 5 || line.Status != model.ItemCheckedOut {
		t.Errorf("after checkout 5 total: out=%d status=%q", line.QuantityCheckedOut, line.Status)
	}

	// Partial return, then the remainder.
	line, err = sheets.ReturnItem(ctx, sheet.ID, line.ID, 2)
	if err != nil {
		t.Fatalf("ReturnItem: %v", err)
	}
	if line.QuantityReturned != 2 || line.Status != model.ItemPartial {
		t.Errorf("after return 2: returned=%d status=%q", line.QuantityReturned, line.Status)
	}

	line, err = sheets.ReturnItem(ctx, sheet.ID, line.ID, 3)
	if err != nil {
		t.Fatalf("ReturnItem: %v", err)
	}
	if line.QuantityReturned != 5 || line.Status != model.ItemReturned {
		t.Errorf("after return 5 total: returned=%d status=%q", line.QuantityReturned, line.Status)
	}

	withItems, err := sheets.GetWithItems(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("GetWithItems: %v", err)
	}
	if withItems == nil || len(withItems.Items) != 1 {
		t.Fatalf("GetWithItems: %+v", withItems)
	}
	if withItems.Items[0].Status != model.ItemReturned {
		t.Errorf("persisted line status = %q, want returned", withItems.Items[0].Status)
	}

	// GetByID never loads items.
	bare, err := sheets.GetByID(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(bare.Items) != 0 {
		t.Errorf("GetByID loaded items: %+v", bare.Items)
	}
}

func TestPullSheetFilters(t *testing.T) {
	_, sheets := setupLocal(t)
	ctx := context.Background()

	if _, err := sheets.Create(ctx, model.PullSheet{JobID: "job-a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := sheets.Create(ctx, model.PullSheet{JobID: "job-b"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := model.PullSheetInProgress
	if _, err := sheets.Update(ctx, second.ID, model.PullSheetChanges{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	byJob, err := sheets.GetByJobID(ctx, "job-a")
	if err != nil {
		t.Fatalf("GetByJobID: %v", err)
	}
	if len(byJob) != 1 || byJob[0].JobID != "job-a" {
		t.Errorf("GetByJobID = %+v", byJob)
	}

	inProgress, err := sheets.GetByStatus(ctx, model.PullSheetInProgress)
	if err != nil {
		t.Fatalf("GetByStatus: %v", err)
	}
	if len(inProgress) != 1 || inProgress[0].ID != second.ID {
		t.Errorf("GetByStatus = %+v", inProgress)
	}

	drafts, err := sheets.GetByStatus(ctx, model.PullSheetDraft)
	if err != nil {
		t.Fatalf("GetByStatus: %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("draft count = %d, want 1", len(drafts))
	}
}

func TestPullSheetRemoveItemAbsent(t *testing.T) {
	_, sheets := setupLocal(t)
	ctx := context.Background()

	sheet, err := sheets.Create(ctx, model.PullSheet{JobID: "job-x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := sheets.RemoveItem(ctx, sheet.ID, "no-such-line")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if removed {
		t.Error("removing an absent line reported true")
	}
}

func TestLocalRepositoryRequiresBridge(t *testing.T) {
	bridge.Reset()

	if _, err := NewLocalInventoryRepository(); !errors.Is(err, ErrNoBridge) {
		t.Errorf("NewLocalInventoryRepository error = %v, want ErrNoBridge", err)
	}
	if _, err := NewLocalPullSheetRepository(); !errors.Is(err, ErrNoBridge) {
		t.Errorf("NewLocalPullSheetRepository error = %v, want ErrNoBridge", err)
	}

	// A missing bridge is an environment error, never a silent empty read.
	var inv LocalInventoryRepository
	if _, err := inv.List(context.Background()); !errors.Is(err, ErrNoBridge) {
		t.Errorf("List without bridge error = %v, want ErrNoBridge", err)
	}
}
