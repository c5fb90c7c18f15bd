package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stagekit-api/internal/bridge"
	"stagekit-api/internal/model"
	"stagekit-api/internal/repository"
)

func newPullSheetFixture(t *testing.T) (*PullSheetService, repository.InventoryRepository, repository.PullSheetRepository) {
	t.Helper()
	bridge.Register(bridge.NewTestBridge(t))
	t.Cleanup(bridge.Reset)

	inv, err := repository.NewLocalInventoryRepository()
	require.NoError(t, err)
	sheets, err := repository.NewLocalPullSheetRepository()
	require.NoError(t, err)

	svc := NewPullSheetService(sheets, inv)
	require.NotNil(t, svc)
	return svc, inv, sheets
}

func TestNewPullSheetServiceRequiresRepos(t *testing.T) {
	require.Nil(t, NewPullSheetService(nil, nil))
}

func TestCheckoutItemAdjustsWarehouse(t *testing.T) {
	svc, inv, _ := newPullSheetFixture(t)
	ctx := context.Background()

	item, err := inv.Create(ctx, model.InventoryItem{Name: "Line Array", QuantityInWarehouse: 10})
	require.NoError(t, err)

	sheet, err := svc.Create(ctx, model.PullSheet{JobID: "job-1"})
	require.NoError(t, err)

	line, err := svc.AddItem(ctx, sheet.ID, model.PullSheetItem{
		InventoryItemID: item.ID,
		QuantityNeeded:  4,
	})
	require.NoError(t, err)

	line, err = svc.CheckoutItem(ctx, sheet.ID, line.ID, 4)
	require.NoError(t, err)
	require.Equal(t, model.ItemCheckedOut, line.Status)
	require.Equal(t, 4, line.QuantityCheckedOut)

	after, err := inv.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 6, after.QuantityInWarehouse)
}

func TestReturnItemAdjustsWarehouse(t *testing.T) {
	svc, inv, _ := newPullSheetFixture(t)
	ctx := context.Background()

	item, err := inv.Create(ctx, model.InventoryItem{Name: "Monitor Wedge", QuantityInWarehouse: 8})
	require.NoError(t, err)

	sheet, err := svc.Create(ctx, model.PullSheet{JobID: "job-2"})
	require.NoError(t, err)

	line, err := svc.AddItem(ctx, sheet.ID, model.PullSheetItem{
		InventoryItemID: item.ID,
		QuantityNeeded:  3,
	})
	require.NoError(t, err)

	_, err = svc.CheckoutItem(ctx, sheet.ID, line.ID, 3)
	require.NoError(t, err)

	line, err = svc.ReturnItem(ctx, sheet.ID, line.ID, 3)
	require.NoError(t, err)
	require.Equal(t, model.ItemReturned, line.Status)

	after, err := inv.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 8, after.QuantityInWarehouse)
}

// The line counter updates before the warehouse adjustment. When the
// second step fails the line keeps its new counter and the caller gets
// an error naming the partial state.
func TestCheckoutItemWarehouseFailureLeavesLineUpdated(t *testing.T) {
	svc, _, sheets := newPullSheetFixture(t)
	ctx := context.Background()

	sheet, err := svc.Create(ctx, model.PullSheet{JobID: "job-3"})
	require.NoError(t, err)

	// The line references an inventory item that does not exist, so the
	// warehouse step is guaranteed to fail.
	line, err := svc.AddItem(ctx, sheet.ID, model.PullSheetItem{
		InventoryItemID: "ghost-item",
		QuantityNeeded:  2,
	})
	require.NoError(t, err)

	_, err = svc.CheckoutItem(ctx, sheet.ID, line.ID, 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "warehouse adjustment failed")

	after, err := sheets.GetItem(ctx, sheet.ID, line.ID)
	require.NoError(t, err)
	require.Equal(t, 2, after.QuantityCheckedOut)
}

func TestRemoveItemLeavesWarehouseAlone(t *testing.T) {
	svc, inv, _ := newPullSheetFixture(t)
	ctx := context.Background()

	item, err := inv.Create(ctx, model.InventoryItem{Name: "Followspot", QuantityInWarehouse: 2})
	require.NoError(t, err)

	sheet, err := svc.Create(ctx, model.PullSheet{JobID: "job-4"})
	require.NoError(t, err)

	line, err := svc.AddItem(ctx, sheet.ID, model.PullSheetItem{
		InventoryItemID: item.ID,
		QuantityNeeded:  1,
	})
	require.NoError(t, err)

	_, err = svc.CheckoutItem(ctx, sheet.ID, line.ID, 1)
	require.NoError(t, err)

	removed, err := svc.RemoveItem(ctx, sheet.ID, line.ID)
	require.NoError(t, err)
	require.True(t, removed)

	// Removing the line does not return its units.
	after, err := inv.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 1, after.QuantityInWarehouse)
}
