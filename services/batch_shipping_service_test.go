package services

import (
	"strings"
	"testing"

	"stock-app/models"
	"stock-app/testutil"
)

func TestShipBatchPartialFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemX := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	itemA := testutil.CreateProduct(t, db, "A", models.SaleTypeProduct)
	combo := testutil.CreateCombo(t, db, "C", map[uint]int{itemA.ID: 1}, nil)
	testutil.SeedStock(t, db, itemX.ID, wh.ID, 0, 0, 5, 0)
	testutil.SeedStock(t, db, itemA.ID, wh.ID, 0, 2, 0, 0)

	engine := NewTransitionService(db)
	if _, err := engine.Assemble(combo.ID, wh.ID, 2, "", 1); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	svc := NewBatchShippingService(db)
	result, err := svc.ShipBatch(wh.ID, []BatchShipLine{
		{ProductID: &itemX.ID, Quantity: 5},
		{ComboProductID: &combo.ID, Quantity: 100},
	}, "big order", 1)
	if err != nil {
		t.Fatalf("ShipBatch failed: %v", err)
	}

	if result.BatchID == 0 {
		t.Fatal("batch id not assigned")
	}
	if len(result.Succeeded) != 1 || len(result.Failed) != 1 {
		t.Fatalf("succeeded=%d failed=%d, want 1/1", len(result.Succeeded), len(result.Failed))
	}
	if *result.Succeeded[0].ProductID != itemX.ID || result.Succeeded[0].Quantity != 5 {
		t.Errorf("unexpected succeeded line: %+v", result.Succeeded[0])
	}
	if !strings.Contains(result.Failed[0].Reason, "insufficient stock") {
		t.Errorf("failure reason = %q, want insufficient stock", result.Failed[0].Reason)
	}

	// only the successful line moved stock
	recX := getStock(t, db, itemX.ID, wh.ID)
	if recX.Finished != 0 || recX.Shipped != 5 {
		t.Errorf("X finished=%d shipped=%d, want 0/5", recX.Finished, recX.Shipped)
	}
	recC := getComboStock(t, db, combo.ID, wh.ID)
	if recC.Finished != 2 || recC.Shipped != 0 {
		t.Errorf("C finished=%d shipped=%d, want 2/0", recC.Finished, recC.Shipped)
	}

	// summary covers successes only
	var shipment models.BatchShipment
	if err := db.Preload("Lines").Where("batch_id = ?", result.BatchID).First(&shipment).Error; err != nil {
		t.Fatalf("batch shipment not persisted: %v", err)
	}
	if shipment.TotalItems != 1 || shipment.TotalQuantity != 5 {
		t.Errorf("total_items=%d total_quantity=%d, want 1/5", shipment.TotalItems, shipment.TotalQuantity)
	}
	if len(shipment.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(shipment.Lines))
	}

	// the success's transaction row carries the batch id
	var tx models.StockTransaction
	if err := db.Where("batch_id = ?", result.BatchID).First(&tx).Error; err != nil {
		t.Fatalf("batch transaction not found: %v", err)
	}
	if tx.Type != models.TransitionShip || tx.Quantity != 5 {
		t.Errorf("tx type=%s quantity=%d, want SHIP/5", tx.Type, tx.Quantity)
	}
}

func TestShipBatchAllFailedWritesNoRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemX := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	testutil.SeedStock(t, db, itemX.ID, wh.ID, 0, 0, 1, 0)

	svc := NewBatchShippingService(db)
	result, err := svc.ShipBatch(wh.ID, []BatchShipLine{
		{ProductID: &itemX.ID, Quantity: 50},
	}, "", 1)
	if err != nil {
		t.Fatalf("ShipBatch failed: %v", err)
	}
	if len(result.Succeeded) != 0 || len(result.Failed) != 1 {
		t.Fatalf("succeeded=%d failed=%d, want 0/1", len(result.Succeeded), len(result.Failed))
	}

	var total int64
	db.Model(&models.BatchShipment{}).Count(&total)
	if total != 0 {
		t.Errorf("batch shipment count = %d, want 0 when every line failed", total)
	}

	fetched, err := svc.GetBatch(result.BatchID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if fetched != nil {
		t.Error("GetBatch returned a record for an all-failed batch")
	}
}

func TestShipBatchMixedItemKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemX := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	itemA := testutil.CreateProduct(t, db, "A", models.SaleTypeProduct)
	combo := testutil.CreateCombo(t, db, "C", map[uint]int{itemA.ID: 1}, nil)
	testutil.SeedStock(t, db, itemX.ID, wh.ID, 0, 0, 3, 0)
	testutil.SeedStock(t, db, itemA.ID, wh.ID, 0, 4, 0, 0)

	engine := NewTransitionService(db)
	if _, err := engine.Assemble(combo.ID, wh.ID, 4, "", 1); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	svc := NewBatchShippingService(db)
	result, err := svc.ShipBatch(wh.ID, []BatchShipLine{
		{ProductID: &itemX.ID, Quantity: 3},
		{ComboProductID: &combo.ID, Quantity: 4},
	}, "", 1)
	if err != nil {
		t.Fatalf("ShipBatch failed: %v", err)
	}
	if len(result.Succeeded) != 2 || len(result.Failed) != 0 {
		t.Fatalf("succeeded=%d failed=%d, want 2/0", len(result.Succeeded), len(result.Failed))
	}

	shipment, err := svc.GetBatch(result.BatchID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if shipment == nil {
		t.Fatal("GetBatch returned nil")
	}
	if shipment.TotalItems != 2 || shipment.TotalQuantity != 7 {
		t.Errorf("total_items=%d total_quantity=%d, want 2/7", shipment.TotalItems, shipment.TotalQuantity)
	}

	// all lines of the batch share the batch id in the audit trail
	var total int64
	db.Model(&models.StockTransaction{}).Where("batch_id = ?", result.BatchID).Count(&total)
	if total != 2 {
		t.Errorf("batch transactions = %d, want 2", total)
	}
}
