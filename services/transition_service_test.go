package services

import (
	"errors"
	"sync"
	"testing"

	"stock-app/models"
	"stock-app/repositories"
	"stock-app/testutil"

	"gorm.io/gorm"
)

func getStock(t *testing.T, db *gorm.DB, productID, warehouseID uint) models.StockRecord {
	t.Helper()
	var rec models.StockRecord
	if err := db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&rec).Error; err != nil {
		t.Fatalf("Failed to fetch stock record: %v", err)
	}
	return rec
}

func getComboStock(t *testing.T, db *gorm.DB, comboID, warehouseID uint) models.ComboStockRecord {
	t.Helper()
	var rec models.ComboStockRecord
	if err := db.Where("combo_product_id = ? AND warehouse_id = ?", comboID, warehouseID).First(&rec).Error; err != nil {
		t.Fatalf("Failed to fetch combo stock record: %v", err)
	}
	return rec
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var total int64
	db.Model(&models.StockTransaction{}).Count(&total)
	return total
}

func TestReceiveAndConfirmReceipt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	product := testutil.CreateProduct(t, db, "SKU-1", models.SaleTypeProduct)
	svc := NewTransitionService(db)

	txID, err := svc.Receive(product.ID, wh.ID, 10, nil, "first receipt", 1)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if txID == 0 {
		t.Fatal("Receive returned zero transaction id")
	}

	rec := getStock(t, db, product.ID, wh.ID)
	if rec.InTransit != 10 {
		t.Errorf("in_transit = %d, want 10", rec.InTransit)
	}

	if _, err := svc.ConfirmReceipt(product.ID, wh.ID, 6, nil, "", 1); err != nil {
		t.Fatalf("ConfirmReceipt failed: %v", err)
	}
	rec = getStock(t, db, product.ID, wh.ID)
	if rec.InTransit != 4 || rec.SemiFinished != 6 {
		t.Errorf("got in_transit=%d semi_finished=%d, want 4/6", rec.InTransit, rec.SemiFinished)
	}

	_, err = svc.ConfirmReceipt(product.ID, wh.ID, 5, nil, "", 1)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 4 || insufficient.Requested != 5 {
		t.Errorf("error = %+v, want available 4 requested 5", insufficient)
	}
	if insufficient.Bucket != models.StatusInTransit {
		t.Errorf("bucket = %s, want %s", insufficient.Bucket, models.StatusInTransit)
	}

	// two successful operations, exactly two audit rows
	if n := countTransactions(t, db); n != 2 {
		t.Errorf("transaction count = %d, want 2", n)
	}
}

func TestPackageBoundedByPackaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemX := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	packP := testutil.CreateProduct(t, db, "P", models.SaleTypePackaging)
	testutil.SetPackaging(t, db, itemX.ID, map[uint]int{packP.ID: 2})
	testutil.SeedStock(t, db, itemX.ID, wh.ID, 0, 10, 0, 0)
	testutil.SeedStock(t, db, packP.ID, wh.ID, 0, 0, 15, 0)

	svc := NewTransitionService(db)

	max, factor, err := svc.MaxQuantity(models.TransitionPackage, itemX.ID, 0, wh.ID)
	if err != nil {
		t.Fatalf("MaxQuantity failed: %v", err)
	}
	if max != 7 || factor != "P" {
		t.Errorf("max = %d factor = %q, want 7 P", max, factor)
	}

	if _, err := svc.Package(itemX.ID, wh.ID, 7, "", 1); err != nil {
		t.Fatalf("Package(7) failed: %v", err)
	}

	recX := getStock(t, db, itemX.ID, wh.ID)
	recP := getStock(t, db, packP.ID, wh.ID)
	if recX.SemiFinished != 3 || recX.Finished != 7 {
		t.Errorf("X semi=%d finished=%d, want 3/7", recX.SemiFinished, recX.Finished)
	}
	if recP.Finished != 1 {
		t.Errorf("P finished = %d, want 1", recP.Finished)
	}

	// max was the largest feasible n: one more unit must fail on packaging
	_, err = svc.Package(itemX.ID, wh.ID, 1, "", 1)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Item != "P" {
		t.Errorf("limiting item = %s, want P", insufficient.Item)
	}
}

func TestUnpackRestoresPackaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemX := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	packP := testutil.CreateProduct(t, db, "P", models.SaleTypePackaging)
	testutil.SetPackaging(t, db, itemX.ID, map[uint]int{packP.ID: 3})
	testutil.SeedStock(t, db, itemX.ID, wh.ID, 0, 5, 0, 0)
	testutil.SeedStock(t, db, packP.ID, wh.ID, 0, 0, 20, 0)

	svc := NewTransitionService(db)
	if _, err := svc.Package(itemX.ID, wh.ID, 4, "", 1); err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if _, err := svc.Unpack(itemX.ID, wh.ID, 4, "", 1); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}

	recX := getStock(t, db, itemX.ID, wh.ID)
	recP := getStock(t, db, packP.ID, wh.ID)
	if recX.SemiFinished != 5 || recX.Finished != 0 {
		t.Errorf("X semi=%d finished=%d, want 5/0", recX.SemiFinished, recX.Finished)
	}
	if recP.Finished != 20 {
		t.Errorf("P finished = %d, want 20 after round trip", recP.Finished)
	}
}

func TestShip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	product := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	testutil.SeedStock(t, db, product.ID, wh.ID, 0, 0, 8, 0)

	svc := NewTransitionService(db)
	if _, err := svc.Ship(product.ID, wh.ID, 5, "", 1); err != nil {
		t.Fatalf("Ship failed: %v", err)
	}

	rec := getStock(t, db, product.ID, wh.ID)
	if rec.Finished != 3 || rec.Shipped != 5 {
		t.Errorf("finished=%d shipped=%d, want 3/5", rec.Finished, rec.Shipped)
	}

	_, err := svc.Ship(product.ID, wh.ID, 4, "", 1)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
}

func TestAssembleAndDisassemble(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemA := testutil.CreateProduct(t, db, "A", models.SaleTypeProduct)
	itemB := testutil.CreateProduct(t, db, "B", models.SaleTypeProduct)
	combo := testutil.CreateCombo(t, db, "C", map[uint]int{itemA.ID: 2, itemB.ID: 1}, nil)
	testutil.SeedStock(t, db, itemA.ID, wh.ID, 0, 5, 0, 0)
	testutil.SeedStock(t, db, itemB.ID, wh.ID, 0, 3, 0, 0)

	svc := NewTransitionService(db)

	max, _, err := svc.MaxQuantity(models.TransitionAssemble, 0, combo.ID, wh.ID)
	if err != nil {
		t.Fatalf("MaxQuantity failed: %v", err)
	}
	if max != 2 {
		t.Errorf("max assemble = %d, want 2", max)
	}

	if _, err := svc.Assemble(combo.ID, wh.ID, 2, "", 1); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	recA := getStock(t, db, itemA.ID, wh.ID)
	recB := getStock(t, db, itemB.ID, wh.ID)
	recC := getComboStock(t, db, combo.ID, wh.ID)
	if recA.SemiFinished != 1 || recB.SemiFinished != 1 || recC.Finished != 2 {
		t.Errorf("A=%d B=%d C=%d, want 1/1/2", recA.SemiFinished, recB.SemiFinished, recC.Finished)
	}

	// one combo-level audit row per operation
	var comboTx int64
	db.Model(&models.StockTransaction{}).Where("combo_product_id = ?", combo.ID).Count(&comboTx)
	if comboTx != 1 {
		t.Errorf("combo transaction count = %d, want 1", comboTx)
	}

	if _, err := svc.Disassemble(combo.ID, wh.ID, 2, "", 1); err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	recA = getStock(t, db, itemA.ID, wh.ID)
	recB = getStock(t, db, itemB.ID, wh.ID)
	recC = getComboStock(t, db, combo.ID, wh.ID)
	if recA.SemiFinished != 5 || recB.SemiFinished != 3 || recC.Finished != 0 {
		t.Errorf("A=%d B=%d C=%d after round trip, want 5/3/0", recA.SemiFinished, recB.SemiFinished, recC.Finished)
	}
}

func TestAssembleConsumesComboPackaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemA := testutil.CreateProduct(t, db, "A", models.SaleTypeProduct)
	box := testutil.CreateProduct(t, db, "BOX", models.SaleTypePackaging)
	combo := testutil.CreateCombo(t, db, "C", map[uint]int{itemA.ID: 1}, map[uint]int{box.ID: 2})
	testutil.SeedStock(t, db, itemA.ID, wh.ID, 0, 10, 0, 0)
	testutil.SeedStock(t, db, box.ID, wh.ID, 0, 0, 5, 0)

	svc := NewTransitionService(db)

	// box bounds: floor(5/2)=2
	_, err := svc.Assemble(combo.ID, wh.ID, 3, "", 1)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Item != "BOX" {
		t.Errorf("limiting item = %s, want BOX", insufficient.Item)
	}

	if _, err := svc.Assemble(combo.ID, wh.ID, 2, "", 1); err != nil {
		t.Fatalf("Assemble(2) failed: %v", err)
	}
	recBox := getStock(t, db, box.ID, wh.ID)
	if recBox.Finished != 1 {
		t.Errorf("BOX finished = %d, want 1", recBox.Finished)
	}
}

func TestAssembleWithoutComponents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	combo := testutil.CreateCombo(t, db, "EMPTY", nil, nil)

	svc := NewTransitionService(db)
	_, err := svc.Assemble(combo.ID, wh.ID, 1, "", 1)
	var missing *ConfigurationMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected ConfigurationMissingError, got %v", err)
	}
}

func TestShipCombo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemA := testutil.CreateProduct(t, db, "A", models.SaleTypeProduct)
	combo := testutil.CreateCombo(t, db, "C", map[uint]int{itemA.ID: 1}, nil)
	testutil.SeedStock(t, db, itemA.ID, wh.ID, 0, 4, 0, 0)

	svc := NewTransitionService(db)
	if _, err := svc.Assemble(combo.ID, wh.ID, 3, "", 1); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if _, err := svc.ShipCombo(combo.ID, wh.ID, 2, "", 1); err != nil {
		t.Fatalf("ShipCombo failed: %v", err)
	}

	rec := getComboStock(t, db, combo.ID, wh.ID)
	if rec.Finished != 1 || rec.Shipped != 2 {
		t.Errorf("finished=%d shipped=%d, want 1/2", rec.Finished, rec.Shipped)
	}

	_, err := svc.ShipCombo(combo.ID, wh.ID, 2, "", 1)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
}

func TestInvalidQuantityAndUnknownItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	product := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)

	svc := NewTransitionService(db)

	var invalidQty *InvalidQuantityError
	if _, err := svc.Receive(product.ID, wh.ID, 0, nil, "", 1); !errors.As(err, &invalidQty) {
		t.Errorf("Receive(0): expected InvalidQuantityError, got %v", err)
	}
	if _, err := svc.Ship(product.ID, wh.ID, -3, "", 1); !errors.As(err, &invalidQty) {
		t.Errorf("Ship(-3): expected InvalidQuantityError, got %v", err)
	}

	var unknown *UnknownItemError
	if _, err := svc.Receive(9999, wh.ID, 1, nil, "", 1); !errors.As(err, &unknown) {
		t.Errorf("unknown product: expected UnknownItemError, got %v", err)
	} else if unknown.Kind != "product" {
		t.Errorf("kind = %s, want product", unknown.Kind)
	}
	if _, err := svc.Receive(product.ID, 9999, 1, nil, "", 1); !errors.As(err, &unknown) {
		t.Errorf("unknown warehouse: expected UnknownItemError, got %v", err)
	}

	// nothing was committed
	if n := countTransactions(t, db); n != 0 {
		t.Errorf("transaction count = %d, want 0", n)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(&InsufficientStockError{}) {
		t.Error("InsufficientStockError must not be retryable")
	}
	if !IsRetryable(&ContentionTimeoutError{Operation: "PACKAGE"}) {
		t.Error("ContentionTimeoutError must be retryable")
	}
}

func TestTransactionListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	product := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)

	svc := NewTransitionService(db)
	if _, err := svc.Receive(product.ID, wh.ID, 10, nil, "", 1); err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if _, err := svc.ConfirmReceipt(product.ID, wh.ID, 10, nil, "", 1); err != nil {
		t.Fatalf("ConfirmReceipt failed: %v", err)
	}
	if _, err := svc.Ship(product.ID, wh.ID, 0, "", 1); err == nil {
		t.Fatal("Ship(0) must fail")
	}

	repo := repositories.NewTransactionRepository(db)
	rows, total, err := repo.List(repositories.TransactionFilter{ProductID: product.ID}, 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total = %d len = %d, want 2/2", total, len(rows))
	}

	_, total, err = repo.List(repositories.TransactionFilter{Type: models.TransitionReceive}, 1, 10)
	if err != nil {
		t.Fatalf("List by type failed: %v", err)
	}
	if total != 2 {
		t.Errorf("RECEIVE rows = %d, want 2 (receive and confirm share the type)", total)
	}
}

func TestConcurrentPackageNeverOversells(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	product := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	testutil.SeedStock(t, db, product.ID, wh.ID, 0, 10, 0, 0)

	svc := NewTransitionService(db)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Package(product.ID, wh.ID, 6, "", 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if !errors.As(err, new(*InsufficientStockError)) && !IsRetryable(err) {
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if succeeded > 1 {
		t.Fatalf("both concurrent packages succeeded over available stock")
	}

	rec := getStock(t, db, product.ID, wh.ID)
	if rec.SemiFinished < 0 {
		t.Fatalf("semi_finished went negative: %d", rec.SemiFinished)
	}
	if succeeded == 1 && (rec.SemiFinished != 4 || rec.Finished != 6) {
		t.Errorf("semi=%d finished=%d, want 4/6", rec.SemiFinished, rec.Finished)
	}
}
