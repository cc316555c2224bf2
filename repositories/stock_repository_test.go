package repositories

import (
	"testing"

	"stock-app/models"
	"stock-app/testutil"

	"gorm.io/gorm"
)

func TestLockOrCreateRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	product := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	repo := NewStockRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		rec, err := repo.LockOrCreateRecord(tx, product.ID, wh.ID)
		if err != nil {
			return err
		}
		if rec.InTransit != 0 || rec.SemiFinished != 0 || rec.Finished != 0 || rec.Shipped != 0 {
			t.Errorf("fresh record not zeroed: %+v", rec)
		}
		rec.InTransit = 9
		return repo.Save(tx, rec)
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	// the same pair resolves to the same row on the next lock
	err = db.Transaction(func(tx *gorm.DB) error {
		rec, err := repo.LockOrCreateRecord(tx, product.ID, wh.ID)
		if err != nil {
			return err
		}
		if rec.InTransit != 9 {
			t.Errorf("in_transit = %d, want 9", rec.InTransit)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	var count int64
	db.Model(&models.StockRecord{}).Count(&count)
	if count != 1 {
		t.Errorf("record count = %d, want 1", count)
	}
}

func TestLockRecordsSkipsMissingPairs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	p1 := testutil.CreateProduct(t, db, "X", models.SaleTypeProduct)
	p2 := testutil.CreateProduct(t, db, "Y", models.SaleTypeProduct)
	testutil.SeedStock(t, db, p1.ID, wh.ID, 0, 5, 0, 0)

	repo := NewStockRepository(db)
	err := db.Transaction(func(tx *gorm.DB) error {
		// duplicate ids collapse, missing pairs stay absent
		records, err := repo.LockRecords(tx, wh.ID, []uint{p2.ID, p1.ID, p1.ID})
		if err != nil {
			return err
		}
		if len(records) != 1 {
			t.Errorf("records = %d, want 1", len(records))
		}
		if rec := records[p1.ID]; rec == nil || rec.SemiFinished != 5 {
			t.Errorf("p1 record = %+v, want semi_finished 5", rec)
		}
		if records[p2.ID] != nil {
			t.Error("missing pair must be absent from result")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestLockComboRecordCreateFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.CreateWarehouse(t, db, "WH1")
	itemA := testutil.CreateProduct(t, db, "A", models.SaleTypeProduct)
	combo := testutil.CreateCombo(t, db, "C", map[uint]int{itemA.ID: 1}, nil)

	repo := NewStockRepository(db)
	err := db.Transaction(func(tx *gorm.DB) error {
		rec, err := repo.LockComboRecord(tx, combo.ID, wh.ID, false)
		if err != nil {
			return err
		}
		if rec != nil {
			t.Error("expected nil for absent record without create")
		}

		rec, err = repo.LockComboRecord(tx, combo.ID, wh.ID, true)
		if err != nil {
			return err
		}
		if rec == nil || rec.Finished != 0 {
			t.Errorf("created record = %+v, want zeroed", rec)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
