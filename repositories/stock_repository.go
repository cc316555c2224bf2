package repositories

import (
	"errors"
	"fmt"
	"time"

	"stock-app/models"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository owns the stock ledger rows. All counter mutations go
// through a transition's transaction; nothing outside the engine is allowed
// to read-modify-write the counters.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// SetLockTimeout bounds how long the transaction waits for contended rows.
// Only effective on postgres; other drivers fall back to their server-side
// defaults.
func (r *StockRepository) SetLockTimeout(tx *gorm.DB, timeout time.Duration) {
	if tx.Dialector.Name() == "postgres" {
		tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds()))
	}
}

// IsLockTimeout reports whether err is the driver's lock-wait-expired error.
func IsLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 55P03 lock_not_available, 40P01 deadlock_detected
		return pgErr.Code == "55P03" || pgErr.Code == "40P01"
	}
	return false
}

// LockRecords loads the stock records of the given products in one warehouse
// with SELECT ... FOR UPDATE. Rows are always locked in ascending product id
// order so overlapping transitions cannot deadlock each other. Products
// without a record are absent from the result; callers treat them as zero
// stock.
func (r *StockRepository) LockRecords(tx *gorm.DB, warehouseID uint, productIDs []uint) (map[uint]*models.StockRecord, error) {
	ids := slices.Clone(productIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	records := make(map[uint]*models.StockRecord, len(ids))
	for _, id := range ids {
		var rec models.StockRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", id, warehouseID).
			First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		records[id] = &rec
	}
	return records, nil
}

// LockOrCreateRecord locks the stock record for one product, creating a
// zeroed row first when the pair has never been seen. Records are created
// lazily on first receipt and never deleted afterwards.
func (r *StockRepository) LockOrCreateRecord(tx *gorm.DB, productID, warehouseID uint) (*models.StockRecord, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var rec models.StockRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
			First(&rec).Error
		if err == nil {
			return &rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		rec = models.StockRecord{ProductID: productID, WarehouseID: warehouseID}
		if err := tx.Create(&rec).Error; err != nil {
			// Lost the insert race, lock the winner's row on the next pass.
			continue
		}
		return &rec, nil
	}
	return nil, fmt.Errorf("failed to lock stock record for product %d", productID)
}

// LockComboRecord locks a combo stock record. With create set, a zeroed row
// is created when absent (assemble path); without it, absence means zero
// finished stock and the caller fails the precondition.
func (r *StockRepository) LockComboRecord(tx *gorm.DB, comboProductID, warehouseID uint, create bool) (*models.ComboStockRecord, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var rec models.ComboStockRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("combo_product_id = ? AND warehouse_id = ?", comboProductID, warehouseID).
			First(&rec).Error
		if err == nil {
			return &rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if !create {
			return nil, nil
		}

		rec = models.ComboStockRecord{ComboProductID: comboProductID, WarehouseID: warehouseID}
		if err := tx.Create(&rec).Error; err != nil {
			continue
		}
		return &rec, nil
	}
	return nil, fmt.Errorf("failed to lock combo stock record for combo %d", comboProductID)
}

// Save persists mutated counters inside the caller's transaction.
func (r *StockRepository) Save(tx *gorm.DB, rec interface{}) error {
	return tx.Save(rec).Error
}

// GetRecord returns an unlocked stock record, or nil when the pair has no
// record yet. Used for queries and advisory availability only.
func (r *StockRepository) GetRecord(productID, warehouseID uint) (*models.StockRecord, error) {
	var rec models.StockRecord
	err := r.db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetRecords returns unlocked stock records keyed by product id. Missing
// pairs are simply absent and read as zero stock.
func (r *StockRepository) GetRecords(warehouseID uint, productIDs []uint) (map[uint]models.StockRecord, error) {
	records := make(map[uint]models.StockRecord, len(productIDs))
	if len(productIDs) == 0 {
		return records, nil
	}

	var rows []models.StockRecord
	err := r.db.Where("warehouse_id = ? AND product_id IN ?", warehouseID, productIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rec := range rows {
		records[rec.ProductID] = rec
	}
	return records, nil
}

// GetComboRecord returns an unlocked combo stock record, or nil when absent.
func (r *StockRepository) GetComboRecord(comboProductID, warehouseID uint) (*models.ComboStockRecord, error) {
	var rec models.ComboStockRecord
	err := r.db.Where("combo_product_id = ? AND warehouse_id = ?", comboProductID, warehouseID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
