package repositories

import (
	"stock-app/controllers/idgen"
	"stock-app/models"
	"stock-app/types"

	"gorm.io/gorm"
)

// TransactionRepository appends to and reads the immutable stock transaction
// log. Rows are never updated or deleted.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append writes one transaction row inside the caller's database transaction
// and assigns its id.
func (r *TransactionRepository) Append(tx *gorm.DB, t *models.StockTransaction) error {
	if t.ID == 0 {
		t.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return tx.Create(t).Error
}

type TransactionFilter struct {
	WarehouseID    uint
	ProductID      uint
	ComboProductID uint
	Type           string
	BatchID        types.SnowflakeID
}

func (r *TransactionRepository) List(filter TransactionFilter, page, limit int) ([]models.StockTransaction, int64, error) {
	query := r.db.Model(&models.StockTransaction{})

	if filter.WarehouseID != 0 {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.ComboProductID != 0 {
		query = query.Where("combo_product_id = ?", filter.ComboProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.BatchID != 0 {
		query = query.Where("batch_id = ?", filter.BatchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.StockTransaction
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transactions).Error
	return transactions, total, err
}
