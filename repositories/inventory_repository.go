package repositories

import (
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

type StockListRow struct {
	StockRecordID uint   `json:"stock_record_id"`
	ProductID     uint   `json:"product_id"`
	Sku           string `json:"sku"`
	ProductName   string `json:"product_name"`
	SaleType      string `json:"sale_type"`
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	InTransit     int    `json:"in_transit"`
	SemiFinished  int    `json:"semi_finished"`
	Finished      int    `json:"finished"`
	Shipped       int    `json:"shipped"`
}

func (r *InventoryRepository) GetStockList(warehouseID uint, search, saleType string, page, limit int) ([]StockListRow, int64, error) {
	query := r.db.Table("stock_records a").
		Select(`a.id as stock_record_id, a.product_id, b.sku, b.name as product_name, b.sale_type,
			a.warehouse_id, c.name as warehouse_name,
			a.in_transit, a.semi_finished, a.finished, a.shipped`).
		Joins("inner join products b on a.product_id = b.id").
		Joins("inner join warehouses c on a.warehouse_id = c.id").
		Where("b.deleted_at IS NULL")

	if warehouseID != 0 {
		query = query.Where("a.warehouse_id = ?", warehouseID)
	}
	if search != "" {
		query = query.Where("b.sku LIKE ? OR b.name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if saleType != "" {
		query = query.Where("b.sale_type = ?", saleType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []StockListRow
	offset := (page - 1) * limit
	err := query.Order("a.updated_at DESC").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}

type ComboStockListRow struct {
	StockRecordID  uint   `json:"stock_record_id"`
	ComboProductID uint   `json:"combo_product_id"`
	Sku            string `json:"sku"`
	ComboName      string `json:"combo_name"`
	WarehouseID    uint   `json:"warehouse_id"`
	WarehouseName  string `json:"warehouse_name"`
	Finished       int    `json:"finished"`
	Shipped        int    `json:"shipped"`
}

func (r *InventoryRepository) GetComboStockList(warehouseID uint, search string, page, limit int) ([]ComboStockListRow, int64, error) {
	query := r.db.Table("combo_stock_records a").
		Select(`a.id as stock_record_id, a.combo_product_id, b.sku, b.name as combo_name,
			a.warehouse_id, c.name as warehouse_name, a.finished, a.shipped`).
		Joins("inner join combo_products b on a.combo_product_id = b.id").
		Joins("inner join warehouses c on a.warehouse_id = c.id").
		Where("b.deleted_at IS NULL")

	if warehouseID != 0 {
		query = query.Where("a.warehouse_id = ?", warehouseID)
	}
	if search != "" {
		query = query.Where("b.sku LIKE ? OR b.name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ComboStockListRow
	offset := (page - 1) * limit
	err := query.Order("a.updated_at DESC").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}

type WarehouseSummary struct {
	WarehouseID        uint   `json:"warehouse_id"`
	WarehouseName      string `json:"warehouse_name"`
	TotalProducts      int    `json:"total_products"`
	TotalInTransit     int    `json:"total_in_transit"`
	TotalSemiFinished  int    `json:"total_semi_finished"`
	TotalFinished      int    `json:"total_finished"`
	TotalShipped       int    `json:"total_shipped"`
	TotalComboProducts int    `json:"total_combo_products"`
	TotalComboFinished int    `json:"total_combo_finished"`
	TotalComboShipped  int    `json:"total_combo_shipped"`
}

func (r *InventoryRepository) GetSummary() ([]WarehouseSummary, error) {
	sqlSummary := `select w.id as warehouse_id, w.name as warehouse_name,
	count(s.id) as total_products,
	coalesce(sum(s.in_transit), 0) as total_in_transit,
	coalesce(sum(s.semi_finished), 0) as total_semi_finished,
	coalesce(sum(s.finished), 0) as total_finished,
	coalesce(sum(s.shipped), 0) as total_shipped
	from warehouses w
	left join stock_records s on s.warehouse_id = w.id
	where w.deleted_at is null
	group by w.id, w.name
	order by w.id`

	var summaries []WarehouseSummary
	if err := r.db.Raw(sqlSummary).Scan(&summaries).Error; err != nil {
		return nil, err
	}

	sqlCombo := `select w.id as warehouse_id,
	count(s.id) as total_combo_products,
	coalesce(sum(s.finished), 0) as total_combo_finished,
	coalesce(sum(s.shipped), 0) as total_combo_shipped
	from warehouses w
	left join combo_stock_records s on s.warehouse_id = w.id
	where w.deleted_at is null
	group by w.id`

	type comboRow struct {
		WarehouseID        uint
		TotalComboProducts int
		TotalComboFinished int
		TotalComboShipped  int
	}
	var comboRows []comboRow
	if err := r.db.Raw(sqlCombo).Scan(&comboRows).Error; err != nil {
		return nil, err
	}

	comboByWarehouse := make(map[uint]comboRow, len(comboRows))
	for _, row := range comboRows {
		comboByWarehouse[row.WarehouseID] = row
	}
	for i := range summaries {
		if row, ok := comboByWarehouse[summaries[i].WarehouseID]; ok {
			summaries[i].TotalComboProducts = row.TotalComboProducts
			summaries[i].TotalComboFinished = row.TotalComboFinished
			summaries[i].TotalComboShipped = row.TotalComboShipped
		}
	}
	return summaries, nil
}
