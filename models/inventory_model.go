package models

import (
	"stock-app/types"
	"time"

	"gorm.io/gorm"
)

// Stock status labels recorded on transactions.
const (
	StatusInTransit    = "IN_TRANSIT"
	StatusSemiFinished = "SEMI_FINISHED"
	StatusFinished     = "FINISHED"
	StatusShipped      = "SHIPPED"
)

// Transition types recorded on transactions.
const (
	TransitionReceive     = "RECEIVE"
	TransitionPackage     = "PACKAGE"
	TransitionUnpack      = "UNPACK"
	TransitionShip        = "SHIP"
	TransitionAssemble    = "ASSEMBLE"
	TransitionDisassemble = "DISASSEMBLE"
)

// StockRecord holds the four quantity buckets for one base product in one
// warehouse. Created lazily on first receipt, never deleted after that.
type StockRecord struct {
	gorm.Model
	ProductID    uint `json:"product_id" gorm:"not null;uniqueIndex:uq_stock_product_wh"`
	WarehouseID  uint `json:"warehouse_id" gorm:"not null;uniqueIndex:uq_stock_product_wh"`
	InTransit    int  `json:"in_transit" gorm:"default:0"`
	SemiFinished int  `json:"semi_finished" gorm:"default:0"`
	Finished     int  `json:"finished" gorm:"default:0"`
	Shipped      int  `json:"shipped" gorm:"default:0"`
}

// ComboStockRecord tracks a combo product in one warehouse. Combos are
// assembled from base stock, never received, so there is no in-transit or
// semi-finished bucket.
type ComboStockRecord struct {
	gorm.Model
	ComboProductID uint `json:"combo_product_id" gorm:"not null;uniqueIndex:uq_combo_stock_wh"`
	WarehouseID    uint `json:"warehouse_id" gorm:"not null;uniqueIndex:uq_combo_stock_wh"`
	Finished       int  `json:"finished" gorm:"default:0"`
	Shipped        int  `json:"shipped" gorm:"default:0"`
}

// StockTransaction is the append-only audit trail. Exactly one row is written
// per successful transition; rows are never updated or deleted. ProductID and
// ComboProductID are mutually exclusive.
type StockTransaction struct {
	ID             types.SnowflakeID  `json:"id" gorm:"primaryKey"`
	ProductID      *uint              `json:"product_id" gorm:"index:idx_stock_tx_product"`
	ComboProductID *uint              `json:"combo_product_id" gorm:"index"`
	WarehouseID    uint               `json:"warehouse_id" gorm:"not null;index:idx_stock_tx_product"`
	Type           string             `json:"type" gorm:"not null"`
	FromStatus     string             `json:"from_status"`
	ToStatus       string             `json:"to_status"`
	Quantity       int                `json:"quantity" gorm:"not null"`
	BatchID        *types.SnowflakeID `json:"batch_id" gorm:"index"`
	ReferenceID    *uint              `json:"reference_id"`
	Notes          string             `json:"notes" gorm:"size:500"`
	CreatedBy      int
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_stock_tx_product"`
}

// BatchShipment summarizes the successful lines of one batch ship action.
// Its lines are a 1:1 projection of the StockTransaction rows written with
// the same batch id.
type BatchShipment struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	BatchID       types.SnowflakeID `json:"batch_id" gorm:"uniqueIndex;not null"`
	WarehouseID   uint              `json:"warehouse_id" gorm:"not null"`
	TotalItems    int               `json:"total_items"`
	TotalQuantity int               `json:"total_quantity"`
	Notes         string            `json:"notes" gorm:"size:500"`
	CreatedBy     int
	CreatedAt     time.Time `json:"created_at"`

	Lines []BatchShipmentLine `json:"lines" gorm:"foreignKey:BatchShipmentID"`
}

type BatchShipmentLine struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	BatchShipmentID uint              `json:"batch_shipment_id" gorm:"index"`
	ProductID       *uint             `json:"product_id"`
	ComboProductID  *uint             `json:"combo_product_id"`
	Quantity        int               `json:"quantity"`
	TransactionID   types.SnowflakeID `json:"transaction_id"`
}
