package services

import (
	"stock-app/controllers/idgen"
	"stock-app/models"
	"stock-app/types"

	"gorm.io/gorm"
)

// BatchShippingService ships many items under one batch id. Each line runs
// as its own transition so one short item never blocks the rest of the
// batch; the result reports successes and failures side by side.
type BatchShippingService struct {
	db          *gorm.DB
	transitions *TransitionService
}

func NewBatchShippingService(db *gorm.DB) *BatchShippingService {
	return &BatchShippingService{db: db, transitions: NewTransitionService(db)}
}

// BatchShipLine is one requested shipment. Exactly one of ProductID or
// ComboProductID must be set.
type BatchShipLine struct {
	ProductID      *uint `json:"product_id"`
	ComboProductID *uint `json:"combo_product_id" validate:"required_without=ProductID"`
	Quantity       int   `json:"quantity" validate:"required,gt=0"`
}

type BatchLineResult struct {
	ProductID      *uint             `json:"product_id,omitempty"`
	ComboProductID *uint             `json:"combo_product_id,omitempty"`
	Quantity       int               `json:"quantity"`
	TransactionID  types.SnowflakeID `json:"transaction_id"`
}

type BatchLineFailure struct {
	ProductID      *uint  `json:"product_id,omitempty"`
	ComboProductID *uint  `json:"combo_product_id,omitempty"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason"`
}

type BatchShipResult struct {
	BatchID   types.SnowflakeID  `json:"batch_id"`
	Succeeded []BatchLineResult  `json:"succeeded"`
	Failed    []BatchLineFailure `json:"failed"`
}

// ShipBatch ships every line independently under one freshly minted batch
// id. A BatchShipment record is persisted only when at least one line went
// through; it summarizes the successful lines only.
func (s *BatchShippingService) ShipBatch(warehouseID uint, lines []BatchShipLine, notes string, actor int) (*BatchShipResult, error) {
	if len(lines) == 0 {
		return nil, &InvalidQuantityError{Quantity: 0}
	}

	batchID := types.SnowflakeID(idgen.GenerateID())
	result := &BatchShipResult{BatchID: batchID}

	for _, line := range lines {
		var (
			txID types.SnowflakeID
			err  error
		)
		switch {
		case line.ProductID != nil:
			txID, err = s.transitions.shipProduct(*line.ProductID, warehouseID, line.Quantity, &batchID, notes, actor)
		case line.ComboProductID != nil:
			txID, err = s.transitions.shipCombo(*line.ComboProductID, warehouseID, line.Quantity, &batchID, notes, actor)
		default:
			err = &UnknownItemError{Kind: "product", ID: 0}
		}

		if err != nil {
			result.Failed = append(result.Failed, BatchLineFailure{
				ProductID:      line.ProductID,
				ComboProductID: line.ComboProductID,
				Quantity:       line.Quantity,
				Reason:         err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, BatchLineResult{
			ProductID:      line.ProductID,
			ComboProductID: line.ComboProductID,
			Quantity:       line.Quantity,
			TransactionID:  txID,
		})
	}

	if len(result.Succeeded) == 0 {
		return result, nil
	}

	shipment := models.BatchShipment{
		BatchID:     batchID,
		WarehouseID: warehouseID,
		TotalItems:  len(result.Succeeded),
		Notes:       notes,
		CreatedBy:   actor,
	}
	for _, ok := range result.Succeeded {
		shipment.TotalQuantity += ok.Quantity
		shipment.Lines = append(shipment.Lines, models.BatchShipmentLine{
			ProductID:      ok.ProductID,
			ComboProductID: ok.ComboProductID,
			Quantity:       ok.Quantity,
			TransactionID:  ok.TransactionID,
		})
	}
	if err := s.db.Create(&shipment).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetBatch returns the persisted summary of one batch, or nil when no line
// of that batch ever succeeded.
func (s *BatchShippingService) GetBatch(batchID types.SnowflakeID) (*models.BatchShipment, error) {
	var shipment models.BatchShipment
	err := s.db.Preload("Lines").Where("batch_id = ?", batchID).First(&shipment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}
