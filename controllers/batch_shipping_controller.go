package controllers

import (
	"strconv"

	"stock-app/middleware"
	"stock-app/services"
	"stock-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BatchShippingController struct {
	DB *gorm.DB
}

func NewBatchShippingController(db *gorm.DB) *BatchShippingController {
	return &BatchShippingController{DB: db}
}

type batchShipRequest struct {
	WarehouseID uint                     `json:"warehouse_id" validate:"required"`
	Lines       []services.BatchShipLine `json:"lines" validate:"required,min=1,dive"`
	Notes       string                   `json:"notes"`
}

// Ship runs every line as its own shipment under one batch id and reports
// per-line outcomes. 207 signals a mix of successes and failures.
func (ctrl *BatchShippingController) Ship(c *fiber.Ctx) error {
	var req batchShipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validator.New().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewBatchShippingService(ctrl.DB)
	result, err := svc.ShipBatch(req.WarehouseID, req.Lines, req.Notes, middleware.UserID(c))
	if err != nil {
		return transitionError(c, err)
	}

	status := fiber.StatusOK
	if len(result.Failed) > 0 && len(result.Succeeded) > 0 {
		status = fiber.StatusMultiStatus
	} else if len(result.Succeeded) == 0 {
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{
		"data": result,
	})
}

// GetBatch returns the persisted summary of one batch.
func (ctrl *BatchShippingController) GetBatch(c *fiber.Ctx) error {
	batchID, err := strconv.ParseInt(c.Params("batch_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch id",
		})
	}

	svc := services.NewBatchShippingService(ctrl.DB)
	shipment, err := svc.GetBatch(types.SnowflakeID(batchID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch batch shipment",
		})
	}
	if shipment == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch shipment not found",
		})
	}

	return c.JSON(fiber.Map{
		"data": shipment,
	})
}
