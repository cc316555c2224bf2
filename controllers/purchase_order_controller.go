package controllers

import (
	"errors"
	"fmt"

	"stock-app/middleware"
	"stock-app/models"
	"stock-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PurchaseOrderController struct {
	DB *gorm.DB
}

func NewPurchaseOrderController(db *gorm.DB) *PurchaseOrderController {
	return &PurchaseOrderController{DB: db}
}

type purchaseOrderItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type purchaseOrderRequest struct {
	OrderNo     string                     `json:"order_no" validate:"required"`
	SupplierID  uint                       `json:"supplier_id" validate:"required"`
	WarehouseID uint                       `json:"warehouse_id" validate:"required"`
	Notes       string                     `json:"notes"`
	Items       []purchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (ctrl *PurchaseOrderController) GetAll(c *fiber.Ctx) error {
	var orders []models.PurchaseOrder
	var total int64

	page, limit := pagination(c)
	status := c.Query("status", "")

	query := ctrl.DB.Model(&models.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Preload("Supplier").Preload("Items.Product").
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch purchase orders",
		})
	}

	return c.JSON(fiber.Map{
		"data": orders,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (ctrl *PurchaseOrderController) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var order models.PurchaseOrder
	err := ctrl.DB.Preload("Supplier").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Purchase order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch purchase order",
		})
	}
	return c.JSON(fiber.Map{
		"data": order,
	})
}

// Create persists the purchase order and books every ordered quantity into
// the in-transit bucket.
func (ctrl *PurchaseOrderController) Create(c *fiber.Ctx) error {
	var req purchaseOrderRequest
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

	var supplier models.Supplier
	if err := ctrl.DB.First(&supplier, req.SupplierID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Supplier not found",
		})
	}
	var warehouse models.Warehouse
	if err := ctrl.DB.First(&warehouse, req.WarehouseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Warehouse not found",
		})
	}
	for _, item := range req.Items {
		var product models.Product
		if err := ctrl.DB.First(&product, item.ProductID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Product %d not found", item.ProductID),
			})
		}
	}

	userID := middleware.UserID(c)
	order := models.PurchaseOrder{
		OrderNo:     req.OrderNo,
		SupplierID:  req.SupplierID,
		WarehouseID: req.WarehouseID,
		Status:      models.OrderStatusPending,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.PurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if err := ctrl.DB.Create(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create purchase order",
		})
	}

	svc := services.NewTransitionService(ctrl.DB)
	for _, item := range order.Items {
		refID := order.ID
		notes := fmt.Sprintf("PO %s", order.OrderNo)
		if _, err := svc.Receive(item.ProductID, order.WarehouseID, item.Quantity, &refID, notes, userID); err != nil {
			return transitionError(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Purchase order created successfully",
		"data":    order,
	})
}

type receiveItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type receiveRequest struct {
	Items []receiveItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Receive confirms arrival of ordered quantity: in transit moves to semi
// finished and the order status follows the received totals.
func (ctrl *PurchaseOrderController) Receive(c *fiber.Ctx) error {
	id := c.Params("id")
	var order models.PurchaseOrder
	if err := ctrl.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Purchase order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch purchase order",
		})
	}
	if order.Status == models.OrderStatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Purchase order is already completed",
		})
	}

	var req receiveRequest
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

	itemsByProduct := make(map[uint]*models.PurchaseOrderItem, len(order.Items))
	for i := range order.Items {
		itemsByProduct[order.Items[i].ProductID] = &order.Items[i]
	}
	for _, line := range req.Items {
		item, ok := itemsByProduct[line.ProductID]
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Product %d is not on this purchase order", line.ProductID),
			})
		}
		if item.ReceivedQuantity+line.Quantity > item.Quantity {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Receiving %d exceeds ordered quantity for product %d", line.Quantity, line.ProductID),
			})
		}
	}

	userID := middleware.UserID(c)
	svc := services.NewTransitionService(ctrl.DB)
	for _, line := range req.Items {
		refID := order.ID
		notes := fmt.Sprintf("PO %s receipt", order.OrderNo)
		if _, err := svc.ConfirmReceipt(line.ProductID, order.WarehouseID, line.Quantity, &refID, notes, userID); err != nil {
			return transitionError(c, err)
		}
		item := itemsByProduct[line.ProductID]
		item.ReceivedQuantity += line.Quantity
		if err := ctrl.DB.Save(item).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update purchase order item",
			})
		}
	}

	completed := true
	received := false
	for _, item := range order.Items {
		if item.ReceivedQuantity > 0 {
			received = true
		}
		if item.ReceivedQuantity < item.Quantity {
			completed = false
		}
	}
	switch {
	case completed:
		order.Status = models.OrderStatusCompleted
	case received:
		order.Status = models.OrderStatusPartial
	}
	order.UpdatedBy = userID
	if err := ctrl.DB.Save(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update purchase order",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Receipt confirmed",
		"data":    order,
	})
}
