package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

func (c *DashboardController) GetDashboard(ctx *fiber.Ctx) error {

	sql := `SELECT
		(SELECT COUNT(*) FROM products WHERE deleted_at IS NULL) AS total_products,
		(SELECT COUNT(*) FROM combo_products WHERE deleted_at IS NULL) AS total_combo_products,
		(SELECT COUNT(*) FROM warehouses WHERE deleted_at IS NULL) AS total_warehouses,
		(SELECT COUNT(*) FROM purchase_orders WHERE deleted_at IS NULL AND status <> 'completed') AS open_purchase_orders,
		(SELECT COALESCE(SUM(in_transit), 0) FROM stock_records) AS total_in_transit,
		(SELECT COALESCE(SUM(semi_finished), 0) FROM stock_records) AS total_semi_finished,
		(SELECT COALESCE(SUM(finished), 0) FROM stock_records) AS total_finished,
		(SELECT COALESCE(SUM(shipped), 0) FROM stock_records) AS total_shipped`

	var stats struct {
		TotalProducts      int `json:"total_products"`
		TotalComboProducts int `json:"total_combo_products"`
		TotalWarehouses    int `json:"total_warehouses"`
		OpenPurchaseOrders int `json:"open_purchase_orders"`
		TotalInTransit     int `json:"total_in_transit"`
		TotalSemiFinished  int `json:"total_semi_finished"`
		TotalFinished      int `json:"total_finished"`
		TotalShipped       int `json:"total_shipped"`
	}

	if err := c.DB.Raw(sql).Scan(&stats).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var recent []struct {
		ID          int64  `json:"id"`
		Type        string `json:"type"`
		FromStatus  string `json:"from_status"`
		ToStatus    string `json:"to_status"`
		Quantity    int    `json:"quantity"`
		WarehouseID uint   `json:"warehouse_id"`
		CreatedAt   string `json:"created_at"`
	}
	sqlRecent := `SELECT id, type, from_status, to_status, quantity, warehouse_id, created_at
		FROM stock_transactions ORDER BY created_at DESC LIMIT 10`
	if err := c.DB.Raw(sqlRecent).Scan(&recent).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dashboard found",
		"data": fiber.Map{
			"stats":               stats,
			"recent_transactions": recent,
		},
	})
}
