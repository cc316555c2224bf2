package controllers

import (
	"fmt"
	"strconv"

	"stock-app/middleware"
	"stock-app/models"
	"stock-app/repositories"
	"stock-app/services"
	"stock-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

type transitionRequest struct {
	ProductID   uint   `json:"product_id" validate:"required"`
	WarehouseID uint   `json:"warehouse_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required"`
	Notes       string `json:"notes"`
}

type comboTransitionRequest struct {
	ComboProductID uint   `json:"combo_product_id" validate:"required"`
	WarehouseID    uint   `json:"warehouse_id" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required"`
	Notes          string `json:"notes"`
}

func parseTransitionRequest(ctx *fiber.Ctx) (*transitionRequest, error) {
	var req transitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validator.New().Struct(req); err != nil {
		return nil, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return &req, nil
}

func parseComboTransitionRequest(ctx *fiber.Ctx) (*comboTransitionRequest, error) {
	var req comboTransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validator.New().Struct(req); err != nil {
		return nil, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return &req, nil
}

func transitionOK(ctx *fiber.Ctx, txID types.SnowflakeID) error {
	return ctx.JSON(fiber.Map{
		"success":        true,
		"transaction_id": txID,
	})
}

// Receive books arrived quantity into the in-transit bucket.
func (c *InventoryController) Receive(ctx *fiber.Ctx) error {
	req, errResp := parseTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.Receive(req.ProductID, req.WarehouseID, req.Quantity, nil, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

// ConfirmReceipt moves inspected quantity from in transit to semi finished.
func (c *InventoryController) ConfirmReceipt(ctx *fiber.Ctx) error {
	req, errResp := parseTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.ConfirmReceipt(req.ProductID, req.WarehouseID, req.Quantity, nil, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

func (c *InventoryController) Package(ctx *fiber.Ctx) error {
	req, errResp := parseTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.Package(req.ProductID, req.WarehouseID, req.Quantity, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

func (c *InventoryController) Unpack(ctx *fiber.Ctx) error {
	req, errResp := parseTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.Unpack(req.ProductID, req.WarehouseID, req.Quantity, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

func (c *InventoryController) Ship(ctx *fiber.Ctx) error {
	req, errResp := parseTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.Ship(req.ProductID, req.WarehouseID, req.Quantity, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

func (c *InventoryController) Assemble(ctx *fiber.Ctx) error {
	req, errResp := parseComboTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.Assemble(req.ComboProductID, req.WarehouseID, req.Quantity, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

func (c *InventoryController) Disassemble(ctx *fiber.Ctx) error {
	req, errResp := parseComboTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.Disassemble(req.ComboProductID, req.WarehouseID, req.Quantity, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

func (c *InventoryController) ShipCombo(ctx *fiber.Ctx) error {
	req, errResp := parseComboTransitionRequest(ctx)
	if req == nil {
		return errResp
	}
	svc := services.NewTransitionService(c.DB)
	txID, err := svc.ShipCombo(req.ComboProductID, req.WarehouseID, req.Quantity, req.Notes, middleware.UserID(ctx))
	if err != nil {
		return transitionError(ctx, err)
	}
	return transitionOK(ctx, txID)
}

// MaxQuantity answers how many units the given transition could move right
// now. Advisory only; the bound may change before the client acts on it.
func (c *InventoryController) MaxQuantity(ctx *fiber.Ctx) error {
	transition := ctx.Query("transition")
	productID, _ := strconv.Atoi(ctx.Query("product_id", "0"))
	comboProductID, _ := strconv.Atoi(ctx.Query("combo_product_id", "0"))
	warehouseID, _ := strconv.Atoi(ctx.Query("warehouse_id", "0"))

	if transition == "" || warehouseID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "transition and warehouse_id are required",
		})
	}

	svc := services.NewTransitionService(c.DB)
	max, factor, err := svc.MaxQuantity(transition, uint(productID), uint(comboProductID), uint(warehouseID))
	if err != nil {
		return transitionError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"max_quantity":    max,
		"limiting_factor": factor,
	})
}

// GetStock lists base product stock records with product and warehouse
// details.
func (c *InventoryController) GetStock(ctx *fiber.Ctx) error {
	page, limit := pagination(ctx)
	warehouseID, _ := strconv.Atoi(ctx.Query("warehouse_id", "0"))
	search := ctx.Query("search", "")
	saleType := ctx.Query("sale_type", "")

	repo := repositories.NewInventoryRepository(c.DB)
	rows, total, err := repo.GetStockList(uint(warehouseID), search, saleType, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stock",
		})
	}

	return ctx.JSON(fiber.Map{
		"data": rows,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetComboStock lists combo stock records. Each row carries an advisory
// available_to_assemble hint computed from current component stock.
func (c *InventoryController) GetComboStock(ctx *fiber.Ctx) error {
	page, limit := pagination(ctx)
	warehouseID, _ := strconv.Atoi(ctx.Query("warehouse_id", "0"))
	search := ctx.Query("search", "")

	repo := repositories.NewInventoryRepository(c.DB)
	rows, total, err := repo.GetComboStockList(uint(warehouseID), search, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch combo stock",
		})
	}

	type comboRow struct {
		repositories.ComboStockListRow
		AvailableToAssemble int `json:"available_to_assemble"`
	}

	svc := services.NewTransitionService(c.DB)
	enriched := make([]comboRow, 0, len(rows))
	for _, row := range rows {
		max, _, err := svc.MaxQuantity(models.TransitionAssemble, 0, row.ComboProductID, row.WarehouseID)
		if err != nil {
			max = 0
		}
		enriched = append(enriched, comboRow{ComboStockListRow: row, AvailableToAssemble: max})
	}

	return ctx.JSON(fiber.Map{
		"data": enriched,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (c *InventoryController) GetSummary(ctx *fiber.Ctx) error {
	repo := repositories.NewInventoryRepository(c.DB)
	summaries, err := repo.GetSummary()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch summary",
		})
	}
	return ctx.JSON(fiber.Map{
		"data": summaries,
	})
}

// GetTransactions lists the audit trail, newest first.
func (c *InventoryController) GetTransactions(ctx *fiber.Ctx) error {
	page, limit := pagination(ctx)

	warehouseID, _ := strconv.Atoi(ctx.Query("warehouse_id", "0"))
	productID, _ := strconv.Atoi(ctx.Query("product_id", "0"))
	comboProductID, _ := strconv.Atoi(ctx.Query("combo_product_id", "0"))
	batchID, _ := strconv.ParseInt(ctx.Query("batch_id", "0"), 10, 64)

	filter := repositories.TransactionFilter{
		WarehouseID:    uint(warehouseID),
		ProductID:      uint(productID),
		ComboProductID: uint(comboProductID),
		Type:           ctx.Query("type", ""),
		BatchID:        types.SnowflakeID(batchID),
	}

	repo := repositories.NewTransactionRepository(c.DB)
	transactions, total, err := repo.List(filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch transactions",
		})
	}

	return ctx.JSON(fiber.Map{
		"data": transactions,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// PackagingAvailability shows, for one product or combo, each required
// material with its current stock and the quantity it supports. Advisory,
// like MaxQuantity.
func (c *InventoryController) PackagingAvailability(ctx *fiber.Ctx) error {
	productID, _ := strconv.Atoi(ctx.Query("product_id", "0"))
	comboProductID, _ := strconv.Atoi(ctx.Query("combo_product_id", "0"))
	warehouseID, _ := strconv.Atoi(ctx.Query("warehouse_id", "0"))

	if warehouseID == 0 || (productID == 0) == (comboProductID == 0) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "warehouse_id and exactly one of product_id or combo_product_id are required",
		})
	}

	type availabilityLine struct {
		ProductID uint   `json:"product_id"`
		Sku       string `json:"sku"`
		Kind      string `json:"kind"` // component | packaging
		PerUnit   int    `json:"per_unit"`
		Available int    `json:"available"`
		Supports  int    `json:"supports"`
	}

	bomRepo := repositories.NewBomRepository(c.DB)
	stockRepo := repositories.NewStockRepository(c.DB)
	svc := services.NewTransitionService(c.DB)

	var lines []availabilityLine
	var transition string

	if productID != 0 {
		transition = models.TransitionPackage
		reqs, err := bomRepo.GetPackagingRequirements(uint(productID))
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		for _, r := range reqs {
			rec, err := stockRepo.GetRecord(r.PackagingID, uint(warehouseID))
			if err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			available := 0
			if rec != nil {
				available = rec.Finished
			}
			lines = append(lines, availabilityLine{
				ProductID: r.PackagingID,
				Sku:       r.Packaging.Sku,
				Kind:      "packaging",
				PerUnit:   r.Quantity,
				Available: available,
				Supports:  available / r.Quantity,
			})
		}
	} else {
		transition = models.TransitionAssemble
		components, err := bomRepo.GetComboComponents(uint(comboProductID))
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		packReqs, err := bomRepo.GetComboPackaging(uint(comboProductID))
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		for _, comp := range components {
			rec, err := stockRepo.GetRecord(comp.BaseProductID, uint(warehouseID))
			if err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			available := 0
			if rec != nil {
				available = rec.SemiFinished
			}
			lines = append(lines, availabilityLine{
				ProductID: comp.BaseProductID,
				Sku:       comp.BaseProduct.Sku,
				Kind:      "component",
				PerUnit:   comp.Quantity,
				Available: available,
				Supports:  available / comp.Quantity,
			})
		}
		for _, r := range packReqs {
			rec, err := stockRepo.GetRecord(r.PackagingID, uint(warehouseID))
			if err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			available := 0
			if rec != nil {
				available = rec.Finished
			}
			lines = append(lines, availabilityLine{
				ProductID: r.PackagingID,
				Sku:       r.Packaging.Sku,
				Kind:      "packaging",
				PerUnit:   r.Quantity,
				Available: available,
				Supports:  available / r.Quantity,
			})
		}
	}

	max, factor, err := svc.MaxQuantity(transition, uint(productID), uint(comboProductID), uint(warehouseID))
	if err != nil {
		return transitionError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"data": fiber.Map{
			"lines":           lines,
			"max_quantity":    max,
			"limiting_factor": factor,
		},
	})
}

// ExportExcel writes the current stock of one warehouse (or all) as a
// spreadsheet.
func (c *InventoryController) ExportExcel(ctx *fiber.Ctx) error {
	warehouseID, _ := strconv.Atoi(ctx.Query("warehouse_id", "0"))

	repo := repositories.NewInventoryRepository(c.DB)
	rows, _, err := repo.GetStockList(uint(warehouseID), "", "", 1, 100000)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Warehouse")
	f.SetCellValue(sheet, "B1", "SKU")
	f.SetCellValue(sheet, "C1", "Product Name")
	f.SetCellValue(sheet, "D1", "In Transit")
	f.SetCellValue(sheet, "E1", "Semi Finished")
	f.SetCellValue(sheet, "F1", "Finished")
	f.SetCellValue(sheet, "G1", "Shipped")

	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.WarehouseName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.Sku)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.InTransit)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), row.SemiFinished)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), row.Finished)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), row.Shipped)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}
