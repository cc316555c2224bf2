package controllers

import (
	"errors"
	"fmt"

	"stock-app/middleware"
	"stock-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ComboController struct {
	DB *gorm.DB
}

func NewComboController(db *gorm.DB) *ComboController {
	return &ComboController{DB: db}
}

type comboComponentRequest struct {
	BaseProductID uint `json:"base_product_id" validate:"required"`
	Quantity      int  `json:"quantity" validate:"required,gt=0"`
}

type comboPackagingRequest struct {
	PackagingID uint `json:"packaging_id" validate:"required"`
	Quantity    int  `json:"quantity" validate:"required,gt=0"`
}

type comboRequest struct {
	Sku        string                  `json:"sku" validate:"required"`
	Name       string                  `json:"name" validate:"required"`
	Remarks    string                  `json:"remarks"`
	Components []comboComponentRequest `json:"components" validate:"required,min=1,dive"`
	Packaging  []comboPackagingRequest `json:"packaging" validate:"dive"`
}

func (ctrl *ComboController) GetAll(c *fiber.Ctx) error {
	var combos []models.ComboProduct
	var total int64

	page, limit := pagination(c)
	search := c.Query("search", "")

	query := ctrl.DB.Model(&models.ComboProduct{})
	if search != "" {
		query = query.Where("sku LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Preload("Components.BaseProduct").
		Preload("PackagingRequirements.Packaging").
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&combos).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch combo products",
		})
	}

	return c.JSON(fiber.Map{
		"data": combos,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (ctrl *ComboController) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var combo models.ComboProduct
	err := ctrl.DB.Preload("Components.BaseProduct").
		Preload("PackagingRequirements.Packaging").
		First(&combo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Combo product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch combo product",
		})
	}
	return c.JSON(fiber.Map{
		"data": combo,
	})
}

func (ctrl *ComboController) validateLines(c *fiber.Ctx, req *comboRequest) error {
	for _, comp := range req.Components {
		var product models.Product
		if err := ctrl.DB.First(&product, comp.BaseProductID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Base product %d not found", comp.BaseProductID),
			})
		}
		if product.SaleType != models.SaleTypeProduct {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Product %s cannot be a combo component", product.Sku),
			})
		}
	}
	for _, pack := range req.Packaging {
		var product models.Product
		if err := ctrl.DB.First(&product, pack.PackagingID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Packaging product %d not found", pack.PackagingID),
			})
		}
		if product.SaleType != models.SaleTypePackaging {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Product %s is not a packaging item", product.Sku),
			})
		}
	}
	return nil
}

func (ctrl *ComboController) Create(c *fiber.Ctx) error {
	var req comboRequest
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
	if resp := ctrl.validateLines(c, &req); resp != nil {
		return resp
	}

	combo := models.ComboProduct{
		Sku:       req.Sku,
		Name:      req.Name,
		Remarks:   req.Remarks,
		CreatedBy: middleware.UserID(c),
	}
	for _, comp := range req.Components {
		combo.Components = append(combo.Components, models.ComboComponent{
			BaseProductID: comp.BaseProductID,
			Quantity:      comp.Quantity,
		})
	}
	for _, pack := range req.Packaging {
		combo.PackagingRequirements = append(combo.PackagingRequirements, models.ComboPackagingRequirement{
			PackagingID: pack.PackagingID,
			Quantity:    pack.Quantity,
		})
	}

	if err := ctrl.DB.Create(&combo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create combo product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Combo product created successfully",
		"data":    combo,
	})
}

// Update replaces the combo master data and its full BOM. Reconfiguration
// only affects future assemble and disassemble runs.
func (ctrl *ComboController) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var combo models.ComboProduct
	if err := ctrl.DB.First(&combo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Combo product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch combo product",
		})
	}

	var req comboRequest
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
	if resp := ctrl.validateLines(c, &req); resp != nil {
		return resp
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		combo.Sku = req.Sku
		combo.Name = req.Name
		combo.Remarks = req.Remarks
		combo.UpdatedBy = middleware.UserID(c)
		if err := tx.Save(&combo).Error; err != nil {
			return err
		}

		if err := tx.Where("combo_product_id = ?", combo.ID).Delete(&models.ComboComponent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("combo_product_id = ?", combo.ID).Delete(&models.ComboPackagingRequirement{}).Error; err != nil {
			return err
		}
		for _, comp := range req.Components {
			line := models.ComboComponent{
				ComboProductID: combo.ID,
				BaseProductID:  comp.BaseProductID,
				Quantity:       comp.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		for _, pack := range req.Packaging {
			line := models.ComboPackagingRequirement{
				ComboProductID: combo.ID,
				PackagingID:    pack.PackagingID,
				Quantity:       pack.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update combo product",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Combo product updated successfully",
	})
}

func (ctrl *ComboController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	var combo models.ComboProduct
	if err := ctrl.DB.First(&combo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Combo product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch combo product",
		})
	}

	var count int64
	ctrl.DB.Model(&models.ComboStockRecord{}).Where("combo_product_id = ?", combo.ID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Combo product has stock records and cannot be deleted",
		})
	}

	combo.DeletedBy = middleware.UserID(c)
	ctrl.DB.Save(&combo)
	if err := ctrl.DB.Delete(&combo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete combo product",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Combo product deleted successfully",
	})
}
