package controllers

import (
	"errors"

	"stock-app/middleware"
	"stock-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WarehouseController struct {
	DB *gorm.DB
}

func NewWarehouseController(db *gorm.DB) *WarehouseController {
	return &WarehouseController{DB: db}
}

func (ctrl *WarehouseController) GetAll(c *fiber.Ctx) error {
	var warehouses []models.Warehouse
	if err := ctrl.DB.Order("id ASC").Find(&warehouses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch warehouses",
		})
	}
	return c.JSON(fiber.Map{
		"data": warehouses,
	})
}

func (ctrl *WarehouseController) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var warehouse models.Warehouse
	if err := ctrl.DB.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Warehouse not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch warehouse",
		})
	}
	return c.JSON(fiber.Map{
		"data": warehouse,
	})
}

func (ctrl *WarehouseController) Create(c *fiber.Ctx) error {
	var warehouse models.Warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validator.New().Struct(warehouse); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	warehouse.CreatedBy = middleware.UserID(c)
	if err := ctrl.DB.Create(&warehouse).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create warehouse",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Warehouse created successfully",
		"data":    warehouse,
	})
}

func (ctrl *WarehouseController) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var warehouse models.Warehouse
	if err := ctrl.DB.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Warehouse not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch warehouse",
		})
	}

	var updateData models.Warehouse
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	warehouse.Code = updateData.Code
	warehouse.Name = updateData.Name
	warehouse.Address = updateData.Address
	warehouse.Remarks = updateData.Remarks
	warehouse.UpdatedBy = middleware.UserID(c)

	if err := ctrl.DB.Save(&warehouse).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update warehouse",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Warehouse updated successfully",
		"data":    warehouse,
	})
}

func (ctrl *WarehouseController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	var warehouse models.Warehouse
	if err := ctrl.DB.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Warehouse not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch warehouse",
		})
	}

	var count int64
	ctrl.DB.Model(&models.StockRecord{}).Where("warehouse_id = ?", warehouse.ID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Warehouse has stock records and cannot be deleted",
		})
	}

	warehouse.DeletedBy = middleware.UserID(c)
	ctrl.DB.Save(&warehouse)
	if err := ctrl.DB.Delete(&warehouse).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete warehouse",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Warehouse deleted successfully",
	})
}
