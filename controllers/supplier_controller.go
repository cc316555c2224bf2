package controllers

import (
	"errors"

	"stock-app/middleware"
	"stock-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupplierController struct {
	DB *gorm.DB
}

func NewSupplierController(db *gorm.DB) *SupplierController {
	return &SupplierController{DB: db}
}

func (ctrl *SupplierController) GetAll(c *fiber.Ctx) error {
	var suppliers []models.Supplier
	var total int64

	page, limit := pagination(c)
	search := c.Query("search", "")

	query := ctrl.DB.Model(&models.Supplier{})
	if search != "" {
		query = query.Where("code LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&suppliers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch suppliers",
		})
	}

	return c.JSON(fiber.Map{
		"data": suppliers,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (ctrl *SupplierController) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var supplier models.Supplier
	if err := ctrl.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Supplier not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch supplier",
		})
	}
	return c.JSON(fiber.Map{
		"data": supplier,
	})
}

func (ctrl *SupplierController) Create(c *fiber.Ctx) error {
	var supplier models.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validator.New().Struct(supplier); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	supplier.CreatedBy = middleware.UserID(c)
	if err := ctrl.DB.Create(&supplier).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create supplier",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Supplier created successfully",
		"data":    supplier,
	})
}

func (ctrl *SupplierController) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var supplier models.Supplier
	if err := ctrl.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Supplier not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch supplier",
		})
	}

	var updateData models.Supplier
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	supplier.Code = updateData.Code
	supplier.Name = updateData.Name
	supplier.ContactPerson = updateData.ContactPerson
	supplier.Phone = updateData.Phone
	supplier.Email = updateData.Email
	supplier.Address = updateData.Address
	supplier.Remarks = updateData.Remarks
	supplier.UpdatedBy = middleware.UserID(c)

	if err := ctrl.DB.Save(&supplier).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update supplier",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Supplier updated successfully",
		"data":    supplier,
	})
}

func (ctrl *SupplierController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	var supplier models.Supplier
	if err := ctrl.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Supplier not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch supplier",
		})
	}

	supplier.DeletedBy = middleware.UserID(c)
	ctrl.DB.Save(&supplier)
	if err := ctrl.DB.Delete(&supplier).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete supplier",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Supplier deleted successfully",
	})
}
