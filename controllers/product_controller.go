package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"stock-app/middleware"
	"stock-app/models"
	"stock-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

func (ctrl *ProductController) GetAll(c *fiber.Ctx) error {
	var products []models.Product
	var total int64

	page, limit := pagination(c)
	search := c.Query("search", "")
	saleType := c.Query("sale_type", "")

	query := ctrl.DB.Model(&models.Product{})
	if search != "" {
		query = query.Where("sku LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if saleType != "" {
		query = query.Where("sale_type = ?", saleType)
	}
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch products",
		})
	}

	return c.JSON(fiber.Map{
		"data": products,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (ctrl *ProductController) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product
	if err := ctrl.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product",
		})
	}
	return c.JSON(fiber.Map{
		"data": product,
	})
}

func (ctrl *ProductController) Create(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validator.New().Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if product.SaleType == "" {
		product.SaleType = models.SaleTypeProduct
	}
	if product.SaleType != models.SaleTypeProduct && product.SaleType != models.SaleTypePackaging {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sale_type must be product or packaging",
		})
	}

	product.CreatedBy = middleware.UserID(c)
	if err := ctrl.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    product,
	})
}

func (ctrl *ProductController) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product
	if err := ctrl.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product",
		})
	}

	var updateData models.Product
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	product.Sku = updateData.Sku
	product.Name = updateData.Name
	product.Uom = updateData.Uom
	product.Remarks = updateData.Remarks
	if updateData.SaleType != "" {
		product.SaleType = updateData.SaleType
	}
	product.UpdatedBy = middleware.UserID(c)

	if err := ctrl.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"data":    product,
	})
}

func (ctrl *ProductController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product
	if err := ctrl.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product",
		})
	}

	var count int64
	ctrl.DB.Model(&models.StockRecord{}).Where("product_id = ?", product.ID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Product has stock records and cannot be deleted",
		})
	}

	product.DeletedBy = middleware.UserID(c)
	ctrl.DB.Save(&product)
	if err := ctrl.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// GetPackaging returns the packaging configuration of one product in
// declaration order.
func (ctrl *ProductController) GetPackaging(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product id",
		})
	}

	bomRepo := repositories.NewBomRepository(ctrl.DB)
	reqs, err := bomRepo.GetPackagingRequirements(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch packaging requirements",
		})
	}
	return c.JSON(fiber.Map{
		"data": reqs,
	})
}

type packagingLineRequest struct {
	PackagingID uint `json:"packaging_id" validate:"required"`
	Quantity    int  `json:"quantity" validate:"required,gt=0"`
}

type setPackagingRequest struct {
	Requirements []packagingLineRequest `json:"requirements" validate:"dive"`
}

// SetPackaging replaces the product's packaging configuration. History is
// untouched; only future package and unpack runs see the new configuration.
func (ctrl *ProductController) SetPackaging(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product id",
		})
	}

	var product models.Product
	if err := ctrl.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product",
		})
	}

	var req setPackagingRequest
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

	reqs := make([]models.PackagingRequirement, 0, len(req.Requirements))
	for _, line := range req.Requirements {
		var packaging models.Product
		if err := ctrl.DB.First(&packaging, line.PackagingID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Packaging product %d not found", line.PackagingID),
			})
		}
		if packaging.SaleType != models.SaleTypePackaging {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Product %s is not a packaging item", packaging.Sku),
			})
		}
		reqs = append(reqs, models.PackagingRequirement{
			PackagingID: line.PackagingID,
			Quantity:    line.Quantity,
		})
	}

	bomRepo := repositories.NewBomRepository(ctrl.DB)
	if err := bomRepo.ReplacePackagingRequirements(uint(id), reqs, middleware.UserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update packaging requirements",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Packaging requirements updated successfully",
	})
}

// ExportExcel writes the full product master as a spreadsheet.
func (ctrl *ProductController) ExportExcel(c *fiber.Ctx) error {
	var products []models.Product
	if err := ctrl.DB.Order("sku ASC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "SKU")
	f.SetCellValue(sheet, "B1", "Name")
	f.SetCellValue(sheet, "C1", "Sale Type")
	f.SetCellValue(sheet, "D1", "UOM")
	f.SetCellValue(sheet, "E1", "Remarks")

	for i, p := range products {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), p.Sku)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), p.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), p.SaleType)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), p.Uom)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), p.Remarks)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="products.xlsx"`)

	if err := f.Write(c.Response().BodyWriter()); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}

// ImportExcel bulk-creates products from an uploaded spreadsheet. Rows with
// an existing SKU are skipped, not updated.
func (ctrl *ProductController) ImportExcel(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file upload",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open uploaded file",
		})
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Excel file",
		})
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read Sheet1",
		})
	}

	userID := middleware.UserID(c)
	created, skipped := 0, 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 || row[0] == "" {
			continue
		}
		product := models.Product{
			Sku:       row[0],
			Name:      row[1],
			SaleType:  models.SaleTypeProduct,
			CreatedBy: userID,
		}
		if len(row) > 2 && row[2] == models.SaleTypePackaging {
			product.SaleType = models.SaleTypePackaging
		}
		if len(row) > 3 {
			product.Uom = row[3]
		}
		if len(row) > 4 {
			product.Remarks = row[4]
		}

		var existing models.Product
		if err := ctrl.DB.Where("sku = ?", product.Sku).First(&existing).Error; err == nil {
			skipped++
			continue
		}
		if err := ctrl.DB.Create(&product).Error; err != nil {
			skipped++
			continue
		}
		created++
	}

	return c.JSON(fiber.Map{
		"message": "Import finished",
		"created": created,
		"skipped": skipped,
	})
}
