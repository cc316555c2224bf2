package repositories

import (
	"stock-app/models"

	"gorm.io/gorm"
)

// BomRepository loads the packaging requirement and combo composition tables.
// Declaration order is the insert order (ascending id); the availability
// calculator relies on it to break limiting-factor ties.
type BomRepository struct {
	db *gorm.DB
}

func NewBomRepository(db *gorm.DB) *BomRepository {
	return &BomRepository{db: db}
}

func (r *BomRepository) GetPackagingRequirements(productID uint) ([]models.PackagingRequirement, error) {
	var reqs []models.PackagingRequirement
	err := r.db.Preload("Packaging").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *BomRepository) GetComboComponents(comboProductID uint) ([]models.ComboComponent, error) {
	var components []models.ComboComponent
	err := r.db.Preload("BaseProduct").
		Where("combo_product_id = ?", comboProductID).
		Order("id ASC").
		Find(&components).Error
	return components, err
}

func (r *BomRepository) GetComboPackaging(comboProductID uint) ([]models.ComboPackagingRequirement, error) {
	var reqs []models.ComboPackagingRequirement
	err := r.db.Preload("Packaging").
		Where("combo_product_id = ?", comboProductID).
		Order("id ASC").
		Find(&reqs).Error
	return reqs, err
}

// ReplacePackagingRequirements swaps the full packaging configuration of one
// product. Reconfiguration never rewrites historical transactions; it only
// affects transitions from this point on.
func (r *BomRepository) ReplacePackagingRequirements(productID uint, reqs []models.PackagingRequirement, actor int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.PackagingRequirement{}).Error; err != nil {
			return err
		}
		for i := range reqs {
			reqs[i].ID = 0
			reqs[i].ProductID = productID
			reqs[i].CreatedBy = actor
			if err := tx.Create(&reqs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
