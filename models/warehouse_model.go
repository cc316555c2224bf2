package models

import "gorm.io/gorm"

type Warehouse struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	Remarks   string `json:"remarks"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}
