package models

import "gorm.io/gorm"

type Supplier struct {
	gorm.Model
	Code          string `json:"code" gorm:"unique" validate:"required"`
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Remarks       string `json:"remarks"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}
