package models

import (
	"time"

	"gorm.io/gorm"
)

// FileLog records receipt spreadsheets already handled by the processor so a
// file is never imported twice.
type FileLog struct {
	gorm.Model
	Filename     string `gorm:"unique;not null"`
	DateModified time.Time
}
