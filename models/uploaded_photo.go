package models

import "gorm.io/gorm"

// UploadedPhoto is one processed upload. The files themselves live in storage.
type UploadedPhoto struct {
	ID                uint64 `gorm:"primaryKey"`
	CreatedAt         int64
	Filename          string    `gorm:"type:varchar(255);not null" validate:"required,max=255"`
	ProcessedFilename string    `gorm:"type:varchar(255);not null" validate:"required,max=255"`
	DetectedFaces     LabelList `gorm:"type:text;not null"`
}

func (p *UploadedPhoto) BeforeSave(tx *gorm.DB) error {
	if p.DetectedFaces == nil {
		p.DetectedFaces = LabelList{}
	}
	return validateRecord(p)
}
