package models

import (
	"facetag/faces"

	"gorm.io/gorm"
)

// KnownFace is a registered reference face. Names are not unique.
type KnownFace struct {
	ID        uint64   `gorm:"primaryKey" json:"id"`
	CreatedAt int64    `json:"-"`
	Name      string   `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Encoding  Encoding `gorm:"type:text;not null" json:"-"`
}

func (k *KnownFace) BeforeSave(tx *gorm.DB) error {
	return validateRecord(k)
}

func (k *KnownFace) Reference() faces.Reference {
	return faces.Reference{
		Label:      k.Name,
		Descriptor: faces.Descriptor(k.Encoding),
	}
}
