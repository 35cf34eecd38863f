package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrInvalidRecord = errors.New("invalid record")

	validate = validator.New()
)

// Migrate creates or updates the tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&KnownFace{}, &UploadedPhoto{})
}

func validateRecord(record interface{}) error {
	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
