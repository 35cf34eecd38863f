package models

import (
	"context"

	"facetag/faces"

	"gorm.io/gorm"
)

// Store persists reference faces and processed photo records
type Store struct {
	db *gorm.DB
}

type Stats struct {
	KnownFaces    int64 `json:"known_faces"`
	TotalPhotos   int64 `json:"total_photos"`
	UnknownPhotos int64 `json:"unknown_faces"` // photos with at least one "Unknown" face
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AddKnownFace(ctx context.Context, name string, descriptor faces.Descriptor) (*KnownFace, error) {
	face := KnownFace{
		Name:     name,
		Encoding: Encoding(descriptor),
	}
	if err := s.db.WithContext(ctx).Create(&face).Error; err != nil {
		return nil, err
	}
	return &face, nil
}

// ListKnownFaces returns every reference face in insertion (id) order
func (s *Store) ListKnownFaces(ctx context.Context) (result []KnownFace, err error) {
	err = s.db.WithContext(ctx).Order("id ASC").Find(&result).Error
	return
}

// References takes a snapshot of the reference faces in the order used for first-match labeling.
// It is a single SELECT, so a concurrent registration is either fully in or fully out.
func (s *Store) References(ctx context.Context) ([]faces.Reference, error) {
	known, err := s.ListKnownFaces(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]faces.Reference, len(known))
	for i := range known {
		result[i] = known[i].Reference()
	}
	return result, nil
}

func (s *Store) RecordDetection(ctx context.Context, filename, processedFilename string, labels []string) (*UploadedPhoto, error) {
	photo := UploadedPhoto{
		Filename:          filename,
		ProcessedFilename: processedFilename,
		DetectedFaces:     LabelList(labels),
	}
	if err := s.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// ListPhotos returns photo records in id order. A non empty person filters on a plain substring
// of the serialized label list, so "Al" also returns photos of "Alice" and "Alan".
func (s *Store) ListPhotos(ctx context.Context, person string) (result []UploadedPhoto, err error) {
	tx := s.db.WithContext(ctx).Order("id ASC")
	if person != "" {
		tx = tx.Where("INSTR(detected_faces, ?) > 0", person)
	}
	err = tx.Find(&result).Error
	return
}

func (s *Store) Stats(ctx context.Context) (stats Stats, err error) {
	tx := s.db.WithContext(ctx)
	if err = tx.Model(&KnownFace{}).Count(&stats.KnownFaces).Error; err != nil {
		return
	}
	if err = tx.Model(&UploadedPhoto{}).Count(&stats.TotalPhotos).Error; err != nil {
		return
	}
	unknown := LabelList{faces.UnknownLabel}.String() // ["Unknown"]
	unknown = unknown[1 : len(unknown)-1]              // "Unknown" with its quotes
	err = tx.Model(&UploadedPhoto{}).Where("INSTR(detected_faces, ?) > 0", unknown).Count(&stats.UnknownPhotos).Error
	return
}
