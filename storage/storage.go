package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"facetag/config"
)

var ErrNotFound = errors.New("file not found")

// StorageAPI stores original uploads and annotated images under relative paths
// like "uploads/<uuid>_photo.jpg"
type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Exists(path string) (bool, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

// New creates the storage configured by STORAGE_TYPE and pre-creates the given folders
func New(cfg *config.Config, folders ...string) (StorageAPI, error) {
	bucket := BucketFromConfig(cfg)
	switch bucket.StorageType {
	case config.StorageTypeFile:
		if err := bucket.Create(folders...); err != nil {
			return nil, err
		}
		return NewDiskStorage(bucket), nil
	case config.StorageTypeS3:
		return NewS3Storage(bucket)
	}
	return nil, fmt.Errorf("storage type %q unavailable", bucket.StorageType)
}
