package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"facetag/config"
	"facetag/faces"
	"facetag/models"
	"facetag/storage"
	"facetag/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNoFaceDetected = errors.New("no face detected in the image")

const maxNameLength = 200

// Service runs the two write flows: registering a reference face and processing an uploaded photo
type Service struct {
	store           *models.Store
	storage         storage.StorageAPI
	pipeline        *faces.Pipeline
	log             logrus.FieldLogger
	uploadFolder    string
	processedFolder string
}

func NewService(cfg *config.Config, store *models.Store, storage storage.StorageAPI, pipeline *faces.Pipeline, log logrus.FieldLogger) *Service {
	return &Service{
		store:           store,
		storage:         storage,
		pipeline:        pipeline,
		log:             log,
		uploadFolder:    cfg.UploadFolder,
		processedFolder: cfg.ProcessedFolder,
	}
}

// RegisterKnownFace stores the first face found in the image under the given name.
// Nothing is persisted when the image contains no face.
func (s *Service) RegisterKnownFace(ctx context.Context, name string, data []byte) (*models.KnownFace, error) {
	descriptor, ok, err := s.pipeline.Describe(ctx, data)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoFaceDetected
	}
	face, err := s.store.AddKnownFace(ctx, name, descriptor)
	if err != nil {
		return nil, fmt.Errorf("saving known face: %w", err)
	}
	s.log.WithFields(logrus.Fields{"known_face_id": face.ID, "name": face.Name}).Info("Known face saved")
	return face, nil
}

// ProcessPhoto labels every face of the image against a snapshot of the known faces, then stores
// the original as "<uploads>/<uuid>_<name>", the annotated image as "<processed>/processed_<uuid>.jpg"
// and the photo record. A photo without faces is still stored, with an empty label list.
func (s *Service) ProcessPhoto(ctx context.Context, filename string, data []byte) (*models.UploadedPhoto, error) {
	known, err := s.store.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading known faces: %w", err)
	}
	result, err := s.pipeline.Process(ctx, data, known)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	name := utils.SanitizeName(filename)
	if len(name) > maxNameLength {
		name = name[len(name)-maxNameLength:]
	}
	originalName := id + "_" + name
	processedName := "processed_" + id + ".jpg"

	if _, err = s.storage.Save(s.OriginalPath(originalName), bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("saving original: %w", err)
	}
	if _, err = s.storage.Save(s.ProcessedPath(processedName), bytes.NewReader(result.Image)); err != nil {
		s.cleanup(s.OriginalPath(originalName))
		return nil, fmt.Errorf("saving processed image: %w", err)
	}
	labels := result.Labels()
	photo, err := s.store.RecordDetection(ctx, originalName, processedName, labels)
	if err != nil {
		s.cleanup(s.OriginalPath(originalName), s.ProcessedPath(processedName))
		return nil, fmt.Errorf("saving photo record: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"photo_id": photo.ID,
		"faces":    len(labels),
		"labels":   labels,
	}).Info("Photo processed")
	return photo, nil
}

// cleanup removes files of a photo that could not be recorded
func (s *Service) cleanup(paths ...string) {
	for _, p := range paths {
		if err := s.storage.Delete(p); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).WithField("path", p).Error("Removing orphaned file")
		}
	}
}

func (s *Service) OriginalPath(name string) string {
	return path.Join(s.uploadFolder, name)
}

func (s *Service) ProcessedPath(name string) string {
	return path.Join(s.processedFolder, name)
}
