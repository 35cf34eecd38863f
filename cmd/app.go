package cmd

import (
	"fmt"

	"facetag/config"
	"facetag/db"
	"facetag/faces"
	"facetag/faces/dlib"
	"facetag/faces/opencv"
	"facetag/models"
	"facetag/processing"
	"facetag/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app holds everything a command needs, built from the configuration
type app struct {
	db         *gorm.DB
	store      *models.Store
	storage    storage.StorageAPI
	service    *processing.Service
	recognizer *dlib.Recognizer
}

// newApp connects to the database and storage. The dlib models are only loaded when
// withEncoder is set, listing commands don't need them.
func newApp(cfg *config.Config, log logrus.FieldLogger, withEncoder bool) (*app, error) {
	instance, err := db.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	a := &app{db: instance}
	if err = models.Migrate(instance); err != nil {
		a.close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	a.store = models.NewStore(instance)
	if a.storage, err = storage.New(cfg, cfg.UploadFolder, cfg.ProcessedFolder); err != nil {
		a.close()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	pipeline := &faces.Pipeline{
		Annotator: annotatorFor(cfg),
		Tolerance: cfg.Tolerance,
		Quality:   cfg.JPEGQuality,
	}
	if withEncoder {
		log.WithFields(logrus.Fields{"models": cfg.ModelsDir, "cnn": cfg.DetectCNN}).Info("Loading face recognition models")
		if a.recognizer, err = dlib.New(cfg.ModelsDir, cfg.DetectCNN); err != nil {
			a.close()
			return nil, err
		}
		pipeline.Encoder = a.recognizer
	}
	a.service = processing.NewService(cfg, a.store, a.storage, pipeline, log)
	return a, nil
}

func annotatorFor(cfg *config.Config) faces.Annotator {
	if cfg.Annotator == config.AnnotatorOpenCV {
		return opencv.Annotator{}
	}
	return faces.NativeAnnotator{}
}

func (a *app) ping() error {
	return db.Ping(a.db)
}

func (a *app) close() {
	if a.recognizer != nil {
		a.recognizer.Close()
	}
	if err := db.Close(a.db); err != nil {
		log.WithError(err).Warn("Closing database")
	}
}
