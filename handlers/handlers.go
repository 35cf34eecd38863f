package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"facetag/config"
	"facetag/faces"
	"facetag/models"
	"facetag/processing"
	"facetag/storage"
	"facetag/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	NoFaceResponse       = Response{"No face detected in the image"}
	NotFoundResponse     = Response{"Image not found"}
	InternalResponse     = Response{"Internal server error"}
	TooLargeResponse     = Response{"File too large"}
	InvalidImageResponse = Response{"Invalid image"}
)

// Processed files are never rewritten, their names are unique
const processedCacheTime = 86400

// Pinger reports whether the database is reachable
type Pinger func() error

type Handler struct {
	service   *processing.Service
	store     *models.Store
	storage   storage.StorageAPI
	ping      Pinger
	log       logrus.FieldLogger
	hub       *Hub
	upgrader  *websocket.Upgrader
	maxUpload int64
	quality   int
}

func New(cfg *config.Config, service *processing.Service, store *models.Store, storage storage.StorageAPI, ping Pinger, log logrus.FieldLogger) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		storage:   storage,
		ping:      ping,
		log:       log,
		hub:       NewHub(log),
		upgrader:  newUpgrader(cfg.CORSOrigins),
		maxUpload: int64(cfg.MaxUploadMB) << 20,
		quality:   cfg.JPEGQuality,
	}
}

// Routes registers all endpoints on r
func (h *Handler) Routes(r gin.IRouter) {
	r.POST("/upload-known", h.UploadKnown)
	r.GET("/known-faces", h.KnownFaces)
	r.POST("/upload-photo", h.UploadPhoto)
	r.GET("/photos", h.Photos)
	r.GET("/processed/:filename", utils.CacheControl(processedCacheTime), h.Processed)
	r.GET("/stats", h.Stats)
	r.GET("/health", h.Health)
	r.GET("/events", h.Events)
}

var errTooLarge = errors.New("upload too large")

func (h *Handler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.maxUpload {
		return nil, errTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUpload {
		return nil, errTooLarge
	}
	return data, nil
}

// respondError maps domain errors to status codes. Server errors are attached to the
// context for the request logger and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processing.ErrNoFaceDetected):
		c.JSON(http.StatusBadRequest, NoFaceResponse)
	case errors.Is(err, faces.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, InvalidImageResponse)
	case errors.Is(err, models.ErrInvalidRecord):
		c.JSON(http.StatusBadRequest, Response{err.Error()})
	case errors.Is(err, errTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, TooLargeResponse)
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, NotFoundResponse)
	case errors.Is(err, context.Canceled):
		c.Status(499) // client closed the connection
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, InternalResponse)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{fmt.Sprintf("Invalid request: %v", err)})
}
