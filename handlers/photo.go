package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"

	"facetag/models"
	"facetag/storage"
	"facetag/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UploadPhotoRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

type PhotosRequest struct {
	Person string `form:"person"`
}

type ProcessedRequest struct {
	Size uint `form:"size" binding:"omitempty,min=16,max=4096"`
}

// PhotoInfo is a photo record. DetectedFaces holds the JSON encoded label list as a string.
type PhotoInfo struct {
	ID                uint64 `json:"id"`
	Filename          string `json:"filename"`
	ProcessedFilename string `json:"processed_filename"`
	DetectedFaces     string `json:"detected_faces"`
}

func photoInfo(p *models.UploadedPhoto) PhotoInfo {
	return PhotoInfo{
		ID:                p.ID,
		Filename:          p.Filename,
		ProcessedFilename: p.ProcessedFilename,
		DetectedFaces:     p.DetectedFaces.String(),
	}
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	r := UploadPhotoRequest{}
	if err := c.ShouldBindWith(&r, binding.FormMultipart); err != nil {
		badRequest(c, err)
		return
	}
	data, err := h.readUpload(r.File)
	if err != nil {
		h.respondError(c, err)
		return
	}
	photo, err := h.service.ProcessPhoto(c.Request.Context(), r.File.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	info := photoInfo(photo)
	h.hub.Broadcast(WSMessage{Type: WSMessageTypePhoto, Photo: &info})
	c.JSON(http.StatusOK, info)
}

func (h *Handler) Photos(c *gin.Context) {
	r := PhotosRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		badRequest(c, err)
		return
	}
	photos, err := h.store.ListPhotos(c.Request.Context(), r.Person)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result := make([]PhotoInfo, 0, len(photos))
	for i := range photos {
		result = append(result, photoInfo(&photos[i]))
	}
	c.JSON(http.StatusOK, result)
}

// Processed serves an annotated image, or a JPEG thumbnail of it when size is given
func (h *Handler) Processed(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || utils.SanitizeName(filename) != filename {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	r := ProcessedRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		badRequest(c, err)
		return
	}
	path := h.service.ProcessedPath(filename)
	exists, err := h.storage.Exists(path)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !exists {
		h.respondError(c, storage.ErrNotFound)
		return
	}
	if r.Size == 0 {
		h.storage.Serve(path, c.Request, c.Writer)
		return
	}
	original := bytes.Buffer{}
	if _, err = h.storage.Load(path, &original); err != nil {
		h.respondError(c, err)
		return
	}
	thumb := bytes.Buffer{}
	if _, err = utils.CreateThumb(r.Size, h.quality, &original, &thumb); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", thumb.Bytes())
}
