package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UploadKnownRequest struct {
	Name string                `form:"name" binding:"required,max=100"`
	File *multipart.FileHeader `form:"file" binding:"required"`
}

type UploadKnownResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
}

type KnownFaceInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) UploadKnown(c *gin.Context) {
	r := UploadKnownRequest{}
	if err := c.ShouldBindWith(&r, binding.FormMultipart); err != nil {
		badRequest(c, err)
		return
	}
	data, err := h.readUpload(r.File)
	if err != nil {
		h.respondError(c, err)
		return
	}
	face, err := h.service.RegisterKnownFace(c.Request.Context(), r.Name, data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.hub.Broadcast(WSMessage{Type: WSMessageTypeKnownFace, KnownFace: &KnownFaceInfo{face.ID, face.Name}})
	c.JSON(http.StatusOK, UploadKnownResponse{
		Message: "Known face saved",
		ID:      face.ID,
		Name:    face.Name,
	})
}

func (h *Handler) KnownFaces(c *gin.Context) {
	known, err := h.store.ListKnownFaces(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	result := make([]KnownFaceInfo, 0, len(known))
	for _, k := range known {
		result = append(result, KnownFaceInfo{k.ID, k.Name})
	}
	c.JSON(http.StatusOK, result)
}
