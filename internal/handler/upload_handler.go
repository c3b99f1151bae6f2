package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/pkg/storage"
)

// Max upload size: 10MB, enough for a phone photo of an INE credential
const maxUploadSize = 10 << 20

// Accepted credential scan formats
var allowedIneTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

// UploadHandler handles document upload endpoints
type UploadHandler struct {
	storage *storage.MinIOStorage
}

func NewUploadHandler(storage *storage.MinIOStorage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// UploadIne godoc
// @Summary Upload an INE credential scan
// @Description Stores the scan and returns its public URL for the user's ine_url field
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Credential scan (jpg, png, webp, heic or pdf)"
// @Success 200 {object} model.UploadResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 413 {object} model.ErrorResponse
// @Router /upload/ine [post]
func (h *UploadHandler) UploadIne(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "File storage is not available"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "File too large (max 10MB)"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "File is required", Message: err.Error()})
		return
	}
	defer file.Close()

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if !allowedIneTypes[contentType] {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Unsupported file type",
			Message: "Allowed: jpg, png, webp, heic, pdf",
		})
		return
	}

	result, err := h.storage.Upload(c.Request.Context(), file, header, "ine")
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to upload file", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.UploadResponse{
		URL:      result.URL,
		FileName: result.FileName,
		FileSize: result.FileSize,
		MimeType: result.MimeType,
	})
}

// DeleteIne godoc
// @Summary Delete an INE credential scan by its public URL
// @Tags Upload
// @Produce json
// @Security BearerAuth
// @Param url query string true "Public URL returned by the upload"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /upload/ine [delete]
func (h *UploadHandler) DeleteIne(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "File storage is not available"})
		return
	}

	key, ok := h.storage.ObjectKeyFromURL(c.Query("url"))
	if !ok {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "url does not point into the document bucket"})
		return
	}

	if err := h.storage.Delete(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to delete file", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Archivo eliminado"})
}
