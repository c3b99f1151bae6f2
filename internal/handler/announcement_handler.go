package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
)

// AnnouncementHandler handles the anuncios board
type AnnouncementHandler struct {
	repo *repository.AnnouncementRepository
}

func NewAnnouncementHandler(repo *repository.AnnouncementRepository) *AnnouncementHandler {
	return &AnnouncementHandler{repo: repo}
}

// CreateAnnouncement godoc
// @Summary Publish an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.AnnouncementRequest true "Announcement"
// @Success 201 {object} model.Announcement
// @Failure 400 {object} model.ErrorResponse
// @Router /anuncios [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req model.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}
	if req.Kind == model.AnnouncementKindBuilding && req.BuildingName == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "building announcements require a building name"})
		return
	}

	a := &model.Announcement{
		Title:        req.Title,
		Content:      req.Content,
		Kind:         req.Kind,
		BuildingName: req.BuildingName,
		Scheduled:    req.Scheduled,
		ScheduledFor: req.ScheduledFor,
		AdminID:      req.AdminID,
	}
	if !a.Scheduled {
		now := time.Now()
		a.SentAt = &now
	}

	if err := h.repo.Create(a); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to create announcement"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListAnnouncements godoc
// @Summary List announcements, newest first
// @Tags Announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Announcement
// @Router /anuncios [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	list, err := h.repo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list announcements"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateAnnouncement godoc
// @Summary Update an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Param body body model.AnnouncementRequest true "Fields to update"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /anuncios/{id} [put]
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid announcement ID"})
		return
	}

	var req model.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	updates := map[string]interface{}{
		"title":         req.Title,
		"content":       req.Content,
		"kind":          req.Kind,
		"building_name": req.BuildingName,
		"scheduled":     req.Scheduled,
		"scheduled_for": req.ScheduledFor,
	}
	if err := h.repo.Update(id, updates); err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Announcement not found"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Anuncio actualizado"})
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags Announcements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /anuncios/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid announcement ID"})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Announcement not found"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Anuncio eliminado"})
}
