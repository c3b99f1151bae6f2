package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
	"github.com/armandomtz/fraccionet/internal/service"
)

// NotificationHandler handles push tokens, manual sends and the vigencia
// trigger plus its debug surfaces
type NotificationHandler struct {
	notifService    *service.NotificationService
	vigenciaService *service.VigenciaService
	paymentRepo     *repository.PaymentRepository
	loc             *time.Location
	daysAhead       int
}

func NewNotificationHandler(
	notifService *service.NotificationService,
	vigenciaService *service.VigenciaService,
	paymentRepo *repository.PaymentRepository,
	loc *time.Location,
	daysAhead int,
) *NotificationHandler {
	return &NotificationHandler{
		notifService:    notifService,
		vigenciaService: vigenciaService,
		paymentRepo:     paymentRepo,
		loc:             loc,
		daysAhead:       daysAhead,
	}
}

// RegisterToken godoc
// @Summary Register a device push token
// @Description Tokens are keyed by value; re-registering reassigns the device
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body model.RegisterTokenRequest true "Token registration"
// @Success 200 {object} model.SuccessResponse
// @Router /notificaciones/token [post]
func (h *NotificationHandler) RegisterToken(c *gin.Context) {
	var req model.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.notifService.RegisterToken(req); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to register token"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Token registrado"})
}

// RemoveToken godoc
// @Summary Remove a device push token
// @Tags Notifications
// @Produce json
// @Param token path string true "Push token"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /notificaciones/token/{token} [delete]
func (h *NotificationHandler) RemoveToken(c *gin.Context) {
	if err := h.notifService.RemoveToken(c.Param("token")); err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Token not found"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Token eliminado"})
}

// SendNotification godoc
// @Summary Send an ad-hoc push notification
// @Description With no explicit tokens, the store is queried with the platform/user filters
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SendNotificationRequest true "Notification"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /notificaciones/enviar [post]
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var req model.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	sent, err := h.notifService.SendManual(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNoTokens) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to send notification"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{
		Message: "Notificación enviada",
		Data:    gin.H{"tokens_sent": sent},
	})
}

// RunVigencia godoc
// @Summary Manually trigger the vigencia reminder scan
// @Description daysAhead and dateISO are mutually exclusive; with neither, the configured look-ahead runs
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RunVigenciaRequest false "Trigger options"
// @Success 200 {object} service.VigenciaResult
// @Failure 400 {object} model.ErrorResponse
// @Router /cron/test-vigencia [post]
func (h *NotificationHandler) RunVigencia(c *gin.Context) {
	var req model.RunVigenciaRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
			return
		}
	}

	if req.DaysAhead != nil && req.DateISO != "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "daysAhead and dateISO are mutually exclusive"})
		return
	}

	var (
		result *service.VigenciaResult
		err    error
	)
	switch {
	case req.DateISO != "":
		result, err = h.vigenciaService.RunForDate(c.Request.Context(), req.DateISO, req.Kind)
	case req.DaysAhead != nil:
		result, err = h.vigenciaService.RunForDaysAhead(c.Request.Context(), *req.DaysAhead, req.Kind)
	default:
		result, err = h.vigenciaService.Run(c.Request.Context())
	}
	if err != nil {
		if errors.Is(err, service.ErrBadDate) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DebugVigencias godoc
// @Summary List payments whose vigencia falls in the upcoming window
// @Tags Debug
// @Produce json
// @Security BearerAuth
// @Param dias query int false "Days ahead (defaults to the scheduler's look-ahead)"
// @Success 200 {array} model.Payment
// @Router /debug/vigencias [get]
func (h *NotificationHandler) DebugVigencias(c *gin.Context) {
	dias := h.daysAhead
	if raw := c.Query("dias"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "dias must be a non-negative integer"})
			return
		}
		dias = parsed
	}

	now := time.Now().In(h.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	end := start.AddDate(0, 0, dias+1).Add(-time.Millisecond)

	payments, err := h.paymentRepo.ListByVigenciaWindow(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list vigencias"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// DebugTokens godoc
// @Summary List the registered push tokens of a user
// @Tags Debug
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} model.PushToken
// @Router /debug/tokens/{userId} [get]
func (h *NotificationHandler) DebugTokens(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	tokens, err := h.notifService.ListUserTokens(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list tokens"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}
