package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
)

// PaymentHandler handles maintenance fee payment endpoints
type PaymentHandler struct {
	paymentRepo *repository.PaymentRepository
}

func NewPaymentHandler(paymentRepo *repository.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{paymentRepo: paymentRepo}
}

// CreatePayment godoc
// @Summary Record a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreatePaymentRequest true "Payment"
// @Success 201 {object} model.Payment
// @Failure 400 {object} model.ErrorResponse
// @Router /pagos [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req model.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	status := req.Status
	if status == "" {
		status = "pagado"
	}

	payment := &model.Payment{
		UserID:          req.UserID,
		UserName:        req.UserName,
		Building:        req.Building,
		Apartment:       req.Apartment,
		PaymentType:     req.PaymentType,
		PaymentMethod:   req.PaymentMethod,
		Amount:          req.Amount,
		PaidAt:          paidAt,
		Vigencia:        req.Vigencia,
		Status:          status,
		ProcessedBy:     req.ProcessedBy,
		StripeReference: req.StripeReference,
	}
	if err := h.paymentRepo.Create(payment); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to record payment"})
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ListPayments godoc
// @Summary List every payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payment
// @Router /pagos [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListUserPayments godoc
// @Summary List one resident's payment history
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} model.Payment
// @Router /pagos/usuario/{userId} [get]
func (h *PaymentHandler) ListUserPayments(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	payments, err := h.paymentRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}
