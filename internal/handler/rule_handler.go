package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
)

// RuleHandler handles the reglamento endpoints
type RuleHandler struct {
	repo *repository.RuleRepository
}

func NewRuleHandler(repo *repository.RuleRepository) *RuleHandler {
	return &RuleHandler{repo: repo}
}

// CreateRule godoc
// @Summary Add a rule to the reglamento
// @Tags Rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RuleRequest true "Rule"
// @Success 201 {object} model.Rule
// @Router /reglas [post]
func (h *RuleHandler) CreateRule(c *gin.Context) {
	var req model.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	rule := &model.Rule{Text: req.Text, AdminID: req.AdminID}
	if err := h.repo.Create(rule); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to create rule"})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListRules godoc
// @Summary List the reglamento
// @Tags Rules
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Rule
// @Router /reglas [get]
func (h *RuleHandler) ListRules(c *gin.Context) {
	rules, err := h.repo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

// UpdateRule godoc
// @Summary Update a rule's text
// @Tags Rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rule ID"
// @Param body body model.RuleRequest true "New text"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reglas/{id} [put]
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid rule ID"})
		return
	}

	var req model.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.repo.Update(id, req.Text, req.AdminID); err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Rule not found"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Regla actualizada"})
}

// DeleteRule godoc
// @Summary Delete a rule
// @Tags Rules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rule ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reglas/{id} [delete]
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid rule ID"})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Rule not found"})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Regla eliminada"})
}
