package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sg44_backend/internal/export"
	"sg44_backend/internal/middleware"
	"sg44_backend/internal/models"
	"sg44_backend/internal/services"
	"sg44_backend/internal/services/dto"
)

// AdminRegistrationHandler serves the payment reconciliation screens.
type AdminRegistrationHandler struct {
	*BaseHandler
	reconciliationService services.ReconciliationService
}

func NewAdminRegistrationHandler(base *BaseHandler, reconciliationService services.ReconciliationService) *AdminRegistrationHandler {
	return &AdminRegistrationHandler{
		BaseHandler:           base,
		reconciliationService: reconciliationService,
	}
}

func (h *AdminRegistrationHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	admin := rg.Group("/admin/registrations")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	{
		admin.GET("", h.List)
		admin.GET("/stats", h.Stats)
		admin.GET("/export.csv", h.ExportCSV)
		admin.PATCH("/:id/payment-status", h.UpdatePaymentStatus)
	}
}

func (h *AdminRegistrationHandler) UpdatePaymentStatus(c *gin.Context) {
	var req dto.PaymentStatusUpdate
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	out, err := h.reconciliationService.UpdatePaymentStatus(h.GetDB(c), h.GetActor(c), c.Param("id"), models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminRegistrationHandler) List(c *gin.Context) {
	var query dto.RegistrationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	out, err := h.reconciliationService.List(h.GetDB(c), h.GetActor(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminRegistrationHandler) Stats(c *gin.Context) {
	out, err := h.reconciliationService.Stats(h.GetDB(c), h.GetActor(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ExportCSV renders into memory first so that a failure still produces a
// JSON error instead of a truncated file.
func (h *AdminRegistrationHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reconciliationService.ExportCSV(h.GetDB(c), h.GetActor(c), &buf); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
