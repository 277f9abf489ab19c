package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sg44_backend/internal/services"
	"sg44_backend/internal/services/dto"
)

type RegistrationHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
}

func NewRegistrationHandler(base *BaseHandler, registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         base,
		registrationService: registrationService,
	}
}

func (h *RegistrationHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	regs := rg.Group("/registrations")
	regs.GET("/tickets", h.Tickets)

	authed := regs.Group("")
	authed.Use(requireAuth)
	{
		authed.POST("", h.Create)
		authed.GET("/me", h.GetMine)
		authed.PUT("/me", h.Upsert)
		authed.GET("/prefill", h.Prefill)
		authed.GET("/:id", h.GetByID)
		authed.PATCH("/:id", h.Patch)
	}
}

func (h *RegistrationHandler) Tickets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickets": h.registrationService.Tickets()})
}

func (h *RegistrationHandler) Prefill(c *gin.Context) {
	out, err := h.registrationService.Prefill(h.GetDB(c), h.GetActor(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RegistrationHandler) Create(c *gin.Context) {
	var req dto.RegistrationRequest
	if !h.BindAndValidate_Partial(c, &req, &req.Present) {
		return
	}

	out, err := h.registrationService.Create(h.GetDB(c), h.GetActor(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *RegistrationHandler) Upsert(c *gin.Context) {
	var req dto.RegistrationRequest
	if !h.BindAndValidate_Partial(c, &req, &req.Present) {
		return
	}

	result, err := h.registrationService.Upsert(h.GetDB(c), h.GetActor(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *RegistrationHandler) Patch(c *gin.Context) {
	var req dto.RegistrationPatch
	if !h.BindAndValidate_Partial(c, &req, &req.Present) {
		return
	}

	out, err := h.registrationService.Patch(h.GetDB(c), h.GetActor(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RegistrationHandler) GetMine(c *gin.Context) {
	out, err := h.registrationService.GetMine(h.GetDB(c), h.GetActor(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RegistrationHandler) GetByID(c *gin.Context) {
	out, err := h.registrationService.GetByID(h.GetDB(c), h.GetActor(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
