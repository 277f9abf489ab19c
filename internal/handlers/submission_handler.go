package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sg44_backend/internal/services"
	"sg44_backend/internal/services/dto"
)

type SubmissionHandler struct {
	*BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(base *BaseHandler, submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       base,
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	subs := rg.Group("/submissions")
	subs.Use(requireAuth)
	{
		subs.POST("", h.Create)
		subs.GET("", h.List)
		subs.GET("/:id", h.Get)
		subs.PATCH("/:id", h.Patch)
	}
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	out, err := h.submissionService.Create(h.GetDB(c), h.GetActor(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *SubmissionHandler) List(c *gin.Context) {
	var query dto.SubmissionListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	out, err := h.submissionService.List(h.GetDB(c), h.GetActor(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	out, err := h.submissionService.Get(h.GetDB(c), h.GetActor(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *SubmissionHandler) Patch(c *gin.Context) {
	var req dto.SubmissionPatch
	if !h.BindAndValidate_Partial(c, &req, &req.Present) {
		return
	}

	out, err := h.submissionService.Patch(h.GetDB(c), h.GetActor(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
