package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sg44_backend/internal/middleware"
	"sg44_backend/internal/services"
	"sg44_backend/internal/services/dto"
)

type NewsHandler struct {
	*BaseHandler
	newsService services.NewsService
}

func NewNewsHandler(base *BaseHandler, newsService services.NewsService) *NewsHandler {
	return &NewsHandler{
		BaseHandler: base,
		newsService: newsService,
	}
}

func (h *NewsHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	news := rg.Group("/news")
	{
		news.GET("", h.List)
		news.GET("/:slug", h.Get)
	}

	admin := rg.Group("/admin/news")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	{
		admin.POST("", h.Create)
		admin.PUT("/:slug", h.Update)
		admin.DELETE("/:slug", h.Delete)
	}
}

func (h *NewsHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	out, err := h.newsService.List(h.GetDB(c), c.Query("category"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) Get(c *gin.Context) {
	out, err := h.newsService.Get(h.GetDB(c), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) Create(c *gin.Context) {
	var req dto.NewsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	out, err := h.newsService.Create(h.GetDB(c), h.GetActor(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *NewsHandler) Update(c *gin.Context) {
	var req dto.NewsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	out, err := h.newsService.Update(h.GetDB(c), h.GetActor(c), c.Param("slug"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.newsService.Delete(h.GetDB(c), h.GetActor(c), c.Param("slug")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
