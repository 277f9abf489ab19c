package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sg44_backend/internal/middleware"
	"sg44_backend/internal/models"
	"sg44_backend/internal/services"
	"sg44_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)
	}

	admin := rg.Group("/admin/users")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	{
		admin.GET("", h.ListUsers)
		admin.PATCH("/:id/role", h.UpdateRole)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(h.GetDB(c), h.GetActor(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_Partial(c, &req, &req.Present) {
		return
	}

	user, err := h.userService.UpdateMe(h.GetDB(c), h.GetActor(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	users, err := h.userService.ListUsers(h.GetDB(c), h.GetActor(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(h.GetDB(c), h.GetActor(c), c.Param("id"), models.UserRole(req.Role))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
