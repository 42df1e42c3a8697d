package http

import (
	"net/http"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
	logger       *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{adminUseCase: adminUseCase, logger: logger}
}

type DeleteUsersRequest struct {
	Users []string `json:"users"`
}

type DeletePostsRequest struct {
	Posts []string `json:"posts"`
}

type UsersResponse struct {
	Success bool                   `json:"success"`
	Users   []entity.AdminUserView `json:"users"`
}

// GetUsers godoc
// @Summary      List users with post summaries
// @Tags         admin
// @Produce      json
// @Success      200  {object}  UsersResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/get-users [get]
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.adminUseCase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UsersResponse{Success: true, Users: users})
}

// GetAllPosts godoc
// @Summary      List every post, unlocked
// @Tags         admin
// @Produce      json
// @Success      200  {object}  PostsResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/get-all-posts [get]
func (h *AdminHandler) GetAllPosts(c *gin.Context) {
	posts, err := h.adminUseCase.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if posts == nil {
		posts = []entity.PostView{}
	}
	c.JSON(http.StatusOK, PostsResponse{Success: true, Posts: posts})
}

// DeleteUsers godoc
// @Summary      Delete users and their posts
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body DeleteUsersRequest true "User IDs"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/delete-users [delete]
func (h *AdminHandler) DeleteUsers(c *gin.Context) {
	var req DeleteUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.adminUseCase.DeleteUsers(c.Request.Context(), req.Users); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Users deleted successfully"})
}

// DeletePosts godoc
// @Summary      Delete posts
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body DeletePostsRequest true "Post IDs"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/delete-posts [delete]
func (h *AdminHandler) DeletePosts(c *gin.Context) {
	var req DeletePostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	deleted, err := h.adminUseCase.DeletePosts(c.Request.Context(), req.Posts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Posts deleted successfully",
		"deleted": deleted,
	})
}
