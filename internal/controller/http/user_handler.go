package http

import (
	"net/http"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *logger.Logger
}

func NewUserHandler(userUseCase usecase.UserUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{userUseCase: userUseCase, logger: logger}
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	IsOnboarded *bool   `json:"isOnboarded"`
}

type UserResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	User    *entity.UserView `json:"user"`
}

// GetUser godoc
// @Summary      Current user's profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /user/user [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userUseCase.GetProfile(c.Request.Context(), currentViewer(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{Success: true, Message: "User fetched successfully", User: user})
}

// UpdateUser godoc
// @Summary      Update name, email or onboarding flag
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /user/user [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userUseCase.UpdateProfile(c.Request.Context(), currentViewer(c).ID, usecase.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		IsOnboarded: req.IsOnboarded,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{Success: true, Message: "User updated successfully", User: user})
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Description  jpg, jpeg or png only.
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /user/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		badRequest(c, "No file found")
		return
	}

	upload, err := readUpload(fh)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.userUseCase.UploadAvatar(c.Request.Context(), currentViewer(c).ID, upload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{Success: true, Message: "Avatar uploaded successfully", User: user})
}
