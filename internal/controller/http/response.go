package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// maxUploadSize caps a single uploaded file.
const maxUploadSize = 20 << 20

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	message := entity.Message(err)
	if status == http.StatusInternalServerError {
		log.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		if !errors.Is(err, entity.ErrPartialCascade) {
			message = "Internal server error"
		}
	} else if status == http.StatusBadGateway {
		log.Warn("%s %s upstream failure: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, ErrorResponse{Success: false, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: message})
}

func currentViewer(c *gin.Context) entity.Viewer {
	return entity.Viewer{
		ID:   c.GetString(middleware.ContextUserID),
		Role: c.GetString(middleware.ContextRole),
	}
}

func readUpload(fh *multipart.FileHeader) (usecase.Upload, error) {
	if fh.Size > maxUploadSize {
		return usecase.Upload{}, entity.Validation("file %s exceeds %d MB", fh.Filename, maxUploadSize>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return usecase.Upload{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return usecase.Upload{}, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxUploadSize {
		return usecase.Upload{}, entity.Validation("file %s exceeds %d MB", fh.Filename, maxUploadSize>>20)
	}
	return usecase.Upload{Filename: fh.Filename, Data: data}, nil
}
