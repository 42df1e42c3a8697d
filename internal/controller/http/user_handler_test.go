package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserRouter(userUC *MockUserUseCase, userID string) *gin.Engine {
	handler := NewUserHandler(userUC, logger.Discard())
	router := setupTestRouter()
	router.GET("/user/user", asUser(userID, entity.RoleUser, handler.GetUser))
	router.PUT("/user/user", asUser(userID, entity.RoleUser, handler.UpdateUser))
	router.POST("/user/avatar", asUser(userID, entity.RoleUser, handler.UploadAvatar))
	return router
}

func TestGetUser_Success(t *testing.T) {
	userUC := new(MockUserUseCase)
	router := newUserRouter(userUC, "user-1")

	userUC.On("GetProfile", mock.Anything, "user-1").
		Return(&entity.UserView{ID: "user-1", Name: "Alice", Posts: []string{}, PaidForPosts: []string{}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/user/user", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)
}

func TestUpdateUser_PartialFields(t *testing.T) {
	userUC := new(MockUserUseCase)
	router := newUserRouter(userUC, "user-1")

	userUC.On("UpdateProfile", mock.Anything, "user-1", mock.MatchedBy(func(in usecase.UpdateProfileInput) bool {
		return in.Name != nil && *in.Name == "Alicia" && in.Email == nil && in.IsOnboarded != nil && *in.IsOnboarded
	})).Return(&entity.UserView{ID: "user-1", Name: "Alicia", IsOnboarded: true}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PUT", "/user/user", map[string]interface{}{"name": "Alicia", "isOnboarded": true}))

	assert.Equal(t, http.StatusOK, w.Code)
	userUC.AssertExpectations(t)
}

func TestUploadAvatar_NoFile(t *testing.T) {
	userUC := new(MockUserUseCase)
	router := newUserRouter(userUC, "user-1")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/user/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file found")
}

func TestUploadAvatar_Success(t *testing.T) {
	userUC := new(MockUserUseCase)
	router := newUserRouter(userUC, "user-1")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("avatar", "me.png")
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, writer.Close())

	userUC.On("UploadAvatar", mock.Anything, "user-1", mock.MatchedBy(func(u usecase.Upload) bool {
		return u.Filename == "me.png" && len(u.Data) == 8
	})).Return(&entity.UserView{ID: "user-1", Avatar: "https://cdn.example/avatars/user-1.png"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/user/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	userUC.AssertExpectations(t)
}
