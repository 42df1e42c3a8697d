package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postboard/internal/entity"
	"postboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(adminUC *MockAdminUseCase) *gin.Engine {
	handler := NewAdminHandler(adminUC, logger.Discard())
	router := setupTestRouter()
	admin := router.Group("/admin")
	admin.GET("/get-users", asUser("root", entity.RoleAdmin, handler.GetUsers))
	admin.GET("/get-all-posts", asUser("root", entity.RoleAdmin, handler.GetAllPosts))
	admin.DELETE("/delete-users", asUser("root", entity.RoleAdmin, handler.DeleteUsers))
	admin.DELETE("/delete-posts", asUser("root", entity.RoleAdmin, handler.DeletePosts))
	return router
}

func TestAdminGetUsers(t *testing.T) {
	adminUC := new(MockAdminUseCase)
	router := newAdminRouter(adminUC)

	adminUC.On("ListUsers", mock.Anything).Return([]entity.AdminUserView{{
		UserView: entity.UserView{ID: "u-1", Name: "Alice"},
		Posts:    []entity.PostSummary{{ID: "p-1", Description: "hello"}},
	}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/get-users", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	users := response["users"].([]interface{})
	require.Len(t, users, 1)
	posts := users[0].(map[string]interface{})["posts"].([]interface{})
	assert.Equal(t, "hello", posts[0].(map[string]interface{})["description"])
}

func TestAdminGetAllPosts(t *testing.T) {
	adminUC := new(MockAdminUseCase)
	router := newAdminRouter(adminUC)

	adminUC.On("ListPosts", mock.Anything).Return([]entity.PostView{{ID: "p-1", IsPaid: true}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/get-all-posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"locked":false`)
}

func TestAdminDeleteUsers_SomeMissing(t *testing.T) {
	adminUC := new(MockAdminUseCase)
	router := newAdminRouter(adminUC)

	ids := []string{"u-1", "u-2"}
	adminUC.On("DeleteUsers", mock.Anything, ids).Return(entity.NotFound("some users were not deleted"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("DELETE", "/admin/delete-users", map[string]interface{}{"users": ids}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "some users were not deleted")
}

func TestAdminDeletePosts(t *testing.T) {
	adminUC := new(MockAdminUseCase)
	router := newAdminRouter(adminUC)

	ids := []string{"p-1", "p-2"}
	adminUC.On("DeletePosts", mock.Anything, ids).Return(2, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("DELETE", "/admin/delete-posts", map[string]interface{}{"posts": ids}))

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["deleted"])
	adminUC.AssertExpectations(t)
}
