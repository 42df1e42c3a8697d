package http

import (
	"context"
	"time"

	"postboard/internal/entity"
	"postboard/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, in usecase.RegisterInput) (*entity.UserView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserView), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.UserView, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.UserView), args.String(1), args.Error(2)
}

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, userID string, in usecase.CreatePostInput) (*entity.Post, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, postID string, actor entity.Viewer) error {
	return m.Called(ctx, postID, actor).Error(0)
}

func (m *MockPostUseCase) AddComment(ctx context.Context, postID, userID, text string, date *time.Time) (*entity.Comment, error) {
	args := m.Called(ctx, postID, userID, text, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockPostUseCase) DeleteComment(ctx context.Context, postID, commentID string, actor entity.Viewer) error {
	return m.Called(ctx, postID, commentID, actor).Error(0)
}

func (m *MockPostUseCase) ToggleLike(ctx context.Context, postID, userID string) (bool, []string, error) {
	args := m.Called(ctx, postID, userID)
	likes, _ := args.Get(1).([]string)
	return args.Bool(0), likes, args.Error(2)
}

func (m *MockPostUseCase) GetAllPosts(ctx context.Context, viewer entity.Viewer) ([]entity.PostView, error) {
	args := m.Called(ctx, viewer)
	return postViews(args.Get(0)), args.Error(1)
}

func (m *MockPostUseCase) GetMyPosts(ctx context.Context, viewer entity.Viewer) ([]entity.PostView, error) {
	args := m.Called(ctx, viewer)
	return postViews(args.Get(0)), args.Error(1)
}

func (m *MockPostUseCase) GetUserPosts(ctx context.Context, userID string, viewer entity.Viewer) ([]entity.PostView, error) {
	args := m.Called(ctx, userID, viewer)
	return postViews(args.Get(0)), args.Error(1)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, postID string, viewer entity.Viewer) (*entity.PostView, error) {
	args := m.Called(ctx, postID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) Search(ctx context.Context, query string, viewer entity.Viewer) ([]entity.PostView, error) {
	args := m.Called(ctx, query, viewer)
	return postViews(args.Get(0)), args.Error(1)
}

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) Initiate(ctx context.Context, postID, buyerID string) (*entity.CheckoutSession, error) {
	args := m.Called(ctx, postID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckoutSession), args.Error(1)
}

func (m *MockPaymentUseCase) Confirm(ctx context.Context, sessionID, postID, buyerID string) error {
	return m.Called(ctx, sessionID, postID, buyerID).Error(0)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) GetProfile(ctx context.Context, userID string) (*entity.UserView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserView), args.Error(1)
}

func (m *MockUserUseCase) UpdateProfile(ctx context.Context, userID string, in usecase.UpdateProfileInput) (*entity.UserView, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserView), args.Error(1)
}

func (m *MockUserUseCase) UploadAvatar(ctx context.Context, userID string, file usecase.Upload) (*entity.UserView, error) {
	args := m.Called(ctx, userID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserView), args.Error(1)
}

type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) ListUsers(ctx context.Context) ([]entity.AdminUserView, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.AdminUserView)
	return users, args.Error(1)
}

func (m *MockAdminUseCase) ListPosts(ctx context.Context) ([]entity.PostView, error) {
	args := m.Called(ctx)
	return postViews(args.Get(0)), args.Error(1)
}

func (m *MockAdminUseCase) DeleteUsers(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockAdminUseCase) DeletePosts(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

var (
	_ usecase.AuthUseCase    = (*MockAuthUseCase)(nil)
	_ usecase.PostUseCase    = (*MockPostUseCase)(nil)
	_ usecase.PaymentUseCase = (*MockPaymentUseCase)(nil)
	_ usecase.UserUseCase    = (*MockUserUseCase)(nil)
	_ usecase.AdminUseCase   = (*MockAdminUseCase)(nil)
)

func postViews(v interface{}) []entity.PostView {
	views, _ := v.([]entity.PostView)
	return views
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser injects the identity the auth middleware would have set.
func asUser(userID, role string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		next(c)
	}
}
