package persistent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"postboard/internal/entity"
	"postboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserModel{}, &model.PostModel{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func createUser(t *testing.T, repo UserRepository, name, email string) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: email, Password: "hash", Role: entity.RoleUser}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createPost(t *testing.T, repo PostRepository, userID, title, description string, createdAt time.Time) *entity.Post {
	t.Helper()
	post := &entity.Post{UserID: userID, Title: title, Description: description, CreatedAt: createdAt}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}
