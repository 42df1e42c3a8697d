package usecase

import (
	"context"
	"errors"
	"testing"

	"postboard/internal/entity"
	"postboard/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUseCase_DeleteUsersCascadesPosts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "a@x.com", entity.RoleUser)
	root := h.createUser(t, "Root", "r@x.com", entity.RoleAdmin)

	p1 := h.createPost(t, alice, CreatePostInput{Description: "hello", Files: []Upload{{Filename: "a.pdf", Data: pdfBytes}}})

	require.NoError(t, h.admin.DeleteUsers(ctx, []string{alice.ID}))

	_, err := h.post.GetPost(ctx, p1.ID, viewer(root))
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	_, err = h.users.GetByID(ctx, alice.ID)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	assert.Equal(t, []string{p1.Files[0].FileName}, h.storage.deleted)
	assert.Contains(t, h.events.types(), queue.EventUsersDeleted)
}

func TestAdminUseCase_DeleteUsersCountMismatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "a@x.com", entity.RoleUser)

	err := h.admin.DeleteUsers(ctx, []string{alice.ID, "ghost"})
	require.Error(t, err)
	assert.Equal(t, "some users were not deleted", entity.Message(err))

	err = h.admin.DeleteUsers(ctx, nil)
	assert.True(t, errors.Is(err, entity.ErrValidation))
}

func TestAdminUseCase_DeleteUsersIgnoresStorageFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "a@x.com", entity.RoleUser)
	h.createPost(t, alice, CreatePostInput{Description: "hello", Files: []Upload{{Filename: "a.png", Data: pngBytes}}})

	h.storage.deleteErr = errors.New("timeout")
	assert.NoError(t, h.admin.DeleteUsers(ctx, []string{alice.ID}))
}

func TestAdminUseCase_ListUsers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "a@x.com", entity.RoleUser)
	h.createUser(t, "Bob", "b@x.com", entity.RoleUser)

	older := h.createPost(t, alice, CreatePostInput{Description: "older"})
	newer := h.createPost(t, alice, CreatePostInput{Description: "newer"})

	users, err := h.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	var found *entity.AdminUserView
	for i := range users {
		if users[i].ID == alice.ID {
			found = &users[i]
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Posts, 2)
	assert.Equal(t, newer.ID, found.Posts[0].ID)
	assert.Equal(t, "newer", found.Posts[0].Description)
	assert.Equal(t, older.ID, found.Posts[1].ID)
}

func TestAdminUseCase_ListAndDeletePosts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "a@x.com", entity.RoleUser)
	bob := h.createUser(t, "Bob", "b@x.com", entity.RoleUser)
	a1 := h.createPost(t, alice, CreatePostInput{Description: "a1", IsPaid: true, Price: 3})
	b1 := h.createPost(t, bob, CreatePostInput{Description: "b1"})

	posts, err := h.admin.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Bob", posts[0].Name)
	assert.False(t, posts[1].Locked)

	n, err := h.admin.DeletePosts(ctx, []string{a1.ID, b1.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, u := range []*entity.User{alice, bob} {
		got, err := h.users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Posts)
	}

	n, err = h.admin.DeletePosts(ctx, []string{"ghost"})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = h.admin.DeletePosts(ctx, nil)
	assert.True(t, errors.Is(err, entity.ErrValidation))
}
