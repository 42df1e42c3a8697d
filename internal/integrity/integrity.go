// Package integrity keeps User.posts consistent with the posts table. Every
// write that creates or removes posts or users goes through Layer.
package integrity

import (
	"context"
	"fmt"

	"postboard/internal/entity"
	"postboard/pkg/logger"
)

type PostStore interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Find(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	FindEngagedBy(ctx context.Context, userIDs []string) ([]*entity.Post, error)
	UpdateEngagement(ctx context.Context, post *entity.Post) error
}

type UserStore interface {
	AddPost(ctx context.Context, userID, postID string) error
	RemovePosts(ctx context.Context, userID string, postIDs []string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type Layer struct {
	posts PostStore
	users UserStore
	log   *logger.Logger
}

func NewLayer(posts PostStore, users UserStore, log *logger.Logger) *Layer {
	return &Layer{posts: posts, users: users, log: log}
}

// CreatePost persists post and appends its id to the owner's list. When the
// append fails the post row is removed again.
func (l *Layer) CreatePost(ctx context.Context, post *entity.Post) error {
	if err := l.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	if err := l.users.AddPost(ctx, post.UserID, post.ID); err != nil {
		if _, delErr := l.posts.DeleteByIDs(ctx, []string{post.ID}); delErr != nil {
			l.log.Error("Failed to roll back post %s after owner update failure: %v", post.ID, delErr)
			return entity.PartialCascade(
				fmt.Sprintf("post %s saved but not linked to user %s", post.ID, post.UserID), err)
		}
		return fmt.Errorf("failed to link post to user %s: %w", post.UserID, err)
	}
	return nil
}

// DeletePost removes one post and unlinks it from its owner.
func (l *Layer) DeletePost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := l.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := l.posts.DeleteByIDs(ctx, []string{id}); err != nil {
		return nil, fmt.Errorf("failed to delete post %s: %w", id, err)
	}

	if err := l.users.RemovePosts(ctx, post.UserID, []string{id}); err != nil {
		return post, entity.PartialCascade(
			fmt.Sprintf("post %s deleted but not unlinked from user %s", id, post.UserID), err)
	}
	return post, nil
}

// DeletePosts removes every post matching filter and unlinks each from its
// owner. Zero matches is a no-op.
func (l *Layer) DeletePosts(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error) {
	matched, err := l.posts.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve posts: %w", err)
	}
	if len(matched) == 0 {
		return matched, nil
	}

	ids := make([]string, len(matched))
	byOwner := make(map[string][]string)
	var owners []string
	for i, p := range matched {
		ids[i] = p.ID
		if _, seen := byOwner[p.UserID]; !seen {
			owners = append(owners, p.UserID)
		}
		byOwner[p.UserID] = append(byOwner[p.UserID], p.ID)
	}

	if _, err := l.posts.DeleteByIDs(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to delete posts: %w", err)
	}

	for _, owner := range owners {
		if err := l.users.RemovePosts(ctx, owner, byOwner[owner]); err != nil {
			return matched, entity.PartialCascade(
				fmt.Sprintf("posts deleted but not unlinked from user %s", owner), err)
		}
	}
	return matched, nil
}

// DeleteUsers removes the users' posts first, then the users, then their
// likes and comments on surviving posts. Returns the removed posts and how
// many user rows were deleted.
func (l *Layer) DeleteUsers(ctx context.Context, ids []string) ([]*entity.Post, int64, error) {
	if len(ids) == 0 {
		return []*entity.Post{}, 0, nil
	}

	posts, err := l.posts.Find(ctx, entity.PostFilter{UserIDs: ids})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve posts: %w", err)
	}

	if len(posts) > 0 {
		postIDs := make([]string, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID
		}
		if _, err := l.posts.DeleteByIDs(ctx, postIDs); err != nil {
			return nil, 0, fmt.Errorf("failed to delete posts of users: %w", err)
		}
	}

	deleted, err := l.users.DeleteByIDs(ctx, ids)
	if err != nil {
		return posts, 0, entity.PartialCascade("posts deleted but users were not", err)
	}

	if err := l.dropEngagement(ctx, ids); err != nil {
		return posts, deleted, entity.PartialCascade("users deleted but their likes or comments remain", err)
	}
	return posts, deleted, nil
}

func (l *Layer) dropEngagement(ctx context.Context, userIDs []string) error {
	engaged, err := l.posts.FindEngagedBy(ctx, userIDs)
	if err != nil {
		return err
	}
	for _, p := range engaged {
		p.DropEngagementBy(userIDs)
		if err := l.posts.UpdateEngagement(ctx, p); err != nil {
			return fmt.Errorf("post %s: %w", p.ID, err)
		}
	}
	return nil
}

func (l *Layer) DeleteUser(ctx context.Context, id string) ([]*entity.Post, error) {
	posts, deleted, err := l.DeleteUsers(ctx, []string{id})
	if err != nil {
		return posts, err
	}
	if deleted == 0 {
		return posts, entity.NotFound("user %s not found", id)
	}
	return posts, nil
}
