package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"postboard/internal/aggregate"
	"postboard/internal/entity"
	"postboard/internal/integrity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"
	"postboard/pkg/queue"

	"github.com/google/uuid"
)

type PostUseCase interface {
	CreatePost(ctx context.Context, userID string, in CreatePostInput) (*entity.Post, error)
	DeletePost(ctx context.Context, postID string, actor entity.Viewer) error
	AddComment(ctx context.Context, postID, userID, text string, date *time.Time) (*entity.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string, actor entity.Viewer) error
	ToggleLike(ctx context.Context, postID, userID string) (bool, []string, error)
	GetAllPosts(ctx context.Context, viewer entity.Viewer) ([]entity.PostView, error)
	GetMyPosts(ctx context.Context, viewer entity.Viewer) ([]entity.PostView, error)
	GetUserPosts(ctx context.Context, userID string, viewer entity.Viewer) ([]entity.PostView, error)
	GetPost(ctx context.Context, postID string, viewer entity.Viewer) (*entity.PostView, error)
	Search(ctx context.Context, query string, viewer entity.Viewer) ([]entity.PostView, error)
}

type CreatePostInput struct {
	Title       string
	Description string
	IsPaid      bool
	Price       float64
	Files       []Upload
}

type postUseCase struct {
	postRepo  persistent.PostRepository
	userRepo  persistent.UserRepository
	integrity *integrity.Layer
	enricher  *aggregate.Enricher
	storage   FileStorage
	events    EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	userRepo persistent.UserRepository,
	integrityLayer *integrity.Layer,
	enricher *aggregate.Enricher,
	storage FileStorage,
	events EventPublisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:  postRepo,
		userRepo:  userRepo,
		integrity: integrityLayer,
		enricher:  enricher,
		storage:   storage,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*entity.Post, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	post := &entity.Post{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		IsPaid:      in.IsPaid,
		Price:       in.Price,
		Likes:       []string{},
		Comments:    []entity.Comment{},
	}
	if !post.IsPaid {
		post.Price = 0
	}
	if err := validateStruct(post); err != nil {
		return nil, err
	}
	if post.IsPaid && post.PriceMinorUnits() <= 0 {
		return nil, entity.Validation("paid posts need a positive price")
	}

	files, err := uploadAttachments(ctx, uc.storage, userID, in.Files, uc.now)
	if err != nil {
		return nil, err
	}
	post.Files = files

	if err := uc.integrity.CreatePost(ctx, post); err != nil {
		uc.removeFiles(ctx, files)
		return nil, err
	}

	uc.logger.Info("Post %s created by %s with %d files", post.ID, userID, len(files))
	publish(ctx, uc.events, uc.logger, queue.EventPostCreated, map[string]interface{}{
		"postId": post.ID,
		"userId": userID,
		"isPaid": post.IsPaid,
	})
	return post, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID string, actor entity.Viewer) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actor.ID && actor.Role != entity.RoleAdmin {
		return entity.Forbidden("you can only delete your own posts")
	}

	for _, f := range post.Files {
		if err := uc.storage.DeleteFile(ctx, f.FileName); err != nil {
			return entity.Upstream("failed to delete file "+f.FileName, err)
		}
	}

	if _, err := uc.integrity.DeletePost(ctx, postID); err != nil {
		return err
	}

	publish(ctx, uc.events, uc.logger, queue.EventPostDeleted, map[string]interface{}{
		"postIds": []string{postID},
		"userId":  post.UserID,
	})
	return nil
}

func (uc *postUseCase) AddComment(ctx context.Context, postID, userID, text string, date *time.Time) (*entity.Comment, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := entity.Comment{
		ID:     uuid.New().String(),
		UserID: userID,
		Text:   strings.TrimSpace(text),
		Date:   uc.now(),
	}
	if date != nil && !date.IsZero() {
		comment.Date = *date
	}
	if err := validateStruct(comment); err != nil {
		return nil, err
	}

	post.PrependComment(comment)
	if err := uc.postRepo.UpdateEngagement(ctx, post); err != nil {
		return nil, err
	}

	publish(ctx, uc.events, uc.logger, queue.EventCommentAdded, map[string]interface{}{
		"postId":    postID,
		"commentId": comment.ID,
		"userId":    userID,
		"ownerId":   post.UserID,
	})
	return &comment, nil
}

func (uc *postUseCase) DeleteComment(ctx context.Context, postID, commentID string, actor entity.Viewer) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	var target *entity.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			target = &post.Comments[i]
			break
		}
	}
	if target == nil {
		return entity.NotFound("comment %s not found", commentID)
	}
	if target.UserID != actor.ID && post.UserID != actor.ID && actor.Role != entity.RoleAdmin {
		return entity.Forbidden("you cannot delete this comment")
	}

	post.RemoveComment(commentID)
	return uc.postRepo.UpdateEngagement(ctx, post)
}

func (uc *postUseCase) ToggleLike(ctx context.Context, postID, userID string) (bool, []string, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, nil, err
	}

	liked := post.ToggleLike(userID)
	if err := uc.postRepo.UpdateEngagement(ctx, post); err != nil {
		return false, nil, err
	}

	if liked {
		publish(ctx, uc.events, uc.logger, queue.EventPostLiked, map[string]interface{}{
			"postId":  postID,
			"userId":  userID,
			"ownerId": post.UserID,
		})
	}
	return liked, post.Likes, nil
}

func (uc *postUseCase) GetAllPosts(ctx context.Context, viewer entity.Viewer) ([]entity.PostView, error) {
	posts, err := uc.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.present(ctx, posts, viewer)
}

func (uc *postUseCase) GetMyPosts(ctx context.Context, viewer entity.Viewer) ([]entity.PostView, error) {
	return uc.GetUserPosts(ctx, viewer.ID, viewer)
}

func (uc *postUseCase) GetUserPosts(ctx context.Context, userID string, viewer entity.Viewer) ([]entity.PostView, error) {
	if userID == "" {
		return nil, entity.Validation("userId is required")
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	posts, err := uc.postRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.present(ctx, posts, viewer)
}

func (uc *postUseCase) GetPost(ctx context.Context, postID string, viewer entity.Viewer) (*entity.PostView, error) {
	if postID == "" {
		return nil, entity.Validation("postId is required")
	}

	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	views, err := uc.present(ctx, []*entity.Post{post}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (uc *postUseCase) Search(ctx context.Context, query string, viewer entity.Viewer) ([]entity.PostView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, entity.Validation("search query is required")
	}

	ownerIDs, err := uc.userRepo.SearchIDsByName(ctx, query)
	if err != nil {
		return nil, err
	}

	posts, err := uc.postRepo.Search(ctx, query, ownerIDs)
	if err != nil {
		return nil, err
	}
	return uc.present(ctx, posts, viewer)
}

// present enriches posts and hides attachments of paid posts the viewer has
// no access to.
func (uc *postUseCase) present(ctx context.Context, posts []*entity.Post, viewer entity.Viewer) ([]entity.PostView, error) {
	views, err := uc.enricher.Enrich(ctx, posts)
	if err != nil {
		return nil, err
	}

	resolved, err := uc.resolveViewer(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}
	resolved.Lock(views)
	return views, nil
}

// resolveViewer loads the viewer's purchases when any paid post is involved.
func (uc *postUseCase) resolveViewer(ctx context.Context, viewer entity.Viewer, posts []*entity.Post) (entity.Viewer, error) {
	if viewer.Role == entity.RoleAdmin || viewer.PaidForPosts != nil {
		return viewer, nil
	}

	needed := false
	for _, p := range posts {
		if p.IsPaid && p.UserID != viewer.ID {
			needed = true
			break
		}
	}
	if !needed {
		return viewer, nil
	}

	user, err := uc.userRepo.GetByID(ctx, viewer.ID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return viewer, nil
		}
		return viewer, err
	}
	viewer.PaidForPosts = user.PaidForPosts
	return viewer, nil
}

func (uc *postUseCase) removeFiles(ctx context.Context, files []entity.File) {
	for _, f := range files {
		if err := uc.storage.DeleteFile(ctx, f.FileName); err != nil {
			uc.logger.Warn("Failed to remove file %s: %v", f.FileName, err)
		}
	}
}
