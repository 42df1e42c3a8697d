package persistent

import (
	"context"

	"postboard/internal/entity"
	"postboard/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Find(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error)
	ListAll(ctx context.Context) ([]*entity.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Post, error)
	Search(ctx context.Context, query string, ownerIDs []string) ([]*entity.Post, error)
	FindEngagedBy(ctx context.Context, userIDs []string) ([]*entity.Post, error)
	UpdateEngagement(ctx context.Context, post *entity.Post) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if !ValidID(id) {
		return nil, entity.NotFound("post %s not found", id)
	}

	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, notFoundOr(err, "post %s not found", id)
	}
	return ToPostEntity(&postModel), nil
}

// Find returns posts matching every non-empty criterion of filter. An empty
// filter matches nothing.
func (r *postRepository) Find(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error) {
	if filter.IsEmpty() {
		return []*entity.Post{}, nil
	}

	query := r.db.WithContext(ctx)
	if len(filter.IDs) > 0 {
		ids := validIDs(filter.IDs)
		if len(ids) == 0 {
			return []*entity.Post{}, nil
		}
		query = query.Where("id IN ?", ids)
	}
	if len(filter.UserIDs) > 0 {
		userIDs := validIDs(filter.UserIDs)
		if len(userIDs) == 0 {
			return []*entity.Post{}, nil
		}
		query = query.Where("user_id IN ?", userIDs)
	}

	var postModels []model.PostModel
	if err := query.Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]*entity.Post, error) {
	var postModels []model.PostModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Post, error) {
	if !ValidID(userID) {
		return []*entity.Post{}, nil
	}

	var postModels []model.PostModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

// Search matches title or description case-insensitively, or any post owned
// by ownerIDs. Newest first.
func (r *postRepository) Search(ctx context.Context, query string, ownerIDs []string) ([]*entity.Post, error) {
	pattern := likePattern(query)
	cond := r.db.Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(description) LIKE ? ESCAPE '\\'", pattern)
	if ownerIDs = validIDs(ownerIDs); len(ownerIDs) > 0 {
		cond = cond.Or("user_id IN ?", ownerIDs)
	}

	var postModels []model.PostModel
	if err := r.db.WithContext(ctx).Where(cond).Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

// FindEngagedBy returns posts liked or commented on by any of userIDs. It
// matches against the JSON text of the likes and comments columns.
func (r *postRepository) FindEngagedBy(ctx context.Context, userIDs []string) ([]*entity.Post, error) {
	if len(userIDs) == 0 {
		return []*entity.Post{}, nil
	}

	cond := r.db
	for i, id := range userIDs {
		likes := likePattern(`"` + id + `"`)
		comments := likePattern(`"user":"` + id + `"`)
		if i == 0 {
			cond = cond.Where("likes LIKE ? ESCAPE '\\'", likes)
		} else {
			cond = cond.Or("likes LIKE ? ESCAPE '\\'", likes)
		}
		cond = cond.Or("comments LIKE ? ESCAPE '\\'", comments)
	}

	var postModels []model.PostModel
	if err := r.db.WithContext(ctx).Where(cond).Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, err
	}

	// the text match can over-select; keep only real hits
	posts := make([]*entity.Post, 0, len(postModels))
	for _, p := range toPostEntities(postModels) {
		if p.EngagedBy(userIDs) {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// UpdateEngagement persists likes and comments. Last write wins.
func (r *postRepository) UpdateEngagement(ctx context.Context, post *entity.Post) error {
	if !ValidID(post.ID) {
		return entity.NotFound("post %s not found", post.ID)
	}

	postModel := ToPostModel(post)
	result := r.db.WithContext(ctx).Model(&model.PostModel{ID: post.ID}).
		Select("likes", "comments", "updated_at").
		Updates(postModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.NotFound("post %s not found", post.ID)
	}
	return nil
}

func (r *postRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.PostModel{})
	return result.RowsAffected, result.Error
}

func toPostEntities(postModels []model.PostModel) []*entity.Post {
	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts
}
