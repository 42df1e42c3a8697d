package persistent

import (
	"context"
	"strings"

	"postboard/internal/entity"
	"postboard/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	SearchIDsByName(ctx context.Context, query string) ([]string, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	AddPost(ctx context.Context, userID, postID string) error
	RemovePosts(ctx context.Context, userID string, postIDs []string) error
	AddPaidPost(ctx context.Context, userID, postID string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !ValidID(id) {
		return nil, entity.NotFound("user %s not found", id)
	}

	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, notFoundOr(err, "user %s not found", id)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&userModel).Error; err != nil {
		return nil, notFoundOr(err, "user with email %s not found", email)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		return nil, err
	}
	return toUserEntities(userModels), nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !ValidID(id) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) SearchIDsByName(ctx context.Context, query string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(query)).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&userModels).Error; err != nil {
		return nil, err
	}
	return toUserEntities(userModels), nil
}

// UpdateProfile writes the user-editable fields only; post lists are owned by
// AddPost, RemovePosts and AddPaidPost.
func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	if !ValidID(user.ID) {
		return entity.NotFound("user %s not found", user.ID)
	}

	userModel := ToUserModel(user)
	result := r.db.WithContext(ctx).Model(&model.UserModel{ID: user.ID}).
		Select("name", "email", "avatar", "is_onboarded", "updated_at").
		Updates(userModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.NotFound("user %s not found", user.ID)
	}
	return nil
}

func (r *userRepository) AddPost(ctx context.Context, userID, postID string) error {
	return r.modifyLists(ctx, userID, func(m *model.UserModel) []string {
		if containsID(m.Posts, postID) {
			return nil
		}
		m.Posts = append(m.Posts, postID)
		return []string{"posts"}
	})
}

func (r *userRepository) RemovePosts(ctx context.Context, userID string, postIDs []string) error {
	return r.modifyLists(ctx, userID, func(m *model.UserModel) []string {
		kept := make([]string, 0, len(m.Posts))
		for _, id := range m.Posts {
			if !containsID(postIDs, id) {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(m.Posts) {
			return nil
		}
		m.Posts = kept
		return []string{"posts"}
	})
}

func (r *userRepository) AddPaidPost(ctx context.Context, userID, postID string) error {
	return r.modifyLists(ctx, userID, func(m *model.UserModel) []string {
		if containsID(m.PaidForPosts, postID) {
			return nil
		}
		m.PaidForPosts = append(m.PaidForPosts, postID)
		return []string{"paid_for_posts"}
	})
}

// modifyLists loads the user, applies change and persists the columns it
// reports as modified. Read-modify-write: concurrent writers race.
func (r *userRepository) modifyLists(ctx context.Context, userID string, change func(m *model.UserModel) []string) error {
	if !ValidID(userID) {
		return entity.NotFound("user %s not found", userID)
	}

	db := r.db.WithContext(ctx)
	var userModel model.UserModel
	if err := db.Where("id = ?", userID).First(&userModel).Error; err != nil {
		return notFoundOr(err, "user %s not found", userID)
	}

	columns := change(&userModel)
	if len(columns) == 0 {
		return nil
	}

	return db.Model(&userModel).Select(append(columns, "updated_at")).Updates(&userModel).Error
}

func (r *userRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.UserModel{})
	return result.RowsAffected, result.Error
}

func toUserEntities(userModels []model.UserModel) []*entity.User {
	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(query))
	return "%" + escaped + "%"
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
