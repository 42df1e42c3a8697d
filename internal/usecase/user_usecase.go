package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"
)

type UserUseCase interface {
	GetProfile(ctx context.Context, userID string) (*entity.UserView, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.UserView, error)
	UploadAvatar(ctx context.Context, userID string, file Upload) (*entity.UserView, error)
}

type UpdateProfileInput struct {
	Name        *string
	Email       *string
	IsOnboarded *bool
}

type userUseCase struct {
	userRepo persistent.UserRepository
	storage  FileStorage
	logger   *logger.Logger
}

func NewUserUseCase(userRepo persistent.UserRepository, storage FileStorage, logger *logger.Logger) UserUseCase {
	return &userUseCase{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

func (uc *userUseCase) GetProfile(ctx context.Context, userID string) (*entity.UserView, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.UserView, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			existing, err := uc.userRepo.GetByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return nil, entity.Validation("user with email %s already exists", email)
			}
			if err != nil && !errors.Is(err, entity.ErrNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if in.IsOnboarded != nil {
		user.IsOnboarded = *in.IsOnboarded
	}

	if err := validateStruct(user); err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user.View(), nil
}

func (uc *userUseCase) UploadAvatar(ctx context.Context, userID string, file Upload) (*entity.UserView, error) {
	key, contentType, err := avatarUpload(userID, file)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.storage.UploadFile(ctx, key, bytes.NewReader(file.Data), contentType)
	if err != nil {
		return nil, entity.Upstream("failed to upload avatar", err)
	}

	user.Avatar = url
	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("Avatar updated for user %s", userID)
	return user.View(), nil
}
