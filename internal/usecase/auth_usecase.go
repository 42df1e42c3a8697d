package usecase

import (
	"context"
	"errors"
	"strings"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*entity.UserView, error)
	Login(ctx context.Context, email, password string) (*entity.UserView, string, error)
}

type RegisterInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type authUseCase struct {
	userRepo persistent.UserRepository
	tokens   TokenIssuer
	logger   *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, tokens TokenIssuer, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*entity.UserView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, entity.Validation("user with email %s already exists", in.Email)
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Role:     entity.RoleUser,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("User registered: %s", user.ID)
	return user.View(), nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.UserView, string, error) {
	invalid := entity.NewError(entity.ErrUnauthorized, "invalid email or password", nil)

	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, "", invalid
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", invalid
	}

	role := user.Role
	if role == "" {
		role = entity.RoleUser
	}
	token, err := uc.tokens.GenerateToken(user.ID, role)
	if err != nil {
		return nil, "", err
	}

	return user.View(), token, nil
}
