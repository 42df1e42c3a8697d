package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"postboard/internal/aggregate"
	"postboard/internal/entity"
	"postboard/internal/integrity"
	"postboard/internal/repo/persistent"
	"postboard/internal/usecase"
	"postboard/pkg/config"
	"postboard/pkg/database"
	"postboard/pkg/jwt"
	"postboard/pkg/logger"
	"postboard/pkg/s3"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name     string
	email    string
	password string
}

var testUsers = []seedUser{
	{"Alice Carter", "alice@test.com", "password123"},
	{"Bob Nguyen", "bob@test.com", "password123"},
	{"Charlie Diaz", "charlie@test.com", "password123"},
}

type seeder struct {
	users persistent.UserRepository
	auth  usecase.AuthUseCase
	posts usecase.PostUseCase
	http  *http.Client
	log   *logger.Logger
}

func main() {
	var (
		adminEmail    string
		adminPassword string
		withImages    bool
	)
	flag.StringVar(&adminEmail, "admin-email", "admin@test.com", "email of the admin account")
	flag.StringVar(&adminPassword, "admin-password", "admin123", "password of the admin account")
	flag.BoolVar(&withImages, "images", true, "attach cat images fetched from cataas.com")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s3Client, err := s3.NewClient(ctx, cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)
	layer := integrity.NewLayer(postRepo, userRepo, log)
	enricher := aggregate.NewEnricher(userRepo)

	s := &seeder{
		users: userRepo,
		auth:  usecase.NewAuthUseCase(userRepo, jwt.NewService(cfg.JWTSecret), log),
		posts: usecase.NewPostUseCase(postRepo, userRepo, layer, enricher, s3Client, nil, log),
		http:  &http.Client{Timeout: 30 * time.Second},
		log:   log,
	}

	if err := s.ensureAdmin(ctx, adminEmail, adminPassword); err != nil {
		log.Error("Failed to create admin: %v", err)
		panic(err)
	}
	if err := s.seedUsers(ctx, withImages); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func (s *seeder) ensureAdmin(ctx context.Context, email, password string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.log.Info("Admin %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, entity.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &entity.User{
		Name:        "Admin",
		Email:       email,
		Password:    string(hashed),
		Role:        entity.RoleAdmin,
		IsOnboarded: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Info("Created admin: %s", email)
	return nil
}

func (s *seeder) seedUsers(ctx context.Context, withImages bool) error {
	var created []*entity.UserView
	for _, u := range testUsers {
		view, err := s.auth.Register(ctx, usecase.RegisterInput{Name: u.name, Email: u.email, Password: u.password})
		if errors.Is(err, entity.ErrValidation) {
			s.log.Info("User %s already exists, skipping", u.email)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", u.email, err)
		}
		s.log.Info("Created user: %s (%s)", u.name, u.email)
		created = append(created, view)
	}

	var postIDs []string
	for i, u := range created {
		for j := 0; j < 2+i%2; j++ {
			in := usecase.CreatePostInput{
				Title:       fmt.Sprintf("Post #%d by %s", j+1, u.Name),
				Description: fmt.Sprintf("Sample post #%d from %s", j+1, u.Name),
			}
			if j == 1 {
				in.IsPaid = true
				in.Price = 4.99
			}
			if withImages {
				if upload, err := s.fetchCat(u.Name, j); err != nil {
					s.log.Warn("Skipping image for %s: %v", u.Name, err)
				} else {
					in.Files = []usecase.Upload{upload}
				}
			}

			post, err := s.posts.CreatePost(ctx, u.ID, in)
			if err != nil {
				s.log.Error("Failed to create post %d for %s: %v", j+1, u.Name, err)
				continue
			}
			s.log.Info("Created post: %s", post.Title)
			postIDs = append(postIDs, post.ID)
		}
	}

	// every seeded user likes and comments on every seeded post
	for _, u := range created {
		for _, postID := range postIDs {
			if _, _, err := s.posts.ToggleLike(ctx, postID, u.ID); err != nil {
				s.log.Warn("Failed to like post %s: %v", postID, err)
			}
			if _, err := s.posts.AddComment(ctx, postID, u.ID, fmt.Sprintf("Nice one! (%s)", u.Name), nil); err != nil {
				s.log.Warn("Failed to comment on post %s: %v", postID, err)
			}
		}
	}

	return nil
}

func (s *seeder) fetchCat(name string, index int) (usecase.Upload, error) {
	endpoint := "https://cataas.com/cat"
	if index%2 == 0 {
		endpoint += "/says/" + url.PathEscape("Hello from "+strings.Fields(name)[0])
	}

	resp, err := s.http.Get(endpoint)
	if err != nil {
		return usecase.Upload{}, fmt.Errorf("failed to fetch cat image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return usecase.Upload{}, fmt.Errorf("cataas API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return usecase.Upload{}, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return usecase.Upload{}, fmt.Errorf("received empty image data")
	}

	return usecase.Upload{Filename: fmt.Sprintf("cat_%d.jpg", index), Data: data}, nil
}
