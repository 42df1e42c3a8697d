package usecase

import (
	"context"
	"sort"

	"postboard/internal/aggregate"
	"postboard/internal/entity"
	"postboard/internal/integrity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"
	"postboard/pkg/queue"
)

type AdminUseCase interface {
	ListUsers(ctx context.Context) ([]entity.AdminUserView, error)
	ListPosts(ctx context.Context) ([]entity.PostView, error)
	DeleteUsers(ctx context.Context, ids []string) error
	DeletePosts(ctx context.Context, ids []string) (int, error)
}

type adminUseCase struct {
	userRepo  persistent.UserRepository
	postRepo  persistent.PostRepository
	integrity *integrity.Layer
	enricher  *aggregate.Enricher
	storage   FileStorage
	events    EventPublisher
	logger    *logger.Logger
}

func NewAdminUseCase(
	userRepo persistent.UserRepository,
	postRepo persistent.PostRepository,
	integrityLayer *integrity.Layer,
	enricher *aggregate.Enricher,
	storage FileStorage,
	events EventPublisher,
	logger *logger.Logger,
) AdminUseCase {
	return &adminUseCase{
		userRepo:  userRepo,
		postRepo:  postRepo,
		integrity: integrityLayer,
		enricher:  enricher,
		storage:   storage,
		events:    events,
		logger:    logger,
	}
}

func (uc *adminUseCase) ListUsers(ctx context.Context) ([]entity.AdminUserView, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var allIDs []string
	for _, u := range users {
		allIDs = append(allIDs, u.Posts...)
	}

	byID := make(map[string]*entity.Post)
	if len(allIDs) > 0 {
		posts, err := uc.postRepo.Find(ctx, entity.PostFilter{IDs: allIDs})
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			byID[p.ID] = p
		}
	}

	views := make([]entity.AdminUserView, len(users))
	for i, u := range users {
		summaries := make([]entity.PostSummary, 0, len(u.Posts))
		for _, id := range u.Posts {
			if p, ok := byID[id]; ok {
				summaries = append(summaries, entity.PostSummary{ID: p.ID, Description: p.Description, CreatedAt: p.CreatedAt})
			}
		}
		sort.SliceStable(summaries, func(a, b int) bool {
			return summaries[a].CreatedAt.After(summaries[b].CreatedAt)
		})

		views[i] = entity.AdminUserView{
			UserView:  *u.View(),
			CreatedAt: u.CreatedAt,
			Posts:     summaries,
		}
	}
	return views, nil
}

func (uc *adminUseCase) ListPosts(ctx context.Context) ([]entity.PostView, error) {
	posts, err := uc.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.enricher.Enrich(ctx, posts)
}

func (uc *adminUseCase) DeleteUsers(ctx context.Context, ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return entity.Validation("no users to delete")
	}

	posts, deleted, err := uc.integrity.DeleteUsers(ctx, ids)
	uc.removeFiles(ctx, posts)
	if err != nil {
		return err
	}
	if deleted != int64(len(ids)) {
		return entity.NotFound("some users were not deleted")
	}

	uc.logger.Info("Admin deleted %d users and %d posts", deleted, len(posts))
	publish(ctx, uc.events, uc.logger, queue.EventUsersDeleted, map[string]interface{}{
		"userIds": ids,
		"posts":   len(posts),
	})
	return nil
}

func (uc *adminUseCase) DeletePosts(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, entity.Validation("no posts to delete")
	}

	posts, err := uc.postRepo.Find(ctx, entity.PostFilter{IDs: dedupe(ids)})
	if err != nil {
		return 0, err
	}
	for _, p := range posts {
		for _, f := range p.Files {
			if err := uc.storage.DeleteFile(ctx, f.FileName); err != nil {
				return 0, entity.Upstream("failed to delete file "+f.FileName, err)
			}
		}
	}

	deleted, err := uc.integrity.DeletePosts(ctx, entity.PostFilter{IDs: postIDs(posts)})
	if err != nil {
		return 0, err
	}

	if len(deleted) > 0 {
		publish(ctx, uc.events, uc.logger, queue.EventPostDeleted, map[string]interface{}{
			"postIds": postIDs(deleted),
		})
	}
	return len(deleted), nil
}

// removeFiles deletes attachments of cascaded posts. Failures are logged only.
func (uc *adminUseCase) removeFiles(ctx context.Context, posts []*entity.Post) {
	for _, p := range posts {
		for _, f := range p.Files {
			if err := uc.storage.DeleteFile(ctx, f.FileName); err != nil {
				uc.logger.Warn("Failed to remove file %s of deleted post %s: %v", f.FileName, p.ID, err)
			}
		}
	}
}

func postIDs(posts []*entity.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
