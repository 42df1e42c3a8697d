// Package aggregate joins posts with the display fields of the users they
// reference.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"postboard/internal/entity"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// MissingUserError reports a post that references a user which no longer exists.
type MissingUserError struct {
	PostID string
	UserID string
}

func (e *MissingUserError) Error() string {
	return fmt.Sprintf("user %s referenced by post %s not found", e.UserID, e.PostID)
}

func (e *MissingUserError) Is(target error) bool {
	return target == entity.ErrNotFound
}

type Enricher struct {
	users UserLookup
}

func NewEnricher(users UserLookup) *Enricher {
	return &Enricher{users: users}
}

// Enrich returns one view per post, in input order. Each distinct user is
// looked up at most once per call.
func (e *Enricher) Enrich(ctx context.Context, posts []*entity.Post) ([]entity.PostView, error) {
	memo := make(map[string]entity.Author)
	views := make([]entity.PostView, 0, len(posts))

	for _, p := range posts {
		view, err := e.enrichOne(ctx, memo, p)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (e *Enricher) EnrichOne(ctx context.Context, post *entity.Post) (*entity.PostView, error) {
	view, err := e.enrichOne(ctx, make(map[string]entity.Author), post)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (e *Enricher) enrichOne(ctx context.Context, memo map[string]entity.Author, p *entity.Post) (entity.PostView, error) {
	author, err := e.author(ctx, memo, p.ID, p.UserID)
	if err != nil {
		return entity.PostView{}, err
	}

	comments := make([]entity.CommentView, len(p.Comments))
	for i, c := range p.Comments {
		commenter, err := e.author(ctx, memo, p.ID, c.UserID)
		if err != nil {
			return entity.PostView{}, err
		}
		comments[i] = entity.CommentView{
			ID:     c.ID,
			UserID: c.UserID,
			Text:   c.Text,
			Date:   c.Date,
			Name:   commenter.Name,
			Avatar: commenter.Avatar,
		}
	}

	likes := make([]entity.Author, len(p.Likes))
	for i, id := range p.Likes {
		liker, err := e.author(ctx, memo, p.ID, id)
		if err != nil {
			return entity.PostView{}, err
		}
		likes[i] = liker
	}

	files := make([]entity.File, len(p.Files))
	copy(files, p.Files)

	return entity.PostView{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        author.Name,
		Avatar:      author.Avatar,
		Title:       p.Title,
		Description: p.Description,
		Files:       files,
		IsPaid:      p.IsPaid,
		Price:       p.Price,
		Likes:       likes,
		Comments:    comments,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (e *Enricher) author(ctx context.Context, memo map[string]entity.Author, postID, userID string) (entity.Author, error) {
	if a, ok := memo[userID]; ok {
		return a, nil
	}

	u, err := e.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Author{}, &MissingUserError{PostID: postID, UserID: userID}
		}
		return entity.Author{}, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	a := entity.Author{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	memo[userID] = a
	return a, nil
}
