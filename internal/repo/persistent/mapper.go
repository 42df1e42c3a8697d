package persistent

import (
	"postboard/internal/entity"
	"postboard/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Password:     m.Password,
		Posts:        copyIDs(m.Posts),
		PaidForPosts: copyIDs(m.PaidForPosts),
		Avatar:       m.Avatar,
		Role:         m.Role,
		OTP:          m.OTP,
		IsOnboarded:  m.IsOnboarded,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Password:     e.Password,
		Posts:        copyIDs(e.Posts),
		PaidForPosts: copyIDs(e.PaidForPosts),
		Avatar:       e.Avatar,
		Role:         e.Role,
		OTP:          e.OTP,
		IsOnboarded:  e.IsOnboarded,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	files := make([]entity.File, len(m.Files))
	for i, f := range m.Files {
		files[i] = entity.File{URL: f.URL, Name: f.Name, FileName: f.FileName}
	}

	comments := make([]entity.Comment, len(m.Comments))
	for i, c := range m.Comments {
		comments[i] = entity.Comment{ID: c.ID, UserID: c.UserID, Text: c.Text, Date: c.Date}
	}

	return &entity.Post{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Files:       files,
		IsPaid:      m.IsPaid,
		Price:       m.Price,
		Likes:       copyIDs(m.Likes),
		Comments:    comments,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	files := make([]model.FileModel, len(e.Files))
	for i, f := range e.Files {
		files[i] = model.FileModel{URL: f.URL, Name: f.Name, FileName: f.FileName}
	}

	comments := make([]model.CommentModel, len(e.Comments))
	for i, c := range e.Comments {
		comments[i] = model.CommentModel{ID: c.ID, UserID: c.UserID, Text: c.Text, Date: c.Date}
	}

	return &model.PostModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Files:       files,
		IsPaid:      e.IsPaid,
		Price:       e.Price,
		Likes:       copyIDs(e.Likes),
		Comments:    comments,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
