package entity

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Password     string    `json:"-" validate:"required"`
	Posts        []string  `json:"posts"`
	PaidForPosts []string  `json:"paidForPosts"`
	Avatar       string    `json:"avatar"`
	Role         string    `json:"role"`
	OTP          string    `json:"-"`
	IsOnboarded  bool      `json:"isOnboarded"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPaidFor(postID string) bool {
	return containsID(u.PaidForPosts, postID)
}

// UserView is the profile shape returned to clients; it never carries the password.
type UserView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Posts        []string `json:"posts"`
	Avatar       string   `json:"avatar"`
	Role         string   `json:"role"`
	PaidForPosts []string `json:"paidForPosts"`
	IsOnboarded  bool     `json:"isOnboarded"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Posts:        nonNil(u.Posts),
		Avatar:       u.Avatar,
		Role:         u.Role,
		PaidForPosts: nonNil(u.PaidForPosts),
		IsOnboarded:  u.IsOnboarded,
	}
}

type PostSummary struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdminUserView is a user as listed to admins, with owned posts summarized.
type AdminUserView struct {
	UserView
	CreatedAt time.Time     `json:"createdAt"`
	Posts     []PostSummary `json:"posts"`
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
