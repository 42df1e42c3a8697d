package entity

import "time"

// Author is the display projection of a user embedded in post views.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type CommentView struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// PostView is a post enriched with author, commenter and liker display fields.
type PostView struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user"`
	Name        string        `json:"name"`
	Avatar      string        `json:"avatar"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Files       []File        `json:"files"`
	IsPaid      bool          `json:"isPaid"`
	Price       float64       `json:"price"`
	Locked      bool          `json:"locked"`
	Likes       []Author      `json:"likes"`
	Comments    []CommentView `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Viewer is the authenticated caller as seen by read paths.
type Viewer struct {
	ID           string
	Role         string
	PaidForPosts []string
}

// CanSee reports whether the viewer may see the attachments of a post.
func (v Viewer) CanSee(p *PostView) bool {
	if !p.IsPaid {
		return true
	}
	return v.Role == RoleAdmin || v.ID == p.UserID || containsID(v.PaidForPosts, p.ID)
}

// Lock hides attachments the viewer has not paid for.
func (v Viewer) Lock(views []PostView) {
	for i := range views {
		if !v.CanSee(&views[i]) {
			views[i].Files = []File{}
			views[i].Locked = true
		}
	}
}

type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
