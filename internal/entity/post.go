package entity

import (
	"math"
	"time"
)

type File struct {
	URL      string `json:"url" validate:"required"`
	Name     string `json:"name" validate:"required"`
	FileName string `json:"fileName" validate:"required"`
}

type Comment struct {
	ID     string    `json:"id"`
	UserID string    `json:"user" validate:"required"`
	Text   string    `json:"text" validate:"required"`
	Date   time.Time `json:"date"`
}

type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user" validate:"required"`
	Title       string    `json:"title"`
	Description string    `json:"description" validate:"required"`
	Files       []File    `json:"files" validate:"dive"`
	IsPaid      bool      `json:"isPaid"`
	Price       float64   `json:"price" validate:"gte=0"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments" validate:"dive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PriceMinorUnits is the checkout amount: price times 100, rounded.
func (p *Post) PriceMinorUnits() int64 {
	return int64(math.Round(p.Price * 100))
}

func (p *Post) IsLikedBy(userID string) bool {
	return containsID(p.Likes, userID)
}

// ToggleLike adds userID to likes if absent, removes it otherwise.
// Reports whether the user likes the post afterwards.
func (p *Post) ToggleLike(userID string) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// PrependComment inserts c at the front; comments are kept newest first.
func (p *Post) PrependComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// RemoveComment drops the comment with the given id and returns it.
func (p *Post) RemoveComment(commentID string) (Comment, bool) {
	for i, c := range p.Comments {
		if c.ID == commentID {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return c, true
		}
	}
	return Comment{}, false
}

// EngagedBy reports whether any of userIDs likes or commented on the post.
func (p *Post) EngagedBy(userIDs []string) bool {
	for _, id := range userIDs {
		if containsID(p.Likes, id) {
			return true
		}
		for _, c := range p.Comments {
			if c.UserID == id {
				return true
			}
		}
	}
	return false
}

// DropEngagementBy removes the likes and comments of userIDs.
func (p *Post) DropEngagementBy(userIDs []string) {
	likes := make([]string, 0, len(p.Likes))
	for _, id := range p.Likes {
		if !containsID(userIDs, id) {
			likes = append(likes, id)
		}
	}
	comments := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if !containsID(userIDs, c.UserID) {
			comments = append(comments, c)
		}
	}
	p.Likes = likes
	p.Comments = comments
}

// PostFilter selects posts by id or by owner. An empty filter matches nothing.
type PostFilter struct {
	IDs     []string
	UserIDs []string
}

func (f PostFilter) IsEmpty() bool {
	return len(f.IDs) == 0 && len(f.UserIDs) == 0
}
