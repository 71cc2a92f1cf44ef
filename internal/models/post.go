package models

import (
	"time"

	"gorm.io/datatypes"
)

// Like marks a user's like on a post.
type Like struct {
	User uint `json:"user"`
}

// Comment is an entry in a post's comment thread.
type Comment struct {
	ID     EntryID   `json:"id"`
	User   uint      `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Post is a text post. Name and Avatar are copied from the author when created.
type Post struct {
	ID       uint                         `gorm:"primaryKey" json:"id"`
	UserID   uint                         `gorm:"index;not null" json:"user"`
	Text     string                       `gorm:"not null" json:"text"`
	Name     string                       `json:"name"`
	Avatar   string                       `json:"avatar"`
	Likes    datatypes.JSONSlice[Like]    `json:"likes"`
	Comments datatypes.JSONSlice[Comment] `json:"comments"`
	Version  int                          `gorm:"not null;default:1" json:"-"`
	Date     time.Time                    `gorm:"autoCreateTime;index" json:"date"`
}

// LikedBy reports whether userID already likes the post.
func (p *Post) LikedBy(userID uint) bool {
	_, ok := p.likeIndex(userID)
	return ok
}

func (p *Post) likeIndex(userID uint) (int, bool) {
	return indexWhere(p.Likes, func(l Like) bool { return l.User == userID })
}

// AddLike records a like at the head of the list.
func (p *Post) AddLike(userID uint) error {
	if p.LikedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = prepend(p.Likes, Like{User: userID})
	return nil
}

// RemoveLike drops the like of userID.
func (p *Post) RemoveLike(userID uint) error {
	i, ok := p.likeIndex(userID)
	if !ok {
		return ErrNotLiked
	}
	p.Likes = removeAt(p.Likes, i)
	return nil
}

// PrependComment puts c at the head of the thread.
func (p *Post) PrependComment(c Comment) {
	p.Comments = prepend(p.Comments, c)
}

// CommentIndex locates a comment by id.
func (p *Post) CommentIndex(id EntryID) (int, bool) {
	return indexWhere(p.Comments, func(c Comment) bool { return c.ID == id })
}

// RemoveComment deletes the comment with id when requesterID wrote it.
func (p *Post) RemoveComment(id EntryID, requesterID uint) error {
	i, ok := p.CommentIndex(id)
	if !ok {
		return NewNotFoundError("Comment")
	}
	if p.Comments[i].User != requesterID {
		return NewForbiddenError("User not authorised to delete the comment")
	}
	p.Comments = removeAt(p.Comments, i)
	return nil
}
