package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Text      string    `json:"text" gorm:"not null"`
	Photo     []byte    `json:"-" gorm:"type:bytea"`
	PhotoType string    `json:"-"`
	AuthorID  uuid.UUID `json:"authorId" gorm:"type:uuid;not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPhoto reports whether a photo was uploaded with the post.
func (p *Post) HasPhoto() bool {
	return len(p.Photo) > 0 && p.PhotoType != ""
}

type PostLike struct {
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;primaryKey"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostComment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Text      string    `json:"text" gorm:"not null"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;index"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID  uuid.UUID `json:"authorId" gorm:"type:uuid;not null"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedPost carries a post together with everything a feed entry renders:
// author name, like totals, whether the viewer liked it, and its comments.
type FeedPost struct {
	Post        *Post
	AuthorName  string
	Likes       int64
	ViewerLiked bool
	Comments    []*FeedComment
}

type FeedComment struct {
	Comment    *PostComment
	AuthorName string
}
