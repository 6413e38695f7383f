package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	About        string    `json:"about"`
	Photo        []byte    `json:"-" gorm:"type:bytea"`
	PhotoType    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPhoto reports whether a photo has been uploaded for the user.
func (u *User) HasPhoto() bool {
	return len(u.Photo) > 0 && u.PhotoType != ""
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Profile is the read model served for a user page: the user row plus the
// denormalized follow data the frontend needs in a single request.
type Profile struct {
	User        *User
	Followers   int64
	Following   int64
	IsFollowing bool
}
