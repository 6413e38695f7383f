package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: the follower's feed includes the followed
// user's posts. The pair is the primary key so an edge exists at most once.
type Follow struct {
	FollowerID uuid.UUID `json:"followerId" gorm:"type:uuid;primaryKey"`
	FollowedID uuid.UUID `json:"followedId" gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time `json:"createdAt"`
}
