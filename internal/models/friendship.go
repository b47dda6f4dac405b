package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
)

// Friendship is a directed edge from the requester to the recipient. Two users
// are friends when an ACCEPTED edge exists between them in either direction.
type Friendship struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	UserID    string           `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"userId"`
	FriendID  string           `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"friendId"`
	Status    FriendshipStatus `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt time.Time        `json:"createdAt"`

	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Friend *User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
