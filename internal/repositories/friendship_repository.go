package repositories

import (
	"errors"

	"brainrank/internal/models"

	"gorm.io/gorm"
)

var ErrFriendshipNotFound = errors.New("friendship not found")

type FriendshipRepository struct {
	DB *gorm.DB
}

func (r *FriendshipRepository) Create(f *models.Friendship) error {
	return r.DB.Create(f).Error
}

func (r *FriendshipRepository) GetByID(id string) (*models.Friendship, error) {
	var f models.Friendship
	err := r.DB.First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFriendshipNotFound
	}
	return &f, err
}

// FindBetween returns the edge between two users in either direction, or nil
// when none exists.
func (r *FriendshipRepository) FindBetween(userID, friendID string) (*models.Friendship, error) {
	var f models.Friendship
	err := r.DB.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FriendshipRepository) UpdateStatus(id string, status models.FriendshipStatus) error {
	return r.DB.Model(&models.Friendship{}).Where("id = ?", id).Update("status", status).Error
}

// AcceptedFor returns every ACCEPTED edge touching the user, both sides
// preloaded so the caller can map each edge to the other user.
func (r *FriendshipRepository) AcceptedFor(userID string) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.DB.Preload("User").Preload("Friend").
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Find(&edges).Error
	return edges, err
}

// PendingFor returns incoming PENDING requests with the requester preloaded.
func (r *FriendshipRepository) PendingFor(userID string) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.DB.Preload("User").
		Where("friend_id = ? AND status = ?", userID, models.FriendshipPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

func (r *FriendshipRepository) CountAcceptedFor(userID string) (int64, error) {
	var n int64
	err := r.DB.Model(&models.Friendship{}).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Count(&n).Error
	return n, err
}
