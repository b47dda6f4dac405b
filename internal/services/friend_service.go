package services

import (
	"time"

	"brainrank/internal/models"
	"brainrank/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FriendRequest is an incoming PENDING edge with the requester attached.
type FriendRequest struct {
	ID        string            `json:"id"`
	From      models.PublicUser `json:"from"`
	CreatedAt time.Time         `json:"createdAt"`
}

// FriendService manages the request/accept friendship graph. There is no
// reject, cancel or unfriend operation.
type FriendService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// SendRequest creates a PENDING edge unless one already exists between the
// pair in either direction.
func (s *FriendService) SendRequest(userID, friendID string) Result {
	if userID == friendID {
		return Result{Success: false, Message: "Cannot send friend request to yourself"}
	}

	users := &repositories.UserRepository{DB: s.DB}
	friendships := &repositories.FriendshipRepository{DB: s.DB}

	if _, err := users.GetUserByID(friendID); err != nil {
		if err == repositories.ErrUserNotFound {
			return Result{Success: false, Message: "User not found"}
		}
		s.Logger.Error("failed to send friend request", zap.String("userId", userID), zap.Error(err))
		return Result{Success: false, Message: "Failed to send friend request"}
	}

	existing, err := friendships.FindBetween(userID, friendID)
	if err != nil {
		s.Logger.Error("failed to send friend request", zap.String("userId", userID), zap.Error(err))
		return Result{Success: false, Message: "Failed to send friend request"}
	}
	if existing != nil {
		if existing.Status == models.FriendshipAccepted {
			return Result{Success: false, Message: "Already friends"}
		}
		return Result{Success: false, Message: "Friend request already pending"}
	}

	err = friendships.Create(&models.Friendship{
		UserID:   userID,
		FriendID: friendID,
		Status:   models.FriendshipPending,
	})
	if err != nil {
		s.Logger.Error("failed to send friend request", zap.String("userId", userID), zap.Error(err))
		return Result{Success: false, Message: "Failed to send friend request"}
	}
	return Result{Success: true, Message: "Friend request sent"}
}

// AcceptRequest flips a PENDING edge to ACCEPTED. Only the recipient may
// accept; anything else looks like a missing request.
func (s *FriendService) AcceptRequest(userID, requestID string) Result {
	friendships := &repositories.FriendshipRepository{DB: s.DB}

	edge, err := friendships.GetByID(requestID)
	if err == repositories.ErrFriendshipNotFound {
		return Result{Success: false, Message: "Friend request not found"}
	}
	if err != nil {
		s.Logger.Error("failed to accept friend request", zap.String("requestId", requestID), zap.Error(err))
		return Result{Success: false, Message: "Failed to accept friend request"}
	}
	if edge.FriendID != userID {
		return Result{Success: false, Message: "Friend request not found"}
	}

	if err := friendships.UpdateStatus(requestID, models.FriendshipAccepted); err != nil {
		s.Logger.Error("failed to accept friend request", zap.String("requestId", requestID), zap.Error(err))
		return Result{Success: false, Message: "Failed to accept friend request"}
	}
	return Result{Success: true, Message: "Friend request accepted"}
}

// Friends maps each ACCEPTED edge touching the user to the other side.
func (s *FriendService) Friends(userID string) ([]models.PublicUser, error) {
	friendships := &repositories.FriendshipRepository{DB: s.DB}
	edges, err := friendships.AcceptedFor(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]models.PublicUser, 0, len(edges))
	for _, edge := range edges {
		if edge.UserID == userID && edge.Friend != nil {
			friends = append(friends, edge.Friend.Public())
		} else if edge.FriendID == userID && edge.User != nil {
			friends = append(friends, edge.User.Public())
		}
	}
	return friends, nil
}

// PendingRequests lists incoming requests awaiting the user's decision.
func (s *FriendService) PendingRequests(userID string) ([]FriendRequest, error) {
	friendships := &repositories.FriendshipRepository{DB: s.DB}
	edges, err := friendships.PendingFor(userID)
	if err != nil {
		return nil, err
	}

	requests := make([]FriendRequest, 0, len(edges))
	for _, edge := range edges {
		req := FriendRequest{ID: edge.ID, CreatedAt: edge.CreatedAt}
		if edge.User != nil {
			req.From = edge.User.Public()
		}
		requests = append(requests, req)
	}
	return requests, nil
}
