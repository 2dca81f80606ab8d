package service

import (
	"errors"
	"strings"

	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepositoryInterface
	presence *presence.Tracker
}

func NewUserService(userRepo repository.UserRepositoryInterface, tracker *presence.Tracker) *UserService {
	return &UserService{userRepo: userRepo, presence: tracker}
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *UserService) IsUsernameAvailable(username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, errors.New("username cannot be empty")
	}
	if _, err := s.userRepo.FindByUsername(username); err != nil {
		return true, nil
	}
	return false, nil
}

// SearchUsers matches other users by username or department, with live
// presence attached to each result.
func (s *UserService) SearchUsers(requestingUserID uint, query string, limit int) ([]models.UserResponse, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return []models.UserResponse{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	users, err := s.userRepo.SearchUsers(requestingUserID, query, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		resp := users[i].ToResponse()
		resp.IsOnline = s.presence.IsOnline(users[i].ID)
		responses = append(responses, resp)
	}
	return responses, nil
}
