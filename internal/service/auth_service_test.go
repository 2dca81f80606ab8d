package service

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pairlink/pairlink-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is an in-memory implementation of
// UserRepositoryInterface for testing
type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) Update(user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return errors.New("record not found")
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) SearchUsers(requestingUserID uint, query string, limit int) ([]models.User, error) {
	var result []models.User
	for _, user := range m.users {
		if user.ID == requestingUserID {
			continue
		}
		if strings.Contains(strings.ToLower(user.Username), query) ||
			strings.Contains(strings.ToLower(user.Department), query) {
			result = append(result, *user)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func TestRegister(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	defer os.Unsetenv("JWT_SECRET")

	mockRepo := NewMockUserRepository()
	authService := NewAuthService(mockRepo)

	resp, err := authService.Register(RegisterInput{
		Username:   "alice",
		Department: "engineering",
		Password:   "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Username != "alice" {
		t.Errorf("username = %q", resp.User.Username)
	}

	stored, err := mockRepo.FindByUsername("alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash == "correct-horse-battery" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse-battery")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	// Duplicate usernames are rejected.
	if _, err := authService.Register(RegisterInput{Username: "alice", Password: "whatever-else"}); err == nil {
		t.Error("expected duplicate username to fail")
	}
}

func TestLogin(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	defer os.Unsetenv("JWT_SECRET")

	mockRepo := NewMockUserRepository()
	authService := NewAuthService(mockRepo)

	if _, err := authService.Register(RegisterInput{
		Username: "bob",
		Password: "a-strong-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name      string
		username  string
		password  string
		shouldErr bool
	}{
		{"valid credentials", "bob", "a-strong-password", false},
		{"wrong password", "bob", "not-the-password", true},
		{"unknown user", "mallory", "a-strong-password", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := authService.Login(LoginInput{Username: tt.username, Password: tt.password})
			if (err != nil) != tt.shouldErr {
				t.Fatalf("err = %v, shouldErr = %v", err, tt.shouldErr)
			}
			if !tt.shouldErr && resp.Token == "" {
				t.Error("expected a token")
			}
		})
	}
}
