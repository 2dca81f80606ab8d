package service

import (
	"testing"

	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/presence"
)

func TestSearchUsers(t *testing.T) {
	mockRepo := NewMockUserRepository()
	tracker := presence.NewTracker()
	userService := NewUserService(mockRepo, tracker)

	seed := []*models.User{
		{Username: "alice", Department: "engineering"},
		{Username: "bob", Department: "design"},
		{Username: "carol", Department: "engineering"},
	}
	for _, u := range seed {
		if err := mockRepo.Create(u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	tracker.SetOnline(seed[2].ID)

	requester := seed[0].ID

	results, err := userService.SearchUsers(requester, "engineering", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// The requesting user never appears in their own results.
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Username != "carol" {
		t.Errorf("match = %q, want carol", results[0].Username)
	}
	if !results[0].IsOnline {
		t.Error("carol should show as online")
	}

	results, err = userService.SearchUsers(requester, "bob", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].IsOnline {
		t.Fatalf("expected one offline match, got %+v", results)
	}

	empty, err := userService.SearchUsers(requester, "   ", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("blank query should match nothing, got %d", len(empty))
	}
}

func TestIsUsernameAvailable(t *testing.T) {
	mockRepo := NewMockUserRepository()
	userService := NewUserService(mockRepo, presence.NewTracker())

	if err := mockRepo.Create(&models.User{Username: "taken"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	available, err := userService.IsUsernameAvailable("fresh")
	if err != nil || !available {
		t.Errorf("fresh name: available=%v err=%v", available, err)
	}

	available, err = userService.IsUsernameAvailable("taken")
	if err != nil || available {
		t.Errorf("taken name: available=%v err=%v", available, err)
	}

	if _, err := userService.IsUsernameAvailable(""); err == nil {
		t.Error("empty username should error")
	}
}
