package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"unibot/internal/domain"
	"unibot/internal/repository"
)

type mockUserRepo struct {
	usersByID   map[string]domain.User
	idByName    map[string]string
	getErr      error
	updateCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID: make(map[string]domain.User),
		idByName:  make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := m.idByName[user.Username]; ok {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	m.idByName[user.Username] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	id, ok := m.idByName[username]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user domain.User) error {
	m.updateCalls++
	if _, ok := m.usersByID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.usersByID[user.ID] = user
	return nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

func TestUserServiceRegister(t *testing.T) {
	t.Run("crea estudiante por defecto con hash", func(t *testing.T) {
		repo := newMockUserRepo()
		svc := NewUserService(nil, repo, nil)

		user, err := svc.Register(context.Background(), RegisterInput{
			Username: " student1 ",
			Email:    " Student1@Uni.EDU ",
			Password: "password123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID == "" || user.Username != "student1" || user.Email != "student1@uni.edu" {
			t.Fatalf("unexpected user: %+v", user)
		}
		if user.Role != domain.RoleStudent {
			t.Fatalf("expected default role student, got %q", user.Role)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
			t.Fatalf("expected bcrypt hash, got %v", err)
		}
	})

	t.Run("duplicado", func(t *testing.T) {
		repo := newMockUserRepo()
		svc := NewUserService(nil, repo, nil)
		input := RegisterInput{Username: "student1", Email: "a@b.c", Password: "password123"}
		if _, err := svc.Register(context.Background(), input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("input invalido", func(t *testing.T) {
		svc := NewUserService(nil, newMockUserRepo(), nil)
		cases := []RegisterInput{
			{Username: "", Email: "a@b.c", Password: "password123"},
			{Username: "u", Email: "a@b.c", Password: "short"},
			{Username: "u", Email: "a@b.c", Password: "password123", Role: "dean"},
		}
		for _, in := range cases {
			if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidUserInput) {
				t.Fatalf("expected ErrInvalidUserInput for %+v, got %v", in, err)
			}
		}
	})

	t.Run("sin repo", func(t *testing.T) {
		svc := NewUserService(nil, nil, nil)
		if _, err := svc.Register(context.Background(), RegisterInput{}); !errors.Is(err, ErrUserServiceNotConfigured) {
			t.Fatalf("expected ErrUserServiceNotConfigured, got %v", err)
		}
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, nil)
	if _, err := svc.Register(context.Background(), RegisterInput{Username: "student1", Email: "s@u.edu", Password: "password123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("credenciales correctas", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "student1", "password123")
		if err != nil || user.Username != "student1" {
			t.Fatalf("expected login ok, got %+v, %v", user, err)
		}
	})

	t.Run("password incorrecta", func(t *testing.T) {
		if _, err := svc.Authenticate(context.Background(), "student1", "nope-nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("usuario inexistente", func(t *testing.T) {
		if _, err := svc.Authenticate(context.Background(), "ghost", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		limited := NewUserService(nil, repo, denyLimiter{})
		if _, err := limited.Authenticate(context.Background(), "student1", "password123"); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})
}

func TestUserServiceUpdateProfile(t *testing.T) {
	repo := newMockUserRepo()
	repo.usersByID["u1"] = domain.User{ID: "u1", Username: "student1", FirstName: "Ada", Phone: "123"}
	svc := NewUserService(nil, repo, nil)

	first := " Grace "
	user, err := svc.UpdateProfile(context.Background(), "u1", ProfileUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FirstName != "Grace" || user.Phone != "123" {
		t.Fatalf("expected partial update, got %+v", user)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected 1 update call, got %d", repo.updateCalls)
	}

	if _, err := svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
