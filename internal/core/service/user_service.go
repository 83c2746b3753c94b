package service

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// UserService exposes the user directory.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// ListByRole returns the users holding role. An unknown role is invalid input.
func (s *UserService) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.InvalidInput("unknown role %q", role)
	}
	return s.repo.ListByRole(ctx, r)
}
