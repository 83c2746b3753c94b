package ports

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username   string
	Password   string
	FullName   string
	Role       string // empty defaults to Medical Rep
	Department string
	// Actor is the authenticated caller, nil for self-registration. Any role
	// other than Medical Rep needs an Admin or CEO actor once a user exists.
	Actor *authz.Actor
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)
}
