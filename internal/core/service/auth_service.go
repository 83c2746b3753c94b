package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.UserRepository
	guard     *authz.Guard
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, guard: authz.NewGuard(), jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	if username == "" || in.Password == "" || fullName == "" {
		return nil, domain.InvalidInput("username, password and full name are required")
	}

	role := domain.RoleMedicalRep
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, domain.InvalidInput("unknown role %q", in.Role)
		}
		role = r
	}
	if role != domain.RoleMedicalRep {
		if err := s.authorizeRole(ctx, in.Actor, role); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		Department:   strings.TrimSpace(in.Department),
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.Create(ctx, user)
}

// authorizeRole lets an Admin or CEO assign any role. Without an actor only
// the very first account may pick its role, so a fresh install can create
// its administrator.
func (s *AuthService) authorizeRole(ctx context.Context, actor *authz.Actor, role domain.Role) error {
	if actor != nil {
		return s.guard.Authorize(actor, authz.OpAssignRole)
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return fmt.Errorf("%w: only an Admin or CEO may register a %s", domain.ErrForbidden, role)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
