package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	out := make([]*domain.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func register(t *testing.T, svc *AuthService, username, password, role string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: username,
		Password: password,
		FullName: username + " Example",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	user := register(t, svc, "alice", "pass123", "Stock Manager")
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleStockManager {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_DefaultsToMedicalRep(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	user := register(t, svc, "bob", "pass", "")
	if user.Role != domain.RoleMedicalRep {
		t.Fatalf("expected default role %s, got %s", domain.RoleMedicalRep, user.Role)
	}
}

func TestAuthService_Register_ElevatedRoleNeedsExecutive(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	admin := register(t, svc, "root", "pass", "Admin")
	register(t, svc, "rep", "pass", "Medical Rep")

	in := ports.RegisterInput{Username: "mallory", Password: "pass", FullName: "Mallory", Role: "Admin"}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("anonymous Admin signup: expected ErrForbidden, got %v", err)
	}

	in.Actor = &authz.Actor{ID: "m-1", Role: domain.RoleMarketer}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Marketer assigning Admin: expected ErrForbidden, got %v", err)
	}

	in.Actor = &authz.Actor{ID: admin.ID, Role: admin.Role}
	user, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Admin assigning Admin: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	cases := []ports.RegisterInput{
		{Username: "", Password: "pass", FullName: "No Name"},
		{Username: "x", Password: "", FullName: "No Pass"},
		{Username: "x", Password: "pass", FullName: "  "},
		{Username: "x", Password: "pass", FullName: "Bad Role", Role: "Janitor"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	register(t, svc, "bob", "pass", "")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass2", FullName: "Bob Again"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	registered := register(t, svc, "carol", "s3cret", "CEO")

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleCEO) {
		t.Fatalf("expected role %s, got %v", domain.RoleCEO, claims["role"])
	}
	if claims["user_id"] != registered.ID {
		t.Fatalf("expected user_id %s, got %v", registered.ID, claims["user_id"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	register(t, svc, "dave", "goodpass", "")

	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "dave", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	user := register(t, svc, "erin", "pass", "Marketer")

	got, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if got.Username != "erin" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := svc.Me(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserService_ListByRole(t *testing.T) {
	repo := newStubUserRepo()
	auth := NewAuthService(repo, "secret", time.Hour)
	register(t, auth, "boss", "pass", "CEO")
	register(t, auth, "rep1", "pass", "Medical Rep")
	register(t, auth, "rep2", "pass", "medical rep")

	users := NewUserService(repo)

	all, err := users.List(context.Background())
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 users, got %d (%v)", len(all), err)
	}

	reps, err := users.ListByRole(context.Background(), "Medical Rep")
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(reps) != 2 {
		t.Fatalf("expected 2 reps, got %d", len(reps))
	}

	admins, err := users.ListByRole(context.Background(), "Admin")
	if err != nil || admins == nil || len(admins) != 0 {
		t.Fatalf("expected empty non-nil list, got %v (%v)", admins, err)
	}

	if _, err := users.ListByRole(context.Background(), "Pilot"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
