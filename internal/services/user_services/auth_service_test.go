// File: internal/services/user_services/auth_service_test.go
package user_services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/services/user_services"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func newAuthService(repo *fakeUserRepo) *user_services.AuthService {
	return user_services.NewAuthService(repo, "test-secret", noopLogger{})
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	account, err := svc.Register(context.Background(), "Alice@Example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if account.Email != "alice@example.com" {
		t.Errorf("email should be normalized, got %q", account.Email)
	}
	if account.Password == "s3cretpass" || account.Password == "" {
		t.Error("password must be stored hashed")
	}
	if err := account.ValidatePassword("s3cretpass"); err != nil {
		t.Errorf("hash should verify against the original password: %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "s3cretpass"); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, err := svc.Register(ctx, "a@b.com", "short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "s3cretpass"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "A@B.com", "otherpass123"); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, "a@b.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	account, token, err := svc.Login(ctx, "a@b.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if account.ID != created.ID {
		t.Errorf("login returned wrong account: %d", account.ID)
	}
	if token == "" {
		t.Fatal("login must return a token")
	}

	userID, err := svc.ValidateJWTToken(token)
	if err != nil {
		t.Fatalf("ValidateJWTToken: %v", err)
	}
	if userID != created.ID {
		t.Errorf("token should carry user id %d, got %d", created.ID, userID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "s3cretpass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "a@b.com", "wrongpass123"); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, _, err := svc.Login(ctx, "missing@b.com", "s3cretpass"); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestValidateJWTTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	if _, err := svc.ValidateJWTToken(""); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := svc.ValidateJWTToken("not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestTokensAreSecretBound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	other := user_services.NewAuthService(repo, "different-secret", noopLogger{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "s3cretpass"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := svc.Login(ctx, "a@b.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := other.ValidateJWTToken(token); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}
