package auth

import (
	"context"
	"testing"

	autherrors "staffdesk/internal/auth/errors"
	"staffdesk/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn      func(ctx context.Context, u *User) error
	getByEmailFn  func(ctx context.Context, email string) (*User, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*User, error)
	countByRoleFn func(ctx context.Context) (map[string]int64, error)
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error { return f.createFn(ctx, u) }
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeRepo) CountByRole(ctx context.Context) (map[string]int64, error) {
	return f.countByRoleFn(ctx)
}

func storedUser(t *testing.T, password string) *User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &User{
		ID:       uuid.New(),
		FullName: "Dana Employee",
		Email:    "dana@company.com",
		Password: string(hashed),
		Role:     domain.RoleEmployee.String(),
		IsActive: true,
	}
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := storedUser(t, "hunter2-hunter2")

	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			assert.Equal(t, "dana@company.com", email)
			return user, nil
		},
	}

	svc := NewService(repo)
	resp, err := svc.Login(context.Background(), "dana@company.com", "hunter2-hunter2")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID.String(), resp.UserID)
	assert.Equal(t, "EMPLOYEE", resp.Role)
}

func TestService_Login_WrongPassword(t *testing.T) {
	user := storedUser(t, "hunter2-hunter2")
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
	}

	svc := NewService(repo)
	_, err := svc.Login(context.Background(), "dana@company.com", "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(repo)
	_, err := svc.Login(context.Background(), "nobody@company.com", "whatever")
	// Unknown email and wrong password are indistinguishable.
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_InactiveAccount(t *testing.T) {
	user := storedUser(t, "hunter2-hunter2")
	user.IsActive = false
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
	}

	svc := NewService(repo)
	_, err := svc.Login(context.Background(), "dana@company.com", "hunter2-hunter2")
	assert.ErrorIs(t, err, autherrors.ErrAccountInactive)
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var created *User
	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error { created = u; return nil },
	}

	svc := NewService(repo)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		FullName:   "New Hire",
		Email:      "new@company.com",
		Password:   "longenough",
		Department: "Sales",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token, "registration signs the account in immediately")
	assert.Equal(t, "EMPLOYEE", resp.Role, "self-registration never grants elevated roles")
	assert.NotEqual(t, "longenough", created.Password, "password must be stored hashed")
	assert.True(t, created.IsActive)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}

	svc := NewService(repo)
	_, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Dup",
		Email:    "dana@company.com",
		Password: "longenough",
	})
	assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
}

func TestService_GetMe(t *testing.T) {
	user := storedUser(t, "hunter2-hunter2")
	repo := &fakeRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		},
	}

	svc := NewService(repo)
	resp, err := svc.GetMe(context.Background(), user.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)
	assert.Empty(t, resp.Token)
}
