package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fieldops/internal/core/apperror"
	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/id"
)

type mockUserRepo struct {
	CreateFunc     func(ctx context.Context, user *User) error
	GetByIDFunc    func(ctx context.Context, userID id.ID) (*User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*User, error)
	UpdateFunc     func(ctx context.Context, user *User) error
	ExistsFunc     func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return m.GetByIDFunc(ctx, userID)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, user *User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, email)
	}
	return false, nil
}

type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func tenantCtx(tenantID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		TenantID: tenantID.String(),
	})
}

func newTestService(repo UserRepository) *Service {
	return NewService(repo, passTxManager{}, NewJWTService(DefaultJWTConfig("test-secret")), DefaultServiceConfig())
}

func testUser(t *testing.T, tenantID id.ID, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := NewUser(tenantID, "tech@example.com", string(hash))
	u.Roles = []string{"technician"}
	return u
}

func TestLogin(t *testing.T) {
	tenantID := id.New()
	user := testUser(t, tenantID, "secret-pass")
	repo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := newTestService(repo)
	res, err := svc.Login(tenantCtx(tenantID), Credentials{
		Email:    "tech@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, tenantID.String(), uc.TenantID)
	assert.Equal(t, []string{"technician"}, uc.Roles)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	tenantID := id.New()
	user := testUser(t, tenantID, "secret-pass")
	repo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Login(tenantCtx(tenantID), Credentials{
		Email:    "tech@example.com",
		Password: "wrong",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, 1, user.FailedLoginAttempts)
}

func TestLogin_UnknownEmailSameAnswer(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			return nil, apperror.NewNotFound("user", email)
		},
	}

	svc := newTestService(repo)
	_, err := svc.Login(tenantCtx(id.New()), Credentials{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestLogin_LocksAfterMaxAttempts(t *testing.T) {
	tenantID := id.New()
	user := testUser(t, tenantID, "secret-pass")
	repo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := newTestService(repo)
	ctx := tenantCtx(tenantID)
	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, err := svc.Login(ctx, Credentials{Email: user.Email, Password: "wrong"})
		require.Error(t, err)
	}

	assert.True(t, user.IsLocked())

	// Even the right password is refused while locked.
	_, err := svc.Login(ctx, Credentials{Email: user.Email, Password: "secret-pass"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRegister(t *testing.T) {
	tenantID := id.New()
	var created *User
	repo := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *User) error {
			created = user
			return nil
		},
	}

	svc := newTestService(repo)
	user, err := svc.Register(tenantCtx(tenantID), RegisterRequest{
		Email:     "new@example.com",
		Password:  "long-enough-pass",
		FirstName: "Sam",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, tenantID, user.TenantID)
	assert.NotEqual(t, "long-enough-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough-pass")))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.Register(tenantCtx(id.New()), RegisterRequest{
		Email:    "new@example.com",
		Password: "short",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		ExistsFunc: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(tenantCtx(id.New()), RegisterRequest{
		Email:    "taken@example.com",
		Password: "long-enough-pass",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestValidateToken_Invalid(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}
