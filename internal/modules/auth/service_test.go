package auth

import (
	"context"
	"testing"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockStaffRepo struct {
	mock.Mock
}

func (m *mockStaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *mockStaffRepo) UpdateLoginState(ctx context.Context, id int64, failedAttempts int, lockedUntil *time.Time) error {
	args := m.Called(ctx, id, failedAttempts, lockedUntil)
	return args.Error(0)
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *mockJWT) TTL() time.Duration { return 15 * time.Minute }

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockStaffRepo, jwt *mockJWT) *Service {
	s := NewService(repo, jwt)
	s.now = func() time.Time { return fixedNow }
	return s
}

func staffWithPassword(t *testing.T, password string) *domain.Staff {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Staff{ID: 3, Email: "desk@novastay.test", Name: "Desk", Role: domain.RoleFrontDesk, PasswordHash: string(hash)}
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockStaffRepo)
	jwt := new(mockJWT)
	staff := staffWithPassword(t, "correct-horse")
	staff.FailedLoginAttempts = 2
	repo.On("GetByEmail", mock.Anything, "desk@novastay.test").Return(staff, nil)
	repo.On("UpdateLoginState", mock.Anything, int64(3), 0, (*time.Time)(nil)).Return(nil)
	jwt.On("GenerateToken", int64(3), "front_desk").Return("token-123", nil)

	res, err := newTestService(repo, jwt).Login(context.Background(), " Desk@NovaStay.test ", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, "token-123", res.AccessToken)
	assert.Equal(t, 15*time.Minute, res.ExpiresIn)
	assert.Zero(t, res.Staff.FailedLoginAttempts)
	repo.AssertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(mockStaffRepo)
	repo.On("GetByEmail", mock.Anything, "nobody@novastay.test").Return(nil, repository.ErrNotFound)

	_, err := newTestService(repo, new(mockJWT)).Login(context.Background(), "nobody@novastay.test", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPasswordCounts(t *testing.T) {
	repo := new(mockStaffRepo)
	staff := staffWithPassword(t, "correct-horse")
	staff.FailedLoginAttempts = 1
	repo.On("GetByEmail", mock.Anything, staff.Email).Return(staff, nil)
	repo.On("UpdateLoginState", mock.Anything, int64(3), 2, (*time.Time)(nil)).Return(nil)

	_, err := newTestService(repo, new(mockJWT)).Login(context.Background(), staff.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertExpectations(t)
}

func TestLogin_LocksAfterFiveFailures(t *testing.T) {
	repo := new(mockStaffRepo)
	staff := staffWithPassword(t, "correct-horse")
	staff.FailedLoginAttempts = 4
	repo.On("GetByEmail", mock.Anything, staff.Email).Return(staff, nil)
	repo.On("UpdateLoginState", mock.Anything, int64(3), 5, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(fixedNow.Add(lockoutDuration))
	})).Return(nil)

	_, err := newTestService(repo, new(mockJWT)).Login(context.Background(), staff.Email, "wrong")
	assert.ErrorIs(t, err, ErrAccountLocked)
	repo.AssertExpectations(t)
}

func TestLogin_LockedAccountRejectsCorrectPassword(t *testing.T) {
	repo := new(mockStaffRepo)
	staff := staffWithPassword(t, "correct-horse")
	until := fixedNow.Add(5 * time.Minute)
	staff.LockedUntil = &until
	repo.On("GetByEmail", mock.Anything, staff.Email).Return(staff, nil)

	_, err := newTestService(repo, new(mockJWT)).Login(context.Background(), staff.Email, "correct-horse")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestCreateStaff(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		repo := new(mockStaffRepo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Staff")).Return(nil)

		s, err := newTestService(repo, new(mockJWT)).CreateStaff(context.Background(), "Admin@NovaStay.test", "Admin", "long-enough", domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "admin@novastay.test", s.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte("long-enough")))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := newTestService(new(mockStaffRepo), new(mockJWT)).CreateStaff(context.Background(), "not-an-email", "", "short", "manager")
		require.ErrorIs(t, err, domain.ErrValidation)

		fe := err.(domain.FieldErrors)
		for _, field := range []string{"email", "name", "role", "password"} {
			assert.True(t, fe.Has(field), field)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := new(mockStaffRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		_, err := newTestService(repo, new(mockJWT)).CreateStaff(context.Background(), "a@novastay.test", "A", "long-enough", domain.RoleAdmin)
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}
