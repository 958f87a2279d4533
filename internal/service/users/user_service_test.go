package users

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
	repository.BookingRepository
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(user domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

// plainHasher stores passwords with a prefix so tests can assert on hashes.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) (bool, error) {
	return hash == "hashed:"+password, nil
}

func newService() (*UserService, *MockUserRepository, *MockBookingRepository, *MockTokens) {
	users := &MockUserRepository{}
	bookings := &MockBookingRepository{}
	tokens := &MockTokens{}
	return NewUserService(users, bookings, tokens, plainHasher{}), users, bookings, tokens
}

func TestUserService_Register(t *testing.T) {
	service, users, _, tokens := newService()
	ctx := context.Background()

	// Настройка моков
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "anna@example.com" && u.PasswordHash == "hashed:secret1" && !u.IsAdmin
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 10
	}).Return(nil).Once()
	tokens.On("Issue", mock.AnythingOfType("domain.User")).Return("jwt-token", nil).Once()

	result, err := service.Register(ctx, RegisterInput{FullName: "Anna", Email: " Anna@Example.com ", Password: "secret1"})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
	assert.Equal(t, int64(10), result.User.ID)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestUserService_Register_Errors(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{FullName: "Anna", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Register(ctx, RegisterInput{FullName: "Anna", Email: "a@b.co", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	users.On("Create", ctx, mock.Anything).Return(domain.ErrEmailTaken).Once()
	_, err = service.Register(ctx, RegisterInput{FullName: "Anna", Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserService_Login(t *testing.T) {
	service, users, _, tokens := newService()
	ctx := context.Background()
	stored := &domain.User{ID: 3, Email: "a@b.co", PasswordHash: "hashed:secret1"}

	users.On("GetByEmail", ctx, "a@b.co").Return(stored, nil)
	users.On("GetByEmail", ctx, "nobody@b.co").Return(nil, domain.ErrUserNotFound)
	tokens.On("Issue", *stored).Return("jwt-token", nil).Once()

	result, err := service.Login(ctx, LoginInput{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)

	_, err = service.Login(ctx, LoginInput{Email: "a@b.co", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginInput{Email: "nobody@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_UpdateProfile_EmailTaken(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3, Email: "a@b.co"}, nil).Once()
	users.On("EmailTaken", ctx, "c@d.co", int64(3)).Return(true, nil).Once()

	_, err := service.UpdateProfile(ctx, 3, ProfileInput{FullName: "Anna", Email: "c@d.co"})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_UpdateProfile_SameEmail(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3, Email: "a@b.co"}, nil).Once()
	users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.Phone == "+7 900 000 00 00" })).Return(nil).Once()

	user, err := service.UpdateProfile(ctx, 3, ProfileInput{FullName: "Anna", Email: "A@B.co", Phone: "+7 900 000 00 00"})

	require.NoError(t, err)
	assert.Equal(t, "a@b.co", user.Email)
	users.AssertNotCalled(t, "EmailTaken", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ChangePassword(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3, PasswordHash: "hashed:old-secret"}, nil)
	users.On("UpdatePassword", ctx, int64(3), "hashed:new-secret").Return(nil).Once()

	err := service.ChangePassword(ctx, 3, ChangePasswordInput{CurrentPassword: "bad", NewPassword: "new-secret"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	err = service.ChangePassword(ctx, 3, ChangePasswordInput{CurrentPassword: "old-secret", NewPassword: "new-secret"})
	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUserService_GetUser_WithBookings(t *testing.T) {
	service, users, bookings, _ := newService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3}, nil).Once()
	bookings.On("ListByUser", ctx, int64(3)).Return([]domain.Booking{
		{ID: 1, BookingDate: time.Now()},
		{ID: 2, BookingDate: time.Now()},
	}, nil).Once()

	user, err := service.GetUser(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, 2, user.BookingCount)
	assert.Len(t, user.Bookings, 2)
}

func TestUserService_UpdateUser_PromotesAndResetsPassword(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3, Email: "a@b.co"}, nil).Once()
	users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.IsAdmin && u.PasswordHash == "hashed:reset-me"
	})).Return(nil).Once()

	user, err := service.UpdateUser(ctx, 3, AdminUpdateInput{FullName: "Anna", Email: "a@b.co", IsAdmin: true, Password: "reset-me"})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role())
	users.AssertExpectations(t)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateUser_FailedUpdateKeepsPassword(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3, Email: "a@b.co", PasswordHash: "hashed:old"}, nil).Once()
	users.On("Update", ctx, mock.Anything).Return(domain.ErrEmailTaken).Once()

	user, err := service.UpdateUser(ctx, 3, AdminUpdateInput{FullName: "Anna", Email: "a@b.co", Password: "reset-me"})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Nil(t, user)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_DeleteUser_HasBookings(t *testing.T) {
	service, users, _, _ := newService()
	ctx := context.Background()

	users.On("Delete", ctx, int64(3)).Return(domain.ErrUserHasBookings).Once()

	assert.ErrorIs(t, service.DeleteUser(ctx, 3), domain.ErrUserHasBookings)
}
