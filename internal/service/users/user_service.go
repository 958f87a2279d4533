package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, input ProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, input ChangePasswordInput) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, input AdminUpdateInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type RegisterInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type AdminUpdateInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	IsAdmin  bool   `json:"is_admin"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

const minPasswordLength = 6

type UserService struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	tokens   TokenIssuer
	hasher   PasswordHasher
}

func NewUserService(users repository.UserRepository, bookings repository.BookingRepository, tokens TokenIssuer, hasher PasswordHasher) *UserService {
	return &UserService{users: users, bookings: bookings, tokens: tokens, hasher: hasher}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login reports ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := s.hasher.Compare(user.PasswordHash, input.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *UserService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *UserService) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, input ProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyContact(ctx, user, input.FullName, input.Email, input.Phone); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id int64, input ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Compare(user.PasswordHash, input.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrWrongPassword
	}
	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// GetUser returns the user together with all of their bookings.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Bookings = bookings
	user.BookingCount = len(bookings)
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, input AdminUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyContact(ctx, user, input.FullName, input.Email, input.Phone); err != nil {
		return nil, err
	}
	user.IsAdmin = input.IsAdmin

	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
		}
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) applyContact(ctx context.Context, user *domain.User, fullName, email, phone string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}
	if !strings.EqualFold(normalized, user.Email) {
		taken, err := s.users.EmailTaken(ctx, normalized, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
	}
	user.FullName = strings.TrimSpace(fullName)
	user.Email = normalized
	user.Phone = strings.TrimSpace(phone)
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return email, nil
}

var _ UserUseCase = (*UserService)(nil)
