package auth

import (
	"errors"
	"fmt"

	"github.com/mrlokans/booktracker/internal/config"
	"github.com/mrlokans/booktracker/internal/entities"
)

var (
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so a caller cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore defines the user persistence the service needs.
type UserStore interface {
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	EmailExists(email string) (bool, error)
	DeleteUser(id uint) error
}

// Result bundles the user projection with a freshly issued token.
type Result struct {
	User  entities.PublicUser `json:"user"`
	Token string              `json:"token"`
}

// Service handles registration, login and user lookup.
type Service struct {
	users  UserStore
	tokens *TokenManager
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserStore, tokens *TokenManager, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		config: cfg,
	}
}

// Register creates a user with role "user" and issues a session token.
func (s *Service) Register(email, password, name string) (*Result, error) {
	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         entities.UserRoleUser,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// Login validates credentials and issues a session token. Unknown email
// and wrong password produce the same error.
func (s *Service) Login(email, password string) (*Result, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *Service) issue(user *entities.User) (*Result, error) {
	token, err := s.tokens.Sign(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Result{User: user.Public(), Token: token}, nil
}

// GetUserByID returns the public projection of a user.
func (s *Service) GetUserByID(id uint) (*entities.PublicUser, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// DeleteUser removes a user account; owned books, reviews and reading
// goals cascade with it.
func (s *Service) DeleteUser(id uint) error {
	return s.users.DeleteUser(id)
}
