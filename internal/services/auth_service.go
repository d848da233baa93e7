package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/truehomes/truehomes-api/internal/constants"
	"github.com/truehomes/truehomes-api/internal/models"
	"github.com/truehomes/truehomes-api/internal/repository"
	"github.com/truehomes/truehomes-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBadPassword          = errors.New("invalid credentials")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrTokenStale           = errors.New("reset token no longer valid")
	ErrMailDelivery         = errors.New("failed to deliver email")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// DuplicateFieldError reports which unique field collided so handlers can
// answer with a field-specific status and message.
type DuplicateFieldError struct {
	Field string // "email" or "username"
}

func (e *DuplicateFieldError) Error() string {
	switch e.Field {
	case "email":
		return "Email is already in use"
	case "username":
		return "Username is already taken"
	default:
		return "Username or email is already in use"
	}
}

// AuthService handles signup, signin, federated login and the password-reset
// lifecycle.
type AuthService struct {
	userRepo  repository.UserRepository
	tokens    *TokenService
	mailer    Mailer
	clientURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, mailer Mailer, clientURL string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: clientURL,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup creates a new user with a hashed password.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Fast-path duplicate checks; the unique indexes are the backstop for
	// concurrent signups racing past these reads.
	if dup := checkDuplicateFields(s.userRepo, email, username, 0); dup != nil {
		return nil, dup
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       constants.DefaultAvatarURL,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if dup := checkDuplicateFields(s.userRepo, email, username, 0); dup != nil {
				return nil, dup
			}
			// The colliding row is not visible to the re-check, so the
			// field cannot be attributed.
			return nil, &DuplicateFieldError{}
		}
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// SigninInput holds the credentials for authentication.
type SigninInput struct {
	Email    string
	Password string
}

// Signin verifies credentials and returns the authenticated user. An unknown
// email and a wrong password are reported as distinct errors; the handler
// decides how much of that distinction reaches the client.
func (s *AuthService) Signin(input SigninInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrBadPassword
	}

	return user, nil
}

// GoogleInput carries the identity asserted by the federated provider.
type GoogleInput struct {
	Name  string
	Email string
	Photo string
}

// Google resolves a federated identity to a local account, creating one on
// first login. Idempotent on email: repeated logins return the same user.
func (s *AuthService) Google(input GoogleInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// First federated login: synthesize a local account. The generated
	// password is never usable since this user authenticates federated-only.
	suffix, err := utils.RandomSuffix(4)
	if err != nil {
		return nil, ErrFailedToCreateUser
	}
	username := strings.ToLower(strings.ReplaceAll(input.Name, " ", "")) + suffix

	password, err := utils.GeneratePassword()
	if err != nil {
		return nil, ErrFailedToCreateUser
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	avatar := input.Photo
	if avatar == "" {
		avatar = constants.DefaultAvatarURL
	}

	user = &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       avatar,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent federated login for the same email won the
			// race; resolve to the committed account.
			if existing, ferr := s.userRepo.FindByEmail(email); ferr == nil {
				return existing, nil
			}
		}
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// ForgotPassword issues a reset token and mails the reset link. An unknown
// email reports success without sending anything, so the endpoint cannot be
// used to probe which addresses are registered. Mail delivery failure is a
// real error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.tokens.IssueReset(user.ID, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	return nil
}

// ResetPassword redeems a reset token and stores a new password hash.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	userID, fingerprint, err := s.tokens.VerifyReset(token)
	if err != nil {
		return err
	}

	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	// The token was minted against a specific password hash. Once the
	// password changes the fingerprint stops matching and the link is dead,
	// which keeps redemption effectively single-use without server state.
	if fingerprint != HashFingerprint(user.PasswordHash) {
		return ErrTokenStale
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// checkDuplicateFields reports which unique field an existing record collides
// on, ignoring the record identified by excludeID.
func checkDuplicateFields(repo repository.UserRepository, email, username string, excludeID uint64) error {
	if email != "" {
		if existing, err := repo.FindByEmail(email); err == nil && existing.ID != excludeID {
			return &DuplicateFieldError{Field: "email"}
		}
	}
	if username != "" {
		if existing, err := repo.FindByUsername(username); err == nil && existing.ID != excludeID {
			return &DuplicateFieldError{Field: "username"}
		}
	}
	return nil
}
