package biz

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/oauth2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooLong    = errors.New("password is longer than 72 bytes")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProviderDisabled   = errors.New("oauth provider is not configured")
	ErrInvalidState       = errors.New("invalid or expired oauth state")
	ErrOAuthExchange      = errors.New("oauth code exchange failed")
)

// User is the account view used by the auth flows.
type User struct {
	ID           int64
	Email        string
	Name         string
	Picture      string
	IsActive     bool
	PasswordHash string
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// UserRepo defines the repository interface for accounts
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	// UpsertOAuthUser links identity to the user owning its email, creating
	// the user and the account link as needed.
	UpsertOAuthUser(ctx context.Context, identity *oauth2.Identity) (*User, error)
}

// StateStore keeps OAuth state values between the redirect and the callback.
type StateStore interface {
	Save(ctx context.Context, state string) error
	// Consume removes state and reports whether it was present.
	Consume(ctx context.Context, state string) (bool, error)
}

// Session is a signed-in user with a fresh token pair.
type Session struct {
	User   *User
	Tokens *auth.TokenPair
}

// ProfileUpdate carries PATCH /me fields; nil means unchanged and an empty
// string clears the field.
type ProfileUpdate struct {
	Name    *string
	Picture *string
}

// AuthUseCase implements password and Google sign-in over cookie sessions.
type AuthUseCase struct {
	repo     UserRepo
	states   StateStore
	jwt      *auth.JWTManager
	google   oauth2.Provider
	logger   *logger.Logger
	hashCost int
}

// NewAuthUseCase creates the auth use case. google may be nil when Google
// sign-in is not configured.
func NewAuthUseCase(repo UserRepo, states StateStore, jwt *auth.JWTManager, google oauth2.Provider, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		repo:     repo,
		states:   states,
		jwt:      jwt,
		google:   google,
		logger:   log.Named("auth"),
		hashCost: bcrypt.DefaultCost,
	}
}

// JWT returns the token manager for cookie lifetimes and middleware.
func (uc *AuthUseCase) JWT() *auth.JWTManager { return uc.jwt }

// GoogleEnabled reports whether Google sign-in is configured.
func (uc *AuthUseCase) GoogleEnabled() bool { return uc.google != nil }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

// Register creates a password account. An existing account without a
// password (created through OAuth) gets the password attached instead.
func (uc *AuthUseCase) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil && existing.HasPassword() {
		return nil, ErrEmailAlreadyExists
	}
	if existing != nil && !existing.IsActive {
		return nil, ErrUserInactive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := existing
	if user == nil {
		user = &User{Email: email, Name: name, IsActive: true, PasswordHash: string(hash)}
		if err := uc.repo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		if user.Name == "" {
			user.Name = name
		}
		user.PasswordHash = string(hash)
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	uc.logger.WithContext(ctx).Info("user registered", zap.Int64("user_id", user.ID), zap.Bool("linked", existing != nil))
	return uc.session(user)
}

// Login checks a password. Unknown, inactive and password-less accounts
// all fail with ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return uc.session(user)
}

// Refresh verifies a refresh token and signs a new access token for the
// same subject.
func (uc *AuthUseCase) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidToken
	}
	claims, err := uc.jwt.VerifyToken(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return "", ErrInvalidToken
	}
	return uc.jwt.GenerateToken(id, auth.ScopeAccess)
}

// CurrentUser loads the active user behind an access token subject.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, id int64) (*User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a PATCH /me update.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*User, error) {
	user, err := uc.CurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Picture != nil {
		user.Picture = strings.TrimSpace(*upd.Picture)
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BeginGoogle stores a fresh state and returns the consent URL.
func (uc *AuthUseCase) BeginGoogle(ctx context.Context) (authURL, state string, err error) {
	if uc.google == nil {
		return "", "", ErrProviderDisabled
	}
	state = strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := uc.states.Save(ctx, state); err != nil {
		return "", "", fmt.Errorf("failed to save oauth state: %w", err)
	}
	return uc.google.AuthURL(state), state, nil
}

// CompleteGoogle consumes state, exchanges code and signs the user in.
func (uc *AuthUseCase) CompleteGoogle(ctx context.Context, code, state string) (*Session, error) {
	if uc.google == nil {
		return nil, ErrProviderDisabled
	}
	if code == "" || state == "" {
		return nil, ErrInvalidState
	}
	ok, err := uc.states.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth state: %w", err)
	}
	if !ok {
		return nil, ErrInvalidState
	}

	identity, err := uc.google.Exchange(ctx, code)
	if err != nil {
		uc.logger.WithContext(ctx).Warn("google exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}
	if identity.Subject == "" {
		return nil, fmt.Errorf("%w: missing provider user id", ErrOAuthExchange)
	}

	user, err := uc.repo.UpsertOAuthUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	uc.logger.WithContext(ctx).Info("oauth sign-in", zap.String("provider", identity.Provider), zap.Int64("user_id", user.ID))
	return uc.session(user)
}

func (uc *AuthUseCase) session(user *User) (*Session, error) {
	pair, err := uc.jwt.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: pair}, nil
}
