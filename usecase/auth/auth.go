package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gotodos/backend/domain"
	"github.com/gotodos/backend/internal/token"
	"github.com/gotodos/backend/repository"
)

// Credentials is the payload returned by login and refresh.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Identity names the user and session behind a validated token.
type Identity struct {
	UserID    string
	SessionID string
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *token.Manager
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, tokens *token.Manager, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account with a bcrypt-hashed password. A duplicate
// email surfaces as a conflict, either from the pre-check or from the unique
// constraint when two registrations race.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies the credentials and mints a fresh session-backed token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.mint(ctx, user.ID)
}

// Authenticate validates a bearer token: signature, expiry, and a live
// session. Everything short of that yields ErrUnauthenticated.
func (uc *UseCase) Authenticate(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := uc.tokens.Parse(tokenString)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if session.IsExpired(time.Now()) || session.UserID != claims.UserID {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, domain.ErrUnauthenticated
	}

	return &Identity{UserID: claims.UserID, SessionID: claims.SessionID}, nil
}

// Logout revokes the session so the presented token stops working.
func (uc *UseCase) Logout(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	return uc.sessions.Delete(ctx, identity.SessionID)
}

// Refresh rotates the caller's credential: the old session is deleted and a
// new one minted, so the returned token always differs from the one that
// authorized the call and the old value is no longer usable.
func (uc *UseCase) Refresh(ctx context.Context, identity *Identity) (*Credentials, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := uc.sessions.Delete(ctx, identity.SessionID); err != nil {
		return nil, err
	}
	return uc.mint(ctx, identity.UserID)
}

// Profile returns the authenticated user's public record.
func (uc *UseCase) Profile(ctx context.Context, identity *Identity) (*domain.User, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) mint(ctx context.Context, userID string) (*Credentials, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.tokens.TTL()),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	signed, err := uc.tokens.Issue(userID, session.ID, now)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, err
	}

	return &Credentials{
		AccessToken: signed,
		TokenType:   token.Type,
		ExpiresIn:   int64(uc.tokens.TTL().Seconds()),
	}, nil
}
