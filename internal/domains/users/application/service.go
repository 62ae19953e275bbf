package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-marketplace/internal/domains/users/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// DefaultTokenTTL matches the lifetime of issued access tokens when none is configured.
const DefaultTokenTTL = time.Hour

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
	tokenTTL time.Duration
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithTokenTTL sets how long issued tokens and their sessions stay valid.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates an account. Emails are unique case-insensitively.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(s.newID(), input.Name, input.Email, input.Password, input.Role, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	_, err = s.repo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login verifies the credentials, opens a session and signs a token bound to it.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	session := ports.Session{
		ID:        s.newID(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.tokenTTL).UTC().Truncate(time.Second),
	}
	token, err := s.tokens.Issue(ports.Claims{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Logout ends the caller's session; the token stops authenticating immediately.
func (s *Service) Logout(ctx context.Context, caller identity.Identity) error {
	if strings.TrimSpace(caller.SessionID) == "" {
		return ErrUnauthenticated
	}
	if err := s.sessions.Delete(ctx, caller.SessionID); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Authenticate turns a presented token into the caller's identity.
func (s *Service) Authenticate(ctx context.Context, token string) (identity.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Identity{}, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return identity.Identity{}, ErrInvalidCredential
	}
	if !claims.Role.Valid() || claims.UserID == "" || claims.SessionID == "" {
		return identity.Identity{}, ErrInvalidCredential
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return identity.Identity{}, ErrInvalidCredential
		}
		return identity.Identity{}, err
	}
	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return identity.Identity{}, ErrInvalidCredential
	}
	return identity.Identity{UserID: claims.UserID, Role: claims.Role, SessionID: claims.SessionID}, nil
}

var _ ports.Service = (*Service)(nil)
