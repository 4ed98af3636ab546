// Package auth signs users in and out and answers who is signed in.
//
// It is the only writer of the session store. Roles come from the server
// response at login time and are never changed locally; the cached role is
// advisory and the server re-checks authorization on every protected call.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/naveenspark/shopfront/internal/session"
	"github.com/naveenspark/shopfront/pkg/domain"
)

// API is the part of the shop API client used for authentication.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error)
}

// SessionStore is the persisted session the service writes to.
type SessionStore interface {
	Save(ctx context.Context, token string, user domain.User) error
	Read(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type Service struct {
	api      API
	store    SessionStore
	validate *validator.Validate
}

func NewService(api API, store SessionStore) *Service {
	return &Service{
		api:      api,
		store:    store,
		validate: validator.New(),
	}
}

// Login signs in and stores the session. On any failure the stored
// session is left as it was.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	resp, err := s.login(ctx, "auth.Login", email, password)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, "auth.Login", resp)
}

// LoginAdmin is Login for the admin sign-in view: a valid account without
// the admin role gets ErrNotAdmin and nothing is stored.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*session.Session, error) {
	resp, err := s.login(ctx, "auth.LoginAdmin", email, password)
	if err != nil {
		return nil, err
	}
	if !resp.User.IsAdmin() {
		log.Infof("auth: admin sign-in refused for %s (role %q)", resp.User.Email, resp.User.Role)
		return nil, fmt.Errorf("auth.LoginAdmin: %w", ErrNotAdmin)
	}
	return s.persist(ctx, "auth.LoginAdmin", resp)
}

func (s *Service) login(ctx context.Context, op, email, password string) (*domain.AuthResponse, error) {
	in := loginInput{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(op, err)
	}
	resp, err := s.api.Login(ctx, in.Email, in.Password)
	if err != nil {
		log.Debugf("auth: login %s failed: %s", in.Email, err)
		return nil, classify(op, err, ErrInvalidCredentials, loginRejected)
	}
	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}
	return resp, nil
}

// Register creates an account, then stores its session like Login.
func (s *Service) Register(ctx context.Context, name, email, password string) (*session.Session, error) {
	in := registerInput{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError("auth.Register", err)
	}
	resp, err := s.api.Register(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		log.Debugf("auth: register %s failed: %s", in.Email, err)
		return nil, classify("auth.Register", err, ErrValidation, registerRejected)
	}
	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("auth.Register: %w: %w", ErrNetwork, err)
	}
	return s.persist(ctx, "auth.Register", resp)
}

// ConfirmPassword checks the sign-up form's repeated password.
func (s *Service) ConfirmPassword(password, confirm string) error {
	if err := s.validate.VarWithValue(confirm, password, "eqfield"); err != nil {
		return fmt.Errorf("auth.ConfirmPassword: %w: passwords do not match", ErrValidation)
	}
	return nil
}

func checkResponse(resp *domain.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return fmt.Errorf("malformed auth response: missing token")
	}
	if !resp.User.Role.Valid() {
		return fmt.Errorf("malformed auth response: unknown role %q", resp.User.Role)
	}
	return nil
}

func (s *Service) persist(ctx context.Context, op string, resp *domain.AuthResponse) (*session.Session, error) {
	if err := s.store.Save(ctx, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Infof("auth: signed in as %s (%s)", resp.User.Email, resp.User.Role)
	user := resp.User
	return &session.Session{Token: resp.Token, User: &user}, nil
}

// Logout clears the local session. The token is not revoked server-side.
// A storage failure is logged; logout itself always succeeds.
func (s *Service) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		log.Errorf("auth: clear session: %s", err)
		return
	}
	log.Info("auth: signed out")
}

func (s *Service) read(ctx context.Context) *session.Session {
	sess, err := s.store.Read(ctx)
	if err != nil {
		log.Warnf("auth: read session: %s", err)
		return nil
	}
	return sess
}

// CurrentUser returns the cached user, or nil when signed out.
func (s *Service) CurrentUser(ctx context.Context) *domain.User {
	sess := s.read(ctx)
	if sess == nil {
		return nil
	}
	return sess.User
}

// IsAuthenticated reports whether a token is stored.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.read(ctx) != nil
}

// IsAdmin reports whether the cached user has the admin role.
func (s *Service) IsAdmin(ctx context.Context) bool {
	return s.CurrentUser(ctx).IsAdmin()
}

// TokenExpiry returns the exp claim when the stored token is a JWT. The
// signature is not checked; the value is for display only.
func (s *Service) TokenExpiry(ctx context.Context) (time.Time, bool) {
	sess := s.read(ctx)
	if sess == nil {
		return time.Time{}, false
	}
	return tokenExpiry(sess.Token)
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
