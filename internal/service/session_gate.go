package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"inventory-console/internal/api"
	"inventory-console/internal/domain"
	"inventory-console/internal/repository"
)

// User facing messages for the login form.
const (
	MsgMissingFields      = "Por favor, completa todos los campos"
	MsgInvalidCredentials = "Credenciales incorrectas"
	MsgConnectionError    = "Error de conexión. Intenta nuevamente."
)

var (
	// ErrValidation indicates a required login field was empty.
	ErrValidation = errors.New("missing required field")
	// ErrRejected indicates the API refused the credentials.
	ErrRejected = errors.New("credentials rejected")
	// ErrConnection indicates the API could not be reached.
	ErrConnection = errors.New("connection error")
	// ErrLoginInProgress is returned while another login request is outstanding.
	ErrLoginInProgress = errors.New("login already in progress")
	// ErrAlreadyAuthenticated is returned by Login when a session exists.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
)

// DisplayError carries a message that can be shown to the user as is. Kind
// matches one of the sentinel errors above through errors.Is.
type DisplayError struct {
	Kind    error
	Message string
	Err     error
}

func (e *DisplayError) Error() string { return e.Message }

func (e *DisplayError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// OfflinePolicy decides what Validate does when the API is unreachable.
type OfflinePolicy string

const (
	// OfflinePolicyOptimistic keeps the stored session when the API cannot be reached.
	OfflinePolicyOptimistic OfflinePolicy = "optimistic"
	// OfflinePolicyStrict drops the session when the API cannot be reached.
	OfflinePolicyStrict OfflinePolicy = "strict"
)

func ParseOfflinePolicy(s string) (OfflinePolicy, error) {
	switch p := OfflinePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OfflinePolicyOptimistic, OfflinePolicyStrict:
		return p, nil
	case "":
		return OfflinePolicyOptimistic, nil
	default:
		return "", fmt.Errorf("unknown offline policy %q", s)
	}
}

// AuthAPI is the part of the remote API the gate depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	CheckToken(ctx context.Context, token string) error
}

// SessionGate owns the console's authentication state and is the only writer
// of the credential store.
type SessionGate interface {
	// Start reads the stored credentials once and leaves the Checking state.
	Start(ctx context.Context) (domain.Session, error)
	Login(ctx context.Context, email, password string) error
	// Validate checks the stored token against the protected resource endpoint.
	Validate(ctx context.Context) (domain.Session, error)
	Logout(ctx context.Context) error
	Current() domain.Session
}

type GateConfig struct {
	OfflinePolicy OfflinePolicy
	Logger        logrus.FieldLogger
}

type sessionGate struct {
	store  repository.CredentialStore
	auth   AuthAPI
	policy OfflinePolicy
	log    logrus.FieldLogger

	mu        sync.RWMutex
	session   domain.Session
	loggingIn atomic.Bool
}

func NewSessionGate(store repository.CredentialStore, auth AuthAPI, cfg GateConfig) SessionGate {
	if cfg.OfflinePolicy == "" {
		cfg.OfflinePolicy = OfflinePolicyOptimistic
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &sessionGate{
		store:   store,
		auth:    auth,
		policy:  cfg.OfflinePolicy,
		log:     cfg.Logger,
		session: domain.CheckingSession(),
	}
}

func (g *sessionGate) Current() domain.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

func (g *sessionGate) Start(ctx context.Context) (domain.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session.State() != domain.SessionStateChecking {
		return g.session, nil
	}

	record, err := g.store.Load(ctx)
	if err != nil {
		g.session = domain.UnauthenticatedSession()
		return g.session, fmt.Errorf("load credentials: %w", err)
	}
	if !record.Complete() {
		if record.Token != "" || record.UserName != "" {
			g.log.Warn("partial credentials in store, treating session as unauthenticated")
		}
		g.session = domain.UnauthenticatedSession()
		return g.session, nil
	}

	g.session = domain.AuthenticatedSession(domain.Credentials{
		Token:    record.Token,
		UserName: record.UserName,
	})
	g.log.WithField("user", record.UserName).Info("restored stored session")
	return g.session, nil
}

func (g *sessionGate) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return &DisplayError{Kind: ErrValidation, Message: MsgMissingFields}
	}
	if g.Current().Authenticated() {
		return ErrAlreadyAuthenticated
	}
	if !g.loggingIn.CompareAndSwap(false, true) {
		return ErrLoginInProgress
	}
	defer g.loggingIn.Store(false)

	resp, err := g.auth.Login(ctx, email, password)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			msg := statusErr.Message
			if msg == "" {
				msg = MsgInvalidCredentials
			}
			return &DisplayError{Kind: ErrRejected, Message: msg, Err: err}
		}
		g.log.WithError(err).Warn("login request failed")
		return &DisplayError{Kind: ErrConnection, Message: MsgConnectionError, Err: err}
	}
	if !resp.Success {
		msg := resp.Msg
		if msg == "" {
			msg = MsgInvalidCredentials
		}
		return &DisplayError{Kind: ErrRejected, Message: msg}
	}
	if resp.AccessToken == "" || resp.Data == "" {
		g.log.Warn("login response without token or user name")
		return &DisplayError{Kind: ErrRejected, Message: MsgInvalidCredentials}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.store.Save(ctx, repository.CredentialRecord{Token: resp.AccessToken, UserName: resp.Data}); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	g.session = domain.AuthenticatedSession(domain.Credentials{
		Token:    resp.AccessToken,
		UserName: resp.Data,
	})
	g.log.WithField("user", resp.Data).Info("logged in")
	return nil
}

func (g *sessionGate) Validate(ctx context.Context) (domain.Session, error) {
	creds, ok := g.Current().Credentials()
	if !ok {
		return g.Current(), nil
	}

	err := g.auth.CheckToken(ctx, creds.Token)
	if err == nil {
		return g.Current(), nil
	}

	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		if g.policy == OfflinePolicyOptimistic {
			g.log.WithError(err).Warn("could not reach api, keeping stored session")
			return g.Current(), nil
		}
		g.log.WithError(err).Warn("could not reach api, dropping stored session")
	} else {
		g.log.WithField("status", statusErr.StatusCode).Info("stored token rejected")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// a logout or new login may have happened while the check was in flight
	if current, ok := g.session.Credentials(); !ok || current.Token != creds.Token {
		return g.session, nil
	}
	g.session = domain.UnauthenticatedSession()
	if err := g.store.Clear(ctx); err != nil {
		return g.session, fmt.Errorf("clear credentials: %w", err)
	}
	return g.session, nil
}

func (g *sessionGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	wasAuthenticated := g.session.Authenticated()
	g.session = domain.UnauthenticatedSession()
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	if wasAuthenticated {
		g.log.Info("logged out")
	}
	return nil
}
