package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"inventory-console/internal/api"
	"inventory-console/internal/domain"
)

// Messages shown by the users table.
const (
	MsgUsersLoadFailed = "Error al cargar usuarios"
	MsgUsersConnection = "Error de conexión al obtener usuarios"
)

// ErrNotAuthenticated is returned when the users list is requested without a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// UserLister fetches the users list with a bearer token.
type UserLister interface {
	ListUsers(ctx context.Context, token string) ([]domain.User, error)
}

// UserService lists inventory users on behalf of the current session.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	users UserLister
	gate  SessionGate
	log   logrus.FieldLogger
}

func NewUserService(users UserLister, gate SessionGate, logger logrus.FieldLogger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users: users,
		gate:  gate,
		log:   logger,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	creds, ok := s.gate.Current().Credentials()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	users, err := s.users.ListUsers(ctx, creds.Token)
	if err == nil {
		return users, nil
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.Message
		if msg == "" {
			msg = MsgUsersLoadFailed
		}
		return nil, &DisplayError{Kind: ErrRejected, Message: msg, Err: err}
	}
	s.log.WithError(err).Warn("list users failed")
	return nil, &DisplayError{Kind: ErrConnection, Message: MsgUsersConnection, Err: err}
}
