package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"subtrack/internal/domain"
	"subtrack/internal/repository"
)

// IdentityService liga claims verificados a una identidad canónica y
// provisiona el registro de usuario la primera vez que ve un subject.
type IdentityService struct {
	logger *zap.Logger
	users  repository.UserRepository
	creds  repository.GmailCredentialsRepository
}

func NewIdentityService(logger *zap.Logger, users repository.UserRepository, creds repository.GmailCredentialsRepository) *IdentityService {
	return &IdentityService{
		logger: logger,
		users:  users,
		creds:  creds,
	}
}

var ErrClaimsInvalid = errors.New("claims invalid")

// Bind resuelve el principal a un usuario y reporta si es la primera vez que
// se ve ese subject. El usuario devuelto se construye desde el token; un
// caller que necesite la fila persistida completa debe consultarla aparte.
func (s *IdentityService) Bind(ctx context.Context, principal Principal) (domain.User, bool, error) {
	if s.users == nil {
		return domain.User{}, false, errors.New("identity service not configured")
	}

	subject := strings.TrimSpace(principal.ID)
	if subject == "" {
		return domain.User{}, false, ErrClaimsInvalid
	}

	user := domain.User{
		ID:          subject,
		Email:       strings.TrimSpace(principal.Email),
		DisplayName: strings.TrimSpace(principal.Name),
		CreatedAt:   time.Now().UTC(),
	}

	exists, err := s.users.Exists(ctx, subject)
	if err != nil {
		return domain.User{}, false, err
	}
	if exists {
		return user, false, nil
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Dos primeros logins simultáneos del mismo subject: el PRIMARY KEY
		// convierte al perdedor en un "ya provisionado", no en un error.
		if repository.IsUniqueViolation(err) {
			return user, false, nil
		}
		return domain.User{}, false, err
	}

	s.provisionCredentials(ctx, user)
	return user, true, nil
}

// provisionCredentials crea la fila vacía de credenciales Gmail del usuario
// nuevo. Es best-effort: un fallo se registra pero no revierte el signup.
func (s *IdentityService) provisionCredentials(ctx context.Context, user domain.User) {
	if s.creds == nil {
		return
	}
	cred := domain.GmailCredentials{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.creds.Upsert(ctx, cred); err != nil && s.logger != nil {
		s.logger.Warn("gmail credentials provisioning failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}
