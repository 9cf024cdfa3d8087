package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthService implements registration, login and principal resolution.
type AuthService struct {
	admins   ports.CredentialRepository
	users    ports.CredentialRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	throttle ports.LoginThrottle
	activity ports.ActivityRecorder
	validate *validator.Validate
	log      zerolog.Logger
}

// AuthDeps groups the collaborators of AuthService. Throttle and Activity are optional.
type AuthDeps struct {
	Admins   ports.CredentialRepository
	Users    ports.CredentialRepository
	Hasher   ports.PasswordHasher
	Issuer   ports.TokenIssuer
	Throttle ports.LoginThrottle
	Activity ports.ActivityRecorder
	Log      zerolog.Logger
}

func NewAuthService(deps AuthDeps) *AuthService {
	activity := deps.Activity
	if activity == nil {
		activity = ports.NopRecorder{}
	}
	return &AuthService{
		admins:   deps.Admins,
		users:    deps.Users,
		hasher:   deps.Hasher,
		issuer:   deps.Issuer,
		throttle: deps.Throttle,
		activity: activity,
		validate: validator.New(),
		log:      deps.Log,
	}
}

// Register creates a user account. Only the users table is ever written here;
// admins come from seeding.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Principal, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.Principal{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.record(created.Email, created.Role, domain.ActionRegister)
	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the admins table first and falls back to users. An email
// present in both tables therefore always authenticates as the admin.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	if s.throttle != nil {
		locked, err := s.throttle.Locked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if locked {
			s.record(email, "", domain.ActionLoginFailed)
			return nil, domain.ErrTooManyAttempts
		}
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		return s.authenticate(ctx, admin, password)
	}
	if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return nil, fmt.Errorf("login: find admin: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			s.record(email, "", domain.ActionLoginFailed)
			return nil, domain.ErrUnknownEmail
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}
	return s.authenticate(ctx, user, password)
}

func (s *AuthService) authenticate(ctx context.Context, p *domain.Principal, password string) (*ports.LoginResult, error) {
	if !s.hasher.Verify(password, p.PasswordHash) {
		if s.throttle != nil {
			if err := s.throttle.RegisterFailure(ctx, p.Email); err != nil {
				s.log.Warn().Err(err).Msg("failed to register login failure")
			}
		}
		s.record(p.Email, p.Role, domain.ActionLoginFailed)
		return nil, domain.ErrWrongPassword
	}

	token, err := s.issuer.Issue(domain.ClaimsFor(p))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, p.Email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	s.record(p.Email, p.Role, domain.ActionLogin)
	s.log.Info().Int64("principal_id", p.ID).Str("role", p.Role).Msg("login succeeded")

	return &ports.LoginResult{Token: token, Principal: p.Public()}, nil
}

// CurrentPrincipal reloads the principal named by a verified claim set.
func (s *AuthService) CurrentPrincipal(ctx context.Context, claims domain.Claims) (*domain.Principal, error) {
	repo := s.users
	if claims.Role == domain.RoleAdmin {
		repo = s.admins
	}

	p, err := repo.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("current principal: %w", err)
	}
	return p, nil
}

// EmailExists reports whether a user account already uses email.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check email: %w", err)
	}
}

func (s *AuthService) record(actor, role, action string) {
	s.activity.Record(domain.Activity{
		Actor:      actor,
		Role:       role,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
