// Package services contains the server-side business logic. UserService is
// the session boundary: it registers users, exchanges credentials for bearer
// tokens, resolves tokens back to profiles and revokes them.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

const (
	minUserNameLen = 3
	maxUserNameLen = 64
	maxNameLen     = 100
)

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// RegisterInput is the data a new user supplies.
type RegisterInput struct {
	UserName  string
	FirstName string
	LastName  string
	Password  string
}

// Token is an issued bearer credential.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

type VerificationStatus int

const (
	StatusInvalid VerificationStatus = iota
	StatusOK
	StatusExpired
)

func (s VerificationStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Verification is the outcome of VerifyAndIdentify. Profile is set only
// when Status is StatusOK.
type Verification struct {
	Status  VerificationStatus
	Profile *models.Profile
}

// UserService implements registration, login, token verification and revocation.
type UserService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	metrics     *metrics.Metrics
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewUserService constructs a UserService. logger and m may be nil.
func NewUserService(rm repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger, m *metrics.Metrics) *UserService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserService{
		repomanager: rm,
		logger:      logger,
		metrics:     m,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.AccessTokenTTL,
	}
}

// Register creates a new user. It never issues a token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := validateRegister(in); err != nil {
		s.metrics.ObserveRegister("invalid")
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.metrics.ObserveRegister("error")
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{
		UserName:     in.UserName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			s.metrics.ObserveRegister("conflict")
			return nil, fmt.Errorf("username %q: %w", in.UserName, common.ErrAlreadyExists)
		}
		s.metrics.ObserveRegister("error")
		s.logger.Error(ctx, "create user failed", "username", in.UserName, "error", err)
		return nil, fmt.Errorf("error creating user: %w", common.ErrorInternal)
	}

	s.metrics.ObserveRegister("success")
	s.logger.Info(ctx, "user registered", "user_id", u.ID, "username", u.UserName)
	return u, nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case in.UserName == "" || in.FirstName == "" || in.LastName == "" || in.Password == "":
		return fmt.Errorf("%w: username, firstname, lastname and password are required", common.ErrValidation)
	case utf8.RuneCountInString(in.UserName) < minUserNameLen || utf8.RuneCountInString(in.UserName) > maxUserNameLen:
		return fmt.Errorf("%w: username must be %d to %d characters", common.ErrValidation, minUserNameLen, maxUserNameLen)
	case !userNamePattern.MatchString(in.UserName):
		return fmt.Errorf("%w: username may contain only letters, digits, '.', '_' and '-'", common.ErrValidation)
	case utf8.RuneCountInString(in.FirstName) > maxNameLen || utf8.RuneCountInString(in.LastName) > maxNameLen:
		return fmt.Errorf("%w: names must be at most %d characters", common.ErrValidation, maxNameLen)
	case len(in.Password) > auth.MaxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, auth.MaxPasswordBytes)
	}
	return nil
}

// Login verifies the credentials and returns a fresh token. Unknown users and
// wrong passwords are both reported as common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (*Token, error) {
	user, err := s.repomanager.Users().GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.metrics.ObserveLogin("error")
		s.logger.Error(ctx, "lookup user failed", "error", err)
		return nil, common.ErrorInternal
	}

	var hash []byte
	if user != nil {
		hash = user.PasswordHash
	}

	ok, err := auth.CheckPassword(hash, password)
	if err != nil {
		s.metrics.ObserveLogin("error")
		s.logger.Error(ctx, "password check failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		s.metrics.ObserveLogin("invalid_credentials")
		return nil, common.ErrorUnauthorized
	}

	token, claims, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.metrics.ObserveLogin("error")
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.metrics.ObserveLogin("success")
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &Token{AccessToken: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// VerifyAndIdentify resolves a token to the profile of the user it is bound to.
// It never returns an error: every failure is folded into the status.
func (s *UserService) VerifyAndIdentify(ctx context.Context, token string) Verification {
	v := s.verify(ctx, token)
	s.metrics.ObserveVerify(v.Status.String())
	return v
}

func (s *UserService) verify(ctx context.Context, token string) Verification {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return Verification{Status: StatusExpired}
		}
		return Verification{Status: StatusInvalid}
	}

	revoked, err := s.repomanager.Revocations().IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error(ctx, "revocation lookup failed", "error", err)
		return Verification{Status: StatusInvalid}
	}
	if revoked {
		return Verification{Status: StatusInvalid}
	}

	user, err := s.repomanager.Users().GetUserByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "lookup user failed", "user_id", claims.UserID, "error", err)
		}
		return Verification{Status: StatusInvalid}
	}

	return Verification{Status: StatusOK, Profile: user.Profile()}
}

// Revoke invalidates token until its own expiry. Expired or invalid tokens
// are reported with the corresponding credential error.
func (s *UserService) Revoke(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return err
	}

	if err := s.repomanager.Revocations().Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error(ctx, "revoke failed", "error", err)
		return fmt.Errorf("revoke token: %w", common.ErrorInternal)
	}

	s.metrics.ObserveRevoke()
	s.logger.Info(ctx, "token revoked", "user_id", claims.UserID)
	return nil
}
