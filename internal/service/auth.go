package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ricknho777/CarllyRommanel/internal/config"
	"github.com/Ricknho777/CarllyRommanel/internal/dto"
	"github.com/Ricknho777/CarllyRommanel/internal/model"
	"github.com/Ricknho777/CarllyRommanel/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("e-mail ou senha incorretos")
	ErrAdminNotConfigured = errors.New("admin password hash not configured")
	ErrPasswordMismatch   = errors.New("as senhas não coincidem")
)

const (
	tokenTTL      = 24 * time.Hour
	rememberMeTTL = 7 * 24 * time.Hour
	sha256HexLen  = 64
)

type AuthService interface {
	// AdminLogin verifies the admin password and issues a fresh token.
	// Multiple concurrent tokens for the admin are allowed.
	AdminLogin(ctx context.Context, password string, rememberMe bool) (token string, ttl time.Duration, err error)
	// VerifyAdminToken checks a database-issued token; expiry is evaluated
	// at lookup, never by background transition.
	VerifyAdminToken(ctx context.Context, token string) (email string, ok bool)
	// VerifyAdminBearer accepts, in order: a database-issued token, the
	// static API token, or the admin password itself.
	VerifyAdminBearer(ctx context.Context, bearer string) bool
	AdminLogout(ctx context.Context, token string) error
	SweepExpiredTokens(ctx context.Context)

	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)

	IsAdminEmail(email string) bool
	AdminEmail() string
}

type authServiceImpl struct {
	cfg       *config.Admin
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
}

func NewAuthService(cfg *config.Admin, tokenRepo repository.TokenRepository, userRepo repository.UserRepository) AuthService {
	return &authServiceImpl{
		cfg:       cfg,
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
	}
}

func (s *authServiceImpl) IsAdminEmail(email string) bool {
	return email == s.cfg.Email
}

func (s *authServiceImpl) AdminEmail() string {
	return s.cfg.Email
}

// verifyAdminPassword accepts either the plaintext password or a
// pre-computed SHA-256 hex digest; the configured secret is always a
// digest, comparisons are case-insensitive.
func (s *authServiceImpl) verifyAdminPassword(password string) bool {
	if password == "" || s.cfg.PasswordHash == "" {
		return false
	}

	candidate := password
	if !isHexDigest(password) {
		sum := sha256.Sum256([]byte(password))
		candidate = hex.EncodeToString(sum[:])
	}
	return strings.EqualFold(candidate, s.cfg.PasswordHash)
}

func isHexDigest(value string) bool {
	if len(value) != sha256HexLen {
		return false
	}
	for _, c := range value {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func (s *authServiceImpl) AdminLogin(ctx context.Context, password string, rememberMe bool) (string, time.Duration, error) {
	if s.cfg.PasswordHash == "" {
		return "", 0, ErrAdminNotConfigured
	}
	if !s.verifyAdminPassword(password) {
		return "", 0, ErrInvalidCredentials
	}

	ttl := tokenTTL
	if rememberMe {
		ttl = rememberMeTTL
	}

	token := newToken()
	err := s.tokenRepo.Save(ctx, &model.AdminToken{
		Token:     token,
		Email:     s.cfg.Email,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return "", 0, fmt.Errorf("save admin token: %w", err)
	}

	log.Info().Str("email", s.cfg.Email).Dur("ttl", ttl).Msg("admin token issued")
	return token, ttl, nil
}

// newToken builds an opaque credential: a UUID joined with 32 bytes of
// fresh entropy.
func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read on supported platforms does not fail; keep the UUID.
		return uuid.NewString()
	}
	return uuid.NewString() + "-" + hex.EncodeToString(buf)
}

func (s *authServiceImpl) VerifyAdminToken(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	row, err := s.tokenRepo.Find(ctx, token)
	if err != nil {
		return "", false
	}
	return row.Email, true
}

func (s *authServiceImpl) VerifyAdminBearer(ctx context.Context, bearer string) bool {
	if bearer == "" {
		return false
	}
	if _, ok := s.VerifyAdminToken(ctx, bearer); ok {
		return true
	}
	if s.cfg.APIToken != "" && bearer == s.cfg.APIToken {
		return true
	}
	return s.verifyAdminPassword(bearer)
}

func (s *authServiceImpl) AdminLogout(ctx context.Context, token string) error {
	return s.tokenRepo.Delete(ctx, token)
}

func (s *authServiceImpl) SweepExpiredTokens(ctx context.Context) {
	deleted, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("expired token sweep failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("swept expired admin tokens")
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" {
		return nil, errors.New("nome é obrigatório")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("e-mail válido é obrigatório")
	}
	if req.Password == "" {
		return nil, errors.New("senha é obrigatória")
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
