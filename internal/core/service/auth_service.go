package service

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

// AuthService implements login and logout. Tokens are HS256 JWTs carrying
// the user's id, role, and permission set; logout places the token's jti on
// a denylist until the token would have expired on its own.
type AuthService struct {
	repo      ports.UserRepository
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		denylist:  denylist,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("login")
	return token, user, nil
}

// Logout revokes the presented token. A malformed or already-expired token
// is treated as a successful logout since there is nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	ttl := s.tokenTTL
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}

	if err := s.denylist.Revoke(ctx, jti, ttl); err != nil {
		return err
	}

	s.logger.Info().Str("jti", jti).Msg("logout")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	perms := make([]string, len(user.Permissions))
	for i, p := range user.Permissions {
		perms[i] = string(p)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         strconv.FormatInt(user.ID, 10),
		"username":    user.Username,
		"role":        user.Role,
		"permissions": perms,
		"jti":         newTokenID(),
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
