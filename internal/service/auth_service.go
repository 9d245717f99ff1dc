package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gyandeep/internal/config"
	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrNotRefreshToken = errors.New("not a refresh token")
)

// AuthService issues and validates the HS256 token pair.
type AuthService interface {
	IssueTokens(ctx context.Context, user *domain.UserProfile) (*dto.AuthResponse, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (*dto.AuthResponse, error)
}

type authServiceImpl struct {
	users     domain.UserRepository
	jwtConfig config.JWTConfig
	now       func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users domain.UserRepository, jwtConfig config.JWTConfig) (AuthService, error) {
	if len(jwtConfig.SecretKey) == 0 {
		return nil, errors.New("jwt secret key is not configured")
	}
	if jwtConfig.AccessTTL <= 0 || jwtConfig.RefreshTTL <= 0 {
		return nil, errors.New("jwt token ttls must be positive")
	}
	return &authServiceImpl{users: users, jwtConfig: jwtConfig, now: time.Now}, nil
}

func (s *authServiceImpl) IssueTokens(ctx context.Context, user *domain.UserProfile) (*dto.AuthResponse, error) {
	accessToken, err := s.createJWT(user, s.jwtConfig.AccessTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.createJWT(user, s.jwtConfig.RefreshTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("failed to create refresh token", err)
	}
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtConfig.AccessTTL.Seconds()),
		TokenType:    "Bearer",
		User:         user,
	}, nil
}

func (s *authServiceImpl) createJWT(user *domain.UserProfile, ttl time.Duration, tokenType string) (string, error) {
	now := s.now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

// RefreshToken rotates both tokens. The user is reloaded so admin rights follow the stored profile.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.AuthResponse, error) {
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid refresh token", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid refresh token", ErrNotRefreshToken)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user for refresh token", err)
	}
	if user == nil {
		logger.Get().Warn("User not found for refresh token", zap.String("userID", claims.UserID))
		return nil, domain.NewNotFoundError(fmt.Sprintf("user %s not found for refresh token", claims.UserID))
	}
	return s.IssueTokens(ctx, user)
}

func snippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}
