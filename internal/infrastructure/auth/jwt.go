package auth

import (
	"errors"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingTenantID    = errors.New("missing tenant_id in claims")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims carries the tenant and the acting user for every authenticated request
type Claims struct {
	jwt.RegisteredClaims
	TenantID     string    `json:"tenant_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Role         string    `json:"role,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// TokenPair is an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// JWTService issues and validates HS256 tokens
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	maxRefreshCount   int
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if cfg.RefreshSecret == "" {
		refreshSecret = []byte(cfg.Secret)
	}
	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     refreshSecret,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		maxRefreshCount:   cfg.MaxRefreshCount,
	}
}

// Subject identifies who a token pair is issued to
type Subject struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Username string
	Role     string
}

// GenerateTokenPair issues a fresh access and refresh token
func (s *JWTService) GenerateTokenPair(subject Subject) (*TokenPair, error) {
	return s.issue(subject, 0)
}

func (s *JWTService) issue(subject Subject, refreshCount int) (*TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(s.accessExpiration)
	refreshExp := now.Add(s.refreshExpiration)

	access := s.claims(subject, TokenTypeAccess, now, accessExp)
	accessToken, err := sign(access, s.accessSecret)
	if err != nil {
		return nil, err
	}

	refresh := s.claims(subject, TokenTypeRefresh, now, refreshExp)
	refresh.RefreshCount = refreshCount
	refreshToken, err := sign(refresh, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) claims(subject Subject, tokenType TokenType, now, expiresAt time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   subject.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:  subject.TenantID.String(),
		UserID:    subject.UserID.String(),
		Username:  subject.Username,
		Role:      subject.Role,
		TokenType: tokenType,
	}
}

func sign(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.accessSecret, TokenTypeAccess)
}

func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, secret []byte, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidTokenType
	}
	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// RefreshTokenPair exchanges a valid refresh token for a new pair.
// The refresh chain is capped at the configured maximum.
func (s *JWTService) RefreshTokenPair(refreshToken string) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if s.maxRefreshCount > 0 && claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}

	pair, err := s.issue(Subject{
		TenantID: tenantID,
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

func (c *Claims) GetTenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// RemainingTTL returns the time until expiry, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}
