package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/user/moovie-api/internal/model"
)

// Claims JWT 载荷，typ 区分 access 与 refresh
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"id"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
}

// Options 密钥与有效期
type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// JWT 基于 HMAC 的令牌管理器
type JWT struct {
	opts Options
}

var _ model.TokenManager = (*JWT)(nil)

func NewJWT(opts Options) *JWT {
	return &JWT{opts: opts}
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// GenerateAccessToken 签发短期 access token
func (j *JWT) GenerateAccessToken(payload model.TokenPayload) (string, error) {
	return j.sign(payload, typeAccess, j.opts.AccessSecret, j.opts.AccessTTL)
}

// GenerateRefreshToken 签发长期 refresh token
func (j *JWT) GenerateRefreshToken(payload model.TokenPayload) (string, error) {
	return j.sign(payload, typeRefresh, j.opts.RefreshSecret, j.opts.RefreshTTL)
}

// ParseAccessToken 校验 access token
func (j *JWT) ParseAccessToken(tokenString string) (*model.TokenPayload, error) {
	return j.parse(tokenString, typeAccess, j.opts.AccessSecret)
}

// ParseRefreshToken 校验 refresh token
func (j *JWT) ParseRefreshToken(tokenString string) (*model.TokenPayload, error) {
	return j.parse(tokenString, typeRefresh, j.opts.RefreshSecret)
}

func (j *JWT) sign(payload model.TokenPayload, typ, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    payload.ID,
		Email:     payload.Email,
		TokenType: typ,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return tokenString, nil
}

func (j *JWT) parse(tokenString, typ, secret string) (*model.TokenPayload, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s token: %w", typ, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%s token is invalid", typ)
	}
	if claims.TokenType != typ {
		return nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}

	payload := &model.TokenPayload{ID: claims.UserID, Email: claims.Email}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload, nil
}
