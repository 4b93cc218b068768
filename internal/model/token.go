package model

import "time"

// TokenPayload 令牌载荷，不落库
type TokenPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Actor 作为审计操作人
func (p *TokenPayload) Actor() *Actor {
	return &Actor{ID: p.ID, Email: p.Email}
}

// TokenPair access token 放响应体，refresh token 只走 cookie
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// TokenManager 签发与校验令牌
type TokenManager interface {
	GenerateAccessToken(payload TokenPayload) (string, error)
	GenerateRefreshToken(payload TokenPayload) (string, error)
	ParseAccessToken(token string) (*TokenPayload, error)
	ParseRefreshToken(token string) (*TokenPayload, error)
}
