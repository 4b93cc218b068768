package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/repository"
	"go.uber.org/zap"
)

const (
	msgUnauthorized     = "unauthorized"
	msgWrongCredentials = "email or password is incorrect"
)

// Accounts 认证依赖的用户操作
type Accounts interface {
	CreateUser(ctx context.Context, in model.CreateUserInput, actor *model.Actor) (*model.User, error)
	ValidateUser(ctx context.Context, email, password string) (*model.User, error)
	FindOneByID(ctx context.Context, id string, opts repository.FindOptions) (*model.User, error)
}

// AuthService 登录、注册与令牌轮换；refresh token 无服务端状态
type AuthService struct {
	accounts Accounts
	tokens   model.TokenManager
	log      *zap.Logger
}

func NewAuthService(accounts Accounts, tokens model.TokenManager, log *zap.Logger) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, log: log}
}

// SignUp 注册
func (s *AuthService) SignUp(ctx context.Context, in model.SignUpInput) (*model.User, error) {
	return s.accounts.CreateUser(ctx, in, nil)
}

// SignIn 登录，邮箱不存在与密码错误返回同一错误
func (s *AuthService) SignIn(ctx context.Context, in model.SignInInput) (*model.TokenPair, error) {
	user, err := s.accounts.ValidateUser(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized(apperr.CodeWrongCredentials, msgWrongCredentials)
	}

	pair, err := s.issue(model.TokenPayload{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}
	s.log.Info("user signed in", zap.String("user_id", user.ID))
	return pair, nil
}

// VerifyRefreshToken 校验签名、有效期与类型，且用户仍存在未删除
func (s *AuthService) VerifyRefreshToken(ctx context.Context, token string) (*model.TokenPayload, error) {
	if token == "" {
		return nil, apperr.Unauthorized(apperr.CodeMissRefreshToken, msgUnauthorized)
	}

	payload, err := s.tokens.ParseRefreshToken(token)
	if err != nil {
		return nil, apperr.Wrap(http.StatusUnauthorized, apperr.CodeUnauthorized, msgUnauthorized, err)
	}

	user, err := s.accounts.FindOneByID(ctx, payload.ID, repository.FindOptions{})
	if err != nil {
		return nil, apperr.Wrap(http.StatusUnauthorized, apperr.CodeUnauthorized, msgUnauthorized, err)
	}
	if user == nil || user.IsDeleted {
		return nil, apperr.Unauthorized(apperr.CodeUnauthorized, msgUnauthorized)
	}
	return payload, nil
}

// RefreshTokenPair 校验后签发新的令牌对
func (s *AuthService) RefreshTokenPair(ctx context.Context, token string) (*model.TokenPair, error) {
	payload, err := s.VerifyRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.issue(model.TokenPayload{ID: payload.ID, Email: payload.Email})
}

func (s *AuthService) issue(payload model.TokenPayload) (*model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(payload)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(payload)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
