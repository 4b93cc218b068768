package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/utils"
)

// RefreshCookie refresh token 所在的 cookie
const RefreshCookie = "refresh_token"

const authKey = "auth"

// AccessParser 校验 access token
type AccessParser interface {
	ParseAccessToken(token string) (*model.TokenPayload, error)
}

// RefreshVerifier 校验 refresh token 及其用户
type RefreshVerifier interface {
	VerifyRefreshToken(ctx context.Context, token string) (*model.TokenPayload, error)
}

// RequireAccess 要求 Authorization: Bearer <access token>
func RequireAccess(tokens AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			utils.Fail(c, apperr.Unauthorized(apperr.CodeUnauthorized, "unauthorized"))
			return
		}

		payload, err := tokens.ParseAccessToken(raw)
		if err != nil {
			utils.Fail(c, apperr.Wrap(http.StatusUnauthorized, apperr.CodeUnauthorized, "unauthorized", err))
			return
		}

		c.Set(authKey, payload)
		c.Next()
	}
}

// RequireRefresh 要求有效的 refresh token cookie
func RequireRefresh(verifier RefreshVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 缺失时传空串，由 verifier 返回 AUTH_MISS_REFRESH_TOKEN
		raw, _ := c.Cookie(RefreshCookie)

		payload, err := verifier.VerifyRefreshToken(c.Request.Context(), raw)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		c.Set(authKey, payload)
		c.Next()
	}
}

// GetAuth 当前请求的令牌载荷，未经守卫时为 nil
func GetAuth(c *gin.Context) *model.TokenPayload {
	if v, ok := c.Get(authKey); ok {
		if p, ok := v.(*model.TokenPayload); ok {
			return p
		}
	}
	return nil
}

// GetUserID 当前用户 ID，未登录返回空串
func GetUserID(c *gin.Context) string {
	if p := GetAuth(c); p != nil {
		return p.ID
	}
	return ""
}

// GetActor 当前用户作为审计操作人
func GetActor(c *gin.Context) *model.Actor {
	if p := GetAuth(c); p != nil {
		return p.Actor()
	}
	return nil
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
