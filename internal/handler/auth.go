package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/middleware"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/utils"
)

// SignIn 登录，refresh token 写入 HttpOnly cookie
func (h *Handler) SignIn(c *gin.Context) {
	var in model.SignInInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	pair, err := h.svc.Auth.SignIn(c.Request.Context(), in)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	utils.Success(c, pair)
}

// SignUp 注册
func (h *Handler) SignUp(c *gin.Context) {
	var in model.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	user, err := h.svc.Auth.SignUp(c.Request.Context(), in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, user)
}

// SignOut 清除 refresh token cookie
func (h *Handler) SignOut(c *gin.Context) {
	h.clearRefreshCookie(c)
	utils.Success(c, gin.H{"id": middleware.GetUserID(c)})
}

// RefreshToken 轮换令牌对
func (h *Handler) RefreshToken(c *gin.Context) {
	raw, _ := c.Cookie(middleware.RefreshCookie)

	pair, err := h.svc.Auth.RefreshTokenPair(c.Request.Context(), raw)
	if err != nil {
		h.clearRefreshCookie(c)
		utils.Fail(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	utils.Success(c, pair)
}

// AuthInfor refresh token 对应的用户信息
func (h *Handler) AuthInfor(c *gin.Context) {
	user, err := h.svc.Users.GetUserInfor(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user)
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(h.cookie.sameSite())
	c.SetCookie(middleware.RefreshCookie, value, int(h.cookie.MaxAge.Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cookie.sameSite())
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}
