package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/middleware"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"github.com/user/moovie-api/internal/service"
	"github.com/user/moovie-api/internal/utils"
)

// multipart 表单本身的开销
const avatarFormOverhead = 1 << 20

// GetUsers 用户列表，默认不含已删除用户
func (h *Handler) GetUsers(c *gin.Context) {
	var page pageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	users, err := h.svc.Users.FindMany(c.Request.Context(), c.Request.URL.RawQuery, service.ListOptions{
		Projection: query.Exclude("password"),
		Expand:     []string{"Role"},
		Page:       page.Page,
		Limit:      page.Limit,
		Defaults:   []query.Condition{query.Eq("is_deleted", false)},
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"users": users})
}

// GetMe 当前用户
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.svc.Users.GetUserInfor(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user": user})
}

// GetUser 按 ID 查询
func (h *Handler) GetUser(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	user, err := h.svc.Users.GetUserInfor(c.Request.Context(), uri.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user": user})
}

// CreateUser 由已登录用户创建账号
func (h *Handler) CreateUser(c *gin.Context) {
	var in model.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	user, err := h.svc.Users.CreateUser(c.Request.Context(), in, middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, gin.H{"user": user})
}

// UpdateUser 部分更新
func (h *Handler) UpdateUser(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}
	var in model.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	if err := h.svc.Users.UpdateUser(c.Request.Context(), uri.ID, in, middleware.GetActor(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user": gin.H{"id": uri.ID}})
}

// DeleteUser 软删除
func (h *Handler) DeleteUser(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	if err := h.svc.Users.DeleteUser(c.Request.Context(), uri.ID, middleware.GetActor(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user": gin.H{"id": uri.ID}})
}

// UploadAvatar 上传当前用户头像（multipart 字段 avatar）
func (h *Handler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxAvatarSize+avatarFormOverhead)

	header, err := c.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Fail(c, apperr.BadRequest(apperr.CodeAvatarInvalid, "avatar must be between 1 byte and 5 MiB"))
			return
		}
		utils.Fail(c, apperr.BadRequest(apperr.CodeAvatarInvalid, "avatar file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.Fail(c, apperr.BadRequest(apperr.CodeAvatarInvalid, "failed to read avatar"))
		return
	}
	defer file.Close()

	avatar, err := h.svc.Avatars.Upload(c.Request.Context(), middleware.GetActor(c), service.AvatarFile{
		Name:   header.Filename,
		Size:   header.Size,
		Reader: file,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"avatar_url": avatar})
}
