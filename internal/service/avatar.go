package service

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"go.uber.org/zap"
)

// MaxAvatarSize 头像大小上限
const MaxAvatarSize = 5 << 20

// ObjectStorage 对象存储
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// AvatarUpdater 写入用户头像字段
type AvatarUpdater interface {
	UpdateAvatar(ctx context.Context, id string, avatar model.Avatar, actor *model.Actor) error
}

// AvatarFile 上传的文件
type AvatarFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// AvatarService 头像上传，storage 为 nil 时禁用
type AvatarService struct {
	storage ObjectStorage
	users   AvatarUpdater
	log     *zap.Logger
}

func NewAvatarService(storage ObjectStorage, users AvatarUpdater, log *zap.Logger) *AvatarService {
	return &AvatarService{storage: storage, users: users, log: log}
}

// Enabled 是否配置了对象存储
func (s *AvatarService) Enabled() bool {
	return s.storage != nil
}

// Upload 校验图片后上传并写入用户记录
func (s *AvatarService) Upload(ctx context.Context, actor *model.Actor, file AvatarFile) (*model.Avatar, error) {
	if !s.Enabled() {
		return nil, apperr.New(http.StatusServiceUnavailable, apperr.CodeAvatarDisabled, "avatar storage is not configured")
	}
	if file.Size <= 0 || file.Size > MaxAvatarSize {
		return nil, apperr.BadRequest(apperr.CodeAvatarInvalid, "avatar must be between 1 byte and 5 MiB")
	}

	// 按内容嗅探类型，不信任客户端声明
	head := make([]byte, 512)
	n, err := io.ReadFull(file.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.BadRequest(apperr.CodeAvatarInvalid, "failed to read avatar")
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.BadRequest(apperr.CodeAvatarInvalid, "avatar must be an image")
	}

	key := path.Join("avatars", actor.ID, uuid.NewString()+extension(file.Name, contentType))
	body := io.MultiReader(bytes.NewReader(head), file.Reader)

	url, err := s.storage.Upload(ctx, key, body, file.Size, contentType)
	if err != nil {
		return nil, apperr.Wrap(http.StatusBadGateway, apperr.CodeUpstreamFailed, "failed to store avatar", err)
	}

	avatar := model.Avatar{PublicID: key, OriginalURL: url}
	if err := s.users.UpdateAvatar(ctx, actor.ID, avatar, actor); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to remove orphaned avatar", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Info("avatar updated", zap.String("user_id", actor.ID), zap.String("key", key))
	return &avatar, nil
}

func extension(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
