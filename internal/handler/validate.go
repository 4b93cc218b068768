package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/moovie-api/internal/apperr"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	registerOnce sync.Once
)

// registerValidators 在 gin 的校验引擎上注册自定义 tag
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
				return slugPattern.MatchString(fl.Field().String())
			})
		}
	})
}

type slugURI struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

type typeURI struct {
	Type string `uri:"type" binding:"required,slug"`
}

type idURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,gte=1"`
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

type searchQuery struct {
	Query string `form:"query" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

type linkQuery struct {
	EpisodeSlug string `form:"episode-slug" binding:"omitempty,slug"`
}

// bindError 绑定或校验失败转为 ValidationFailed，逐字段给出细节
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
		return apperr.Validation(details...)
	}
	return apperr.Validation(err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "slug":
		return fmt.Sprintf("%s must be a lowercase slug", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
