package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/utils"
	"go.uber.org/zap"
)

// Recovery panic 转为 500 错误响应
func Recovery(log *zap.Logger) gin.HandlerFunc {
	// gin 自带的 panic 输出丢弃，统一走 zap
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		utils.Fail(c, apperr.Wrap(http.StatusInternalServerError, apperr.CodeUnknown, "internal server error",
			fmt.Errorf("panic: %v", recovered)))
	})
}
